package main

import "antaracc/cmd/client/cmd"

func main() {
	cmd.Execute()
}

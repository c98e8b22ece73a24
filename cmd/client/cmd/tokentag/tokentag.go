package tokentag

import (
	"fmt"

	"antaracc/cmd/client/cmd/appctx"
	"antaracc/internal/app/client/render"

	"github.com/spf13/cobra"
)

var TokenTagCmd = &cobra.Command{
	Use:   "tokentag",
	Short: "Модуль тегов токенов",
}

var AddressCmd = &cobra.Command{
	Use:   "address <pubkey>",
	Short: "CC-адрес ключа в модуле тегов",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, p, err := appctx.From(cmd)
		if err != nil {
			return err
		}
		addr, err := app.TokenTagAddress(args[0])
		if err != nil {
			return fmt.Errorf("ошибка расчета адреса: %w", err)
		}
		res := map[string]string{"pubkey": args[0], "address": addr}
		view := render.View{Headers: []string{"pubkey", "address"}, Rows: [][]string{{args[0], addr}}}
		return p.Print(res, view)
	},
}

package opret

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"antaracc/cmd/client/cmd/appctx"
	"antaracc/internal/app/client/render"

	"github.com/spf13/cobra"
)

var OpretCmd = &cobra.Command{
	Use:   "opret",
	Short: "Работа с OP_RETURN без сервера",
}

var DecodeCmd = &cobra.Command{
	Use:   "decode <hex>",
	Short: "Разобрать opret в запись модуля",
	Long: `Разбор выполняется локально. Eval-коды модулей берутся
из конфигурации (EVAL_TOKENS, EVAL_AGREEMENTS и т.д.).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, p, err := appctx.From(cmd)
		if err != nil {
			return err
		}
		rec, err := app.DecodeOpret(strings.TrimSpace(args[0]))
		if err != nil {
			return fmt.Errorf("ошибка разбора opret: %w", err)
		}
		view := render.View{Headers: []string{"type", "module", "funcid"}}
		row := []string{rec.Type, rec.Module, rec.FuncID}
		for _, k := range slices.Sorted(maps.Keys(rec.Fields)) {
			view.Headers = append(view.Headers, k)
			row = append(row, fmt.Sprint(rec.Fields[k]))
		}
		view.Rows = [][]string{row}
		return p.Print(rec, view)
	},
}

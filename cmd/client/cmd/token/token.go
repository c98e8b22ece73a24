package token

import (
	"fmt"
	"strconv"
	"strings"

	"antaracc/cmd/client/cmd/appctx"
	"antaracc/internal/app/client/render"
	"antaracc/internal/domain/query"

	"github.com/spf13/cobra"
)

var TokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Токены: список, владельцы, балансы, обновления",
}

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Все токены индекса",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, p, err := appctx.From(cmd)
		if err != nil {
			return err
		}
		list, err := app.TokenList(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка получения списка токенов: %w", err)
		}
		view := render.View{Headers: []string{"tokenid", "name", "supply", "origin"}, Notes: appctx.Skipped(list.Skipped)}
		for _, t := range list.Tokens {
			view.Rows = append(view.Rows, []string{t.TokenID, t.Name, itoa(t.Supply), t.Origin})
		}
		return p.Print(list, view)
	},
}

var InfoCmd = &cobra.Command{
	Use:   "info <tokenid>",
	Short: "Параметры токена",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, p, err := appctx.From(cmd)
		if err != nil {
			return err
		}
		info, err := app.TokenInfo(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("ошибка получения токена: %w", err)
		}
		row := []string{
			info.TokenID, info.Name, info.Description, itoa(info.Supply), info.Origin,
			info.TokenType, strconv.FormatFloat(info.OwnerPerc, 'f', -1, 64), strings.Join(info.Holders, ","),
		}
		if info.LatestUpdate != nil {
			row = append(row, info.LatestUpdate.TxID)
		} else {
			row = append(row, "-")
		}
		view := render.View{
			Headers: []string{"tokenid", "name", "description", "supply", "origin", "type", "ownerperc", "holders", "latest update"},
			Rows:    [][]string{row},
		}
		return p.Print(info, view)
	},
}

var ownersMin int64

var OwnersCmd = &cobra.Command{
	Use:   "owners <tokenid>",
	Short: "Текущие владельцы токена",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, p, err := appctx.From(cmd)
		if err != nil {
			return err
		}
		owners, err := app.TokenOwners(cmd.Context(), args[0], ownersMin)
		if err != nil {
			return fmt.Errorf("ошибка получения владельцев: %w", err)
		}
		view := render.View{Headers: []string{"pubkey", "address", "balance"}, Notes: appctx.Skipped(owners.Skipped)}
		for _, o := range owners.Owners {
			view.Rows = append(view.Rows, []string{orDash(o.PubKey), o.Address, itoa(o.Balance)})
		}
		return p.Print(owners, view)
	},
}

var OwnerHistoryCmd = &cobra.Command{
	Use:     "owner-history <tokenid>",
	Aliases: []string{"history"},
	Short:   "Смена владельцев неделимого токена",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, p, err := appctx.From(cmd)
		if err != nil {
			return err
		}
		owners, err := app.TokenOwnerHistory(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("ошибка получения истории владельцев: %w", err)
		}
		view := render.View{Headers: []string{"pubkey", "txid"}}
		for _, o := range owners {
			view.Rows = append(view.Rows, []string{o.PubKey, o.TxID})
		}
		return p.Print(owners, view)
	},
}

var updatesHistory appctx.History

var UpdatesCmd = &cobra.Command{
	Use:   "updates <tokenid>",
	Short: "Обновления токена, новые первыми",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, p, err := appctx.From(cmd)
		if err != nil {
			return err
		}
		updates, err := app.TokenUpdates(cmd.Context(), args[0], updatesHistory.Options())
		if err != nil {
			return fmt.Errorf("ошибка получения обновлений: %w", err)
		}
		return p.Print(updates, updatesView(updates))
	},
}

func updatesView(updates []query.TokenUpdateDTO) render.View {
	view := render.View{Headers: []string{"txid", "height", "value", "currency", "license", "datahash"}}
	for _, u := range updates {
		view.Rows = append(view.Rows, []string{
			u.TxID, itoa(u.Height), itoa(u.Value), u.CurrencyCode,
			orDash(strings.Join(u.License, ",")), orDash(u.DataHash),
		})
	}
	return view
}

var BalanceCmd = &cobra.Command{
	Use:   "balance <tokenid> <pubkey>",
	Short: "Баланс ключа в токене",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, p, err := appctx.From(cmd)
		if err != nil {
			return err
		}
		b, err := app.TokenBalance(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("ошибка получения баланса: %w", err)
		}
		view := render.View{
			Headers: []string{"tokenid", "address", "balance", "supply", "percent"},
			Rows: [][]string{{
				b.TokenID, b.Address, itoa(b.Balance), itoa(b.Supply),
				strconv.FormatFloat(b.Percent, 'f', 2, 64) + "%",
			}},
			Notes: appctx.Skipped(b.Skipped),
		}
		return p.Print(b, view)
	},
}

var inventoryMin int64

var InventoryCmd = &cobra.Command{
	Use:   "inventory <pubkey>",
	Short: "Токены, которыми владеет ключ",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, p, err := appctx.From(cmd)
		if err != nil {
			return err
		}
		inv, err := app.TokenInventory(cmd.Context(), args[0], inventoryMin)
		if err != nil {
			return fmt.Errorf("ошибка получения инвентаря: %w", err)
		}
		view := render.View{Headers: []string{"tokenid", "name", "balance"}, Notes: appctx.Skipped(inv.Skipped)}
		for _, t := range inv.Tokens {
			view.Rows = append(view.Rows, []string{t.TokenID, t.Name, itoa(t.Balance)})
		}
		return p.Print(inv, view)
	},
}

func init() {
	OwnersCmd.Flags().Int64Var(&ownersMin, "minbalance", 0, "минимальный баланс владельца")
	InventoryCmd.Flags().Int64Var(&inventoryMin, "minbalance", 0, "минимальный баланс")
	updatesHistory.Bind(UpdatesCmd)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package agreement

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"antaracc/cmd/client/cmd/appctx"
	"antaracc/internal/app/client/render"
	"antaracc/internal/domain/opret"
	"antaracc/internal/domain/query"

	"github.com/spf13/cobra"
)

var AgreementCmd = &cobra.Command{
	Use:   "agreement",
	Short: "Соглашения: предложения, контракты, споры",
}

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Все записи модуля соглашений",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, p, err := appctx.From(cmd)
		if err != nil {
			return err
		}
		list, err := app.AgreementList(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка получения соглашений: %w", err)
		}
		return p.Print(list, listView(list))
	},
}

var InventoryCmd = &cobra.Command{
	Use:   "inventory <pubkey>",
	Short: "Соглашения, где ключ участвует как сторона или посредник",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, p, err := appctx.From(cmd)
		if err != nil {
			return err
		}
		list, err := app.AgreementInventory(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("ошибка получения соглашений ключа: %w", err)
		}
		return p.Print(list, listView(list))
	},
}

func listView(list *query.AgreementListDTO) render.View {
	view := render.View{Headers: []string{"txid", "type", "name", "status"}, Notes: appctx.Skipped(list.Skipped)}
	for _, a := range list.Agreements {
		view.Rows = append(view.Rows, []string{a.TxID, a.Type, a.Name, string(a.Status)})
	}
	return view
}

var InfoCmd = &cobra.Command{
	Use:   "info <txid>",
	Short: "Запись соглашения и ее условия",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, p, err := appctx.From(cmd)
		if err != nil {
			return err
		}
		info, err := app.AgreementInfo(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("ошибка получения соглашения: %w", err)
		}
		terms := "-"
		if info.Terms != nil {
			terms = fields(*info.Terms)
		}
		view := render.View{
			Headers: []string{"txid", "height", "type", "status", "record", "terms", "updates", "disputes"},
			Rows: [][]string{{
				info.TxID, strconv.FormatInt(info.Height, 10), info.Type, string(info.Status),
				fields(info.Record), terms, strconv.Itoa(info.Updates), strconv.Itoa(info.Disputes),
			}},
		}
		return p.Print(info, view)
	},
}

var StatusCmd = &cobra.Command{
	Use:   "status <txid>",
	Short: "Состояние соглашения",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, p, err := appctx.From(cmd)
		if err != nil {
			return err
		}
		st, err := app.AgreementStatus(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("ошибка получения состояния: %w", err)
		}
		latest := st.LatestUpdate
		if latest == "" {
			latest = "-"
		}
		disputes := strings.Join(st.OpenDisputes, ",")
		if disputes == "" {
			disputes = "-"
		}
		view := render.View{
			Headers: []string{"txid", "status", "latest update", "open disputes"},
			Rows:    [][]string{{st.TxID, string(st.Status), latest, disputes}},
		}
		return p.Print(st, view)
	},
}

var updatesHistory appctx.History

var UpdatesCmd = &cobra.Command{
	Use:   "updates <txid>",
	Short: "Обновления контракта, новые первыми",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, p, err := appctx.From(cmd)
		if err != nil {
			return err
		}
		updates, err := app.AgreementUpdates(cmd.Context(), args[0], updatesHistory.Options())
		if err != nil {
			return fmt.Errorf("ошибка получения обновлений: %w", err)
		}
		return p.Print(updates, recordsView(updates))
	},
}

var disputesHistory appctx.History

var DisputesCmd = &cobra.Command{
	Use:   "disputes <txid>",
	Short: "Споры по контракту и их решения",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, p, err := appctx.From(cmd)
		if err != nil {
			return err
		}
		disputes, err := app.AgreementDisputes(cmd.Context(), args[0], disputesHistory.Options())
		if err != nil {
			return fmt.Errorf("ошибка получения споров: %w", err)
		}
		view := render.View{Headers: []string{"txid", "height", "type", "initiator", "resolution"}}
		for _, d := range disputes {
			resolution := d.Resolution
			if resolution == "" {
				resolution = "открыт"
			}
			view.Rows = append(view.Rows, []string{d.TxID, strconv.FormatInt(d.Height, 10), d.Type, d.Initiator, resolution})
		}
		return p.Print(disputes, view)
	},
}

var proposalsHistory appctx.History

var ProposalsCmd = &cobra.Command{
	Use:   "proposals <txid>",
	Short: "Цепочка поправок предложения",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, p, err := appctx.From(cmd)
		if err != nil {
			return err
		}
		history, err := app.ProposalHistory(cmd.Context(), args[0], proposalsHistory.Options())
		if err != nil {
			return fmt.Errorf("ошибка получения истории предложения: %w", err)
		}
		return p.Print(history, recordsView(history))
	},
}

func recordsView(records []query.RecordViewDTO) render.View {
	view := render.View{Headers: []string{"txid", "height", "type", "fields"}}
	for _, r := range records {
		view.Rows = append(view.Rows, []string{r.TxID, strconv.FormatInt(r.Height, 10), r.Record.Type, fields(r.Record)})
	}
	return view
}

func fields(rec opret.RecordDTO) string {
	keys := slices.Sorted(maps.Keys(rec.Fields))
	return strings.Join(render.Fields(rec.Fields, keys), " ")
}

func init() {
	updatesHistory.Bind(UpdatesCmd)
	disputesHistory.Bind(DisputesCmd)
	proposalsHistory.Bind(ProposalsCmd)
}

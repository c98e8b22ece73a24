// Package appctx передает клиент и принтер подкомандам через контекст cobra.
package appctx

import (
	"context"
	"errors"

	"antaracc/internal/app/client"
	"antaracc/internal/app/client/render"
	"antaracc/internal/domain/chain"
	"antaracc/internal/domain/query"

	"github.com/spf13/cobra"
)

type ctxKey struct{}

type deps struct {
	app     *client.App
	printer *render.Printer
}

var errNotInitialized = errors.New("приложение не инициализировано")

func With(ctx context.Context, app *client.App, printer *render.Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, deps{app: app, printer: printer})
}

func From(cmd *cobra.Command) (*client.App, *render.Printer, error) {
	d, ok := cmd.Context().Value(ctxKey{}).(deps)
	if !ok || d.app == nil {
		return nil, nil, errNotInitialized
	}
	return d.app, d.printer, nil
}

// History - флаги обхода истории: --samples и --recursive.
type History struct {
	samples   int
	recursive bool
}

func (h *History) Bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&h.samples, "samples", 0, "сколько записей вернуть (0 - по умолчанию сервера)")
	cmd.Flags().BoolVar(&h.recursive, "recursive", false, "обойти всю цепочку без ограничения")
}

func (h *History) Options() chain.HistoryOptions {
	return chain.HistoryOptions{MaxSamples: h.samples, Recursive: h.recursive}
}

// Skipped превращает пропущенные записи в примечания к выводу.
func Skipped(diags []query.DiagnosticDTO) []string {
	notes := make([]string, 0, len(diags))
	for _, d := range diags {
		notes = append(notes, "пропущено "+d.TxID+": "+d.Reason)
	}
	return notes
}

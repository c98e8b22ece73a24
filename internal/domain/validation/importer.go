package validation

import (
	"context"
	"fmt"

	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/ledger"

	"golang.org/x/exp/slog"
)

// Importer пропускает транзакцию через правила модулей и кладет ее в индекс.
type Importer struct {
	validator *Validator
	reader    ledger.Reader
	writer    ledger.Writer
	log       *slog.Logger
}

func NewImporter(validator *Validator, reader ledger.Reader, writer ledger.Writer, log *slog.Logger) *Importer {
	return &Importer{
		validator: validator,
		reader:    reader,
		writer:    writer,
		log:       log.With("component", "importer"),
	}
}

// Import индексирует транзакцию. Транзакции с записью модуля проходят
// Validate. Обычная транзакция принимается без правил, если не создает
// и не тратит CC-выходы.
func (i *Importer) Import(ctx context.Context, tx *ledger.Tx) (State, error) {
	plain, err := i.isPlain(ctx, tx)
	if err != nil {
		return "", err
	}

	state := Plain
	if !plain {
		if state, err = i.validator.Validate(ctx, tx); err != nil {
			return "", err
		}
	}

	if err := i.writer.AddTransaction(ctx, tx); err != nil {
		return "", fmt.Errorf("index transaction %s: %w", tx.ID, err)
	}
	i.log.Info("transaction indexed", "txid", tx.ID, "state", state)
	return state, nil
}

func (i *Importer) isPlain(ctx context.Context, tx *ledger.Tx) (bool, error) {
	if _, ok := tx.OpReturn(); ok {
		return false, nil
	}
	for _, out := range tx.Outputs {
		if out.IsCC() {
			return false, nil
		}
	}
	for _, in := range tx.Inputs {
		_, out, found, err := i.validator.sourceOutput(ctx, in)
		if err != nil {
			return false, err
		}
		if found && out.IsCC() {
			return false, cc.WithTx(cc.Malformed("spends CC output %s:%d without a module record",
				in.PrevOut.Hash, in.PrevOut.Index), tx.ID.String())
		}
	}
	return true, nil
}

package chain

import (
	"context"

	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/opret"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// HistoryOptions ограничивает обход назад. MaxSamples <= 0 или Recursive
// означают обход до предела walker'а.
type HistoryOptions struct {
	MaxSamples int
	Recursive  bool
}

// History идет от startID назад по ссылкам prev и возвращает шаги,
// начиная с самого нового. Повторное посещение id - LinkageViolation.
func (w *Walker) History(ctx context.Context, startID chainhash.Hash, opts HistoryOptions, prev PrevFunc) ([]Step, error) {
	limit := opts.MaxSamples
	bounded := !opts.Recursive && limit > 0
	if !bounded || limit > w.ceiling {
		limit = w.ceiling
	}

	var out []Step
	visited := make(map[chainhash.Hash]struct{})
	id := startID

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, seen := visited[id]; seen {
			return nil, cc.Linkage(id.String(), "history cycle detected")
		}
		visited[id] = struct{}{}

		step, err := w.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		next, ok := prev(step.Record)
		if !ok {
			return nil, cc.Linkage(id.String(), "unexpected %s record in history", opret.TypeName(step.Record))
		}
		out = append(out, step)

		if next == (chainhash.Hash{}) {
			break
		}
		if len(out) >= limit {
			if !bounded {
				return nil, cc.Linkage(startID.String(), "history longer than %d records", w.ceiling)
			}
			break
		}
		id = next
	}
	return out, nil
}

package chain

import (
	"context"
	"errors"
	"fmt"

	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/ledger"
	"antaracc/internal/domain/opret"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/exp/slog"
)

// DefaultCeiling - предел шагов для неограниченных обходов.
const DefaultCeiling = 1024

// Step - транзакция цепочки вместе с ее декодированной записью.
type Step struct {
	Tx     *ledger.Tx
	Record opret.Record
}

// Walker обходит граф транзакций: вперед по батонам и назад
// по ссылкам на предыдущие записи. Состояния между вызовами не хранит.
type Walker struct {
	reader  ledger.Reader
	codec   *opret.Codec
	addr    ledger.Addresser
	ceiling int
	log     *slog.Logger
}

func NewWalker(reader ledger.Reader, codec *opret.Codec, addr ledger.Addresser, ceiling int, log *slog.Logger) *Walker {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	return &Walker{
		reader:  reader,
		codec:   codec,
		addr:    addr,
		ceiling: ceiling,
		log:     log.With("component", "chain_walker"),
	}
}

func (w *Walker) Ceiling() int {
	return w.ceiling
}

// Load читает транзакцию и декодирует ее opret.
func (w *Walker) Load(ctx context.Context, id chainhash.Hash) (Step, error) {
	tx, err := w.reader.GetTransaction(ctx, id)
	if err != nil {
		return Step{}, mapLedgerError(err, id)
	}
	rec, err := w.codec.DecodeTx(tx)
	if err != nil {
		return Step{}, err
	}
	return Step{Tx: tx, Record: rec}, nil
}

// Spender возвращает транзакцию, потратившую выход, или nil, если выход не потрачен.
func (w *Walker) Spender(ctx context.Context, id chainhash.Hash, vout uint32) (*ledger.Tx, error) {
	tx, err := w.reader.GetSpendingTransaction(ctx, id, vout)
	if errors.Is(err, ledger.ErrUnspent) {
		return nil, nil
	}
	if err != nil {
		return nil, mapLedgerError(err, id)
	}
	return tx, nil
}

// BatonChain возвращает цепочку от сущности до последнего держателя батона.
// Первый элемент - сама сущность.
func (w *Walker) BatonChain(ctx context.Context, entityID chainhash.Hash, policy Policy) ([]Step, error) {
	entity, err := w.Load(ctx, entityID)
	if err != nil {
		return nil, err
	}

	chain := []Step{entity}
	visited := map[chainhash.Hash]struct{}{entityID: {}}
	cur, vout := entity, policy.Genesis

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if out, ok := cur.Tx.Output(vout); !ok || out.IsOpReturn() {
			break
		}
		next, err := w.Spender(ctx, cur.Tx.ID, vout)
		if err != nil {
			return nil, err
		}
		if next == nil {
			break
		}
		if _, seen := visited[next.ID]; seen {
			return nil, cc.Linkage(next.ID.String(), "%s chain revisits transaction", policy.Name)
		}
		if len(chain) >= w.ceiling {
			return nil, cc.Linkage(entityID.String(), "%s chain longer than %d steps", policy.Name, w.ceiling)
		}
		rec, err := w.codec.DecodeTx(next)
		if err != nil {
			return nil, err
		}
		if policy.Link != nil && !policy.Link(entityID, cur.Tx.ID, rec) {
			return nil, cc.Linkage(next.ID.String(), "%s baton spent by unrelated %s record", policy.Name, opret.TypeName(rec))
		}

		visited[next.ID] = struct{}{}
		cur = Step{Tx: next, Record: rec}
		chain = append(chain, cur)
		vout = policy.Successor
	}

	w.log.Debug("baton chain walked", "policy", policy.Name, "entity", entityID, "steps", len(chain))
	return chain, nil
}

// LatestUpdate возвращает последнего держателя батона. Если батон ни разу
// не тратился, возвращается сама сущность.
func (w *Walker) LatestUpdate(ctx context.Context, entityID chainhash.Hash, policy Policy) (Step, error) {
	chain, err := w.BatonChain(ctx, entityID, policy)
	if err != nil {
		return Step{}, err
	}
	return chain[len(chain)-1], nil
}

// BatonOutPoint - текущий выход-батон для последнего шага цепочки.
func BatonOutPoint(entityID chainhash.Hash, latest Step, policy Policy) ledger.OutPoint {
	if latest.Tx.ID == entityID {
		return ledger.OutPoint{Hash: entityID, Index: policy.Genesis}
	}
	return ledger.OutPoint{Hash: latest.Tx.ID, Index: policy.Successor}
}

func mapLedgerError(err error, id chainhash.Hash) error {
	if errors.Is(err, ledger.ErrNotFound) {
		return cc.NotFound(id.String())
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("ledger lookup %s: %w", id, err)
}

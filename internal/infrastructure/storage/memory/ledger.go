package memory

import (
	"context"
	"fmt"
	"sync"

	"antaracc/internal/domain/ledger"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/exp/slog"
)

// Ledger - индекс транзакций в памяти. Используется в тестах,
// для локального запуска и как загрузчик фикстур.
type Ledger struct {
	mu        sync.RWMutex
	txs       map[chainhash.Hash]*ledger.Tx
	spentBy   map[ledger.OutPoint]chainhash.Hash
	byAddress map[string][]ledger.OutPoint
	height    int64
	log       *slog.Logger
}

var _ ledger.Repository = (*Ledger)(nil)

func New(log *slog.Logger) *Ledger {
	return &Ledger{
		txs:       make(map[chainhash.Hash]*ledger.Tx),
		spentBy:   make(map[ledger.OutPoint]chainhash.Hash),
		byAddress: make(map[string][]ledger.OutPoint),
		log:       log.With("component", "memory_ledger"),
	}
}

func (l *Ledger) GetTransaction(ctx context.Context, id chainhash.Hash) (*ledger.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	tx, ok := l.txs[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return tx, nil
}

func (l *Ledger) GetSpendingTransaction(ctx context.Context, id chainhash.Hash, vout uint32) (*ledger.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	spender, ok := l.spentBy[ledger.OutPoint{Hash: id, Index: vout}]
	if !ok {
		return nil, ledger.ErrUnspent
	}
	return l.txs[spender], nil
}

// GetOutputsAtAddress возвращает непотраченные выходы по адресу
// в порядке добавления.
func (l *Ledger) GetOutputsAtAddress(ctx context.Context, address string) ([]ledger.AddressOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []ledger.AddressOutput
	for _, op := range l.byAddress[address] {
		if _, spent := l.spentBy[op]; spent {
			continue
		}
		out = append(out, ledger.AddressOutput{Tx: l.txs[op.Hash], Index: op.Index})
	}
	return out, nil
}

func (l *Ledger) CurrentHeight(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.height, nil
}

// AddTransaction индексирует транзакцию. Повторный txid и повторная
// трата одного выхода отклоняются с ledger.ErrConflict.
func (l *Ledger) AddTransaction(ctx context.Context, tx *ledger.Tx) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.txs[tx.ID]; exists {
		return fmt.Errorf("%w: transaction %s already indexed", ledger.ErrConflict, tx.ID)
	}
	seen := make(map[ledger.OutPoint]struct{}, len(tx.Inputs))
	for _, in := range tx.Inputs {
		if spender, ok := l.spentBy[in.PrevOut]; ok {
			return fmt.Errorf("%w: output %s:%d already spent by %s",
				ledger.ErrConflict, in.PrevOut.Hash, in.PrevOut.Index, spender)
		}
		if _, dup := seen[in.PrevOut]; dup {
			return fmt.Errorf("%w: output %s:%d spent twice",
				ledger.ErrConflict, in.PrevOut.Hash, in.PrevOut.Index)
		}
		seen[in.PrevOut] = struct{}{}
	}

	stored := *tx
	if stored.Height == 0 {
		stored.Height = l.height + 1
	}
	if stored.Height > l.height {
		l.height = stored.Height
	}

	l.txs[stored.ID] = &stored
	for _, in := range stored.Inputs {
		l.spentBy[in.PrevOut] = stored.ID
	}
	for i, out := range stored.Outputs {
		if out.IsOpReturn() || out.Address == "" {
			continue
		}
		op := ledger.OutPoint{Hash: stored.ID, Index: uint32(i)}
		l.byAddress[out.Address] = append(l.byAddress[out.Address], op)
	}

	l.log.Debug("transaction indexed", "txid", stored.ID, "height", stored.Height,
		"inputs", len(stored.Inputs), "outputs", len(stored.Outputs))
	return nil
}

func (l *Ledger) Close() error {
	return nil
}

package ledger

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Reader - коллаборатор, предоставляющий доступ к зафиксированным транзакциям.
type Reader interface {
	GetTransaction(ctx context.Context, id chainhash.Hash) (*Tx, error)
	GetSpendingTransaction(ctx context.Context, id chainhash.Hash, vout uint32) (*Tx, error)
	GetOutputsAtAddress(ctx context.Context, address string) ([]AddressOutput, error)
	CurrentHeight(ctx context.Context) (int64, error)
}

// Writer наполняет индекс уже принятыми транзакциями.
type Writer interface {
	AddTransaction(ctx context.Context, tx *Tx) error
}

type Repository interface {
	Reader
	Writer
	Close() error
}

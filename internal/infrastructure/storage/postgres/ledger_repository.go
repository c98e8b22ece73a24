package postgres

import (
	"context"
	"errors"
	"fmt"

	"antaracc/internal/domain/ledger"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"
)

// uniqueViolation - SQLSTATE нарушения уникальности.
const uniqueViolation = "23505"

// querier - общее у пула и транзакции pgx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type LedgerRepository struct {
	storage *Storage
	pool    *pgxpool.Pool
	log     *slog.Logger
}

var _ ledger.Repository = (*LedgerRepository)(nil)

func NewLedgerRepository(storage *Storage, log *slog.Logger) *LedgerRepository {
	return &LedgerRepository{
		storage: storage,
		pool:    storage.Pool(),
		log:     log.With("component", "ledger_repository"),
	}
}

func (r *LedgerRepository) GetTransaction(ctx context.Context, id chainhash.Hash) (*ledger.Tx, error) {
	tx, err := loadTx(ctx, r.pool, id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, err
		}
		r.log.Error("failed to get transaction", "txid", id, "error", err)
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (r *LedgerRepository) GetSpendingTransaction(ctx context.Context, id chainhash.Hash, vout uint32) (*ledger.Tx, error) {
	const query = `SELECT txid FROM tx_inputs WHERE prev_txid = $1 AND prev_vout = $2`

	var spender []byte
	err := r.pool.QueryRow(ctx, query, id[:], int64(vout)).Scan(&spender)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrUnspent
		}
		r.log.Error("failed to find spender", "txid", id, "vout", vout, "error", err)
		return nil, fmt.Errorf("find spender: %w", err)
	}
	sid, err := chainhash.NewHash(spender)
	if err != nil {
		return nil, fmt.Errorf("scan spender id: %w", err)
	}
	return r.GetTransaction(ctx, *sid)
}

func (r *LedgerRepository) GetOutputsAtAddress(ctx context.Context, address string) ([]ledger.AddressOutput, error) {
	const query = `
		SELECT o.txid, o.vout
		FROM tx_outputs o
		JOIN transactions t ON t.txid = o.txid
		LEFT JOIN tx_inputs i ON i.prev_txid = o.txid AND i.prev_vout = o.vout
		WHERE o.address = $1 AND i.txid IS NULL
		ORDER BY t.height, o.txid, o.vout`

	rows, err := r.pool.Query(ctx, query, address)
	if err != nil {
		r.log.Error("failed to list outputs", "address", address, "error", err)
		return nil, fmt.Errorf("list outputs: %w", err)
	}
	var points []ledger.OutPoint
	for rows.Next() {
		var (
			raw  []byte
			vout int64
		)
		if err := rows.Scan(&raw, &vout); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan output: %w", err)
		}
		h, err := chainhash.NewHash(raw)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan output txid: %w", err)
		}
		points = append(points, ledger.OutPoint{Hash: *h, Index: uint32(vout)})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list outputs: %w", err)
	}

	txs := make(map[chainhash.Hash]*ledger.Tx)
	out := make([]ledger.AddressOutput, 0, len(points))
	for _, op := range points {
		tx, ok := txs[op.Hash]
		if !ok {
			if tx, err = r.GetTransaction(ctx, op.Hash); err != nil {
				return nil, err
			}
			txs[op.Hash] = tx
		}
		out = append(out, ledger.AddressOutput{Tx: tx, Index: op.Index})
	}
	return out, nil
}

func (r *LedgerRepository) CurrentHeight(ctx context.Context) (int64, error) {
	const query = `SELECT COALESCE(MAX(height), 0) FROM transactions`

	var height int64
	if err := r.pool.QueryRow(ctx, query).Scan(&height); err != nil {
		r.log.Error("failed to get height", "error", err)
		return 0, fmt.Errorf("current height: %w", err)
	}
	return height, nil
}

// AddTransaction индексирует транзакцию атомарно. Повторный txid или
// уже потраченный вход - ledger.ErrConflict.
func (r *LedgerRepository) AddTransaction(ctx context.Context, tx *ledger.Tx) error {
	dbtx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = dbtx.Rollback(ctx) }()

	height := tx.Height
	if height == 0 {
		if err := dbtx.QueryRow(ctx, `SELECT COALESCE(MAX(height), 0) + 1 FROM transactions`).Scan(&height); err != nil {
			return fmt.Errorf("next height: %w", err)
		}
	}

	tag, err := dbtx.Exec(ctx,
		`INSERT INTO transactions (txid, height) VALUES ($1, $2) ON CONFLICT (txid) DO NOTHING`,
		tx.ID[:], height)
	if err != nil {
		r.log.Error("failed to insert transaction", "txid", tx.ID, "error", err)
		return fmt.Errorf("insert transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s already indexed", ledger.ErrConflict, tx.ID)
	}

	batch := &pgx.Batch{}
	for n, in := range tx.Inputs {
		batch.Queue(`INSERT INTO tx_inputs (txid, n, prev_txid, prev_vout, signer) VALUES ($1, $2, $3, $4, $5)`,
			tx.ID[:], int64(n), in.PrevOut.Hash[:], int64(in.PrevOut.Index), in.Signer)
	}
	for vout, out := range tx.Outputs {
		batch.Queue(`INSERT INTO tx_outputs (txid, vout, value, address, eval_code, op_return) VALUES ($1, $2, $3, $4, $5, $6)`,
			tx.ID[:], int64(vout), out.Value, out.Address, int16(out.EvalCode), out.OpReturn)
	}
	if err := dbtx.SendBatch(ctx, batch).Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: transaction %s spends an output twice", ledger.ErrConflict, tx.ID)
		}
		r.log.Error("failed to insert transaction body", "txid", tx.ID, "error", err)
		return fmt.Errorf("insert transaction body: %w", err)
	}

	if err := dbtx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.log.Debug("transaction indexed", "txid", tx.ID, "height", height)
	return nil
}

func (r *LedgerRepository) Close() error {
	return r.storage.Close()
}

func loadTx(ctx context.Context, q querier, id chainhash.Hash) (*ledger.Tx, error) {
	tx := &ledger.Tx{ID: id}
	err := q.QueryRow(ctx, `SELECT height FROM transactions WHERE txid = $1`, id[:]).Scan(&tx.Height)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT prev_txid, prev_vout, signer FROM tx_inputs WHERE txid = $1 ORDER BY n`, id[:])
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var (
			prev   []byte
			vout   int64
			signer []byte
		)
		if err := rows.Scan(&prev, &vout, &signer); err != nil {
			rows.Close()
			return nil, err
		}
		h, err := chainhash.NewHash(prev)
		if err != nil {
			rows.Close()
			return nil, err
		}
		tx.Inputs = append(tx.Inputs, ledger.TxIn{PrevOut: ledger.OutPoint{Hash: *h, Index: uint32(vout)}, Signer: signer})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = q.Query(ctx, `SELECT value, address, eval_code, op_return FROM tx_outputs WHERE txid = $1 ORDER BY vout`, id[:])
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			out  ledger.TxOut
			eval int16
		)
		if err := rows.Scan(&out.Value, &out.Address, &eval, &out.OpReturn); err != nil {
			return nil, err
		}
		out.EvalCode = uint8(eval)
		tx.Outputs = append(tx.Outputs, out)
	}
	return tx, rows.Err()
}

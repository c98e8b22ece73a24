package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"antaracc/internal/domain/ledger"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"
)

// Ledger - встраиваемый индекс транзакций в файле SQLite.
type Ledger struct {
	db  *sql.DB
	log *slog.Logger
}

var _ ledger.Repository = (*Ledger)(nil)

func Open(path string, log *slog.Logger) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	l, err := New(db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

// New оборачивает готовое соединение и создает таблицы, если их нет.
func New(db *sql.DB, log *slog.Logger) (*Ledger, error) {
	l := &Ledger{db: db, log: log.With("component", "sqlite_ledger")}
	if err := l.initTables(); err != nil {
		return nil, fmt.Errorf("init tables: %w", err)
	}
	return l, nil
}

func (l *Ledger) initTables() error {
	_, err := l.db.Exec(`
		CREATE TABLE IF NOT EXISTS transactions (
			txid BLOB PRIMARY KEY,
			height INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tx_inputs (
			txid BLOB NOT NULL REFERENCES transactions(txid) ON DELETE CASCADE,
			n INTEGER NOT NULL,
			prev_txid BLOB NOT NULL,
			prev_vout INTEGER NOT NULL,
			signer BLOB,
			PRIMARY KEY (txid, n),
			UNIQUE (prev_txid, prev_vout)
		);

		CREATE TABLE IF NOT EXISTS tx_outputs (
			txid BLOB NOT NULL REFERENCES transactions(txid) ON DELETE CASCADE,
			vout INTEGER NOT NULL,
			value INTEGER NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			eval_code INTEGER NOT NULL DEFAULT 0,
			op_return BLOB,
			PRIMARY KEY (txid, vout)
		);

		CREATE INDEX IF NOT EXISTS idx_tx_outputs_address ON tx_outputs(address);
	`)
	return err
}

func (l *Ledger) GetTransaction(ctx context.Context, id chainhash.Hash) (*ledger.Tx, error) {
	tx, err := l.loadTx(ctx, id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, err
		}
		l.log.Error("failed to get transaction", "txid", id, "error", err)
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (l *Ledger) loadTx(ctx context.Context, id chainhash.Hash) (*ledger.Tx, error) {
	tx := &ledger.Tx{ID: id}
	err := l.db.QueryRowContext(ctx, `SELECT height FROM transactions WHERE txid = ?`, id[:]).Scan(&tx.Height)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := l.db.QueryContext(ctx, `SELECT prev_txid, prev_vout, signer FROM tx_inputs WHERE txid = ? ORDER BY n`, id[:])
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var (
			prev   []byte
			vout   uint32
			signer []byte
		)
		if err := rows.Scan(&prev, &vout, &signer); err != nil {
			_ = rows.Close()
			return nil, err
		}
		h, err := chainhash.NewHash(prev)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		if len(signer) == 0 {
			signer = nil
		}
		tx.Inputs = append(tx.Inputs, ledger.TxIn{PrevOut: ledger.OutPoint{Hash: *h, Index: vout}, Signer: signer})
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = l.db.QueryContext(ctx, `SELECT value, address, eval_code, op_return FROM tx_outputs WHERE txid = ? ORDER BY vout`, id[:])
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var out ledger.TxOut
		if err := rows.Scan(&out.Value, &out.Address, &out.EvalCode, &out.OpReturn); err != nil {
			return nil, err
		}
		if len(out.OpReturn) == 0 {
			out.OpReturn = nil
		}
		tx.Outputs = append(tx.Outputs, out)
	}
	return tx, rows.Err()
}

func (l *Ledger) GetSpendingTransaction(ctx context.Context, id chainhash.Hash, vout uint32) (*ledger.Tx, error) {
	var spender []byte
	err := l.db.QueryRowContext(ctx,
		`SELECT txid FROM tx_inputs WHERE prev_txid = ? AND prev_vout = ?`, id[:], vout).Scan(&spender)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrUnspent
	}
	if err != nil {
		l.log.Error("failed to find spender", "txid", id, "vout", vout, "error", err)
		return nil, fmt.Errorf("find spender: %w", err)
	}
	sid, err := chainhash.NewHash(spender)
	if err != nil {
		return nil, fmt.Errorf("scan spender id: %w", err)
	}
	return l.GetTransaction(ctx, *sid)
}

func (l *Ledger) GetOutputsAtAddress(ctx context.Context, address string) ([]ledger.AddressOutput, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT o.txid, o.vout
		FROM tx_outputs o
		JOIN transactions t ON t.txid = o.txid
		LEFT JOIN tx_inputs i ON i.prev_txid = o.txid AND i.prev_vout = o.vout
		WHERE o.address = ? AND i.txid IS NULL
		ORDER BY t.height, o.txid, o.vout`, address)
	if err != nil {
		l.log.Error("failed to list outputs", "address", address, "error", err)
		return nil, fmt.Errorf("list outputs: %w", err)
	}
	var points []ledger.OutPoint
	for rows.Next() {
		var (
			raw  []byte
			vout uint32
		)
		if err := rows.Scan(&raw, &vout); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan output: %w", err)
		}
		h, err := chainhash.NewHash(raw)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan output txid: %w", err)
		}
		points = append(points, ledger.OutPoint{Hash: *h, Index: vout})
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list outputs: %w", err)
	}

	txs := make(map[chainhash.Hash]*ledger.Tx)
	out := make([]ledger.AddressOutput, 0, len(points))
	for _, op := range points {
		tx, ok := txs[op.Hash]
		if !ok {
			if tx, err = l.GetTransaction(ctx, op.Hash); err != nil {
				return nil, err
			}
			txs[op.Hash] = tx
		}
		out = append(out, ledger.AddressOutput{Tx: tx, Index: op.Index})
	}
	return out, nil
}

func (l *Ledger) CurrentHeight(ctx context.Context) (int64, error) {
	var height int64
	if err := l.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(height), 0) FROM transactions`).Scan(&height); err != nil {
		l.log.Error("failed to get height", "error", err)
		return 0, fmt.Errorf("current height: %w", err)
	}
	return height, nil
}

// AddTransaction индексирует транзакцию в одной транзакции БД.
func (l *Ledger) AddTransaction(ctx context.Context, tx *ledger.Tx) error {
	dbtx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = dbtx.Rollback() }()

	height := tx.Height
	if height == 0 {
		if err := dbtx.QueryRowContext(ctx, `SELECT COALESCE(MAX(height), 0) + 1 FROM transactions`).Scan(&height); err != nil {
			return fmt.Errorf("next height: %w", err)
		}
	}

	if _, err := dbtx.ExecContext(ctx, `INSERT INTO transactions (txid, height) VALUES (?, ?)`, tx.ID[:], height); err != nil {
		if isUnique(err) {
			return fmt.Errorf("%w: transaction %s already indexed", ledger.ErrConflict, tx.ID)
		}
		l.log.Error("failed to insert transaction", "txid", tx.ID, "error", err)
		return fmt.Errorf("insert transaction: %w", err)
	}
	for n, in := range tx.Inputs {
		_, err := dbtx.ExecContext(ctx,
			`INSERT INTO tx_inputs (txid, n, prev_txid, prev_vout, signer) VALUES (?, ?, ?, ?, ?)`,
			tx.ID[:], n, in.PrevOut.Hash[:], in.PrevOut.Index, in.Signer)
		if err != nil {
			if isUnique(err) {
				return fmt.Errorf("%w: output %s:%d already spent", ledger.ErrConflict, in.PrevOut.Hash, in.PrevOut.Index)
			}
			return fmt.Errorf("insert input %d: %w", n, err)
		}
	}
	for vout, out := range tx.Outputs {
		_, err := dbtx.ExecContext(ctx,
			`INSERT INTO tx_outputs (txid, vout, value, address, eval_code, op_return) VALUES (?, ?, ?, ?, ?, ?)`,
			tx.ID[:], vout, out.Value, out.Address, out.EvalCode, out.OpReturn)
		if err != nil {
			return fmt.Errorf("insert output %d: %w", vout, err)
		}
	}

	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	l.log.Debug("transaction indexed", "txid", tx.ID, "height", height)
	return nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

func isUnique(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

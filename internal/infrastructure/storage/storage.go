// Package storage выбирает реализацию индекса транзакций по конфигурации.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"antaracc/internal/config"
	"antaracc/internal/domain/ledger"
	"antaracc/internal/infrastructure/storage/memory"
	"antaracc/internal/infrastructure/storage/postgres"
	"antaracc/internal/infrastructure/storage/sqlite"

	"golang.org/x/exp/slog"
)

// Open создает индекс для DB_DRIVER. Для postgres перед этим накатываются миграции.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (ledger.Repository, error) {
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		s, err := postgres.New(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return postgres.NewLedgerRepository(s, log), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DB.SQLitePath, log)
	case config.DriverMemory, "":
		return memory.New(log), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.DB.Driver)
}

// LoadFixture читает JSON-массив транзакций (формат ledger.TxDTO)
// и добавляет их в индекс по порядку. Возвращает число добавленных.
func LoadFixture(ctx context.Context, w ledger.Writer, path string, log *slog.Logger) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read fixture: %w", err)
	}
	var dtos []ledger.TxDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return 0, fmt.Errorf("parse fixture: %w", err)
	}
	for i, d := range dtos {
		tx, err := d.ToTx()
		if err != nil {
			return i, fmt.Errorf("fixture tx %d: %w", i, err)
		}
		if err := w.AddTransaction(ctx, tx); err != nil {
			return i, fmt.Errorf("fixture tx %d: %w", i, err)
		}
	}
	log.Info("ledger fixture loaded", "path", path, "transactions", len(dtos))
	return len(dtos), nil
}

// GET  /api/v1/health                              # Проверка доступности
// GET  /api/v1/tokens                              # Список токенов
// GET  /api/v1/tokens/{id}                         # Токен
// GET  /api/v1/tokens/{id}/owners                  # Владельцы
// GET  /api/v1/tokens/{id}/owner-history           # История владельцев
// GET  /api/v1/tokens/{id}/updates                 # Обновления токена
// GET  /api/v1/tokens/{id}/balance/{pubkey}        # Баланс ключа
// GET  /api/v1/pubkeys/{pubkey}/tokens             # Токены ключа
// GET  /api/v1/pubkeys/{pubkey}/agreements         # Соглашения ключа
// GET  /api/v1/pubkeys/{pubkey}/tokentag-address   # Адрес тегов
// GET  /api/v1/agreements                          # Список соглашений
// GET  /api/v1/agreements/{id}                     # Соглашение
// GET  /api/v1/agreements/{id}/status              # Состояние
// GET  /api/v1/agreements/{id}/updates             # Обновления контракта
// GET  /api/v1/agreements/{id}/disputes            # Споры
// GET  /api/v1/proposals/{id}/history              # Поправки предложения
// POST /api/v1/opret/decode                        # Разбор opret
// POST /api/v1/transactions/validate               # Проверка транзакции
// POST /api/v1/transactions                        # Проверка и индексация

package api

import (
	agreementAPI "antaracc/internal/app/server/api/http/agreement"
	healthAPI "antaracc/internal/app/server/api/http/health"
	"antaracc/internal/app/server/api/http/middleware"
	"antaracc/internal/app/server/api/http/middleware/logger"
	"antaracc/internal/app/server/api/http/middleware/requestid"
	pubkeyAPI "antaracc/internal/app/server/api/http/pubkey"
	tokenAPI "antaracc/internal/app/server/api/http/token"
	transactionAPI "antaracc/internal/app/server/api/http/transaction"
	"antaracc/internal/config"
	"antaracc/internal/domain/chain"
	"antaracc/internal/domain/ledger"
	"antaracc/internal/domain/opret"
	"antaracc/internal/domain/query"
	"antaracc/internal/domain/validation"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health      *healthAPI.Handler
	Token       *tokenAPI.Handler
	PubKey      *pubkeyAPI.Handler
	Agreement   *agreementAPI.Handler
	Transaction *transactionAPI.Handler
}

// New создает *chi.Mux со всеми операциями через huma.Register
func New(repo ledger.Repository, cfg *config.Config, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	humaConfig := huma.DefaultConfig("Antara CC API", "1.0.0")
	API := humachi.New(mux, humaConfig)

	h := handlers(repo, cfg, log)
	h.Health.SetupRoutes(API)
	h.Token.SetupRoutes(API)
	h.PubKey.SetupRoutes(API)
	h.Agreement.SetupRoutes(API)
	h.Transaction.SetupRoutes(API)

	return mux
}

func handlers(repo ledger.Repository, cfg *config.Config, log *slog.Logger) *Handlers {
	codec := opret.NewCodec(cfg.Chain.Modules, log)
	addr := ledger.NewAddressBook()
	walker := chain.NewWalker(repo, codec, addr, cfg.Chain.WalkCeiling, log)
	queryService := query.NewService(repo, codec, addr, walker, log)
	validator := validation.NewValidator(repo, codec, addr, walker, log)
	importer := validation.NewImporter(validator, repo, repo, log)

	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(requestid.Middleware(), loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(repo, log, middlewares.GetAllAndClear())

	middlewares.Add(requestid.Middleware(), loggerMW.Middleware())
	tokenHandler := tokenAPI.NewHandler(queryService, log, middlewares.GetAllAndClear())

	middlewares.Add(requestid.Middleware(), loggerMW.Middleware())
	pubkeyHandler := pubkeyAPI.NewHandler(queryService, log, middlewares.GetAllAndClear())

	middlewares.Add(requestid.Middleware(), loggerMW.Middleware())
	agreementHandler := agreementAPI.NewHandler(queryService, log, middlewares.GetAllAndClear())

	middlewares.Add(requestid.Middleware(), loggerMW.Middleware())
	transactionHandler := transactionAPI.NewHandler(codec, validator, importer, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:      healthHandler,
		Token:       tokenHandler,
		PubKey:      pubkeyHandler,
		Agreement:   agreementHandler,
		Transaction: transactionHandler,
	}
}

package token

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "tokens-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/tokens",
		Summary:     "Список токенов",
		Description: "Все токены, созданные в леджере. Записи, которые не удалось разобрать, попадают в skipped.",
		Tags:        []string{"tokens"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) infoOp() huma.Operation {
	return huma.Operation{
		OperationID: "tokens-info",
		Method:      http.MethodGet,
		Path:        "/api/v1/tokens/{id}",
		Summary:     "Информация о токене",
		Tags:        []string{"tokens"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) ownersOp() huma.Operation {
	return huma.Operation{
		OperationID: "tokens-owners",
		Method:      http.MethodGet,
		Path:        "/api/v1/tokens/{id}/owners",
		Summary:     "Текущие владельцы токена",
		Tags:        []string{"tokens"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) ownerHistoryOp() huma.Operation {
	return huma.Operation{
		OperationID: "tokens-owner-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/tokens/{id}/owner-history",
		Summary:     "История владельцев токена",
		Tags:        []string{"tokens"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updatesOp() huma.Operation {
	return huma.Operation{
		OperationID: "tokens-updates",
		Method:      http.MethodGet,
		Path:        "/api/v1/tokens/{id}/updates",
		Summary:     "Обновления токена, новые первыми",
		Tags:        []string{"tokens"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) balanceOp() huma.Operation {
	return huma.Operation{
		OperationID: "tokens-balance",
		Method:      http.MethodGet,
		Path:        "/api/v1/tokens/{id}/balance/{pubkey}",
		Summary:     "Баланс и доля владения по ключу",
		Tags:        []string{"tokens"},
		Middlewares: h.middleware,
	}
}

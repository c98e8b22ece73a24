package agreement

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "agreements-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/agreements",
		Summary:     "Список предложений и контрактов",
		Tags:        []string{"agreements"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) infoOp() huma.Operation {
	return huma.Operation{
		OperationID: "agreements-info",
		Method:      http.MethodGet,
		Path:        "/api/v1/agreements/{id}",
		Summary:     "Запись соглашения с условиями и состоянием",
		Tags:        []string{"agreements"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) statusOp() huma.Operation {
	return huma.Operation{
		OperationID: "agreements-status",
		Method:      http.MethodGet,
		Path:        "/api/v1/agreements/{id}/status",
		Summary:     "Состояние соглашения",
		Description: "Для контракта: terminated, disputed, resolved, updated или active. Для предложения: draft, pending, amended, closed или accepted.",
		Tags:        []string{"agreements"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updatesOp() huma.Operation {
	return huma.Operation{
		OperationID: "agreements-updates",
		Method:      http.MethodGet,
		Path:        "/api/v1/agreements/{id}/updates",
		Summary:     "Обновления контракта, новые первыми",
		Tags:        []string{"agreements"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) disputesOp() huma.Operation {
	return huma.Operation{
		OperationID: "agreements-disputes",
		Method:      http.MethodGet,
		Path:        "/api/v1/agreements/{id}/disputes",
		Summary:     "Споры обеих сторон, новые первыми",
		Tags:        []string{"agreements"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) proposalHistoryOp() huma.Operation {
	return huma.Operation{
		OperationID: "proposals-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/proposals/{id}/history",
		Summary:     "Цепочка поправок предложения",
		Tags:        []string{"agreements", "proposals"},
		Middlewares: h.middleware,
	}
}

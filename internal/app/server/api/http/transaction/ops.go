package transaction

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) decodeOp() huma.Operation {
	return huma.Operation{
		OperationID: "opret-decode",
		Method:      http.MethodPost,
		Path:        "/api/v1/opret/decode",
		Summary:     "Разобрать opret",
		Tags:        []string{"opret"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) validateOp() huma.Operation {
	return huma.Operation{
		OperationID: "transactions-validate",
		Method:      http.MethodPost,
		Path:        "/api/v1/transactions/validate",
		Summary:     "Проверить транзакцию без записи в индекс",
		Description: "Нарушение правил модуля возвращается как 422 с видом нарушения в errors.",
		Tags:        []string{"transactions"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) importOp() huma.Operation {
	return huma.Operation{
		OperationID:   "transactions-import",
		Method:        http.MethodPost,
		Path:          "/api/v1/transactions",
		Summary:       "Проверить и проиндексировать зафиксированную транзакцию",
		Tags:          []string{"transactions"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   h.middleware,
	}
}

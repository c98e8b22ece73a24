package pubkey

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) tokensOp() huma.Operation {
	return huma.Operation{
		OperationID: "pubkeys-tokens",
		Method:      http.MethodGet,
		Path:        "/api/v1/pubkeys/{pubkey}/tokens",
		Summary:     "Токены на CC-адресе ключа",
		Tags:        []string{"pubkeys", "tokens"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) agreementsOp() huma.Operation {
	return huma.Operation{
		OperationID: "pubkeys-agreements",
		Method:      http.MethodGet,
		Path:        "/api/v1/pubkeys/{pubkey}/agreements",
		Summary:     "Соглашения, где ключ - сторона или посредник",
		Tags:        []string{"pubkeys", "agreements"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) tokenTagAddressOp() huma.Operation {
	return huma.Operation{
		OperationID: "pubkeys-tokentag-address",
		Method:      http.MethodGet,
		Path:        "/api/v1/pubkeys/{pubkey}/tokentag-address",
		Summary:     "Адрес ключа в модуле тегов токенов",
		Tags:        []string{"pubkeys"},
		Middlewares: h.middleware,
	}
}

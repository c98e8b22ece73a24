package pubkey

import (
	"context"

	"antaracc/internal/app/server/api/http/param"
	"antaracc/internal/app/server/api/http/problem"
	"antaracc/internal/domain/query"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// Handler отдает проекции, построенные вокруг одного публичного ключа.
type Handler struct {
	service    query.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service query.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.tokensOp(), h.tokens)
	huma.Register(api, h.agreementsOp(), h.agreements)
	huma.Register(api, h.tokenTagAddressOp(), h.tokenTagAddress)
}

func (h *Handler) tokens(ctx context.Context, input *tokensInput) (*tokensOutput, error) {
	pk, err := param.PubKey(input.PubKey)
	if err != nil {
		return nil, err
	}
	inv, err := h.service.TokenInventory(ctx, pk, input.MinBalance)
	if err != nil {
		return nil, problem.From(h.log, err)
	}
	return &tokensOutput{Body: inv.DTO()}, nil
}

func (h *Handler) agreements(ctx context.Context, input *pubkeyInput) (*agreementsOutput, error) {
	pk, err := param.PubKey(input.PubKey)
	if err != nil {
		return nil, err
	}
	list, err := h.service.AgreementInventory(ctx, pk)
	if err != nil {
		return nil, problem.From(h.log, err)
	}
	return &agreementsOutput{Body: list.DTO()}, nil
}

func (h *Handler) tokenTagAddress(_ context.Context, input *pubkeyInput) (*addressOutput, error) {
	pk, err := param.PubKey(input.PubKey)
	if err != nil {
		return nil, err
	}
	addr, err := h.service.TokenTagAddress(pk)
	if err != nil {
		return nil, problem.From(h.log, err)
	}
	return &addressOutput{Body: addressResponse{PubKey: input.PubKey, Address: addr}}, nil
}

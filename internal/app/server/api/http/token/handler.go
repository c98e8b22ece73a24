package token

import (
	"context"

	"antaracc/internal/app/server/api/http/param"
	"antaracc/internal/app/server/api/http/problem"
	"antaracc/internal/domain/query"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	service    query.TokenQuerier
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service query.TokenQuerier, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.infoOp(), h.info)
	huma.Register(api, h.ownersOp(), h.owners)
	huma.Register(api, h.ownerHistoryOp(), h.ownerHistory)
	huma.Register(api, h.updatesOp(), h.updates)
	huma.Register(api, h.balanceOp(), h.balance)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	tokens, err := h.service.TokenList(ctx)
	if err != nil {
		return nil, problem.From(h.log, err)
	}
	return &listOutput{Body: tokens.DTO()}, nil
}

func (h *Handler) info(ctx context.Context, input *idInput) (*infoOutput, error) {
	id, err := param.Hash("id", input.ID)
	if err != nil {
		return nil, err
	}
	info, err := h.service.TokenInfo(ctx, id)
	if err != nil {
		return nil, problem.From(h.log, err)
	}
	return &infoOutput{Body: info.DTO()}, nil
}

func (h *Handler) owners(ctx context.Context, input *ownersInput) (*ownersOutput, error) {
	id, err := param.Hash("id", input.ID)
	if err != nil {
		return nil, err
	}
	owners, err := h.service.TokenOwners(ctx, id, input.MinBalance)
	if err != nil {
		return nil, problem.From(h.log, err)
	}
	return &ownersOutput{Body: owners.DTO()}, nil
}

func (h *Handler) ownerHistory(ctx context.Context, input *idInput) (*ownerHistoryOutput, error) {
	id, err := param.Hash("id", input.ID)
	if err != nil {
		return nil, err
	}
	owners, err := h.service.TokenOwnerHistory(ctx, id)
	if err != nil {
		return nil, problem.From(h.log, err)
	}
	return &ownerHistoryOutput{Body: query.OwnersDTO(owners)}, nil
}

func (h *Handler) updates(ctx context.Context, input *updatesInput) (*updatesOutput, error) {
	id, err := param.Hash("id", input.ID)
	if err != nil {
		return nil, err
	}
	updates, err := h.service.TokenUpdates(ctx, id, input.Options())
	if err != nil {
		return nil, problem.From(h.log, err)
	}
	return &updatesOutput{Body: query.TokenUpdatesDTO(updates)}, nil
}

func (h *Handler) balance(ctx context.Context, input *balanceInput) (*balanceOutput, error) {
	id, err := param.Hash("id", input.ID)
	if err != nil {
		return nil, err
	}
	pk, err := param.PubKey(input.PubKey)
	if err != nil {
		return nil, err
	}
	balance, err := h.service.TokenBalance(ctx, id, pk)
	if err != nil {
		return nil, problem.From(h.log, err)
	}
	return &balanceOutput{Body: balance.DTO()}, nil
}

package agreement

import (
	"context"

	"antaracc/internal/app/server/api/http/param"
	"antaracc/internal/app/server/api/http/problem"
	"antaracc/internal/domain/query"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	service    query.AgreementQuerier
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service query.AgreementQuerier, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.infoOp(), h.info)
	huma.Register(api, h.statusOp(), h.status)
	huma.Register(api, h.updatesOp(), h.updates)
	huma.Register(api, h.disputesOp(), h.disputes)
	huma.Register(api, h.proposalHistoryOp(), h.proposalHistory)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	list, err := h.service.AgreementList(ctx)
	if err != nil {
		return nil, problem.From(h.log, err)
	}
	return &listOutput{Body: list.DTO()}, nil
}

func (h *Handler) info(ctx context.Context, input *idInput) (*infoOutput, error) {
	id, err := param.Hash("id", input.ID)
	if err != nil {
		return nil, err
	}
	info, err := h.service.AgreementInfo(ctx, id)
	if err != nil {
		return nil, problem.From(h.log, err)
	}
	return &infoOutput{Body: info.DTO()}, nil
}

func (h *Handler) status(ctx context.Context, input *idInput) (*statusOutput, error) {
	id, err := param.Hash("id", input.ID)
	if err != nil {
		return nil, err
	}
	st, err := h.service.AgreementStatus(ctx, id)
	if err != nil {
		return nil, problem.From(h.log, err)
	}
	return &statusOutput{Body: st.DTO()}, nil
}

func (h *Handler) updates(ctx context.Context, input *historyInput) (*recordsOutput, error) {
	id, err := param.Hash("id", input.ID)
	if err != nil {
		return nil, err
	}
	views, err := h.service.AgreementUpdates(ctx, id, input.Options())
	if err != nil {
		return nil, problem.From(h.log, err)
	}
	return &recordsOutput{Body: query.RecordViewsDTO(views)}, nil
}

func (h *Handler) disputes(ctx context.Context, input *historyInput) (*disputesOutput, error) {
	id, err := param.Hash("id", input.ID)
	if err != nil {
		return nil, err
	}
	views, err := h.service.AgreementDisputes(ctx, id, input.Options())
	if err != nil {
		return nil, problem.From(h.log, err)
	}
	return &disputesOutput{Body: query.DisputesDTO(views)}, nil
}

func (h *Handler) proposalHistory(ctx context.Context, input *historyInput) (*recordsOutput, error) {
	id, err := param.Hash("id", input.ID)
	if err != nil {
		return nil, err
	}
	views, err := h.service.ProposalHistory(ctx, id, input.Options())
	if err != nil {
		return nil, problem.From(h.log, err)
	}
	return &recordsOutput{Body: query.RecordViewsDTO(views)}, nil
}

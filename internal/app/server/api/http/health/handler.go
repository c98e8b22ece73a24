package health

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// HeightReader - часть леджера, по которой проверяется доступность индекса.
type HeightReader interface {
	CurrentHeight(ctx context.Context) (int64, error)
}

type Handler struct {
	ledger     HeightReader
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(ledger HeightReader, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		ledger:     ledger,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

func (h *Handler) healthCheck(ctx context.Context, _ *Input) (*Output, error) {
	h.log.Debug("health check request received")

	height, err := h.ledger.CurrentHeight(ctx)
	if err != nil {
		h.log.Error("ledger index unavailable", "error", err)
		return nil, huma.Error503ServiceUnavailable("ledger index unavailable")
	}

	return &Output{
		Body: Response{
			Status: "OK",
			Height: height,
		},
	}, nil
}

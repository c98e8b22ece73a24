package problem

import (
	"context"
	"errors"

	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/ledger"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// From переводит ошибку домена в ответ huma. Отсутствующая транзакция
// дает 404, нарушения правил и плохой ввод - 422, конфликт индекса - 409.
// Прочие ошибки логируются и скрываются за 500.
func From(log *slog.Logger, err error) error {
	if err == nil {
		return nil
	}
	var se huma.StatusError
	if errors.As(err, &se) {
		return err
	}

	switch {
	case errors.Is(err, cc.ErrNotFound), errors.Is(err, ledger.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, ledger.ErrConflict):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return huma.Error503ServiceUnavailable("request cancelled")
	case cc.KindOf(err) != "Internal":
		return huma.Error422UnprocessableEntity(err.Error(), &huma.ErrorDetail{
			Message:  cc.KindOf(err),
			Location: "body",
		})
	}

	log.Error("request failed", "error", err)
	return huma.Error500InternalServerError("internal error")
}

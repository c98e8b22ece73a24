package requestid

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
)

// Header - заголовок, в котором идентификатор запроса приходит и возвращается.
const Header = "X-Request-ID"

type ctxKey struct{}

// Middleware берет идентификатор из заголовка или выдает новый uuid.
// Значение, которое не разбирается как uuid, заменяется.
func Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		id := ctx.Header(Header)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		ctx.SetHeader(Header, id)
		next(huma.WithValue(ctx, ctxKey{}, id))
	}
}

func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok
}

// WithID кладет идентификатор в контекст, используется в тестах обработчиков.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

package middleware

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jaevor/go-nanoid"
)

const requestIDLength = 12

// RequestMeta holds per-request metadata for logging and event payloads.
type RequestMeta struct {
	RequestID string
	ClientIP  string
	UserAgent string
}

type requestMetaKey struct{}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

// NewRequestMeta returns a middleware that tags each request with a nanoid
// request ID (echoed as X-Request-ID) and records the client IP and
// user-agent in the request context.
func NewRequestMeta(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	// nanoid.Standard only fails for lengths outside [2,255].
	newID, err := nanoid.Standard(requestIDLength)
	if err != nil {
		panic(err)
	}

	return func(ctx huma.Context, next func(huma.Context)) {
		meta := RequestMeta{
			RequestID: newID(),
			ClientIP:  ClientIP(ctx),
			UserAgent: ctx.Header("User-Agent"),
		}

		ctx.SetHeader("X-Request-ID", meta.RequestID)

		newCtx := ContextWithRequestMeta(ctx.Context(), meta)
		ctx = huma.WithContext(ctx, newCtx)

		next(ctx)
	}
}

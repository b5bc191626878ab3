package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/items-api/internal/ratelimit"
	"go.uber.org/zap"
)

// KeyFunc maps an inbound request to the client key counted against the
// rate limit budget.
type KeyFunc func(ctx huma.Context) string

// RateLimiter returns a Huma middleware that checks every request against
// the limiter before any handler work runs. The limit headers are set on
// admitted and rejected responses alike; rejections get a 429.
//
// The default client key is the client IP; pass a KeyFunc to key on
// something else (e.g. an account ID). A nil keyFunc uses ClientIP.
func RateLimiter(
	api huma.API,
	limiter ratelimit.Limiter,
	keyFunc KeyFunc,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	if keyFunc == nil {
		keyFunc = ClientIP
	}

	return func(ctx huma.Context, next func(huma.Context)) {
		key := keyFunc(ctx)

		res, err := limiter.Check(ctx.Context(), key)
		if err != nil {
			// Store failures are absorbed by the limiter's fail policy;
			// an error here is a programming mistake, not an outage.
			logger.Error("rate limit check failed", zap.Error(err))
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

			return
		}

		ctx.SetHeader("X-RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
		ctx.SetHeader("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining(), 10))

		if !res.Allowed {
			logger.Warn("rate limit exceeded",
				zap.String("client_key", key),
				zap.Int64("count", res.Count),
				zap.Int64("limit", res.Limit),
				zap.String("path", ctx.URL().Path),
			)
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, "rate limit exceeded")

			return
		}

		next(ctx)
	}
}

// ClientIP extracts the client IP from the request, considering proxies.
func ClientIP(ctx huma.Context) string {
	// X-Forwarded-For may contain multiple IPs; the first is the client.
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	host := ctx.Host()

	ip, _, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}

	return ip
}

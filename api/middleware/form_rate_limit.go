package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/riderhub/riderhub-backend/api/responses"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/logger"
)

// WindowLimiter answers whether scope is still inside its fixed-window budget.
type WindowLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// FormRateLimit caps anonymous form posts per client IP. A nil limiter or a
// zero budget disables it. Limiter outages let the request through.
func FormRateLimit(name string, limit int64, window time.Duration, limiter WindowLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil || limit <= 0 || window <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := clientIP(r)
			if ip == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed, count, err := limiter.FixedWindowAllow(ctx, name+":ip:"+digest(ip), limit, window)
			if err != nil {
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "policy", name), "form.rate_limit.unavailable")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				if logg != nil {
					logg.Warn(logg.WithFields(ctx, map[string]any{"policy": name, "attempts": count}), "form.rate_limit.blocked")
				}
				w.Header().Set("Retry-After", retryAfter(window))
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many submissions, please try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package ratelimit

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/af-corp/bridge-gateway/internal/auth"
	"github.com/af-corp/bridge-gateway/internal/config"
	"github.com/af-corp/bridge-gateway/internal/httputil"
)

const (
	headerRateLimitRequests          = "X-RateLimit-Limit-Requests"
	headerRateLimitRemainingRequests = "X-RateLimit-Remaining-Requests"
	headerRateLimitReset             = "X-RateLimit-Reset-Requests"
	headerRetryAfter                 = "Retry-After"
)

// Middleware enforces the per-sender sliding-window rate limit and,
// for guests, the daily request quota.
func Middleware(limiter *Limiter, quota *QuotaTracker, cfg func() config.RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rlCfg := cfg()
			if !rlCfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}
			reqID := w.Header().Get("X-Request-ID")

			authInfo, ok := auth.AuthFromContext(r.Context())
			if !ok {
				// No auth info; the auth middleware will reject it
				next.ServeHTTP(w, r)
				return
			}

			rpm := rlCfg.RequestsPerMin
			if authInfo.RPMLimit != nil {
				rpm = *authInfo.RPMLimit
			}

			rpmKey := fmt.Sprintf("rpm:%s", authInfo.SenderID)
			result, _ := limiter.Check(r.Context(), rpmKey, rpm, rlCfg.Window)

			w.Header().Set(headerRateLimitRequests, strconv.FormatInt(rpm, 10))
			w.Header().Set(headerRateLimitRemainingRequests, strconv.FormatInt(result.Remaining, 10))
			w.Header().Set(headerRateLimitReset, result.ResetAt.Format(time.RFC3339))

			if !result.Allowed {
				slog.Warn("rate limit exceeded",
					"request_id", reqID,
					"sender_id", authInfo.SenderID,
					"limit", rpm,
				)
				w.Header().Set(headerRetryAfter, strconv.Itoa(int(result.RetryAfter.Seconds())))
				httputil.WriteRateLimitError(w, reqID,
					fmt.Sprintf("Rate limit exceeded: %d requests per window. Retry after %s", rpm, result.ResetAt.Format(time.RFC3339)))
				return
			}

			if authInfo.Guest {
				quotaResult, _ := quota.Check(r.Context(), authInfo.SenderID, rlCfg.GuestDailyQuota)
				if !quotaResult.Allowed {
					slog.Warn("guest daily quota exceeded",
						"request_id", reqID,
						"sender_id", authInfo.SenderID,
						"used", quotaResult.Used,
						"limit", quotaResult.Limit,
					)
					httputil.WriteQuotaExceededError(w, reqID,
						fmt.Sprintf("Daily guest quota exceeded: %d of %d requests used. Register for unrestricted access.", quotaResult.Used, quotaResult.Limit))
					return
				}
				quota.Record(r.Context(), authInfo.SenderID)
			}

			next.ServeHTTP(w, r)
		})
	}
}

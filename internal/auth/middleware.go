package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/af-corp/bridge-gateway/internal/httputil"
)

const guestPrefix = "guest_"

// Middleware authenticates requests. Registered senders present a
// Bearer API key; unregistered callers may instead identify as guests
// via the X-Guest-ID header, which subjects them to the daily quota.
func Middleware(store KeyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := w.Header().Get("X-Request-ID")

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				guestID := r.Header.Get("X-Guest-ID")
				if !strings.HasPrefix(guestID, guestPrefix) {
					httputil.WriteAuthError(w, reqID, "Provide Authorization: Bearer <api-key>, or X-Guest-ID: guest_<id> for guest access")
					return
				}
				ctx := ContextWithAuth(r.Context(), &AuthInfo{SenderID: guestID, Guest: true})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader {
				httputil.WriteAuthError(w, reqID, "Invalid Authorization format. Use: Authorization: Bearer <api-key>")
				return
			}
			if token == "" {
				httputil.WriteAuthError(w, reqID, "Empty API key")
				return
			}

			keyHash := HashKey(token)
			meta, err := store.Lookup(r.Context(), keyHash)
			if err != nil {
				slog.Error("key lookup failed", "error", err, "key_prefix", safePrefix(token))
				httputil.WriteInternalError(w, reqID, "Internal error during authentication")
				return
			}
			if meta == nil {
				slog.Warn("auth failed: key not found", "key_prefix", safePrefix(token))
				httputil.WriteAuthError(w, reqID, "Invalid API key")
				return
			}

			info := &AuthInfo{
				KeyID:    meta.ID,
				SenderID: meta.SenderID,
				Name:     meta.Name,
				RPMLimit: meta.RPMLimit,
			}
			ctx := ContextWithAuth(r.Context(), info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// safePrefix returns a safe-to-log prefix of an API key (never the full key).
func safePrefix(key string) string {
	if len(key) > 20 {
		return key[:20] + "..."
	}
	return key
}

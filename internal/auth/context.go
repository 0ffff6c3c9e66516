package auth

import "context"

type contextKey string

const authContextKey contextKey = "bridge_auth"

// AuthInfo holds the authenticated sender identity for a request.
// Guest senders carry the guest_ prefix and no key metadata.
type AuthInfo struct {
	KeyID    string
	SenderID string
	Name     string
	Guest    bool
	RPMLimit *int64
}

func ContextWithAuth(ctx context.Context, info *AuthInfo) context.Context {
	return context.WithValue(ctx, authContextKey, info)
}

func AuthFromContext(ctx context.Context) (*AuthInfo, bool) {
	info, ok := ctx.Value(authContextKey).(*AuthInfo)
	return info, ok
}

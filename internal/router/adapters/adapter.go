// Package adapters translates canonical model requests into
// provider-specific API calls and back.
package adapters

import (
	"context"
	"net/http"

	"github.com/af-corp/bridge-gateway/internal/types"
)

// ProviderAdapter transforms requests/responses between the bridge's
// canonical format and a provider's API format.
type ProviderAdapter interface {
	Name() string
	TransformRequest(ctx context.Context, req *types.ModelRequest) (*http.Request, error)
	TransformResponse(resp *http.Response) (*types.ModelResponse, error)
	// SendRequest sends an HTTP request using the provider's configured client.
	SendRequest(req *http.Request) (*http.Response, error)
}

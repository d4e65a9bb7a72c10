package cleaner

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Resolver follows a short link to its final destination. The transport owns
// the redirect chain and its hop ceiling; the engine only consumes the final
// URL.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (*url.URL, error)
}

// HTTPResolver resolves redirects with a real HTTP client. It tries HEAD
// first and falls back to GET for servers that reject or mishandle HEAD.
// The stdlib client stops after 10 hops, which is the bound the engine
// relies on.
type HTTPResolver struct {
	client *http.Client
}

func NewHTTPResolver(timeout time.Duration) *HTTPResolver {
	return &HTTPResolver{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewHTTPResolverWithClient is used by tests and by callers that need a
// custom transport.
func NewHTTPResolverWithClient(client *http.Client) *HTTPResolver {
	return &HTTPResolver{client: client}
}

func (r *HTTPResolver) Resolve(ctx context.Context, rawURL string) (*url.URL, error) {
	final, err := r.resolve(ctx, http.MethodHead, rawURL)
	if err == nil {
		return final, nil
	}

	final, getErr := r.resolve(ctx, http.MethodGet, rawURL)
	if getErr != nil {
		return nil, fmt.Errorf("HEAD: %w; GET: %v", err, getErr)
	}
	return final, nil
}

func (r *HTTPResolver) resolve(ctx context.Context, method, rawURL string) (*url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	// Request.URL on the response is the URL after the client followed
	// every redirect.
	return resp.Request.URL, nil
}

package registration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/muurk/plexgdm/internal/logging"
	"github.com/muurk/plexgdm/internal/protocol"
	"go.uber.org/zap"
)

const (
	// DefaultHTTPTimeout bounds a /clients request
	DefaultHTTPTimeout = 10 * time.Second

	// maxBodySize caps how much of a /clients response is read
	maxBodySize = 1 << 20

	clientsPath = "/clients"
)

// Getter fetches a URL and returns the response body.
type Getter interface {
	Get(ctx context.Context, url string) (string, error)
}

// HTTPGetter is a Getter backed by net/http.
type HTTPGetter struct {
	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewHTTPGetter creates a Getter with the given request timeout
func NewHTTPGetter(timeout time.Duration) *HTTPGetter {
	return &HTTPGetter{HTTPClient: &http.Client{Timeout: timeout}}
}

// Get implements Getter. Non-2xx responses are errors.
func (g *HTTPGetter) Get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}

// Verifier confirms that a server lists a client.
type Verifier struct {
	getter Getter
}

// NewVerifier creates a Verifier using getter for HTTP requests.
func NewVerifier(getter Getter) *Verifier {
	return &Verifier{getter: getter}
}

// ClientsURL returns the URL of a server's client list.
func ClientsURL(server protocol.ServerRecord) string {
	return server.BaseURL() + clientsPath
}

// Check reports whether server's client list mentions clientID. Any failure
// is logged and reported as false.
func (v *Verifier) Check(ctx context.Context, clientID string, server protocol.ServerRecord) bool {
	if clientID == "" {
		return false
	}

	url := ClientsURL(server)
	body, err := v.getter.Get(ctx, url)
	if err != nil {
		logging.Debug("Unable to check registration status",
			zap.String("url", url),
			zap.Error(err),
		)
		return false
	}

	if !strings.Contains(body, clientID) {
		logging.Debug("Client not listed by server",
			zap.String("url", url),
			zap.String("client_id", clientID),
		)
		return false
	}

	logging.Info("Client registration confirmed",
		zap.String("server", server.HostPort()),
		zap.String("client_id", clientID),
	)
	return true
}

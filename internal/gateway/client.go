package gateway

import (
	"bytes"         // Request and response buffers
	"context"       // Cancellation of in-flight calls
	"encoding/json" // Wire format
	"fmt"           // Error details
	"io"            // Body reading
	"mime"          // Content-Type parsing
	"net/http"      // HTTP client
	"strings"       // URL handling
	"sync"          // Token cache lock
	"time"          // Timeouts and token lifetimes

	"github.com/google/uuid" // Request IDs

	"wallet_console/internal/feedback" // Notices and session log
	"wallet_console/internal/utils"    // JWT minting
)

// Reporter receives the outcome of every call
type Reporter interface {
	Record(action string, status feedback.Status, requestID string, detail any) // Session log entry
	Notify(kind feedback.Kind, message string)                                  // User-facing notice
}

// Result is either Value (Err == nil) or Err
type Result[T any] struct {
	Value T      // Decoded body on success
	Err   *Error // Classified failure
}

// OK reports whether the call succeeded
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Client executes ledger calls
type Client struct {
	baseURL  string                 // API base path, no trailing slash
	http     *http.Client           // Transport; its Timeout is the only deadline
	reporter Reporter               // Feedback channel
	token    func() (string, error) // Bearer source, nil for anonymous calls
	newID    func() string          // X-Request-Id generator
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the transport; its Timeout is the only deadline applied
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBearerToken sends a fixed Authorization header
func WithBearerToken(token string) Option {
	return func(c *Client) {
		if token == "" {
			return // Nothing to send
		}
		c.token = func() (string, error) { return token, nil }
	}
}

// WithJWT mints HS256 bearer tokens for clientName, renewing shortly before expiry
func WithJWT(clientName, secret string, ttl time.Duration) Option {
	return func(c *Client) {
		if secret == "" {
			return // No secret, no token
		}
		src := &jwtSource{client: clientName, secret: secret, ttl: ttl}
		c.token = src.Token
	}
}

// WithRequestIDs overrides X-Request-Id generation
func WithRequestIDs(gen func() string) Option {
	return func(c *Client) { c.newID = gen }
}

// New builds a Client rooted at baseURL (e.g. "http://localhost:8000/api/v1")
func New(baseURL string, reporter Reporter, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),         // Endpoints start with "/"
		http:     &http.Client{Timeout: 30 * time.Second}, // Default transport
		reporter: reporter,                                // Feedback channel
		newID:    uuid.NewString,                          // Random request IDs
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs a call and returns the raw JSON body
func (c *Client) Do(ctx context.Context, method, endpoint string, payload any) Result[json.RawMessage] {
	return call[json.RawMessage](ctx, c, method, endpoint, payload)
}

func call[T any](ctx context.Context, c *Client, method, endpoint string, payload any) Result[T] {
	var out T // Zero value for empty bodies
	if err := c.exec(ctx, method, endpoint, payload, &out); err != nil {
		return Result[T]{Err: err}
	}
	return Result[T]{Value: out}
}

// resolve keeps absolute URLs and prefixes everything else with the base path
func (c *Client) resolve(endpoint string) string {
	if strings.HasPrefix(endpoint, "http") {
		return endpoint // Absolute URL
	}
	return c.baseURL + endpoint
}

// exec runs one call, decodes into out and reports the outcome exactly once
func (c *Client) exec(ctx context.Context, method, endpoint string, payload, out any) *Error {
	url := c.resolve(endpoint)   // Full request URL
	action := method + " " + url // Session log action
	requestID := c.newID()       // Correlates the log entry with the ledger's logs

	body, apiErr := c.roundTrip(ctx, method, url, requestID, payload)
	// Decode a non-empty success body into the expected shape
	if apiErr == nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			apiErr = &Error{Kind: KindMalformed, Status: http.StatusOK, Detail: excerpt(string(body))}
		}
	}

	// Report the failure to the log and the user
	if apiErr != nil {
		c.reporter.Record(action, feedback.StatusError, requestID, apiErr.logDetail())
		c.reporter.Notify(feedback.KindError, apiErr.Notice())
		return apiErr
	}

	var logged any = json.RawMessage(body)
	if len(body) == 0 {
		logged = nil // Nothing to pretty-print
	}
	c.reporter.Record(action, feedback.StatusSuccess, requestID, logged)
	return nil
}

// roundTrip returns a 2xx JSON body, or a classified failure
func (c *Client) roundTrip(ctx context.Context, method, url, requestID string, payload any) ([]byte, *Error) {
	var reqBody io.Reader // Nil for calls without a payload
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, &Error{Kind: KindTransport, Detail: fmt.Sprintf("cannot encode request: %v", err)}
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Detail: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json") // JSON payloads
	req.Header.Set("Accept", "application/json")       // JSON responses
	req.Header.Set("X-Request-Id", requestID)          // Correlation ID
	// Attach the bearer token when one is configured
	if c.token != nil {
		token, err := c.token()
		if err != nil {
			return nil, &Error{Kind: KindTransport, Detail: fmt.Sprintf("cannot sign bearer token: %v", err)}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req) // Single attempt, no retries
	if err != nil {
		return nil, &Error{Kind: KindTransport, Detail: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Status: resp.StatusCode, Detail: err.Error()}
	}

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	if success && len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil // Empty success, e.g. 204
	}
	// Non-JSON bodies are classified before the status is looked at
	if !isJSON(resp.Header.Get("Content-Type")) || !json.Valid(raw) {
		return nil, &Error{Kind: KindMalformed, Status: resp.StatusCode, Detail: excerpt(string(raw))}
	}
	if !success {
		return nil, &Error{Kind: KindServer, Status: resp.StatusCode, Detail: serverDetail(raw), Body: raw}
	}
	return raw, nil
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "application/json") // Tolerate sloppy headers
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// jwtSource caches a minted token until it is close to expiry
type jwtSource struct {
	client string        // JWT subject
	secret string        // HS256 secret
	ttl    time.Duration // Token lifetime

	mu      sync.Mutex
	token   string    // Current token
	expires time.Time // When token stops being valid
}

func (s *jwtSource) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Reuse the token while it has more than a minute left
	if s.token != "" && time.Until(s.expires) > time.Minute {
		return s.token, nil
	}
	ttl := s.ttl
	if ttl <= 0 {
		ttl = time.Hour // Default lifetime
	}
	token, err := utils.GenerateJWT(s.client, s.secret, ttl)
	if err != nil {
		return "", err
	}
	s.token = token
	s.expires = time.Now().Add(ttl)
	return token, nil
}

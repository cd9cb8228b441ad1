package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet_console/internal/domain"
	"wallet_console/internal/feedback"
	"wallet_console/internal/utils"
)

type record struct {
	action    string
	status    feedback.Status
	requestID string
	detail    any
}

type recordingReporter struct {
	mu      sync.Mutex
	records []record
	notices []string
}

func (r *recordingReporter) Record(action string, status feedback.Status, requestID string, detail any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record{action, status, requestID, detail})
}

func (r *recordingReporter) Notify(kind feedback.Kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, string(kind)+": "+message)
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestListUsers_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(jsonHandler(http.StatusOK, `[{"id":1,"username":"alice","email":"a@x.io"}]`))
	defer srv.Close()

	rep := &recordingReporter{}
	c := New(srv.URL+"/api/v1", rep, WithRequestIDs(func() string { return "req-1" }))

	res := c.ListUsers(context.Background())
	require.True(t, res.OK())
	require.Len(t, res.Value, 1)
	assert.Equal(t, "alice", res.Value[0].Username)

	require.Len(t, rep.records, 1)
	assert.Equal(t, "GET "+srv.URL+"/api/v1/users/", rep.records[0].action)
	assert.Equal(t, feedback.StatusSuccess, rep.records[0].status)
	assert.Equal(t, "req-1", rep.records[0].requestID)
	assert.Empty(t, rep.notices, "successful calls post no notice from the adapter")
}

func TestServerError_UsesDetail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(jsonHandler(http.StatusBadRequest, `{"detail":"Insufficient funds"}`))
	defer srv.Close()

	rep := &recordingReporter{}
	c := New(srv.URL, rep)

	res := c.Transfer(context.Background(), domain.TransferRequest{FromWalletID: 1, ToWalletID: 2, Amount: domain.AmountFromFloat(5)})
	require.False(t, res.OK())
	assert.Equal(t, KindServer, res.Err.Kind)
	assert.Equal(t, http.StatusBadRequest, res.Err.Status)
	assert.Equal(t, "Insufficient funds", res.Err.Detail)
	assert.JSONEq(t, `{"detail":"Insufficient funds"}`, string(res.Err.Body))

	require.Len(t, rep.records, 1)
	assert.Equal(t, feedback.StatusError, rep.records[0].status)
	assert.Equal(t, []string{"error: Insufficient funds"}, rep.notices)
}

func TestServerError_StructuredDetail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(jsonHandler(http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","amount"],"msg":"field required"}]}`))
	defer srv.Close()

	res := New(srv.URL, &recordingReporter{}).ListWallets(context.Background())
	require.False(t, res.OK())
	assert.Contains(t, res.Err.Detail, "field required")
}

func TestNonJSONResponse_Truncated(t *testing.T) {
	t.Parallel()

	page := "<html><head><title>500 Internal Server Error</title></head><body>" + strings.Repeat("x", 500) + "</body></html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, page)
	}))
	defer srv.Close()

	rep := &recordingReporter{}
	res := New(srv.URL, rep).History(context.Background())

	require.False(t, res.OK())
	assert.Equal(t, KindMalformed, res.Err.Kind)
	assert.LessOrEqual(t, utf8.RuneCountInString(res.Err.Detail), 53)
	assert.Equal(t, page[:50]+"...", res.Err.Detail)
	assert.True(t, strings.HasPrefix(res.Err.Error(), "server returned non-JSON response: "))
	require.Len(t, rep.records, 1)
	assert.Equal(t, feedback.StatusError, rep.records[0].status)
}

func TestNonJSONResponse_OnSuccessStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "ok")
	}))
	defer srv.Close()

	res := New(srv.URL, &recordingReporter{}).ListUsers(context.Background())
	require.False(t, res.OK())
	assert.Equal(t, "ok...", res.Err.Detail)
}

func TestJSONContentTypeWithInvalidBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(jsonHandler(http.StatusOK, `{"id":`))
	defer srv.Close()

	res := New(srv.URL, &recordingReporter{}).GetWallet(context.Background(), 3)
	require.False(t, res.OK())
	assert.Equal(t, KindMalformed, res.Err.Kind)
}

func TestShapeMismatch_IsMalformed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(jsonHandler(http.StatusOK, `{"not":"a list"}`))
	defer srv.Close()

	rep := &recordingReporter{}
	res := New(srv.URL, rep).ListUsers(context.Background())
	require.False(t, res.OK())
	assert.Equal(t, KindMalformed, res.Err.Kind)
	require.Len(t, rep.records, 1, "the outcome is recorded once")
	assert.Equal(t, feedback.StatusError, rep.records[0].status)
}

func TestTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	rep := &recordingReporter{}
	res := New(url, rep).ListUsers(context.Background())

	require.False(t, res.OK())
	assert.Equal(t, KindTransport, res.Err.Kind)
	assert.Equal(t, 0, res.Err.Status)
	assert.NotEmpty(t, res.Err.Detail)
	assert.Equal(t, []string{"error: Network error: could not reach the ledger"}, rep.notices)
	require.Len(t, rep.records, 1)
}

func TestNoRetries(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"detail":"try later"}`)
	}))
	defer srv.Close()

	res := New(srv.URL, &recordingReporter{}).BatchTransfer(context.Background(), domain.BatchTransferRequest{FromWalletID: 1})
	require.False(t, res.OK())
	assert.Equal(t, int32(1), hits.Load())
}

func TestEmptySuccessBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	rep := &recordingReporter{}
	res := New(srv.URL, rep).DeleteWallet(context.Background(), 9)
	require.True(t, res.OK())
	assert.Nil(t, res.Value)
	require.Len(t, rep.records, 1)
	assert.Nil(t, rep.records[0].detail)
}

func TestRequestShape(t *testing.T) {
	t.Parallel()

	type seen struct {
		method, path, contentType, requestID, auth string
		body                                      map[string]any
	}
	got := make(chan seen, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		got <- seen{r.Method, r.URL.Path, r.Header.Get("Content-Type"), r.Header.Get("X-Request-Id"), r.Header.Get("Authorization"), body}
		jsonHandler(http.StatusOK, `{"id":4,"user_id":1,"balance":25}`)(w, r)
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/v1/", &recordingReporter{}, WithBearerToken("tok"))
	res := c.Deposit(context.Background(), 4, domain.AmountFromFloat(25))
	require.True(t, res.OK())

	s := <-got
	assert.Equal(t, http.MethodPost, s.method)
	assert.Equal(t, "/api/v1/wallets/4/deposit", s.path)
	assert.Equal(t, "application/json", s.contentType)
	assert.NotEmpty(t, s.requestID)
	assert.Equal(t, "Bearer tok", s.auth)
	assert.Equal(t, map[string]any{"amount": float64(25)}, s.body)
}

func TestAbsoluteEndpoint(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(jsonHandler(http.StatusOK, `{"ok":true}`))
	defer srv.Close()

	rep := &recordingReporter{}
	res := New("http://unused.invalid/api/v1", rep).Do(context.Background(), http.MethodGet, srv.URL+"/health", nil)
	require.True(t, res.OK())
	assert.JSONEq(t, `{"ok":true}`, string(res.Value))
	assert.Equal(t, "GET "+srv.URL+"/health", rep.records[0].action)
}

func TestWithJWT_SignsRequests(t *testing.T) {
	t.Parallel()

	auth := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth <- r.Header.Get("Authorization")
		jsonHandler(http.StatusOK, `[]`)(w, r)
	}))
	defer srv.Close()

	c := New(srv.URL, &recordingReporter{}, WithJWT("walletctl", "s3cret", time.Hour))
	require.True(t, c.ListUsers(context.Background()).OK())
	require.True(t, c.ListUsers(context.Background()).OK())

	first, second := <-auth, <-auth
	assert.Equal(t, first, second, "token is reused until close to expiry")
	require.True(t, strings.HasPrefix(first, "Bearer "))

	claims, err := utils.ParseJWT(strings.TrimPrefix(first, "Bearer "), "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "walletctl", claims.Client)
}

func TestExcerpt_RuneSafe(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short...", excerpt("short"))
	long := strings.Repeat("é", 60)
	assert.Equal(t, strings.Repeat("é", 50)+"...", excerpt(long))
}

func TestIsJSON(t *testing.T) {
	t.Parallel()

	assert.True(t, isJSON("application/json"))
	assert.True(t, isJSON("application/json; charset=utf-8"))
	assert.True(t, isJSON("application/problem+json"))
	assert.False(t, isJSON("text/html; charset=utf-8"))
	assert.False(t, isJSON(""))
}

package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Dan9191/bank-onboarding/internal/config"
	"github.com/Dan9191/bank-onboarding/internal/handler"
	"github.com/Dan9191/bank-onboarding/internal/integrations/basiq"
	"github.com/Dan9191/bank-onboarding/internal/repository"
	"github.com/Dan9191/bank-onboarding/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// aggregator is a fake Basiq API that records every call it receives.
type aggregator struct {
	mu    sync.Mutex
	calls map[string]int

	tokenBody    string
	existingUser string
	updateStatus int
	authLinkBody string
}

func newAggregator() *aggregator {
	return &aggregator{
		calls:        map[string]int{},
		tokenBody:    `{"access_token":"tok","expires_in":3600}`,
		updateStatus: http.StatusOK,
		authLinkBody: `{"links":{"public":"https://connect.basiq.io/xyz"}}`,
	}
}

func (a *aggregator) record(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls[key]++
}

func (a *aggregator) count(key string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[key]
}

func (a *aggregator) total() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, c := range a.calls {
		n += c
	}
	return n
}

func (a *aggregator) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		a.record("token")
		io.WriteString(w, a.tokenBody)
	})
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		a.record("lookup")
		if a.existingUser == "" {
			io.WriteString(w, `{"type":"list","data":[]}`)
			return
		}
		io.WriteString(w, `{"type":"list","data":[{"id":"`+a.existingUser+`","email":"a@b.com"}]}`)
	})
	mux.HandleFunc("POST /users", func(w http.ResponseWriter, r *http.Request) {
		a.record("create")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"type":"user","id":"u1","email":"a@b.com"}`)
	})
	mux.HandleFunc("POST /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		a.record("update")
		w.WriteHeader(a.updateStatus)
		if a.updateStatus != http.StatusOK {
			io.WriteString(w, `{"data":[{"title":"Bad request","detail":"mobile is invalid"}]}`)
			return
		}
		io.WriteString(w, `{"type":"user","id":"`+r.PathValue("id")+`"}`)
	})
	mux.HandleFunc("POST /users/{id}/auth_link", func(w http.ResponseWriter, r *http.Request) {
		a.record("auth_link")
		var body struct {
			InstitutionID string `json:"institutionId"`
			Mobile        string `json:"mobile"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.InstitutionID != "AU00001" || body.Mobile != "+61421000000" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, a.authLinkBody)
	})
	return mux
}

func newRouter(t *testing.T, agg *aggregator) http.Handler {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return newRouterWithLogger(t, agg, log)
}

func newRouterWithLogger(t *testing.T, agg *aggregator, log *logrus.Logger) http.Handler {
	t.Helper()
	srv := httptest.NewServer(agg.handler())
	t.Cleanup(srv.Close)

	client := basiq.NewClient(&config.Config{
		BasiqAPIKey: "key",
		BasiqEnv:    config.EnvironmentSandbox,
		BasiqURL:    srv.URL,
	}, log)
	repo, err := repository.NewRepository()
	require.NoError(t, err)

	h := handler.NewHandler(service.NewService(client, log), repo, log, handler.PageConfig{ApplicationID: "app-1"})
	return h.Routes([]string{"*"})
}

func postConnect(t *testing.T, router http.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, handler.ConnectPath, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

const validBody = `{"email":"a@b.com","phone":"+61421000000","bankId":"AU00001"}`

func TestConnectNewUserRoundTrip(t *testing.T) {
	agg := newAggregator()
	rec, out := postConnect(t, newRouter(t, agg), validBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{
		"success":  true,
		"userId":   "u1",
		"authLink": "https://connect.basiq.io/xyz",
	}, out)
	assert.Equal(t, 1, agg.count("create"))
	assert.Equal(t, 0, agg.count("update"))
	assert.Equal(t, 1, agg.count("auth_link"))
}

func TestConnectExistingUserIsUpdated(t *testing.T) {
	agg := newAggregator()
	agg.existingUser = "u7"
	rec, out := postConnect(t, newRouter(t, agg), validBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u7", out["userId"])
	assert.Equal(t, 1, agg.count("update"))
	assert.Equal(t, 0, agg.count("create"))
	assert.Equal(t, 1, agg.count("auth_link"))
}

func TestConnectUpdateRejected(t *testing.T) {
	agg := newAggregator()
	agg.existingUser = "u7"
	agg.updateStatus = http.StatusBadRequest
	rec, out := postConnect(t, newRouter(t, agg), validBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to connect to bank", out["error"])
	assert.Contains(t, out["details"], "mobile is invalid")
	assert.Equal(t, 0, agg.count("create"))
	assert.Equal(t, 0, agg.count("auth_link"))
}

func TestConnectMissingFields(t *testing.T) {
	for _, body := range []string{
		`{"phone":"+61421000000","bankId":"AU00001"}`,
		`{"email":"a@b.com","bankId":"AU00001"}`,
		`{"email":"a@b.com","phone":"+61421000000"}`,
		`{}`,
	} {
		agg := newAggregator()
		rec, out := postConnect(t, newRouter(t, agg), body)

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "Email, phone, and bank ID are required", out["error"])
		assert.Zero(t, agg.total(), "no aggregator calls expected for %s", body)
	}
}

func TestConnectMalformedJSON(t *testing.T) {
	agg := newAggregator()
	rec, out := postConnect(t, newRouter(t, agg), `{"email":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid input", out["error"])
	assert.Zero(t, agg.total())
}

func TestConnectTokenMissing(t *testing.T) {
	agg := newAggregator()
	agg.tokenBody = `{"error":"unauthorized"}`
	rec, out := postConnect(t, newRouter(t, agg), validBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, out["details"])
	assert.Equal(t, 1, agg.count("token"))
	assert.Equal(t, 1, agg.total())
}

func TestConnectReusesTokenAcrossRequests(t *testing.T) {
	agg := newAggregator()
	router := newRouter(t, agg)

	postConnect(t, router, validBody)
	postConnect(t, router, validBody)

	assert.Equal(t, 1, agg.count("token"))
	assert.Equal(t, 2, agg.count("auth_link"))
}

func TestConnectURLPrecedence(t *testing.T) {
	agg := newAggregator()
	agg.authLinkBody = `{"url":"https://connect.basiq.io/top","links":{"public":"https://connect.basiq.io/public"}}`
	_, out := postConnect(t, newRouter(t, agg), validBody)

	assert.Equal(t, "https://connect.basiq.io/top", out["authLink"])
}

func TestConnectFallbackLink(t *testing.T) {
	agg := newAggregator()
	agg.authLinkBody = `{"id":"link-9"}`
	_, out := postConnect(t, newRouter(t, agg), validBody)

	assert.Equal(t, "https://connect.basiq.io/link-9?action=connect", out["authLink"])
}

func TestConnectNoLink(t *testing.T) {
	agg := newAggregator()
	agg.authLinkBody = `{"type":"auth_link"}`
	rec, out := postConnect(t, newRouter(t, agg), validBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, out["details"], "no auth link URL found")
}

func TestConnectCORSPreflight(t *testing.T) {
	router := newRouter(t, newAggregator())

	req := httptest.NewRequest(http.MethodOptions, handler.ConnectPath, nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestListBanks(t *testing.T) {
	router := newRouter(t, newAggregator())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/banks", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Banks []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"banks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Banks, 4)
	assert.Equal(t, "Westpac", out.Banks[1].Name)
}

func TestOnboardPage(t *testing.T) {
	router := newRouter(t, newAggregator())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/onboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	for _, id := range []string{"AU00001", "AU00002", "AU00003", "AU00004"} {
		assert.Contains(t, body, `data-bank-id="`+id+`"`)
	}
	assert.Contains(t, body, `content="app-1"`)
	assert.Contains(t, body, "sessionStorage.setItem")
}

func TestRootRedirectsAndHealth(t *testing.T) {
	router := newRouter(t, newAggregator())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/onboard", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestConnectOversizedBody(t *testing.T) {
	agg := newAggregator()
	padding := strings.Repeat("x", 2<<20)
	rec, out := postConnect(t, newRouter(t, agg), `{"email":"a@b.com","phone":"+61421000000","bankId":"AU00001","note":"`+padding+`"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid input", out["error"])
	assert.Zero(t, agg.total())
}

func warnings(hook *test.Hook) []string {
	var msgs []string
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}

func TestConnectUnknownBankIsLoggedAndForwarded(t *testing.T) {
	agg := newAggregator()
	agg.authLinkBody = `{"url":"https://connect.basiq.io/other"}`
	log, hook := test.NewNullLogger()
	router := newRouterWithLogger(t, agg, log)

	rec, _ := postConnect(t, router, `{"email":"a@b.com","phone":"+61421000000","bankId":"AU00001"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, warnings(hook))

	// The fake only accepts AU00001, so an unknown id reaches it and is rejected there.
	rec, _ = postConnect(t, router, `{"email":"a@b.com","phone":"+61421000000","bankId":"AU99999"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, warnings(hook), "Bank is not in the directory")
	assert.Equal(t, 2, agg.count("auth_link"))
}

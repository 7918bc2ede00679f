package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/upstreamer/pkg/cache"
	"github.com/matzehuels/upstreamer/pkg/errors"
	"github.com/matzehuels/upstreamer/pkg/observability"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

func do(t *testing.T, h http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, New(Options{}), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body.Status != "ok" {
		t.Errorf("body = %+v, %v", body, err)
	}
}

func TestFields(t *testing.T) {
	rec := do(t, New(Options{}), http.MethodGet, "/v1/fields", "")
	var fields []FieldInfo
	if err := json.NewDecoder(rec.Body).Decode(&fields); err != nil {
		t.Fatal(err)
	}
	if len(fields) != len(upstream.Fields()) {
		t.Fatalf("got %d fields, want %d", len(fields), len(upstream.Fields()))
	}
	if fields[0] != (FieldInfo{Name: "Name", Kind: "text"}) {
		t.Errorf("fields[0] = %+v", fields[0])
	}
}

func TestReconcile(t *testing.T) {
	body := `{"guesses": [
		{"field": "Homepage", "value": "https://a.example.org", "certainty": "certain", "origin": {"class": "manifest", "label": "Cargo.toml"}},
		{"field": "Homepage", "value": "https://b.example.org", "certainty": "likely", "origin": {"class": "readme", "label": "README.md"}},
		{"field": "Wiki", "value": "https://wiki.example.org", "certainty": "possible", "origin": {"class": "readme", "label": "README.md"}}
	], "minimum_certainty": "likely"}`
	rec := do(t, New(Options{}), http.MethodPost, "/v1/reconcile", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp ReconcileResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if got := resp.Record.Text(upstream.Homepage); got != "https://a.example.org" {
		t.Errorf("homepage = %q", got)
	}
	if resp.Record.Has(upstream.Wiki) {
		t.Error("wiki below the minimum should be dropped")
	}
	if resp.ID == "" {
		t.Error("missing response ID")
	}
}

func TestReconcileRejectsInvalidGuesses(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"unknown field", `{"guesses": [{"field": "Colour", "value": "x", "certainty": "certain", "origin": {"class": "manifest", "label": "a"}}]}`, "INVALID_"},
		{"bad certainty", `{"guesses": [{"field": "Name", "value": "x", "certainty": "sure", "origin": {"class": "manifest", "label": "a"}}]}`, "INVALID_"},
		{"missing value", `{"guesses": [{"field": "Name", "certainty": "certain", "origin": {"class": "manifest", "label": "a"}}]}`, "INVALID_GUESS"},
		{"malformed", `{"guesses": [`, "INVALID_INPUT"},
		{"unknown key", `{"guesses": [], "extra": 1}`, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, New(Options{}), http.MethodPost, "/v1/reconcile", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body)
			}
			var body errorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(string(body.Error.Code), tt.code) {
				t.Errorf("code = %s, want prefix %s", body.Error.Code, tt.code)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	body := `{
		"record": {"Name": {"value": "demo", "certainty": "confident", "origin": {"class": "manifest", "label": "Cargo.toml"}}},
		"guesses": [
			{"field": "Name", "value": "other", "certainty": "possible", "origin": {"class": "readme", "label": "README.md"}},
			{"field": "Version", "value": "1.0", "certainty": "certain", "origin": {"class": "changelog", "label": "debian/changelog"}}
		]}`
	rec := do(t, New(Options{}), http.MethodPost, "/v1/update", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		Record  *upstream.Record `json:"record"`
		Changes []struct {
			Field string `json:"field"`
		} `json:"changes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if got := resp.Record.Text(upstream.Name); got != "demo" {
		t.Errorf("name = %q, lower certainty must not replace it", got)
	}
	if len(resp.Changes) != 1 || resp.Changes[0].Field != "Version" {
		t.Errorf("changes = %+v, want only Version", resp.Changes)
	}
}

const extractBody = `{
	"artifacts": [
		{"kind": "manifest", "name": "package.json", "tree": {"name": "demo", "version": "2.0.0", "repository": "https://github.com/o/demo"}}
	]
}`

func TestExtract(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := New(Options{Cache: c, ClientHeader: "X-Client"})

	rec := do(t, s, http.MethodPost, "/v1/extract", extractBody, "X-Client", "ci")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		Record    *upstream.Record `json:"record"`
		Guesses   []upstream.Guess `json:"guesses"`
		CacheHits map[string]bool  `json:"cache_hits"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if got := resp.Record.Text(upstream.Version); got != "2.0.0" {
		t.Errorf("version = %q", got)
	}
	if !resp.Record.Has(upstream.BugDatabase) {
		t.Error("bug database should be derived")
	}
	if resp.CacheHits["package.json"] {
		t.Error("first request should miss")
	}

	again := do(t, s, http.MethodPost, "/v1/extract", extractBody, "X-Client", "ci")
	if !bytes.Contains(again.Body.Bytes(), []byte(`"package.json":true`)) {
		t.Errorf("same client should hit the cache: %s", again.Body)
	}
	other := do(t, s, http.MethodPost, "/v1/extract", extractBody, "X-Client", "other")
	if bytes.Contains(other.Body.Bytes(), []byte(`"package.json":true`)) {
		t.Errorf("another client must not share cache entries: %s", other.Body)
	}
}

func TestExtractRejectsBadArtifacts(t *testing.T) {
	tests := []string{
		`{"artifacts": [{"kind": "tarball", "name": "x"}]}`,
		`{"artifacts": [], "disabled": ["nope"]}`,
		`{"artifacts": [{"kind": "manifest"}]}`,
	}
	for _, body := range tests {
		rec := do(t, New(Options{}), http.MethodPost, "/v1/extract", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, rec.Code)
		}
	}
}

type recordingHooks struct {
	observability.NoopServerHooks
	routes []string
}

func (h *recordingHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.routes = append(h.routes, method+" "+route)
}

func TestServerHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetServerHooks(hooks)
	defer observability.Reset()

	do(t, New(Options{}), http.MethodGet, "/v1/fields", "")
	if len(hooks.routes) != 1 || hooks.routes[0] != "GET /v1/fields" {
		t.Errorf("routes = %v", hooks.routes)
	}
}

func TestCORS(t *testing.T) {
	s := New(Options{AllowedOrigins: []string{"https://app.example.org"}})
	req := httptest.NewRequest(http.MethodOptions, "/v1/fields", nil)
	req.Header.Set("Origin", "https://app.example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.org" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestStatusFor(t *testing.T) {
	tests := map[string]int{
		"INVALID_GUESS":  http.StatusBadRequest,
		"NOT_FOUND":      http.StatusNotFound,
		"UNSUPPORTED":    http.StatusUnprocessableEntity,
		"INTERNAL_ERROR": http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := statusFor(errors.Code(code)); got != want {
			t.Errorf("statusFor(%s) = %d, want %d", code, got, want)
		}
	}
}

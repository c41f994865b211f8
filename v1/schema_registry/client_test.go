package schema_registry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	Auth   string
	Type   string
}

type fakeServer struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  func(w http.ResponseWriter, r *http.Request, body string)
}

func newFakeServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, body string)) (*fakeServer, *httptest.Server) {
	t.Helper()
	f := &fakeServer{handler: handler}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Body:   string(data),
			Auth:   r.Header.Get("Authorization"),
			Type:   r.Header.Get("Content-Type"),
		})
		f.mu.Unlock()
		w.Header().Set("Content-Type", contentType)
		f.handler(w, r, string(data))
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeServer) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func writeError(w http.ResponseWriter, status, code int, msg string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"error_code": code, "message": msg})
}

func newHTTPClient(t *testing.T, url string) *HTTPClient {
	t.Helper()
	c, err := NewClient(Config{URL: url, Username: "user", Password: "pass"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewClientRequiresURL(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatalf("expected error for empty URL")
	}
}

func TestNewClientDefaultsAndApicurio(t *testing.T) {
	c, err := NewClient(Config{URL: "http://registry:8080/", ApicurioCompat: true})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if c.url != "http://registry:8080/apis/ccompat/v7" {
		t.Fatalf("unexpected base url %q", c.url)
	}
	if c.httpClient.Timeout != DefaultTimeout {
		t.Fatalf("expected default timeout, got %s", c.httpClient.Timeout)
	}
}

func TestLookupLatest(t *testing.T) {
	fake, srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request, _ string) {
		_, _ = w.Write([]byte(`{"subject":"orders-value","id":7,"version":3,"schema":"{\"type\":\"string\"}"}`))
	})

	got, err := newHTTPClient(t, srv.URL).LookupLatest(context.Background(), "orders-value")
	if err != nil {
		t.Fatalf("lookup latest: %v", err)
	}
	if got.ID != 7 || got.Version != 3 || got.SchemaType != SchemaTypeAvro || got.Subject != "orders-value" {
		t.Fatalf("unexpected result %#v", got)
	}

	reqs := fake.Requests()
	if len(reqs) != 1 || reqs[0].Method != http.MethodGet || reqs[0].Path != "/subjects/orders-value/versions/latest" {
		t.Fatalf("unexpected requests %#v", reqs)
	}
	if !strings.HasPrefix(reqs[0].Auth, "Basic ") {
		t.Fatalf("expected basic auth, got %q", reqs[0].Auth)
	}
}

func TestLookupLatestNotFound(t *testing.T) {
	_, srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request, _ string) {
		writeError(w, http.StatusNotFound, codeSubjectNotFound, "Subject 'orders-value' not found.")
	})

	_, err := newHTTPClient(t, srv.URL).LookupLatest(context.Background(), "orders-value")
	if !IsNotFoundError(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if IsRegistryUnavailableError(err) {
		t.Fatalf("not found must not be retryable")
	}
}

func TestServerErrorIsUnavailable(t *testing.T) {
	_, srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request, _ string) {
		writeError(w, http.StatusInternalServerError, codeBackendError, "store error")
	})

	_, err := newHTTPClient(t, srv.URL).LookupLatest(context.Background(), "orders-value")
	if !IsRegistryUnavailableError(err) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestTransportErrorIsUnavailable(t *testing.T) {
	_, srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request, _ string) {})
	url := srv.URL
	srv.Close()

	_, err := newHTTPClient(t, url).LookupLatest(context.Background(), "orders-value")
	if !IsRegistryUnavailableError(err) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestRegisterReturnsVersion(t *testing.T) {
	fake, srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request, body string) {
		switch r.URL.Path {
		case "/subjects/orders-value/versions":
			_, _ = w.Write([]byte(`{"id":11}`))
		case "/subjects/orders-value":
			_, _ = w.Write([]byte(`{"subject":"orders-value","id":11,"version":2,"schema":` + mustQuote(userV1) + `}`))
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	})

	got, err := newHTTPClient(t, srv.URL).Register(context.Background(), "orders-value", avroSchema(userV1))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if got.ID != 11 || got.Version != 2 {
		t.Fatalf("unexpected result %#v", got)
	}

	reqs := fake.Requests()
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(reqs))
	}
	if reqs[0].Type != contentType {
		t.Fatalf("unexpected content type %q", reqs[0].Type)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(reqs[0].Body), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if _, ok := payload["schemaType"]; ok {
		t.Fatalf("AVRO payload must omit schemaType: %s", reqs[0].Body)
	}
	if payload["schema"] != userV1 {
		t.Fatalf("unexpected schema in payload: %v", payload["schema"])
	}
}

func TestRegisterConflictIsCompatibilityRejected(t *testing.T) {
	_, srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request, _ string) {
		writeError(w, http.StatusConflict, codeIncompatibleSchema, "Schema being registered is incompatible")
	})

	_, err := newHTTPClient(t, srv.URL).Register(context.Background(), "orders-value", avroSchema(userBroken))
	if !IsCompatibilityRejectedError(err) {
		t.Fatalf("expected compatibility rejected, got %v", err)
	}
	var apiErr *APIError
	if !asAPIError(err, &apiErr) || apiErr.ErrorCode != codeIncompatibleSchema {
		t.Fatalf("expected APIError with code 409, got %#v", err)
	}
}

func TestRegisterJSONSchemaSendsType(t *testing.T) {
	fake, srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request, _ string) {
		_, _ = w.Write([]byte(`{"id":1,"version":1}`))
	})

	_, err := newHTTPClient(t, srv.URL).Register(context.Background(), "orders-value", Schema{Schema: `{"type":"object"}`, SchemaType: SchemaTypeJSON})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.Contains(fake.Requests()[0].Body, `"schemaType":"JSON"`) {
		t.Fatalf("expected schemaType in payload: %s", fake.Requests()[0].Body)
	}
}

func TestTestCompatibility(t *testing.T) {
	fake, srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request, _ string) {
		_, _ = w.Write([]byte(`{"is_compatible":false}`))
	})

	ok, err := newHTTPClient(t, srv.URL).TestCompatibility(context.Background(), "orders-value", avroSchema(userBroken))
	if err != nil {
		t.Fatalf("test compatibility: %v", err)
	}
	if ok {
		t.Fatalf("expected incompatible")
	}
	req := fake.Requests()[0]
	if req.Method != http.MethodPost || req.Path != "/compatibility/subjects/orders-value/versions/latest" {
		t.Fatalf("unexpected request %#v", req)
	}
}

func TestSetCompatibilityLevel(t *testing.T) {
	fake, srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request, body string) {
		_, _ = w.Write([]byte(body))
	})

	c, err := NewClient(Config{URL: srv.URL, Token: "secret"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := c.SetCompatibilityLevel(context.Background(), "orders-value", CompatibilityFull); err != nil {
		t.Fatalf("set compatibility: %v", err)
	}

	req := fake.Requests()[0]
	if req.Method != http.MethodPut || req.Path != "/config/orders-value" {
		t.Fatalf("unexpected request %#v", req)
	}
	if req.Body != `{"compatibility":"FULL"}` {
		t.Fatalf("unexpected body %s", req.Body)
	}
	if req.Auth != "Bearer secret" {
		t.Fatalf("expected bearer auth, got %q", req.Auth)
	}
}

func TestGetSchemaByID(t *testing.T) {
	fake, srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request, _ string) {
		_, _ = w.Write([]byte(`{"schema":` + mustQuote(userV1) + `}`))
	})

	schema, err := newHTTPClient(t, srv.URL).GetSchemaByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("get schema: %v", err)
	}
	if schema.Schema != userV1 || schema.SchemaType != SchemaTypeAvro {
		t.Fatalf("unexpected schema %#v", schema)
	}
	if fake.Requests()[0].Path != "/schemas/ids/42" {
		t.Fatalf("unexpected path %s", fake.Requests()[0].Path)
	}
}

func TestSubjectIsPathEscaped(t *testing.T) {
	fake, srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request, _ string) {
		_, _ = w.Write([]byte(`{"id":1,"version":1,"schema":"\"string\""}`))
	})

	if _, err := newHTTPClient(t, srv.URL).LookupLatest(context.Background(), "a/b"); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got := fake.Requests()[0].Path; got != "/subjects/a%2Fb/versions/latest" {
		t.Fatalf("unexpected path %s", got)
	}
}

func mustQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

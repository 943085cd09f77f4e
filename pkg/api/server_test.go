package api

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/laddergrid/pkg/errors"
	"github.com/matzehuels/laddergrid/pkg/observability"
	"github.com/matzehuels/laddergrid/pkg/observability/promhooks"
	"github.com/matzehuels/laddergrid/pkg/pipeline"
)

const seriesProgram = `{"name": "motor", "networks": [{"step": 0, "nodes": [
  {"type": "series", "children": [
    {"type": "contact", "address": "M0000"},
    {"type": "contact", "address": "M0001"},
    {"type": "coil", "address": "P0040"}
  ]}
]}]}`

func newTestServer(t *testing.T, maxBody int64) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	reg := prometheus.NewRegistry()
	promhooks.New(reg).Register()
	t.Cleanup(observability.Reset)

	srv := httptest.NewServer(NewServer(Config{
		Runner:       pipeline.NewRunner(nil, nil, logger),
		Logger:       logger,
		MaxBodyBytes: maxBody,
		Gatherer:     reg,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, 0)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestForward(t *testing.T) {
	srv := newTestServer(t, 0)
	resp := post(t, srv.URL+"/v1/forward", seriesProgram)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	res := decode[pipeline.ForwardResult](t, resp)
	if len(res.Document.Networks) != 1 {
		t.Fatalf("networks = %d", len(res.Document.Networks))
	}
	nw := res.Document.Networks[0]
	if len(nw.Elements) != 3 || len(nw.Wires) != 2 {
		t.Errorf("elements %d wires %d, want 3 and 2", len(nw.Elements), len(nw.Wires))
	}
}

func TestForwardUUID(t *testing.T) {
	srv := newTestServer(t, 0)
	res := decode[pipeline.ForwardResult](t, post(t, srv.URL+"/v1/forward?ids=uuid", seriesProgram))
	id := res.Document.Networks[0].Elements[0].ID
	if !strings.HasPrefix(id, "el-") || len(id) != len("el-")+36 {
		t.Errorf("element id = %q, want el-<uuid>", id)
	}
}

func TestReverseBareSnapshot(t *testing.T) {
	srv := newTestServer(t, 0)
	body := `{"elements": [
	  {"id": "a", "kind": "contact_no", "position": {"row": 0, "column": 0}, "address": "M0000", "properties": {}},
	  {"id": "b", "kind": "coil_out", "position": {"row": 0, "column": 1}, "address": "P0040", "properties": {}}
	], "wires": []}`
	resp := post(t, srv.URL+"/v1/reverse", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	root := decode[map[string]any](t, resp)
	if root["type"] != "series" {
		t.Errorf("root = %v, want a series", root)
	}
}

func TestReverseEmptySnapshot(t *testing.T) {
	srv := newTestServer(t, 0)
	resp := post(t, srv.URL+"/v1/reverse", `{"elements": [], "wires": []}`)
	data, _ := io.ReadAll(resp.Body)
	if got := strings.TrimSpace(string(data)); got != "null" {
		t.Errorf("body = %q, want null", got)
	}
}

func TestReverseDocument(t *testing.T) {
	srv := newTestServer(t, 0)
	fwd := decode[pipeline.ForwardResult](t, post(t, srv.URL+"/v1/forward", seriesProgram))
	doc, err := json.Marshal(fwd.Document)
	if err != nil {
		t.Fatal(err)
	}
	res := decode[ReverseResponse](t, post(t, srv.URL+"/v1/reverse", string(doc)))
	if len(res.Networks) != 1 || res.Networks[0].Root == nil {
		t.Fatalf("networks = %+v", res.Networks)
	}
	if got := len(res.Networks[0].Root.Children); got != 3 {
		t.Errorf("children = %d, want 3", got)
	}
}

func TestRoundTrip(t *testing.T) {
	srv := newTestServer(t, 0)
	res := decode[RoundTripResponse](t, post(t, srv.URL+"/v1/roundtrip", seriesProgram))
	if !res.Lossless {
		t.Errorf("series program should round-trip: %+v", res)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed json", "/v1/forward", `{`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad address", "/v1/forward", `{"networks": [{"nodes": [{"type": "contact", "address": "Q99"}]}]}`, http.StatusBadRequest, errors.ErrCodeInvalidProgram},
		{"bad ids", "/v1/forward?ids=nope", seriesProgram, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad normalize", "/v1/reverse?normalize=maybe", `{"elements": []}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"duplicate ids", "/v1/reverse", `{"elements": [
		  {"id": "a", "kind": "contact_no", "position": {"row": 0, "column": 0}, "address": "M0000", "properties": {}},
		  {"id": "a", "kind": "contact_no", "position": {"row": 0, "column": 1}, "address": "M0001", "properties": {}}
		]}`, http.StatusBadRequest, errors.ErrCodeInvalidGrid},
	}
	srv := newTestServer(t, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			body := decode[ErrorResponse](t, resp)
			if body.Code != tt.code {
				t.Errorf("code = %s, want %s (message %q)", body.Code, tt.code, body.Message)
			}
			if body.Message == "" {
				t.Error("message should not be empty")
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	srv := newTestServer(t, 16)
	resp := post(t, srv.URL+"/v1/forward", seriesProgram)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t, 0)
	post(t, srv.URL+"/v1/forward", seriesProgram)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"laddergrid_conversions_total", "laddergrid_http_requests_total"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := NewServer(Config{Logger: log.NewWithOptions(io.Discard, log.Options{})})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil", err)
		}
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphpos/pkg/errors"
	"github.com/matzehuels/graphpos/pkg/observability"
	"github.com/matzehuels/graphpos/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(pipeline.NewRunner(nil, nil, logger), logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestVersion(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/version")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["version"] == "" {
		t.Errorf("version missing: %v", body)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts, "/v1/layout", `{
		"graph": {
			"nodes": [{"id": "a"}, {"id": "b", "position": {"x": 500, "y": 500}}, {"id": "c"}],
			"edges": [{"source": "a", "target": "b"}, {"source": "a", "target": "c"}]
		},
		"options": {"direction": "LR"}
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var res pipeline.LayoutResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if len(res.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(res.Nodes))
	}
	for _, n := range res.Nodes {
		if n.Position.IsAuto() {
			t.Errorf("node %s not placed", n.ID)
		}
	}
	if p, _ := res.Nodes[1].Position.Point(); p.X != 500 || p.Y != 500 {
		t.Errorf("fixed node moved to %v", p)
	}
	if res.Ranks["b"] != 1 || res.Ranks["a"] != 0 {
		t.Errorf("ranks = %v", res.Ranks)
	}
}

func TestLayoutEndpointErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"empty body", ``, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"malformed", `{"graph":`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"duplicate ids", `{"graph":{"nodes":[{"id":"a"},{"id":"a"}]}}`, http.StatusBadRequest, errors.ErrCodeInvalidGraph},
		{"bad direction", `{"graph":{"nodes":[{"id":"a"}]},"options":{"direction":"up"}}`, http.StatusBadRequest, errors.ErrCodeInvalidDirection},
		{"bad alignment", `{"graph":{"nodes":[{"id":"a"}]},"options":{"alignment":"middle"}}`, http.StatusBadRequest, errors.ErrCodeInvalidAlignment},
		{"negative spacing", `{"graph":{"nodes":[{"id":"a"}]},"options":{"node_spacing":-5}}`, http.StatusBadRequest, errors.ErrCodeInvalidOptions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/v1/layout", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Error.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.code)
			}
			if body.Error.Message == "" {
				t.Error("message should not be empty")
			}
		})
	}
}

func TestLayoutBatchEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts, "/v1/layout/batch", `{
		"graphs": [
			{"nodes": [{"id": "a"}, {"id": "b"}], "edges": [{"source": "a", "target": "b"}]},
			{"nodes": [{"id": "x"}]}
		]
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body BatchLayoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Results) != 2 || len(body.Results[0].Layers) != 2 || len(body.Results[1].Layers) != 1 {
		t.Errorf("unexpected batch results: %+v", body.Results)
	}

	empty := post(t, ts, "/v1/layout/batch", `{"graphs": []}`)
	if empty.StatusCode != http.StatusBadRequest {
		t.Errorf("empty batch status = %d, want 400", empty.StatusCode)
	}
}

func TestSimulateEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts, "/v1/simulate", `{
		"graph": {"nodes": [{"id": "a"}, {"id": "b"}], "edges": [{"source": "a", "target": "b"}]},
		"options": {"max_ticks": 20, "force": {"link_distance": 80}}
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var res pipeline.SimulateResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Ticks != 20 {
		t.Errorf("ticks = %d, want 20", res.Ticks)
	}
	if len(res.Nodes) != 2 || res.Nodes[0].Position.IsAuto() {
		t.Errorf("nodes = %+v", res.Nodes)
	}

	bad := post(t, ts, "/v1/simulate", `{"graph":{"nodes":[]},"options":{"force":{"alpha_decay":2}}}`)
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid decay status = %d, want 400", bad.StatusCode)
	}
}

func TestStreamEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts, "/v1/simulate/stream", `{
		"graph": {"nodes": [{"id": "a"}, {"id": "b"}], "edges": [{"source": "a", "target": "b"}]},
		"options": {"max_ticks": 30, "fps": 1000, "every": 10}
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/x-ndjson" {
		t.Errorf("Content-Type = %q", ct)
	}

	var lines []StreamLine
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		var line StreamLine
		if err := json.Unmarshal(sc.Bytes(), &line); err != nil {
			t.Fatalf("bad line %q: %v", sc.Text(), err)
		}
		lines = append(lines, line)
	}
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 3 frames and a result", len(lines))
	}
	for i, line := range lines[:3] {
		if line.Frame == nil || line.Frame.Tick != (i+1)*10 {
			t.Errorf("line %d = %+v, want frame at tick %d", i, line, (i+1)*10)
		}
	}
	if last := lines[3]; last.Result == nil || last.Result.Ticks != 30 {
		t.Errorf("last line = %+v, want result after 30 ticks", last)
	}
}

func TestStreamEndpointRejectsBeforeStreaming(t *testing.T) {
	ts := newTestServer(t)
	for _, body := range []string{
		`{"graph":{"nodes":[{"id":""}]}}`,
		`{"graph":{"nodes":[{"id":"a"}]},"options":{"fps":2000000000}}`,
	} {
		resp := post(t, ts, "/v1/simulate/stream", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, resp.StatusCode)
		}
	}
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

type recordingHTTPHooks struct {
	mu        sync.Mutex
	requests  []string
	responses []int
}

func (h *recordingHTTPHooks) OnRequest(_ context.Context, method, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, method+" "+path)
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.Register(observability.Hooks{HTTP: hooks})
	defer observability.Reset()

	logger := log.NewWithOptions(io.Discard, log.Options{})
	h := New(nil, logger).Handler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/layout", bytes.NewBufferString(`{"graph":{"nodes":[{"id":"a"}]}}`))
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(hooks.requests) != 1 || hooks.requests[0] != "POST /v1/layout" {
		t.Errorf("requests = %v", hooks.requests)
	}
	if len(hooks.responses) != 1 || hooks.responses[0] != http.StatusOK {
		t.Errorf("responses = %v", hooks.responses)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(nil, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v, want nil after shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

package server

import (
	"bytes"
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
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/blockgen/pkg/diagram"
	"github.com/matzehuels/blockgen/pkg/export"
	"github.com/matzehuels/blockgen/pkg/generate"
	"github.com/matzehuels/blockgen/pkg/metrics"
	"github.com/matzehuels/blockgen/pkg/observability"
	"github.com/matzehuels/blockgen/pkg/pipeline"
)

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	opts.Logger = logger
	return New(pipeline.NewRunner(nil, nil, logger), opts)
}

func do(t *testing.T, s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := do(t, s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestGenerate(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := do(t, s, http.MethodPost, "/api/v1/generate", []byte(`{"text":"battery powered camera with wifi"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if _, err := uuid.Parse(rec.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("request id header = %q", rec.Header().Get(RequestIDHeader))
	}

	d, err := export.ImportJSON(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	want := generate.Generate("battery powered camera with wifi")
	if !d.Equal(want) {
		t.Errorf("response diagram differs from Generate()")
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"missing text", `{}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"malformed", `{"text":`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", `{"text":"x","colour":"red"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"text too long", `{"text":"` + strings.Repeat("a", pipeline.MaxTextLength+1) + `"}`, http.StatusBadRequest, "INVALID_INPUT"},
	}

	s := newTestServer(t, Options{MaxBodyBytes: 1 << 20})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/generate", []byte(tt.body))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
			if resp := decodeError(t, rec); resp.Code != tt.code {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
		})
	}
}

func TestGenerateEmptyTextIsBaseline(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := do(t, s, http.MethodPost, "/api/v1/generate", []byte(`{"text":""}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	d, err := export.ImportJSON(rec.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !d.Equal(diagram.Baseline()) {
		t.Error("empty text should yield the baseline diagram")
	}
}

func TestBodyLimit(t *testing.T) {
	s := newTestServer(t, Options{MaxBodyBytes: 16})
	rec := do(t, s, http.MethodPost, "/api/v1/generate", []byte(`{"text":"a battery and a very long tail"}`))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
}

func TestExport(t *testing.T) {
	s := newTestServer(t, Options{})
	d := generate.Generate("battery camera mcu led")
	body, err := export.JSON(d.Nodes, d.Edges)
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range []export.Format{export.FormatJSON, export.FormatSVG, export.FormatDrawIO, export.FormatDOT} {
		t.Run(string(f), func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/export/"+string(f), body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
			}
			if ct := rec.Header().Get("Content-Type"); ct != f.ContentType() {
				t.Errorf("Content-Type = %q, want %q", ct, f.ContentType())
			}
			wantCD := "attachment; filename=block-diagram." + f.Extension()
			if cd := rec.Header().Get("Content-Disposition"); cd != wantCD {
				t.Errorf("Content-Disposition = %q, want %q", cd, wantCD)
			}

			want, err := export.Export(context.Background(), f, d.Nodes, d.Edges)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(rec.Body.Bytes(), want) {
				t.Error("body differs from direct export")
			}
		})
	}
}

func TestExportErrors(t *testing.T) {
	s := newTestServer(t, Options{})
	baseline, _ := export.JSON(diagram.FixedNodes(), nil)

	tests := []struct {
		name   string
		path   string
		body   []byte
		status int
		code   string
	}{
		{"unknown format", "/api/v1/export/pdf", baseline, http.StatusBadRequest, "INVALID_FORMAT"},
		{"malformed diagram", "/api/v1/export/svg", []byte(`{"nodes":`), http.StatusBadRequest, "INVALID_DIAGRAM"},
		{"missing fixed nodes", "/api/v1/export/svg", []byte(`{"nodes":[],"edges":[]}`), http.StatusBadRequest, "INVALID_DIAGRAM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
			if resp := decodeError(t, rec); resp.Code != tt.code {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
		})
	}
}

func TestVocabulary(t *testing.T) {
	s := newTestServer(t, Options{
		Vocabulary: generate.DefaultVocabulary().Merge(generate.Vocabulary{"solar": diagram.Power}),
	})
	rec := do(t, s, http.MethodGet, "/api/v1/vocabulary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var vocab map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&vocab); err != nil {
		t.Fatal(err)
	}
	if vocab["battery"] != "power" || vocab["solar"] != "power" || vocab["led"] != "outputs" {
		t.Errorf("vocabulary = %v", vocab)
	}
}

func TestCustomVocabularyUsedForGenerate(t *testing.T) {
	s := newTestServer(t, Options{Vocabulary: generate.Vocabulary{"solar": diagram.Power}})
	rec := do(t, s, http.MethodPost, "/api/v1/generate", []byte(`{"text":"solar battery"}`))
	d, err := export.ImportJSON(rec.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	derived := d.Derived()
	if len(derived) != 1 || derived[0].Label != "solar" {
		t.Errorf("derived = %+v, want only solar", derived)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	s := newTestServer(t, Options{})
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got == "not-a-uuid" {
		t.Error("invalid request id should be replaced")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Cleanup(observability.Reset)

	reg := metrics.NewRegistry()
	reg.Install()
	s := newTestServer(t, Options{Metrics: reg})

	do(t, s, http.MethodPost, "/api/v1/generate", []byte(`{"text":"motor"}`))
	do(t, s, http.MethodPost, "/api/v1/export/pdf", nil)

	ok := reg.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/generate", "200")
	if got := testutil.ToFloat64(ok); got != 1 {
		t.Errorf("generate requests = %v, want 1", got)
	}
	bad := reg.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/export/{format}", "400")
	if got := testutil.ToFloat64(bad); got != 1 {
		t.Errorf("export 400 requests = %v, want 1", got)
	}

	rec := do(t, s, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "blockgen_generate_total 1") {
		t.Error("metrics output missing generate counter")
	}
}

func TestMetricsDisabled(t *testing.T) {
	s := newTestServer(t, Options{})
	if rec := do(t, s, http.MethodGet, "/metrics", nil); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestServeShutdown(t *testing.T) {
	s := newTestServer(t, Options{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestStatusFor(t *testing.T) {
	if got := statusFor(io.EOF); got != http.StatusInternalServerError {
		t.Errorf("statusFor(plain) = %d", got)
	}
}

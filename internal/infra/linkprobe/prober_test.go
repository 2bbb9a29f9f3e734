package linkprobe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/docentkit/docent/internal/domain"
	"github.com/docentkit/docent/internal/infra/httpclient"
)

func TestProber_HeadOK(t *testing.T) {
	var gotMethod, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := New(httpclient.New(httpclient.DefaultConfig()))
	res := p.Probe(context.Background(), srv.URL)

	if res.Error != nil {
		t.Fatalf("expected no probe error, got: %+v", res.Error)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got=%d", res.StatusCode)
	}
	if gotMethod != http.MethodHead {
		t.Fatalf("expected HEAD, got=%s", gotMethod)
	}
	if !strings.HasPrefix(gotUA, "docent-linkcheck/") {
		t.Fatalf("expected docent user agent, got=%q", gotUA)
	}
	if res.LatencyMS < 0 {
		t.Fatalf("expected non-negative latency, got=%d", res.LatencyMS)
	}
}

func TestProber_FallsBackToGetOn405(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(strings.Repeat("x", 100*1024)))
	}))
	defer srv.Close()

	p := New(httpclient.New(httpclient.DefaultConfig()))
	res := p.Probe(context.Background(), srv.URL)

	if res.Error != nil {
		t.Fatalf("expected no probe error, got: %+v", res.Error)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200 after GET fallback, got=%d", res.StatusCode)
	}
	if len(methods) != 2 || methods[0] != http.MethodHead || methods[1] != http.MethodGet {
		t.Fatalf("expected HEAD then GET, got=%v", methods)
	}
}

func TestProber_ReportsHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := New(httpclient.New(httpclient.DefaultConfig()))
	res := p.Probe(context.Background(), srv.URL)

	if res.Error != nil {
		t.Fatalf("a 404 is a status, not a transport error: %+v", res.Error)
	}
	if res.StatusCode != 404 {
		t.Fatalf("expected 404, got=%d", res.StatusCode)
	}
}

func TestProber_ClassifiesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := httpclient.DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond
	p := New(httpclient.New(cfg))

	res := p.Probe(context.Background(), srv.URL)
	if res.Error == nil {
		t.Fatalf("expected a probe error")
	}
	if res.Error.Kind != domain.ProbeErrorTimeout {
		t.Fatalf("expected timeout kind, got=%s (msg=%s)", res.Error.Kind, res.Error.Message)
	}
}

func TestProber_ClassifiesConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := srv.URL
	srv.Close() // nothing listens here anymore

	p := New(httpclient.New(httpclient.DefaultConfig()))
	res := p.Probe(context.Background(), url)

	if res.Error == nil {
		t.Fatalf("expected a probe error")
	}
	if res.Error.Kind != domain.ProbeErrorConn {
		t.Fatalf("expected connection kind, got=%s (msg=%s)", res.Error.Kind, res.Error.Message)
	}
}

func TestProber_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(httpclient.New(httpclient.DefaultConfig()))
	res := p.Probe(ctx, srv.URL)
	if res.Error == nil {
		t.Fatalf("expected a probe error for cancelled context")
	}
}

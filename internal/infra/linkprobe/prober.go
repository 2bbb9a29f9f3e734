// Package linkprobe issues live requests against external URLs referenced by
// lesson documents. Transport failures are classified into coarse kinds and
// reported inside the result, never as a Go error.
package linkprobe

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/docentkit/docent/internal/domain"
	"github.com/docentkit/docent/internal/ports"
)

const defaultMaxDrainBytes = 64 * 1024 // 64KB

// defaultUserAgent identifies the verifier to servers that reject anonymous
// clients.
const defaultUserAgent = "docent-linkcheck/1.0"

type Prober struct {
	client        *http.Client
	maxDrainBytes int64
	userAgent     string
}

type Option func(*Prober)

// WithMaxDrainBytes bounds how much of a GET body is read before closing.
func WithMaxDrainBytes(n int64) Option {
	return func(p *Prober) { p.maxDrainBytes = n }
}

func WithUserAgent(ua string) Option {
	return func(p *Prober) { p.userAgent = ua }
}

func New(client *http.Client, opts ...Option) *Prober {
	p := &Prober{
		client:        client,
		maxDrainBytes: defaultMaxDrainBytes,
		userAgent:     defaultUserAgent,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ ports.LinkProber = (*Prober)(nil)

// Probe sends HEAD first and falls back to GET when the server does not
// implement HEAD (405/501). The client owns timeouts and redirect policy.
func (p *Prober) Probe(ctx context.Context, rawURL string) domain.ProbeResult {
	result := domain.ProbeResult{URL: rawURL}

	start := time.Now()
	resp, err := p.do(ctx, http.MethodHead, rawURL)
	if err == nil && headRejected(resp.StatusCode) {
		p.drain(resp)
		resp, err = p.do(ctx, http.MethodGet, rawURL)
	}
	result.LatencyMS = time.Since(start).Milliseconds()

	if err != nil {
		result.Error = domain.NewProbeError(err)
		return result
	}

	p.drain(resp)
	result.StatusCode = resp.StatusCode
	return result
}

func (p *Prober) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.userAgent)
	return p.client.Do(req)
}

// drain reads a bounded amount of the body so the connection can be reused,
// then closes it.
func (p *Prober) drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, p.maxDrainBytes))
	_ = resp.Body.Close()
}

func headRejected(status int) bool {
	return status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented
}

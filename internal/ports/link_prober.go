package ports

import (
	"context"

	"github.com/docentkit/docent/internal/domain"
)

// LinkProber checks that an external URL answers. Transport failures are
// reported inside the result, never as a Go error.
type LinkProber interface {
	Probe(ctx context.Context, rawURL string) domain.ProbeResult
}

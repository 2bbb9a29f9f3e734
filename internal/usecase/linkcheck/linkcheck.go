// Package linkcheck verifies every link and image a lesson document refers
// to. Static checks resolve relative targets against the workspace on disk
// and shape-check external URLs; ProbeExternal optionally performs live
// requests through a ports.LinkProber.
package linkcheck

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/docentkit/docent/internal/domain"
	"github.com/docentkit/docent/internal/ports"
)

// Evaluate runs the static link checks for one lesson. root is the absolute
// workspace root; relative targets are resolved against the lesson directory
// and must stay inside the workspace.
func Evaluate(root string, ref domain.LessonRef, doc domain.Document) []domain.CheckResult {
	var out []domain.CheckResult

	for _, block := range doc.Links() {
		out = append(out, checkLink(root, ref, doc, block, "links"))
	}
	for _, block := range doc.Images() {
		out = append(out, checkLink(root, ref, doc, block, "images"))
	}
	return out
}

func checkLink(root string, ref domain.LessonRef, doc domain.Document, block domain.Block, family string) domain.CheckResult {
	target := strings.TrimSpace(block.Target)
	at := fmt.Sprintf("%s:%d", ref.Path, block.Line)

	if target == "" {
		return domain.Fail(family+".internal", at, "empty link target")
	}

	if u, err := url.Parse(target); err == nil && u.Scheme != "" {
		return checkExternal(family, at, target, u)
	}

	if strings.HasPrefix(target, "#") {
		return checkAnchor(family, at, doc, target)
	}
	return checkRelative(root, ref, family, at, target)
}

func checkExternal(family, at, raw string, u *url.URL) domain.CheckResult {
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return domain.Fail(family+".external", at, fmt.Sprintf("%s has no host", raw))
		}
		return domain.Pass(family+".external", at, raw)
	case "mailto":
		return domain.Skip(family+".external", at, raw+" (mailto, not checked)")
	default:
		return domain.Warn(family+".external", at, fmt.Sprintf("unrecognized scheme %q in %s", u.Scheme, raw))
	}
}

func checkAnchor(family, at string, doc domain.Document, target string) domain.CheckResult {
	want := strings.TrimPrefix(target, "#")
	for _, h := range doc.Headings() {
		if headingAnchor(h.Text) == want {
			return domain.Pass(family+".anchor", at, target)
		}
	}
	return domain.Fail(family+".anchor", at, fmt.Sprintf("no heading matches anchor %s", target))
}

func checkRelative(root string, ref domain.LessonRef, family, at, target string) domain.CheckResult {
	rel := target
	if i := strings.IndexByte(rel, '#'); i >= 0 {
		rel = rel[:i]
	}
	if rel == "" {
		return domain.Fail(family+".internal", at, "empty path before anchor in "+target)
	}

	full := filepath.Join(root, filepath.Dir(filepath.FromSlash(ref.Path)), filepath.FromSlash(rel))
	inside, err := filepath.Rel(root, full)
	if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return domain.Fail(family+".internal", at, fmt.Sprintf("%s escapes the workspace", target))
	}

	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return domain.Fail(family+".internal", at, fmt.Sprintf("%s does not exist (resolved %s)", target, inside))
		}
		return domain.Fail(family+".internal", at, fmt.Sprintf("%s: %v", target, err))
	}
	return domain.Pass(family+".internal", at, target)
}

// headingAnchor derives the in-page anchor a renderer assigns to a heading:
// lowercase, punctuation stripped, spaces replaced with hyphens.
func headingAnchor(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}

// ProbeExternal issues a live request for every distinct external http(s)
// target in the document. The prober owns timeouts and redirect policy; this
// layer only maps outcomes onto check results.
func ProbeExternal(ctx context.Context, prober ports.LinkProber, ref domain.LessonRef, doc domain.Document) []domain.CheckResult {
	var out []domain.CheckResult
	seen := map[string]bool{}

	blocks := append(doc.Links(), doc.Images()...)
	for _, block := range blocks {
		target := strings.TrimSpace(block.Target)
		u, err := url.Parse(target)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			continue
		}
		if seen[target] {
			continue
		}
		seen[target] = true

		at := fmt.Sprintf("%s:%d", ref.Path, block.Line)
		res := prober.Probe(ctx, target)
		switch {
		case res.Error != nil:
			out = append(out, domain.Fail("links.probe", at,
				fmt.Sprintf("%s: %s (%s)", target, res.Error.Message, res.Error.Kind)))
		case res.StatusCode >= 200 && res.StatusCode < 400:
			out = append(out, domain.Pass("links.probe", at,
				fmt.Sprintf("%s (%d, %dms)", target, res.StatusCode, res.LatencyMS)))
		default:
			out = append(out, domain.Fail("links.probe", at,
				fmt.Sprintf("%s returned %d", target, res.StatusCode)))
		}
	}
	return out
}

package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PlaceholderResolver resolves {{var}} tokens in lesson content and
// workspace templates. It supports built-ins: {{$year}} and {{$date}}.
//
// This lives in domain because it does not depend on YAML/FS. Only stdlib.
type PlaceholderResolver struct {
	now func() time.Time
}

// PlaceholderOption configures PlaceholderResolver.
type PlaceholderOption func(*PlaceholderResolver)

// WithNow overrides the clock (useful for tests).
func WithNow(now func() time.Time) PlaceholderOption {
	return func(r *PlaceholderResolver) { r.now = now }
}

func NewPlaceholderResolver(opts ...PlaceholderOption) *PlaceholderResolver {
	r := &PlaceholderResolver{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Builtins returns the generated variables for one resolution session.
func (r *PlaceholderResolver) Builtins() Vars {
	t := r.now().UTC()
	return Vars{
		"$year": strconv.Itoa(t.Year()),
		"$date": t.Format("2006-01-02"),
	}
}

// Resolve replaces {{var}} tokens with values from vars and the built-ins.
// It returns an error for an unclosed or empty token, or a missing variable.
func (r *PlaceholderResolver) Resolve(input string, vars Vars) (string, error) {
	builtins := r.Builtins()

	var out strings.Builder
	rest := input
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			out.WriteString(rest)
			return out.String(), nil
		}

		out.WriteString(rest[:start])
		rest = rest[start+2:]

		end := strings.Index(rest, "}}")
		if end == -1 {
			return "", &OpError{
				Op:   "placeholders.resolve",
				Kind: KindInvalidContent,
				Err:  fmt.Errorf("unclosed placeholder"),
			}
		}

		key := strings.TrimSpace(rest[:end])
		if key == "" {
			return "", &OpError{
				Op:   "placeholders.resolve",
				Kind: KindInvalidContent,
				Err:  fmt.Errorf("empty placeholder"),
			}
		}

		value, ok := vars[key]
		if !ok {
			value, ok = builtins[key]
		}
		if !ok {
			return "", &OpError{
				Op:   "placeholders.resolve",
				Kind: KindMissingVar,
				Err:  fmt.Errorf("missing variable %q", key),
			}
		}

		out.WriteString(value)
		rest = rest[end+2:]
	}
}

// Scan returns the distinct placeholder names in input, in first-seen order.
// An unclosed token is reported as an error; scanning does not resolve.
func (r *PlaceholderResolver) Scan(input string) ([]string, error) {
	var names []string
	seen := map[string]bool{}

	rest := input
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			return names, nil
		}
		rest = rest[start+2:]

		end := strings.Index(rest, "}}")
		if end == -1 {
			return names, &OpError{
				Op:   "placeholders.scan",
				Kind: KindInvalidContent,
				Err:  fmt.Errorf("unclosed placeholder"),
			}
		}

		key := strings.TrimSpace(rest[:end])
		if key != "" && !seen[key] {
			seen[key] = true
			names = append(names, key)
		}
		rest = rest[end+2:]
	}
}

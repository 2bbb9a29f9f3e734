// Package datacheck runs the frontmatter-declared assertions a lesson makes
// about the workspace's JSON data files, so prose like "the dataset has 8
// categories" stays true when the data changes.
package datacheck

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/docentkit/docent/internal/domain"
)

// Evaluate runs every data check of one lesson. Files are resolved against
// the workspace root. One JSON file read per distinct file, not per check.
func Evaluate(root string, ref domain.LessonRef, checks []domain.DataCheck) []domain.CheckResult {
	if len(checks) == 0 {
		return nil
	}

	out := make([]domain.CheckResult, 0, len(checks))
	docs := map[string]any{}
	broken := map[string]string{}

	for _, c := range checks {
		id := "data." + c.Name
		at := fmt.Sprintf("%s (%s)", c.File, ref.Path)

		if msg, bad := broken[c.File]; bad {
			out = append(out, domain.Fail(id, at, msg))
			continue
		}
		doc, loaded := docs[c.File]
		if !loaded {
			var err error
			doc, err = loadJSON(root, c.File)
			if err != nil {
				msg := err.Error()
				broken[c.File] = msg
				out = append(out, domain.Fail(id, at, msg))
				continue
			}
			docs[c.File] = doc
		}

		out = append(out, evalOne(id, at, c, doc))
	}
	return out
}

func evalOne(id, at string, c domain.DataCheck, doc any) domain.CheckResult {
	expr := strings.TrimSpace(c.Path)
	if expr == "" {
		return domain.Fail(id, at, "empty jsonpath expression")
	}

	val, err := jsonpath.Get(expr, doc)
	if err != nil {
		return domain.Fail(id, at, fmt.Sprintf("%s: jsonpath error: %v", expr, err))
	}

	if c.Equals != nil {
		got, convErr := toString(val)
		if convErr != nil {
			return domain.Fail(id, at, fmt.Sprintf("%s: cannot convert value: %v", expr, convErr))
		}
		if got != *c.Equals {
			return domain.Fail(id, at, fmt.Sprintf("%s = %q, want %q", expr, got, *c.Equals))
		}
		return domain.Pass(id, at, fmt.Sprintf("%s = %q", expr, got))
	}

	if isEmptyValue(val) {
		return domain.Fail(id, at, fmt.Sprintf("%s: no value found", expr))
	}
	return domain.Pass(id, at, expr+" exists")
}

func loadJSON(root, rel string) (any, error) {
	full := filepath.Join(root, filepath.FromSlash(rel))
	raw, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%s is not valid JSON: %w", rel, err)
	}
	return doc, nil
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

func toString(v any) (string, error) {
	// Common case: jsonpath returns a slice with 1 element
	if arr, ok := v.([]any); ok {
		if len(arr) == 0 {
			return "", fmt.Errorf("empty array")
		}
		if len(arr) == 1 {
			return toString(arr[0])
		}
		b, err := json.Marshal(arr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	switch t := v.(type) {
	case string:
		return t, nil
	case float64, bool, int, int64, uint64:
		return fmt.Sprint(t), nil
	case map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return fmt.Sprint(t), nil
	}
}

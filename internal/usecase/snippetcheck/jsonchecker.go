package snippetcheck

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/docentkit/docent/internal/ports"
)

// JSONChecker decodes JSON blocks. A block may hold a stream of documents,
// the way sample payloads are often shown one after another.
type JSONChecker struct{}

var _ ports.SnippetChecker = JSONChecker{}

func (JSONChecker) Lang() string { return "json" }

func (JSONChecker) Check(src string) error {
	if strings.TrimSpace(src) == "" {
		return errors.New("empty json snippet")
	}

	dec := json.NewDecoder(strings.NewReader(src))
	for {
		var v any
		if err := dec.Decode(&v); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

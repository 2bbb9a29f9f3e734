package snippetcheck

import (
	"errors"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/docentkit/docent/internal/ports"
)

// YAMLChecker decodes YAML blocks, including multi-document streams.
type YAMLChecker struct{}

var _ ports.SnippetChecker = YAMLChecker{}

func (YAMLChecker) Lang() string { return "yaml" }

func (YAMLChecker) Check(src string) error {
	if strings.TrimSpace(src) == "" {
		return errors.New("empty yaml snippet")
	}

	dec := yaml.NewDecoder(strings.NewReader(src))
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

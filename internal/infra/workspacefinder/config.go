package workspacefinder

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/docentkit/docent/internal/domain"
)

// LoadConfig loads the `docent:` block of course.yaml from the workspace
// root and applies defaults. The rest of the manifest belongs to the course
// loader; this function only reads tool settings.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, "course.yaml")
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	// Apply parsed values on top of defaults.
	if y.Docent.Paths.UnitsDir != "" {
		cfg.Paths.UnitsDir = y.Docent.Paths.UnitsDir
	}
	if y.Docent.Paths.DataDir != "" {
		cfg.Paths.DataDir = y.Docent.Paths.DataDir
	}
	if y.Docent.Paths.ReportsDir != "" {
		cfg.Paths.ReportsDir = y.Docent.Paths.ReportsDir
	}
	if y.Docent.Probe.Enabled != nil {
		cfg.Probe.Enabled = *y.Docent.Probe.Enabled
	}
	if y.Docent.Probe.TimeoutMS > 0 {
		cfg.Probe.TimeoutMS = y.Docent.Probe.TimeoutMS
	}

	return cfg, nil
}

type yamlConfig struct {
	Docent struct {
		Paths struct {
			UnitsDir   string `yaml:"units_dir"`
			DataDir    string `yaml:"data_dir"`
			ReportsDir string `yaml:"reports_dir"`
		} `yaml:"paths"`

		Probe struct {
			Enabled   *bool `yaml:"enabled"`
			TimeoutMS int   `yaml:"timeout_ms"`
		} `yaml:"probe"`
	} `yaml:"docent"`
}

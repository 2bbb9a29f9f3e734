package domain

// Config represents the minimal Docent configuration loaded from the
// `docent:` block of course.yaml.
type Config struct {
	Paths PathsConfig
	Probe ProbeConfig
}

type PathsConfig struct {
	UnitsDir   string
	DataDir    string
	ReportsDir string
}

type ProbeConfig struct {
	// Enabled turns on external-link probing by default; the CLI flag can
	// still override either way.
	Enabled   bool
	TimeoutMS int
}

// DefaultConfig provides sane defaults if the docent block is partially
// missing.
func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			UnitsDir:   "units",
			DataDir:    "data",
			ReportsDir: "reports",
		},
		Probe: ProbeConfig{
			Enabled:   false,
			TimeoutMS: 5000,
		},
	}
}

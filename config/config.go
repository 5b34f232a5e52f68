package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/revelaction/corpstat/annotate"
	"github.com/revelaction/corpstat/stat"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatSQLite = "sqlite"

	DefaultURL     = "http://localhost:8080/annotate"
	DefaultTimeout = 60 * time.Second
	dbName         = "features.db"
)

// Formats returns the supported output formats.
func Formats() []string {
	return []string{FormatCSV, FormatJSON, FormatSQLite}
}

// Conf holds the settings of an extraction run and of the commands reading
// its output.
type Conf struct {
	Input        string  `yaml:"input"`
	Output       string  `yaml:"output"`
	Format       string  `yaml:"format"`
	DB           string  `yaml:"db"`
	Scale        float64 `yaml:"scale"`
	ExcludePunct bool    `yaml:"excludePunct"`
	NFC          bool    `yaml:"nfc"`
	LogLevel     string  `yaml:"logLevel"`

	Annotator annotate.Conf `yaml:"annotator"`
}

func Default() Conf {
	return Conf{
		Input:    "in",
		Output:   "out",
		Format:   FormatCSV,
		Scale:    stat.DefaultScale,
		LogLevel: zerolog.InfoLevel.String(),
		Annotator: annotate.Conf{
			Kind:    annotate.KindSpacy,
			URL:     DefaultURL,
			Model:   annotate.DefaultModel,
			Timeout: DefaultTimeout,
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing in the file keep
// their default value.
func Load(path string) (Conf, error) {
	conf := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return conf, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &conf); err != nil {
		return conf, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return conf, nil
}

func (c Conf) Validate() error {
	if !slices.Contains(Formats(), c.Format) {
		return fmt.Errorf("unknown format %q, supported: %v", c.Format, Formats())
	}

	if !slices.Contains(annotate.Kinds(), c.Annotator.Kind) {
		return fmt.Errorf("unknown annotator %q, supported: %v", c.Annotator.Kind, annotate.Kinds())
	}

	if c.Annotator.Kind == annotate.KindSpacy && c.Annotator.URL == "" {
		return fmt.Errorf("spacy annotator needs an URL")
	}

	if c.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", c.Scale)
	}

	if c.Annotator.CacheSize < 0 {
		return fmt.Errorf("cache size must not be negative, got %d", c.Annotator.CacheSize)
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("bad log level: %w", err)
	}

	return nil
}

// DBPath is the SQLite file used with the sqlite format.
func (c Conf) DBPath() string {
	if c.DB != "" {
		return c.DB
	}
	return filepath.Join(c.Output, dbName)
}

// StatOptions returns the counting options of the run.
func (c Conf) StatOptions() stat.Options {
	return stat.Options{Scale: c.Scale, ExcludePunct: c.ExcludePunct}
}

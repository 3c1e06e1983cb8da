// Configuration of the command line, read from (by increasing priority)
// built-in defaults, an optional YAML file and CENSUSPIE_* environment variables.
// Command line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/benoitkugler/censuspie/category"
	"github.com/benoitkugler/censuspie/census"
	"github.com/benoitkugler/censuspie/svgdraw"
	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of the environment variables.
const EnvPrefix = "CENSUSPIE_"

// Output formats
const (
	FormatSVG  = "svg"
	FormatHTML = "html"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// Formats lists the supported output formats.
var Formats = []string{FormatSVG, FormatHTML, FormatPNG, FormatPDF, FormatXLSX, FormatJSON}

type Config struct {
	DataFile string `yaml:"dataFile" env:"DATA_FILE"`
	DataURL  string `yaml:"dataURL" env:"DATA_URL"`
	Charset  string `yaml:"charset" env:"CHARSET"` // empty for utf-8 files and the Content-Type of URLs

	OutDir     string   `yaml:"outDir" env:"OUT_DIR"`
	Formats    []string `yaml:"formats" env:"FORMATS" envSeparator:","`
	Categories []string `yaml:"categories" env:"CATEGORIES" envSeparator:","`
	Title      string   `yaml:"title" env:"TITLE"`

	ShowPercentages bool              `yaml:"showPercentages" env:"SHOW_PERCENTAGES"`
	Animate         bool              `yaml:"animate" env:"ANIMATE"`
	Radius          float64           `yaml:"radius" env:"RADIUS"`
	FontSize        float64           `yaml:"fontSize" env:"FONT_SIZE"`
	Scale           float64           `yaml:"scale" env:"SCALE"` // of the PNG images
	Palette         map[string]string `yaml:"palette" env:"PALETTE"`
	Language        string            `yaml:"language" env:"LANGUAGE"` // BCP 47 tag used to format numbers

	Timeout     time.Duration `yaml:"timeout" env:"TIMEOUT"`
	Concurrency int           `yaml:"concurrency" env:"CONCURRENCY"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataFile:    "data/business.csv",
		OutDir:      "out",
		Formats:     []string{FormatSVG, FormatHTML},
		Categories:  category.Tags(),
		Title:       "Business ownership by years in business",
		Animate:     true,
		Radius:      180,
		FontSize:    12,
		Scale:       1,
		Language:    "en",
		Timeout:     30 * time.Second,
		Concurrency: 4,
	}
}

// Load reads the YAML file at `path` (if not empty) and then the environment.
// `environ` replaces the process environment when not nil.
// The returned configuration is validated.
func Load(path string, environ map[string]string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("config file: %w", err)
		}
		err = decodeYAML(f, &cfg)
		f.Close()
		if err != nil {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// decodeYAML rejects unknown fields; an empty document is valid.
func decodeYAML(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks the consistency of the configuration.
// Category tags are not resolved here: an unknown tag only
// fails its own chart. Repeated tags are rejected.
func (cfg Config) Validate() error {
	var errs []error
	if cfg.DataFile == "" && cfg.DataURL == "" {
		errs = append(errs, errors.New("one of data file or data URL is required"))
	}
	if len(cfg.Formats) == 0 {
		errs = append(errs, errors.New("at least one output format is required"))
	}
	for _, f := range cfg.Formats {
		if !slices.Contains(Formats, f) {
			errs = append(errs, fmt.Errorf("unsupported format %q (expected one of %v)", f, Formats))
		}
	}
	if cfg.Radius <= 0 {
		errs = append(errs, fmt.Errorf("invalid radius %g", cfg.Radius))
	}
	if cfg.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("invalid font size %g", cfg.FontSize))
	}
	if cfg.Scale <= 0 {
		errs = append(errs, fmt.Errorf("invalid scale %g", cfg.Scale))
	}
	if cfg.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("invalid concurrency %d", cfg.Concurrency))
	}
	if cfg.Timeout < 0 {
		errs = append(errs, fmt.Errorf("invalid timeout %s", cfg.Timeout))
	}
	if _, err := svgdraw.DefaultPalette().Override(cfg.Palette); err != nil {
		errs = append(errs, err)
	}
	if _, err := language.Parse(cfg.Language); err != nil {
		errs = append(errs, fmt.Errorf("invalid language %q: %w", cfg.Language, err))
	}
	seen := make(map[string]bool, len(cfg.Categories))
	for _, tag := range cfg.Categories {
		if seen[tag] {
			errs = append(errs, fmt.Errorf("duplicate category %q", tag))
		}
		seen[tag] = true
	}
	return errors.Join(errs...)
}

// Source returns the dataset location. The URL
// takes precedence over the file.
func (cfg Config) Source() census.Source {
	if cfg.DataURL != "" {
		return census.Source{URL: cfg.DataURL, Charset: cfg.Charset}
	}
	return census.Source{FilePath: cfg.DataFile, Charset: cfg.Charset}
}

// ChartOptions returns the layout options of the charts.
func (cfg Config) ChartOptions() (svgdraw.Options, error) {
	palette, err := svgdraw.DefaultPalette().Override(cfg.Palette)
	if err != nil {
		return svgdraw.Options{}, err
	}
	opts := svgdraw.DefaultOptions()
	opts.Radius = cfg.Radius
	opts.FontSize = cfg.FontSize
	opts.ShowPercentages = cfg.ShowPercentages
	opts.Palette = palette
	opts.Language = cfg.LanguageTag()
	return opts, nil
}

// LanguageTag returns the parsed Language, or English
// if it is invalid.
func (cfg Config) LanguageTag() language.Tag {
	tag, err := language.Parse(cfg.Language)
	if err != nil {
		return language.English
	}
	return tag
}

// HasFormat returns true if `format` is requested.
func (cfg Config) HasFormat(format string) bool {
	return slices.Contains(cfg.Formats, format)
}

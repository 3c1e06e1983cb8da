package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/benoitkugler/censuspie/category"
	"github.com/benoitkugler/censuspie/svgdraw"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "censuspie.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Load("", map[string]string{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("unexpected config %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Categories, category.Tags()) {
		t.Errorf("all categories should be drawn by default, got %v", cfg.Categories)
	}
	if src := cfg.Source(); src.FilePath != "data/business.csv" || src.URL != "" {
		t.Errorf("unexpected source %v", src)
	}
}

func TestLayering(t *testing.T) {
	path := writeFile(t, `
dataFile: census.csv
formats: [svg, png]
categories: [all, male]
radius: 100
timeout: 5s
palette:
  "311": "#000000"
`)
	cfg, err := Load(path, map[string]string{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataFile != "census.csv" || cfg.Radius != 100 || cfg.Timeout != 5*time.Second {
		t.Errorf("unexpected config %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Formats, []string{"svg", "png"}) || !reflect.DeepEqual(cfg.Categories, []string{"all", "male"}) {
		t.Errorf("unexpected lists %v %v", cfg.Formats, cfg.Categories)
	}
	if cfg.OutDir != "out" {
		t.Error("missing values should keep their default")
	}

	// environment takes precedence over the file
	cfg, err = Load(path, map[string]string{
		"CENSUSPIE_RADIUS":           "150",
		"CENSUSPIE_FORMATS":          "pdf,xlsx",
		"CENSUSPIE_SHOW_PERCENTAGES": "true",
		"CENSUSPIE_DATA_URL":         "https://example.com/business.csv",
		"CENSUSPIE_PALETTE":          "318:#ffffff",
		"RADIUS":                     "10", // no prefix: ignored
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Radius != 150 || !cfg.ShowPercentages || !reflect.DeepEqual(cfg.Formats, []string{"pdf", "xlsx"}) {
		t.Errorf("unexpected config %+v", cfg)
	}
	if !cfg.HasFormat(FormatPDF) || cfg.HasFormat(FormatSVG) {
		t.Errorf("unexpected formats %v", cfg.Formats)
	}
	if src := cfg.Source(); src.URL != "https://example.com/business.csv" {
		t.Errorf("URL should take precedence, got %v", src)
	}

	opts, err := cfg.ChartOptions()
	if err != nil {
		t.Fatal(err)
	}
	if svgdraw.Hex(opts.Palette.Color("318")) != "#ffffff" || opts.Radius != 150 || !opts.ShowPercentages {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestLoadErrors(t *testing.T) {
	for _, test := range []struct {
		content string
		environ map[string]string
		err     string
	}{
		{"unknown: 1", nil, "field unknown not found"},
		{"radius: [", nil, "yaml"},
		{"formats: [gif]", nil, `unsupported format "gif"`},
		{"radius: -1", nil, "invalid radius"},
		{"dataFile: ''", nil, "data file or data URL"},
		{"", map[string]string{"CENSUSPIE_CONCURRENCY": "zero"}, "parse env"},
		{"", map[string]string{"CENSUSPIE_PALETTE": "311:blue"}, "invalid hex color"},
		{"", map[string]string{"CENSUSPIE_SCALE": "0"}, "invalid scale"},
		{"categories: [all, male, all]", nil, `duplicate category "all"`},
		{"", map[string]string{"CENSUSPIE_CATEGORIES": "black,black"}, `duplicate category "black"`},
		{"language: '!!'", nil, "invalid language"},
	} {
		environ := test.environ
		if environ == nil {
			environ = map[string]string{}
		}
		_, err := Load(writeFile(t, test.content), environ)
		if err == nil || !strings.Contains(err.Error(), test.err) {
			t.Errorf("%q: expected error containing %q, got %v", test.content, test.err, err)
		}
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLanguage(t *testing.T) {
	cfg, err := Load("", map[string]string{"CENSUSPIE_LANGUAGE": "de"})
	if err != nil {
		t.Fatal(err)
	}
	opts, err := cfg.ChartOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Language.String() != "de" || cfg.LanguageTag().String() != "de" {
		t.Errorf("unexpected language %s", opts.Language)
	}
	if Default().LanguageTag().String() != "en" {
		t.Error("expected English by default")
	}
}

func TestInvalidCategoriesAreAccepted(t *testing.T) {
	cfg := Default()
	cfg.Categories = []string{"all", "martian"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("categories are checked per chart, got %v", err)
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benoitkugler/censuspie/category"
	"github.com/benoitkugler/censuspie/sheet"
)

const sampleCSV = `sex,vetGroup,ethnicGroup,raceGroup,yearsInBusiness,count
001,001,001,00,001,999
001,001,001,00,311,30
001,001,001,00,318,20
003,001,001,00,311,12
003,001,001,00,323,4
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "business.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(args ...string) (string, error) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRender(t *testing.T) {
	data := writeSample(t)
	out := filepath.Join(t.TempDir(), "charts")
	_, err := execute("render", "--data-file", data, "--out", out,
		"--format", "svg,html,png,pdf,xlsx,json", "--category", "all,male,black")
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{
		"all.svg", "male.svg", "black.svg",
		"all.png", "male.png", "black.png",
		pageFile, pdfFile, sheetFile, jsonFile,
	} {
		info, err := os.Stat(filepath.Join(out, name))
		if err != nil {
			t.Errorf("missing output: %s", err)
		} else if info.Size() == 0 {
			t.Errorf("empty output %s", name)
		}
	}

	page, err := os.ReadFile(filepath.Join(out, pageFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(page), "Show Percentages") || strings.Count(string(page), "<svg") != 3 {
		t.Errorf("unexpected page:\n%s", page)
	}

	f, err := os.Open(filepath.Join(out, sheetFile))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	counts, err := sheet.ReadCounts(f)
	if err != nil {
		t.Fatal(err)
	}
	if counts[category.All]["311"] != 30 || counts[category.Male]["323"] != 4 || len(counts[category.Black]) != 0 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestRenderUnknownCategory(t *testing.T) {
	data := writeSample(t)
	out := t.TempDir()
	_, err := execute("render", "--data-file", data, "--out", out, "--format", "svg,html", "--category", "all,martian")
	var confErr *category.ConfigurationError
	if !errors.As(err, &confErr) || confErr.Tag != "martian" {
		t.Fatalf("expected a configuration error, got %v", err)
	}
	// the other charts are still written
	if _, err := os.Stat(filepath.Join(out, "all.svg")); err != nil {
		t.Error(err)
	}
	page, err := os.ReadFile(filepath.Join(out, pageFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(page), `<figure id="martian">`) || strings.Count(string(page), "<svg") != 1 {
		t.Errorf("unexpected page:\n%s", page)
	}
}

func TestRenderMissingData(t *testing.T) {
	out := filepath.Join(t.TempDir(), "charts")
	_, err := execute("render", "--data-file", filepath.Join(t.TempDir(), "missing.csv"), "--out", out)
	if err == nil {
		t.Fatal("expected an error for a missing dataset")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("nothing should be written, got %v", err)
	}
}

func TestRenderConfigFile(t *testing.T) {
	data := writeSample(t)
	out := t.TempDir()
	configFile := filepath.Join(t.TempDir(), "censuspie.yaml")
	content := "dataFile: " + data + "\noutDir: " + out + "\nformats: [json]\ncategories: [male]\n"
	if err := os.WriteFile(configFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	// flags override the file
	if _, err := execute("render", "--config", configFile, "--category", "all"); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filepath.Join(out, jsonFile))
	if err != nil {
		t.Fatal(err)
	}
	var charts []chartJSON
	if err := json.Unmarshal(b, &charts); err != nil {
		t.Fatal(err)
	}
	if len(charts) != 1 || charts[0].Category != "all" || charts[0].Total != 50 {
		t.Errorf("unexpected charts %+v", charts)
	}
}

func TestSegments(t *testing.T) {
	data := writeSample(t)

	output, err := execute("segments", "--data-file", data, "--category", "all,male", "-o", "json")
	if err != nil {
		t.Fatal(err)
	}
	var charts []chartJSON
	if err := json.Unmarshal([]byte(output), &charts); err != nil {
		t.Fatal(err)
	}
	if len(charts) != 2 || charts[1].Title != "Male" || len(charts[1].Segments) != 2 {
		t.Fatalf("unexpected charts %+v", charts)
	}
	if seg := charts[0].Segments[0]; seg.Code != "311" || seg.Label != "Less than 2 years" || seg.Percentage != 0.6 {
		t.Errorf("unexpected segment %+v", seg)
	}

	output, err = execute("segments", "--data-file", data, "--category", "all,martian")
	if err == nil {
		t.Error("expected an error for an unknown category")
	}
	if !strings.Contains(output, "Less than 2 years") || !strings.Contains(output, `unknown category "martian"`) {
		t.Errorf("unexpected table:\n%s", output)
	}

	if _, err := execute("segments", "--data-file", data, "-o", "yaml"); err == nil {
		t.Error("expected an error for an unsupported output")
	}

	output, err = execute("segments", "--data-file", data, "--category", "all", "--language", "de")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(output, "60,0%") {
		t.Errorf("expected german formatting:\n%s", output)
	}
}

func TestDuplicateCategories(t *testing.T) {
	data := writeSample(t)
	out := t.TempDir()
	_, err := execute("render", "--data-file", data, "--out", out, "--format", "svg", "--category", "all,male,all")
	if err == nil || !strings.Contains(err.Error(), `duplicate category "all"`) {
		t.Fatalf("expected a duplicate category error, got %v", err)
	}
	if entries, _ := os.ReadDir(out); len(entries) != 0 {
		t.Errorf("nothing should be written, got %v", entries)
	}
}

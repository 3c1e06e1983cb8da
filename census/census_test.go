package census

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `sex,vetGroup,ethnicGroup,raceGroup,yearsInBusiness,count
001,001,001,00,001,999
001,001,001,00,311,30
001,001,001,00,318,20
003,001,001,00,311,12
`

func TestLabels(t *testing.T) {
	for _, test := range []struct {
		code  YearsCode
		label string
		ok    bool
	}{
		{"311", "Less than 2 years", true},
		{"318", "2 to 3 years", true},
		{"319", "4 to 5 years", true},
		{"321", "6 to 10 years", true},
		{"322", "11 to 15 years", true},
		{"323", "More than 16 years", true},
		{"001", "All", true},
		{"999", "", false},
		{"", "", false},
	} {
		label, ok := test.code.Label()
		if label != test.label || ok != test.ok {
			t.Errorf("label of %q: expected (%q, %v), got (%q, %v)", test.code, test.label, test.ok, label, ok)
		}
	}

	rec := Record{YearsInBusiness: "999"}
	if l, ok := rec.Label(); ok || l != "" {
		t.Errorf("unknown code should leave the label unset, got %q", l)
	}
}

func TestReadCSV(t *testing.T) {
	records, unknown, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if unknown != 0 {
		t.Errorf("expected no unknown codes, got %d", unknown)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	exp := Record{SexMale, VetAll, EthnicAll, RaceAll, YearsLessThan2, 12}
	if records[3] != exp {
		t.Errorf("expected %v, got %v", exp, records[3])
	}
}

func TestReadCSVAliases(t *testing.T) {
	const table = "\ufeffNAME,SEX,VET_GROUP,ETH_GROUP,RACE_GROUP,YIBSZFI,FIRMPDEMP\n" +
		"United States, 002 ,004,029,60,323,7\n" +
		"United States,009,001,001,00,311,1\n"
	records, unknown, err := ReadCSV(strings.NewReader(table))
	if err != nil {
		t.Fatal(err)
	}
	if unknown != 1 {
		t.Errorf("expected 1 record with unknown codes, got %d", unknown)
	}
	exp := Record{SexFemale, VetNonVeteran, EthnicNonHispanic, RaceAsian, YearsMoreThan16, 7}
	if records[0] != exp {
		t.Errorf("expected %v, got %v", exp, records[0])
	}
}

func TestReadCSVErrors(t *testing.T) {
	for _, test := range []struct {
		table string
		line  int
	}{
		{"", 0},
		{"sex,vetGroup,ethnicGroup,raceGroup,yearsInBusiness,count\n", 0},
		{"sex,vetGroup,ethnicGroup,raceGroup,count\n001,001,001,00,4\n", 1},
		{"sex,vetGroup,ethnicGroup,raceGroup,yearsInBusiness,count\n001,001,001,00,311,1\n001,001,001,00,318,-4\n", 3},
		{"sex,vetGroup,ethnicGroup,raceGroup,yearsInBusiness,count\n001,001,001,00,311,abc\n", 2},
		{"sex,vetGroup,ethnicGroup,raceGroup,yearsInBusiness,count\n001,001,001,00,311\n", 2},
	} {
		_, _, err := ReadCSV(strings.NewReader(test.table))
		var le *DataLoadError
		if !errors.As(err, &le) {
			t.Errorf("table %q: expected a DataLoadError, got %v", test.table, err)
			continue
		}
		if le.Line != test.line {
			t.Errorf("table %q: expected error on line %d, got %d (%s)", test.table, test.line, le.Line, le)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "business.csv")
	content := "sex,vetGroup,ethnicGroup,raceGroup,yearsInBusiness,count,label\n" +
		"001,001,001,00,311,30,Soci\xe9t\xe9s\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := Load(context.Background(), Source{FilePath: path, Charset: "latin1"})
	if err != nil {
		t.Fatal(err)
	}
	if ds.Len() != 1 || ds.Source() != path {
		t.Errorf("unexpected dataset %s with %d records", ds.Source(), ds.Len())
	}

	_, err = Load(context.Background(), Source{FilePath: path, Charset: "klingon"})
	var le *DataLoadError
	if !errors.As(err, &le) {
		t.Errorf("expected a DataLoadError for an unknown charset, got %v", err)
	}

	_, err = Load(context.Background(), Source{FilePath: filepath.Join(dir, "missing.csv")})
	if !errors.As(err, &le) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a DataLoadError wrapping ErrNotExist, got %v", err)
	}

	_, err = Load(context.Background(), Source{})
	if !errors.As(err, &le) {
		t.Errorf("expected a DataLoadError without source, got %v", err)
	}
}

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/business.csv" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		fmt.Fprint(w, sampleCSV)
	}))
	defer srv.Close()

	ds, err := Load(context.Background(), Source{URL: srv.URL + "/business.csv"})
	if err != nil {
		t.Fatal(err)
	}
	if ds.Len() != 4 {
		t.Errorf("expected 4 records, got %d", ds.Len())
	}

	_, err = Load(context.Background(), Source{URL: srv.URL + "/other.csv"})
	var le *DataLoadError
	if !errors.As(err, &le) || !strings.Contains(err.Error(), "404") {
		t.Errorf("expected a DataLoadError with the status, got %v", err)
	}
}

func TestDatasetIsReadOnly(t *testing.T) {
	records, _, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	ds := NewDataset("memory", records)
	records[0].Count = 1 // the dataset holds its own copy

	got := ds.Records()
	if got[0].Count != 999 {
		t.Errorf("dataset shares its records with the caller")
	}
	got[1].Count = 0
	if ds.Records()[1].Count != 30 {
		t.Errorf("Records must return a copy")
	}

	sel := ds.Select(func(r Record) bool { return r.Sex == SexMale })
	if len(sel) != 1 || sel[0].Count != 12 {
		t.Errorf("unexpected selection %v", sel)
	}
}

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/benoitkugler/censuspie/category"
	"github.com/benoitkugler/censuspie/census"
)

const sampleCSV = `sex,vetGroup,ethnicGroup,raceGroup,yearsInBusiness,count
001,001,001,00,001,999
001,001,001,00,311,30
001,001,001,00,318,20
003,001,001,00,311,12
003,001,001,00,323,4
002,001,001,00,311,0
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "business.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoaderOnce(t *testing.T) {
	path := writeSample(t)
	loader := NewLoader(census.Source{FilePath: path})

	var wg sync.WaitGroup
	datasets := make([]*census.Dataset, 8)
	for i := range datasets {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			ds, err := loader.Load(context.Background())
			if err != nil {
				t.Error(err)
			}
			datasets[i] = ds
		}()
	}
	wg.Wait()
	for _, ds := range datasets {
		if ds != datasets[0] {
			t.Fatal("every caller should get the same dataset")
		}
	}

	// the file is not read again
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if ds, err := loader.Load(context.Background()); err != nil || ds != datasets[0] {
		t.Errorf("unexpected second load: %v", err)
	}
}

func TestRun(t *testing.T) {
	loader := NewLoader(census.Source{FilePath: writeSample(t)})
	results, err := Render(context.Background(), loader, NewRunner(2), []string{"all", "martian", "male", "female", "black"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}

	all := results[0]
	if all.Err != nil || all.Category != category.All || all.Total != 50 || len(all.Segments) != 2 {
		t.Errorf("unexpected result for all: %+v", all)
	}
	if all.Segments[0].Code != "311" || all.Segments[0].Percentage != 0.6 {
		t.Errorf("unexpected segment %+v", all.Segments[0])
	}

	var confErr *category.ConfigurationError
	if martian := results[1]; !errors.As(martian.Err, &confErr) || confErr.Tag != "martian" || martian.Segments != nil {
		t.Errorf("expected a configuration error, got %+v", martian)
	}

	if male := results[2]; male.Err != nil || male.Tag != "male" || male.Total != 16 || len(male.Segments) != 2 {
		t.Errorf("unexpected result for male: %+v", male)
	}
	// zero total and no records: no segments, but no error either
	for _, res := range results[3:] {
		if res.Err != nil || res.Total != 0 || len(res.Segments) != 0 {
			t.Errorf("unexpected result for %s: %+v", res.Tag, res)
		}
	}

	if failed := Failed(results); len(failed) != 1 || failed[0].Tag != "martian" {
		t.Errorf("unexpected failures %v", failed)
	}
}

func TestRunCancelled(t *testing.T) {
	ds := census.NewDataset("test", []census.Record{{
		Sex: census.SexAll, VetGroup: census.VetAll, EthnicGroup: census.EthnicAll, RaceGroup: census.RaceAll,
		YearsInBusiness: "311", Count: 10,
	}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, res := range NewRunner(0).Run(ctx, ds, category.Tags()) {
		if !errors.Is(res.Err, context.Canceled) {
			t.Errorf("%s: expected cancellation, got %v", res.Tag, res.Err)
		}
	}
}

func TestLoadFailureAborts(t *testing.T) {
	loader := NewLoader(census.Source{FilePath: filepath.Join(t.TempDir(), "missing.csv")})
	results, err := Render(context.Background(), loader, NewRunner(1), []string{"all"})
	var le *census.DataLoadError
	if !errors.As(err, &le) {
		t.Errorf("expected a DataLoadError, got %v", err)
	}
	if results != nil {
		t.Errorf("no pipeline should run, got %v", results)
	}
}

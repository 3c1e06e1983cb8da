package category

import (
	"errors"
	"testing"

	"github.com/benoitkugler/censuspie/census"
)

var expectedTags = []string{
	"all", "male", "female", "veteran", "non-veteran", "hispanic", "non-hispanic",
	"white", "black", "asian", "native-hawaiian", "american-indian",
}

// every combination of the known codes, for each years bucket
func allRecords() []census.Record {
	var out []census.Record
	for _, sex := range []census.Sex{census.SexAll, census.SexFemale, census.SexMale} {
		for _, vet := range []census.VetGroup{census.VetAll, census.VetVeteran, census.VetNonVeteran} {
			for _, eth := range []census.EthnicGroup{census.EthnicAll, census.EthnicHispanic, census.EthnicNonHispanic} {
				for _, race := range []census.RaceGroup{census.RaceAll, census.RaceWhite, census.RaceBlack,
					census.RaceAmericanIndian, census.RaceAsian, census.RaceNativeHawaiian} {
					for _, years := range append([]census.YearsCode{census.YearsAll, "999"}, census.YearsBuckets[:]...) {
						out = append(out, census.Record{Sex: sex, VetGroup: vet, EthnicGroup: eth, RaceGroup: race, YearsInBusiness: years, Count: 1})
					}
				}
			}
		}
	}
	return out
}

func TestTags(t *testing.T) {
	tags := Tags()
	if len(tags) != len(expectedTags) {
		t.Fatalf("expected %d categories, got %d", len(expectedTags), len(tags))
	}
	for i, tag := range tags {
		if tag != expectedTags[i] {
			t.Errorf("category %d: expected %s, got %s", i, expectedTags[i], tag)
		}
		c, err := Parse(tag)
		if err != nil {
			t.Fatal(err)
		}
		if c != Categories()[i] || c.String() != tag {
			t.Errorf("round trip of %s gave %s", tag, c)
		}
	}
}

func TestSelectorsAreDistinct(t *testing.T) {
	seen := map[Selector]Category{}
	for _, c := range Categories() {
		s := c.Selector()
		if other, ok := seen[s]; ok {
			t.Errorf("%s and %s share the selector %v", c, other, s)
		}
		seen[s] = c
	}
}

func TestUnknownTag(t *testing.T) {
	for _, tag := range []string{"martian", "", "All", "nonveteran", "non_veteran"} {
		_, err := Parse(tag)
		var ce *ConfigurationError
		if !errors.As(err, &ce) || ce.Tag != tag {
			t.Errorf("tag %q: expected a ConfigurationError, got %v", tag, err)
		}
		if _, _, err := Lookup(tag); !errors.As(err, &ce) {
			t.Errorf("tag %q: expected a ConfigurationError from Lookup, got %v", tag, err)
		}
	}
}

func TestPredicates(t *testing.T) {
	records := allRecords()
	for _, c := range Categories() {
		s := c.Selector()
		got, keep, err := Lookup(c.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != c {
			t.Errorf("%s: unexpected category %s", c, got)
		}
		selected := 0
		for _, r := range records {
			expected := r.Sex == s.Sex && r.VetGroup == s.VetGroup && r.EthnicGroup == s.EthnicGroup &&
				r.RaceGroup == s.RaceGroup && r.YearsInBusiness != "001"
			if keep(r) != expected {
				t.Errorf("%s: wrong decision for %v", c, r)
			}
			if expected {
				selected++
			}
		}
		// six buckets plus the unknown code
		if selected != len(census.YearsBuckets)+1 {
			t.Errorf("%s: expected %d records, got %d", c, len(census.YearsBuckets)+1, selected)
		}
	}
}

func TestSelect(t *testing.T) {
	ds := census.NewDataset("memory", []census.Record{
		{Sex: "001", VetGroup: "001", EthnicGroup: "001", RaceGroup: "00", YearsInBusiness: "311", Count: 30},
		{Sex: "003", VetGroup: "001", EthnicGroup: "001", RaceGroup: "00", YearsInBusiness: "311", Count: 3},
		{Sex: "001", VetGroup: "001", EthnicGroup: "001", RaceGroup: "00", YearsInBusiness: "318", Count: 20},
		{Sex: "001", VetGroup: "001", EthnicGroup: "001", RaceGroup: "00", YearsInBusiness: "001", Count: 999},
	})
	_, keep, err := Lookup("all")
	if err != nil {
		t.Fatal(err)
	}
	got := ds.Select(keep)
	if len(got) != 2 || got[0].Count != 30 || got[1].Count != 20 {
		t.Errorf("unexpected records %v", got)
	}
	if got := ds.Select(Asian.Predicate()); len(got) != 0 {
		t.Errorf("expected no asian records, got %v", got)
	}
}

func TestTitle(t *testing.T) {
	for c, exp := range map[Category]string{
		All:            "All",
		NonVeteran:     "Non Veteran",
		NativeHawaiian: "Native Hawaiian",
		AmericanIndian: "American Indian",
	} {
		if got := c.Title(); got != exp {
			t.Errorf("expected %q, got %q", exp, got)
		}
	}
}

// Implements the registry of the demographic categories,
// each one selecting a slice of the census records.
package category

import (
	"fmt"
	"strings"

	"github.com/benoitkugler/censuspie/census"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is one of the fixed demographic slices, drawn as one pie.
type Category uint8

const (
	All Category = iota
	Male
	Female
	Veteran
	NonVeteran
	Hispanic
	NonHispanic
	White
	Black
	Asian
	NativeHawaiian
	AmericanIndian

	nbCategories
)

// Selector is the demographic code tuple identifying a category.
type Selector struct {
	Sex         census.Sex
	VetGroup    census.VetGroup
	EthnicGroup census.EthnicGroup
	RaceGroup   census.RaceGroup
}

type entry struct {
	tag      string
	selector Selector
}

// indexed by Category
var registry = [nbCategories]entry{
	All:            {"all", Selector{census.SexAll, census.VetAll, census.EthnicAll, census.RaceAll}},
	Male:           {"male", Selector{census.SexMale, census.VetAll, census.EthnicAll, census.RaceAll}},
	Female:         {"female", Selector{census.SexFemale, census.VetAll, census.EthnicAll, census.RaceAll}},
	Veteran:        {"veteran", Selector{census.SexAll, census.VetVeteran, census.EthnicAll, census.RaceAll}},
	NonVeteran:     {"non-veteran", Selector{census.SexAll, census.VetNonVeteran, census.EthnicAll, census.RaceAll}},
	Hispanic:       {"hispanic", Selector{census.SexAll, census.VetAll, census.EthnicHispanic, census.RaceAll}},
	NonHispanic:    {"non-hispanic", Selector{census.SexAll, census.VetAll, census.EthnicNonHispanic, census.RaceAll}},
	White:          {"white", Selector{census.SexAll, census.VetAll, census.EthnicAll, census.RaceWhite}},
	Black:          {"black", Selector{census.SexAll, census.VetAll, census.EthnicAll, census.RaceBlack}},
	Asian:          {"asian", Selector{census.SexAll, census.VetAll, census.EthnicAll, census.RaceAsian}},
	NativeHawaiian: {"native-hawaiian", Selector{census.SexAll, census.VetAll, census.EthnicAll, census.RaceNativeHawaiian}},
	AmericanIndian: {"american-indian", Selector{census.SexAll, census.VetAll, census.EthnicAll, census.RaceAmericanIndian}},
}

var byTag = func() map[string]Category {
	m := make(map[string]Category, nbCategories)
	for c, e := range registry {
		m[e.tag] = Category(c)
	}
	return m
}()

// ConfigurationError is returned when a category tag is not registered.
// It only affects the chart requesting the tag.
type ConfigurationError struct {
	Tag string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unknown category %q", e.Tag)
}

// Categories returns all the categories, in layout order.
func Categories() []Category {
	out := make([]Category, nbCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// Tags returns the tags of all the categories, in layout order.
func Tags() []string {
	out := make([]string, nbCategories)
	for i, e := range registry {
		out[i] = e.tag
	}
	return out
}

// Parse returns the category for `tag`, or a *ConfigurationError.
func Parse(tag string) (Category, error) {
	c, ok := byTag[tag]
	if !ok {
		return 0, &ConfigurationError{Tag: tag}
	}
	return c, nil
}

func (c Category) valid() bool { return c < nbCategories }

// String returns the tag of the category.
func (c Category) String() string {
	if !c.valid() {
		return fmt.Sprintf("<unknown Category %d>", uint8(c))
	}
	return registry[c].tag
}

// Title is the display name of the category: "non-veteran" gives "Non Veteran"
func (c Category) Title() string {
	// a Caser is stateful: one per call
	return cases.Title(language.English).String(strings.ReplaceAll(c.String(), "-", " "))
}

// Selector returns the code tuple of the category.
func (c Category) Selector() Selector {
	if !c.valid() {
		panic(fmt.Sprintf("invalid category %d", uint8(c)))
	}
	return registry[c].selector
}

// Match is true when the record has exactly the codes of `s`.
func (s Selector) Match(r census.Record) bool {
	return r.Sex == s.Sex && r.VetGroup == s.VetGroup &&
		r.EthnicGroup == s.EthnicGroup && r.RaceGroup == s.RaceGroup
}

// Predicate returns the filter selecting the records of the category,
// excluding the "all years" total rows.
func (c Category) Predicate() func(census.Record) bool {
	s := c.Selector()
	return func(r census.Record) bool {
		return s.Match(r) && !r.YearsInBusiness.IsTotal()
	}
}

// Lookup resolves `tag` into its category and the predicate
// selecting its records, or returns a *ConfigurationError.
func Lookup(tag string) (Category, func(census.Record) bool, error) {
	c, err := Parse(tag)
	if err != nil {
		return 0, nil, err
	}
	return c, c.Predicate(), nil
}

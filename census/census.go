// Holds the business ownership records of the Annual Business Survey
// "years in business" table, as loaded from a CSV source.
// Records are immutable once loaded.
package census

// Sex is the demographic sex code of a record.
type Sex string

const (
	SexAll    Sex = "001"
	SexFemale Sex = "002"
	SexMale   Sex = "003"
)

// VetGroup is the veteran status code of a record.
type VetGroup string

const (
	VetAll        VetGroup = "001"
	VetVeteran    VetGroup = "002"
	VetNonVeteran VetGroup = "004"
)

// EthnicGroup is the ethnicity code of a record.
type EthnicGroup string

const (
	EthnicAll         EthnicGroup = "001"
	EthnicHispanic    EthnicGroup = "020"
	EthnicNonHispanic EthnicGroup = "029"
)

// RaceGroup is the race code of a record.
type RaceGroup string

const (
	RaceAll            RaceGroup = "00"
	RaceWhite          RaceGroup = "30"
	RaceBlack          RaceGroup = "40"
	RaceAmericanIndian RaceGroup = "50"
	RaceAsian          RaceGroup = "60"
	RaceNativeHawaiian RaceGroup = "70"
)

func (s Sex) known() bool {
	switch s {
	case SexAll, SexFemale, SexMale:
		return true
	}
	return false
}

func (v VetGroup) known() bool {
	switch v {
	case VetAll, VetVeteran, VetNonVeteran:
		return true
	}
	return false
}

func (e EthnicGroup) known() bool {
	switch e {
	case EthnicAll, EthnicHispanic, EthnicNonHispanic:
		return true
	}
	return false
}

func (r RaceGroup) known() bool {
	switch r {
	case RaceAll, RaceWhite, RaceBlack, RaceAmericanIndian, RaceAsian, RaceNativeHawaiian:
		return true
	}
	return false
}

// Record is one demographic bucket of the source table.
type Record struct {
	Sex             Sex
	VetGroup        VetGroup
	EthnicGroup     EthnicGroup
	RaceGroup       RaceGroup
	YearsInBusiness YearsCode
	Count           uint64
}

// Label returns the display label of the record's years in business bucket.
// ok is false for codes outside the label table.
func (r Record) Label() (label string, ok bool) {
	return r.YearsInBusiness.Label()
}

// knownCodes is false when one of the demographic codes
// is outside the enumerations above
func (r Record) knownCodes() bool {
	return r.Sex.known() && r.VetGroup.known() && r.EthnicGroup.known() &&
		r.RaceGroup.known() && r.YearsInBusiness.known()
}

// Dataset is the read-only set of records loaded from a source.
// It is safe for concurrent use.
type Dataset struct {
	source  string
	records []Record
}

// NewDataset copies `records` into a new Dataset.
func NewDataset(source string, records []Record) *Dataset {
	cp := make([]Record, len(records))
	copy(cp, records)
	return &Dataset{source: source, records: cp}
}

// Source describes where the records were read from.
func (ds *Dataset) Source() string { return ds.source }

// Len returns the number of records.
func (ds *Dataset) Len() int { return len(ds.records) }

// Records returns a copy of the records, in source order.
func (ds *Dataset) Records() []Record {
	out := make([]Record, len(ds.records))
	copy(out, ds.records)
	return out
}

// Select returns, in source order, the records accepted by `keep`.
// The dataset itself is never modified.
func (ds *Dataset) Select(keep func(Record) bool) []Record {
	var out []Record
	for _, r := range ds.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

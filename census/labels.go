package census

// YearsCode is the years in business bucket code.
type YearsCode string

const (
	YearsAll        YearsCode = "001" // total row, never drawn as a segment
	YearsLessThan2  YearsCode = "311"
	Years2To3       YearsCode = "318"
	Years4To5       YearsCode = "319"
	Years6To10      YearsCode = "321"
	Years11To15     YearsCode = "322"
	YearsMoreThan16 YearsCode = "323"
)

var yearsLabels = map[YearsCode]string{
	YearsAll:        "All",
	YearsLessThan2:  "Less than 2 years",
	Years2To3:       "2 to 3 years",
	Years4To5:       "4 to 5 years",
	Years6To10:      "6 to 10 years",
	Years11To15:     "11 to 15 years",
	YearsMoreThan16: "More than 16 years",
}

// YearsBuckets lists the bucket codes that may appear as segments,
// in ascending duration.
var YearsBuckets = [...]YearsCode{
	YearsLessThan2, Years2To3, Years4To5, Years6To10, Years11To15, YearsMoreThan16,
}

// Label returns the display label of the code.
// Unknown codes return an empty label and false.
func (c YearsCode) Label() (string, bool) {
	l, ok := yearsLabels[c]
	return l, ok
}

// IsTotal is true for the aggregate "all years" row.
func (c YearsCode) IsTotal() bool { return c == YearsAll }

func (c YearsCode) known() bool {
	_, ok := yearsLabels[c]
	return ok
}

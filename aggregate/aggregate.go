// Sums the counts of a filtered set of records
// and derives the share of each record.
package aggregate

import "github.com/benoitkugler/censuspie/census"

// Share is a record with its fraction of the total.
type Share struct {
	census.Record
	Percentage float64 // in [0, 1]
}

// Result is the aggregation of one set of records.
type Result struct {
	Total  uint64
	Shares []Share // same order as the input
}

// Aggregate computes the total count of `records` and the percentage of each
// record. A zero total gives zero percentages.
// `records` is not modified.
func Aggregate(records []census.Record) Result {
	var total uint64
	for _, r := range records {
		total += r.Count
	}

	shares := make([]Share, len(records))
	for i, r := range records {
		shares[i] = Share{Record: r}
		if total != 0 {
			shares[i].Percentage = float64(r.Count) / float64(total)
		}
	}
	return Result{Total: total, Shares: shares}
}

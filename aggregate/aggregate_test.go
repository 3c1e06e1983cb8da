package aggregate

import (
	"math"
	"math/rand"
	"testing"

	"github.com/benoitkugler/censuspie/census"
)

func TestAggregate(t *testing.T) {
	records := []census.Record{
		{YearsInBusiness: "311", Count: 30},
		{YearsInBusiness: "318", Count: 20},
	}
	res := Aggregate(records)
	if res.Total != 50 {
		t.Fatalf("expected total 50, got %d", res.Total)
	}
	for i, exp := range []float64{0.6, 0.4} {
		if math.Abs(res.Shares[i].Percentage-exp) > 1e-12 {
			t.Errorf("share %d: expected %f, got %f", i, exp, res.Shares[i].Percentage)
		}
		if res.Shares[i].Record != records[i] {
			t.Errorf("share %d: order not preserved", i)
		}
	}
}

func TestAggregateSumsToOne(t *testing.T) {
	rd := rand.New(rand.NewSource(42))
	for range [200]int{} {
		n := 1 + rd.Intn(10)
		records := make([]census.Record, n)
		for i := range records {
			records[i].Count = uint64(rd.Intn(1_000_000))
		}
		records[0].Count++ // non zero total

		res := Aggregate(records)
		var sum float64
		for _, s := range res.Shares {
			sum += s.Percentage
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("percentages of %v sum to %f", records, sum)
		}
	}
}

func TestAggregateZeroTotal(t *testing.T) {
	res := Aggregate(nil)
	if res.Total != 0 || len(res.Shares) != 0 {
		t.Errorf("unexpected result %v", res)
	}

	res = Aggregate([]census.Record{{Count: 0}, {Count: 0}})
	if res.Total != 0 || len(res.Shares) != 2 {
		t.Fatalf("unexpected result %v", res)
	}
	for _, s := range res.Shares {
		if s.Percentage != 0 || math.IsNaN(s.Percentage) {
			t.Errorf("expected a zero percentage, got %f", s.Percentage)
		}
	}
}

func TestAggregateDoesNotMutate(t *testing.T) {
	records := []census.Record{{YearsInBusiness: "311", Count: 3}, {YearsInBusiness: "318", Count: 1}}
	cp := append([]census.Record(nil), records...)
	res := Aggregate(records)
	res.Shares[0].Count = 100
	for i := range records {
		if records[i] != cp[i] {
			t.Errorf("input record %d was modified", i)
		}
	}
}

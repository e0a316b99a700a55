package education

import (
	"errors"
	"math"
	"testing"

	"github.com/spektr-org/insightedu/dataset"
	"github.com/spektr-org/insightedu/engine"
)

var sample = []dataset.LiteracyRecord{
	{District: "A", State: "S1", LiteracyRate: 50},
	{District: "B", State: "S1", LiteracyRate: 70},
	{District: "C", State: "S2", LiteracyRate: 55},
}

func TestSummary(t *testing.T) {
	s, err := Summary(sample)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, "avg", s.AvgLiteracy, 58.3333)
	if s.MinLiteracy != 50 || s.MaxLiteracy != 70 || s.DistrictCount != 3 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if s.MinLiteracy > s.AvgLiteracy || s.AvgLiteracy > s.MaxLiteracy {
		t.Errorf("min <= avg <= max violated: %+v", s)
	}
}

func TestSummaryEmpty(t *testing.T) {
	_, err := Summary(nil)
	if !errors.Is(err, engine.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestLowLiteracyAlerts(t *testing.T) {
	alerts := LowLiteracyAlerts(sample, DefaultLiteracyThreshold)
	if len(alerts) != 2 || alerts[0].District != "A" || alerts[1].District != "C" {
		t.Errorf("alerts = %+v, want A and C in input order", alerts)
	}
	if got := LowLiteracyAlerts(sample, 50); len(got) != 0 {
		t.Errorf("threshold is strict, got %+v", got)
	}
	if got := LowLiteracyAlerts(nil, 60); got == nil || len(got) != 0 {
		t.Errorf("empty input should give an empty, non-nil slice")
	}
}

func TestTopN(t *testing.T) {
	records := append([]dataset.LiteracyRecord{{District: "AA", State: "S3", LiteracyRate: 70}}, sample...)
	top := TopN(records, 2)
	if len(top) != 2 || top[0].District != "AA" || top[1].District != "B" {
		t.Errorf("ties should break by district: %+v", top)
	}
	if got := TopN(sample, 10); len(got) != 3 || got[2].LiteracyRate != 50 {
		t.Errorf("n beyond length should return all, descending: %+v", got)
	}
	if got := TopN(sample, 0); len(got) != 0 {
		t.Errorf("n=0 should be empty, got %+v", got)
	}
	if sample[0].District != "A" {
		t.Error("TopN must not reorder its input")
	}
}

func TestStateAggregate(t *testing.T) {
	agg := StateAggregate(sample)
	if len(agg) != 2 || agg["S1"] != 60 || agg["S2"] != 55 {
		t.Errorf("unexpected aggregate: %v", agg)
	}

	stats := StateStats(sample)
	if stats[0].State != "S1" || stats[0].Count != 2 {
		t.Errorf("highest mean first: %+v", stats)
	}
}

func TestFilterStateAndStates(t *testing.T) {
	if got := FilterState(sample, "s1"); len(got) != 2 {
		t.Errorf("case-insensitive filter got %d records", len(got))
	}
	if got := FilterState(sample, "All"); len(got) != 3 {
		t.Errorf(`"All" should keep every record, got %d`, len(got))
	}
	if got := FilterState(sample, "Nowhere"); got == nil || len(got) != 0 {
		t.Errorf("unknown state should give empty slice, got %v", got)
	}
	if got := States(sample); len(got) != 2 || got[0] != "S1" {
		t.Errorf("States = %v", got)
	}
}

func TestHistogram(t *testing.T) {
	bins := Histogram(sample, 2)
	if len(bins) != 2 || bins[0].Count != 2 || bins[1].Count != 1 {
		t.Errorf("unexpected bins: %+v", bins)
	}
	if Histogram(nil, 20) != nil {
		t.Error("empty input should produce no bins")
	}
}

func TestCompare(t *testing.T) {
	cmp, err := Compare(sample, "b", "S2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.A.Kind != "district" || cmp.A.Key != "B" || cmp.B.Kind != "state" {
		t.Errorf("unexpected sides: %+v", cmp)
	}
	assertClose(t, "delta", cmp.Delta, 15)

	cmp, err = Compare(sample, "S1", "S2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, "state delta", cmp.Delta, 5)
}

func TestCompareNotFound(t *testing.T) {
	_, err := Compare(sample, "A", "Z")
	var nf *engine.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if len(nf.Keys) != 1 || nf.Keys[0] != "Z" {
		t.Errorf("missing keys = %v", nf.Keys)
	}
}

func assertClose(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 0.01 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

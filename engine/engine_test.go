package engine

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

// ============================================================================
// ENGINE TESTS
// ============================================================================

type row struct {
	region string
	city   string
	value  float64
}

var rowAdapter = NewDomainAdapter[row]().
	Dimension("region", func(r row) string { return r.region }).
	Dimension("city", func(r row) string { return r.city }).
	Measure("value", func(r row) float64 { return r.value })

var sampleRows = []row{
	{"North", "Delhi", 300},
	{"West", "Mumbai", 150},
	{"north", "Lucknow", 250},
	{"South", "Chennai", math.NaN()},
	{"West", "Pune", 90},
}

func TestGroupAndAggregateAvg(t *testing.T) {
	view := rowAdapter.Bind(sampleRows)
	groups := GroupAndAggregate(view, []string{"region"}, "value", AggAvg, SortValueDesc, 0)

	if len(groups) != 3 {
		t.Fatalf("expected 3 groups (case-insensitive), got %d", len(groups))
	}
	assertGroup(t, groups[0], "North", 275, 2)
	assertGroup(t, groups[1], "West", 120, 2)
	if groups[2].Label != "South" || !math.IsNaN(groups[2].Value) {
		t.Errorf("NaN-only group should sort last with NaN value, got %+v", groups[2])
	}
}

func TestGroupAndAggregateMaxAndLimit(t *testing.T) {
	view := rowAdapter.Bind(sampleRows)
	groups := GroupAndAggregate(view, []string{"region"}, "value", AggMax, SortValueDesc, 2)
	if len(groups) != 2 {
		t.Fatalf("expected limit 2, got %d", len(groups))
	}
	assertGroup(t, groups[0], "North", 300, 2)
	assertGroup(t, groups[1], "West", 150, 2)
}

func TestSortChronological(t *testing.T) {
	groups := []Group{{Key: "2020-03"}, {Key: "2019-12"}, {Key: "2020-01"}}
	SortGroups(groups, SortChronological)
	if groups[0].Key != "2019-12" || groups[2].Key != "2020-03" {
		t.Errorf("unexpected order: %v", groups)
	}
}

func TestMeasureHelpersSkipNaN(t *testing.T) {
	view := rowAdapter.Bind(sampleRows)
	if got := AvgMeasure(view, "value"); got != 197.5 {
		t.Errorf("AvgMeasure = %v, want 197.5", got)
	}
	if got := MinMeasure(view, "value"); got != 90 {
		t.Errorf("MinMeasure = %v, want 90", got)
	}
	if got := MaxMeasure(view, "value"); got != 300 {
		t.Errorf("MaxMeasure = %v, want 300", got)
	}
	if got := AvgMeasure(rowAdapter.Bind(nil), "value"); !math.IsNaN(got) {
		t.Errorf("AvgMeasure on empty view = %v, want NaN", got)
	}
}

func TestApplyFiltersAndCollect(t *testing.T) {
	view := rowAdapter.Bind(sampleRows)
	filtered := ApplyFilters(view, Only("region", " NORTH "))
	if filtered.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", filtered.Len())
	}

	nested := Where(filtered, func(i int) bool { return filtered.Measure(i, "value") > 260 })
	got := view.Collect(nested)
	if len(got) != 1 || got[0].city != "Delhi" {
		t.Errorf("Collect through nested sub views = %+v", got)
	}

	if ApplyFilters(view, Only("region", "All")) != RecordView(view) {
		t.Error(`"All" should not restrict the view`)
	}
}

func TestGroupAndAggregateNested(t *testing.T) {
	view := rowAdapter.Bind(sampleRows)
	groups := GroupAndAggregate(view, []string{"region", "city"}, "value", AggAvg, SortChronological, 0)
	if len(groups) != 3 || groups[0].Label != "North" {
		t.Fatalf("unexpected regions: %+v", groups)
	}
	north := groups[0].SubGroups
	if len(north) != 2 || north[0].Label != "Delhi" || north[1].Label != "Lucknow" {
		t.Errorf("unexpected sub groups: %+v", north)
	}
	assertGroup(t, north[1], "Lucknow", 250, 1)

	chart := BuildChart(ChartSpec{Title: "by region"}, groups)
	if len(chart.Series) != 5 || !chart.ShowLegend {
		t.Fatalf("nested groups should give one series per city, got %d", len(chart.Series))
	}
	if chart.Series[0].Name != "Chennai" || len(chart.Series[0].Data) != 3 {
		t.Errorf("unexpected first series: %+v", chart.Series[0])
	}
}

func TestMeanStaysWithinRange(t *testing.T) {
	for _, v := range []float64{0.1, 70.1, 95.3, 1e-9, 12345.6789} {
		for n := 1; n <= 25; n++ {
			values := make([]float64, n)
			for i := range values {
				values[i] = v
			}
			if m := Mean(values); m != v {
				t.Errorf("Mean of %d copies of %v = %v", n, v, m)
			}
		}
	}
	if m := Mean([]float64{1, 2, 3, 4}); m != 2.5 {
		t.Errorf("Mean = %v, want 2.5", m)
	}
}

func TestPearson(t *testing.T) {
	x := []float64{1, 2, 3, 4, math.NaN()}
	y := []float64{2, 4, 6, 8, 100}
	if r := Pearson(x, y); math.Abs(r-1) > 1e-12 {
		t.Errorf("Pearson perfect positive = %v, want 1", r)
	}
	if r := Pearson(x, []float64{8, 6, 4, 2, 0}); math.Abs(r+1) > 1e-12 {
		t.Errorf("Pearson perfect negative = %v, want -1", r)
	}
	if r := Pearson([]float64{1, 1, 1}, []float64{1, 2, 3}); !math.IsNaN(r) {
		t.Errorf("Pearson with constant side = %v, want NaN", r)
	}
	if r := Pearson([]float64{1}, []float64{2}); !math.IsNaN(r) {
		t.Errorf("Pearson with one pair = %v, want NaN", r)
	}
}

func TestEqualWidthBins(t *testing.T) {
	bins := EqualWidthBins([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, math.NaN()}, 5)
	if len(bins) != 5 {
		t.Fatalf("expected 5 bins, got %d", len(bins))
	}
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != 11 {
		t.Errorf("bins should hold 11 values, got %d", total)
	}
	if bins[4].Count != 3 {
		t.Errorf("last bin is closed and should hold 8, 9, 10; got %d", bins[4].Count)
	}

	if got := EqualWidthBins([]float64{4, 4}, 3); len(got) != 1 || got[0].Count != 2 {
		t.Errorf("constant input should produce one bin, got %+v", got)
	}
	if EqualWidthBins(nil, 3) != nil {
		t.Error("empty input should produce nil")
	}
}

func TestErrorKinds(t *testing.T) {
	var err error = NewEmptyInput("education.Summary")
	if !errors.Is(err, ErrEmptyInput) {
		t.Error("EmptyInputError should match ErrEmptyInput")
	}

	err = NewNotFound("city", "Atlantis")
	var nf *NotFoundError
	if !errors.As(err, &nf) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Keys[0] != "Atlantis" {
		t.Errorf("unexpected keys: %v", nf.Keys)
	}

	if NewNotFound("city") != nil {
		t.Error("NewNotFound without keys should be nil")
	}
}

func TestFloatJSON(t *testing.T) {
	out, err := json.Marshal([]ChartPoint{{Label: "a", Value: 1.5}, {Label: "b", Value: Float(math.NaN())}})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `[{"label":"a","value":1.5},{"label":"b","value":null}]`
	if string(out) != want {
		t.Errorf("got %s, want %s", out, want)
	}
}

func TestBuildHeatmap(t *testing.T) {
	chart := BuildHeatmap("corr", []string{"a", "b"}, [][]float64{{1, 0.5}, {0.5, 1}})
	if chart.ChartType != "heatmap" || len(chart.Series) != 2 {
		t.Fatalf("unexpected chart: %+v", chart)
	}
	if chart.Series[1].Data[0].Value != 0.5 {
		t.Errorf("cell (b,a) = %v, want 0.5", chart.Series[1].Data[0].Value)
	}
}

func TestBuildListTable(t *testing.T) {
	table := BuildListTable("rows", rowAdapter.Bind(sampleRows[3:5]))
	if len(table.Columns) != 3 || len(table.Rows) != 2 {
		t.Fatalf("unexpected table shape: %d cols, %d rows", len(table.Columns), len(table.Rows))
	}
	if table.Rows[0][2] != "n/a" || table.Rows[1][2] != "90.00" {
		t.Errorf("unexpected measure cells: %v", table.Rows)
	}
}

func TestBuildGrowth(t *testing.T) {
	groups := []Group{
		{Label: "2019-01", Value: 200},
		{Label: "2019-02", Value: math.NaN()},
		{Label: "2019-03", Value: 150},
	}
	g := BuildGrowth(groups)
	if g == nil {
		t.Fatal("expected growth for two valued periods")
	}
	if g.Direction != "decreased" || g.ChangeAmount != -50 || g.ChangePercent != -25 {
		t.Errorf("unexpected growth: %+v", g)
	}
	if g.Display() != "↓ 25.0%" || g.Period() != "2019-01 – 2019-03" {
		t.Errorf("display = %q, period = %q", g.Display(), g.Period())
	}

	flat := BuildGrowth([]Group{{Label: "a", Value: 100}, {Label: "b", Value: 100.2}})
	if flat.Direction != "unchanged" || flat.Display() != "→ No change" {
		t.Errorf("small moves should read as unchanged: %+v", flat)
	}
	if BuildGrowth(groups[:2]) != nil {
		t.Error("one valued period should yield no growth")
	}
}

func assertGroup(t *testing.T, g Group, label string, value float64, count int) {
	t.Helper()
	if g.Label != label || g.Value != value || g.Count != count {
		t.Errorf("group = {%s %v %d}, want {%s %v %d}", g.Label, g.Value, g.Count, label, value, count)
	}
}

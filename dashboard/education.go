package dashboard

import (
	"fmt"

	"github.com/spektr-org/insightedu/dataset"
	"github.com/spektr-org/insightedu/education"
	"github.com/spektr-org/insightedu/engine"
	"github.com/spektr-org/insightedu/metrics"
)

// EducationOptions selects and sizes the education page. Zero values pick defaults.
type EducationOptions struct {
	State     string  // "" or "All" for every state
	Threshold float64 // default education.DefaultLiteracyThreshold
	TopN      int     // default 10
	Bins      int     // default 20
}

func (o EducationOptions) withDefaults() EducationOptions {
	if o.Threshold <= 0 {
		o.Threshold = education.DefaultLiteracyThreshold
	}
	if o.TopN <= 0 {
		o.TopN = 10
	}
	if o.Bins <= 0 {
		o.Bins = 20
	}
	return o
}

// EducationPage builds the literacy dashboard for the selected state.
func EducationPage(records []dataset.LiteracyRecord, opts EducationOptions) (*Page, error) {
	opts = opts.withDefaults()
	filtered := education.FilterState(records, opts.State)

	summary, err := education.Summary(filtered)
	if err != nil {
		return nil, err
	}

	page := newPage("Education Analytics")
	page.setFilter("state", opts.State)
	page.setFilter("threshold", fmt.Sprintf("%g", opts.Threshold))

	page.addMetric("Average Literacy Rate", summary.AvgLiteracy, "%", "")
	page.addMetric("Highest Literacy Rate", summary.MaxLiteracy, "%", "")
	page.addMetric("Lowest Literacy Rate", summary.MinLiteracy, "%", "")
	page.addMetric("Districts", float64(summary.DistrictCount), "", "")

	// Charts
	top := education.TopN(filtered, opts.TopN)
	page.addChart(engine.BuildChart(engine.ChartSpec{
		Type:       "horizontal_bar",
		Title:      fmt.Sprintf("Top %d Districts by Literacy Rate", len(top)),
		XAxis:      "Literacy Rate (%)",
		YAxis:      "District",
		SeriesName: "Literacy Rate",
	}, districtGroups(top)))

	page.addChart(engine.BuildHistogram("Literacy Rate Distribution", "Literacy Rate (%)",
		education.Histogram(filtered, opts.Bins)))

	stateGroups := stateStatGroups(education.StateStats(filtered))
	page.addChart(engine.BuildChart(engine.ChartSpec{
		Title:      "State-wise Average Literacy Rate",
		XAxis:      "State",
		YAxis:      "Average Literacy Rate (%)",
		SeriesName: "Average Literacy Rate",
	}, stateGroups))

	// Tables
	alerts := education.LowLiteracyAlerts(filtered, opts.Threshold)
	metrics.AlertsRaised.WithLabelValues("low_literacy").Add(float64(len(alerts)))

	page.addTable(engine.BuildListTable(
		fmt.Sprintf("Districts Below %g%% Literacy", opts.Threshold),
		education.View(alerts)))
	page.addTable(engine.BuildGroupTable("State Averages", "State", engine.AggAvg, stateGroups))

	return page, nil
}

func districtGroups(records []dataset.LiteracyRecord) []engine.Group {
	groups := make([]engine.Group, 0, len(records))
	for _, r := range records {
		groups = append(groups, engine.Group{Key: r.District, Label: r.District, Value: r.LiteracyRate, Count: 1})
	}
	return groups
}

func stateStatGroups(stats []education.StateStat) []engine.Group {
	groups := make([]engine.Group, 0, len(stats))
	for _, s := range stats {
		groups = append(groups, engine.Group{Key: s.State, Label: s.State, Value: s.Mean, Count: s.Count})
	}
	return groups
}

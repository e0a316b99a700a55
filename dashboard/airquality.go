package dashboard

import (
	"fmt"
	"time"

	"github.com/spektr-org/insightedu/aqi"
	"github.com/spektr-org/insightedu/dataset"
	"github.com/spektr-org/insightedu/engine"
	"github.com/spektr-org/insightedu/metrics"
	"github.com/spektr-org/insightedu/schema"
)

// AirQualityOptions selects and sizes the air-quality page. Zero values pick defaults.
type AirQualityOptions struct {
	City        string    // "" or "All" for every city
	From, To    time.Time // inclusive; zero is open
	Threshold   float64   // default aqi.DefaultAQIThreshold
	Granularity aqi.Granularity
	TopN        int // default 10
}

func (o AirQualityOptions) withDefaults() AirQualityOptions {
	if o.Threshold <= 0 {
		o.Threshold = aqi.DefaultAQIThreshold
	}
	if o.TopN <= 0 {
		o.TopN = 10
	}
	return o
}

// AirQualityPage builds the pollution dashboard for the selected city and dates.
// The city ranking ignores the city filter so the selected city can be seen among its peers.
func AirQualityPage(records []dataset.AQIRecord, opts AirQualityOptions) (*Page, error) {
	opts = opts.withDefaults()
	inRange := aqi.FilterDateRange(records, opts.From, opts.To)
	filtered := aqi.FilterCity(inRange, opts.City)

	summary, err := aqi.Summary(filtered)
	if err != nil {
		return nil, err
	}

	page := newPage("Air Quality Analytics")
	page.setFilter("city", opts.City)
	if !opts.From.IsZero() {
		page.setFilter("from", opts.From.Format(time.DateOnly))
	}
	if !opts.To.IsZero() {
		page.setFilter("to", opts.To.Format(time.DateOnly))
	}
	page.setFilter("granularity", opts.Granularity.String())

	page.addMetric("Average AQI", float64(summary.AvgAQI), "", aqi.Category(float64(summary.AvgAQI)))
	page.addMetric("Average PM2.5", float64(summary.AvgPM25), "µg/m³", "")
	page.addMetric("Average PM10", float64(summary.AvgPM10), "µg/m³", "")
	page.addMetric("Maximum AQI", float64(summary.MaxAQI), "", aqi.Category(float64(summary.MaxAQI)))
	page.addMetric("Readings", float64(summary.Count), "", "")

	trend := trendGroups(aqi.Trend(filtered, opts.Granularity))
	if growth := engine.BuildGrowth(trend); growth != nil {
		page.addMetric("AQI Change", float64(growth.ChangePercent), "%",
			fmt.Sprintf("%s (%s)", growth.Display(), growth.Period()))
	}

	// Charts
	page.addChart(engine.BuildChart(engine.ChartSpec{
		Type:       "line",
		Title:      fmt.Sprintf("AQI Trend (%s)", opts.Granularity),
		XAxis:      "Period",
		YAxis:      "Average AQI",
		SeriesName: "AQI",
	}, trend))

	ranking := aqi.MostPolluted(inRange, opts.TopN)
	rankGroups := cityGroups(ranking)
	page.addChart(engine.BuildChart(engine.ChartSpec{
		Title:      fmt.Sprintf("Top %d Most Polluted Cities", len(ranking)),
		XAxis:      "City",
		YAxis:      "Average AQI",
		SeriesName: "Average AQI",
	}, rankGroups))

	corr := aqi.PollutantCorrelation(filtered)
	page.addChart(engine.BuildHeatmap("Pollutant Correlation", corr.Labels(), corr.Values))

	// Tables
	alerts := aqi.HighPollutionAlerts(filtered, opts.Threshold)
	metrics.AlertsRaised.WithLabelValues("high_pollution").Add(float64(len(alerts)))

	page.addTable(engine.BuildListTable(
		fmt.Sprintf("Readings Above AQI %g", opts.Threshold),
		aqi.View(alerts), schema.KeyAQI, schema.KeyPM25, schema.KeyPM10))
	page.addTable(engine.BuildGroupTable("City Averages", "City", engine.AggAvg, rankGroups))

	return page, nil
}

func trendGroups(points []aqi.TrendPoint) []engine.Group {
	groups := make([]engine.Group, 0, len(points))
	for _, p := range points {
		groups = append(groups, engine.Group{Key: p.Label, Label: p.Label, Value: float64(p.AvgAQI), Count: p.Count})
	}
	return groups
}

func cityGroups(ranking []aqi.CityAverage) []engine.Group {
	groups := make([]engine.Group, 0, len(ranking))
	for _, c := range ranking {
		groups = append(groups, engine.Group{Key: c.City, Label: c.City, Value: float64(c.AvgAQI), Count: c.Count})
	}
	return groups
}

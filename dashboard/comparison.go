package dashboard

import (
	"fmt"
	"time"

	"github.com/spektr-org/insightedu/aqi"
	"github.com/spektr-org/insightedu/dataset"
	"github.com/spektr-org/insightedu/engine"
)

// CityComparisonPage puts two cities side by side over the selected dates:
// their average AQI and the gap, a per-city trend and each city's peak reading.
// opts.City, Threshold and TopN are ignored.
func CityComparisonPage(records []dataset.AQIRecord, cityA, cityB string, opts AirQualityOptions) (*Page, error) {
	inRange := aqi.FilterDateRange(records, opts.From, opts.To)

	cmp, err := aqi.Compare(inRange, cityA, cityB)
	if err != nil {
		return nil, err
	}

	page := newPage(fmt.Sprintf("%s vs %s", cmp.CityA, cmp.CityB))
	page.setFilter("city", cmp.CityA+","+cmp.CityB)
	if !opts.From.IsZero() {
		page.setFilter("from", opts.From.Format(time.DateOnly))
	}
	if !opts.To.IsZero() {
		page.setFilter("to", opts.To.Format(time.DateOnly))
	}
	page.setFilter("granularity", opts.Granularity.String())

	page.addMetric("Average AQI ("+cmp.CityA+")", float64(cmp.A.AvgAQI), "", aqi.Category(float64(cmp.A.AvgAQI)))
	page.addMetric("Average AQI ("+cmp.CityB+")", float64(cmp.B.AvgAQI), "", aqi.Category(float64(cmp.B.AvgAQI)))
	page.addMetric("Difference", float64(cmp.DeltaAvgAQI), "", "")

	page.addChart(engine.BuildChart(engine.ChartSpec{
		Type:  "line",
		Title: fmt.Sprintf("AQI Trend by City (%s)", opts.Granularity),
		XAxis: "Period",
		YAxis: "Average AQI",
	}, aqi.CityTrend(inRange, opts.Granularity, cmp.CityA, cmp.CityB)))

	page.addTable(engine.BuildGroupTable("Peak AQI", "City", engine.AggMax,
		peakGroups(aqi.CityPeaks(inRange, cmp.CityA, cmp.CityB))))

	return page, nil
}

func peakGroups(peaks []aqi.CityPeak) []engine.Group {
	groups := make([]engine.Group, 0, len(peaks))
	for _, p := range peaks {
		groups = append(groups, engine.Group{Key: p.City, Label: p.City, Value: float64(p.MaxAQI), Count: p.Count})
	}
	return groups
}

// Package insightedu analyzes district literacy and city air quality.
// Two tables in, dashboards out.
//
// Usage:
//
//	import (
//	    "github.com/spektr-org/insightedu/dataset"
//	    "github.com/spektr-org/insightedu/education"
//	)
//
//	records, err := dataset.LoadLiteracyFile("datasets/literacy.csv")
//	summary, err := education.Summary(records)
//	alerts := education.LowLiteracyAlerts(records, education.DefaultLiteracyThreshold)
//
// The dataset package validates CSV input once; the education and aqi
// analyzers are pure functions over the typed records. The dashboard package
// composes their results into pages, which report renders and server exposes
// over HTTP. All computation is local.
package insightedu

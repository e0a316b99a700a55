package engine

import (
	"fmt"
	"math"
)

// ============================================================================
// TEXT BUILDER — growth between the first and last period of a series
// ============================================================================

// Growth compares the earliest and latest periods of a chronological series.
type Growth struct {
	EarliestValue  Float  `json:"earliestValue"`
	LatestValue    Float  `json:"latestValue"`
	EarliestPeriod string `json:"earliestPeriod"`
	LatestPeriod   string `json:"latestPeriod"`
	ChangeAmount   Float  `json:"changeAmount"`
	ChangePercent  Float  `json:"changePercent"`
	Direction      string `json:"direction"` // "increased", "decreased", "unchanged"
}

// BuildGrowth computes the change from the first to the last group with a
// value. Groups must already be in chronological order (SortChronological).
// Returns nil with fewer than two valued groups.
func BuildGrowth(groups []Group) *Growth {
	var valued []Group
	for _, g := range groups {
		if !math.IsNaN(g.Value) {
			valued = append(valued, g)
		}
	}
	if len(valued) < 2 {
		return nil
	}

	earliest := valued[0]
	latest := valued[len(valued)-1]

	changeAmount := latest.Value - earliest.Value
	var changePercent float64
	if earliest.Value != 0 {
		changePercent = (changeAmount / earliest.Value) * 100
	}

	direction := "unchanged"
	if changePercent > 0.5 {
		direction = "increased"
	} else if changePercent < -0.5 {
		direction = "decreased"
	}

	return &Growth{
		EarliestValue:  Float(earliest.Value),
		LatestValue:    Float(latest.Value),
		EarliestPeriod: earliest.Label,
		LatestPeriod:   latest.Label,
		ChangeAmount:   Float(changeAmount),
		ChangePercent:  Float(changePercent),
		Direction:      direction,
	}
}

// Display renders the change as "↑ 12.5%", "↓ 3.0%" or "→ No change".
func (g *Growth) Display() string {
	abs := math.Abs(float64(g.ChangePercent))
	switch g.Direction {
	case "increased":
		return fmt.Sprintf("↑ %.1f%%", abs)
	case "decreased":
		return fmt.Sprintf("↓ %.1f%%", abs)
	}
	return "→ No change"
}

// Period renders the compared span, e.g. "2015-01 – 2020-07".
func (g *Growth) Period() string {
	return fmt.Sprintf("%s – %s", g.EarliestPeriod, g.LatestPeriod)
}

// Package dashboard assembles analyzer results into render-ready pages:
// headline metrics, charts and tables for the education and air-quality views.
package dashboard

import (
	"github.com/spektr-org/insightedu/engine"
)

// Page is one dashboard screen.
type Page struct {
	Title   string               `json:"title"`
	Filters map[string]string    `json:"filters,omitempty"`
	Metrics []Metric             `json:"metrics"`
	Charts  []engine.ChartConfig `json:"charts"`
	Tables  []engine.TableData   `json:"tables"`
}

// Metric is a headline number.
type Metric struct {
	Label string       `json:"label"`
	Value engine.Float `json:"value"`
	Unit  string       `json:"unit,omitempty"`
	Note  string       `json:"note,omitempty"`
}

func (p *Page) addChart(c *engine.ChartConfig) {
	if c != nil {
		p.Charts = append(p.Charts, *c)
	}
}

func (p *Page) addTable(t *engine.TableData) {
	if t != nil {
		p.Tables = append(p.Tables, *t)
	}
}

func (p *Page) addMetric(label string, value float64, unit, note string) {
	p.Metrics = append(p.Metrics, Metric{Label: label, Value: engine.Float(engine.RoundTo2(value)), Unit: unit, Note: note})
}

func (p *Page) setFilter(key, value string) {
	if value == "" {
		return
	}
	if p.Filters == nil {
		p.Filters = make(map[string]string)
	}
	p.Filters[key] = value
}

func newPage(title string) *Page {
	return &Page{
		Title:   title,
		Metrics: []Metric{},
		Charts:  []engine.ChartConfig{},
		Tables:  []engine.TableData{},
	}
}

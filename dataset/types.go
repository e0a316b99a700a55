package dataset

import (
	"encoding/json"
	"math"
	"time"

	"github.com/spektr-org/insightedu/engine"
	"github.com/spektr-org/insightedu/schema"
)

// LiteracyRecord is one district row of the education dataset.
// LiteracyRate is a percentage in [0, 100].
type LiteracyRecord struct {
	District     string  `json:"district"`
	State        string  `json:"state"`
	LiteracyRate float64 `json:"literacy_rate"`
}

// AQIRecord is one city/day row of the pollution dataset.
// Pollutant fields hold NaN when the source cell was empty.
type AQIRecord struct {
	City    string    `json:"city"`
	Date    time.Time `json:"date"`
	AQI     float64   `json:"aqi"`
	PM25    float64   `json:"pm2_5"`
	PM10    float64   `json:"pm10"`
	NO      float64   `json:"no"`
	NO2     float64   `json:"no2"`
	NOx     float64   `json:"nox"`
	NH3     float64   `json:"nh3"`
	CO      float64   `json:"co"`
	SO2     float64   `json:"so2"`
	O3      float64   `json:"o3"`
	Benzene float64   `json:"benzene"`
	Toluene float64   `json:"toluene"`
	Xylene  float64   `json:"xylene"`
}

// Pollutant names one numeric field of an AQIRecord.
type Pollutant int

const (
	AQI Pollutant = iota
	PM25
	PM10
	NO
	NO2
	NOx
	NH3
	CO
	SO2
	O3
	Benzene
	Toluene
	Xylene
)

// Pollutants lists every Pollutant in column order.
var Pollutants = []Pollutant{AQI, PM25, PM10, NO, NO2, NOx, NH3, CO, SO2, O3, Benzene, Toluene, Xylene}

var pollutantInfo = [...]struct {
	label string
	key   string
}{
	AQI:     {"AQI", schema.KeyAQI},
	PM25:    {"PM2.5", schema.KeyPM25},
	PM10:    {"PM10", schema.KeyPM10},
	NO:      {"NO", schema.KeyNO},
	NO2:     {"NO2", schema.KeyNO2},
	NOx:     {"NOx", schema.KeyNOx},
	NH3:     {"NH3", schema.KeyNH3},
	CO:      {"CO", schema.KeyCO},
	SO2:     {"SO2", schema.KeySO2},
	O3:      {"O3", schema.KeyO3},
	Benzene: {"Benzene", schema.KeyBenzene},
	Toluene: {"Toluene", schema.KeyToluene},
	Xylene:  {"Xylene", schema.KeyXylene},
}

// String returns the source column label ("PM2.5").
func (p Pollutant) String() string {
	if p < 0 || int(p) >= len(pollutantInfo) {
		return "unknown"
	}
	return pollutantInfo[p].label
}

// Key returns the schema key ("pm2_5").
func (p Pollutant) Key() string {
	if p < 0 || int(p) >= len(pollutantInfo) {
		return ""
	}
	return pollutantInfo[p].key
}

// ParsePollutant resolves a label or key ("PM2.5", "pm2_5", "pm25") to a Pollutant.
func ParsePollutant(s string) (Pollutant, bool) {
	key := schema.NormalizeHeader(s)
	if key == "pm25" {
		key = schema.KeyPM25
	}
	for _, p := range Pollutants {
		if p.Key() == key {
			return p, true
		}
	}
	return 0, false
}

// Value returns the field named by p, NaN for an unknown pollutant.
func (r AQIRecord) Value(p Pollutant) float64 {
	if f := r.field(p); f != nil {
		return *f
	}
	return math.NaN()
}

func (r *AQIRecord) field(p Pollutant) *float64 {
	switch p {
	case AQI:
		return &r.AQI
	case PM25:
		return &r.PM25
	case PM10:
		return &r.PM10
	case NO:
		return &r.NO
	case NO2:
		return &r.NO2
	case NOx:
		return &r.NOx
	case NH3:
		return &r.NH3
	case CO:
		return &r.CO
	case SO2:
		return &r.SO2
	case O3:
		return &r.O3
	case Benzene:
		return &r.Benzene
	case Toluene:
		return &r.Toluene
	case Xylene:
		return &r.Xylene
	}
	return nil
}

// newAQIRecord returns a record with every pollutant unset (NaN).
func newAQIRecord(city string, date time.Time) AQIRecord {
	r := AQIRecord{City: city, Date: date}
	for _, p := range Pollutants {
		*r.field(p) = math.NaN()
	}
	return r
}

type aqiJSON struct {
	City    string       `json:"city"`
	Date    string       `json:"date"`
	AQI     engine.Float `json:"aqi"`
	PM25    engine.Float `json:"pm2_5"`
	PM10    engine.Float `json:"pm10"`
	NO      engine.Float `json:"no"`
	NO2     engine.Float `json:"no2"`
	NOx     engine.Float `json:"nox"`
	NH3     engine.Float `json:"nh3"`
	CO      engine.Float `json:"co"`
	SO2     engine.Float `json:"so2"`
	O3      engine.Float `json:"o3"`
	Benzene engine.Float `json:"benzene"`
	Toluene engine.Float `json:"toluene"`
	Xylene  engine.Float `json:"xylene"`
}

// MarshalJSON writes the date as YYYY-MM-DD and unmeasured pollutants as null.
func (r AQIRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(aqiJSON{
		City:    r.City,
		Date:    r.Date.Format(time.DateOnly),
		AQI:     engine.Float(r.AQI),
		PM25:    engine.Float(r.PM25),
		PM10:    engine.Float(r.PM10),
		NO:      engine.Float(r.NO),
		NO2:     engine.Float(r.NO2),
		NOx:     engine.Float(r.NOx),
		NH3:     engine.Float(r.NH3),
		CO:      engine.Float(r.CO),
		SO2:     engine.Float(r.SO2),
		O3:      engine.Float(r.O3),
		Benzene: engine.Float(r.Benzene),
		Toluene: engine.Float(r.Toluene),
		Xylene:  engine.Float(r.Xylene),
	})
}

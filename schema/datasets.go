package schema

// Column keys shared by the loader and the analyzers.
const (
	KeyDistrict = "district"
	KeyState    = "state"
	KeyLiteracy = "literacy"

	KeyCity    = "city"
	KeyDate    = "date"
	KeyAQI     = "aqi"
	KeyPM25    = "pm2_5"
	KeyPM10    = "pm10"
	KeyNO      = "no"
	KeyNO2     = "no2"
	KeyNOx     = "nox"
	KeyNH3     = "nh3"
	KeyCO      = "co"
	KeySO2     = "so2"
	KeyO3      = "o3"
	KeyBenzene = "benzene"
	KeyToluene = "toluene"
	KeyXylene  = "xylene"
)

var hundred = 100.0

// Literacy is the schema of the district literacy dataset (literacy.csv).
func Literacy() Dataset {
	lit := DefaultMeasure(KeyLiteracy, "Literacy Rate", "percent",
		"literacy_rate", "literacy_%", "literacy_rate_(%)", "literacy_percentage", "total_literacy")
	lit.Required = true
	lit.Max = &hundred

	return Dataset{
		Name:        "education",
		Description: "Literacy rate per district",
		Dimensions: []DimensionMeta{
			DefaultDimension(KeyDistrict, "District", "district_name"),
			DefaultDimension(KeyState, "State", "state_name", "state/ut", "state_ut"),
		},
		Measures: []MeasureMeta{lit},
	}
}

// AQI is the schema of the city/day pollution dataset (city_day.csv).
// Only AQI is required; other pollutant columns are optional.
func AQI() Dataset {
	aqi := DefaultMeasure(KeyAQI, "AQI", "index", "air_quality_index")
	aqi.Required = true

	date := DefaultDimension(KeyDate, "Date", "day", "datetime")
	date.IsTemporal = true

	return Dataset{
		Name:        "pollution",
		Description: "Daily air quality per city",
		Dimensions: []DimensionMeta{
			DefaultDimension(KeyCity, "City", "city_name"),
			date,
		},
		Measures: []MeasureMeta{
			aqi,
			DefaultMeasure(KeyPM25, "PM2.5", "µg/m³", "pm2.5", "pm25", "pm_2.5"),
			DefaultMeasure(KeyPM10, "PM10", "µg/m³", "pm_10"),
			DefaultMeasure(KeyNO, "NO", "µg/m³"),
			DefaultMeasure(KeyNO2, "NO2", "µg/m³"),
			DefaultMeasure(KeyNOx, "NOx", "ppb"),
			DefaultMeasure(KeyNH3, "NH3", "µg/m³"),
			DefaultMeasure(KeyCO, "CO", "mg/m³"),
			DefaultMeasure(KeySO2, "SO2", "µg/m³"),
			DefaultMeasure(KeyO3, "O3", "µg/m³"),
			DefaultMeasure(KeyBenzene, "Benzene", "µg/m³"),
			DefaultMeasure(KeyToluene, "Toluene", "µg/m³"),
			DefaultMeasure(KeyXylene, "Xylene", "µg/m³"),
		},
	}
}

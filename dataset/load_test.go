package dataset

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spektr-org/insightedu/schema"
)

// ============================================================================
// LOADER TESTS
// ============================================================================

var literacyCSV = []byte(`District,State,Literacy Rate
A,S1,50
B,S1,70
C,S2,55
D,S2,
`)

var aqiCSV = []byte(`City,Date,PM2.5,PM10,NO,NO2,NOx,NH3,CO,SO2,O3,Benzene,Toluene,Xylene,AQI,AQI_Bucket
Delhi,2020-01-01,100.5,200,,30,,,1.2,10,,,,,210,Poor
Delhi,2020-01-02,80,150,,25,,,1.0,8,,,,,150,Moderate
Delhi,2020-01-03,120,250,,40,,,1.5,12,,,,,300,Very Poor
Mumbai,2020-01-01,,,,,,,,,,,,,,
`)

func TestLoadLiteracy(t *testing.T) {
	records, err := LoadLiteracy(bytes.NewReader(literacyCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records (row with no rate skipped), got %d", len(records))
	}
	want := LiteracyRecord{District: "B", State: "S1", LiteracyRate: 70}
	if records[1] != want {
		t.Errorf("records[1] = %+v, want %+v", records[1], want)
	}
}

func TestLoadLiteracyAliasedHeaders(t *testing.T) {
	data := []byte("\ufeffdistrict_name,State/UT,literacy_%\nX,Kerala,96.2\n")
	records, err := LoadLiteracy(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].State != "Kerala" || records[0].LiteracyRate != 96.2 {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestLoadLiteracyErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		row    int
		column string
	}{
		{"out of range", "District,State,Literacy Rate\nA,S1,101\n", 1, schema.KeyLiteracy},
		{"negative", "District,State,Literacy Rate\nA,S1,50\nB,S1,-3\n", 2, schema.KeyLiteracy},
		{"not a number", "District,State,Literacy Rate\nA,S1,high\n", 1, schema.KeyLiteracy},
		{"missing district", "District,State,Literacy Rate\n,S1,40\n", 1, schema.KeyDistrict},
		{"duplicate", "District,State,Literacy Rate\nA,S1,40\na,s1,45\n", 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadLiteracy(strings.NewReader(tt.data))
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("expected LoadError, got %v", err)
			}
			if !errors.Is(err, ErrLoad) {
				t.Error("LoadError should match ErrLoad")
			}
			if le.Row != tt.row || le.Column != tt.column {
				t.Errorf("error at row %d column %q, want row %d column %q (%v)", le.Row, le.Column, tt.row, tt.column, err)
			}
		})
	}
}

func TestLoadLiteracyMissingColumn(t *testing.T) {
	_, err := LoadLiteracy(strings.NewReader("District,Literacy Rate\nA,50\n"))
	var mc *schema.MissingColumnError
	if !errors.As(err, &mc) {
		t.Fatalf("expected MissingColumnError inside LoadError, got %v", err)
	}
	if len(mc.Keys) != 1 || mc.Keys[0] != schema.KeyState {
		t.Errorf("missing keys = %v, want [state]", mc.Keys)
	}
}

func TestLoadAQI(t *testing.T) {
	records, err := LoadAQI(bytes.NewReader(aqiCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records (row with no AQI skipped), got %d", len(records))
	}

	first := records[0]
	if !first.Date.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", first.Date)
	}
	if first.AQI != 210 || first.PM25 != 100.5 || first.CO != 1.2 {
		t.Errorf("unexpected values: %+v", first)
	}
	if !math.IsNaN(first.NO) || !math.IsNaN(first.Xylene) {
		t.Error("empty pollutant cells should load as NaN")
	}
}

func TestLoadAQIOptionalColumns(t *testing.T) {
	data := "City,Date,AQI\nPune,01/02/2021,88\n"
	records, err := LoadAQI(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !records[0].Date.Equal(time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("day-first date parsed as %v", records[0].Date)
	}
	if !math.IsNaN(records[0].PM25) {
		t.Error("absent pollutant column should read as NaN")
	}
}

func TestLoadAQIErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		column string
	}{
		{"bad date", "City,Date,AQI\nDelhi,someday,100\n", schema.KeyDate},
		{"negative pollutant", "City,Date,AQI,SO2\nDelhi,2020-01-01,100,-1\n", schema.KeySO2},
		{"duplicate day", "City,Date,AQI\nDelhi,2020-01-01,100\ndelhi,2020-01-01,120\n", ""},
		{"decimal comma", "City,Date,AQI\nDelhi,2020-01-01,\"50,5\"\n", schema.KeyAQI},
		{"misplaced separator", "City,Date,AQI,CO\nDelhi,2020-01-01,100,\"12,34\"\n", schema.KeyCO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAQI(strings.NewReader(tt.data))
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("expected LoadError, got %v", err)
			}
			if le.Column != tt.column {
				t.Errorf("column = %q, want %q (%v)", le.Column, tt.column, err)
			}
		})
	}
}

func TestLoadAQIThousandsSeparator(t *testing.T) {
	data := "City,Date,AQI,CO\nDelhi,2020-01-01,\"1,050\",\"1,234.5\"\n"
	records, err := LoadAQI(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].AQI != 1050 || records[0].CO != 1234.5 {
		t.Errorf("grouped numbers parsed as AQI=%v CO=%v", records[0].AQI, records[0].CO)
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	literacy, err := LoadLiteracy(strings.NewReader("District,State,Literacy\n"))
	if err != nil {
		t.Fatalf("header-only literacy file: %v", err)
	}
	if literacy == nil || len(literacy) != 0 {
		t.Errorf("expected an empty, non-nil table, got %v", literacy)
	}

	readings, err := LoadAQI(strings.NewReader("City,Date,AQI\n"))
	if err != nil {
		t.Fatalf("header-only AQI file: %v", err)
	}
	if len(readings) != 0 {
		t.Errorf("expected no readings, got %d", len(readings))
	}

	_, err = LoadLiteracy(strings.NewReader("District,Literacy\n"))
	var mc *schema.MissingColumnError
	if !errors.As(err, &mc) {
		t.Errorf("header-only file still needs its columns, got %v", err)
	}

	if _, err := LoadLiteracy(strings.NewReader("")); !errors.Is(err, ErrLoad) {
		t.Errorf("empty file should fail with ErrLoad, got %v", err)
	}
}

func TestLoadAQICustomLayouts(t *testing.T) {
	data := "City,Date,AQI\nDelhi,2020/03/04,100\n"
	records, err := LoadAQI(strings.NewReader(data), WithDateLayouts("2006/01/02"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].Date.Month() != time.March {
		t.Errorf("date = %v", records[0].Date)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "literacy.csv")
	if err := os.WriteFile(path, literacyCSV, 0o644); err != nil {
		t.Fatal(err)
	}
	records, err := LoadLiteracyFile(path)
	if err != nil || len(records) != 3 {
		t.Fatalf("LoadLiteracyFile = %d records, %v", len(records), err)
	}

	_, err = LoadAQIFile(filepath.Join(dir, "missing.csv"))
	var le *LoadError
	if !errors.As(err, &le) || le.Source == "" {
		t.Errorf("expected LoadError naming the source, got %v", err)
	}
}

func TestParsePollutant(t *testing.T) {
	for in, want := range map[string]Pollutant{"PM2.5": PM25, "pm25": PM25, "pm2_5": PM25, "NOx": NOx, "aqi": AQI} {
		got, ok := ParsePollutant(in)
		if !ok || got != want {
			t.Errorf("ParsePollutant(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParsePollutant("radon"); ok {
		t.Error("unknown pollutant should not parse")
	}
}

func TestAQIRecordJSON(t *testing.T) {
	r := newAQIRecord("Delhi", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	r.AQI = 210
	out, err := r.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `"date":"2020-01-01"`) || !strings.Contains(s, `"aqi":210`) || !strings.Contains(s, `"pm10":null`) {
		t.Errorf("unexpected json: %s", s)
	}
}

package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/spektr-org/insightedu/metrics"
	"github.com/spektr-org/insightedu/schema"
)

// ============================================================================
// RECORD LOADER — CSV → validated, typed records
// ============================================================================
// Every column is read as text, resolved through the dataset schema, then
// validated once. Analyzers never see a string-keyed row.
//
// Rows with no literacy value (education) or no AQI value (pollution) are
// dropped and counted as skipped; every other defect fails the whole load.
// ============================================================================

// LoadLiteracy reads the education dataset.
func LoadLiteracy(r io.Reader, opts ...Option) ([]LiteracyRecord, error) {
	cfg := applyOptions(opts)
	ds := schema.Literacy()

	rows, cols, err := readTable(r, ds, cfg)
	if err != nil {
		return nil, fail(ds.Name, err)
	}
	litMeta, _ := ds.Measure(schema.KeyLiteracy)

	records := make([]LiteracyRecord, 0, len(rows))
	seen := make(map[string]int, len(rows))
	skipped := 0

	for i, row := range rows {
		n := i + 1
		raw := cell(row, cols, schema.KeyLiteracy)
		if schema.IsMissing(raw) {
			skipped++
			continue
		}

		district, err := requireText(ds.Name, cfg.source, n, row, cols, schema.KeyDistrict)
		if err != nil {
			return nil, fail(ds.Name, err)
		}
		state, err := requireText(ds.Name, cfg.source, n, row, cols, schema.KeyState)
		if err != nil {
			return nil, fail(ds.Name, err)
		}
		rate, err := parseMeasure(ds.Name, cfg.source, n, litMeta, raw)
		if err != nil {
			return nil, fail(ds.Name, err)
		}

		key := strings.ToLower(state) + "|" + strings.ToLower(district)
		if first, dup := seen[key]; dup {
			return nil, fail(ds.Name, newDuplicate(ds.Name, cfg.source, n, state+"/"+district, first))
		}
		seen[key] = n

		records = append(records, LiteracyRecord{District: district, State: state, LiteracyRate: rate})
	}

	finish(cfg, ds.Name, len(records), skipped)
	return records, nil
}

// LoadAQI reads the pollution dataset.
func LoadAQI(r io.Reader, opts ...Option) ([]AQIRecord, error) {
	cfg := applyOptions(opts)
	ds := schema.AQI()

	rows, cols, err := readTable(r, ds, cfg)
	if err != nil {
		return nil, fail(ds.Name, err)
	}

	// pollutant columns present in this file
	present := make([]Pollutant, 0, len(Pollutants))
	metas := make(map[Pollutant]schema.MeasureMeta, len(Pollutants))
	for _, p := range Pollutants {
		if cols.Has(p.Key()) {
			present = append(present, p)
			metas[p], _ = ds.Measure(p.Key())
		}
	}

	records := make([]AQIRecord, 0, len(rows))
	seen := make(map[string]int, len(rows))
	skipped := 0

	for i, row := range rows {
		n := i + 1
		if schema.IsMissing(cell(row, cols, schema.KeyAQI)) {
			skipped++
			continue
		}

		city, err := requireText(ds.Name, cfg.source, n, row, cols, schema.KeyCity)
		if err != nil {
			return nil, fail(ds.Name, err)
		}
		rawDate, err := requireText(ds.Name, cfg.source, n, row, cols, schema.KeyDate)
		if err != nil {
			return nil, fail(ds.Name, err)
		}
		date, err := schema.ParseDate(rawDate, cfg.dateLayouts...)
		if err != nil {
			return nil, fail(ds.Name, newTypeMismatch(ds.Name, cfg.source, n, schema.KeyDate, rawDate, "a calendar date"))
		}

		rec := newAQIRecord(city, date)
		for _, p := range present {
			raw := cell(row, cols, p.Key())
			if schema.IsMissing(raw) {
				continue
			}
			v, err := parseMeasure(ds.Name, cfg.source, n, metas[p], raw)
			if err != nil {
				return nil, fail(ds.Name, err)
			}
			*rec.field(p) = v
		}

		key := strings.ToLower(city) + "|" + date.Format("2006-01-02")
		if first, dup := seen[key]; dup {
			return nil, fail(ds.Name, newDuplicate(ds.Name, cfg.source, n, city+"/"+date.Format("2006-01-02"), first))
		}
		seen[key] = n

		records = append(records, rec)
	}

	finish(cfg, ds.Name, len(records), skipped)
	return records, nil
}

// LoadLiteracyFile opens path and reads it with LoadLiteracy.
func LoadLiteracyFile(path string, opts ...Option) ([]LiteracyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fail(schema.Literacy().Name, newReadError(schema.Literacy().Name, path, err))
	}
	defer f.Close()
	return LoadLiteracy(f, append([]Option{WithSource(path)}, opts...)...)
}

// LoadAQIFile opens path and reads it with LoadAQI.
func LoadAQIFile(path string, opts ...Option) ([]AQIRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fail(schema.AQI().Name, newReadError(schema.AQI().Name, path, err))
	}
	defer f.Close()
	return LoadAQI(f, append([]Option{WithSource(path)}, opts...)...)
}

// ============================================================================
// HELPERS
// ============================================================================

// readTable parses CSV into text rows (header excluded) and resolves columns.
// A file holding only a header row yields zero rows, not an error.
func readTable(r io.Reader, ds schema.Dataset, cfg *config) ([][]string, schema.Columns, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, newReadError(ds.Name, cfg.source, err)
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(schema.MissingTokens),
	)
	if df.Err != nil {
		// gota refuses frames without data rows
		header, ok := headerOnly(data)
		if !ok {
			return nil, nil, newReadError(ds.Name, cfg.source, df.Err)
		}
		cols, err := resolveColumns(ds, cfg, header)
		return nil, cols, err
	}

	cols, err := resolveColumns(ds, cfg, df.Names())
	if err != nil {
		return nil, nil, err
	}

	records := df.Records()
	if len(records) == 0 {
		return nil, cols, nil
	}
	return records[1:], cols, nil
}

// headerOnly returns the header when data is exactly one CSV row.
func headerOnly(data []byte) ([]string, bool) {
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil || len(rows) != 1 {
		return nil, false
	}
	return rows[0], true
}

func resolveColumns(ds schema.Dataset, cfg *config, headers []string) (schema.Columns, error) {
	cols, err := ds.Resolve(headers)
	if err != nil {
		return nil, &LoadError{Dataset: ds.Name, Source: cfg.source, Reason: "schema mismatch", Err: err}
	}
	return cols, nil
}

func cell(row []string, cols schema.Columns, key string) string {
	idx, ok := cols[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func requireText(dataset, source string, n int, row []string, cols schema.Columns, key string) (string, error) {
	v := cell(row, cols, key)
	if schema.IsMissing(v) {
		return "", newMissingValue(dataset, source, n, key)
	}
	return v, nil
}

// thousands matches numbers grouped with comma separators ("1,234.5").
var thousands = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// parseMeasure parses a numeric cell and checks it against the measure's range.
// Commas are accepted only as thousands separators; "50,5" is rejected.
func parseMeasure(dataset, source string, n int, meta schema.MeasureMeta, raw string) (float64, error) {
	text := strings.TrimSpace(raw)
	if strings.Contains(text, ",") {
		if !thousands.MatchString(text) {
			return 0, newTypeMismatch(dataset, source, n, meta.Key, raw, "a number")
		}
		text = strings.ReplaceAll(text, ",", "")
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, newTypeMismatch(dataset, source, n, meta.Key, raw, "a number")
	}
	if v < meta.Min || (meta.Max != nil && v > *meta.Max) {
		bounds := fmt.Sprintf(">= %g", meta.Min)
		if meta.Max != nil {
			bounds = fmt.Sprintf("[%g, %g]", meta.Min, *meta.Max)
		}
		return 0, newOutOfRange(dataset, source, n, meta.Key, raw, bounds)
	}
	return v, nil
}

func fail(dataset string, err error) error {
	metrics.LoadErrors.WithLabelValues(dataset).Inc()
	var le *LoadError
	if errors.As(err, &le) {
		return le
	}
	return &LoadError{Dataset: dataset, Err: err}
}

func finish(cfg *config, dataset string, loaded, skipped int) {
	metrics.RecordsLoaded.WithLabelValues(dataset).Add(float64(loaded))
	metrics.RowsSkipped.WithLabelValues(dataset).Add(float64(skipped))
	cfg.logger.Info("dataset loaded",
		"dataset", dataset,
		"source", cfg.source,
		"records", loaded,
		"skipped", skipped,
	)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spektr-org/insightedu/aqi"
	"github.com/spektr-org/insightedu/config"
	"github.com/spektr-org/insightedu/dashboard"
	"github.com/spektr-org/insightedu/dataset"
	"github.com/spektr-org/insightedu/logging"
	"github.com/spektr-org/insightedu/report"
	"github.com/spektr-org/insightedu/schema"
	"github.com/spektr-org/insightedu/server"
)

// ============================================================================
// INSIGHTEDU CLI — education and air-quality dashboards from CSV
// ============================================================================

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatalf("%v", err)
	}

	// ── Flags ─────────────────────────────────────────────────────────────
	eduPath := flag.String("edu", cfg.EducationCSV, "Path to the literacy CSV")
	aqiPath := flag.String("aqi", cfg.AQICSV, "Path to the city/day air-quality CSV")
	pageName := flag.String("page", "education", "Dashboard page: education, aqi or compare")
	state := flag.String("state", "", "Education: restrict to one state")
	city := flag.String("city", "", "Air quality: restrict to one city")
	cityA := flag.String("a", "", "Compare: first city")
	cityB := flag.String("b", "", "Compare: second city")
	from := flag.String("from", "", "Air quality: first date (inclusive), e.g. 2020-01-01")
	to := flag.String("to", "", "Air quality: last date (inclusive)")
	threshold := flag.Float64("threshold", 0, "Alert threshold (default: literacy 60, AQI 200 or the configured value)")
	granularity := flag.String("granularity", "monthly", "Air quality trend: monthly, yearly or daily")
	top := flag.Int("top", 10, "Size of the top-N rankings")
	bins := flag.Int("bins", 20, "Education: histogram bins")
	format := flag.String("format", "table", "Output format: json, pretty, table, csv")
	outFile := flag.String("out", "", "Write output to file instead of stdout")
	serve := flag.Bool("serve", false, "Serve the JSON API instead of printing a page")
	addr := flag.String("addr", cfg.ListenAddr, "Listen address for -serve")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `InsightEDU — literacy and air-quality analytics

Usage:
  insightedu -page education -state Kerala
  insightedu -page aqi -city Delhi -from 2019-01-01 -granularity yearly -format csv -out delhi.csv
  insightedu -page compare -a Delhi -b Mumbai -granularity yearly
  insightedu -serve -addr :8080

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment (also read from .env):
  INSIGHT_EDUCATION_CSV, INSIGHT_AQI_CSV          dataset paths
  INSIGHT_LITERACY_THRESHOLD, INSIGHT_AQI_THRESHOLD  alert thresholds
  INSIGHT_LISTEN_ADDR, INSIGHT_CACHE_TTL, INSIGHT_CORS_ORIGINS
  LOG_LEVEL, LOG_FORMAT, SEQ_URL

Formats:
  table     Terminal tables (default)
  json      Full JSON page
  pretty    Pretty-printed JSON
  csv       Every section as CSV (ready for Sheets/Excel)
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("insightedu %s\n", version)
		os.Exit(0)
	}

	logger, closeLog, err := logging.Setup(logging.Options{
		Level:  *logLevel,
		Format: cfg.LogFormat,
		SeqURL: cfg.SeqURL,
	})
	if err != nil {
		fatalf("%v", err)
	}
	defer closeLog()

	// ── Serve mode ────────────────────────────────────────────────────────
	if *serve {
		literacy := mustLoadLiteracy(*eduPath, logger)
		readings := mustLoadAQI(*aqiPath, logger)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(literacy, readings,
			server.WithLogger(logger),
			server.WithCacheTTL(cfg.CacheTTL),
			server.WithCORSOrigins(cfg.CORSOrigins...),
			server.WithThresholds(cfg.LiteracyThreshold, cfg.AQIThreshold),
		)
		if err := srv.Run(ctx, *addr); err != nil {
			closeLog()
			fatalf("Server failed: %v", err)
		}
		return
	}

	// ── Page mode ─────────────────────────────────────────────────────────
	outFormat, err := report.ParseFormat(*format)
	if err != nil {
		fatalf("%v", err)
	}

	var page *dashboard.Page
	switch strings.ToLower(*pageName) {
	case "education", "edu":
		literacy := mustLoadLiteracy(*eduPath, logger)
		t := cfg.LiteracyThreshold
		if *threshold > 0 {
			t = *threshold
		}
		page, err = dashboard.EducationPage(literacy, dashboard.EducationOptions{
			State:     *state,
			Threshold: t,
			TopN:      *top,
			Bins:      *bins,
		})
	case "aqi", "air", "pollution":
		readings := mustLoadAQI(*aqiPath, logger)
		opts := dashboard.AirQualityOptions{
			City:      *city,
			From:      mustParseDate("from", *from),
			To:        mustParseDate("to", *to),
			Threshold: cfg.AQIThreshold,
			TopN:      *top,
		}
		if *threshold > 0 {
			opts.Threshold = *threshold
		}
		if opts.Granularity, err = aqi.ParseGranularity(*granularity); err != nil {
			fatalf("%v", err)
		}
		page, err = dashboard.AirQualityPage(readings, opts)
	case "compare":
		if *cityA == "" || *cityB == "" {
			fatalf("-page compare needs -a and -b")
		}
		readings := mustLoadAQI(*aqiPath, logger)
		opts := dashboard.AirQualityOptions{
			From: mustParseDate("from", *from),
			To:   mustParseDate("to", *to),
		}
		if opts.Granularity, err = aqi.ParseGranularity(*granularity); err != nil {
			fatalf("%v", err)
		}
		page, err = dashboard.CityComparisonPage(readings, *cityA, *cityB, opts)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown page %q\n", *pageName)
		flag.Usage()
		os.Exit(1)
	}
	if err != nil {
		fatalf("Analysis failed: %v", err)
	}

	// ── Output writer ─────────────────────────────────────────────────────
	var writer io.Writer = os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			fatalf("Failed to create output file: %v", err)
		}
		defer f.Close()
		writer = f
	}

	if err := report.Render(writer, page, outFormat); err != nil {
		fatalf("Failed to render output: %v", err)
	}
	if *outFile != "" {
		logger.Info("report written", "path", *outFile, "format", string(outFormat))
	}
}

// ============================================================================
// HELPERS
// ============================================================================

func mustLoadLiteracy(path string, logger *slog.Logger) []dataset.LiteracyRecord {
	records, err := dataset.LoadLiteracyFile(path, dataset.WithLogger(logger))
	if err != nil {
		fatalf("%v", err)
	}
	return records
}

func mustLoadAQI(path string, logger *slog.Logger) []dataset.AQIRecord {
	records, err := dataset.LoadAQIFile(path, dataset.WithLogger(logger))
	if err != nil {
		fatalf("%v", err)
	}
	return records
}

func mustParseDate(name, value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := schema.ParseDate(value)
	if err != nil {
		fatalf("-%s: %v", name, err)
	}
	return t
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spektr-org/insightedu/aqi"
	"github.com/spektr-org/insightedu/dashboard"
	"github.com/spektr-org/insightedu/education"
	"github.com/spektr-org/insightedu/engine"
	"github.com/spektr-org/insightedu/metrics"
	"github.com/spektr-org/insightedu/schema"
)

// ============================================================================
// RESPONSES
// ============================================================================

type errorBody struct {
	Error string `json:"error"`
}

// paramError reports a malformed query parameter (HTTP 400).
type paramError struct {
	Name  string
	Value string
	Want  string
}

func (e *paramError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("missing query parameter %q", e.Name)
	}
	return fmt.Sprintf("query parameter %s=%q: want %s", e.Name, e.Value, e.Want)
}

func statusFor(err error) int {
	var pe *paramError
	switch {
	case errors.As(err, &pe):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrEmptyInput):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response"}`)
	}
	writeBody(w, status, body)
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
	w.Write([]byte("\n"))
}

// cached wraps a query so successful responses are served from the cache,
// keyed by the full request URL.
func (s *Server) cached(fn func(q url.Values) (interface{}, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path + "?" + r.URL.Query().Encode()
		if s.cache != nil {
			if body, ok := s.cache.Get(key); ok {
				metrics.CacheHits.Inc()
				w.Header().Set("X-Cache", "HIT")
				writeBody(w, http.StatusOK, body.([]byte))
				return
			}
			metrics.CacheMisses.Inc()
			w.Header().Set("X-Cache", "MISS")
		}

		v, err := fn(r.URL.Query())
		if err != nil {
			writeJSON(w, statusFor(err), errorBody{Error: err.Error()})
			return
		}
		body, err := json.Marshal(v)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to encode response"})
			return
		}
		if s.cache != nil {
			s.cache.SetDefault(key, body)
		}
		writeBody(w, http.StatusOK, body)
	}
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ok",
		"education_records": len(s.literacy),
		"aqi_records":       len(s.readings),
	})
}

func (s *Server) educationPage(q url.Values) (interface{}, error) {
	opts := dashboard.EducationOptions{State: q.Get("state"), Threshold: s.literacyThreshold}

	var err error
	if opts.Threshold, err = floatParam(q, "threshold", opts.Threshold); err != nil {
		return nil, err
	}
	if opts.TopN, err = intParam(q, "top", 0); err != nil {
		return nil, err
	}
	if opts.Bins, err = intParam(q, "bins", 0); err != nil {
		return nil, err
	}
	return dashboard.EducationPage(s.literacy, opts)
}

func (s *Server) educationCompare(q url.Values) (interface{}, error) {
	a, b, err := pairParams(q)
	if err != nil {
		return nil, err
	}
	return education.Compare(s.literacy, a, b)
}

func (s *Server) educationStates(q url.Values) (interface{}, error) {
	return map[string][]string{"states": education.States(s.literacy)}, nil
}

func (s *Server) airQualityPage(q url.Values) (interface{}, error) {
	opts := dashboard.AirQualityOptions{City: q.Get("city"), Threshold: s.aqiThreshold}

	var err error
	if opts.From, err = dateParam(q, "from"); err != nil {
		return nil, err
	}
	if opts.To, err = dateParam(q, "to"); err != nil {
		return nil, err
	}
	if opts.Threshold, err = floatParam(q, "threshold", opts.Threshold); err != nil {
		return nil, err
	}
	if opts.TopN, err = intParam(q, "top", 0); err != nil {
		return nil, err
	}
	if opts.Granularity, err = aqi.ParseGranularity(q.Get("granularity")); err != nil {
		return nil, &paramError{Name: "granularity", Value: q.Get("granularity"), Want: "monthly, yearly or daily"}
	}
	return dashboard.AirQualityPage(s.readings, opts)
}

func (s *Server) airQualityCompare(q url.Values) (interface{}, error) {
	a, b, err := pairParams(q)
	if err != nil {
		return nil, err
	}
	return aqi.Compare(s.readings, a, b)
}

func (s *Server) airQualityComparePage(q url.Values) (interface{}, error) {
	a, b, err := pairParams(q)
	if err != nil {
		return nil, err
	}
	var opts dashboard.AirQualityOptions
	if opts.From, err = dateParam(q, "from"); err != nil {
		return nil, err
	}
	if opts.To, err = dateParam(q, "to"); err != nil {
		return nil, err
	}
	if opts.Granularity, err = aqi.ParseGranularity(q.Get("granularity")); err != nil {
		return nil, &paramError{Name: "granularity", Value: q.Get("granularity"), Want: "monthly, yearly or daily"}
	}
	return dashboard.CityComparisonPage(s.readings, a, b, opts)
}

func (s *Server) airQualityCities(q url.Values) (interface{}, error) {
	out := map[string]interface{}{"cities": aqi.Cities(s.readings)}
	if first, last, ok := aqi.DateBounds(s.readings); ok {
		out["from"] = first.Format(time.DateOnly)
		out["to"] = last.Format(time.DateOnly)
	}
	return out, nil
}

// ============================================================================
// PARAMETERS
// ============================================================================

func pairParams(q url.Values) (string, string, error) {
	a, b := strings.TrimSpace(q.Get("a")), strings.TrimSpace(q.Get("b"))
	if a == "" {
		return "", "", &paramError{Name: "a"}
	}
	if b == "" {
		return "", "", &paramError{Name: "b"}
	}
	return a, b, nil
}

func floatParam(q url.Values, name string, def float64) (float64, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, &paramError{Name: name, Value: raw, Want: "a non-negative number"}
	}
	return v, nil
}

func intParam(q url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, &paramError{Name: name, Value: raw, Want: "a non-negative integer"}
	}
	return v, nil
}

func dateParam(q url.Values, name string) (time.Time, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := schema.ParseDate(raw)
	if err != nil {
		return time.Time{}, &paramError{Name: name, Value: raw, Want: "a date such as 2020-01-31"}
	}
	return t, nil
}

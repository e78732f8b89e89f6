// internal/domain/models/viz.go
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TargetVariable is one forecastable quantity offered by the archive,
// e.g. incident weekly deaths. Value is the key used in data requests;
// Text labels the select control and PlotText labels the plot axes.
type TargetVariable struct {
	Value    string `json:"value"`
	Text     string `json:"text"`
	PlotText string `json:"plot_text"`
}

// Unit is the geographic or organizational entity a forecast applies to.
type Unit struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// QuantileKeys are the five predictive quantiles the widget consumes.
// Forecast payloads may carry others; they are ignored on decode.
var QuantileKeys = []string{"q0.025", "q0.25", "q0.5", "q0.75", "q0.975"}

// MedianKey is the quantile key for point predictions.
const MedianKey = "q0.5"

// TruthSeries holds observed values as parallel date/value columns.
//
// A nil *TruthSeries means "not loaded"; a non-nil series with empty
// columns means the archive has no truth for that selection. The wire
// form for the latter is an empty JSON object.
type TruthSeries struct {
	Date []string  `json:"date"`
	Y    []float64 `json:"y"`
}

// IsEmpty reports whether the series carries no observations, either
// because it was never loaded or because the archive had none.
func (t *TruthSeries) IsEmpty() bool {
	return t == nil || len(t.Date) == 0
}

// Last returns the most recent observation. The series columns are
// sorted ascending by date on the wire, so this is the final entry.
func (t *TruthSeries) Last() (date string, y float64, ok bool) {
	if t.IsEmpty() {
		return "", 0, false
	}
	i := len(t.Date) - 1
	return t.Date[i], t.Y[i], true
}

// ModelForecast is one model's quantile forecast as parallel columns:
// target end dates plus one value column per quantile key. Index i
// across all columns describes one (date, quantile values) tuple.
// Column order on the wire is not guaranteed sorted by date.
type ModelForecast struct {
	TargetEndDate []string
	Quantiles     map[string][]float64
}

// UnmarshalJSON decodes the archive's wire shape, e.g.
//
//	{"target_end_date": ["2021-09-11", ...], "q0.5": [1151438.21, ...], ...}
//
// keeping only the quantile keys the widget uses.
func (m *ModelForecast) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m.TargetEndDate = nil
	m.Quantiles = make(map[string][]float64)

	for key, val := range raw {
		switch {
		case key == "target_end_date":
			if err := json.Unmarshal(val, &m.TargetEndDate); err != nil {
				return fmt.Errorf("target_end_date: %w", err)
			}
		case strings.HasPrefix(key, "q"):
			if !isWantedQuantile(key) {
				continue
			}
			var col []float64
			if err := json.Unmarshal(val, &col); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			m.Quantiles[key] = col
		}
	}
	return nil
}

// MarshalJSON re-emits the wire shape.
func (m ModelForecast) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Quantiles)+1)
	out["target_end_date"] = m.TargetEndDate
	for key, col := range m.Quantiles {
		out[key] = col
	}
	return json.Marshal(out)
}

func isWantedQuantile(key string) bool {
	for _, k := range QuantileKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Validate checks the parallel-array invariant: every quantile column
// must be the same length as the date column.
func (m *ModelForecast) Validate() error {
	n := len(m.TargetEndDate)
	for key, col := range m.Quantiles {
		if len(col) != n {
			return fmt.Errorf("column %s has %d values, want %d", key, len(col), n)
		}
	}
	return nil
}

// ForecastSet maps model abbreviation to that model's forecast for one
// (target variable, unit, reference date). An empty set means no model
// had forecast data.
type ForecastSet map[string]*ModelForecast

// Validate applies ModelForecast.Validate to every member.
func (fs ForecastSet) Validate() error {
	for model, f := range fs {
		if f == nil {
			return fmt.Errorf("model %s: nil forecast", model)
		}
		if err := f.Validate(); err != nil {
			return fmt.Errorf("model %s: %w", model, err)
		}
	}
	return nil
}

// internal/app/system/viz/transform.go
package viz

import (
	"fmt"
	"sort"

	"github.com/dalemusser/forecastviz/internal/domain/models"
)

// SortForecast returns a copy of f with every parallel column
// reordered so target_end_date ascends by calendar date. The input is
// left untouched.
func SortForecast(f *models.ModelForecast) *models.ModelForecast {
	n := len(f.TargetEndDate)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return DateLess(f.TargetEndDate[idx[a]], f.TargetEndDate[idx[b]])
	})

	out := &models.ModelForecast{
		TargetEndDate: make([]string, n),
		Quantiles:     make(map[string][]float64, len(f.Quantiles)),
	}
	for i, j := range idx {
		out.TargetEndDate[i] = f.TargetEndDate[j]
	}
	for key, col := range f.Quantiles {
		sortedCol := make([]float64, n)
		for i, j := range idx {
			sortedCol[i] = col[j]
		}
		out.Quantiles[key] = sortedCol
	}
	return out
}

// ModelDrawables are the plot pieces one model contributes: the
// lead-in connector joining truth to forecast, the median line, and
// the interval polygon (nil for the 0% interval).
type ModelDrawables struct {
	LeadIn  *Drawable
	Median  Drawable
	Polygon *Drawable
}

// buildModelDrawables turns one sorted forecast into its drawables.
// asOfTruth supplies the lead-in anchor and the polygon's truth
// prefix; withMarkers selects whether the median line carries point
// markers. A forecast missing a quantile column required by the
// interval is an error; a zero-length forecast yields nothing.
func buildModelDrawables(model, color string, f *models.ModelForecast,
	asOfTruth *models.TruthSeries, interval string, withMarkers bool) (*ModelDrawables, error) {

	if len(f.TargetEndDate) == 0 {
		return nil, nil
	}
	median, ok := f.Quantiles[models.MedianKey]
	if !ok {
		return nil, fmt.Errorf("model %s: missing quantile column %s", model, models.MedianKey)
	}

	mode := "lines"
	if withMarkers {
		mode = "lines+markers"
	}
	out := &ModelDrawables{
		Median: Drawable{
			Type: "scatter",
			Mode: mode,
			Name: model,
			X:    f.TargetEndDate,
			Y:    median,
			Line: &LineStyle{Color: color},
		},
	}

	if truthDate, truthY, ok := asOfTruth.Last(); ok {
		hide := false
		out.LeadIn = &Drawable{
			Type:       "scatter",
			Mode:       "lines",
			X:          []string{truthDate, f.TargetEndDate[0]},
			Y:          []float64{truthY, median[0]},
			Line:       &LineStyle{Color: color},
			ShowLegend: &hide,
			HoverInfo:  "skip",
		}
	}

	lowerKey, upperKey, err := QuantileKeysForInterval(interval)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", model, err)
	}
	if lowerKey == "" {
		return out, nil
	}
	lower, ok := f.Quantiles[lowerKey]
	if !ok {
		return nil, fmt.Errorf("model %s: missing quantile column %s", model, lowerKey)
	}
	upper, ok := f.Quantiles[upperKey]
	if !ok {
		return nil, fmt.Errorf("model %s: missing quantile column %s", model, upperKey)
	}

	// Closed path: lower boundary forward, prefixed by the last truth
	// point when present, then the upper boundary reversed.
	n := len(f.TargetEndDate)
	x := make([]string, 0, 2*n+1)
	y := make([]float64, 0, 2*n+1)
	if truthDate, truthY, ok := asOfTruth.Last(); ok {
		x = append(x, truthDate)
		y = append(y, truthY)
	}
	x = append(x, f.TargetEndDate...)
	y = append(y, lower...)
	for i := n - 1; i >= 0; i-- {
		x = append(x, f.TargetEndDate[i])
		y = append(y, upper[i])
	}

	hide := false
	out.Polygon = &Drawable{
		Type:       "scatter",
		Mode:       "lines",
		X:          x,
		Y:          y,
		Fill:       "toself",
		FillColor:  fillColor(color, 0.3),
		Line:       &LineStyle{Color: "transparent"},
		ShowLegend: &hide,
		HoverInfo:  "skip",
	}
	return out, nil
}

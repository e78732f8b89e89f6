// internal/app/system/viz/plot.go
package viz

import (
	"fmt"

	"go.uber.org/zap"
)

// Drawable is one plot trace in the renderer's wire shape. The page
// client passes these to the plotting library unmodified.
type Drawable struct {
	Type       string     `json:"type"`
	Mode       string     `json:"mode,omitempty"`
	Name       string     `json:"name,omitempty"`
	X          []string   `json:"x"`
	Y          []float64  `json:"y"`
	Line       *LineStyle `json:"line,omitempty"`
	Fill       string     `json:"fill,omitempty"`
	FillColor  string     `json:"fillcolor,omitempty"`
	ShowLegend *bool      `json:"showlegend,omitempty"`
	HoverInfo  string     `json:"hoverinfo,omitempty"`
}

// LineStyle styles a trace's line.
type LineStyle struct {
	Color string  `json:"color"`
	Width float64 `json:"width,omitempty"`
}

// Axis describes one plot axis.
type Axis struct {
	Title string   `json:"title,omitempty"`
	Range []string `json:"range,omitempty"`
}

// Layout is the plot-level descriptor accompanying the drawables.
type Layout struct {
	Title string `json:"title"`
	XAxis *Axis  `json:"xaxis,omitempty"`
	YAxis *Axis  `json:"yaxis,omitempty"`
}

// NoDataTitle is the layout title when nothing is drawable.
const NoDataTitle = "No Visualization Data Found"

// Snapshot is the full render state returned by every command: the
// selection echo for the controls, the roster for the model list, and
// the drawables plus layout for the plot.
type Snapshot struct {
	TargetVariable      string        `json:"target_variable"`
	Unit                string        `json:"unit"`
	Interval            string        `json:"interval"`
	AsOf                string        `json:"as_of"`
	CurrentDate         string        `json:"current_date"`
	CurrentTruthChecked bool          `json:"current_truth_checked"`
	AsOfTruthChecked    bool          `json:"as_of_truth_checked"`
	SelectAll           bool          `json:"select_all"`
	Roster              []RosterEntry `json:"roster"`
	Drawables           []Drawable    `json:"drawables"`
	Layout              Layout        `json:"layout"`
}

func (c *Controller) snapshotLocked() *Snapshot {
	drawables, layout := c.assemblePlotLocked()
	return &Snapshot{
		TargetVariable:      c.targetVar,
		Unit:                c.unit,
		Interval:            c.interval,
		AsOf:                c.asOf,
		CurrentDate:         c.opts.CurrentDate,
		CurrentTruthChecked: c.currentTruthChecked,
		AsOfTruthChecked:    c.asOfTruthChecked,
		SelectAll:           c.selectAll,
		Roster:              c.rosterLocked(),
		Drawables:           drawables,
		Layout:              layout,
	}
}

// assemblePlotLocked builds the drawable list in fixed z-order:
// current truth, as-of truth, every model's lead-in, then every
// model's median and polygon. Only checked models with forecast data
// draw. An empty result falls back to the no-data layout.
func (c *Controller) assemblePlotLocked() ([]Drawable, Layout) {
	var drawables []Drawable

	if c.currentTruthChecked && !c.currentTruth.IsEmpty() {
		drawables = append(drawables, Drawable{
			Type: "scatter",
			Mode: "lines",
			Name: "Current Truth",
			X:    c.currentTruth.Date,
			Y:    c.currentTruth.Y,
			Line: &LineStyle{Color: "black"},
		})
	}
	if c.asOfTruthChecked && !c.asOfTruth.IsEmpty() {
		drawables = append(drawables, Drawable{
			Type: "scatter",
			Mode: "lines",
			Name: "Truth as of " + c.asOf,
			X:    c.asOfTruth.Date,
			Y:    c.asOfTruth.Y,
			Line: &LineStyle{Color: DisabledColor},
		})
	}

	withMarkers := true
	for _, tv := range c.opts.NoMarkerTargetVars {
		if tv == c.targetVar {
			withMarkers = false
			break
		}
	}

	checked := make(map[string]bool, len(c.checkedModels))
	for _, m := range c.checkedModels {
		checked[m] = true
	}

	var leadIns, bodies []Drawable
	for i, model := range c.opts.Models {
		if i >= c.cfg.MaxSelectableModels || !checked[model] {
			continue
		}
		f := c.forecasts[model]
		if f == nil {
			continue
		}
		md, err := buildModelDrawables(model, c.colors[i], f, c.asOfTruth, c.interval, withMarkers)
		if err != nil {
			// Payloads are validated at ingest; a miss here means the
			// interval asks for a column this model never had.
			c.logger.Warn("skipping model drawables",
				zap.String("model", model), zap.Error(err))
			continue
		}
		if md == nil {
			continue
		}
		if md.LeadIn != nil {
			leadIns = append(leadIns, *md.LeadIn)
		}
		bodies = append(bodies, md.Median)
		if md.Polygon != nil {
			bodies = append(bodies, *md.Polygon)
		}
	}
	drawables = append(drawables, leadIns...)
	drawables = append(drawables, bodies...)

	if len(drawables) == 0 {
		return nil, Layout{Title: NoDataTitle}
	}

	plotText := c.targetVar
	for _, tv := range c.opts.TargetVariables {
		if tv.Value == c.targetVar {
			plotText = tv.PlotText
			break
		}
	}
	unitText := c.unit
	for _, u := range c.opts.Units {
		if u.Value == c.unit {
			unitText = u.Text
			break
		}
	}
	return drawables, Layout{
		Title: fmt.Sprintf("Forecasts of %s in %s as of %s", plotText, unitText, c.asOf),
		XAxis: &Axis{Title: "Date", Range: c.opts.InitialXAxisRange},
		YAxis: &Axis{Title: plotText},
	}
}

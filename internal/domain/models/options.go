// internal/domain/models/options.go
package models

import (
	"fmt"
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// VizOptions is the project-level visualization configuration, stored
// as a JSON document alongside the archive. It mirrors the options a
// project owner edits: which target variables to include, the initial
// unit, the interval percentages, the initially checked models, models
// pinned to the top of the roster, a disclaimer shown above the plot,
// and an optional initial x-axis range offset.
type VizOptions struct {
	IncludedTargetVars   []string `json:"included_target_vars"`
	InitialUnit          string   `json:"initial_unit"`
	Intervals            []int    `json:"intervals"`
	InitialCheckedModels []string `json:"initial_checked_models"`
	ModelsAtTop          []string `json:"models_at_top"`
	Disclaimer           string   `json:"disclaimer"`
	XAxisRangeOffset     []int    `json:"x_axis_range_offset"`

	// Target variables drawn without point markers (daily-granularity
	// series whose marker density would obscure the line).
	NoMarkerTargetVars []string `json:"no_marker_target_vars,omitempty"`
}

// Validate checks VizOptions against the archive's target variables,
// units, and model roster. It returns every problem found rather than
// stopping at the first, so a broken options file is fixable in one
// pass. An empty result means the options are usable.
func (o *VizOptions) Validate(targetVars []TargetVariable, units []Unit, modelNames []string) []error {
	var errs []error

	targetVarVals := make(map[string]bool, len(targetVars))
	for _, tv := range targetVars {
		targetVarVals[tv.Value] = true
	}
	if len(o.IncludedTargetVars) == 0 {
		errs = append(errs, fmt.Errorf("included_target_vars is empty"))
	}
	for _, v := range o.IncludedTargetVars {
		if !targetVarVals[v] {
			errs = append(errs, fmt.Errorf("included_target_vars entry %q is not a known target variable", v))
		}
	}

	unitVals := make(map[string]bool, len(units))
	for _, u := range units {
		unitVals[u.Value] = true
	}
	if !unitVals[o.InitialUnit] {
		errs = append(errs, fmt.Errorf("initial_unit %q is not a known unit", o.InitialUnit))
	}

	if len(o.Intervals) == 0 {
		errs = append(errs, fmt.Errorf("intervals is empty"))
	}
	for _, pct := range o.Intervals {
		if pct < 0 || pct > 100 {
			errs = append(errs, fmt.Errorf("interval %d is not between 0 and 100", pct))
		}
	}

	known := make(map[string]bool, len(modelNames))
	for _, m := range modelNames {
		known[m] = true
	}
	if len(o.InitialCheckedModels) == 0 {
		errs = append(errs, fmt.Errorf("initial_checked_models is empty"))
	}
	for _, m := range o.InitialCheckedModels {
		if !known[m] {
			errs = append(errs, fmt.Errorf("initial_checked_models entry %q is not a known model", m))
		}
	}
	for _, m := range o.ModelsAtTop {
		if !known[m] {
			errs = append(errs, fmt.Errorf("models_at_top entry %q is not a known model", m))
		}
	}

	if n := len(o.XAxisRangeOffset); n != 0 && n != 2 {
		errs = append(errs, fmt.Errorf("x_axis_range_offset must be empty or [weeks_before, weeks_after]"))
	} else if n == 2 && (o.XAxisRangeOffset[0] < 1 || o.XAxisRangeOffset[1] < 1) {
		errs = append(errs, fmt.Errorf("x_axis_range_offset entries must be positive"))
	}

	return errs
}

// WidgetOptions is the complete initialization bundle handed to the
// widget engine: the static data model (spec'd at project setup) plus
// the initial selection. It is derived from VizOptions and the
// archive's metadata files, and is also what GET /api/viz/options
// serves to the page.
type WidgetOptions struct {
	TargetVariables      []TargetVariable    `json:"target_variables"`
	InitialTargetVar     string              `json:"initial_target_var"`
	Units                []Unit              `json:"units"`
	InitialUnit          string              `json:"initial_unit"`
	Intervals            []string            `json:"intervals"`
	InitialInterval      string              `json:"initial_interval"`
	AvailableAsOfs       map[string][]string `json:"available_as_ofs"`
	InitialAsOf          string              `json:"initial_as_of"`
	CurrentDate          string              `json:"current_date"`
	Models               []string            `json:"models"`
	InitialCheckedModels []string            `json:"initial_checked_models"`
	Disclaimer           string              `json:"disclaimer"`
	InitialXAxisRange    []string            `json:"initial_xaxis_range,omitempty"`
	NoMarkerTargetVars   []string            `json:"no_marker_target_vars,omitempty"`
}

// BuildWidgetOptions combines validated project options with the
// archive metadata into the widget's initialization bundle.
//
// Following the archive's conventions: the roster lists models_at_top
// first and the remainder sorted; the initial interval is the widest
// configured one; the current date and initial as-of are the latest
// available reference date for the initial target variable.
func BuildWidgetOptions(viz VizOptions, targetVars []TargetVariable, units []Unit,
	modelNames []string, availableAsOfs map[string][]string) (WidgetOptions, error) {

	included := make([]TargetVariable, 0, len(viz.IncludedTargetVars))
	for _, tv := range targetVars {
		for _, want := range viz.IncludedTargetVars {
			if tv.Value == want {
				included = append(included, tv)
				break
			}
		}
	}
	if len(included) == 0 {
		return WidgetOptions{}, fmt.Errorf("no included target variables present in archive")
	}
	initialTargetVar := viz.IncludedTargetVars[0]

	atTop := make(map[string]bool, len(viz.ModelsAtTop))
	for _, m := range viz.ModelsAtTop {
		atTop[m] = true
	}
	rest := make([]string, 0, len(modelNames))
	for _, m := range modelNames {
		if !atTop[m] {
			rest = append(rest, m)
		}
	}
	sort.Strings(rest)
	roster := append(append([]string{}, viz.ModelsAtTop...), rest...)

	intervals := make([]string, len(viz.Intervals))
	for i, pct := range viz.Intervals {
		intervals[i] = fmt.Sprintf("%d%%", pct)
	}

	asOfs := availableAsOfs[initialTargetVar]
	if len(asOfs) == 0 {
		return WidgetOptions{}, fmt.Errorf("no available as-of dates for target variable %q", initialTargetVar)
	}
	currentDate := asOfs[len(asOfs)-1]

	opts := WidgetOptions{
		TargetVariables:      included,
		InitialTargetVar:     initialTargetVar,
		Units:                units,
		InitialUnit:          viz.InitialUnit,
		Intervals:            intervals,
		InitialInterval:      intervals[len(intervals)-1],
		AvailableAsOfs:       availableAsOfs,
		InitialAsOf:          currentDate,
		CurrentDate:          currentDate,
		Models:               roster,
		InitialCheckedModels: append([]string{}, viz.InitialCheckedModels...),
		Disclaimer:           viz.Disclaimer,
		NoMarkerTargetVars:   append([]string{}, viz.NoMarkerTargetVars...),
	}
	if len(viz.XAxisRangeOffset) == 2 {
		rng, err := XAxisRangeFromOffset(viz.XAxisRangeOffset, currentDate)
		if err != nil {
			return WidgetOptions{}, err
		}
		opts.InitialXAxisRange = rng
	}
	return opts, nil
}

// XAxisRangeFromOffset turns [weeks_before, weeks_after] relative to a
// reference date into a two-date initial x-axis range.
func XAxisRangeFromOffset(offset []int, referenceDate string) ([]string, error) {
	if len(offset) != 2 || referenceDate == "" {
		return nil, nil
	}
	ref, err := time.Parse(dateLayout, referenceDate)
	if err != nil {
		return nil, fmt.Errorf("could not parse reference date %q: %w", referenceDate, err)
	}
	lo := ref.AddDate(0, 0, -7*offset[0])
	hi := ref.AddDate(0, 0, 7*offset[1])
	return []string{lo.Format(dateLayout), hi.Format(dateLayout)}, nil
}

// Validate checks the fields the engine cannot start without.
func (o *WidgetOptions) Validate() error {
	if len(o.TargetVariables) == 0 {
		return fmt.Errorf("no target variables")
	}
	if len(o.Units) == 0 {
		return fmt.Errorf("no units")
	}
	if len(o.Intervals) == 0 {
		return fmt.Errorf("no intervals")
	}
	if len(o.Models) == 0 {
		return fmt.Errorf("no models")
	}
	if o.InitialTargetVar == "" || o.InitialUnit == "" {
		return fmt.Errorf("initial target variable and unit are required")
	}
	for _, tv := range o.TargetVariables {
		if len(o.AvailableAsOfs[tv.Value]) == 0 {
			return fmt.Errorf("no available as-of dates for target variable %q", tv.Value)
		}
	}
	return nil
}

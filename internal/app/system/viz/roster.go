// internal/app/system/viz/roster.go
package viz

import (
	"context"
	"fmt"
)

// RosterEntry is one row of the model list as the page renders it.
type RosterEntry struct {
	Model   string `json:"model"`
	Color   string `json:"color"`
	Enabled bool   `json:"enabled"`
	Checked bool   `json:"checked"`
}

// rosterLocked partitions the static roster into enabled entries
// (forecast data present and within the selectable cap) followed by
// disabled ones, both in original roster order. Disabled entries take
// the neutral color and always render unchecked; the underlying
// checked set keeps the name so the check returns when the model's
// data comes back.
func (c *Controller) rosterLocked() []RosterEntry {
	checked := make(map[string]bool, len(c.checkedModels))
	for _, m := range c.checkedModels {
		checked[m] = true
	}

	var enabled, disabled []RosterEntry
	for i, model := range c.opts.Models {
		if i < c.cfg.MaxSelectableModels && c.forecasts[model] != nil {
			enabled = append(enabled, RosterEntry{
				Model:   model,
				Color:   c.colors[i],
				Enabled: true,
				Checked: checked[model],
			})
			continue
		}
		disabled = append(disabled, RosterEntry{
			Model: model,
			Color: DisabledColor,
		})
	}
	return append(enabled, disabled...)
}

func (c *Controller) toggleModel(ctx context.Context, model string, checked bool) (*Snapshot, error) {
	c.mu.Lock()
	known := false
	for _, m := range c.opts.Models {
		if m == model {
			known = true
			break
		}
	}
	if !known {
		c.mu.Unlock()
		return nil, fmt.Errorf("viz: unknown model %q", model)
	}
	if checked {
		present := false
		for _, m := range c.checkedModels {
			if m == model {
				present = true
				break
			}
		}
		if !present {
			c.checkedModels = append(c.checkedModels, model)
		}
	} else {
		kept := c.checkedModels[:0]
		for _, m := range c.checkedModels {
			if m != model {
				kept = append(kept, m)
			}
		}
		c.checkedModels = kept
	}
	c.selectAll = false
	c.mu.Unlock()

	return c.fetchAndUpdate(ctx, false, false)
}

// toggleAllModels selects every selectable model after snapshotting
// the manual selection, or restores that snapshot. Repeating the same
// toggle is a no-op so the snapshot is never overwritten by itself.
func (c *Controller) toggleAllModels(ctx context.Context, checked bool) (*Snapshot, error) {
	c.mu.Lock()
	switch {
	case checked && !c.selectAll:
		c.lastSelectedModels = append([]string{}, c.checkedModels...)
		var all []string
		for i, model := range c.opts.Models {
			if i < c.cfg.MaxSelectableModels && c.forecasts[model] != nil {
				all = append(all, model)
			}
		}
		c.checkedModels = all
		c.selectAll = true
	case !checked && c.selectAll:
		c.checkedModels = append([]string{}, c.lastSelectedModels...)
		c.selectAll = false
	}
	c.mu.Unlock()

	return c.fetchAndUpdate(ctx, false, false)
}

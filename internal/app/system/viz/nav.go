// internal/app/system/viz/nav.go
package viz

import (
	"context"
	"fmt"
)

// stepAsOf moves the as-of date one entry through the current target
// variable's available list. Stepping past either end changes nothing
// and fetches nothing. A successful step fetches as-of truth and
// forecasts only; current truth does not depend on the as-of date.
func (c *Controller) stepAsOf(ctx context.Context, direction int) (*Snapshot, error) {
	if direction != 1 && direction != -1 {
		return nil, fmt.Errorf("viz: step direction must be +1 or -1, got %d", direction)
	}

	c.mu.Lock()
	avail := c.opts.AvailableAsOfs[c.targetVar]
	idx := -1
	for i, d := range avail {
		if d == c.asOf {
			idx = i
			break
		}
	}
	next := idx + direction
	if idx < 0 || next < 0 || next >= len(avail) {
		defer c.mu.Unlock()
		return c.snapshotLocked(), nil
	}
	c.asOf = avail[next]
	c.mu.Unlock()

	return c.fetchAndUpdate(ctx, true, false)
}

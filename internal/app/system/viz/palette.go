// internal/app/system/viz/palette.go
package viz

import (
	"fmt"
	"math/rand"
	"strconv"
)

// paletteColors is the fixed 10-color cycle assigned to models by
// roster index.
var paletteColors = []string{
	"#1f77b4",
	"#ff7f0e",
	"#2ca02c",
	"#d62728",
	"#9467bd",
	"#8c564b",
	"#e377c2",
	"#7f7f7f",
	"#bcbd22",
	"#17becf",
}

// DisabledColor is the neutral color for roster entries without
// forecast data and for the as-of truth line.
const DisabledColor = "lightgrey"

// TilePalette repeats the base color cycle until it covers n models.
func TilePalette(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = paletteColors[i%len(paletteColors)]
	}
	return out
}

// Shuffled returns a random permutation of colors. The input is not
// modified.
func Shuffled(colors []string) []string {
	out := make([]string, len(colors))
	for i, j := range rand.Perm(len(colors)) {
		out[i] = colors[j]
	}
	return out
}

// fillColor converts a #rrggbb color to an rgba() string at the
// opacity used for interval polygons. Non-hex colors pass through
// unchanged.
func fillColor(hex string, alpha float64) string {
	if len(hex) != 7 || hex[0] != '#' {
		return hex
	}
	r, err1 := strconv.ParseUint(hex[1:3], 16, 8)
	g, err2 := strconv.ParseUint(hex[3:5], 16, 8)
	b, err3 := strconv.ParseUint(hex[5:7], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return hex
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.2f)", r, g, b, alpha)
}

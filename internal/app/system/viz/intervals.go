// internal/app/system/viz/intervals.go
package viz

import (
	"fmt"
	"strconv"
	"strings"
)

// QuantileKeysForInterval resolves an interval label like "95%" to its
// (lower, upper) quantile keys: the central interval of width w spans
// the (100-w)/200 and 1-(100-w)/200 quantiles, so "50%" maps to
// (q0.25, q0.75) and "95%" to (q0.025, q0.975). The degenerate "0%"
// returns empty keys, meaning median-only with no polygon.
func QuantileKeysForInterval(label string) (lower, upper string, err error) {
	s := strings.TrimSuffix(label, "%")
	if s == label {
		return "", "", fmt.Errorf("interval %q: missing %% suffix", label)
	}
	width, err := strconv.Atoi(s)
	if err != nil {
		return "", "", fmt.Errorf("interval %q: %w", label, err)
	}
	if width < 0 || width > 100 {
		return "", "", fmt.Errorf("interval %q: width out of range", label)
	}
	if width == 0 {
		return "", "", nil
	}
	lo := float64(100-width) / 200
	return "q" + trimQuantile(lo), "q" + trimQuantile(1 - lo), nil
}

// trimQuantile formats a quantile value without trailing zeros, so
// 0.250 renders as "0.25" and 0.025 stays "0.025".
func trimQuantile(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

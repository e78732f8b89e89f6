// Package testutil provides utilities for testing, including archive fixtures.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// ArchiveFixture describes the files SetupTestArchive writes. Truth
// and Forecasts map "<target>_<unit>_<refdate>" to the raw JSON body
// for that selection.
type ArchiveFixture struct {
	TargetVariables any
	Units           any
	Models          any
	AvailableAsOfs  any
	Truth           map[string]string
	Forecasts       map[string]string
}

// DefaultArchiveFixture returns a small two-variable archive that the
// feature tests share.
func DefaultArchiveFixture() ArchiveFixture {
	return ArchiveFixture{
		TargetVariables: []map[string]string{
			{"value": "cases", "text": "Weekly Cases", "plot_text": "weekly incident cases"},
			{"value": "deaths", "text": "Weekly Deaths", "plot_text": "weekly incident deaths"},
		},
		Units: []map[string]string{
			{"value": "US", "text": "United States"},
			{"value": "CA", "text": "California"},
		},
		Models: []string{"ModelA", "ModelB", "Baseline"},
		AvailableAsOfs: map[string][]string{
			"cases":  {"2022-01-03", "2022-01-10", "2022-01-17"},
			"deaths": {"2022-01-03", "2022-01-10"},
		},
		Truth: map[string]string{
			"cases_US_2022-01-10": `{"date":["2022-01-01","2022-01-08"],"y":[100,120]}`,
			"cases_US_2022-01-17": `{"date":["2022-01-01","2022-01-08","2022-01-15"],"y":[100,120,140]}`,
		},
		Forecasts: map[string]string{
			"cases_US_2022-01-10": `{"ModelA":{"target_end_date":["2022-01-17","2022-01-24"],` +
				`"q0.025":[90,95],"q0.25":[110,115],"q0.5":[130,135],"q0.75":[150,155],"q0.975":[170,175]}}`,
		},
	}
}

// SetupTestArchive writes the fixture into a temp directory laid out
// like a real archive and returns its path. The directory is removed
// when the test completes.
func SetupTestArchive(t *testing.T, fix ArchiveFixture) string {
	t.Helper()

	dir := t.TempDir()
	for _, sub := range []string{"truth", "forecasts"} {
		if err := os.Mkdir(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatalf("failed to create archive dir %s: %v", sub, err)
		}
	}

	writeJSON := func(name string, v any) {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	writeJSON("target_variables.json", fix.TargetVariables)
	writeJSON("locations.json", fix.Units)
	writeJSON("models.json", fix.Models)
	writeJSON("available_as_ofs.json", fix.AvailableAsOfs)

	for key, body := range fix.Truth {
		path := filepath.Join(dir, "truth", key+".json")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("failed to write truth fixture %s: %v", key, err)
		}
	}
	for key, body := range fix.Forecasts {
		path := filepath.Join(dir, "forecasts", key+".json")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("failed to write forecast fixture %s: %v", key, err)
		}
	}
	return dir
}

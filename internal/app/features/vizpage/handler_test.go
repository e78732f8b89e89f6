package vizpage

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/forecastviz/internal/domain/models"
	"github.com/dalemusser/forecastviz/internal/testutil"
	"go.uber.org/zap"
)

func testWidgetOptions() models.WidgetOptions {
	return models.WidgetOptions{
		TargetVariables: []models.TargetVariable{
			{Value: "cases", Text: "Weekly Cases", PlotText: "weekly incident cases"},
		},
		InitialTargetVar: "cases",
		Units:            []models.Unit{{Value: "US", Text: "United States"}},
		InitialUnit:      "US",
		Intervals:        []string{"0%", "50%", "95%"},
		InitialInterval:  "95%",
		AvailableAsOfs:   map[string][]string{"cases": {"2022-01-10"}},
		InitialAsOf:      "2022-01-10",
		CurrentDate:      "2022-01-10",
		Models:           []string{"ModelA"},
		Disclaimer:       "Forecasts are <b>not</b> guarantees.<script>alert(1)</script>",
	}
}

func TestPage(t *testing.T) {
	testutil.MustBootTemplates(t)
	h := NewHandler(testWidgetOptions(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/viz", nil)
	req = testutil.WithCSRFToken(req)
	rec := httptest.NewRecorder()

	h.Page(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Page() status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	for _, want := range []string{"viz-plot", "viz-target-var", "viz-models", "forecastviz.js"} {
		if !contains(body, want) {
			t.Errorf("page body missing %q", want)
		}
	}
	if !contains(body, "<b>not</b>") {
		t.Error("disclaimer formatting stripped")
	}
	if contains(body, "<script>alert(1)</script>") {
		t.Error("disclaimer script not sanitized")
	}
}

func TestOptions(t *testing.T) {
	h := NewHandler(testWidgetOptions(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/viz/options", nil)
	rec := httptest.NewRecorder()

	h.Options(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Options() status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got models.WidgetOptions
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode options: %v", err)
	}
	if got.InitialTargetVar != "cases" || got.InitialInterval != "95%" {
		t.Errorf("options = %+v", got)
	}
	if len(got.AvailableAsOfs["cases"]) != 1 {
		t.Errorf("available_as_ofs = %v", got.AvailableAsOfs)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

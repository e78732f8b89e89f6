package vizsessions

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	archivestore "github.com/dalemusser/forecastviz/internal/app/store/archive"
	"github.com/dalemusser/forecastviz/internal/app/system/viz"
	"github.com/dalemusser/forecastviz/internal/domain/models"
	"github.com/dalemusser/forecastviz/internal/testutil"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

func testWidgetOptions() models.WidgetOptions {
	return models.WidgetOptions{
		TargetVariables: []models.TargetVariable{
			{Value: "cases", Text: "Weekly Cases", PlotText: "weekly incident cases"},
		},
		InitialTargetVar: "cases",
		Units: []models.Unit{
			{Value: "US", Text: "United States"},
		},
		InitialUnit:     "US",
		Intervals:       []string{"0%", "50%", "95%"},
		InitialInterval: "95%",
		AvailableAsOfs: map[string][]string{
			"cases": {"2022-01-03", "2022-01-10", "2022-01-17"},
		},
		InitialAsOf:          "2022-01-10",
		CurrentDate:          "2022-01-17",
		Models:               []string{"ModelA", "ModelB", "Baseline"},
		InitialCheckedModels: []string{"ModelA"},
	}
}

func newTestHandler(t *testing.T) (*Handler, *Manager) {
	t.Helper()
	dir := testutil.SetupTestArchive(t, testutil.DefaultArchiveFixture())
	store, err := archivestore.New(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("archivestore.New() error = %v", err)
	}
	manager := NewManager(time.Hour, zap.NewNop())
	t.Cleanup(manager.Stop)

	cookies := sessions.NewCookieStore([]byte("test-cookie-key-0123456789abcdef"))
	h := NewHandler(manager, testWidgetOptions(), store, viz.Config{},
		cookies, "forecastviz-test", zap.NewNop())
	return h, manager
}

func createSession(t *testing.T, srv *httptest.Server) (id string, cookies []*http.Cookie) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/", "application/json", nil)
	if err != nil {
		t.Fatalf("POST / error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var out createResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if out.SessionID == "" || out.Snapshot == nil {
		t.Fatalf("create response incomplete: %+v", out)
	}
	return out.SessionID, resp.Cookies()
}

func TestSessionLifecycle(t *testing.T) {
	h, manager := newTestHandler(t)
	srv := httptest.NewServer(Routes(h))
	defer srv.Close()

	id, _ := createSession(t, srv)
	if manager.Len() != 1 {
		t.Fatalf("manager.Len() = %d, want 1", manager.Len())
	}

	t.Run("command returns new snapshot", func(t *testing.T) {
		body := bytes.NewBufferString(`{"type":"step_as_of","direction":1}`)
		resp, err := http.Post(srv.URL+"/"+id+"/commands", "application/json", body)
		if err != nil {
			t.Fatalf("POST commands error = %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("command status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		var snap viz.Snapshot
		if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
			t.Fatalf("decode snapshot: %v", err)
		}
		if snap.AsOf != "2022-01-17" {
			t.Errorf("as_of = %q, want %q", snap.AsOf, "2022-01-17")
		}
	})

	t.Run("snapshot endpoint", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/" + id)
		if err != nil {
			t.Fatalf("GET session error = %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("snapshot status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("bad command rejected", func(t *testing.T) {
		body := bytes.NewBufferString(`{"type":"explode"}`)
		resp, err := http.Post(srv.URL+"/"+id+"/commands", "application/json", body)
		if err != nil {
			t.Fatalf("POST commands error = %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("bad command status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})

	t.Run("delete", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/"+id, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("DELETE error = %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("delete status = %d, want %d", resp.StatusCode, http.StatusNoContent)
		}
		if manager.Len() != 0 {
			t.Errorf("manager.Len() = %d after delete, want 0", manager.Len())
		}
	})
}

func TestUnknownSession(t *testing.T) {
	h, _ := newTestHandler(t)
	srv := httptest.NewServer(Routes(h))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/does-not-exist")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}

	body := bytes.NewBufferString(`{"type":"refresh"}`)
	resp2, err := http.Post(srv.URL+"/does-not-exist/commands", "application/json", body)
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("command status = %d, want %d", resp2.StatusCode, http.StatusNotFound)
	}
}

func TestCreateResumesCookieSession(t *testing.T) {
	h, manager := newTestHandler(t)
	srv := httptest.NewServer(Routes(h))
	defer srv.Close()

	id, cookies := createSession(t, srv)

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST / error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resume status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var out createResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode resume response: %v", err)
	}
	if !out.Resumed || out.SessionID != id {
		t.Errorf("resume = %+v, want resumed session %q", out, id)
	}
	if manager.Len() != 1 {
		t.Errorf("manager.Len() = %d, want 1 (no duplicate session)", manager.Len())
	}
}

func TestManagerSweep(t *testing.T) {
	manager := NewManager(time.Minute, zap.NewNop())
	defer manager.Stop()

	manager.Put("stale", nil)
	manager.Put("fresh", nil)
	manager.mu.Lock()
	manager.sessions["stale"].lastSeen = time.Now().Add(-2 * time.Minute)
	manager.mu.Unlock()

	manager.sweep(time.Now())

	if _, ok := manager.Get("stale"); ok {
		t.Error("stale session survived sweep")
	}
	if _, ok := manager.Get("fresh"); !ok {
		t.Error("fresh session swept")
	}
}

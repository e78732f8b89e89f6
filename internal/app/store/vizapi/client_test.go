// internal/app/store/vizapi/client_test.go
package vizapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestFetchData(t *testing.T) {
	ctx := context.Background()

	t.Run("passes parameters and returns body", func(t *testing.T) {
		var gotQuery map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/viz/data" {
				t.Errorf("path = %q, want /api/viz/data", r.URL.Path)
			}
			q := r.URL.Query()
			gotQuery = map[string]string{
				"is_forecast": q.Get("is_forecast"),
				"target_key":  q.Get("target_key"),
				"unit":        q.Get("unit"),
				"ref_date":    q.Get("ref_date"),
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"date":["2022-01-01"],"y":[5]}`))
		}))
		defer srv.Close()

		c := New(srv.URL, 5*time.Second, zap.NewNop())
		raw, err := c.FetchData(ctx, false, "cases", "US", "2022-01-10")
		if err != nil {
			t.Fatalf("FetchData() error = %v", err)
		}
		if string(raw) != `{"date":["2022-01-01"],"y":[5]}` {
			t.Errorf("FetchData() = %s", raw)
		}
		want := map[string]string{
			"is_forecast": "false",
			"target_key":  "cases",
			"unit":        "US",
			"ref_date":    "2022-01-10",
		}
		for k, v := range want {
			if gotQuery[k] != v {
				t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
			}
		}
	})

	t.Run("non-OK status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer srv.Close()

		c := New(srv.URL, 5*time.Second, zap.NewNop())
		if _, err := c.FetchData(ctx, true, "cases", "US", "2022-01-10"); err == nil {
			t.Error("FetchData() error = nil, want status error")
		}
	})

	t.Run("invalid JSON is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>oops</html>"))
		}))
		defer srv.Close()

		c := New(srv.URL, 5*time.Second, zap.NewNop())
		if _, err := c.FetchData(ctx, true, "cases", "US", "2022-01-10"); err == nil {
			t.Error("FetchData() error = nil, want decode error")
		}
	})

	t.Run("context cancellation propagates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		c := New(srv.URL, 5*time.Second, zap.NewNop())
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := c.FetchData(cctx, false, "cases", "US", "2022-01-10"); err == nil {
			t.Error("FetchData() error = nil, want context error")
		}
	})
}

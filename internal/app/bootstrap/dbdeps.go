// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	archivestore "github.com/dalemusser/forecastviz/internal/app/store/archive"
	"github.com/dalemusser/forecastviz/internal/app/system/viz"
	"github.com/dalemusser/forecastviz/internal/domain/models"
)

// DBDeps holds backend dependencies for this WAFFLE app.
//
// This struct is created in ConnectDB and passed to subsequent lifecycle
// hooks: EnsureSchema, Startup, BuildHandler, and Shutdown. It is the
// central place for everything the request handlers need that is built
// from the archive at startup.
//
// The local archive is always opened: it supplies the metadata files,
// the health probes, and the data endpoint. data_base_url only changes
// where Fetcher gets truth/forecast payloads from.
type DBDeps struct {
	// Archive is the local forecast archive.
	Archive *archivestore.Store

	// Fetcher serves truth and forecast payloads to the widget engine,
	// backed by either the local archive or a remote data API.
	Fetcher viz.DataFetcher

	// Options is the widget initialization bundle derived from the
	// visualization options file and the archive metadata.
	Options models.WidgetOptions
}

// internal/app/features/vizpage/templates.go
package vizpage

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "vizpage",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}

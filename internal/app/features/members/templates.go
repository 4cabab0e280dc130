// internal/app/features/members/templates.go
package members

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

// Roster pages: list, direct-add form, member view, member edit.
//
//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "members",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}

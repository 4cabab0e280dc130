// internal/app/features/home/handler.go
package home

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/zehsscwu/unionhub/internal/app/system/auth"
	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
)

// Handler serves the public landing page.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// ServeHome handles GET /. Signed-in users go straight to their dashboard;
// everyone else gets the landing page with a sign-in link.
func (h *Handler) ServeHome(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	var data struct {
		formutil.Base
	}
	formutil.SetBase(&data.Base, r, "Welcome", "/")
	templates.Render(w, r, "home", data)
}

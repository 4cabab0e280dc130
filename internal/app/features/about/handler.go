// internal/app/features/about/handler.go
package about

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
)

// Handler serves the public "about the union" page.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// ServeAbout handles GET /about.
func (h *Handler) ServeAbout(w http.ResponseWriter, r *http.Request) {
	var data struct {
		formutil.Base
	}
	formutil.SetBase(&data.Base, r, "About the union", "/")
	templates.Render(w, r, "about", data)
}

// internal/app/features/terms/handler.go
package terms

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
)

// Handler serves the public membership terms page.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// ServeTerms handles GET /terms.
func (h *Handler) ServeTerms(w http.ResponseWriter, r *http.Request) {
	var data struct {
		formutil.Base
	}
	formutil.SetBase(&data.Base, r, "Membership terms", "/")
	templates.Render(w, r, "terms", data)
}

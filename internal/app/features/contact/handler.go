// internal/app/features/contact/handler.go
package contact

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/whatsapp"
)

// Handler serves the public support/contact page.
type Handler struct {
	Log *zap.Logger

	// WhatsApp is the union office number that receives support chats.
	// Blank hides the chat button.
	WhatsApp string
}

func NewHandler(whatsAppNumber string, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, WhatsApp: whatsAppNumber}
}

// SupportLink returns the wa.me deep link for the support chat button,
// or "" when no support number is configured.
func (h *Handler) SupportLink() string {
	return whatsapp.Link(h.WhatsApp, "Hello, I need help with the UnionHub portal.")
}

type contactData struct {
	formutil.Base
	WhatsAppLink string
}

// ServeContact handles GET /contact.
func (h *Handler) ServeContact(w http.ResponseWriter, r *http.Request) {
	data := contactData{WhatsAppLink: h.SupportLink()}
	formutil.SetBase(&data.Base, r, "Contact support", "/")
	templates.Render(w, r, "contact", data)
}

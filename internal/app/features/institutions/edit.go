// internal/app/features/institutions/edit.go
package institutions

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"

	uierrors "github.com/zehsscwu/unionhub/internal/app/features/errors"
	institutionstore "github.com/zehsscwu/unionhub/internal/app/store/institutions"
	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/inputval"
	"github.com/zehsscwu/unionhub/internal/app/system/normalize"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
)

// editInstitutionInput defines validation rules for updating an institution.
// The code is fixed at registration because it doubles as the login ID.
type editInstitutionInput struct {
	Name          string `validate:"required,max=200" label:"Institution name"`
	Email         string `validate:"omitempty,max=200" label:"Email"`
	Landline      string `validate:"max=30" label:"Landline"`
	HeadContact   string `validate:"max=30" label:"Head contact"`
	BursarContact string `validate:"max=30" label:"Bursar contact"`
	Branch        string `validate:"max=100" label:"Branch"`
}

// ServeEdit renders the "Edit Institution" form.
// Authorization: RequireRole("admin") middleware in routes.go.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id := chi.URLParam(r, "id")
	inst, err := h.Institutions.GetByID(ctx, id)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Institution not found.", "/institutions")
		return
	}

	data := editData{
		ID:            inst.ID,
		Code:          inst.InstitutionID,
		Name:          inst.InstitutionName,
		Email:         inst.Email,
		Landline:      inst.Landline,
		HeadContact:   inst.HeadContact,
		BursarContact: inst.BursarContact,
		Branch:        inst.Branch,
	}
	formutil.SetBase(&data.Base, r, "Edit Institution", "/institutions")

	templates.Render(w, r, "institution_edit", data)
}

// HandleEdit processes the Edit Institution form submission.
// Authorization: RequireRole("admin") middleware in routes.go.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "institutions: parse edit form", err, "Invalid form submission.", "/institutions")
		return
	}

	id := chi.URLParam(r, "id")
	name := strings.TrimSpace(r.FormValue("name"))
	email := normalize.Email(r.FormValue("email"))
	landline := strings.TrimSpace(r.FormValue("landline"))
	headContact := strings.TrimSpace(r.FormValue("head_contact"))
	bursarContact := strings.TrimSpace(r.FormValue("bursar_contact"))
	branch := strings.TrimSpace(r.FormValue("branch"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	inst, err := h.Institutions.GetByID(ctx, id)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Institution not found.", "/institutions")
		return
	}

	renderWithError := func(msg string) {
		data := editData{
			ID:            inst.ID,
			Code:          inst.InstitutionID,
			Name:          name,
			Email:         email,
			Landline:      landline,
			HeadContact:   headContact,
			BursarContact: bursarContact,
			Branch:        branch,
		}
		formutil.SetBase(&data.Base, r, "Edit Institution", "/institutions")
		data.SetError(msg)
		templates.Render(w, r, "institution_edit", data)
	}

	input := editInstitutionInput{
		Name:          name,
		Email:         email,
		Landline:      landline,
		HeadContact:   headContact,
		BursarContact: bursarContact,
		Branch:        branch,
	}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}
	if email != "" && !inputval.IsValidEmail(email) {
		renderWithError("Email must be a valid email address.")
		return
	}

	update := institutionstore.Update{
		InstitutionName: name,
		Email:           email,
		Landline:        landline,
		HeadContact:     headContact,
		BursarContact:   bursarContact,
		Branch:          branch,
	}
	if err := h.Institutions.UpdateByID(ctx, id, update); err != nil {
		switch {
		case errors.Is(err, institutionstore.ErrDuplicateInstitution):
			renderWithError("An institution with that name already exists.")
		case errors.Is(err, mongo.ErrNoDocuments):
			uierrors.RenderNotFound(w, r, "Institution not found.", "/institutions")
		default:
			h.ErrLog.LogServerError(w, r, "institutions: update record", err, "Unable to save changes.", "/institutions")
		}
		return
	}

	if h.AuditLog != nil {
		h.AuditLog.InstitutionUpdated(ctx, r, actorID(r), id, "details")
	}

	http.Redirect(w, r, "/institutions/"+id+"/view", http.StatusSeeOther)
}

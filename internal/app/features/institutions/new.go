// internal/app/features/institutions/new.go
package institutions

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	institutionstore "github.com/zehsscwu/unionhub/internal/app/store/institutions"
	"github.com/zehsscwu/unionhub/internal/app/system/apperr"
	"github.com/zehsscwu/unionhub/internal/app/system/directory"
	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/inputval"
	"github.com/zehsscwu/unionhub/internal/app/system/normalize"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

// createInstitutionInput defines validation rules for registering an
// institution.
type createInstitutionInput struct {
	Code          string `validate:"required,max=30" label:"Institution code"`
	Name          string `validate:"required,max=200" label:"Institution name"`
	Email         string `validate:"omitempty,max=200" label:"Email"`
	Landline      string `validate:"max=30" label:"Landline"`
	HeadContact   string `validate:"max=30" label:"Head contact"`
	BursarContact string `validate:"max=30" label:"Bursar contact"`
	Branch        string `validate:"max=100" label:"Branch"`
}

// ServeNew renders the "New Institution" form.
// Authorization: RequireRole("admin") middleware in routes.go.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	data := newData{}
	formutil.SetBase(&data.Base, r, "New Institution", "/institutions")
	templates.Render(w, r, "institution_new", data)
}

// HandleCreate processes the New Institution form. Registration provisions
// the institution's portal login in the directory, then the role profile,
// then the institution record; earlier steps are compensated in reverse
// order when a later one fails.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "institutions: parse create form", err, "Invalid form submission.", "/institutions")
		return
	}

	code := normalize.MemberID(r.FormValue("code"))
	name := strings.TrimSpace(r.FormValue("name"))
	email := normalize.Email(r.FormValue("email"))
	landline := strings.TrimSpace(r.FormValue("landline"))
	headContact := strings.TrimSpace(r.FormValue("head_contact"))
	bursarContact := strings.TrimSpace(r.FormValue("bursar_contact"))
	branch := strings.TrimSpace(r.FormValue("branch"))

	renderWithError := func(msg string) {
		data := newData{
			Code:          code,
			Name:          name,
			Email:         email,
			Landline:      landline,
			HeadContact:   headContact,
			BursarContact: bursarContact,
			Branch:        branch,
		}
		formutil.SetBase(&data.Base, r, "New Institution", "/institutions")
		data.SetError(msg)
		templates.Render(w, r, "institution_new", data)
	}

	input := createInstitutionInput{
		Code:          code,
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if existing, err := h.Institutions.GetByCode(ctx, code); err == nil && existing != nil {
		renderWithError("An institution with that code is already registered.")
		return
	}

	// The institution signs in with its code; the directory address is
	// derived the same way member logins are.
	identity, err := h.Directory.CreateIdentity(ctx, directory.NewIdentity{
		Email:    strings.ToLower(code) + "@" + h.OrgDomain,
		Password: code,
		Username: code,
		Role:     models.RoleInstitution,
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.Conflict {
			renderWithError("A login already exists for that institution code.")
			return
		}
		h.ErrLog.LogServerError(w, r, "institutions: create identity", err, "Unable to register the institution right now.", "/institutions")
		return
	}

	undoIdentity := func() {
		if derr := h.Directory.DeleteIdentity(ctx, identity.ID); derr != nil {
			h.Log.Error("institutions: roll back identity", zap.String("identity_id", identity.ID), zap.Error(derr))
		}
	}

	if _, err := h.Profiles.Create(ctx, models.Profile{
		ID:       identity.ID,
		Role:     models.RoleInstitution,
		Username: code,
	}); err != nil {
		undoIdentity()
		h.ErrLog.LogServerError(w, r, "institutions: create profile", err, "Unable to register the institution right now.", "/institutions")
		return
	}

	undoProfile := func() {
		if derr := h.Profiles.Delete(ctx, identity.ID); derr != nil {
			h.Log.Error("institutions: roll back profile", zap.String("identity_id", identity.ID), zap.Error(derr))
		}
	}

	inst := models.Institution{
		ID:              identity.ID,
		InstitutionID:   code,
		InstitutionName: name,
		Email:           email,
		Landline:        landline,
		HeadContact:     headContact,
		BursarContact:   bursarContact,
		Branch:          branch,
	}
	if _, err := h.Institutions.Create(ctx, inst); err != nil {
		undoProfile()
		undoIdentity()
		if errors.Is(err, institutionstore.ErrDuplicateInstitution) {
			renderWithError("An institution with that code or name already exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "institutions: create record", err, "Unable to register the institution right now.", "/institutions")
		return
	}

	if h.AuditLog != nil {
		h.AuditLog.InstitutionCreated(ctx, r, actorID(r), identity.ID, name)
	}

	http.Redirect(w, r, "/institutions", http.StatusSeeOther)
}

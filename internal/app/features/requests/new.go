// internal/app/features/requests/new.go
package requests

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/zehsscwu/unionhub/internal/app/system/apperr"
	"github.com/zehsscwu/unionhub/internal/app/system/authz"
	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/inputval"
	"github.com/zehsscwu/unionhub/internal/app/system/normalize"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
	"github.com/zehsscwu/unionhub/internal/app/system/whatsapp"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

// submitRequestInput defines validation rules for a membership request.
type submitRequestInput struct {
	FullName      string `validate:"required,max=200" label:"Full name"`
	NationalID    string `validate:"max=30" label:"National ID"`
	Gender        string `validate:"omitempty,oneof=M F" label:"Gender"`
	JobTitle      string `validate:"max=100" label:"Job title"`
	Grade         string `validate:"max=50" label:"Grade"`
	ContactNumber string `validate:"max=30" label:"Contact number"`
	Branch        string `validate:"max=100" label:"Branch"`
	Notes         string `validate:"max=2000" label:"Notes"`
}

// ServeNew renders the membership request form.
// Authorization: RequireRole("institution") middleware in routes.go.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	data := newData{}
	formutil.SetBase(&data.Base, r, "New membership request", "/requests")
	templates.Render(w, r, "request_new", data)
}

// HandleSubmit processes a membership request from the signed-in
// institution. The request lands in the admin review queue; nothing is
// provisioned until approval.
// Authorization: RequireRole("institution") middleware in routes.go.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "requests: parse submit form", err, "Invalid form submission.", "/requests")
		return
	}

	_, institutionName, identityID, _ := authz.UserCtx(r)

	req := models.MemberRequest{
		InstitutionID:   identityID,
		FullName:        normalize.Name(r.FormValue("full_name")),
		NationalID:      strings.TrimSpace(r.FormValue("national_id")),
		DateOfBirth:     strings.TrimSpace(r.FormValue("date_of_birth")),
		Gender:          strings.ToUpper(strings.TrimSpace(r.FormValue("gender"))),
		JobTitle:        normalize.Name(r.FormValue("job_title")),
		DateJoined:      strings.TrimSpace(r.FormValue("date_joined")),
		Grade:           normalize.Name(r.FormValue("grade")),
		ContactNumber:   normalize.Phone(r.FormValue("contact_number")),
		PositionInUnion: normalize.Name(r.FormValue("position_in_union")),
		Branch:          normalize.Name(r.FormValue("branch")),
		Notes:           strings.TrimSpace(r.FormValue("notes")),
	}

	renderWithError := func(msg string) {
		data := newData{
			FullName:        req.FullName,
			NationalID:      req.NationalID,
			DateOfBirth:     req.DateOfBirth,
			Gender:          req.Gender,
			JobTitle:        req.JobTitle,
			DateJoined:      req.DateJoined,
			Grade:           req.Grade,
			ContactNumber:   req.ContactNumber,
			PositionInUnion: req.PositionInUnion,
			Branch:          req.Branch,
			Notes:           req.Notes,
		}
		formutil.SetBase(&data.Base, r, "New membership request", "/requests")
		data.SetError(msg)
		templates.Render(w, r, "request_new", data)
	}

	input := submitRequestInput{
		FullName:      req.FullName,
		NationalID:    req.NationalID,
		Gender:        req.Gender,
		JobTitle:      req.JobTitle,
		Grade:         req.Grade,
		ContactNumber: req.ContactNumber,
		Branch:        req.Branch,
		Notes:         req.Notes,
	}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Enroll.Submit(ctx, req)
	if err != nil {
		if apperr.KindOf(err) == apperr.Validation {
			renderWithError(apperr.Message(err))
			return
		}
		h.ErrLog.LogServerError(w, r, "requests: submit", err, "Unable to submit the request right now.", "/requests")
		return
	}

	data := submittedData{
		FullName: created.FullName,
	}
	if h.SupportWhatsApp != "" {
		text := fmt.Sprintf("New membership request: %s (%s). Please review it in UnionHub.", created.FullName, institutionName)
		data.WhatsAppLink = whatsapp.Link(h.SupportWhatsApp, text)
	}
	formutil.SetBase(&data.Base, r, "Request submitted", "/requests")
	templates.Render(w, r, "request_submitted", data)
}

// internal/app/features/members/edit.go
package members

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"

	uierrors "github.com/zehsscwu/unionhub/internal/app/features/errors"
	memberstore "github.com/zehsscwu/unionhub/internal/app/store/members"
	"github.com/zehsscwu/unionhub/internal/app/system/authz"
	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/inputval"
	"github.com/zehsscwu/unionhub/internal/app/system/normalize"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
)

// editMemberInput defines validation rules for updating a member. The
// member number and institution are fixed at enrollment.
type editMemberInput struct {
	FullName      string `validate:"required,max=200" label:"Full name"`
	JobTitle      string `validate:"max=100" label:"Job title"`
	Grade         string `validate:"max=50" label:"Grade"`
	ContactNumber string `validate:"max=30" label:"Contact number"`
	Branch        string `validate:"max=100" label:"Branch"`
	Status        string `validate:"omitempty,oneof=active retired unknown" label:"Status"`
}

// ServeEdit renders the "Edit Member" form.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id := chi.URLParam(r, "id")
	m, err := h.Members.GetByID(ctx, id)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Member not found.", "/members")
		return
	}
	if !canEdit(r, m) {
		http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
		return
	}

	data := editData{
		ID:              m.ID,
		MemberID:        m.MemberID,
		FullName:        m.FullName,
		JobTitle:        m.JobTitle,
		Grade:           m.Grade,
		ContactNumber:   m.ContactNumber,
		PositionInUnion: m.PositionInUnion,
		Branch:          m.Branch,
		Status:          m.Status,
		IsAdmin:         authz.IsAdmin(r),
	}
	if inst, err := h.Institutions.GetByID(ctx, m.InstitutionID); err == nil {
		data.InstitutionName = inst.InstitutionName
	}
	formutil.SetBase(&data.Base, r, "Edit "+m.MemberID, "/members/"+m.ID+"/view")

	templates.Render(w, r, "member_edit", data)
}

// HandleEdit processes the Edit Member form submission. Only admins may
// change the status; a member editing their own record keeps it as is.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "members: parse edit form", err, "Invalid form submission.", "/members")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	m, err := h.Members.GetByID(ctx, id)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Member not found.", "/members")
		return
	}
	if !canEdit(r, m) {
		http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
		return
	}

	fullName := normalize.Name(r.FormValue("full_name"))
	jobTitle := normalize.Name(r.FormValue("job_title"))
	grade := normalize.Name(r.FormValue("grade"))
	contactNumber := normalize.Phone(r.FormValue("contact_number"))
	positionInUnion := normalize.Name(r.FormValue("position_in_union"))
	branch := normalize.Name(r.FormValue("branch"))
	status := strings.ToLower(strings.TrimSpace(r.FormValue("status")))
	if !authz.IsAdmin(r) {
		status = m.Status
	}

	renderWithError := func(msg string) {
		data := editData{
			ID:              m.ID,
			MemberID:        m.MemberID,
			FullName:        fullName,
			JobTitle:        jobTitle,
			Grade:           grade,
			ContactNumber:   contactNumber,
			PositionInUnion: positionInUnion,
			Branch:          branch,
			Status:          status,
			IsAdmin:         authz.IsAdmin(r),
		}
		if inst, err := h.Institutions.GetByID(ctx, m.InstitutionID); err == nil {
			data.InstitutionName = inst.InstitutionName
		}
		formutil.SetBase(&data.Base, r, "Edit "+m.MemberID, "/members/"+m.ID+"/view")
		data.SetError(msg)
		templates.Render(w, r, "member_edit", data)
	}

	input := editMemberInput{
		FullName:      fullName,
		JobTitle:      jobTitle,
		Grade:         grade,
		ContactNumber: contactNumber,
		Branch:        branch,
		Status:        status,
	}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}

	update := memberstore.Update{
		FullName:        fullName,
		JobTitle:        jobTitle,
		Grade:           grade,
		ContactNumber:   contactNumber,
		PositionInUnion: positionInUnion,
		Branch:          branch,
		Status:          status,
	}
	if err := h.Members.UpdateByID(ctx, id, update); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "Member not found.", "/members")
			return
		}
		h.ErrLog.LogServerError(w, r, "members: update record", err, "Unable to save changes.", "/members")
		return
	}

	if h.AuditLog != nil {
		h.AuditLog.MemberUpdated(ctx, r, actorID(r), m.InstitutionID, m.MemberID)
	}

	http.Redirect(w, r, "/members/"+id+"/view", http.StatusSeeOther)
}

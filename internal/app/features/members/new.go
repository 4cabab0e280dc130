// internal/app/features/members/new.go
package members

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/zehsscwu/unionhub/internal/app/system/apperr"
	"github.com/zehsscwu/unionhub/internal/app/system/enroll"
	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/inputval"
	"github.com/zehsscwu/unionhub/internal/app/system/normalize"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

// createMemberInput defines validation rules for the direct-add form.
// The member number itself is validated by the enrollment service.
type createMemberInput struct {
	MemberID      string `validate:"required,max=30" label:"Member number"`
	InstitutionID string `validate:"required" label:"Institution"`
	FullName      string `validate:"required,max=200" label:"Full name"`
	NationalID    string `validate:"max=30" label:"National ID"`
	Gender        string `validate:"omitempty,oneof=M F" label:"Gender"`
	JobTitle      string `validate:"max=100" label:"Job title"`
	Grade         string `validate:"max=50" label:"Grade"`
	ContactNumber string `validate:"max=30" label:"Contact number"`
	Branch        string `validate:"max=100" label:"Branch"`
}

// ServeNew renders the "New Member" form with the next free member number
// suggested.
// Authorization: RequireRole("admin") middleware in routes.go.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data := newData{
		SuggestedID: h.Enroll.SuggestMemberID(ctx),
	}
	if insts, err := h.Institutions.List(ctx, ""); err == nil {
		data.Institutions = insts
	}
	formutil.SetBase(&data.Base, r, "New Member", "/members")
	templates.Render(w, r, "member_new", data)
}

// HandleCreate processes the direct-add form. The admin picks the member
// number; provisioning runs the same saga as a request approval.
// Authorization: RequireRole("admin") middleware in routes.go.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "members: parse create form", err, "Invalid form submission.", "/members")
		return
	}

	memberID := normalize.MemberID(r.FormValue("member_id"))
	institutionID := strings.TrimSpace(r.FormValue("institution_id"))
	m := models.Member{
		InstitutionID:   institutionID,
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
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	renderWithError := func(msg string) {
		data := newData{
			SuggestedID:     h.Enroll.SuggestMemberID(ctx),
			MemberID:        memberID,
			InstitutionID:   institutionID,
			FullName:        m.FullName,
			NationalID:      m.NationalID,
			DateOfBirth:     m.DateOfBirth,
			Gender:          m.Gender,
			JobTitle:        m.JobTitle,
			DateJoined:      m.DateJoined,
			Grade:           m.Grade,
			ContactNumber:   m.ContactNumber,
			PositionInUnion: m.PositionInUnion,
			Branch:          m.Branch,
		}
		if insts, err := h.Institutions.List(ctx, ""); err == nil {
			data.Institutions = insts
		}
		formutil.SetBase(&data.Base, r, "New Member", "/members")
		data.SetError(msg)
		templates.Render(w, r, "member_new", data)
	}

	input := createMemberInput{
		MemberID:      memberID,
		InstitutionID: institutionID,
		FullName:      m.FullName,
		NationalID:    m.NationalID,
		Gender:        m.Gender,
		JobTitle:      m.JobTitle,
		Grade:         m.Grade,
		ContactNumber: m.ContactNumber,
		Branch:        m.Branch,
	}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}

	if _, err := h.Institutions.GetByID(ctx, institutionID); err != nil {
		renderWithError("Select a registered institution.")
		return
	}

	member, err := h.Enroll.AddDirect(ctx, enroll.DirectEnrollment{
		MemberID: memberID,
		Member:   m,
		ActorID:  actorID(r),
	})
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.Validation, apperr.Conflict:
			renderWithError(apperr.Message(err))
		default:
			h.ErrLog.LogServerError(w, r, "members: direct add", err, "Unable to enroll the member right now.", "/members")
		}
		return
	}

	http.Redirect(w, r, "/members/"+member.ID+"/view", http.StatusSeeOther)
}

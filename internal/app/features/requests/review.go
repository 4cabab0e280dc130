// internal/app/features/requests/review.go
package requests

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	uierrors "github.com/zehsscwu/unionhub/internal/app/features/errors"
	"github.com/zehsscwu/unionhub/internal/app/store/audit"
	"github.com/zehsscwu/unionhub/internal/app/system/apperr"
	"github.com/zehsscwu/unionhub/internal/app/system/enroll"
	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/htmlsanitize"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

func requestID(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return id, err == nil
}

// ServeReview renders a single request for review, with the next free
// member number prefilled for approval.
// Authorization: RequireRole("admin") middleware in routes.go.
func (h *Handler) ServeReview(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(r)
	if !ok {
		uierrors.RenderNotFound(w, r, "Request not found.", "/requests")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	req, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Request not found.", "/requests")
		return
	}

	h.renderReview(w, r, ctx, req, "", "")
}

func (h *Handler) renderReview(w http.ResponseWriter, r *http.Request, ctx context.Context, req *models.MemberRequest, memberID, errMsg string) {
	data := reviewData{
		Request:     *req,
		NotesHTML:   htmlsanitize.PrepareForDisplay(req.Notes),
		SuggestedID: h.Enroll.SuggestMemberID(ctx),
		MemberID:    memberID,
	}
	if inst, err := h.Institutions.GetByID(ctx, req.InstitutionID); err == nil {
		data.InstitutionName = inst.InstitutionName
	}
	formutil.SetBase(&data.Base, r, "Review request", "/requests")
	if errMsg != "" {
		data.SetError(errMsg)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	templates.Render(w, r, "request_review", data)
}

// HandleApprove approves a request with the member number the admin chose.
// A number conflict or a request that is no longer pending re-renders the
// review page; the request stays untouched either way.
// Authorization: RequireRole("admin") middleware in routes.go.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(r)
	if !ok {
		uierrors.RenderNotFound(w, r, "Request not found.", "/requests")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "requests: parse approve form", err, "Invalid form submission.", "/requests")
		return
	}
	memberID := r.FormValue("member_id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	member, err := h.Enroll.Approve(ctx, enroll.Approval{
		RequestID: id,
		MemberID:  memberID,
		ActorID:   actorID(r),
	})
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.NotFound:
			uierrors.RenderNotFound(w, r, "Request not found.", "/requests")
		case apperr.Validation, apperr.Conflict, apperr.State:
			req, gerr := h.Requests.GetByID(ctx, id)
			if gerr != nil {
				uierrors.RenderNotFound(w, r, "Request not found.", "/requests")
				return
			}
			h.renderReview(w, r, ctx, req, memberID, apperr.Message(err))
		default:
			h.ErrLog.LogServerError(w, r, "requests: approve", err, "Unable to approve the request right now.", "/requests")
		}
		return
	}

	http.Redirect(w, r, "/members/"+member.ID+"/view", http.StatusSeeOther)
}

// HandleReject rejects a pending request. Rejecting twice is a no-op.
// Authorization: RequireRole("admin") middleware in routes.go.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(r)
	if !ok {
		uierrors.RenderNotFound(w, r, "Request not found.", "/requests")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Enroll.Reject(ctx, id, actorID(r)); err != nil {
		switch apperr.KindOf(err) {
		case apperr.NotFound:
			uierrors.RenderNotFound(w, r, "Request not found.", "/requests")
		case apperr.State:
			req, gerr := h.Requests.GetByID(ctx, id)
			if gerr != nil {
				uierrors.RenderNotFound(w, r, "Request not found.", "/requests")
				return
			}
			h.renderReview(w, r, ctx, req, "", apperr.Message(err))
		default:
			h.ErrLog.LogServerError(w, r, "requests: reject", err, "Unable to reject the request right now.", "/requests")
		}
		return
	}

	http.Redirect(w, r, "/requests", http.StatusSeeOther)
}

// HandleReopen moves a rejected request back to pending so it can be
// reviewed again. Approved requests cannot reopen; the member exists.
// Authorization: RequireRole("admin") middleware in routes.go.
func (h *Handler) HandleReopen(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(r)
	if !ok {
		uierrors.RenderNotFound(w, r, "Request not found.", "/requests")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	req, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Request not found.", "/requests")
		return
	}
	if req.Status == models.RequestApproved {
		h.renderReview(w, r, ctx, req, "", "An approved request cannot be reopened.")
		return
	}

	if err := h.Requests.MarkPending(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "Request not found.", "/requests")
			return
		}
		h.ErrLog.LogServerError(w, r, "requests: reopen", err, "Unable to reopen the request right now.", "/requests")
		return
	}

	if h.AuditLog != nil {
		h.AuditLog.Log(ctx, audit.Event{
			Category:      audit.CategoryEnrollment,
			EventType:     audit.EventRequestReopened,
			InstitutionID: req.InstitutionID,
			RequestID:     req.ID.Hex(),
			ActorID:       actorID(r),
			Success:       true,
		})
	}

	http.Redirect(w, r, "/requests/"+req.ID.Hex()+"/review", http.StatusSeeOther)
}

// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/zehsscwu/unionhub/internal/app/features/errors"
	institutionstore "github.com/zehsscwu/unionhub/internal/app/store/institutions"
	memberstore "github.com/zehsscwu/unionhub/internal/app/store/members"
	profilestore "github.com/zehsscwu/unionhub/internal/app/store/profiles"
	"github.com/zehsscwu/unionhub/internal/app/system/apperr"
	"github.com/zehsscwu/unionhub/internal/app/system/auditlog"
	"github.com/zehsscwu/unionhub/internal/app/system/auth"
	"github.com/zehsscwu/unionhub/internal/app/system/directory"
	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/normalize"
	"github.com/zehsscwu/unionhub/internal/app/system/ratelimit"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

type Handler struct {
	Log          *zap.Logger
	SessionMgr   *auth.SessionManager
	ErrLog       *uierrors.ErrorLogger
	AuditLog     *auditlog.Logger
	Directory    directory.Service
	Profiles     *profilestore.Store
	Members      *memberstore.Store
	Institutions *institutionstore.Store

	// OrgDomain derives the directory email for users who sign in with a
	// member or institution ID instead of a full address.
	OrgDomain string

	// Limiter throttles repeated sign-in attempts per IP and per account.
	// Nil disables throttling (tests).
	Limiter *ratelimit.LoginLimiter
}

type loginFormData struct {
	formutil.Base
	LoginID   string
	ReturnURL string
}

// ServeLogin handles GET /login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := loginFormData{ReturnURL: query.Get(r, "return")}
	formutil.SetBase(&data.Base, r, "Sign in", "/")
	templates.Render(w, r, "login", data)
}

// HandleLoginPost handles POST /login.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "login: parse form", err, "Invalid form data.", "/login")
		return
	}

	loginID := strings.TrimSpace(r.FormValue("login_id"))
	password := r.FormValue("password")
	returnURL := r.FormValue("return")

	if loginID == "" || password == "" {
		h.renderFormWithError(w, r, loginID, returnURL, "Login ID and password are required.")
		return
	}

	// Members and institutions type their assigned ID; admins type a full
	// email address.
	email := normalize.Email(loginID)
	if !strings.Contains(email, "@") {
		email = email + "@" + h.OrgDomain
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, email); !ok {
			h.AuditLog.LoginFailed(ctx, r, email, "rate limited")
			h.renderFormWithError(w, r, loginID, returnURL, reason)
			return
		}
	}

	identity, err := h.Directory.Authenticate(ctx, email, password)
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.Validation, apperr.NotFound:
			h.AuditLog.LoginFailed(ctx, r, email, "bad credentials")
			h.renderFormWithError(w, r, loginID, returnURL, "Invalid login ID or password.")
		default:
			h.ErrLog.LogServerError(w, r, "login: directory authenticate", err,
				"Sign-in is temporarily unavailable. Please try again.", "/login")
		}
		return
	}

	profile, err := h.Profiles.GetByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.Log.Warn("login: identity has no profile", zap.String("identity_id", identity.ID))
			h.AuditLog.LoginFailed(ctx, r, email, "no profile for identity")
			h.renderFormWithError(w, r, loginID, returnURL, "Invalid login ID or password.")
			return
		}
		h.ErrLog.LogServerError(w, r, "login: load profile", err,
			"Sign-in is temporarily unavailable. Please try again.", "/login")
		return
	}

	user := auth.SessionUser{
		ID:    identity.ID,
		Name:  h.displayName(ctx, identity, profile),
		Email: identity.Email,
		Role:  profile.Role,
	}
	if err := h.SessionMgr.SignIn(w, r, user); err != nil {
		h.ErrLog.LogServerError(w, r, "login: save session", err,
			"Sign-in is temporarily unavailable. Please try again.", "/login")
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}
	h.AuditLog.LoginSuccess(ctx, r, identity.ID, identity.Email)

	dest := urlutil.SafeReturn(returnURL, "", "/dashboard")
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// displayName resolves a human-readable name for the session: members show
// their full name, institutions show the institution name, admins fall back
// to the directory username.
func (h *Handler) displayName(ctx context.Context, identity directory.Identity, profile *models.Profile) string {
	switch profile.Role {
	case models.RoleMember:
		if h.Members != nil {
			if m, err := h.Members.GetByID(ctx, identity.ID); err == nil && m.FullName != "" {
				return m.FullName
			}
		}
	case models.RoleInstitution:
		if h.Institutions != nil {
			if inst, err := h.Institutions.GetByID(ctx, identity.ID); err == nil && inst.InstitutionName != "" {
				return inst.InstitutionName
			}
		}
	}
	if identity.Username != "" {
		return identity.Username
	}
	return identity.Email
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, loginID, returnURL, msg string) {
	data := loginFormData{LoginID: loginID, ReturnURL: returnURL}
	formutil.SetBase(&data.Base, r, "Sign in", "/")
	data.SetError(msg)
	w.WriteHeader(http.StatusUnprocessableEntity)
	templates.Render(w, r, "login", data)
}

package authz

import (
	"net/http"
	"strings"

	"github.com/zehsscwu/unionhub/internal/app/system/auth"
)

// UserCtx returns the user's role (lowercased), name, directory identity
// ID, and a found flag. If no user is present in context, it returns
// "visitor", "", "", false, so callers can trust that ok=true means a
// valid, authenticated user.
func UserCtx(r *http.Request) (role string, name string, identityID string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok || user.ID == "" {
		return "visitor", "", "", false
	}
	return strings.ToLower(user.Role), user.Name, user.ID, true
}

// IsAdmin reports whether the current request's user is a union admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "admin"
}

// IsInstitution reports whether the current request's user is an
// institution account.
func IsInstitution(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "institution"
}

// IsMember reports whether the current request's user is a member.
func IsMember(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "member"
}

// CanManageInstitution reports whether the user may administer the given
// institution: admins manage all, institution accounts only their own.
func CanManageInstitution(r *http.Request, institutionID string) bool {
	role, _, id, ok := UserCtx(r)
	if !ok {
		return false
	}
	if role == "admin" {
		return true
	}
	return role == "institution" && id == institutionID
}

package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/zehsscwu/unionhub/internal/app/system/auth"
)

func basePage(r *http.Request, title, msg, backURL, backDefault string) pageData {
	u, signed := auth.CurrentUser(r)
	role, name := "", ""
	if signed && u != nil {
		role, name = u.Role, u.Name
	}
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, backDefault)
	}
	return pageData{
		Title:      title,
		IsLoggedIn: signed,
		Role:       role,
		UserName:   name,
		Message:    msg,
		BackURL:    backURL,
	}
}

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it will default to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	templates.Render(w, r, "error_page",
		basePage(r, "Sign in required", "Please sign in to continue.", backURL, "/login"))
}

// RenderForbidden shows a friendly access error page with a message.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	templates.Render(w, r, "error_page",
		basePage(r, "Access denied", msg, backURL, "/"))
}

// RenderNotFound shows a friendly "not found" page with a message.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	w.WriteHeader(http.StatusNotFound)
	templates.Render(w, r, "error_page",
		basePage(r, "Not found", msg, backURL, "/"))
}

// RenderBadRequest shows a friendly "bad request" page with a message.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	w.WriteHeader(http.StatusBadRequest)
	templates.Render(w, r, "error_page",
		basePage(r, "Invalid request", msg, backURL, "/"))
}

// RenderServerError shows a friendly "something went wrong" page.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	w.WriteHeader(http.StatusInternalServerError)
	if msg == "" {
		msg = "Something went wrong. Please try again."
	}
	templates.Render(w, r, "error_page",
		basePage(r, "Something went wrong", msg, backURL, "/"))
}

// RenderConflict shows a friendly conflict page, used when a member number
// or institution code is already taken.
func RenderConflict(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	w.WriteHeader(http.StatusConflict)
	templates.Render(w, r, "error_page",
		basePage(r, "Already in use", msg, backURL, "/"))
}

// internal/app/features/requests/types.go
package requests

import (
	"html/template"

	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/paging"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

// listData is the view model for the requests list. Admins get the review
// queue across institutions; institutions see their own submissions.
type listData struct {
	formutil.Base

	Status string

	Items []models.MemberRequest
	Total int64

	// Institution names keyed by institution ID. Empty for
	// institution-scoped lists.
	InstitutionNames map[string]string

	IsAdmin bool

	HasPrev bool
	HasNext bool
	Range   paging.Range
}

// newData is the view model for the institution's submission form.
type newData struct {
	formutil.Base

	FullName        string
	NationalID      string
	DateOfBirth     string
	Gender          string
	JobTitle        string
	DateJoined      string
	Grade           string
	ContactNumber   string
	PositionInUnion string
	Branch          string
	Notes           string
}

// submittedData is the view model for the post-submission page with the
// optional WhatsApp follow-up link.
type submittedData struct {
	formutil.Base

	FullName     string
	WhatsAppLink string
}

// reviewData is the view model for the admin's single-request review page.
type reviewData struct {
	formutil.Base

	Request         models.MemberRequest
	InstitutionName string

	// NotesHTML is the institution's free-text note, sanitized for
	// rendering.
	NotesHTML template.HTML

	// SuggestedID prefills the member-number input; the admin may
	// overtype it.
	SuggestedID string
	MemberID    string
}

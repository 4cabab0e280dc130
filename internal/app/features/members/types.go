// internal/app/features/members/types.go
package members

import (
	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/paging"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

// listData is the view model for the members list page.
type listData struct {
	formutil.Base

	Q             string
	Status        string
	InstitutionID string

	Items []models.Member
	Total int64

	// Institution names keyed by institution ID, for the table and the
	// filter select. Empty for institution-scoped lists.
	InstitutionNames map[string]string
	Institutions     []models.Institution

	// IsAdmin widens the page: filter select, add and delete actions.
	IsAdmin bool

	HasPrev bool
	HasNext bool
	Range   paging.Range
}

// newData is the view model for the "New Member" page (admin direct add).
type newData struct {
	formutil.Base

	SuggestedID  string
	Institutions []models.Institution

	MemberID        string
	InstitutionID   string
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
}

// viewData is the view model for the "View Member" page.
type viewData struct {
	formutil.Base

	Member          models.Member
	InstitutionName string
	CouncilSeats    []models.WorksAssignment
	CommitteeSeats  []models.WorksAssignment

	CanEdit   bool
	CanDelete bool
}

// editData is the view model for the "Edit Member" page. The member number
// is fixed at enrollment because it doubles as the login ID.
type editData struct {
	formutil.Base

	ID              string
	MemberID        string
	InstitutionName string

	FullName        string
	JobTitle        string
	Grade           string
	ContactNumber   string
	PositionInUnion string
	Branch          string
	Status          string

	// Only admins may change the status.
	IsAdmin bool
}

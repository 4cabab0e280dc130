// internal/app/features/works/types.go
package works

import (
	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

// seatRow is one works seat joined with the member it belongs to.
type seatRow struct {
	Assignment models.WorksAssignment
	MemberName string
	MemberCode string
}

// listData is the view model for the works page of one institution.
type listData struct {
	formutil.Base

	Institution models.Institution

	Council   []seatRow
	Committee []seatRow

	// Roster feeds the assign form's member select.
	Roster []models.Member

	// Institutions feeds the admin's institution switcher.
	IsAdmin      bool
	Institutions []models.Institution
}

// pickData is the view model shown to admins before an institution is
// chosen.
type pickData struct {
	formutil.Base

	Institutions []models.Institution
}

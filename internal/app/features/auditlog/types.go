// internal/app/features/auditlog/types.go
package auditlog

import (
	auditstore "github.com/zehsscwu/unionhub/internal/app/store/audit"
	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/paging"
)

// listData is the view model for the audit trail page.
type listData struct {
	formutil.Base

	Category      string
	EventType     string
	InstitutionID string

	Items []auditstore.Event
	Total int64

	// Institution names keyed by institution ID, for the filter dropdown
	// and the institution column.
	InstitutionNames map[string]string

	HasPrev bool
	HasNext bool
	Range   paging.Range
}

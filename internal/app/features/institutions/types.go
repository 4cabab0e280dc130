// internal/app/features/institutions/types.go
package institutions

import (
	metricsstore "github.com/zehsscwu/unionhub/internal/app/store/metrics"
	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

// listData is the view model for the institutions list page.
type listData struct {
	formutil.Base

	Q     string
	Items []models.Institution
	Total int64
}

// newData is the view model for the "New Institution" page.
type newData struct {
	formutil.Base

	Code          string
	Name          string
	Email         string
	Landline      string
	HeadContact   string
	BursarContact string
	Branch        string
}

// viewData is the view model for the "View Institution" page.
type viewData struct {
	formutil.Base

	Institution models.Institution
	Counts      metricsstore.InstitutionCounts
	Members     []models.Member
}

// editData is the view model for the "Edit Institution" page.
type editData struct {
	formutil.Base

	ID            string
	Code          string
	Name          string
	Email         string
	Landline      string
	HeadContact   string
	BursarContact string
	Branch        string
}

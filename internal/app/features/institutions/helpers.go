// internal/app/features/institutions/helpers.go
package institutions

import (
	"net/http"

	"github.com/zehsscwu/unionhub/internal/app/system/authz"
)

func actorID(r *http.Request) string {
	_, _, identityID, _ := authz.UserCtx(r)
	return identityID
}

// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	profilestore "github.com/zehsscwu/unionhub/internal/app/store/profiles"
	"github.com/zehsscwu/unionhub/internal/app/system/apperr"
	"github.com/zehsscwu/unionhub/internal/app/system/directory"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. UnionHub
// uses it to provision the bootstrap admin account so a fresh deployment
// has someone who can sign in.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail == "" {
		return nil
	}
	dir := newDirectory(appCfg, deps)
	return ensureAdmin(ctx, dir, profilestore.New(deps.MongoDatabase), appCfg.AdminEmail, appCfg.AdminPassword, logger)
}

// newDirectory selects the identity directory backend from config. Local
// mode keeps identities in this app's MongoDB; http mode talks to an
// external directory service.
func newDirectory(appCfg AppConfig, deps DBDeps) directory.Service {
	if appCfg.DirectoryMode == "http" {
		return directory.NewHTTPClient(appCfg.DirectoryBaseURL, appCfg.DirectoryToken, appCfg.DirectoryTimeout)
	}
	return directory.NewLocal(deps.MongoDatabase)
}

// ensureAdmin creates the admin identity and profile if they do not exist.
// A Conflict from the directory means a previous run already provisioned
// the account, which is fine.
func ensureAdmin(ctx context.Context, dir directory.Service, profiles *profilestore.Store, email, password string, logger *zap.Logger) error {
	username := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		username = email[:at]
	}

	identity, err := dir.CreateIdentity(ctx, directory.NewIdentity{
		Email:    email,
		Password: password,
		Username: username,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.Conflict {
			logger.Info("admin account already provisioned", zap.String("email", email))
			return nil
		}
		return err
	}

	now := time.Now().UTC()
	if _, err := profiles.Create(ctx, models.Profile{
		ID:        identity.ID,
		Role:      models.RoleAdmin,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return err
	}

	logger.Info("admin account created", zap.String("email", email))
	return nil
}

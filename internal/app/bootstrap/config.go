// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for UnionHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: UNIONHUB_MONGO_URI, UNIONHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "unionhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "unionhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "12h", Desc: "Session lifetime (e.g., 12h, 30m)"},

	// Union identity scheme
	{Name: "org_domain", Default: "zehsscwu.org", Desc: "Email domain for generated member/institution accounts"},
	{Name: "member_id_prefix", Default: "ZEH", Desc: "Member number prefix (e.g., ZEH yields ZEH-0001)"},

	// Directory service
	{Name: "directory_mode", Default: "local", Desc: "Identity directory backend: 'local' or 'http'"},
	{Name: "directory_base_url", Default: "", Desc: "Base URL of the external directory service (http mode)"},
	{Name: "directory_token", Default: "", Desc: "Service token for the external directory (http mode)"},
	{Name: "directory_timeout", Default: "10s", Desc: "Per-request timeout for the external directory"},

	// Notifications
	{Name: "support_whatsapp", Default: "", Desc: "WhatsApp number for support and new-request notifications (digits with country code)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Bootstrap admin
	{Name: "admin_email", Default: "", Desc: "Email of the bootstrap admin account (created on startup if missing)"},
	{Name: "admin_password", Default: "", Desc: "Initial password for the bootstrap admin account"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app and can be extended as the app grows.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, UNIONHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "UNIONHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 12*time.Hour),

		OrgDomain:      strings.ToLower(appValues.String("org_domain")),
		MemberIDPrefix: strings.ToUpper(appValues.String("member_id_prefix")),

		DirectoryMode:    appValues.String("directory_mode"),
		DirectoryBaseURL: appValues.String("directory_base_url"),
		DirectoryToken:   appValues.String("directory_token"),
		DirectoryTimeout: appValues.Duration("directory_timeout", 10*time.Second),

		SupportWhatsApp: appValues.String("support_whatsapp"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		AdminEmail:    appValues.String("admin_email"),
		AdminPassword: appValues.String("admin_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.OrgDomain == "" {
		return fmt.Errorf("org_domain must be set (generated accounts sign in as <member-number>@org_domain)")
	}
	if appCfg.MemberIDPrefix == "" {
		return fmt.Errorf("member_id_prefix must be set (e.g., 'ZEH')")
	}

	switch appCfg.DirectoryMode {
	case "local":
		// identities live in this app's MongoDB; nothing else to check
	case "http":
		if appCfg.DirectoryBaseURL == "" {
			return fmt.Errorf("directory_mode 'http' requires directory_base_url")
		}
	default:
		return fmt.Errorf("directory_mode must be 'local' or 'http', got %q", appCfg.DirectoryMode)
	}

	// Refuse the dev session key outside dev; a forged session cookie would
	// grant admin access.
	if coreCfg.Env == "prod" && strings.HasPrefix(appCfg.SessionKey, "dev-only-") {
		return fmt.Errorf("session_key still has the dev default; set a strong key in production")
	}

	if appCfg.AdminEmail != "" && appCfg.AdminPassword == "" {
		return fmt.Errorf("admin_email is set but admin_password is empty")
	}

	return nil
}

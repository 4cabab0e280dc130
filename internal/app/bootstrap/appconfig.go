// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where everything specific to UnionHub lives: the MongoDB
// connection, session cookies, the union's identity scheme (member number
// prefix and login email domain), and the directory service that owns
// login credentials.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: unionhub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // How long a signed-in session stays valid

	// Union identity scheme. Member numbers double as login IDs: a member
	// ZEH-0123 signs in as zeh-0123@<OrgDomain>.
	OrgDomain      string // email domain for generated directory accounts
	MemberIDPrefix string // member number prefix (e.g., "ZEH")

	// Directory service configuration. "local" keeps identities in this
	// app's MongoDB; "http" talks to an external directory over REST.
	DirectoryMode    string        // "local" or "http"
	DirectoryBaseURL string        // base URL of the external directory (http mode)
	DirectoryToken   string        // service token for the external directory (http mode)
	DirectoryTimeout time.Duration // per-request timeout for the external directory

	// WhatsApp number (digits with country code) that receives new-request
	// notifications and member support messages. Blank disables the links.
	SupportWhatsApp string

	// Audit logging settings
	AuditLogAuth  string // Auth event logging: "all" (db+log), "db", "log", or "off"
	AuditLogAdmin string // Admin event logging: "all" (db+log), "db", "log", or "off"

	// Bootstrap admin account, created on startup if it does not exist.
	AdminEmail    string
	AdminPassword string
}

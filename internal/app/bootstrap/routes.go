// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	aboutfeature "github.com/zehsscwu/unionhub/internal/app/features/about"
	auditlogfeature "github.com/zehsscwu/unionhub/internal/app/features/auditlog"
	contactfeature "github.com/zehsscwu/unionhub/internal/app/features/contact"
	dashboardfeature "github.com/zehsscwu/unionhub/internal/app/features/dashboard"
	errorsfeature "github.com/zehsscwu/unionhub/internal/app/features/errors"
	healthfeature "github.com/zehsscwu/unionhub/internal/app/features/health"
	homefeature "github.com/zehsscwu/unionhub/internal/app/features/home"
	institutionsfeature "github.com/zehsscwu/unionhub/internal/app/features/institutions"
	loginfeature "github.com/zehsscwu/unionhub/internal/app/features/login"
	logoutfeature "github.com/zehsscwu/unionhub/internal/app/features/logout"
	membersfeature "github.com/zehsscwu/unionhub/internal/app/features/members"
	reportsfeature "github.com/zehsscwu/unionhub/internal/app/features/reports"
	requestsfeature "github.com/zehsscwu/unionhub/internal/app/features/requests"
	termsfeature "github.com/zehsscwu/unionhub/internal/app/features/terms"
	worksfeature "github.com/zehsscwu/unionhub/internal/app/features/works"
	auditstore "github.com/zehsscwu/unionhub/internal/app/store/audit"
	institutionstore "github.com/zehsscwu/unionhub/internal/app/store/institutions"
	memberstore "github.com/zehsscwu/unionhub/internal/app/store/members"
	profilestore "github.com/zehsscwu/unionhub/internal/app/store/profiles"
	requeststore "github.com/zehsscwu/unionhub/internal/app/store/requests"
	"github.com/zehsscwu/unionhub/internal/app/system/auditlog"
	"github.com/zehsscwu/unionhub/internal/app/system/auth"
	"github.com/zehsscwu/unionhub/internal/app/system/enroll"
	"github.com/zehsscwu/unionhub/internal/app/system/ratelimit"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// UnionHub initializes the template engine, applies session middleware,
// and mounts feature routers for all application areas: public pages,
// login, dashboard, institutions, members, enrollment requests, works
// bodies, and reports.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Shared services. The audit store is both the enrollment service's
	// event recorder and the backing store for the request-scoped audit
	// logger handlers use.
	errLog := errorsfeature.NewErrorLogger(logger)
	audits := auditstore.New(db)
	auditLog := auditlog.New(audits, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	dir := newDirectory(appCfg, deps)

	enrollSvc := enroll.New(enroll.Config{
		Members:      memberstore.New(db),
		Requests:     requeststore.New(db),
		Profiles:     profilestore.New(db),
		Institutions: institutionstore.New(db),
		Directory:    dir,
		Prefix:       appCfg.MemberIDPrefix,
		OrgDomain:    appCfg.OrgDomain,
		Log:          logger,
		Audit:        audits,
	})

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFoundPage)

	// Public pages. The root mount swallows unmatched paths, so it carries
	// the same not-found page as the parent router.
	homeHandler := homefeature.NewHandler(logger)
	homeRouter := homefeature.Routes(homeHandler)
	homeRouter.NotFound(errorsHandler.NotFoundPage)
	r.Mount("/", homeRouter)

	aboutHandler := aboutfeature.NewHandler(logger)
	r.Mount("/about", aboutfeature.Routes(aboutHandler))

	contactHandler := contactfeature.NewHandler(appCfg.SupportWhatsApp, logger)
	r.Mount("/contact", contactfeature.Routes(contactHandler))

	termsHandler := termsfeature.NewHandler(logger)
	r.Mount("/terms", termsfeature.Routes(termsHandler))

	// Authentication. The login limiter throttles brute-force attempts
	// per IP and per account.
	loginHandler := &loginfeature.Handler{
		Log:          logger,
		SessionMgr:   sessionMgr,
		ErrLog:       errLog,
		AuditLog:     auditLog,
		Directory:    dir,
		Profiles:     profilestore.New(db),
		Members:      memberstore.New(db),
		Institutions: institutionstore.New(db),
		OrgDomain:    appCfg.OrgDomain,
		Limiter:      ratelimit.NewLoginLimiter(),
	}
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Role-based dashboards
	dashboardHandler := dashboardfeature.NewHandler(db, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Institution management
	instHandler := institutionsfeature.NewHandler(db, dir, appCfg.OrgDomain, errLog, auditLog, logger)
	r.Mount("/institutions", institutionsfeature.Routes(instHandler, sessionMgr))

	// Member rosters and direct enrollment
	membersHandler := membersfeature.NewHandler(db, dir, enrollSvc, errLog, auditLog, logger)
	r.Mount("/members", membersfeature.Routes(membersHandler, sessionMgr))

	// Enrollment requests (submit, review, approve/reject)
	requestsHandler := requestsfeature.NewHandler(db, enrollSvc, appCfg.SupportWhatsApp, errLog, auditLog, logger)
	r.Mount("/requests", requestsfeature.Routes(requestsHandler, sessionMgr))

	// Works council and works committee seats
	worksHandler := worksfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/works", worksfeature.Routes(worksHandler, sessionMgr))

	// Admin audit trail
	auditHandler := auditlogfeature.NewHandler(db, errLog, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	// Reports (xlsx exports)
	reportsHandler := reportsfeature.NewHandler(db, errLog, logger)
	r.Mount("/reports", reportsfeature.Routes(reportsHandler, sessionMgr))

	return r, nil
}

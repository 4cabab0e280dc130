// Package auditlog provides convenience methods for recording audit events
// from HTTP handlers, capturing request context (IP, user agent) alongside
// the event itself.
package auditlog

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/zehsscwu/unionhub/internal/app/store/audit"
)

// Config controls where each event category is written.
// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only),
// "off" (disabled).
type Config struct {
	Auth  string
	Admin string
}

// Logger writes audit events to MongoDB (via audit.Store) and to
// structured logs (via zap), per category configuration.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.SubjectID != "" {
		fields = append(fields, zap.String("subject_id", event.SubjectID))
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.InstitutionID != "" {
		fields = append(fields, zap.String("institution_id", event.InstitutionID))
	}
	if event.MemberID != "" {
		fields = append(fields, zap.String("member_id", event.MemberID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration. A nil logger is a
// no-op, so tests can pass nil.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}
	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, identityID, email string) {
	if l == nil {
		return
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		SubjectID: identityID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"email": email},
	})
}

// LoginFailed logs a rejected sign-in attempt. The attempted email is kept
// in details so lockout reviews can spot patterns.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, attemptedEmail, reason string) {
	if l == nil {
		return
	}
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedBadCredential,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"attempted_email": attemptedEmail},
	})
}

// Logout logs a sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request, identityID string) {
	if l == nil {
		return
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		SubjectID: identityID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// --- Admin Events ---

// InstitutionCreated logs registration of a new institution.
func (l *Logger) InstitutionCreated(ctx context.Context, r *http.Request, actorID, institutionID, name string) {
	l.admin(ctx, r, audit.EventInstitutionCreated, actorID, institutionID, map[string]string{"name": name})
}

// InstitutionUpdated logs an institution edit.
func (l *Logger) InstitutionUpdated(ctx context.Context, r *http.Request, actorID, institutionID, fieldsChanged string) {
	l.admin(ctx, r, audit.EventInstitutionUpdated, actorID, institutionID, map[string]string{"fields": fieldsChanged})
}

// InstitutionDeleted logs dissolution of an institution.
func (l *Logger) InstitutionDeleted(ctx context.Context, r *http.Request, actorID, institutionID, name string) {
	l.admin(ctx, r, audit.EventInstitutionDeleted, actorID, institutionID, map[string]string{"name": name})
}

// MemberUpdated logs an edit to a member record.
func (l *Logger) MemberUpdated(ctx context.Context, r *http.Request, actorID, institutionID, memberNumber string) {
	if l == nil {
		return
	}
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     audit.EventMemberUpdated,
		ActorID:       actorID,
		InstitutionID: institutionID,
		MemberID:      memberNumber,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       true,
	})
}

// MemberDeleted logs removal of a member record.
func (l *Logger) MemberDeleted(ctx context.Context, r *http.Request, actorID, institutionID, memberNumber string) {
	if l == nil {
		return
	}
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     audit.EventMemberDeleted,
		ActorID:       actorID,
		InstitutionID: institutionID,
		MemberID:      memberNumber,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       true,
	})
}

// WorksSeatAssigned logs seating a member on a works body.
func (l *Logger) WorksSeatAssigned(ctx context.Context, r *http.Request, actorID, institutionID, memberNumber, body, rank string) {
	if l == nil {
		return
	}
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     audit.EventWorksSeatAssigned,
		ActorID:       actorID,
		InstitutionID: institutionID,
		MemberID:      memberNumber,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       true,
		Details:       map[string]string{"body": body, "rank": rank},
	})
}

// WorksSeatRemoved logs unseating a member from a works body.
func (l *Logger) WorksSeatRemoved(ctx context.Context, r *http.Request, actorID, institutionID, memberNumber, body string) {
	if l == nil {
		return
	}
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     audit.EventWorksSeatRemoved,
		ActorID:       actorID,
		InstitutionID: institutionID,
		MemberID:      memberNumber,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       true,
		Details:       map[string]string{"body": body},
	})
}

func (l *Logger) admin(ctx context.Context, r *http.Request, eventType, actorID, institutionID string, details map[string]string) {
	if l == nil {
		return
	}
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     eventType,
		ActorID:       actorID,
		InstitutionID: institutionID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       true,
		Details:       details,
	})
}

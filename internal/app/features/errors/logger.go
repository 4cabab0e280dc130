package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger couples zap logging with friendly error pages so handlers
// can report a failure in one call.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(log *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: log}
}

// LogServerError logs the underlying error and renders a 500 page with a
// user-facing message.
func (l *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	l.log.Error(logMsg,
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Error(err),
	)
	RenderServerError(w, r, userMsg, backURL)
}

// LogBadRequest logs the underlying error and renders a 400 page with a
// user-facing message.
func (l *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	l.log.Warn(logMsg,
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Error(err),
	)
	RenderBadRequest(w, r, userMsg, backURL)
}

// internal/app/features/errors/errors.go
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/spothub/internal/app/system/apperr"
	"github.com/dalemusser/spothub/internal/app/system/authz"
	"github.com/dalemusser/spothub/internal/app/system/respond"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorLogger writes failure envelopes and logs them. Unexpected errors get
// a short reference id that appears in both the log line and the response
// so a report from a client can be matched to the log.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

// Write maps err to a status and writes the failure envelope. Taxonomy
// errors keep their message; anything else becomes a 500 with a reference.
func (l *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Unexpected {
		l.LogServerError(w, r, "request failed", err, "Something went wrong.")
		return
	}

	status := apperr.HTTPStatus(kind)
	fields := l.fields(r, zap.String("kind", kind.String()), zap.Int("status", status), zap.Error(err))
	switch kind {
	case apperr.Forbidden, apperr.Conflict:
		l.Log.Warn("request rejected", fields...)
	default:
		l.Log.Debug("request rejected", fields...)
	}
	respond.Fail(w, status, apperr.MessageOf(err))
}

// LogServerError logs err at Error with a fresh reference and writes a 500
// whose message ends with that reference.
func (l *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	ref := NewRef()
	l.Log.Error(msg, l.fields(r, zap.String("error_ref", ref), zap.Error(err))...)
	respond.Fail(w, http.StatusInternalServerError, userMsg+" (ref "+ref+")")
}

// LogBadRequest logs a malformed request at Debug and writes a 400.
func (l *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	l.Log.Debug(msg, l.fields(r, zap.Error(err))...)
	respond.Fail(w, http.StatusBadRequest, userMsg)
}

// Decode reads a JSON body into dst. On failure it writes the 400 itself
// and returns false.
func (l *ErrorLogger) Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := respond.Decode(w, r, dst); err != nil {
		msg := "Invalid request body."
		if stderrors.Is(err, respond.ErrBadBody) {
			msg = "Request body must be valid JSON."
		}
		l.LogBadRequest(w, r, "decode body failed", err, msg)
		return false
	}
	return true
}

func (l *ErrorLogger) fields(r *http.Request, extra ...zap.Field) []zap.Field {
	f := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		f = append(f, zap.String("request_id", id))
	}
	if c := authz.CallerFrom(r); c.Authenticated() {
		f = append(f, zap.String("user_id", c.ID.Hex()))
	}
	return append(f, extra...)
}

// NewRef returns an 8-character error reference.
func NewRef() string {
	return uuid.NewString()[:8]
}

// NotFound is the router's fallback for unknown paths.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	respond.Fail(w, http.StatusNotFound, "not found")
}

// MethodNotAllowed is the router's fallback for a known path with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	respond.Fail(w, http.StatusMethodNotAllowed, "method not allowed")
}

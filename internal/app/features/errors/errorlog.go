// internal/app/features/errors/errorlog.go
package errors

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/campusdesk/internal/app/system/reqctx"
	"github.com/dalemusser/campusdesk/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger logs a handler failure and answers the client with a
// friendly page (or JSON for API requests).
type ErrorLogger struct {
	Log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

type pageData struct {
	viewdata.BaseVM
	Status  int
	Message string
}

// LogServerError logs err at error level and responds 500 with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Error(msg, e.fields(r, err)...)
	e.respond(w, r, http.StatusInternalServerError, userMsg, backURL)
}

// LogBadRequest logs err at warn level and responds 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Warn(msg, e.fields(r, err)...)
	e.respond(w, r, http.StatusBadRequest, userMsg, backURL)
}

// Forbidden logs msg at warn and responds 403 with userMsg.
func (e *ErrorLogger) Forbidden(w http.ResponseWriter, r *http.Request, msg, userMsg, backURL string) {
	e.Log.Warn(msg, e.fields(r, nil)...)
	e.respond(w, r, http.StatusForbidden, userMsg, backURL)
}

// NotFound responds 404 with userMsg. Nothing is logged.
func (e *ErrorLogger) NotFound(w http.ResponseWriter, r *http.Request, userMsg, backURL string) {
	e.respond(w, r, http.StatusNotFound, userMsg, backURL)
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("route", reqctx.RouteName(r)),
		zap.String("ip", reqctx.ClientIP(r)),
	}
}

func (e *ErrorLogger) respond(w http.ResponseWriter, r *http.Request, status int, userMsg, backURL string) {
	if userMsg == "" {
		userMsg = http.StatusText(status)
	}
	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": userMsg})
		return
	}
	if backURL == "" {
		backURL = "/"
	}
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", pageData{
		BaseVM:  viewdata.NewBaseVM(r, http.StatusText(status), backURL),
		Status:  status,
		Message: userMsg,
	})
}

func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

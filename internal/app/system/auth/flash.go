package auth

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

const flashErrorsKey = "errors"

// AddError flashes msg into the session error bag; the next page that calls
// Errors shows it once.
func (sm *SessionManager) AddError(w http.ResponseWriter, r *http.Request, msg string) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		sm.logSessionError(err, "flash")
	}
	sess.AddFlash(msg, flashErrorsKey)
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Errors drains the session error bag.
func (sm *SessionManager) Errors(w http.ResponseWriter, r *http.Request) []string {
	sess, err := sm.GetSession(r)
	if err != nil {
		sm.logSessionError(err, "flash")
		return nil
	}
	flashes := sess.Flashes(flashErrorsKey)
	if len(flashes) == 0 {
		return nil
	}
	out := make([]string, 0, len(flashes))
	for _, f := range flashes {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	if err := sess.Save(r, w); err != nil {
		sm.log.Warn("save session after reading flashes", zap.Error(err))
	}
	return out
}

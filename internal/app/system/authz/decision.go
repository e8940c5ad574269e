package authz

import (
	"github.com/dalemusser/campusdesk/internal/app/system/auth"
	"go.uber.org/zap/zapcore"
)

// Outcome is the terminal result of an access decision.
type Outcome int

const (
	Forward Outcome = iota
	RedirectLogin
	RedirectLoginWithError
)

func (o Outcome) String() string {
	switch o {
	case Forward:
		return "forward"
	case RedirectLogin:
		return "redirect_login"
	case RedirectLoginWithError:
		return "redirect_login_with_error"
	}
	return "unknown"
}

// Reasons, one per decision path. Also used as the metric outcome label.
const (
	ReasonUnauthenticated  = "unauthenticated"
	ReasonNoRole           = "no_role"
	ReasonInsufficientRole = "insufficient_role"
	ReasonGranted          = "granted"
)

// User-facing messages. Neither names the role a route requires.
const (
	MsgMisconfigured    = "Your account is not properly configured. Please contact support."
	MsgInsufficientRole = "You do not have permission to access this area."
)

// Decision is what the access guard does with one request.
type Decision struct {
	Outcome Outcome
	Reason  string
	// Message goes in the error bag; empty for RedirectLogin and Forward.
	Message string
	// TerminateSession asks the guard to log the user out before redirecting.
	TerminateSession bool
}

// Level is the log level the decision is recorded at.
func (d Decision) Level() zapcore.Level {
	if d.Outcome == Forward {
		return zapcore.InfoLevel
	}
	return zapcore.WarnLevel
}

// Decide evaluates user against the single required role. It has no side
// effects; the guard carries out what the decision asks for.
func Decide(user *auth.SessionUser, required string) Decision {
	switch {
	case user == nil:
		return Decision{Outcome: RedirectLogin, Reason: ReasonUnauthenticated}
	case !user.HasRole():
		return Decision{
			Outcome:          RedirectLoginWithError,
			Reason:           ReasonNoRole,
			Message:          MsgMisconfigured,
			TerminateSession: true,
		}
	case user.Role != required:
		return Decision{
			Outcome: RedirectLoginWithError,
			Reason:  ReasonInsufficientRole,
			Message: MsgInsufficientRole,
		}
	default:
		return Decision{Outcome: Forward, Reason: ReasonGranted}
	}
}

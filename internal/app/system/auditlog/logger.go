// internal/app/system/auditlog/logger.go
package auditlog

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"context"
	"net/http"

	"github.com/dalemusser/campusdesk/internal/app/store/audit"
	"github.com/dalemusser/campusdesk/internal/app/system/reqctx"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category of events.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off" // disabled
)

// ValidMode reports whether m is one of the accepted destination settings.
func ValidMode(m string) bool {
	switch m {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout, token issue).
	Auth string
	// Access controls logging for authorization decisions on role-protected routes.
	// These fire on every guarded request, so "log" is the usual production setting.
	Access string
	// Admin controls logging for state changes made by staff.
	Admin string
}

// Logger provides convenience methods for logging audit events.
// It logs to MongoDB (via audit.Store) and/or structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. store may be nil when every category is
// configured as "log" or "off".
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// logToZap logs the event to zap: info on success, warn on failure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
		zap.String("user_agent", event.UserAgent),
	}

	if event.Route != "" {
		fields = append(fields, zap.String("route", event.Route))
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String(k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

func (l *Logger) modeFor(category string) string {
	switch category {
	case audit.CategoryAuth:
		return l.config.Auth
	case audit.CategoryAccess:
		return l.config.Access
	case audit.CategoryAdmin:
		return l.config.Admin
	default:
		return ModeAll // Default to logging everything for unknown categories
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	mode := l.modeFor(event.Category)
	if mode == ModeOff {
		return
	}

	if mode == ModeAll || mode == ModeLog {
		l.logToZap(event)
	}

	if (mode == ModeAll || mode == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// fromRequest fills the request-derived fields of an event.
func fromRequest(r *http.Request, event audit.Event) audit.Event {
	event.Route = reqctx.RouteName(r)
	event.IP = reqctx.ClientIP(r)
	event.UserAgent = reqctx.UserAgent(r)
	return event
}

// oidPtr converts a hex ID from a SessionUser; malformed IDs yield nil.
func oidPtr(hex string) *primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil
	}
	return &oid
}

/*─────────────────────────────────────────────────────────────────────────────*
| Authentication events                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, loginID string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"login_id": loginID},
	}))
}

// LoginFailedUserNotFound logs a failed login due to user not found.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedLoginID string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserNotFound,
		FailureReason: "user not found",
		Details:       map[string]string{"attempted_login_id": attemptedLoginID},
	}))
}

// LoginFailedWrongPassword logs a failed login due to wrong password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, loginID string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		UserID:        &userID,
		FailureReason: "wrong password",
		Details:       map[string]string{"login_id": loginID},
	}))
}

// LoginFailedUserDisabled logs a failed login due to disabled account.
func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, userID primitive.ObjectID, loginID string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserDisabled,
		UserID:        &userID,
		FailureReason: "user disabled",
		Details:       map[string]string{"login_id": loginID},
	}))
}

// Logout logs a user logout.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    oidPtr(userID),
		Success:   true,
	}))
}

// APITokenIssued logs a bearer token being issued to a signed-in user.
func (l *Logger) APITokenIssued(ctx context.Context, r *http.Request, userID string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventAPITokenIssued,
		UserID:    oidPtr(userID),
		Success:   true,
	}))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Access events                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// AccessUnauthenticated logs an anonymous request to a role-protected route.
func (l *Logger) AccessUnauthenticated(ctx context.Context, r *http.Request, requiredRole string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAccess,
		EventType:     audit.EventAccessUnauthenticated,
		FailureReason: "unauthenticated",
		Details:       map[string]string{"required_role": requiredRole},
	}))
}

// AccessMisconfigured logs an authenticated user with no role assignment.
func (l *Logger) AccessMisconfigured(ctx context.Context, r *http.Request, userID, requiredRole string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAccess,
		EventType:     audit.EventAccessMisconfigured,
		UserID:        oidPtr(userID),
		FailureReason: "no role assigned",
		Details:       map[string]string{"required_role": requiredRole},
	}))
}

// AccessInsufficientRole logs a user whose role differs from the required one.
func (l *Logger) AccessInsufficientRole(ctx context.Context, r *http.Request, userID, userRole, requiredRole string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAccess,
		EventType:     audit.EventAccessInsufficientRole,
		UserID:        oidPtr(userID),
		FailureReason: "insufficient role",
		Details: map[string]string{
			"user_role":     userRole,
			"required_role": requiredRole,
		},
	}))
}

// AccessGranted logs a request forwarded to a role-protected handler.
func (l *Logger) AccessGranted(ctx context.Context, r *http.Request, userID, role string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAccess,
		EventType: audit.EventAccessGranted,
		UserID:    oidPtr(userID),
		Success:   true,
		Details:   map[string]string{"role": role},
	}))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Admin events                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// ComplaintStatusChanged logs a staff member moving a complaint to a new status.
func (l *Logger) ComplaintStatusChanged(ctx context.Context, r *http.Request, actorID, complaintID, from, to string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventComplaintStatusChanged,
		ActorID:   oidPtr(actorID),
		Success:   true,
		Details: map[string]string{
			"complaint_id": complaintID,
			"from_status":  from,
			"to_status":    to,
		},
	}))
}

// AdminBootstrapped logs the startup creation of the configured admin account.
func (l *Logger) AdminBootstrapped(ctx context.Context, userID primitive.ObjectID, loginID string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventAdminBootstrapped,
		UserID:    &userID,
		IP:        "startup",
		Success:   true,
		Details:   map[string]string{"login_id": loginID},
	})
}

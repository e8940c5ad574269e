// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/campusdesk/internal/app/resources"
	"github.com/dalemusser/campusdesk/internal/app/store/audit"
	loginstore "github.com/dalemusser/campusdesk/internal/app/store/logins"
	userrolestore "github.com/dalemusser/campusdesk/internal/app/store/userroles"
	userstore "github.com/dalemusser/campusdesk/internal/app/store/users"
	"github.com/dalemusser/campusdesk/internal/app/system/auditlog"
	"github.com/dalemusser/campusdesk/internal/app/system/timeouts"
	"github.com/dalemusser/campusdesk/internal/app/system/workers"
	"github.com/dalemusser/campusdesk/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// retention is the running pruning worker, stopped in Shutdown.
var retention *workers.Retention

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It loads
// the shared templates, applies the configured database deadlines, starts
// the retention worker and makes sure the bootstrap admin exists.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	if appCfg.AuditRetention > 0 {
		retention = workers.NewRetention(map[string]workers.Pruner{
			"audit_events":  audit.New(deps.MongoDatabase),
			"login_records": loginstore.New(deps.MongoDatabase),
		}, logger, appCfg.RetentionInterval, appCfg.AuditRetention)
		retention.Start()
	}

	if appCfg.AdminEmail == "" {
		return warnIfNoAdmin(ctx, deps, logger)
	}
	al := auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
		Auth:   appCfg.AuditLogAuth,
		Access: appCfg.AuditLogAccess,
		Admin:  appCfg.AuditLogAdmin,
	})
	return ensureAdmin(ctx, deps, appCfg, al, logger)
}

// warnIfNoAdmin reports a deployment that has no admin and no bootstrap
// account configured, since nobody could reach the admin pages.
func warnIfNoAdmin(ctx context.Context, deps DBDeps, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	ids, err := userrolestore.New(deps.MongoDatabase).UserIDsWithRole(ctx, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("look up admins: %w", err)
	}
	if len(ids) == 0 {
		logger.Warn("no user holds the admin role; set admin_email to create one")
	}
	return nil
}

// ensureAdmin creates the configured admin account if it is missing and
// makes sure its effective role is admin. An existing password is never
// touched.
func ensureAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, al *auditlog.Logger, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	users := userstore.New(deps.MongoDatabase, logger)
	roles := userrolestore.New(deps.MongoDatabase)

	u, err := users.GetByLoginID(ctx, appCfg.AdminEmail)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		if appCfg.AdminPassword == "" {
			return fmt.Errorf("admin %q does not exist and admin_password is empty", appCfg.AdminEmail)
		}
		created, cerr := users.Create(ctx, models.User{
			FullName: appCfg.AdminName,
			LoginID:  appCfg.AdminEmail,
			Status:   models.UserActive,
		}, appCfg.AdminPassword)
		if cerr != nil {
			return fmt.Errorf("create admin: %w", cerr)
		}
		u = &created
		logger.Info("bootstrap admin created", zap.String("login_id", created.LoginID))
	case err != nil:
		return fmt.Errorf("look up admin: %w", err)
	}

	current, ok, err := roles.Effective(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("load admin role: %w", err)
	}
	if ok && current.Role == models.RoleAdmin {
		return nil
	}

	if _, err := roles.Assign(ctx, models.RoleAssignment{UserID: u.ID, Role: models.RoleAdmin}); err != nil {
		return fmt.Errorf("assign admin role: %w", err)
	}
	if al != nil {
		al.AdminBootstrapped(ctx, u.ID, u.LoginID)
	}
	logger.Info("bootstrap admin role assigned",
		zap.String("user_id", u.ID.Hex()),
		zap.String("login_id", u.LoginID))
	return nil
}

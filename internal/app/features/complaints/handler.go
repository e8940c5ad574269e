// internal/app/features/complaints/handler.go
package complaints

import (
	uierrors "github.com/dalemusser/campusdesk/internal/app/features/errors"
	_ "github.com/dalemusser/campusdesk/internal/app/features/complaints/views"
	campusstore "github.com/dalemusser/campusdesk/internal/app/store/campuses"
	complaintstore "github.com/dalemusser/campusdesk/internal/app/store/complaints"
	complainttypestore "github.com/dalemusser/campusdesk/internal/app/store/complainttypes"
	"github.com/dalemusser/campusdesk/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// maxNotesLen caps resolution notes on a status update.
const maxNotesLen = 2000

// Handler serves the public complaint pages and the staff status update.
type Handler struct {
	Complaints *complaintstore.Store
	Campuses   *campusstore.Store
	Types      *complainttypestore.Store
	AuditLog   *auditlog.Logger
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Complaints: complaintstore.New(db),
		Campuses:   campusstore.New(db, logger),
		Types:      complainttypestore.New(db, logger),
		AuditLog:   audit,
		ErrLog:     errLog,
		Log:        logger,
	}
}

func complaintPath(complaintID string) string {
	return "/complaints/" + complaintID
}

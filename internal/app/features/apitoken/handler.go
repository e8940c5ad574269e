// internal/app/features/apitoken/handler.go
package apitoken

import (
	"encoding/json"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/campusdesk/internal/app/features/errors"
	loginstore "github.com/dalemusser/campusdesk/internal/app/store/logins"
	"github.com/dalemusser/campusdesk/internal/app/system/auditlog"
	"github.com/dalemusser/campusdesk/internal/app/system/auth"
	"github.com/dalemusser/campusdesk/internal/app/system/destination"
	"github.com/dalemusser/campusdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Issuer signs bearer tokens for a user ID.
type Issuer interface {
	Issue(userID string) (string, time.Time, error)
}

type Handler struct {
	Tokens   Issuer
	Logins   *loginstore.Store
	AuditLog *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, tokens Issuer, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Tokens:   tokens,
		Logins:   loginstore.New(db),
		AuditLog: audit,
		ErrLog:   errLog,
		Log:      logger,
	}
}

type tokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

type meResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	LoginID     string `json:"login_id"`
	Role        string `json:"role"`
	CampusID    string `json:"campus_id,omitempty"`
	Destination string `json:"destination"`
	Guard       string `json:"guard"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/token                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleIssue signs a bearer token for the signed-in session user.
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	token, exp, err := h.Tokens.Issue(u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "issue api token", err, "Could not issue a token.", "/")
		return
	}

	h.AuditLog.APITokenIssued(r.Context(), r, u.ID)
	if uid, err := primitive.ObjectIDFromHex(u.ID); err == nil {
		if err := h.Logins.CreateFrom(r.Context(), r, uid, models.LoginMethodAPIToken); err != nil {
			h.Log.Warn("login record insert failed", zap.Error(err), zap.String("user_id", u.ID))
		}
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token, TokenType: "Bearer", ExpiresAt: exp.UTC()})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/me                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeMe reports who the bearer token belongs to and where the resolver
// would send them.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, meResponse{
		ID:          u.ID,
		Name:        u.Name,
		LoginID:     u.LoginID,
		Role:        u.Role,
		CampusID:    u.CampusID,
		Destination: string(destination.ForUser(u)),
		Guard:       u.Guard,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

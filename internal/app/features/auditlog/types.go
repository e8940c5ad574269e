// internal/app/features/auditlog/types.go
package auditlog

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"time"

	"github.com/dalemusser/campusdesk/internal/app/store/audit"
	"github.com/dalemusser/campusdesk/internal/app/system/viewdata"
)

// listItem represents a single audit event row for display.
type listItem struct {
	ID            string
	Timestamp     time.Time
	Category      string
	EventType     string
	ActorName     string // resolved from ActorID
	TargetName    string // resolved from UserID
	Route         string
	IP            string
	Success       bool
	FailureReason string
	Details       map[string]string
}

// listData is the view model for the audit log list page.
type listData struct {
	viewdata.BaseVM

	Items []listItem

	// Filters
	Category     string
	EventType    string
	FailuresOnly bool
	StartDate    string
	EndDate      string

	// Filter options
	Categories []categoryOption
	EventTypes []string

	// Pagination
	Page       int
	TotalPages int
	Total      int64
	Shown      int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

// categoryOption represents a category for the filter dropdown.
type categoryOption struct {
	Value string
	Label string
}

func allCategories() []categoryOption {
	return []categoryOption{
		{Value: audit.CategoryAuth, Label: "Authentication"},
		{Value: audit.CategoryAccess, Label: "Access decisions"},
		{Value: audit.CategoryAdmin, Label: "Administration"},
	}
}

var eventsByCategory = map[string][]string{
	audit.CategoryAuth: {
		audit.EventLoginSuccess,
		audit.EventLoginFailedUserNotFound,
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedUserDisabled,
		audit.EventLogout,
		audit.EventAPITokenIssued,
	},
	audit.CategoryAccess: {
		audit.EventAccessUnauthenticated,
		audit.EventAccessMisconfigured,
		audit.EventAccessInsufficientRole,
		audit.EventAccessGranted,
	},
	audit.CategoryAdmin: {
		audit.EventComplaintStatusChanged,
		audit.EventAdminBootstrapped,
	},
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	if category != "" {
		return eventsByCategory[category]
	}
	var all []string
	for _, c := range allCategories() {
		all = append(all, eventsByCategory[c.Value]...)
	}
	return all
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

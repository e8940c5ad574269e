// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/campusdesk/internal/app/store/audit"
	"github.com/dalemusser/campusdesk/internal/app/system/timeouts"
	"github.com/dalemusser/campusdesk/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	pageSize   = 50
	dateLayout = "2006-01-02"
)

// ServeList handles GET /admin/audit: the audit log with filtering.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	data, err := h.list(ctx, r.URL.Query())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "audit log query", err, "A database error occurred.", "/admin")
		return
	}
	data.BaseVM = viewdata.NewBaseVM(r, "Audit Log", "/admin")

	templates.Render(w, r, "audit_list", data)
}

// list applies the query-string filters and loads one page of events.
// Unknown categories and event types are dropped rather than rejected.
func (h *Handler) list(ctx context.Context, q url.Values) (listData, error) {
	data := listData{Categories: allCategories()}

	category := strings.TrimSpace(q.Get("category"))
	if _, ok := eventsByCategory[category]; !ok {
		category = ""
	}
	eventType := strings.TrimSpace(q.Get("event_type"))
	if eventType != "" && !contains(eventTypesForCategory(category), eventType) {
		eventType = ""
	}
	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}

	filter := audit.QueryFilter{
		Category:     category,
		FailuresOnly: q.Get("failures") == "1",
		Limit:        pageSize,
		Offset:       int64((page - 1) * pageSize),
	}
	if eventType != "" {
		filter.EventTypes = []string{eventType}
	}

	startDate := strings.TrimSpace(q.Get("start_date"))
	if t, err := time.Parse(dateLayout, startDate); err == nil {
		filter.StartTime = &t
	} else {
		startDate = ""
	}
	endDate := strings.TrimSpace(q.Get("end_date"))
	if t, err := time.Parse(dateLayout, endDate); err == nil {
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndTime = &endOfDay
	} else {
		endDate = ""
	}

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		return data, err
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		return data, err
	}

	names := h.userNames(ctx, events)
	items := make([]listItem, 0, len(events))
	for _, e := range events {
		item := listItem{
			ID:            e.ID.Hex(),
			Timestamp:     e.Timestamp,
			Category:      e.Category,
			EventType:     e.EventType,
			Route:         e.Route,
			IP:            e.IP,
			Success:       e.Success,
			FailureReason: e.FailureReason,
			Details:       e.Details,
		}
		if e.ActorID != nil {
			item.ActorName = nameOr(names, *e.ActorID)
		}
		if e.UserID != nil {
			item.TargetName = nameOr(names, *e.UserID)
		}
		items = append(items, item)
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	data.Items = items
	data.Category = category
	data.EventType = eventType
	data.FailuresOnly = filter.FailuresOnly
	data.StartDate = startDate
	data.EndDate = endDate
	data.EventTypes = eventTypesForCategory(category)
	data.Page = page
	data.TotalPages = totalPages
	data.Total = total
	data.Shown = len(items)
	data.HasPrev = page > 1
	data.HasNext = page < totalPages
	data.PrevPage = max(page-1, 1)
	data.NextPage = min(page+1, totalPages)
	return data, nil
}

// userNames batch-resolves actor and target ids. A lookup failure only
// costs the names; ids are shown instead.
func (h *Handler) userNames(ctx context.Context, events []audit.Event) map[primitive.ObjectID]string {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for _, e := range events {
		for _, id := range []*primitive.ObjectID{e.ActorID, e.UserID} {
			if id == nil {
				continue
			}
			if _, dup := seen[*id]; !dup {
				seen[*id] = struct{}{}
				ids = append(ids, *id)
			}
		}
	}

	names := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return names
	}
	users, err := h.Users.GetByIDs(ctx, ids)
	if err != nil {
		h.Log.Warn("failed to fetch user names for audit log", zap.Error(err))
		return names
	}
	for _, u := range users {
		names[u.ID] = u.FullName
	}
	return names
}

func nameOr(names map[primitive.ObjectID]string, id primitive.ObjectID) string {
	if n, ok := names[id]; ok {
		return n
	}
	return id.Hex()
}

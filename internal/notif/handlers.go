package notif

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"fabtrak/internal/common"
)

// NotificationHandler exposes the service to the console's HTTP/JSON layer.
// Store failures never surface as HTTP errors: the service's safe defaults
// are returned with 200. 4xx is reserved for malformed requests.
type NotificationHandler struct {
	service *NotificationService
}

func NewNotificationHandler(service *NotificationService) *NotificationHandler {
	return &NotificationHandler{
		service: service,
	}
}

// Register mounts the notification and preference routes on the router. The
// router is expected to carry AuthMiddleware.
func (h *NotificationHandler) Register(router *mux.Router) {
	router.HandleFunc("/notifications", h.list).Methods("GET")
	router.HandleFunc("/notifications", h.create).Methods("POST")
	router.HandleFunc("/notifications", h.deleteMany).Methods("DELETE")
	router.HandleFunc("/notifications/system", h.createSystem).Methods("POST")
	router.HandleFunc("/notifications/unread", h.unread).Methods("GET")
	router.HandleFunc("/notifications/unread/count", h.unreadCount).Methods("GET")
	router.HandleFunc("/notifications/stats", h.stats).Methods("GET")
	router.HandleFunc("/notifications/cleanup", h.cleanup).Methods("POST")
	router.HandleFunc("/notifications/read", h.markManyRead).Methods("PUT")
	router.HandleFunc("/notifications/read-all", h.markAllRead).Methods("PUT")
	router.HandleFunc("/notifications/{id:[0-9]+}/read", h.markRead).Methods("PUT")
	router.HandleFunc("/notifications/{id:[0-9]+}", h.delete).Methods("DELETE")
	router.HandleFunc("/preferences", h.getPreferences).Methods("GET")
	router.HandleFunc("/preferences", h.updatePreferences).Methods("PUT")
}

func (h *NotificationHandler) list(w http.ResponseWriter, r *http.Request) {
	userID := common.UserIDFromContext(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	filter, err := filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	notifications := h.service.GetUserNotifications(r.Context(), userID, limit, filter)
	writeJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) unread(w http.ResponseWriter, r *http.Request) {
	userID := common.UserIDFromContext(r.Context())
	notifications := h.service.GetUnreadNotifications(r.Context(), userID)
	writeJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) unreadCount(w http.ResponseWriter, r *http.Request) {
	userID := common.UserIDFromContext(r.Context())
	count := h.service.GetUnreadCount(r.Context(), userID)
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (h *NotificationHandler) stats(w http.ResponseWriter, r *http.Request) {
	userID := common.UserIDFromContext(r.Context())
	stats := h.service.GetNotificationStats(r.Context(), userID)
	writeJSON(w, http.StatusOK, stats)
}

func (h *NotificationHandler) create(w http.ResponseWriter, r *http.Request) {
	var input common.NotificationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if input.UserID == "" || input.Title == "" || input.Message == "" {
		http.Error(w, "user_id, title, and message are required", http.StatusBadRequest)
		return
	}
	if !input.Type.Valid() {
		http.Error(w, "invalid notification type", http.StatusBadRequest)
		return
	}
	if input.Priority != "" && !input.Priority.Valid() {
		http.Error(w, "invalid priority", http.StatusBadRequest)
		return
	}
	if input.EntityType != nil && !input.EntityType.Valid() {
		http.Error(w, "invalid entity type", http.StatusBadRequest)
		return
	}

	notification := h.service.Create(r.Context(), input)
	writeJSON(w, http.StatusOK, notification)
}

type systemNotificationRequest struct {
	EntityType common.EntityType   `json:"entity_type"`
	EntityID   string              `json:"entity_id"`
	Action     common.EntityAction `json:"action"`
	EntityName string              `json:"entity_name"`
	UserIDs    []string            `json:"user_ids"`
	Priority   common.Priority     `json:"priority,omitempty"`
}

func (h *NotificationHandler) createSystem(w http.ResponseWriter, r *http.Request) {
	var req systemNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if !req.EntityType.Valid() || req.EntityID == "" || req.EntityName == "" {
		http.Error(w, "entity_type, entity_id, and entity_name are required", http.StatusBadRequest)
		return
	}
	if !req.Action.Valid() {
		http.Error(w, "invalid action", http.StatusBadRequest)
		return
	}
	if len(req.UserIDs) == 0 {
		http.Error(w, "user_ids is required", http.StatusBadRequest)
		return
	}
	if req.Priority != "" && !req.Priority.Valid() {
		http.Error(w, "invalid priority", http.StatusBadRequest)
		return
	}

	h.service.CreateSystemNotification(
		r.Context(),
		req.EntityType,
		req.EntityID,
		req.Action,
		req.EntityName,
		req.UserIDs,
		req.Priority,
	)

	w.WriteHeader(http.StatusAccepted)
}

func (h *NotificationHandler) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid notification id", http.StatusBadRequest)
		return
	}

	ok := h.service.MarkAsRead(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]bool{"success": ok})
}

type idsRequest struct {
	IDs []uint64 `json:"ids"`
}

func (h *NotificationHandler) markManyRead(w http.ResponseWriter, r *http.Request) {
	var req idsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ok := h.service.MarkMultipleAsRead(r.Context(), req.IDs)
	writeJSON(w, http.StatusOK, map[string]bool{"success": ok})
}

func (h *NotificationHandler) markAllRead(w http.ResponseWriter, r *http.Request) {
	userID := common.UserIDFromContext(r.Context())
	ok := h.service.MarkAllAsRead(r.Context(), userID)
	writeJSON(w, http.StatusOK, map[string]bool{"success": ok})
}

func (h *NotificationHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid notification id", http.StatusBadRequest)
		return
	}

	ok := h.service.DeleteNotification(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]bool{"success": ok})
}

func (h *NotificationHandler) deleteMany(w http.ResponseWriter, r *http.Request) {
	var req idsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ok := h.service.DeleteMultipleNotifications(r.Context(), req.IDs)
	writeJSON(w, http.StatusOK, map[string]bool{"success": ok})
}

func (h *NotificationHandler) cleanup(w http.ResponseWriter, r *http.Request) {
	deleted := h.service.CleanupExpiredNotifications(r.Context())
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func (h *NotificationHandler) getPreferences(w http.ResponseWriter, r *http.Request) {
	userID := common.UserIDFromContext(r.Context())

	// nil means no stored row; the UI supplies all-enabled defaults.
	prefs := h.service.GetNotificationPreferences(r.Context(), userID)
	writeJSON(w, http.StatusOK, prefs)
}

func (h *NotificationHandler) updatePreferences(w http.ResponseWriter, r *http.Request) {
	var prefs common.NotificationPreferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Preferences are always the caller's own row.
	prefs.UserID = common.UserIDFromContext(r.Context())

	ok := h.service.UpdateNotificationPreferences(r.Context(), &prefs)
	writeJSON(w, http.StatusOK, map[string]bool{"success": ok})
}

// filterFromQuery parses the optional filter query parameters. Date bounds
// use RFC 3339.
func filterFromQuery(r *http.Request) (*common.NotificationFilter, error) {
	query := r.URL.Query()
	filter := &common.NotificationFilter{}

	switch readFilter := common.ReadFilter(query.Get("type")); readFilter {
	case "", common.ReadFilterAll:
	case common.ReadFilterUnread, common.ReadFilterRead:
		filter.Type = readFilter
	default:
		return nil, errInvalidParam("type")
	}

	if raw := query.Get("priority"); raw != "" && raw != "all" {
		priority := common.Priority(raw)
		if !priority.Valid() {
			return nil, errInvalidParam("priority")
		}
		filter.Priority = priority
	}

	if raw := query.Get("entityType"); raw != "" {
		entityType := common.EntityType(raw)
		if !entityType.Valid() {
			return nil, errInvalidParam("entityType")
		}
		filter.EntityType = &entityType
	}

	filter.Search = query.Get("search")

	start, end := query.Get("start"), query.Get("end")
	if start != "" && end != "" {
		startTime, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return nil, errInvalidParam("start")
		}
		endTime, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return nil, errInvalidParam("end")
		}
		filter.DateRange = &common.DateRange{Start: startTime, End: endTime}
	}

	return filter, nil
}

type paramError string

func (e paramError) Error() string {
	return "invalid " + string(e) + " parameter"
}

func errInvalidParam(name string) error {
	return paramError(name)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

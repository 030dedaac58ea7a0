package notif

import (
	"context"
	"log"
	"time"

	"fabtrak/internal/common"
	"fabtrak/internal/config"
)

const defaultFetchLimit = 50

// NotificationService is the core of the alerting subsystem: creation,
// fan-out from business events, read-state transitions, filtered retrieval,
// statistics, expiry sweeping, and preference handling.
//
// Every store-facing method swallows failures at the boundary: it logs the
// error and returns a safe default instead of propagating. Callers therefore
// cannot distinguish "genuinely empty" from "failed". This is a known
// tradeoff of this design, not an accident.
type NotificationService struct {
	repo       common.NotificationRepository
	prefRepo   common.PreferenceRepository
	hub        *DeliveryHub
	fetchLimit int
}

func NewNotificationService(
	cfg *config.Config,
	repo common.NotificationRepository,
	prefRepo common.PreferenceRepository,
	pushDispatcher common.PushDispatcher,
	emailDispatcher common.EmailDispatcher,
) *NotificationService {

	hub := NewDeliveryHub(cfg.Notification.Workers, cfg.Notification.ChannelBufferSize)

	// The push observer tolerates a nil dispatcher (environment without push).
	hub.Subscribe(NewPushDeliveryObserver(pushDispatcher))

	if emailDispatcher != nil {
		hub.Subscribe(NewEmailDeliveryObserver(emailDispatcher))
	}

	fetchLimit := cfg.Notification.DefaultFetchLimit
	if fetchLimit <= 0 {
		fetchLimit = defaultFetchLimit
	}

	return &NotificationService{
		repo:       repo,
		prefRepo:   prefRepo,
		hub:        hub,
		fetchLimit: fetchLimit,
	}
}

// fail is the single store-error boundary: log and let the caller fall
// through to its safe default. Nothing raises past the service.
func (s *NotificationService) fail(op string, err error) {
	log.Printf("notification service: %s: %v", op, err)
}

// Create persists a new notification and hands it to the delivery hub.
// Returns nil on store failure; creation failure is non-fatal to the caller.
func (s *NotificationService) Create(ctx context.Context, input common.NotificationInput) *common.Notification {
	priority := input.Priority
	if priority == "" {
		priority = common.PriorityNormal
	}

	n := &common.Notification{
		UserID:     input.UserID,
		Title:      input.Title,
		Message:    input.Message,
		Type:       input.Type,
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		Read:       false,
		ActionURL:  input.ActionURL,
		Priority:   priority,
		ExpiresAt:  input.ExpiresAt,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.fail("create", err)
		return nil
	}

	// Persistence is the source of truth; delivery is a best-effort side
	// channel and must never invalidate the stored record.
	s.hub.NotifyAsync(common.DeliveryEvent{Notification: n})

	return n
}

// CreateSystemNotification fans a business event out to every recipient as an
// independent notification. Not transactional: partial failure across
// recipients is possible and not reported back.
func (s *NotificationService) CreateSystemNotification(
	ctx context.Context,
	entityType common.EntityType,
	entityID string,
	action common.EntityAction,
	entityName string,
	userIDs []string,
	priority common.Priority,
) {
	title, message, typ, ok := systemTemplate(action, entityName)
	if !ok {
		log.Printf("notification service: unknown entity action %q", action)
		return
	}

	if priority == "" {
		priority = common.PriorityNormal
	}
	actionURL := entityActionURL(entityType, entityID)

	for _, userID := range userIDs {
		et := entityType
		eid := entityID
		url := actionURL

		s.Create(ctx, common.NotificationInput{
			UserID:     userID,
			Title:      title,
			Message:    message,
			Type:       typ,
			EntityType: &et,
			EntityID:   &eid,
			ActionURL:  &url,
			Priority:   priority,
		})
	}
}

// MarkAsRead transitions one record to read. Idempotent: re-marking an
// already-read record succeeds.
func (s *NotificationService) MarkAsRead(ctx context.Context, id uint64) bool {
	if err := s.repo.MarkAsRead(ctx, id); err != nil {
		s.fail("mark as read", err)
		return false
	}
	return true
}

// MarkMultipleAsRead applies the read transition to a set in one store call.
func (s *NotificationService) MarkMultipleAsRead(ctx context.Context, ids []uint64) bool {
	if err := s.repo.MarkManyAsRead(ctx, ids); err != nil {
		s.fail("mark multiple as read", err)
		return false
	}
	return true
}

// MarkAllAsRead transitions every currently-unread record owned by the user.
// No snapshot isolation: records created during the operation may be missed.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) bool {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		s.fail("mark all as read", err)
		return false
	}
	return true
}

// DeleteNotification removes one record unconditionally, regardless of read
// state. There is no soft delete or undo.
func (s *NotificationService) DeleteNotification(ctx context.Context, id uint64) bool {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.fail("delete", err)
		return false
	}
	return true
}

func (s *NotificationService) DeleteMultipleNotifications(ctx context.Context, ids []uint64) bool {
	if err := s.repo.DeleteMany(ctx, ids); err != nil {
		s.fail("delete multiple", err)
		return false
	}
	return true
}

// CleanupExpiredNotifications sweeps every record whose expiresAt has passed,
// across all users, regardless of read state. Safe to call repeatedly.
// Returns the number of records removed (0 on failure).
func (s *NotificationService) CleanupExpiredNotifications(ctx context.Context) int64 {
	deleted, err := s.repo.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.fail("cleanup expired", err)
		return 0
	}

	if deleted > 0 {
		log.Printf("notification service: swept %d expired notifications", deleted)
	}

	return deleted
}

// GetUserNotifications returns the user's notifications, newest first,
// truncated to limit (default 50), narrowed by the optional filter.
// Returns an empty slice on store failure.
func (s *NotificationService) GetUserNotifications(
	ctx context.Context,
	userID string,
	limit int,
	filter *common.NotificationFilter,
) []*common.Notification {
	if limit <= 0 {
		limit = s.fetchLimit
	}

	q := common.NotificationQuery{
		UserID: userID,
		Limit:  limit,
	}

	if filter != nil {
		switch filter.Type {
		case common.ReadFilterUnread:
			unread := false
			q.Read = &unread
		case common.ReadFilterRead:
			read := true
			q.Read = &read
		}

		if filter.Priority != "" {
			q.Priority = filter.Priority
		}
		q.EntityType = filter.EntityType
		q.Search = filter.Search
		if filter.DateRange != nil {
			start := filter.DateRange.Start
			end := filter.DateRange.End
			q.Start = &start
			q.End = &end
		}
	}

	notifications, err := s.repo.List(ctx, q)
	if err != nil {
		s.fail("get user notifications", err)
		return []*common.Notification{}
	}
	if notifications == nil {
		notifications = []*common.Notification{}
	}

	return notifications
}

// GetUnreadNotifications returns every unread notification for the user, with
// no limit applied.
func (s *NotificationService) GetUnreadNotifications(ctx context.Context, userID string) []*common.Notification {
	unread := false

	notifications, err := s.repo.List(ctx, common.NotificationQuery{
		UserID: userID,
		Read:   &unread,
	})
	if err != nil {
		s.fail("get unread notifications", err)
		return []*common.Notification{}
	}
	if notifications == nil {
		notifications = []*common.Notification{}
	}

	return notifications
}

// GetUnreadCount runs a dedicated count query. The general fetch path is
// capped by limit and must not be used to derive the badge count.
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID string) int64 {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		s.fail("get unread count", err)
		return 0
	}
	return count
}

// GetNotificationStats fetches all of the user's notifications and computes
// totals plus per-type and per-priority counts in one pass. Returns a zeroed
// structure on store failure.
func (s *NotificationService) GetNotificationStats(ctx context.Context, userID string) common.NotificationStats {
	stats := common.NotificationStats{
		ByType:     make(map[common.NotificationType]int64),
		ByPriority: make(map[common.Priority]int64),
	}

	notifications, err := s.repo.List(ctx, common.NotificationQuery{UserID: userID})
	if err != nil {
		s.fail("get notification stats", err)
		return stats
	}

	for _, n := range notifications {
		stats.Total++
		if n.Read {
			stats.Read++
		} else {
			stats.Unread++
		}

		stats.ByType[n.Type]++

		priority := n.Priority
		if priority == "" {
			priority = common.PriorityNormal
		}
		stats.ByPriority[priority]++
	}

	return stats
}

// GetNotificationPreferences returns the stored preferences row, or nil when
// the user has none. The service does not materialize a default row; the
// caller supplies all-enabled defaults on nil.
func (s *NotificationService) GetNotificationPreferences(ctx context.Context, userID string) *common.NotificationPreferences {
	prefs, err := s.prefRepo.ByUserID(ctx, userID)
	if err != nil {
		s.fail("get preferences", err)
		return nil
	}
	return prefs
}

// UpdateNotificationPreferences upserts the row keyed by UserID. The store
// assigns every flag column on conflict, so pass a full record.
func (s *NotificationService) UpdateNotificationPreferences(ctx context.Context, prefs *common.NotificationPreferences) bool {
	if prefs == nil || prefs.UserID == "" {
		log.Printf("notification service: update preferences called without user id")
		return false
	}

	if err := s.prefRepo.Upsert(ctx, prefs); err != nil {
		s.fail("update preferences", err)
		return false
	}
	return true
}

func (s *NotificationService) Shutdown() {
	s.hub.Shutdown()
	log.Println("NotificationService shutdown complete")
}

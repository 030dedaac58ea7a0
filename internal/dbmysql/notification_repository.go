package dbmysql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"fabtrak/internal/common"
)

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) common.NotificationRepository {
	return &notificationRepository{
		db: db,
	}
}

func (r *notificationRepository) Create(ctx context.Context, n *common.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) List(ctx context.Context, q common.NotificationQuery) ([]*common.Notification, error) {
	var notifications []*common.Notification

	query := r.db.WithContext(ctx).
		Where("user_id = ?", q.UserID).
		Order("created_at DESC")

	if q.Read != nil {
		query = query.Where("is_read = ?", *q.Read)
	}

	if q.Priority != "" {
		query = query.Where("priority = ?", q.Priority)
	}

	if q.EntityType != nil {
		query = query.Where("entity_type = ?", *q.EntityType)
	}

	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(message) LIKE ?)", pattern, pattern)
	}

	if q.Start != nil {
		query = query.Where("created_at >= ?", *q.Start)
	}

	if q.End != nil {
		query = query.Where("created_at <= ?", *q.End)
	}

	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	if err := query.Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&common.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

// MarkAsRead is idempotent: marking an already-read or missing record
// affects zero rows and is not an error.
func (r *notificationRepository) MarkAsRead(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).
		Model(&common.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)

	if result.Error != nil {
		return fmt.Errorf("failed to mark notification as read: %w", result.Error)
	}

	return nil
}

func (r *notificationRepository) MarkManyAsRead(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&common.Notification{}).
		Where("id IN ?", ids).
		Update("is_read", true)

	if result.Error != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", result.Error)
	}

	return nil
}

// MarkAllAsRead transitions every unread record owned by the user at the time
// the statement runs; concurrent creates are not included.
func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID string) error {
	result := r.db.WithContext(ctx).
		Model(&common.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)

	if result.Error != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", result.Error)
	}

	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&common.Notification{}, "id = ?", id)

	if result.Error != nil {
		return fmt.Errorf("failed to delete notification: %w", result.Error)
	}

	return nil
}

func (r *notificationRepository) DeleteMany(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Delete(&common.Notification{}, "id IN ?", ids)

	if result.Error != nil {
		return fmt.Errorf("failed to delete notifications: %w", result.Error)
	}

	return nil
}

// DeleteExpired removes every record whose expires_at has passed, across all
// users. Records without expires_at are never touched.
func (r *notificationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Delete(&common.Notification{})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired notifications: %w", result.Error)
	}

	return result.RowsAffected, nil
}

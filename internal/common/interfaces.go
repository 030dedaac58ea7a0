package common

import (
	"context"
	"time"
)

// NotificationRepository is the notification store contract. Implementations
// wrap the hosted relational store; the service treats every failure as
// non-fatal.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	List(ctx context.Context, q NotificationQuery) ([]*Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkAsRead(ctx context.Context, id uint64) error
	MarkManyAsRead(ctx context.Context, ids []uint64) error
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id uint64) error
	DeleteMany(ctx context.Context, ids []uint64) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PreferenceRepository stores one NotificationPreferences row per user.
// ByUserID returns (nil, nil) when no row exists; Upsert merges by user_id,
// so callers intending a full overwrite must pass a complete record.
type PreferenceRepository interface {
	ByUserID(ctx context.Context, userID string) (*NotificationPreferences, error)
	Upsert(ctx context.Context, prefs *NotificationPreferences) error
}

// PushDispatcher is the consumed browser-push collaborator. The environment
// may not support push; a nil dispatcher is a normal "not delivered" outcome.
type PushDispatcher interface {
	Show(title, body string, data map[string]string) error
}

// EmailDispatcher is the consumed email collaborator, best-effort only.
type EmailDispatcher interface {
	Send(userID string, n *Notification) error
}

type DeliveryObserver interface {
	Update(event DeliveryEvent) error
	Name() string
}

type DeliverySubject interface {
	Subscribe(observer DeliveryObserver)
	Unsubscribe(observer DeliveryObserver)
	Notify(event DeliveryEvent)
	NotifyAsync(event DeliveryEvent)
}

package common

import (
	"time"
)

type NotificationType string

const (
	TypeInfo    NotificationType = "info"
	TypeSuccess NotificationType = "success"
	TypeWarning NotificationType = "warning"
	TypeError   NotificationType = "error"
)

func (t NotificationType) Valid() bool {
	switch t {
	case TypeInfo, TypeSuccess, TypeWarning, TypeError:
		return true
	}
	return false
}

// Priority is an advisory severity tier used for filtering and display,
// not for delivery ordering.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// EntityType tags which business object a notification concerns.
type EntityType string

const (
	EntitySpool     EntityType = "spool"
	EntityProject   EntityType = "project"
	EntityPersonnel EntityType = "personnel"
	EntityWorkOrder EntityType = "workOrder"
	EntityShipment  EntityType = "shipment"
	EntityInventory EntityType = "inventory"
)

func (e EntityType) Valid() bool {
	switch e {
	case EntitySpool, EntityProject, EntityPersonnel, EntityWorkOrder, EntityShipment, EntityInventory:
		return true
	}
	return false
}

// EntityAction is the business event that triggers a system notification.
type EntityAction string

const (
	ActionCreated       EntityAction = "created"
	ActionUpdated       EntityAction = "updated"
	ActionDeleted       EntityAction = "deleted"
	ActionStatusChanged EntityAction = "status_changed"
)

func (a EntityAction) Valid() bool {
	switch a {
	case ActionCreated, ActionUpdated, ActionDeleted, ActionStatusChanged:
		return true
	}
	return false
}

type Notification struct {
	ID         uint64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string           `gorm:"not null;index;size:36" json:"user_id"`
	Title      string           `gorm:"not null;size:255" json:"title"`
	Message    string           `gorm:"not null;type:text" json:"message"`
	Type       NotificationType `gorm:"not null;size:20" json:"type"`
	EntityType *EntityType      `gorm:"size:20;index" json:"entity_type,omitempty"`
	EntityID   *string          `gorm:"size:36" json:"entity_id,omitempty"`
	Read       bool             `gorm:"column:is_read;not null;default:false;index" json:"read"`
	ActionURL  *string          `gorm:"size:512" json:"action_url,omitempty"`
	Priority   Priority         `gorm:"not null;size:10;default:'normal'" json:"priority"`
	ExpiresAt  *time.Time       `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt  time.Time        `gorm:"index" json:"created_at"`
}

// NotificationInput is a Notification minus the fields the service assigns
// (id, createdAt, read).
type NotificationInput struct {
	UserID     string           `json:"user_id"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	Type       NotificationType `json:"type"`
	EntityType *EntityType      `json:"entity_type,omitempty"`
	EntityID   *string          `json:"entity_id,omitempty"`
	ActionURL  *string          `json:"action_url,omitempty"`
	Priority   Priority         `json:"priority,omitempty"`
	ExpiresAt  *time.Time       `json:"expires_at,omitempty"`
}

// NotificationPreferences holds one row per user. The channel and per-domain
// flags gate future delivery of domain events; the service stores and serves
// them but does not consult them when creating notifications.
type NotificationPreferences struct {
	UserID             string    `gorm:"primaryKey;size:36" json:"user_id"`
	EmailNotifications bool      `gorm:"not null;default:true" json:"email_notifications"`
	PushNotifications  bool      `gorm:"not null;default:true" json:"push_notifications"`
	SpoolUpdates       bool      `gorm:"not null;default:true" json:"spool_updates"`
	ProjectUpdates     bool      `gorm:"not null;default:true" json:"project_updates"`
	PersonnelUpdates   bool      `gorm:"not null;default:true" json:"personnel_updates"`
	WorkOrderUpdates   bool      `gorm:"not null;default:true" json:"work_order_updates"`
	ShipmentUpdates    bool      `gorm:"not null;default:true" json:"shipment_updates"`
	InventoryAlerts    bool      `gorm:"not null;default:true" json:"inventory_alerts"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ReadFilter selects by read state: "unread", "read", or "all".
type ReadFilter string

const (
	ReadFilterAll    ReadFilter = "all"
	ReadFilterUnread ReadFilter = "unread"
	ReadFilterRead   ReadFilter = "read"
)

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NotificationFilter narrows a user-scoped fetch. Zero values apply no
// restriction; Priority "" means all priorities.
type NotificationFilter struct {
	Type       ReadFilter  `json:"type,omitempty"`
	Priority   Priority    `json:"priority,omitempty"`
	EntityType *EntityType `json:"entity_type,omitempty"`
	DateRange  *DateRange  `json:"date_range,omitempty"`
	Search     string      `json:"search,omitempty"`
}

// NotificationQuery is the store-level shape of a filtered select. Read nil
// means both states; Start/End are inclusive bounds on created_at; Limit 0
// means unbounded. Results are always ordered created_at descending.
type NotificationQuery struct {
	UserID     string
	Read       *bool
	Priority   Priority
	EntityType *EntityType
	Search     string
	Start      *time.Time
	End        *time.Time
	Limit      int
}

type NotificationStats struct {
	Total      int64                      `json:"total"`
	Unread     int64                      `json:"unread"`
	Read       int64                      `json:"read"`
	ByType     map[NotificationType]int64 `json:"by_type"`
	ByPriority map[Priority]int64         `json:"by_priority"`
}

// DeliveryEvent is the fire-and-forget hand-off to the delivery observers
// after a notification has been persisted.
type DeliveryEvent struct {
	Notification *Notification
}

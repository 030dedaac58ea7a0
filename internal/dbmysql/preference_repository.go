package dbmysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fabtrak/internal/common"
)

type preferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) common.PreferenceRepository {
	return &preferenceRepository{
		db: db,
	}
}

// ByUserID returns (nil, nil) when the user has no stored preferences; the
// caller supplies application-level defaults.
func (r *preferenceRepository) ByUserID(ctx context.Context, userID string) (*common.NotificationPreferences, error) {
	var prefs common.NotificationPreferences

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&prefs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	return &prefs, nil
}

// Upsert inserts or updates the row keyed by user_id. The update assigns every
// flag column, so a caller wanting a partial change must read-modify-write.
func (r *preferenceRepository) Upsert(ctx context.Context, prefs *common.NotificationPreferences) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"email_notifications",
				"push_notifications",
				"spool_updates",
				"project_updates",
				"personnel_updates",
				"work_order_updates",
				"shipment_updates",
				"inventory_alerts",
				"updated_at",
			}),
		}).
		Create(prefs).Error
	if err != nil {
		return fmt.Errorf("failed to upsert preferences: %w", err)
	}

	return nil
}

package repository

import (
	"time"

	"trailhunt_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeviceSessionRepository struct {
	DB *gorm.DB
}

func NewDeviceSessionRepository(db *gorm.DB) *DeviceSessionRepository {
	return &DeviceSessionRepository{DB: db}
}

// Upsert 同一 (user, device) 只保留一行，重复登录只刷新活跃时间
func (r *DeviceSessionRepository) Upsert(tx *gorm.DB, userID uint, deviceID string) error {
	now := time.Now()
	session := model.DeviceSession{
		UserID:     userID,
		DeviceID:   deviceID,
		LastActive: now,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "device_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_active": now,
			"updated_at":  now,
		}),
	}).Create(&session).Error
}

func (r *DeviceSessionRepository) Touch(userID uint, deviceID string) error {
	return r.DB.Model(&model.DeviceSession{}).
		Where("user_id = ? AND device_id = ?", userID, deviceID).
		Update("last_active", time.Now()).Error
}

func (r *DeviceSessionRepository) ListByUser(userID uint) ([]model.DeviceSession, error) {
	var sessions []model.DeviceSession
	err := r.DB.Where("user_id = ?", userID).Order("last_active DESC").Find(&sessions).Error
	return sessions, err
}

package repository

import (
	"time"

	"trailhunt_backend/internal/model"

	"gorm.io/gorm"
)

type ActivityLogRepository struct {
	DB *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{DB: db}
}

// Append 在调用方的事务内追加一条事件记录
func (r *ActivityLogRepository) Append(tx *gorm.DB, entry *model.ActivityLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return tx.Create(entry).Error
}

// ListSince 严格晚于 since 的事件，时间升序。
// 日志只增不改，同一 since 的两次调用结果一致
func (r *ActivityLogRepository) ListSince(since time.Time) ([]model.ActivityLog, error) {
	var entries []model.ActivityLog
	err := r.DB.Where("created_at > ?", since).Order("created_at ASC").Find(&entries).Error
	return entries, err
}

func (r *ActivityLogRepository) ListSinceForUser(since time.Time, userID uint) ([]model.ActivityLog, error) {
	var entries []model.ActivityLog
	err := r.DB.Where("created_at > ? AND user_id = ?", since, userID).
		Order("created_at ASC").Find(&entries).Error
	return entries, err
}

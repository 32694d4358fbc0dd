package model

import (
	"encoding/json"
	"time"
)

type ActivityKind string

const (
	ActivitySubmission ActivityKind = "submission"
	ActivityReview     ActivityKind = "review"
)

// ActivityLog 仅追加的事件记录，驱动增量轮询（changesSince）。
// 不使用 BaseModel：没有更新、没有软删除
// swagger:model ActivityLog
type ActivityLog struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"userId"`
	Kind      ActivityKind    `gorm:"size:30;not null" json:"kind"`
	Payload   json.RawMessage `gorm:"type:json" json:"payload"`
	CreatedAt time.Time       `gorm:"index" json:"createdAt"`
}

func (ActivityLog) TableName() string {
	return "activity_log"
}

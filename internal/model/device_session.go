package model

import "time"

// DeviceSession 历史登录设备记录。仅 users.current_device_id 指向的设备是当前有效会话
// swagger:model DeviceSession
type DeviceSession struct {
	BaseModel
	UserID     uint      `gorm:"not null;uniqueIndex:idx_session_user_device" json:"userId"`
	DeviceID   string    `gorm:"size:255;not null;uniqueIndex:idx_session_user_device" json:"deviceId"`
	LastActive time.Time `gorm:"not null" json:"lastActive"`
}

func (DeviceSession) TableName() string {
	return "device_sessions"
}

package model

import (
	"time"
)

type UserRole string

const (
	Admin       UserRole = "admin"
	Participant UserRole = "participant"
)

// swagger:model User
type User struct {
	BaseModel
	Username string   `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"type:enum('admin','participant');default:'participant'" json:"role"`
	// 当前生效的设备标识，空串表示未登录。会话互斥的唯一依据：
	// 每次登录覆盖，旧设备的令牌随之失效
	CurrentDeviceID string    `gorm:"size:255" json:"-"`
	LastLogin       time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

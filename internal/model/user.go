package model

import (
	"time"
)

// swagger:model User
type User struct {
	BaseModel
	Email       string    `gorm:"size:100;unique;not null" json:"email"`
	Password    string    `gorm:"size:100;not null" json:"-"`
	FirstName   string    `gorm:"size:30" json:"firstName"`
	LastName    string    `gorm:"size:30" json:"lastName"`
	IsActive    bool      `gorm:"default:false" json:"isActive"`   // OTP 验证通过后才激活
	IsVerified  bool      `gorm:"default:false" json:"isVerified"` // 邮箱是否已验证
	DeviceToken string    `gorm:"size:255" json:"-"`               // 推送通知的设备令牌
	LastLogin   time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

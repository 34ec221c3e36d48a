package model

import "time"

// 专注分数相关常量
const (
	MinReadingDuration = 5   // 单次会话目标时长下限（分钟）
	MaxReadingDuration = 180 // 单次会话目标时长上限（分钟）
	DefaultFocusScore  = 100
)

// ReadingSession 一次计时的专注阅读会话
// 状态机：active -> completed（终态，不可重开）
// swagger:model ReadingSession
type ReadingSession struct {
	BaseModel
	UserID          uint       `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	BookID          string     `gorm:"size:255;not null" json:"bookId"`
	StartTime       time.Time  `gorm:"not null" json:"startTime"`
	EndTime         *time.Time `json:"endTime"`
	ReadingDuration uint       `gorm:"not null" json:"readingDuration"` // 目标时长（分钟），5-180
	Interruptions   uint       `gorm:"default:0" json:"interruptions"`
	FocusScore      uint       `gorm:"default:100" json:"focusScore"`
	Completed       bool       `gorm:"default:false" json:"completed"`
	HardLock        bool       `gorm:"default:false" json:"hardLock"` // 会话级强锁标志，由客户端执行
}

func (ReadingSession) TableName() string {
	return "reading_sessions"
}

// BlockedApp 用户配置的屏蔽应用，与会话生命周期无关
type BlockedApp struct {
	BaseModel
	UserID      uint   `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	AppName     string `gorm:"size:100;not null" json:"appName"`
	PackageName string `gorm:"size:100" json:"packageName"`
}

func (BlockedApp) TableName() string {
	return "blocked_apps"
}

// BlockedWebsite 用户配置的屏蔽网站
type BlockedWebsite struct {
	BaseModel
	UserID uint   `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	URL    string `gorm:"size:512;not null" json:"url"`
}

func (BlockedWebsite) TableName() string {
	return "blocked_websites"
}

package model

import "time"

type GoalType string

const (
	GoalTypePages   GoalType = "pages"
	GoalTypeMinutes GoalType = "minutes"
)

// ReadingGoal 记录用户的阅读目标、进度与连续打卡
// 每个用户只有一条记录，设置目标时 upsert。
// 不变式：LongestStreak >= StreakCount
// swagger:model ReadingGoal
type ReadingGoal struct {
	BaseModel
	UserID            uint       `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"userId"`
	GoalType          GoalType   `gorm:"type:enum('pages','minutes');default:'pages'" json:"goalType"`
	GoalTarget        uint       `gorm:"not null" json:"goalTarget"`
	Progress          uint       `gorm:"default:0" json:"progress"`
	IsCompleted       bool       `gorm:"default:false" json:"isCompleted"`
	StreakCount       uint       `gorm:"default:0" json:"streakCount"`
	LongestStreak     uint       `gorm:"default:0" json:"longestStreak"`
	LastCompletedDate *time.Time `gorm:"type:date" json:"lastCompletedDate"`
}

func (ReadingGoal) TableName() string {
	return "reading_goals"
}

// ReadingHistory 每日连续打卡的不可变历史记录，(user, date) 唯一
type ReadingHistory struct {
	BaseModel
	UserID      uint      `gorm:"index:idx_user_reading_date,unique;type:bigint unsigned;not null" json:"userId"`
	Date        time.Time `gorm:"index:idx_user_reading_date,unique;type:date;not null" json:"date"`
	StreakCount uint      `gorm:"not null" json:"streakCount"`
}

func (ReadingHistory) TableName() string {
	return "reading_histories"
}

package model

// Badge 静态参考数据：徽章及其所需的连续天数
type Badge struct {
	BaseModel
	Name           string `gorm:"size:100;unique;not null" json:"name"`
	Description    string `gorm:"type:text" json:"description"`
	StreakRequired uint   `gorm:"not null" json:"streakRequired"` // 获得徽章所需连续天数
	ImageURL       string `gorm:"size:512" json:"imageUrl"`
}

func (Badge) TableName() string {
	return "badges"
}

// UserBadge 用户已获得的徽章，(user, badge) 唯一保证至多授予一次
type UserBadge struct {
	BaseModel
	UserID  uint  `gorm:"index:idx_user_badge,unique;type:bigint unsigned;not null" json:"userId"`
	BadgeID uint  `gorm:"index:idx_user_badge,unique;type:bigint unsigned;not null" json:"badgeId"`
	Badge   Badge `json:"badge"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}

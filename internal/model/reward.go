package model

type RewardType string

const (
	RewardDiscount RewardType = "discount"
	RewardFreeBook RewardType = "free_book"
)

// Reward 徽章解锁的奖励，一个徽章至多关联一个奖励
type Reward struct {
	BaseModel
	BadgeID       uint       `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"badgeId"`
	Description   string     `gorm:"size:255;not null" json:"description"`
	RewardType    RewardType `gorm:"type:enum('discount','free_book')" json:"rewardType"`
	DiscountValue *float64   `gorm:"type:decimal(5,2)" json:"discountValue,omitempty"`
	FreeBookID    *uint      `gorm:"type:bigint unsigned" json:"freeBookId,omitempty"`
}

func (Reward) TableName() string {
	return "rewards"
}

// UserReward 用户已获得的奖励，(user, reward) 唯一
type UserReward struct {
	BaseModel
	UserID   uint   `gorm:"index:idx_user_reward,unique;type:bigint unsigned;not null" json:"userId"`
	RewardID uint   `gorm:"index:idx_user_reward,unique;type:bigint unsigned;not null" json:"rewardId"`
	Redeemed bool   `gorm:"default:false" json:"redeemed"`
	Reward   Reward `json:"reward"`
}

func (UserReward) TableName() string {
	return "user_rewards"
}

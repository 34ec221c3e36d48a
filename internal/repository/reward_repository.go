package repository

import (
	"focusread_backend/internal/model"

	"gorm.io/gorm"
)

type RewardRepository struct {
	DB *gorm.DB
}

func NewRewardRepository(db *gorm.DB) *RewardRepository {
	return &RewardRepository{DB: db}
}

// FindByBadgeID 查找徽章关联的奖励，没有奖励时返回 gorm.ErrRecordNotFound
func (r *RewardRepository) FindByBadgeID(badgeID uint) (*model.Reward, error) {
	var reward model.Reward
	err := r.DB.Where("badge_id = ?", badgeID).First(&reward).Error
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *RewardRepository) CreateUserReward(userReward *model.UserReward) error {
	return r.DB.Create(userReward).Error
}

func (r *RewardRepository) FindUnredeemedByUserID(userID uint) ([]model.UserReward, error) {
	var rewards []model.UserReward
	err := r.DB.Preload("Reward").
		Where("user_id = ? AND redeemed = ?", userID, false).
		Order("created_at desc").Find(&rewards).Error
	return rewards, err
}

func (r *RewardRepository) FindUnredeemedByID(id, userID uint) (*model.UserReward, error) {
	var reward model.UserReward
	err := r.DB.Preload("Reward").
		Where("id = ? AND user_id = ? AND redeemed = ?", id, userID, false).
		First(&reward).Error
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *RewardRepository) UpdateUserReward(userReward *model.UserReward) error {
	return r.DB.Save(userReward).Error
}

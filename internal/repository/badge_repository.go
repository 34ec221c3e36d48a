package repository

import (
	"focusread_backend/internal/model"

	"gorm.io/gorm"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

func (r *BadgeRepository) FindAll() ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Order("streak_required").Find(&badges).Error
	return badges, err
}

// FindEligible 返回门槛不高于当前连续天数的全部徽章，按门槛升序
func (r *BadgeRepository) FindEligible(streak uint) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Where("streak_required <= ?", streak).
		Order("streak_required").Find(&badges).Error
	return badges, err
}

type UserBadgeRepository struct {
	DB *gorm.DB
}

func NewUserBadgeRepository(db *gorm.DB) *UserBadgeRepository {
	return &UserBadgeRepository{DB: db}
}

func (r *UserBadgeRepository) Exists(userID, badgeID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserBadgeRepository) Create(userBadge *model.UserBadge) error {
	return r.DB.Create(userBadge).Error
}

func (r *UserBadgeRepository) FindByUserID(userID uint) ([]model.UserBadge, error) {
	var userBadges []model.UserBadge
	err := r.DB.Preload("Badge").
		Where("user_id = ?", userID).
		Order("created_at").Find(&userBadges).Error
	return userBadges, err
}

package repository

import (
	"focusread_backend/internal/model"
	"focusread_backend/internal/util"

	"gorm.io/gorm"
)

// BlockListRepository 处理用户的屏蔽应用/网站配置
type BlockListRepository struct {
	DB *gorm.DB
}

func NewBlockListRepository(db *gorm.DB) *BlockListRepository {
	return &BlockListRepository{DB: db}
}

func (r *BlockListRepository) AppsByUserID(userID uint) ([]model.BlockedApp, error) {
	var apps []model.BlockedApp
	err := r.DB.Where("user_id = ?", userID).Find(&apps).Error
	return apps, err
}

func (r *BlockListRepository) WebsitesByUserID(userID uint) ([]model.BlockedWebsite, error) {
	var sites []model.BlockedWebsite
	err := r.DB.Where("user_id = ?", userID).Find(&sites).Error
	return sites, err
}

func (r *BlockListRepository) CreateApp(app *model.BlockedApp) error {
	return r.DB.Create(app).Error
}

func (r *BlockListRepository) DeleteApp(id, userID uint) error {
	res := r.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&model.BlockedApp{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrBlockEntryNotFound
	}
	return nil
}

func (r *BlockListRepository) CreateWebsite(site *model.BlockedWebsite) error {
	return r.DB.Create(site).Error
}

func (r *BlockListRepository) DeleteWebsite(id, userID uint) error {
	res := r.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&model.BlockedWebsite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrBlockEntryNotFound
	}
	return nil
}

package repository

import (
	"focusread_backend/internal/model"
	"focusread_backend/internal/util"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReadingGoalRepository 处理阅读目标与打卡历史的数据访问
type ReadingGoalRepository struct {
	DB *gorm.DB
}

func NewReadingGoalRepository(db *gorm.DB) *ReadingGoalRepository {
	return &ReadingGoalRepository{DB: db}
}

func (r *ReadingGoalRepository) FindByUserID(userID uint) (*model.ReadingGoal, error) {
	var goal model.ReadingGoal
	err := r.DB.Where("user_id = ?", userID).First(&goal).Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// Upsert 每个用户只保留一条目标记录，设置目标时覆盖类型和数值并清零进度
func (r *ReadingGoalRepository) Upsert(goal *model.ReadingGoal) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"goal_type", "goal_target", "progress", "is_completed", "updated_at",
		}),
	}).Create(goal).Error
}

func (r *ReadingGoalRepository) Update(goal *model.ReadingGoal) error {
	return r.DB.Save(goal).Error
}

func (r *ReadingGoalRepository) FindAll() ([]model.ReadingGoal, error) {
	var goals []model.ReadingGoal
	err := r.DB.Find(&goals).Error
	return goals, err
}

// SaveCompletion 目标完成的持久化：同一事务内更新目标并追加历史，
// (user, date) 已有历史时整体回滚，保证不出现部分写入。
func (r *ReadingGoalRepository) SaveCompletion(goal *model.ReadingGoal, history *model.ReadingHistory) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.ReadingHistory{}).
			Where("user_id = ? AND date = ?", history.UserID, history.Date).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return util.ErrHistoryExists
		}

		if err := tx.Save(goal).Error; err != nil {
			return err
		}
		return tx.Create(history).Error
	})
}

// ReadingHistoryRepository 打卡历史的只读访问
type ReadingHistoryRepository struct {
	DB *gorm.DB
}

func NewReadingHistoryRepository(db *gorm.DB) *ReadingHistoryRepository {
	return &ReadingHistoryRepository{DB: db}
}

func (r *ReadingHistoryRepository) FindByUserSince(userID uint, since time.Time) ([]model.ReadingHistory, error) {
	var records []model.ReadingHistory
	err := r.DB.Where("user_id = ? AND date >= ?", userID, since).
		Order("date").Find(&records).Error
	return records, err
}

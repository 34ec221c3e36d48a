package repository

import (
	"focusread_backend/internal/model"

	"gorm.io/gorm"
)

// SessionRepository 处理专注阅读会话的数据访问
type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.ReadingSession) error {
	return r.DB.Create(session).Error
}

// FindActiveByUserID 返回用户最近一个未完成的会话
func (r *SessionRepository) FindActiveByUserID(userID uint) (*model.ReadingSession, error) {
	var session model.ReadingSession
	err := r.DB.Where("user_id = ? AND completed = ?", userID, false).
		Order("start_time desc").First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) HasActiveByUserID(userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.ReadingSession{}).
		Where("user_id = ? AND completed = ?", userID, false).
		Count(&count).Error
	return count > 0, err
}

func (r *SessionRepository) Update(session *model.ReadingSession) error {
	return r.DB.Save(session).Error
}

func (r *SessionRepository) FindByUserID(userID uint) ([]model.ReadingSession, error) {
	var sessions []model.ReadingSession
	err := r.DB.Where("user_id = ?", userID).
		Order("start_time desc").Find(&sessions).Error
	return sessions, err
}

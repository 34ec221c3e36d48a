package service

import (
	"errors"
	"focusread_backend/internal/model"
	"focusread_backend/internal/repository"
	"focusread_backend/internal/util"
	"math"
	"time"

	"gorm.io/gorm"
)

// FocusService 管理专注阅读会话的生命周期与专注分数。
// 会话状态机：active -> completed，终态后不可变。
// 每个用户同一时刻只允许一个未完成会话。
type FocusService struct {
	SessionRepo repository.SessionStore
	Blocking    *BlockingService

	now func() time.Time
}

func NewFocusService(sessionRepo repository.SessionStore, blocking *BlockingService) *FocusService {
	return &FocusService{
		SessionRepo: sessionRepo,
		Blocking:    blocking,
		now:         time.Now,
	}
}

// StartSession 开始新的专注会话并下发屏蔽配置。
// 存在未完成会话时拒绝（ErrActiveSessionExists）。
// reading_duration 的 [5,180] 范围在请求绑定层校验，这里不再重复。
func (s *FocusService) StartSession(userID uint, bookID string, duration uint, hardLock bool) (*model.ReadingSession, *BlockingConfig, error) {
	active, err := s.SessionRepo.HasActiveByUserID(userID)
	if err != nil {
		return nil, nil, err
	}
	if active {
		return nil, nil, util.ErrActiveSessionExists
	}

	session := &model.ReadingSession{
		UserID:          userID,
		BookID:          bookID,
		StartTime:       s.now(),
		ReadingDuration: duration,
		FocusScore:      model.DefaultFocusScore,
		HardLock:        hardLock,
	}
	if err := s.SessionRepo.Create(session); err != nil {
		return nil, nil, err
	}

	config, err := s.Blocking.Enforce(userID, hardLock)
	if err != nil {
		return nil, nil, err
	}
	return session, config, nil
}

// RecordInterruption 记录一次打断（切出应用等），只对活跃会话有效
func (s *FocusService) RecordInterruption(userID uint) (*model.ReadingSession, error) {
	session, err := s.activeSession(userID)
	if err != nil {
		return nil, err
	}

	session.Interruptions++
	if err := s.SessionRepo.Update(session); err != nil {
		return nil, err
	}
	return session, nil
}

// EndSession 结束活跃会话并计算专注分数。
// 结束时间不早于 start + reading_duration：提前结束会被抬到该下限，
// 防止靠秒退刷分。下限调整必须发生在打分之前。
func (s *FocusService) EndSession(userID uint) (*model.ReadingSession, error) {
	session, err := s.activeSession(userID)
	if err != nil {
		return nil, err
	}

	if session.EndTime == nil {
		now := s.now()
		session.EndTime = &now
	}

	expectedEnd := session.StartTime.Add(time.Duration(session.ReadingDuration) * time.Minute)
	if session.EndTime.Before(expectedEnd) {
		session.EndTime = &expectedEnd
	}

	session.Completed = true
	session.FocusScore = CalculateFocusScore(session)

	if err := s.SessionRepo.Update(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Stats 用户的全部会话记录，最近的在前
func (s *FocusService) Stats(userID uint) ([]model.ReadingSession, error) {
	return s.SessionRepo.FindByUserID(userID)
}

func (s *FocusService) activeSession(userID uint) (*model.ReadingSession, error) {
	session, err := s.SessionRepo.FindActiveByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNoActiveSession
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// CalculateFocusScore 根据实际用时与打断次数计算 0-100 的专注分数。
// 会话尚未结束时返回当前分数（初始 100）。
//
//	time_penalty         = max(0, (target - spent) / target * 50)
//	interruption_penalty = min(50, interruptions * 10)
//	score                = clamp(100 - time_penalty - interruption_penalty, 0, 100)
func CalculateFocusScore(session *model.ReadingSession) uint {
	if session.EndTime == nil {
		return session.FocusScore
	}

	timeSpent := session.EndTime.Sub(session.StartTime).Minutes()
	expected := float64(session.ReadingDuration)

	timePenalty := (expected - timeSpent) / expected * 50
	if timePenalty < 0 {
		timePenalty = 0
	}

	interruptionPenalty := math.Min(50, float64(session.Interruptions)*10)

	score := 100 - timePenalty - interruptionPenalty
	if score < 0 {
		score = 0
	}
	return uint(math.Round(score))
}

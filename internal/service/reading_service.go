package service

import (
	"errors"
	"focusread_backend/internal/model"
	"focusread_backend/internal/repository"
	"focusread_backend/internal/util"
	"focusread_backend/pkg/monitoring"
	"math"
	"time"

	"gorm.io/gorm"
)

// ReadingService 维护阅读目标的进度、完成状态与连续打卡天数。
// 连续打卡规则按自然日计算：
//   - 首次完成 -> 1
//   - 与上次完成相隔 1 天 -> +1
//   - 相隔超过 1 天 -> 重置为 1
//
// 同一天重复完成由 IsCompleted 守卫挡住，绝不会重复累加。
type ReadingService struct {
	GoalRepo    repository.ReadingGoalStore
	HistoryRepo repository.ReadingHistoryStore

	// onComplete 目标完成后的回调（徽章检查等），持久化成功后才触发
	onComplete []func(goal *model.ReadingGoal)

	now func() time.Time
}

func NewReadingService(goalRepo repository.ReadingGoalStore, historyRepo repository.ReadingHistoryStore) *ReadingService {
	return &ReadingService{
		GoalRepo:    goalRepo,
		HistoryRepo: historyRepo,
		now:         time.Now,
	}
}

// OnComplete 注册目标完成后的回调
func (s *ReadingService) OnComplete(hook func(goal *model.ReadingGoal)) {
	s.onComplete = append(s.onComplete, hook)
}

// SetGoal 设置阅读目标，每个用户一条记录，重复设置时覆盖并清零进度
func (s *ReadingService) SetGoal(userID uint, goalType model.GoalType, target uint) (*model.ReadingGoal, error) {
	goal := &model.ReadingGoal{
		UserID:      userID,
		GoalType:    goalType,
		GoalTarget:  target,
		Progress:    0,
		IsCompleted: false,
	}

	if err := s.GoalRepo.Upsert(goal); err != nil {
		return nil, err
	}
	return s.GoalRepo.FindByUserID(userID)
}

func (s *ReadingService) GetGoal(userID uint) (*model.ReadingGoal, error) {
	goal, err := s.GoalRepo.FindByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrGoalNotFound
	}
	return goal, err
}

// UpdateProgress 累加进度，达到目标值时完成当日目标
func (s *ReadingService) UpdateProgress(userID uint, amount int) (*model.ReadingGoal, error) {
	if amount < 0 {
		return nil, util.ErrInvalidAmount
	}

	goal, err := s.GetGoal(userID)
	if err != nil {
		return nil, err
	}

	goal.Progress += uint(amount)
	if goal.Progress >= goal.GoalTarget && !goal.IsCompleted {
		if err := s.completeGoal(goal); err != nil {
			return nil, err
		}
		return goal, nil
	}

	if err := s.GoalRepo.Update(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// completeGoal 完成当日目标并推进连续打卡。
// 目标更新与历史写入在同一事务内，历史重复时整体回滚。
func (s *ReadingService) completeGoal(goal *model.ReadingGoal) error {
	if goal.IsCompleted {
		return nil
	}

	today := dateOf(s.now())

	if goal.LastCompletedDate != nil {
		switch gap := daysBetween(*goal.LastCompletedDate, today); {
		case gap == 1:
			goal.StreakCount++ // 连续
		case gap > 1:
			goal.StreakCount = 1 // 断签重来
		}
	} else {
		goal.StreakCount = 1 // 首次完成
	}

	if goal.StreakCount > goal.LongestStreak {
		goal.LongestStreak = goal.StreakCount
	}

	goal.IsCompleted = true
	goal.LastCompletedDate = &today

	history := &model.ReadingHistory{
		UserID:      goal.UserID,
		Date:        today,
		StreakCount: goal.StreakCount,
	}

	if err := s.GoalRepo.SaveCompletion(goal, history); err != nil {
		return err
	}

	monitoring.GoalCompletions.Inc()
	for _, hook := range s.onComplete {
		hook(goal)
	}
	return nil
}

// ResetGoal 开启新的周期：清零进度与完成标记；
// 距上次完成超过 1 天时连续天数归零（断签尚未被完成事件体现）。
func (s *ReadingService) ResetGoal(userID uint) (*model.ReadingGoal, error) {
	goal, err := s.GetGoal(userID)
	if err != nil {
		return nil, err
	}

	s.applyReset(goal)
	if err := s.GoalRepo.Update(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// ResetAllGoals 每日零点由后台任务调用，为所有用户开启新周期
func (s *ReadingService) ResetAllGoals() (int, error) {
	goals, err := s.GoalRepo.FindAll()
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range goals {
		s.applyReset(&goals[i])
		if err := s.GoalRepo.Update(&goals[i]); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (s *ReadingService) applyReset(goal *model.ReadingGoal) {
	today := dateOf(s.now())
	if goal.LastCompletedDate != nil && daysBetween(*goal.LastCompletedDate, today) > 1 {
		goal.StreakCount = 0
	}
	goal.Progress = 0
	goal.IsCompleted = false
}

// StreakInfo 当前连续打卡概要
type StreakInfo struct {
	StreakCount       uint       `json:"streakCount"`
	LongestStreak     uint       `json:"longestStreak"`
	LastCompletedDate *time.Time `json:"lastCompletedDate"`
}

func (s *ReadingService) GetStreak(userID uint) (*StreakInfo, error) {
	goal, err := s.GetGoal(userID)
	if err != nil {
		return nil, err
	}
	return &StreakInfo{
		StreakCount:       goal.StreakCount,
		LongestStreak:     goal.LongestStreak,
		LastCompletedDate: goal.LastCompletedDate,
	}, nil
}

// WeeklyStreaks 本周（周一起）的打卡历史
func (s *ReadingService) WeeklyStreaks(userID uint) ([]model.ReadingHistory, error) {
	today := dateOf(s.now())
	weekStart := today.AddDate(0, 0, -int((today.Weekday()+6)%7))
	return s.HistoryRepo.FindByUserSince(userID, weekStart)
}

// MonthlyStreaks 本月（1 号起）的打卡历史
func (s *ReadingService) MonthlyStreaks(userID uint) ([]model.ReadingHistory, error) {
	today := dateOf(s.now())
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	return s.HistoryRepo.FindByUserSince(userID, monthStart)
}

// dateOf 去掉时间部分，只保留本地日历日
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween 两个日历日之间的天数，from 在前为正
func daysBetween(from, to time.Time) int {
	return int(math.Round(dateOf(to).Sub(dateOf(from)).Hours() / 24))
}

package service

import (
	"errors"
	"fmt"
	"focusread_backend/internal/model"
	"focusread_backend/internal/util"
	"focusread_backend/pkg/logger"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	// 服务层在告警路径上会写日志，单测里替换为 no-op
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// mockGoalStore 内存版 ReadingGoalStore
type mockGoalStore struct {
	goals     map[uint]*model.ReadingGoal
	histories map[string]bool // "userID/date"
	saveErr   error
}

func newMockGoalStore() *mockGoalStore {
	return &mockGoalStore{
		goals:     make(map[uint]*model.ReadingGoal),
		histories: make(map[string]bool),
	}
}

func historyKey(userID uint, date time.Time) string {
	return fmt.Sprintf("%d/%s", userID, date.Format("2006-01-02"))
}

func (m *mockGoalStore) FindByUserID(userID uint) (*model.ReadingGoal, error) {
	goal, ok := m.goals[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *goal
	return &copied, nil
}

func (m *mockGoalStore) Upsert(goal *model.ReadingGoal) error {
	if existing, ok := m.goals[goal.UserID]; ok {
		existing.GoalType = goal.GoalType
		existing.GoalTarget = goal.GoalTarget
		existing.Progress = goal.Progress
		existing.IsCompleted = goal.IsCompleted
		return nil
	}
	copied := *goal
	m.goals[goal.UserID] = &copied
	return nil
}

func (m *mockGoalStore) Update(goal *model.ReadingGoal) error {
	copied := *goal
	m.goals[goal.UserID] = &copied
	return nil
}

func (m *mockGoalStore) SaveCompletion(goal *model.ReadingGoal, history *model.ReadingHistory) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	key := historyKey(history.UserID, history.Date)
	if m.histories[key] {
		return util.ErrHistoryExists
	}
	m.histories[key] = true
	return m.Update(goal)
}

func (m *mockGoalStore) FindAll() ([]model.ReadingGoal, error) {
	goals := make([]model.ReadingGoal, 0, len(m.goals))
	for _, g := range m.goals {
		goals = append(goals, *g)
	}
	return goals, nil
}

// mockHistoryStore 内存版 ReadingHistoryStore
type mockHistoryStore struct {
	records []model.ReadingHistory
}

func (m *mockHistoryStore) FindByUserSince(userID uint, since time.Time) ([]model.ReadingHistory, error) {
	var out []model.ReadingHistory
	for _, r := range m.records {
		if r.UserID == userID && !r.Date.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.Local)
}

func newTestReadingService(store *mockGoalStore, now time.Time) *ReadingService {
	s := NewReadingService(store, &mockHistoryStore{})
	s.now = fixedClock(now)
	return s
}

func TestFirstCompletionStartsStreak(t *testing.T) {
	store := newMockGoalStore()
	s := newTestReadingService(store, day(2026, 3, 2))

	if _, err := s.SetGoal(1, model.GoalTypePages, 20); err != nil {
		t.Fatalf("set goal: %v", err)
	}

	goal, err := s.UpdateProgress(1, 20)
	if err != nil {
		t.Fatalf("update progress: %v", err)
	}

	if !goal.IsCompleted {
		t.Fatal("expected goal to be completed")
	}
	if goal.StreakCount != 1 {
		t.Fatalf("expected streak 1, got %d", goal.StreakCount)
	}
	if goal.LongestStreak != 1 {
		t.Fatalf("expected longest streak 1, got %d", goal.LongestStreak)
	}
	if goal.LastCompletedDate == nil || !goal.LastCompletedDate.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)) {
		t.Fatalf("unexpected last completed date: %v", goal.LastCompletedDate)
	}
}

func TestConsecutiveDayIncrementsStreak(t *testing.T) {
	store := newMockGoalStore()
	s := newTestReadingService(store, day(2026, 3, 2))

	s.SetGoal(1, model.GoalTypePages, 10)
	if _, err := s.UpdateProgress(1, 10); err != nil {
		t.Fatalf("day 1: %v", err)
	}

	// 次日新周期
	s.now = fixedClock(day(2026, 3, 3))
	if _, err := s.ResetGoal(1); err != nil {
		t.Fatalf("reset: %v", err)
	}
	goal, err := s.UpdateProgress(1, 10)
	if err != nil {
		t.Fatalf("day 2: %v", err)
	}

	if goal.StreakCount != 2 {
		t.Fatalf("expected streak 2, got %d", goal.StreakCount)
	}
	if goal.LongestStreak != 2 {
		t.Fatalf("expected longest streak 2, got %d", goal.LongestStreak)
	}
}

func TestGapResetsStreakButKeepsLongest(t *testing.T) {
	store := newMockGoalStore()
	s := newTestReadingService(store, day(2026, 3, 2))

	s.SetGoal(1, model.GoalTypePages, 10)
	s.UpdateProgress(1, 10)

	s.now = fixedClock(day(2026, 3, 3))
	s.ResetGoal(1)
	s.UpdateProgress(1, 10)

	s.now = fixedClock(day(2026, 3, 4))
	s.ResetGoal(1)
	s.UpdateProgress(1, 10) // streak 3

	// 断签两天
	s.now = fixedClock(day(2026, 3, 7))
	s.ResetGoal(1)
	goal, err := s.UpdateProgress(1, 10)
	if err != nil {
		t.Fatalf("after gap: %v", err)
	}

	if goal.StreakCount != 1 {
		t.Fatalf("expected streak reset to 1, got %d", goal.StreakCount)
	}
	if goal.LongestStreak != 3 {
		t.Fatalf("expected longest streak 3 preserved, got %d", goal.LongestStreak)
	}
}

func TestSameDayCompletionIsIdempotent(t *testing.T) {
	store := newMockGoalStore()
	s := newTestReadingService(store, day(2026, 3, 2))

	s.SetGoal(1, model.GoalTypeMinutes, 30)
	s.UpdateProgress(1, 30)

	// 完成后继续上报进度，连续天数不再变化
	goal, err := s.UpdateProgress(1, 15)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if goal.StreakCount != 1 {
		t.Fatalf("expected streak unchanged at 1, got %d", goal.StreakCount)
	}
	if goal.Progress != 45 {
		t.Fatalf("expected progress 45, got %d", goal.Progress)
	}
}

func TestNegativeProgressRejected(t *testing.T) {
	store := newMockGoalStore()
	s := newTestReadingService(store, day(2026, 3, 2))

	s.SetGoal(1, model.GoalTypePages, 10)
	if _, err := s.UpdateProgress(1, -5); !errors.Is(err, util.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestProgressWithoutGoal(t *testing.T) {
	store := newMockGoalStore()
	s := newTestReadingService(store, day(2026, 3, 2))

	if _, err := s.UpdateProgress(1, 5); !errors.Is(err, util.ErrGoalNotFound) {
		t.Fatalf("expected ErrGoalNotFound, got %v", err)
	}
}

func TestDuplicateHistoryRollsBackCompletion(t *testing.T) {
	store := newMockGoalStore()
	s := newTestReadingService(store, day(2026, 3, 2))

	s.SetGoal(1, model.GoalTypePages, 10)
	s.UpdateProgress(1, 10)

	// 同一天强行开新周期再完成：历史已存在，完成必须失败且不留部分写入
	s.ResetGoal(1)
	if _, err := s.UpdateProgress(1, 10); !errors.Is(err, util.ErrHistoryExists) {
		t.Fatalf("expected ErrHistoryExists, got %v", err)
	}

	goal, _ := s.GetGoal(1)
	if goal.IsCompleted {
		t.Fatal("expected goal not persisted as completed after history conflict")
	}
}

func TestOnCompleteHookFiresAfterPersist(t *testing.T) {
	store := newMockGoalStore()
	s := newTestReadingService(store, day(2026, 3, 2))

	var hookStreak uint
	s.OnComplete(func(goal *model.ReadingGoal) {
		hookStreak = goal.StreakCount
	})

	s.SetGoal(1, model.GoalTypePages, 10)
	s.UpdateProgress(1, 10)

	if hookStreak != 1 {
		t.Fatalf("expected hook to observe streak 1, got %d", hookStreak)
	}
}

func TestOnCompleteHookNotFiredOnFailure(t *testing.T) {
	store := newMockGoalStore()
	store.saveErr = errors.New("db down")
	s := newTestReadingService(store, day(2026, 3, 2))

	fired := false
	s.OnComplete(func(goal *model.ReadingGoal) { fired = true })

	s.SetGoal(1, model.GoalTypePages, 10)
	store.saveErr = errors.New("db down")
	if _, err := s.UpdateProgress(1, 10); err == nil {
		t.Fatal("expected error from save")
	}
	if fired {
		t.Fatal("hook must not fire when completion fails to persist")
	}
}

func TestResetClearsProgressAndBreaksStaleStreak(t *testing.T) {
	store := newMockGoalStore()
	s := newTestReadingService(store, day(2026, 3, 2))

	s.SetGoal(1, model.GoalTypePages, 10)
	s.UpdateProgress(1, 10)

	// 次日重置：连续天数保留，等当天完成事件来推进
	s.now = fixedClock(day(2026, 3, 3))
	goal, err := s.ResetGoal(1)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if goal.Progress != 0 || goal.IsCompleted {
		t.Fatal("expected progress and completion flag cleared")
	}
	if goal.StreakCount != 1 {
		t.Fatalf("expected streak kept at 1, got %d", goal.StreakCount)
	}

	// 断签后的重置：连续天数归零
	s.now = fixedClock(day(2026, 3, 6))
	goal, err = s.ResetGoal(1)
	if err != nil {
		t.Fatalf("reset after gap: %v", err)
	}
	if goal.StreakCount != 0 {
		t.Fatalf("expected streak zeroed after gap, got %d", goal.StreakCount)
	}
}

func TestResetAllGoals(t *testing.T) {
	store := newMockGoalStore()
	s := newTestReadingService(store, day(2026, 3, 2))

	s.SetGoal(1, model.GoalTypePages, 10)
	s.SetGoal(2, model.GoalTypeMinutes, 30)
	s.UpdateProgress(1, 10)

	count, err := s.ResetAllGoals()
	if err != nil {
		t.Fatalf("reset all: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 goals reset, got %d", count)
	}

	for _, id := range []uint{1, 2} {
		goal, _ := s.GetGoal(id)
		if goal.Progress != 0 || goal.IsCompleted {
			t.Fatalf("user %d: expected clean cycle after reset", id)
		}
	}
}

func TestSetGoalOverwritesExisting(t *testing.T) {
	store := newMockGoalStore()
	s := newTestReadingService(store, day(2026, 3, 2))

	s.SetGoal(1, model.GoalTypePages, 10)
	s.UpdateProgress(1, 4)

	goal, err := s.SetGoal(1, model.GoalTypeMinutes, 60)
	if err != nil {
		t.Fatalf("overwrite goal: %v", err)
	}
	if goal.GoalType != model.GoalTypeMinutes || goal.GoalTarget != 60 {
		t.Fatalf("unexpected goal after overwrite: %+v", goal)
	}
	if goal.Progress != 0 {
		t.Fatalf("expected progress cleared on overwrite, got %d", goal.Progress)
	}
}

package service

import (
	"errors"
	"focusread_backend/internal/model"
	"focusread_backend/internal/util"
	"testing"
	"time"

	"gorm.io/gorm"
)

// mockSessionStore 内存版 SessionStore
type mockSessionStore struct {
	sessions []*model.ReadingSession
	nextID   uint
}

func (m *mockSessionStore) Create(session *model.ReadingSession) error {
	m.nextID++
	session.ID = m.nextID
	copied := *session
	m.sessions = append(m.sessions, &copied)
	return nil
}

func (m *mockSessionStore) FindActiveByUserID(userID uint) (*model.ReadingSession, error) {
	for _, s := range m.sessions {
		if s.UserID == userID && !s.Completed {
			copied := *s
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionStore) HasActiveByUserID(userID uint) (bool, error) {
	_, err := m.FindActiveByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *mockSessionStore) Update(session *model.ReadingSession) error {
	for i, s := range m.sessions {
		if s.ID == session.ID {
			copied := *session
			m.sessions[i] = &copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockSessionStore) FindByUserID(userID uint) ([]model.ReadingSession, error) {
	var out []model.ReadingSession
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func newTestFocusService(start time.Time) (*FocusService, *mockSessionStore) {
	store := &mockSessionStore{}
	blocking := NewBlockingService(&mockBlockListStore{}, nil)
	s := NewFocusService(store, blocking)
	s.now = fixedClock(start)
	return s, store
}

func TestStartSessionReturnsBlockingConfig(t *testing.T) {
	start := day(2026, 3, 2)
	s, _ := newTestFocusService(start)

	session, config, err := s.StartSession(1, "book-42", 25, true)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	if session.FocusScore != model.DefaultFocusScore {
		t.Fatalf("expected initial score %d, got %d", model.DefaultFocusScore, session.FocusScore)
	}
	if !session.StartTime.Equal(start) {
		t.Fatalf("unexpected start time: %v", session.StartTime)
	}
	if !config.HardLock {
		t.Fatal("expected hard lock passed through")
	}
}

func TestSecondActiveSessionRejected(t *testing.T) {
	s, _ := newTestFocusService(day(2026, 3, 2))

	if _, _, err := s.StartSession(1, "book-1", 25, false); err != nil {
		t.Fatalf("first session: %v", err)
	}
	if _, _, err := s.StartSession(1, "book-2", 30, false); !errors.Is(err, util.ErrActiveSessionExists) {
		t.Fatalf("expected ErrActiveSessionExists, got %v", err)
	}
}

func TestEarlyEndFlooredBeforeScoring(t *testing.T) {
	start := day(2026, 3, 2)
	s, _ := newTestFocusService(start)

	s.StartSession(1, "book-1", 25, false)

	// 10 分钟后就结束：结束时间被抬到 start+25min，不产生时间惩罚
	s.now = fixedClock(start.Add(10 * time.Minute))
	session, err := s.EndSession(1)
	if err != nil {
		t.Fatalf("end session: %v", err)
	}

	expectedEnd := start.Add(25 * time.Minute)
	if session.EndTime == nil || !session.EndTime.Equal(expectedEnd) {
		t.Fatalf("expected end time floored to %v, got %v", expectedEnd, session.EndTime)
	}
	if !session.Completed {
		t.Fatal("expected session completed")
	}
	if session.FocusScore != 100 {
		t.Fatalf("expected score 100 after floor, got %d", session.FocusScore)
	}
}

func TestInterruptionsReduceScore(t *testing.T) {
	start := day(2026, 3, 2)
	s, _ := newTestFocusService(start)

	s.StartSession(1, "book-1", 25, false)

	for i := 0; i < 2; i++ {
		if _, err := s.RecordInterruption(1); err != nil {
			t.Fatalf("interruption %d: %v", i, err)
		}
	}

	s.now = fixedClock(start.Add(25 * time.Minute))
	session, err := s.EndSession(1)
	if err != nil {
		t.Fatalf("end session: %v", err)
	}

	if session.Interruptions != 2 {
		t.Fatalf("expected 2 interruptions, got %d", session.Interruptions)
	}
	if session.FocusScore != 80 {
		t.Fatalf("expected score 80, got %d", session.FocusScore)
	}
}

func TestInterruptionWithoutActiveSession(t *testing.T) {
	s, _ := newTestFocusService(day(2026, 3, 2))

	if _, err := s.RecordInterruption(1); !errors.Is(err, util.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
	if _, err := s.EndSession(1); !errors.Is(err, util.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestEndedSessionIsTerminal(t *testing.T) {
	start := day(2026, 3, 2)
	s, _ := newTestFocusService(start)

	s.StartSession(1, "book-1", 25, false)
	s.now = fixedClock(start.Add(25 * time.Minute))
	if _, err := s.EndSession(1); err != nil {
		t.Fatalf("end session: %v", err)
	}

	// 已完成的会话不再是活跃会话
	if _, err := s.EndSession(1); !errors.Is(err, util.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession after completion, got %v", err)
	}
}

func TestCalculateFocusScore(t *testing.T) {
	start := day(2026, 3, 2)

	cases := []struct {
		name          string
		spentMinutes  int
		target        uint
		interruptions uint
		want          uint
	}{
		{"full time no interruptions", 25, 25, 0, 100},
		{"overtime no penalty", 40, 25, 0, 100},
		{"early end costs time penalty", 10, 25, 0, 70},
		{"interruption penalty capped at 50", 25, 25, 6, 50},
		{"combined penalties clamp at zero", 0, 60, 6, 0},
		{"partial time with interruptions", 10, 25, 1, 60},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			end := start.Add(time.Duration(tc.spentMinutes) * time.Minute)
			session := &model.ReadingSession{
				StartTime:       start,
				EndTime:         &end,
				ReadingDuration: tc.target,
				Interruptions:   tc.interruptions,
			}
			if got := CalculateFocusScore(session); got != tc.want {
				t.Fatalf("expected score %d, got %d", tc.want, got)
			}
		})
	}
}

func TestScoreOfRunningSessionUnchanged(t *testing.T) {
	session := &model.ReadingSession{
		StartTime:       day(2026, 3, 2),
		ReadingDuration: 25,
		FocusScore:      model.DefaultFocusScore,
	}
	if got := CalculateFocusScore(session); got != model.DefaultFocusScore {
		t.Fatalf("expected running session to keep score %d, got %d", model.DefaultFocusScore, got)
	}
}

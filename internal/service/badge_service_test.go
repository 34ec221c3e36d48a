package service

import (
	"errors"
	"focusread_backend/internal/model"
	"focusread_backend/internal/util"
	"sort"
	"testing"

	"gorm.io/gorm"
)

// mockBadgeStore 静态徽章表
type mockBadgeStore struct {
	badges []model.Badge
}

func (m *mockBadgeStore) FindAll() ([]model.Badge, error) {
	return m.badges, nil
}

func (m *mockBadgeStore) FindEligible(streak uint) ([]model.Badge, error) {
	var out []model.Badge
	for _, b := range m.badges {
		if b.StreakRequired <= streak {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StreakRequired < out[j].StreakRequired })
	return out, nil
}

type mockUserBadgeStore struct {
	earned    map[uint]map[uint]bool // userID -> badgeID
	created   []model.UserBadge
	createErr error
}

func newMockUserBadgeStore() *mockUserBadgeStore {
	return &mockUserBadgeStore{earned: make(map[uint]map[uint]bool)}
}

func (m *mockUserBadgeStore) Exists(userID, badgeID uint) (bool, error) {
	return m.earned[userID][badgeID], nil
}

func (m *mockUserBadgeStore) Create(ub *model.UserBadge) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.earned[ub.UserID] == nil {
		m.earned[ub.UserID] = make(map[uint]bool)
	}
	m.earned[ub.UserID][ub.BadgeID] = true
	m.created = append(m.created, *ub)
	return nil
}

func (m *mockUserBadgeStore) FindByUserID(userID uint) ([]model.UserBadge, error) {
	var out []model.UserBadge
	for _, ub := range m.created {
		if ub.UserID == userID {
			out = append(out, ub)
		}
	}
	return out, nil
}

type mockRewardStore struct {
	rewards     map[uint]*model.Reward // badgeID -> reward
	userRewards []model.UserReward
}

func newMockRewardStore() *mockRewardStore {
	return &mockRewardStore{rewards: make(map[uint]*model.Reward)}
}

func (m *mockRewardStore) FindByBadgeID(badgeID uint) (*model.Reward, error) {
	r, ok := m.rewards[badgeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (m *mockRewardStore) CreateUserReward(ur *model.UserReward) error {
	m.userRewards = append(m.userRewards, *ur)
	return nil
}

func (m *mockRewardStore) FindUnredeemedByUserID(userID uint) ([]model.UserReward, error) {
	var out []model.UserReward
	for _, ur := range m.userRewards {
		if ur.UserID == userID && !ur.Redeemed {
			out = append(out, ur)
		}
	}
	return out, nil
}

func (m *mockRewardStore) FindUnredeemedByID(id, userID uint) (*model.UserReward, error) {
	for i := range m.userRewards {
		ur := &m.userRewards[i]
		if ur.ID == id && ur.UserID == userID && !ur.Redeemed {
			copied := *ur
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRewardStore) UpdateUserReward(ur *model.UserReward) error {
	for i := range m.userRewards {
		if m.userRewards[i].ID == ur.ID {
			m.userRewards[i] = *ur
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// mockNotifier 记录发送的通知
type mockNotifier struct {
	notifications []string
	emails        []string
}

func (m *mockNotifier) Notify(userID uint, title, body string) {
	m.notifications = append(m.notifications, title)
}

func (m *mockNotifier) SendEmail(to, subject, body string) {
	m.emails = append(m.emails, subject)
}

func badge(id uint, name string, streak uint) model.Badge {
	b := model.Badge{Name: name, StreakRequired: streak}
	b.ID = id
	return b
}

func newTestBadgeService() (*BadgeService, *mockBadgeStore, *mockUserBadgeStore, *mockRewardStore, *mockNotifier) {
	badges := &mockBadgeStore{badges: []model.Badge{
		badge(1, "Getting Warm", 2),
		badge(2, "Habit Builder", 5),
		badge(3, "Bookworm", 14),
	}}
	userBadges := newMockUserBadgeStore()
	rewards := newMockRewardStore()
	notifier := &mockNotifier{}
	return NewBadgeService(badges, userBadges, rewards, notifier), badges, userBadges, rewards, notifier
}

func TestCrossingMultipleThresholdsAwardsAll(t *testing.T) {
	s, _, userBadges, _, notifier := newTestBadgeService()

	// 连续天数从 4 跳到 6：门槛 2 和 5 都要授出
	goal := &model.ReadingGoal{UserID: 7, StreakCount: 6}
	if err := s.CheckForBadges(goal); err != nil {
		t.Fatalf("check badges: %v", err)
	}

	if len(userBadges.created) != 2 {
		t.Fatalf("expected 2 badges awarded, got %d", len(userBadges.created))
	}
	if userBadges.created[0].BadgeID != 1 || userBadges.created[1].BadgeID != 2 {
		t.Fatalf("expected ascending threshold order, got %+v", userBadges.created)
	}
	if len(notifier.notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifier.notifications))
	}
}

func TestAlreadyEarnedBadgeSkipped(t *testing.T) {
	s, _, userBadges, _, notifier := newTestBadgeService()

	goal := &model.ReadingGoal{UserID: 7, StreakCount: 2}
	if err := s.CheckForBadges(goal); err != nil {
		t.Fatalf("first check: %v", err)
	}
	if err := s.CheckForBadges(goal); err != nil {
		t.Fatalf("second check: %v", err)
	}

	if len(userBadges.created) != 1 {
		t.Fatalf("expected badge awarded exactly once, got %d", len(userBadges.created))
	}
	if len(notifier.notifications) != 1 {
		t.Fatalf("expected single notification, got %d", len(notifier.notifications))
	}
}

func TestStreakBelowAllThresholds(t *testing.T) {
	s, _, userBadges, _, _ := newTestBadgeService()

	goal := &model.ReadingGoal{UserID: 7, StreakCount: 1}
	if err := s.CheckForBadges(goal); err != nil {
		t.Fatalf("check badges: %v", err)
	}
	if len(userBadges.created) != 0 {
		t.Fatalf("expected no badges, got %d", len(userBadges.created))
	}
}

func TestUniqueIndexRaceDoesNotFailCheck(t *testing.T) {
	s, _, userBadges, _, _ := newTestBadgeService()
	userBadges.createErr = errors.New("Error 1062: Duplicate entry")

	goal := &model.ReadingGoal{UserID: 7, StreakCount: 2}
	if err := s.CheckForBadges(goal); err != nil {
		t.Fatalf("expected duplicate award to be swallowed, got %v", err)
	}
}

func TestBadgeWithRewardUnlocksIt(t *testing.T) {
	s, _, _, rewards, notifier := newTestBadgeService()

	reward := &model.Reward{BadgeID: 2, Description: "20% off next book", RewardType: model.RewardDiscount}
	reward.ID = 11
	rewards.rewards[2] = reward

	goal := &model.ReadingGoal{UserID: 7, StreakCount: 5}
	if err := s.CheckForBadges(goal); err != nil {
		t.Fatalf("check badges: %v", err)
	}

	unlocked, _ := rewards.FindUnredeemedByUserID(7)
	if len(unlocked) != 1 || unlocked[0].RewardID != 11 {
		t.Fatalf("expected reward 11 unlocked, got %+v", unlocked)
	}

	// 徽章通知 x2 + 奖励通知 x1
	if len(notifier.notifications) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(notifier.notifications))
	}
}

func TestRedeemReward(t *testing.T) {
	s, _, _, rewards, _ := newTestBadgeService()

	ur := model.UserReward{UserID: 7, RewardID: 11}
	ur.ID = 3
	rewards.userRewards = append(rewards.userRewards, ur)

	redeemed, err := s.RedeemReward(7, 3)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if !redeemed.Redeemed {
		t.Fatal("expected reward marked redeemed")
	}

	// 二次兑换必须失败
	if _, err := s.RedeemReward(7, 3); !errors.Is(err, util.ErrRewardNotFound) {
		t.Fatalf("expected ErrRewardNotFound on double redeem, got %v", err)
	}
}

func TestRedeemUnknownReward(t *testing.T) {
	s, _, _, _, _ := newTestBadgeService()

	if _, err := s.RedeemReward(7, 99); !errors.Is(err, util.ErrRewardNotFound) {
		t.Fatalf("expected ErrRewardNotFound, got %v", err)
	}
}

package service

import (
	"errors"
	"fmt"
	"focusread_backend/internal/model"
	"focusread_backend/internal/repository"
	"focusread_backend/internal/util"
	"focusread_backend/pkg/logger"
	"focusread_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BadgeService 负责徽章授予与奖励解锁。
// (user, badge) 与 (user, reward) 的唯一索引保证并发下至多授予一次。
type BadgeService struct {
	BadgeRepo     repository.BadgeStore
	UserBadgeRepo repository.UserBadgeStore
	RewardRepo    repository.RewardStore
	Notifier      Notifier
}

func NewBadgeService(
	badgeRepo repository.BadgeStore,
	userBadgeRepo repository.UserBadgeStore,
	rewardRepo repository.RewardStore,
	notifier Notifier,
) *BadgeService {
	return &BadgeService{
		BadgeRepo:     badgeRepo,
		UserBadgeRepo: userBadgeRepo,
		RewardRepo:    rewardRepo,
		Notifier:      notifier,
	}
}

// CheckForBadges 扫描门槛不高于当前连续天数的徽章，为尚未持有的逐个授予。
// 一次完成跨过多个门槛时全部授出（按门槛升序）。
// 授予成功后发通知并检查关联奖励；通知失败不影响授予结果。
func (s *BadgeService) CheckForBadges(goal *model.ReadingGoal) error {
	badges, err := s.BadgeRepo.FindEligible(goal.StreakCount)
	if err != nil {
		return err
	}

	for _, badge := range badges {
		earned, err := s.UserBadgeRepo.Exists(goal.UserID, badge.ID)
		if err != nil {
			return err
		}
		if earned {
			continue
		}

		userBadge := &model.UserBadge{UserID: goal.UserID, BadgeID: badge.ID}
		if err := s.UserBadgeRepo.Create(userBadge); err != nil {
			// 并发下撞唯一索引说明别的请求已授予，跳过即可
			logger.Log.Warn("badge award skipped",
				zap.Uint("userId", goal.UserID),
				zap.String("badge", badge.Name),
				zap.Error(err))
			continue
		}

		monitoring.BadgesAwarded.Inc()
		s.Notifier.Notify(goal.UserID, "New Badge Earned!",
			fmt.Sprintf("Congratulations! You earned the '%s' badge!", badge.Name))

		if err := s.unlockReward(goal.UserID, &badge); err != nil {
			return err
		}
	}
	return nil
}

// unlockReward 徽章带奖励时为用户创建未兑换的奖励记录
func (s *BadgeService) unlockReward(userID uint, badge *model.Badge) error {
	reward, err := s.RewardRepo.FindByBadgeID(badge.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	userReward := &model.UserReward{UserID: userID, RewardID: reward.ID}
	if err := s.RewardRepo.CreateUserReward(userReward); err != nil {
		logger.Log.Warn("reward unlock skipped",
			zap.Uint("userId", userID),
			zap.Uint("rewardId", reward.ID),
			zap.Error(err))
		return nil
	}

	s.Notifier.Notify(userID, "Reward Unlocked!",
		fmt.Sprintf("You unlocked a reward: %s!", reward.Description))
	return nil
}

func (s *BadgeService) ListBadges() ([]model.Badge, error) {
	return s.BadgeRepo.FindAll()
}

func (s *BadgeService) UserBadges(userID uint) ([]model.UserBadge, error) {
	return s.UserBadgeRepo.FindByUserID(userID)
}

func (s *BadgeService) UserRewards(userID uint) ([]model.UserReward, error) {
	return s.RewardRepo.FindUnredeemedByUserID(userID)
}

// RedeemReward 兑换奖励，不存在或已兑换时返回 ErrRewardNotFound
func (s *BadgeService) RedeemReward(userID, rewardID uint) (*model.UserReward, error) {
	userReward, err := s.RewardRepo.FindUnredeemedByID(rewardID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRewardNotFound
		}
		return nil, err
	}

	userReward.Redeemed = true
	if err := s.RewardRepo.UpdateUserReward(userReward); err != nil {
		return nil, err
	}
	return userReward, nil
}

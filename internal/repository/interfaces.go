package repository

import (
	"focusread_backend/internal/model"
	"time"
)

// 服务层依赖的数据访问接口，便于在测试中替换为内存实现。

type ReadingGoalStore interface {
	FindByUserID(userID uint) (*model.ReadingGoal, error)
	Upsert(goal *model.ReadingGoal) error
	Update(goal *model.ReadingGoal) error
	// SaveCompletion 在一个事务里更新目标并写入历史记录；
	// 当 (user, date) 的历史已存在时返回 util.ErrHistoryExists，不产生部分写入。
	SaveCompletion(goal *model.ReadingGoal, history *model.ReadingHistory) error
	FindAll() ([]model.ReadingGoal, error)
}

type ReadingHistoryStore interface {
	FindByUserSince(userID uint, since time.Time) ([]model.ReadingHistory, error)
}

type BadgeStore interface {
	FindAll() ([]model.Badge, error)
	FindEligible(streak uint) ([]model.Badge, error)
}

type UserBadgeStore interface {
	Exists(userID, badgeID uint) (bool, error)
	Create(userBadge *model.UserBadge) error
	FindByUserID(userID uint) ([]model.UserBadge, error)
}

type RewardStore interface {
	FindByBadgeID(badgeID uint) (*model.Reward, error)
	CreateUserReward(userReward *model.UserReward) error
	FindUnredeemedByUserID(userID uint) ([]model.UserReward, error)
	FindUnredeemedByID(id, userID uint) (*model.UserReward, error)
	UpdateUserReward(userReward *model.UserReward) error
}

type SessionStore interface {
	Create(session *model.ReadingSession) error
	FindActiveByUserID(userID uint) (*model.ReadingSession, error)
	HasActiveByUserID(userID uint) (bool, error)
	Update(session *model.ReadingSession) error
	FindByUserID(userID uint) ([]model.ReadingSession, error)
}

type BookStore interface {
	Create(book *model.Book) error
	FindByID(id uint) (*model.Book, error)
	ExistsByUserAndTitle(userID uint, title string) (bool, error)
	ExistsByHash(hash string) (bool, error)
	List(filter BookFilter, page, limit int) ([]model.Book, int64, error)
	DeleteByIDAndUserID(id, userID uint) (*model.Book, error)
	FindOrCreateCategory(name string) (*model.Category, error)
	FindOrCreateTags(names []string) ([]model.Tag, error)
	ReplaceTags(book *model.Book, tags []model.Tag) error
	ListCategories() ([]model.Category, error)
	ListTags() ([]model.Tag, error)
}

type BlockListStore interface {
	AppsByUserID(userID uint) ([]model.BlockedApp, error)
	WebsitesByUserID(userID uint) ([]model.BlockedWebsite, error)
	CreateApp(app *model.BlockedApp) error
	DeleteApp(id, userID uint) error
	CreateWebsite(site *model.BlockedWebsite) error
	DeleteWebsite(id, userID uint) error
}

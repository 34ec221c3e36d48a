package database

import (
	"focusread_backend/internal/config"
	"focusread_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Tag{},
		&model.Book{},
		&model.Bookmark{},
		&model.Highlight{},
		&model.ReadingGoal{},
		&model.ReadingHistory{},
		&model.Badge{},
		&model.UserBadge{},
		&model.Reward{},
		&model.UserReward{},
		&model.ReadingSession{},
		&model.BlockedApp{},
		&model.BlockedWebsite{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认徽章（连续打卡天数门槛）
	var badgeCount int64
	db.Model(&model.Badge{}).Count(&badgeCount)
	if badgeCount == 0 {
		defaultBadges := []model.Badge{
			{Name: "First Step", Description: "完成第一次阅读目标", StreakRequired: 1},
			{Name: "Getting Warm", Description: "连续 2 天完成阅读目标", StreakRequired: 2},
			{Name: "Habit Builder", Description: "连续 5 天完成阅读目标", StreakRequired: 5},
			{Name: "Bookworm", Description: "连续 14 天完成阅读目标", StreakRequired: 14},
			{Name: "Page Master", Description: "连续 30 天完成阅读目标", StreakRequired: 30},
		}
		for _, b := range defaultBadges {
			db.Create(&b)
		}
	}

	// 默认分类
	var catCount int64
	db.Model(&model.Category{}).Count(&catCount)
	if catCount == 0 {
		defaultCategories := []string{"Fiction", "Non-fiction", "Science", "History", "Self-help"}
		for _, name := range defaultCategories {
			db.Create(&model.Category{Name: name})
		}
	}

	return db, nil
}

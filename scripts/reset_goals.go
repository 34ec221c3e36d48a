// 手动触发每日目标重置脚本
//
// 该功能已集成到主应用的后台定时任务中（每日零点自动执行一次）。
// 此脚本仅用于手动触发，例如服务器长时间停机后补跑。
//
// 用法: go run scripts/reset_goals.go

package main

import (
	"focusread_backend/internal/config"
	"focusread_backend/internal/repository"
	"focusread_backend/internal/service"
	"focusread_backend/pkg/database"
	"focusread_backend/pkg/logger"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	goalRepo := repository.NewReadingGoalRepository(db)
	historyRepo := repository.NewReadingHistoryRepository(db)
	readingService := service.NewReadingService(goalRepo, historyRepo)

	log.Println("手动触发每日目标重置...")
	count, err := readingService.ResetAllGoals()
	if err != nil {
		log.Fatalf("重置失败: %v", err)
	}
	log.Printf("完成！共重置 %d 个目标", count)
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"focusread_backend/internal/model"
	"focusread_backend/internal/repository"
	"focusread_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// allowedApps 固定白名单：短信与通讯录无论如何都不屏蔽
var allowedApps = []string{"com.android.mms", "com.android.contacts"}

const blockingCacheTTL = 5 * time.Minute

// BlockingConfig 下发给移动端的屏蔽配置。
// 真正的屏蔽动作由客户端在系统层执行，服务端只负责计算。
type BlockingConfig struct {
	BlockApps     []string `json:"block_apps"`
	BlockWebsites []string `json:"block_websites"`
	HardLock      bool     `json:"hard_lock"`
	AllowedApps   []string `json:"allowed_apps"`
}

// BlockingService 根据用户的屏蔽配置生成拦截清单
type BlockingService struct {
	BlockRepo repository.BlockListStore
	Redis     *redis.Client // 可为 nil（测试环境），nil 时不走缓存
}

func NewBlockingService(blockRepo repository.BlockListStore, rdb *redis.Client) *BlockingService {
	return &BlockingService{
		BlockRepo: blockRepo,
		Redis:     rdb,
	}
}

// Enforce 生成用户当前的屏蔽配置：
// 应用清单剔除白名单，网站清单原样返回，hard_lock 透传。
// 纯读取，不产生任何持久化写入。
func (s *BlockingService) Enforce(userID uint, hardLock bool) (*BlockingConfig, error) {
	cacheKey := fmt.Sprintf("blocking:config:%d:%t", userID, hardLock)
	if cached := s.fromCache(cacheKey); cached != nil {
		return cached, nil
	}

	apps, err := s.BlockRepo.AppsByUserID(userID)
	if err != nil {
		return nil, err
	}
	sites, err := s.BlockRepo.WebsitesByUserID(userID)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]bool, len(allowedApps))
	for _, pkg := range allowedApps {
		allowed[pkg] = true
	}

	blockApps := make([]string, 0, len(apps))
	for _, app := range apps {
		if app.PackageName == "" || allowed[app.PackageName] {
			continue
		}
		blockApps = append(blockApps, app.PackageName)
	}

	blockWebsites := make([]string, 0, len(sites))
	for _, site := range sites {
		blockWebsites = append(blockWebsites, site.URL)
	}

	config := &BlockingConfig{
		BlockApps:     blockApps,
		BlockWebsites: blockWebsites,
		HardLock:      hardLock,
		AllowedApps:   allowedApps,
	}

	s.toCache(cacheKey, config)
	return config, nil
}

func (s *BlockingService) AddApp(userID uint, appName, packageName string) (*model.BlockedApp, error) {
	app := &model.BlockedApp{UserID: userID, AppName: appName, PackageName: packageName}
	if err := s.BlockRepo.CreateApp(app); err != nil {
		return nil, err
	}
	s.invalidate(userID)
	return app, nil
}

func (s *BlockingService) RemoveApp(userID, id uint) error {
	if err := s.BlockRepo.DeleteApp(id, userID); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

func (s *BlockingService) ListApps(userID uint) ([]model.BlockedApp, error) {
	return s.BlockRepo.AppsByUserID(userID)
}

func (s *BlockingService) AddWebsite(userID uint, url string) (*model.BlockedWebsite, error) {
	site := &model.BlockedWebsite{UserID: userID, URL: url}
	if err := s.BlockRepo.CreateWebsite(site); err != nil {
		return nil, err
	}
	s.invalidate(userID)
	return site, nil
}

func (s *BlockingService) RemoveWebsite(userID, id uint) error {
	if err := s.BlockRepo.DeleteWebsite(id, userID); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

func (s *BlockingService) ListWebsites(userID uint) ([]model.BlockedWebsite, error) {
	return s.BlockRepo.WebsitesByUserID(userID)
}

func (s *BlockingService) fromCache(key string) *BlockingConfig {
	if s.Redis == nil {
		return nil
	}

	data, err := s.Redis.Get(context.Background(), key).Bytes()
	if err != nil {
		return nil
	}

	var config BlockingConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil
	}
	return &config
}

func (s *BlockingService) toCache(key string, config *BlockingConfig) {
	if s.Redis == nil {
		return
	}

	data, err := json.Marshal(config)
	if err != nil {
		return
	}
	if err := s.Redis.Set(context.Background(), key, data, blockingCacheTTL).Err(); err != nil {
		logger.Log.Warn("blocking config cache write failed", zap.Error(err))
	}
}

func (s *BlockingService) invalidate(userID uint) {
	if s.Redis == nil {
		return
	}

	keys := []string{
		fmt.Sprintf("blocking:config:%d:true", userID),
		fmt.Sprintf("blocking:config:%d:false", userID),
	}
	if err := s.Redis.Del(context.Background(), keys...).Err(); err != nil {
		logger.Log.Warn("blocking config cache invalidation failed", zap.Error(err))
	}
}

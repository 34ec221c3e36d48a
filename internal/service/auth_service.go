package service

import (
	"context"
	"errors"
	"fmt"
	"focusread_backend/internal/config"
	"focusread_backend/internal/model"
	"focusread_backend/internal/repository"
	"focusread_backend/internal/util"
	"math/rand"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const otpTTL = 5 * time.Minute

type AuthService struct {
	UserRepo *repository.UserRepository
	Redis    *redis.Client
	Notifier Notifier
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, rdb *redis.Client, notifier Notifier, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Redis:    rdb,
		Notifier: notifier,
		Cfg:      cfg,
	}
}

// Register 创建未激活用户并下发 6 位 OTP 验证码（5 分钟有效）
func (s *AuthService) Register(user *model.User) error {
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	user.IsActive = false

	if err := s.UserRepo.Create(user); err != nil {
		return err
	}

	return s.SendOTP(user)
}

// SendOTP 生成验证码写入 Redis 并通过通知队列发送邮件
func (s *AuthService) SendOTP(user *model.User) error {
	code := fmt.Sprintf("%06d", rand.Intn(1000000))

	key := otpKey(user.ID)
	if err := s.Redis.Set(context.Background(), key, code, otpTTL).Err(); err != nil {
		return err
	}

	s.Notifier.SendEmail(user.Email, "Your FocusReader Verification Code",
		fmt.Sprintf("Your OTP code is: %s\nValid for 5 minutes.", code))
	return nil
}

// VerifyOTP 校验验证码并激活账户，验证码一次性使用
func (s *AuthService) VerifyOTP(email, code string) error {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}

	key := otpKey(user.ID)
	stored, err := s.Redis.Get(context.Background(), key).Result()
	if err != nil || stored != code {
		return util.ErrInvalidOTP
	}

	s.Redis.Del(context.Background(), key)

	user.IsActive = true
	user.IsVerified = true
	return s.UserRepo.Update(user)
}

// Login 校验凭证并签发 JWT，未验证邮箱的账户拒绝登录
func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", nil, util.ErrUserNotVerified
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	s.UserRepo.UpdateLastLogin(user.ID)
	return token, user, nil
}

func otpKey(userID uint) string {
	return fmt.Sprintf("otp:%d", userID)
}

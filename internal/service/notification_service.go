package service

import (
	"encoding/json"
	"focusread_backend/internal/config"
	"focusread_backend/internal/repository"
	"focusread_backend/pkg/logger"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Notifier 通知分发接口。所有实现都必须是 fire-and-forget：
// 投递失败只记日志，绝不让触发方的业务操作失败。
type Notifier interface {
	Notify(userID uint, title, body string)
	SendEmail(to, subject, body string)
}

// NotificationMessage 推送/邮件消息统一的队列载荷
type NotificationMessage struct {
	Type        string `json:"type"` // push 或 email
	To          string `json:"to"`   // 邮箱地址或设备令牌
	From        string `json:"from,omitempty"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	RecipientID uint   `json:"recipientId,omitempty"`
}

// NotificationService 把通知发布到 RabbitMQ，由独立的 worker 消费投递
type NotificationService struct {
	channel   *amqp.Channel
	queueName string
	fromEmail string
	UserRepo  *repository.UserRepository
}

// NewNotificationService 连接 RabbitMQ 并声明队列。
// URL 为空时返回禁用态的服务，此时通知只写日志（本地开发常用）。
func NewNotificationService(cfg *config.AMQPConfig, userRepo *repository.UserRepository) (*NotificationService, error) {
	s := &NotificationService{
		queueName: cfg.Queue,
		fromEmail: cfg.FromEmail,
		UserRepo:  userRepo,
	}

	if cfg.URL == "" {
		return s, nil
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		cfg.Queue,
		true,  // Durable
		false, // Delete when unused
		false, // Exclusive
		false, // No-wait
		nil,
	)
	if err != nil {
		return nil, err
	}

	s.channel = ch
	return s, nil
}

// Notify 向用户推送通知；有邮箱时同步发一封邮件。
// 没有设备令牌的用户跳过推送。
func (s *NotificationService) Notify(userID uint, title, body string) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		logger.Log.Error("notification: user lookup failed",
			zap.Uint("userId", userID), zap.Error(err))
		return
	}

	if user.DeviceToken != "" {
		s.publish(NotificationMessage{
			Type:        "push",
			To:          user.DeviceToken,
			Title:       title,
			Body:        body,
			RecipientID: userID,
		})
	}

	s.SendEmail(user.Email, title, body)
}

func (s *NotificationService) SendEmail(to, subject, body string) {
	s.publish(NotificationMessage{
		Type:  "email",
		To:    to,
		From:  s.fromEmail,
		Title: subject,
		Body:  body,
	})
}

func (s *NotificationService) publish(msg NotificationMessage) {
	if s.channel == nil {
		logger.Log.Info("notification queue disabled, dropping message",
			zap.String("type", msg.Type), zap.String("title", msg.Title))
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Log.Error("notification: marshal failed", zap.Error(err))
		return
	}

	err = s.channel.Publish(
		"",          // exchange
		s.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         payload,
		},
	)
	if err != nil {
		logger.Log.Error("notification: publish failed",
			zap.String("type", msg.Type), zap.Error(err))
	}
}

package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shiftwise-dev/roster/backend/internal/domain"
)

// publishNotification 将通知序列化后发送到消息队列
func (h *Handler) publishNotification(msg domain.NotificationMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.notificationChannel.PublishWithContext(
		ctx,
		"",
		"notification_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// tryPublishNotification 用于排班相关的通知：排班结果已经落库，
// 通知发送失败只记录日志，不能影响接口返回
func (h *Handler) tryPublishNotification(msg domain.NotificationMessage) {
	if err := h.publishNotification(msg); err != nil {
		slog.Error("通知发送失败", "type", msg.Type, "to", msg.To, "error", err)
	}
}

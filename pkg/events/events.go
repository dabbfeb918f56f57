package events

import (
	"context"
	"encoding/json"
	"time"

	"skill-swap/config"
	"skill-swap/pkg/logger"
	"skill-swap/pkg/metrics"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// 领域事件路由键
const (
	SwapRequestCreated  = "swap.request.created"
	SwapRequestAccepted = "swap.request.accepted"
	SwapRequestRejected = "swap.request.rejected"
	MessageSent         = "message.sent"
	ReviewCreated       = "review.created"
	UserRegistered      = "user.registered"
)

// Envelope 事件外层结构
type Envelope struct {
	EventType  string      `json:"eventType"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

// NewEnvelope 包装事件负载
func NewEnvelope(eventType string, payload interface{}) Envelope {
	return Envelope{EventType: eventType, OccurredAt: time.Now().UTC(), Payload: payload}
}

// Publisher 领域事件发布者
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event interface{}) error
	Close() error
}

// NewPublisher 创建 RabbitMQ 发布者，未启用或连接失败时退化为空实现
func NewPublisher(cfg config.AMQPConfig) Publisher {
	if !cfg.Enabled || cfg.URL == "" {
		logger.Info("事件发布未启用，使用空实现")
		return NoopPublisher{Reason: "amqp disabled"}
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		logger.Warn("RabbitMQ连接失败，使用空实现", zap.Error(err))
		return NoopPublisher{Reason: err.Error()}
	}

	ch, err := conn.Channel()
	if err != nil {
		logger.Warn("RabbitMQ通道创建失败，使用空实现", zap.Error(err))
		_ = conn.Close()
		return NoopPublisher{Reason: err.Error()}
	}

	if err := ch.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		logger.Warn("RabbitMQ交换机声明失败，使用空实现", zap.Error(err))
		_ = ch.Close()
		_ = conn.Close()
		return NoopPublisher{Reason: err.Error()}
	}

	logger.Info("RabbitMQ连接成功", zap.String("exchange", cfg.Exchange))
	return &AMQPPublisher{conn: conn, ch: ch, exchange: cfg.Exchange}
}

// AMQPPublisher 基于 RabbitMQ topic 交换机的发布者
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NoopPublisher 空实现，只记录路由键
type NoopPublisher struct {
	Reason string
}

func (NoopPublisher) Publish(_ context.Context, routingKey string, _ interface{}) error {
	logger.Debug("事件发布(noop)", zap.String("routing_key", routingKey))
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}

// Mode 发布者类型，用于启动日志
func Mode(p Publisher) string {
	switch p.(type) {
	case *AMQPPublisher:
		return "amqp"
	case NoopPublisher, *NoopPublisher:
		return "noop"
	default:
		return "unknown"
	}
}

// Emit 尽力发布事件，失败只记录日志与指标，不影响业务
func Emit(ctx context.Context, p Publisher, routingKey string, payload interface{}) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, routingKey, NewEnvelope(routingKey, payload)); err != nil {
		metrics.IncEventPublishError()
		logger.Warn("事件发布失败",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}

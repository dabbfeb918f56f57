package service

import (
	"context"
	"strings"

	"skill-swap/internal/model"
	"skill-swap/internal/repository"
	"skill-swap/pkg/events"
	"skill-swap/pkg/logger"
	"skill-swap/pkg/metrics"

	"go.uber.org/zap"
)

// ThreadCache 会话消息缓存，键为无序用户对
// Set 仅在版本号与 Version 读到的值一致时写入；Invalidate 使版本号自增
type ThreadCache interface {
	Get(ctx context.Context, userA, userB uint) ([]*model.Message, bool, error)
	Version(ctx context.Context, userA, userB uint) (int64, error)
	Set(ctx context.Context, userA, userB uint, messages []*model.Message, version int64) (bool, error)
	Invalidate(ctx context.Context, userA, userB uint) error
}

// SendMessageInput 发送消息参数
type SendMessageInput struct {
	ReceiverID uint
	Content    string
}

// MessageService 消息服务
type MessageService struct {
	messageRepo         *repository.MessageRepository
	userRepo            *repository.UserRepository
	swapRepo            *repository.SwapRequestRepository
	cache               ThreadCache
	publisher           events.Publisher
	requireAcceptedSwap bool
}

// MessageServiceOption 消息服务可选配置
type MessageServiceOption func(*MessageService)

// WithThreadCache 启用会话缓存
func WithThreadCache(cache ThreadCache) MessageServiceOption {
	return func(s *MessageService) { s.cache = cache }
}

// WithPublisher 设置事件发布者
func WithPublisher(p events.Publisher) MessageServiceOption {
	return func(s *MessageService) { s.publisher = p }
}

// WithRequireAcceptedSwap 要求双方存在已接受的交换请求才能聊天
func WithRequireAcceptedSwap(require bool) MessageServiceOption {
	return func(s *MessageService) { s.requireAcceptedSwap = require }
}

// NewMessageService 创建MessageService实例
func NewMessageService(
	messageRepo *repository.MessageRepository,
	userRepo *repository.UserRepository,
	swapRepo *repository.SwapRequestRepository,
	opts ...MessageServiceOption,
) *MessageService {
	s := &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		swapRepo:    swapRepo,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListMessages 获取双方会话，按时间升序；先读缓存，未命中再查库并回填
func (s *MessageService) ListMessages(ctx context.Context, caller, otherUserID uint) ([]*model.Message, error) {
	if otherUserID == 0 {
		return nil, model.NewValidationError("invalid user id")
	}
	if err := s.checkMatched(ctx, caller, otherUserID); err != nil {
		return nil, err
	}

	var (
		version    int64
		refillable bool
	)
	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx, caller, otherUserID)
		switch {
		case err != nil:
			metrics.IncThreadCache("error")
			logger.Warn("读取会话缓存失败", zap.Error(err))
		case found:
			metrics.IncThreadCache("hit")
			return cached, nil
		default:
			metrics.IncThreadCache("miss")
			// 版本号必须在查库之前读取
			if version, err = s.cache.Version(ctx, caller, otherUserID); err == nil {
				refillable = true
			}
		}
	}

	messages, err := s.messageRepo.ListBetween(ctx, caller, otherUserID)
	if err != nil {
		return nil, err
	}

	if refillable {
		stored, err := s.cache.Set(ctx, caller, otherUserID, messages, version)
		switch {
		case err != nil:
			logger.Warn("回填会话缓存失败", zap.Error(err))
		case !stored:
			metrics.IncThreadCache("stale")
			logger.Debug("会话已更新，放弃回填", zap.Uint("user_a", caller), zap.Uint("user_b", otherUserID))
		}
	}
	return messages, nil
}

// SendMessage 发送私聊消息，写库后清除会话缓存
func (s *MessageService) SendMessage(ctx context.Context, caller uint, in SendMessageInput) (*model.Message, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, model.NewValidationError("content cannot be empty")
	}
	if in.ReceiverID == 0 {
		return nil, model.NewValidationError("receiverId is required")
	}
	// 不能给自己发消息
	if in.ReceiverID == caller {
		return nil, model.NewValidationError("cannot send a message to yourself")
	}

	ok, err := s.userRepo.Exists(ctx, in.ReceiverID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.NewNotFoundError("user", in.ReceiverID)
	}
	if err := s.checkMatched(ctx, caller, in.ReceiverID); err != nil {
		return nil, err
	}

	message := &model.Message{
		SenderID:   caller,
		ReceiverID: in.ReceiverID,
		Content:    in.Content,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, caller, in.ReceiverID); err != nil {
			logger.Warn("清除会话缓存失败", zap.Error(err))
		}
	}

	metrics.IncMessageSent()
	events.Emit(ctx, s.publisher, events.MessageSent, message)
	return message, nil
}

// checkMatched 开启严格模式时，双方须有已接受的交换请求
func (s *MessageService) checkMatched(ctx context.Context, userA, userB uint) error {
	if !s.requireAcceptedSwap {
		return nil
	}
	ok, err := s.swapRepo.HasAcceptedBetween(ctx, userA, userB)
	if err != nil {
		return err
	}
	if !ok {
		return model.NewForbiddenError("messaging requires an accepted swap request")
	}
	return nil
}

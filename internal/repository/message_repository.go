package repository

import (
	"context"

	"skill-swap/internal/model"

	"gorm.io/gorm"
)

// MessageRepository 消息数据仓储
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建MessageRepository实例
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create 创建消息
func (r *MessageRepository) Create(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// ListBetween 获取两个用户之间的全部消息（双向），按时间升序，同一时间按ID升序
func (r *MessageRepository) ListBetween(ctx context.Context, userA, userB uint) ([]*model.Message, error) {
	messages := make([]*model.Message, 0)
	err := r.db.WithContext(ctx).
		Where(
			"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA,
		).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}

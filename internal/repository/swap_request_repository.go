package repository

import (
	"context"
	"time"

	"skill-swap/internal/model"

	"gorm.io/gorm"
)

// SwapRequestRepository 交换请求数据仓储
type SwapRequestRepository struct {
	db *gorm.DB
}

// NewSwapRequestRepository 创建SwapRequestRepository实例
func NewSwapRequestRepository(db *gorm.DB) *SwapRequestRepository {
	return &SwapRequestRepository{db: db}
}

// withParties 预加载技能与双方用户
func withParties(q *gorm.DB) *gorm.DB {
	return q.Preload("Skill").Preload("Sender").Preload("Receiver")
}

// Create 创建交换请求
func (r *SwapRequestRepository) Create(ctx context.Context, req *model.SwapRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// GetByID 根据ID获取交换请求（含技能与双方用户）
func (r *SwapRequestRepository) GetByID(ctx context.Context, id uint) (*model.SwapRequest, error) {
	var req model.SwapRequest
	if err := withParties(r.db.WithContext(ctx)).First(&req, id).Error; err != nil {
		return nil, translateNotFound(err, "swap request", id)
	}
	return &req, nil
}

// ListForUser 获取用户发出或收到的全部请求，最新的在前
func (r *SwapRequestRepository) ListForUser(ctx context.Context, userID uint) ([]*model.SwapRequest, error) {
	reqs := make([]*model.SwapRequest, 0)
	err := withParties(r.db.WithContext(ctx)).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&reqs).Error
	return reqs, err
}

// UpdateStatus 条件更新状态，仅当当前状态为 from 时生效
// 返回 false 表示状态已被其他请求修改
func (r *SwapRequestRepository) UpdateStatus(ctx context.Context, id uint, from, to model.SwapStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.SwapRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// HasAcceptedBetween 两个用户之间是否存在已接受的请求
func (r *SwapRequestRepository) HasAcceptedBetween(ctx context.Context, userA, userB uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.SwapRequest{}).
		Where("status = ?", model.SwapStatusAccepted).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userA, userB, userB, userA).
		Count(&count).Error
	return count > 0, err
}

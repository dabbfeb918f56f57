package repository

import (
	"context"

	"skill-swap/internal/model"

	"gorm.io/gorm"
)

// ReviewRepository 评价数据仓储
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建ReviewRepository实例
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create 创建评价
func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// ListForTarget 获取某个用户收到的评价（含评价者），最新的在前
func (r *ReviewRepository) ListForTarget(ctx context.Context, targetID uint) ([]*model.Review, error) {
	reviews := make([]*model.Review, 0)
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("target_id = ?", targetID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&reviews).Error
	return reviews, err
}

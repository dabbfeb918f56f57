package service

import (
	"context"

	"skill-swap/internal/model"
	"skill-swap/internal/repository"
	"skill-swap/pkg/events"
)

// CreateReviewInput 评价参数
type CreateReviewInput struct {
	TargetID uint
	Rating   int
	Feedback string
}

// ReviewService 用户评价
type ReviewService struct {
	reviewRepo *repository.ReviewRepository
	userRepo   *repository.UserRepository
	publisher  events.Publisher
}

// NewReviewService 创建ReviewService实例
func NewReviewService(reviewRepo *repository.ReviewRepository, userRepo *repository.UserRepository, publisher events.Publisher) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, userRepo: userRepo, publisher: publisher}
}

// ListReviews 某个用户收到的评价，附带评价者
func (s *ReviewService) ListReviews(ctx context.Context, targetID uint) ([]*model.Review, error) {
	return s.reviewRepo.ListForTarget(ctx, targetID)
}

// CreateReview 以调用者身份评价目标用户，评分不限范围
func (s *ReviewService) CreateReview(ctx context.Context, caller uint, in CreateReviewInput) (*model.Review, error) {
	if in.TargetID == 0 {
		return nil, model.NewValidationError("targetId is required")
	}
	if _, err := s.userRepo.GetByID(ctx, in.TargetID); err != nil {
		return nil, err
	}
	author, err := s.userRepo.GetByID(ctx, caller)
	if err != nil {
		return nil, err
	}

	review := &model.Review{
		AuthorID: caller,
		TargetID: in.TargetID,
		Rating:   in.Rating,
		Feedback: in.Feedback,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	review.Author = author

	events.Emit(ctx, s.publisher, events.ReviewCreated, review)
	return review, nil
}

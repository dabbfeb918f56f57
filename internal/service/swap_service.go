package service

import (
	"context"
	"fmt"

	"skill-swap/internal/model"
	"skill-swap/internal/repository"
	"skill-swap/pkg/events"
	"skill-swap/pkg/logger"
	"skill-swap/pkg/metrics"

	"go.uber.org/zap"
)

// CreateRequestInput 发起交换请求参数
type CreateRequestInput struct {
	ReceiverID uint
	SkillID    uint
	Message    *string
}

// SwapService 交换请求工作流：pending -> accepted | rejected
type SwapService struct {
	swapRepo  *repository.SwapRequestRepository
	userRepo  *repository.UserRepository
	skillRepo *repository.SkillRepository
	publisher events.Publisher
}

// NewSwapService 创建SwapService实例
func NewSwapService(
	swapRepo *repository.SwapRequestRepository,
	userRepo *repository.UserRepository,
	skillRepo *repository.SkillRepository,
	publisher events.Publisher,
) *SwapService {
	return &SwapService{
		swapRepo:  swapRepo,
		userRepo:  userRepo,
		skillRepo: skillRepo,
		publisher: publisher,
	}
}

// CreateRequest 发起请求，状态固定为 pending
func (s *SwapService) CreateRequest(ctx context.Context, caller uint, in CreateRequestInput) (*model.SwapRequest, error) {
	if in.ReceiverID == 0 || in.SkillID == 0 {
		return nil, model.NewValidationError("receiverId and skillId are required")
	}
	if in.ReceiverID == caller {
		return nil, model.NewValidationError("cannot send a swap request to yourself")
	}
	ok, err := s.userRepo.Exists(ctx, in.ReceiverID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.NewNotFoundError("user", in.ReceiverID)
	}
	skill, err := s.skillRepo.GetByID(ctx, in.SkillID)
	if err != nil {
		return nil, err
	}

	req := &model.SwapRequest{
		SenderID:   caller,
		ReceiverID: in.ReceiverID,
		SkillID:    in.SkillID,
		Status:     model.SwapStatusPending,
		Message:    in.Message,
	}
	if err := s.swapRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	req.Skill = skill

	metrics.IncSwapTransition(string(model.SwapStatusPending))
	events.Emit(ctx, s.publisher, events.SwapRequestCreated, req)
	return req, nil
}

// ListRequests 调用者发出或收到的请求，附带技能与对方用户
func (s *SwapService) ListRequests(ctx context.Context, caller uint) ([]*model.SwapRequestDetail, error) {
	reqs, err := s.swapRepo.ListForUser(ctx, caller)
	if err != nil {
		return nil, err
	}
	details := make([]*model.SwapRequestDetail, 0, len(reqs))
	for _, r := range reqs {
		details = append(details, &model.SwapRequestDetail{
			SwapRequest: *r,
			OtherUser:   r.OtherParty(caller),
		})
	}
	return details, nil
}

// UpdateStatus 接收者接受或拒绝请求；终态请求不可再变更
func (s *SwapService) UpdateStatus(ctx context.Context, caller, id uint, status model.SwapStatus) (*model.SwapRequest, error) {
	if !status.ValidTarget() {
		return nil, model.NewValidationError("status must be accepted or rejected")
	}
	req, err := s.swapRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ReceiverID != caller {
		return nil, model.NewForbiddenError("only the receiver can respond to a swap request")
	}
	if req.Status.Terminal() {
		return nil, alreadyDecided(req.Status)
	}

	changed, err := s.swapRepo.UpdateStatus(ctx, id, model.SwapStatusPending, status)
	if err != nil {
		return nil, err
	}

	updated, err := s.swapRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// 并发请求已先一步改变状态
	if !changed {
		return nil, alreadyDecided(updated.Status)
	}

	logger.Info("交换请求状态已更新",
		zap.Uint("request_id", id),
		zap.Uint("receiver_id", caller),
		zap.String("status", string(status)),
	)
	metrics.IncSwapTransition(string(status))
	routingKey := events.SwapRequestRejected
	if status == model.SwapStatusAccepted {
		routingKey = events.SwapRequestAccepted
	}
	events.Emit(ctx, s.publisher, routingKey, updated)
	return updated, nil
}

func alreadyDecided(status model.SwapStatus) error {
	return model.NewConflictError(fmt.Sprintf("request is already %s", status))
}

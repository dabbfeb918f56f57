package service

import (
	"context"
	"strings"

	"skill-swap/internal/model"
	"skill-swap/internal/repository"
)

// CreateSkillInput 发布技能参数
type CreateSkillInput struct {
	Title       string
	Description string
	Category    string
	Type        model.SkillType
}

// SkillService 技能查询与发布
type SkillService struct {
	skillRepo *repository.SkillRepository
	userRepo  *repository.UserRepository
}

// NewSkillService 创建SkillService实例
func NewSkillService(skillRepo *repository.SkillRepository, userRepo *repository.UserRepository) *SkillService {
	return &SkillService{skillRepo: skillRepo, userRepo: userRepo}
}

// ListSkills 按分类、类型、关键字过滤技能
func (s *SkillService) ListSkills(ctx context.Context, filter model.SkillFilter) ([]*model.Skill, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, model.NewValidationError("type must be teach or learn")
	}
	return s.skillRepo.List(ctx, filter)
}

// CreateSkill 以调用者身份发布技能
func (s *SkillService) CreateSkill(ctx context.Context, caller uint, in CreateSkillInput) (*model.Skill, error) {
	title := strings.TrimSpace(in.Title)
	category := strings.TrimSpace(in.Category)
	if title == "" || category == "" {
		return nil, model.NewValidationError("title and category are required")
	}
	if !in.Type.Valid() {
		return nil, model.NewValidationError("type must be teach or learn")
	}

	owner, err := s.userRepo.GetByID(ctx, caller)
	if err != nil {
		return nil, err
	}

	skill := &model.Skill{
		UserID:      caller,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Category:    category,
		Type:        in.Type,
	}
	if err := s.skillRepo.Create(ctx, skill); err != nil {
		return nil, err
	}
	skill.User = owner
	return skill, nil
}

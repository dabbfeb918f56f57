package repository

import (
	"context"
	"strings"

	"skill-swap/internal/model"

	"gorm.io/gorm"
)

// likeEscaper 转义 LIKE 通配符，统一使用 ! 作为转义字符
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern 生成子串匹配模式
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// SkillRepository 技能数据仓储
type SkillRepository struct {
	db *gorm.DB
}

// NewSkillRepository 创建SkillRepository实例
func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

// Create 创建技能
func (r *SkillRepository) Create(ctx context.Context, skill *model.Skill) error {
	return r.db.WithContext(ctx).Create(skill).Error
}

// GetByID 根据ID获取技能
func (r *SkillRepository) GetByID(ctx context.Context, id uint) (*model.Skill, error) {
	var s model.Skill
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translateNotFound(err, "skill", id)
	}
	return &s, nil
}

// List 按条件查询技能并附带发布者，条件之间为 AND 关系
func (r *SkillRepository) List(ctx context.Context, filter model.SkillFilter) ([]*model.Skill, error) {
	q := r.db.WithContext(ctx).Model(&model.Skill{}).Preload("User")

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Search != "" {
		q = r.applySearch(q, filter.Search)
	}

	skills := make([]*model.Skill, 0)
	err := q.Order("id ASC").Find(&skills).Error
	return skills, err
}

// applySearch 标题或描述包含关键字（不区分大小写），postgres 使用 ILIKE
func (r *SkillRepository) applySearch(q *gorm.DB, term string) *gorm.DB {
	if r.db.Dialector.Name() == "postgres" {
		pattern := containsPattern(term)
		return q.Where("title ILIKE ? ESCAPE '!' OR description ILIKE ? ESCAPE '!'", pattern, pattern)
	}
	pattern := containsPattern(strings.ToLower(term))
	return q.Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'", pattern, pattern)
}

package handler

import (
	"skill-swap/internal/model"
	"skill-swap/internal/service"
	"skill-swap/pkg/jwt"
	"skill-swap/pkg/response"

	"github.com/gin-gonic/gin"
)

// SkillHandler 技能处理器
type SkillHandler struct {
	service *service.SkillService
}

// NewSkillHandler 创建SkillHandler实例
func NewSkillHandler(s *service.SkillService) *SkillHandler {
	return &SkillHandler{service: s}
}

// ListSkills 浏览技能，支持 category/search/type 查询参数
func (h *SkillHandler) ListSkills(c *gin.Context) {
	skills, err := h.service.ListSkills(c.Request.Context(), model.SkillFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Type:     model.SkillType(c.Query("type")),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, skills)
}

// CreateSkill 发布技能（需要JWT认证）
func (h *SkillHandler) CreateSkill(c *gin.Context) {
	type req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Category    string `json:"category" binding:"required"`
		Type        string `json:"type" binding:"required,oneof=teach learn"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	skill, err := h.service.CreateSkill(c.Request.Context(), jwt.GetUserID(c), service.CreateSkillInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Type:        model.SkillType(r.Type),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, skill)
}

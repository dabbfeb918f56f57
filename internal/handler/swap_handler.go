package handler

import (
	"skill-swap/internal/model"
	"skill-swap/internal/service"
	"skill-swap/pkg/jwt"
	"skill-swap/pkg/response"

	"github.com/gin-gonic/gin"
)

// SwapHandler 交换请求处理器
type SwapHandler struct {
	service *service.SwapService
}

// NewSwapHandler 创建SwapHandler实例
func NewSwapHandler(s *service.SwapService) *SwapHandler {
	return &SwapHandler{service: s}
}

// ListRequests 我发出和收到的请求
func (h *SwapHandler) ListRequests(c *gin.Context) {
	reqs, err := h.service.ListRequests(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, reqs)
}

// CreateRequest 发起交换请求，状态总是 pending
func (h *SwapHandler) CreateRequest(c *gin.Context) {
	type req struct {
		ReceiverID uint    `json:"receiverId" binding:"required"`
		SkillID    uint    `json:"skillId" binding:"required"`
		Message    *string `json:"message"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	created, err := h.service.CreateRequest(c.Request.Context(), jwt.GetUserID(c), service.CreateRequestInput{
		ReceiverID: r.ReceiverID,
		SkillID:    r.SkillID,
		Message:    r.Message,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, created)
}

// UpdateStatus 接受或拒绝请求
func (h *SwapHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	type req struct {
		Status string `json:"status" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), jwt.GetUserID(c), id, model.SwapStatus(r.Status))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, updated)
}

package handler

import (
	"skill-swap/internal/service"
	"skill-swap/pkg/jwt"
	"skill-swap/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReviewHandler 评价处理器
type ReviewHandler struct {
	service *service.ReviewService
}

// NewReviewHandler 创建ReviewHandler实例
func NewReviewHandler(s *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: s}
}

// ListReviews 用户收到的评价
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reviews, err := h.service.ListReviews(c.Request.Context(), targetID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, reviews)
}

// CreateReview 评价其他用户
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	type req struct {
		TargetID uint   `json:"targetId" binding:"required"`
		Rating   *int   `json:"rating" binding:"required"`
		Feedback string `json:"feedback"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	review, err := h.service.CreateReview(c.Request.Context(), jwt.GetUserID(c), service.CreateReviewInput{
		TargetID: r.TargetID,
		Rating:   *r.Rating,
		Feedback: r.Feedback,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, review)
}

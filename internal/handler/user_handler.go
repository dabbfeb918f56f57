package handler

import (
	"net/http"

	"skill-swap/internal/model"
	"skill-swap/internal/service"
	"skill-swap/pkg/jwt"
	"skill-swap/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(s *service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// Register 用户注册
func (h *UserHandler) Register(c *gin.Context) {
	type req struct {
		Username     string  `json:"username" binding:"required"`
		Password     string  `json:"password" binding:"required"`
		Name         string  `json:"name" binding:"required"`
		Bio          *string `json:"bio"`
		Location     *string `json:"location"`
		Availability *string `json:"availability"`
		AvatarURL    *string `json:"avatarUrl"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, token, err := h.service.Register(c.Request.Context(), service.RegisterInput{
		Username:     r.Username,
		Password:     r.Password,
		Name:         r.Name,
		Bio:          r.Bio,
		Location:     r.Location,
		Availability: r.Availability,
		AvatarURL:    r.AvatarURL,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, &response.AuthResponse{User: user, AccessToken: token})
}

// Login 用户登录
func (h *UserHandler) Login(c *gin.Context) {
	type req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, token, err := h.service.Login(c.Request.Context(), r.Username, r.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, &response.AuthResponse{User: user, AccessToken: token})
}

// Logout 用户登出（需要JWT认证）：当前令牌加入黑名单
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), jwt.GetClaims(c)); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "logged out"})
}

// CurrentUser 当前登录用户（需要JWT认证）
func (h *UserHandler) CurrentUser(c *gin.Context) {
	user, err := h.service.CurrentUser(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, user)
}

// GetUser 查看用户资料
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, user)
}

// UpdateUser 更新自己的资料（需要JWT认证），用户名不可修改
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	type req struct {
		Username     *string `json:"username"`
		Name         *string `json:"name"`
		Bio          *string `json:"bio"`
		Location     *string `json:"location"`
		Availability *string `json:"availability"`
		AvatarURL    *string `json:"avatarUrl"`
		Password     *string `json:"password"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if r.Username != nil {
		response.BadRequest(c, "username cannot be changed")
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), jwt.GetUserID(c), id, model.UserPatch{
		Name:         r.Name,
		Bio:          r.Bio,
		Location:     r.Location,
		Availability: r.Availability,
		AvatarURL:    r.AvatarURL,
		Password:     r.Password,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, user)
}

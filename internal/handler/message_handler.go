package handler

import (
	"skill-swap/internal/service"
	"skill-swap/pkg/jwt"
	"skill-swap/pkg/response"

	"github.com/gin-gonic/gin"
)

// MessageHandler 消息处理器
type MessageHandler struct {
	service *service.MessageService
}

// NewMessageHandler 创建MessageHandler实例
func NewMessageHandler(s *service.MessageService) *MessageHandler {
	return &MessageHandler{service: s}
}

// SendMessage 发送消息
func (h *MessageHandler) SendMessage(c *gin.Context) {
	type req struct {
		ReceiverID uint   `json:"receiverId" binding:"required"`
		Content    string `json:"content" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	message, err := h.service.SendMessage(c.Request.Context(), jwt.GetUserID(c), service.SendMessageInput{
		ReceiverID: r.ReceiverID,
		Content:    r.Content,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, message)
}

// ListMessages 与指定用户的全部消息，客户端轮询调用
func (h *MessageHandler) ListMessages(c *gin.Context) {
	otherUserID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	messages, err := h.service.ListMessages(c.Request.Context(), jwt.GetUserID(c), otherUserID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, messages)
}

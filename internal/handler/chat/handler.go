package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rkapoor/telecare-api/internal/handler"
	"github.com/rkapoor/telecare-api/internal/middleware"
	"github.com/rkapoor/telecare-api/internal/model"
	"github.com/rkapoor/telecare-api/internal/service/chat"
)

type Handler struct {
	service *chat.Service
}

func NewHandler(service *chat.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Send(c *gin.Context) {
	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid recipient ID"))
		return
	}

	actor := middleware.GetPrincipal(c)
	msg, err := h.service.Send(c.Request.Context(), actor, recipientID, req.Content, req.AttachmentURL, req.AttachmentType)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(msg))
}

func (h *Handler) History(c *gin.Context) {
	a, err := uuid.Parse(c.Param("userA"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}
	b, err := uuid.Parse(c.Param("userB"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	messages, err := h.service.History(c.Request.Context(), middleware.GetPrincipal(c), a, b)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(messages))
}

func (h *Handler) UnreadCount(c *gin.Context) {
	recipientID, err := uuid.Parse(c.Param("recipientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid recipient ID"))
		return
	}
	senderID, err := uuid.Parse(c.Param("senderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid sender ID"))
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), recipientID, senderID)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"count": count}))
}

func (h *Handler) MarkRead(c *gin.Context) {
	recipientID, err := uuid.Parse(c.Param("recipientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid recipient ID"))
		return
	}
	senderID, err := uuid.Parse(c.Param("senderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid sender ID"))
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), middleware.GetPrincipal(c), recipientID, senderID); err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	chatGroup := r.Group("/chat")
	{
		chatGroup.POST("/messages", h.Send)
		chatGroup.GET("/history/:userA/:userB", h.History)
		chatGroup.GET("/unread-count/:recipientId/:senderId", h.UnreadCount)
		chatGroup.POST("/mark-read/:recipientId/:senderId", h.MarkRead)
	}
}

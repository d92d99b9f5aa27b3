package stream

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rkapoor/telecare-api/internal/handler"
	"github.com/rkapoor/telecare-api/internal/middleware"
	"github.com/rkapoor/telecare-api/internal/model"
	"github.com/rkapoor/telecare-api/pkg/messaging"
)

// Handler bridges a bus subscription onto a server-sent event stream. The
// stream carries whatever the topic carries: notifications, chat messages,
// or call signals. Closing the connection cancels the subscription.
type Handler struct {
	broker messaging.Broker
}

func NewHandler(broker messaging.Broker) *Handler {
	return &Handler{broker: broker}
}

func (h *Handler) Subscribe(c *gin.Context) {
	topic := c.Query("topic")
	kind, owner, err := model.ParseTopic(topic)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid topic"))
		return
	}

	// Personal topics are only readable by their owner (or an admin).
	actor := middleware.GetPrincipal(c)
	if !actor.IsAdmin() && !actor.Owns(owner) {
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("cannot subscribe to another user's topic"))
		return
	}

	sub, err := h.broker.Subscribe(c.Request.Context(), topic)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	defer sub.Cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case payload, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent(kind, string(payload))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stream", h.Subscribe)
}

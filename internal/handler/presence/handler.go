package presence

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rkapoor/telecare-api/internal/handler"
	"github.com/rkapoor/telecare-api/internal/middleware"
	"github.com/rkapoor/telecare-api/internal/service/presence"
)

type Handler struct {
	tracker *presence.Tracker
}

func NewHandler(tracker *presence.Tracker) *Handler {
	return &Handler{tracker: tracker}
}

func (h *Handler) Heartbeat(c *gin.Context) {
	actor := middleware.GetPrincipal(c)
	h.tracker.Heartbeat(c.Request.Context(), actor.UserID)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) Status(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	status := h.tracker.Status(c.Request.Context(), userID)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(status))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	presenceGroup := r.Group("/presence")
	{
		presenceGroup.POST("/heartbeat", h.Heartbeat)
		presenceGroup.GET("/:id/status", h.Status)
	}
}

package signaling

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rkapoor/telecare-api/internal/handler"
	"github.com/rkapoor/telecare-api/internal/middleware"
	"github.com/rkapoor/telecare-api/internal/model"
	"github.com/rkapoor/telecare-api/internal/service/signaling"
)

type Handler struct {
	relay *signaling.Relay
}

func NewHandler(relay *signaling.Relay) *Handler {
	return &Handler{relay: relay}
}

// Relay is fire-and-forget: the envelope is forwarded as-is and the caller
// gets no delivery confirmation.
func (h *Handler) Relay(c *gin.Context) {
	var signal model.SignalEnvelope
	if err := c.ShouldBindJSON(&signal); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	// The sender is whoever is on the wire, not whatever the payload claims.
	signal.SenderID = middleware.GetPrincipal(c).UserID

	if err := h.relay.Relay(c.Request.Context(), &signal); err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, handler.NewSuccessResponse(nil))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/signaling/relay", h.Relay)
}

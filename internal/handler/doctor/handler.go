package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rkapoor/telecare-api/internal/handler"
	"github.com/rkapoor/telecare-api/internal/middleware"
	"github.com/rkapoor/telecare-api/internal/model"
	"github.com/rkapoor/telecare-api/internal/service/doctor"
)

type Handler struct {
	service *doctor.Service
}

func NewHandler(service *doctor.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	doctors, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

// Recommend takes the risk level produced by the external score classifier
// and returns doctors of the matching specialization.
func (h *Handler) Recommend(c *gin.Context) {
	risk := model.RiskLevel(c.Query("risk"))
	switch risk {
	case model.RiskLow, model.RiskMedium, model.RiskHigh:
	default:
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("risk must be one of Low, Medium, High"))
		return
	}

	doctors, err := h.service.Recommend(c.Request.Context(), risk)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) MyPatients(c *gin.Context) {
	actor := middleware.GetPrincipal(c)
	if actor.Role != model.RoleDoctor {
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("only doctors have patients"))
		return
	}

	patients, err := h.service.MyPatients(c.Request.Context(), actor.UserID)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.List)
		doctors.GET("/recommend", h.Recommend)
		doctors.GET("/my-patients", h.MyPatients)
	}
}

package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/irisclinic/clinic-api/internal/handler"
	"github.com/irisclinic/clinic-api/internal/model"
	"github.com/irisclinic/clinic-api/internal/service/analytics"
)

type Handler struct {
	svc *analytics.Service
}

func NewHandler(svc *analytics.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	a := r.Group("/analytics")
	{
		a.GET("/symptoms-list", h.SymptomsList)
		a.POST("/symptoms-count", h.SymptomCounts)
		a.GET("/patients-per-month", h.PatientsPerMonth)
	}
}

func (h *Handler) SymptomsList(c *gin.Context) {
	names, err := h.svc.SymptomsList(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"symptoms": names}))
}

func (h *Handler) SymptomCounts(c *gin.Context) {
	var req model.SymptomCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("please provide 1 to 5 symptoms"))
		return
	}

	counts, err := h.svc.SymptomCounts(c.Request.Context(), req.Symptoms)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"counts": counts}))
}

func (h *Handler) PatientsPerMonth(c *gin.Context) {
	months, err := h.svc.PatientsPerMonth(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"months": months}))
}

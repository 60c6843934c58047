package medical

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/irisclinic/clinic-api/internal/handler"
	"github.com/irisclinic/clinic-api/internal/middleware"
	"github.com/irisclinic/clinic-api/internal/model"
	"github.com/irisclinic/clinic-api/internal/service/medical"
)

type Handler struct {
	svc *medical.Service
}

func NewHandler(svc *medical.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes attaches the history and symptom endpoints under the
// patients group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/medicalHistory/:patient_id", h.GetHistory)
	r.POST("/medicalHistory", h.CreateHistory)
	r.PUT("/updateMedicalHistory/:history_id", h.UpdateHistory)

	r.GET("/symptoms/:patient_id", h.ListSymptoms)
	r.POST("/addSymptom", h.AddSymptom)
	r.DELETE("/removeSymptom/:patient_id/:symptom_name", h.RemoveSymptom)
	r.GET("/search/symptoms", h.SearchSymptoms)
	r.GET("/search/topSymptoms", h.TopSymptoms)
}

func (h *Handler) GetHistory(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("patient_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	histories, err := h.svc.GetHistory(c.Request.Context(), patientID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"medicalHistory": histories}))
}

func (h *Handler) CreateHistory(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var req model.CreateHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	history, err := h.svc.CreateHistory(c.Request.Context(), actor.UserID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{"medicalHistory": history}))
}

func (h *Handler) UpdateHistory(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	historyID, err := uuid.Parse(c.Param("history_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid history ID"))
		return
	}

	var req model.UpdateHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	history, err := h.svc.UpdateHistory(c.Request.Context(), actor.UserID, historyID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"medicalHistory": history}))
}

func (h *Handler) ListSymptoms(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("patient_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	symptoms, err := h.svc.ListSymptomsForPatient(c.Request.Context(), patientID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"symptoms": symptoms}))
}

func (h *Handler) AddSymptom(c *gin.Context) {
	var req model.AddSymptomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.svc.AddSymptom(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if result.AlreadyLinked {
		c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"message": "symptom already linked to this patient"}))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{"symptomId": result.SymptomID}))
}

func (h *Handler) RemoveSymptom(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("patient_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}
	symptomName := c.Param("symptom_name")

	if err := h.svc.RemoveSymptom(c.Request.Context(), patientID, symptomName); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"message": "symptom removed successfully"}))
}

func (h *Handler) SearchSymptoms(c *gin.Context) {
	symptoms, err := h.svc.SearchSymptoms(c.Request.Context(), c.Query("q"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"symptoms": symptoms}))
}

func (h *Handler) TopSymptoms(c *gin.Context) {
	symptoms, err := h.svc.TopSymptoms(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"symptoms": symptoms}))
}

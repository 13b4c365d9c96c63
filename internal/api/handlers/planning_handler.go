package handlers

import (
	"net/http"

	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/andresuchdata/roasboard/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type PlanningHandler struct {
	service *service.PlanningService
}

func NewPlanningHandler(service *service.PlanningService) *PlanningHandler {
	return &PlanningHandler{service: service}
}

type reallocateRequest struct {
	TotalBudget *float64 `json:"total_budget" binding:"required"`
}

type createScenarioRequest struct {
	Name        string                    `json:"name" binding:"required"`
	Description string                    `json:"description"`
	Changes     []domain.SimulationChange `json:"changes"`
}

type quickSimulationRequest struct {
	SKUID       string  `json:"sku_id" binding:"required"`
	SpendChange float64 `json:"spend_change"`
}

func (h *PlanningHandler) GetRecommendations(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	recs, err := h.service.Recommendations(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "failed to build recommendations", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": recs})
}

func (h *PlanningHandler) Reallocate(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	var req reallocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	recs, err := h.service.Reallocate(c.Request.Context(), filter, *req.TotalBudget)
	if err != nil {
		respondError(c, "failed to reallocate budget", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": recs})
}

func (h *PlanningHandler) GetMargins(c *gin.Context) {
	margins, err := h.service.Margins(c.Request.Context())
	if err != nil {
		respondError(c, "failed to load margins", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": margins})
}

func (h *PlanningHandler) ListScenarios(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.service.Scenarios()})
}

func (h *PlanningHandler) GetScenario(c *gin.Context) {
	sc, err := h.service.Scenario(c.Param("id"))
	if err != nil {
		respondError(c, "failed to fetch scenario", err)
		return
	}

	c.JSON(http.StatusOK, sc)
}

func (h *PlanningHandler) CreateScenario(c *gin.Context) {
	var req createScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if req.Changes == nil {
		req.Changes = make([]domain.SimulationChange, 0)
	}

	sc, err := h.service.CreateScenario(req.Name, req.Description, req.Changes)
	if err != nil {
		respondError(c, "failed to create scenario", err)
		return
	}

	c.JSON(http.StatusCreated, sc)
}

func (h *PlanningHandler) DeleteScenario(c *gin.Context) {
	if err := h.service.DeleteScenario(c.Param("id")); err != nil {
		respondError(c, "failed to delete scenario", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PlanningHandler) RunScenario(c *gin.Context) {
	result, err := h.service.RunScenario(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "failed to run scenario", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PlanningHandler) CaptureBaseline(c *gin.Context) {
	metrics, err := h.service.CaptureBaseline(c.Request.Context())
	if err != nil {
		respondError(c, "failed to capture baseline", err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}

func (h *PlanningHandler) QuickSimulation(c *gin.Context) {
	var req quickSimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.service.SimulateSpendChange(c.Request.Context(), req.SKUID, req.SpendChange)
	if err != nil {
		respondError(c, "failed to simulate spend change", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

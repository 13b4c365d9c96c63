package handlers

import (
	"net/http"

	"github.com/andresuchdata/roasboard/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) GetSKUs(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	skus, err := h.service.SKUs(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "failed to fetch skus", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": skus, "total": len(skus)})
}

func (h *DashboardHandler) GetSKU(c *gin.Context) {
	sku, err := h.service.SKU(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "failed to fetch sku", err)
		return
	}

	c.JSON(http.StatusOK, sku)
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	dashboard, err := h.service.Dashboard(c.Request.Context(), parseDays(c), filter)
	if err != nil {
		respondError(c, "failed to build dashboard", err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *DashboardHandler) GetMetrics(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	metrics, err := h.service.Metrics(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "failed to compute metrics", err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}

func (h *DashboardHandler) GetCampaigns(c *gin.Context) {
	campaigns, err := h.service.Campaigns(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch campaigns", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": campaigns})
}

func (h *DashboardHandler) GetTimeSeries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.service.TimeSeries(parseDays(c))})
}

func (h *DashboardHandler) GetPredictions(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	predictions, err := h.service.Predictions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "failed to predict stockouts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": predictions})
}

func (h *DashboardHandler) GetFeatureImportance(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.FeatureImportance())
}

func (h *DashboardHandler) GetInventoryAlerts(c *gin.Context) {
	alerts, err := h.service.InventoryAlerts(c.Request.Context())
	if err != nil {
		respondError(c, "failed to build inventory alerts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": alerts})
}

func (h *DashboardHandler) Refresh(c *gin.Context) {
	if err := h.service.Refresh(c.Request.Context()); err != nil {
		respondError(c, "failed to refresh data", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "refreshed"})
}

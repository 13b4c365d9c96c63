package handlers

import (
	"fmt"
	"net/http"

	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/andresuchdata/roasboard/backend-go/internal/export"
	"github.com/andresuchdata/roasboard/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	service *service.ExportService
}

func NewExportHandler(service *service.ExportService) *ExportHandler {
	return &ExportHandler{service: service}
}

type publishRequest struct {
	Reports    []string `json:"reports" binding:"required,min=1"`
	ScenarioID string   `json:"scenario_id"`
}

// Download streams one CSV report as an attachment.
func (h *ExportHandler) Download(c *gin.Context) {
	report, ok := export.ParseReport(c.Param("report"))
	if !ok {
		respondError(c, "unknown report", fmt.Errorf("report %q: %w", c.Param("report"), domain.ErrUnknownReport))
		return
	}
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	rendered, err := h.service.Render(c.Request.Context(), service.ExportRequest{
		Report:     report,
		Filter:     filter,
		ScenarioID: c.Query("scenario_id"),
	})
	if err != nil {
		respondError(c, "failed to render report", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rendered.Filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", rendered.Data)
}

// Publish renders the requested reports and uploads them to object storage.
func (h *ExportHandler) Publish(c *gin.Context) {
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	reqs := make([]service.ExportRequest, 0, len(req.Reports))
	for _, name := range req.Reports {
		report, ok := export.ParseReport(name)
		if !ok {
			respondError(c, "unknown report", fmt.Errorf("report %q: %w", name, domain.ErrUnknownReport))
			return
		}
		reqs = append(reqs, service.ExportRequest{Report: report, ScenarioID: req.ScenarioID})
	}

	objects, err := h.service.Publish(c.Request.Context(), reqs)
	if err != nil {
		respondError(c, "failed to publish reports", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": objects})
}

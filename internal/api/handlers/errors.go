package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondError maps domain errors to status codes. message is the stable client-facing
// summary, the wrapped error goes into details.
func respondError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrScenarioNotFound), errors.Is(err, domain.ErrSKUNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidChange), errors.Is(err, domain.ErrInvalidBudget),
		errors.Is(err, domain.ErrUnknownReport):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNoRecommendedSpend):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrStorageDisabled):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	}
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}

// parseFilter reads search, category and stock_status from the query string.
func parseFilter(c *gin.Context) (domain.SKUFilter, bool) {
	filter := domain.SKUFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: strings.TrimSpace(c.Query("category")),
	}

	if raw := strings.TrimSpace(c.Query("stock_status")); raw != "" && raw != "all" {
		status, ok := domain.ParseStockStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stock_status", "details": raw})
			return filter, false
		}
		filter.StockStatus = status
	}

	return filter, true
}

func parseDays(c *gin.Context) int {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil {
		return 0
	}
	return days
}

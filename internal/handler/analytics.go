package handler

import (
	"net/http"
	"strconv"

	"tillpos/internal/apierror"
	"tillpos/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct{ svc service.AnalyticsService }

func NewAnalyticsHandler(svc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// DailySales godoc
// @Summary Daily sales aggregate
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param date path string true "Date YYYY-MM-DD"
// @Success 200 {object} dto.DailySalesResponse
// @Failure 400 {object} apierror.APIError
// @Router /analytics/daily/{date} [get]
func (h *AnalyticsHandler) DailySales(c *gin.Context) {
	resp, err := h.svc.DailySales(c.Request.Context(), c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TopProducts returns the best sellers ranked by quantity sold.
func (h *AnalyticsHandler) TopProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	resp, err := h.svc.TopProducts(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to compute top products"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

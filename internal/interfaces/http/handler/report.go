package handler

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/secureshop/backend/internal/application/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves the admin analytics dashboard
type ReportHandler struct {
	BaseHandler
	analyticsService *report.AnalyticsService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(analyticsService *report.AnalyticsService) *ReportHandler {
	return &ReportHandler{analyticsService: analyticsService}
}

// Overview godoc
// @ID           getAnalyticsOverview
// @Summary      Dashboard overview
// @Description  Revenue, order, product and user indicators for a period
// @Tags         analytics
// @Produce      json
// @Param        range query string false "today, week, month, year or custom" default(month)
// @Param        start query string false "Start date (YYYY-MM-DD), required for custom"
// @Param        end   query string false "End date (YYYY-MM-DD), required for custom"
// @Success      200 {object} APIResponse[report.OverviewResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/analytics/overview [get]
func (h *ReportHandler) Overview(c *gin.Context) {
	var q report.OverviewQuery
	if !h.bindQuery(c, &q) {
		return
	}

	overview, err := h.analyticsService.Overview(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, overview)
}

// Export godoc
// @ID           exportAnalytics
// @Summary      Export the dashboard
// @Description  xlsx workbook with Overview, Orders, Top products and Users sheets
// @Tags         analytics
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        range query string false "today, week, month, year or custom" default(month)
// @Param        start query string false "Start date (YYYY-MM-DD)"
// @Param        end   query string false "End date (YYYY-MM-DD)"
// @Success      200 {file} binary
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/analytics/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	var q report.OverviewQuery
	if !h.bindQuery(c, &q) {
		return
	}

	data, filename, err := h.analyticsService.Export(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, xlsxContentType, data)
}

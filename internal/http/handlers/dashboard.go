package handlers

import (
	"github.com/keyshop-admin/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboardSummary 仪表盘汇总
func (h *Handler) GetDashboardSummary(c *gin.Context) {
	summary, err := h.DashboardService.Summary(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "获取仪表盘数据失败")
		return
	}
	response.Success(c, summary)
}

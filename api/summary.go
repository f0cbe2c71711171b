package api

import (
	"dompet/service"

	"github.com/gin-gonic/gin"
)

// ShiftMonthRequest 前后切换月份
type ShiftMonthRequest struct {
	Delta int `json:"delta" binding:"required,oneof=-1 1" example:"-1"`
}

// GetDashboard 月度页面数据
// @Summary 月度页面数据
// @Description 汇总卡片、收入与支出表、预算进度与类别合计。未指定月份且首次打开时，本月没有数据则跳到最早有数据的月份
// @Tags 月份
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份 (YYYY-MM)"
// @Success 200 {object} Response{data=service.Dashboard} "获取成功"
// @Failure 400 {object} Response "月份格式错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/dashboard [get]
func (h *FinanceHandler) GetDashboard(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	st, err := ws.Open(c.Request.Context(), c.Query("month"))
	if err != nil {
		respondError(c, err, "", "Gagal memuat data")
		return
	}
	h.dashboard(c, "", st)
}

// ShiftMonth 切换到上一个或下一个月
// @Summary 切换月份
// @Tags 月份
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param month query string false "当前月份 (YYYY-MM)"
// @Param request body ShiftMonthRequest true "方向"
// @Success 200 {object} Response{data=service.Dashboard} "切换成功"
// @Router /api/v1/months/shift [post]
func (h *FinanceHandler) ShiftMonth(c *gin.Context) {
	var req ShiftMonthRequest
	if !bind(c, &req) {
		return
	}
	ws, _, ok := h.prepare(c)
	if !ok {
		return
	}
	st, err := ws.ChangeMonth(c.Request.Context(), req.Delta)
	if err != nil {
		respondError(c, err, "", "Gagal memuat data")
		return
	}
	h.dashboard(c, "", st)
}

// GetSummary 汇总卡片
// @Summary 汇总卡片
// @Description 总收入、计划支出、实际支出、实际余额、计划剩余与储蓄率
// @Tags 月份
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份 (YYYY-MM)"
// @Success 200 {object} Response{data=[]service.SummaryCard} "获取成功"
// @Router /api/v1/summary [get]
func (h *FinanceHandler) GetSummary(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	st, err := ws.Open(c.Request.Context(), c.Query("month"))
	if err != nil {
		respondError(c, err, "", "Gagal memuat data")
		return
	}
	Success(c, service.SummaryCards(h.finance.DashboardOf(st).Summary))
}

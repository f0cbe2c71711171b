package api

import (
	"dompet/calc"

	"github.com/gin-gonic/gin"
)

// SaveBudgetsRequest 各类别的预算上限，<= 0 表示不设上限
type SaveBudgetsRequest struct {
	Budgets map[string]calc.Amount `json:"budgets" swaggertype:"object,number"`
}

// SaveBudgets 保存预算
// @Summary 保存预算
// @Description 只保留已有类别且上限大于 0 的条目
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份 (YYYY-MM)"
// @Param request body SaveBudgetsRequest true "预算上限"
// @Success 200 {object} Response{data=service.Dashboard} "保存成功"
// @Failure 400 {object} Response "没有类别"
// @Router /api/v1/budgets [put]
func (h *FinanceHandler) SaveBudgets(c *gin.Context) {
	var req SaveBudgetsRequest
	if !bind(c, &req) {
		return
	}
	ws, key, ok := h.prepare(c)
	if !ok {
		return
	}
	st, err := ws.SaveBudgets(c.Request.Context(), key, req.Budgets)
	if err != nil {
		respondError(c, err, msgCategoryNotFound, "Gagal menyimpan budget")
		return
	}
	h.dashboard(c, "Budget berhasil disimpan", st)
}

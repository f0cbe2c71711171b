package api

import (
	"dompet/service"

	"github.com/gin-gonic/gin"
)

// CreateIncome 新增收入
// @Summary 新增收入
// @Description 在指定月份新增一条收入，日期为空时取该月默认日期
// @Tags 收入
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份 (YYYY-MM)"
// @Param request body service.IncomeInput true "收入信息"
// @Success 200 {object} Response{data=service.Dashboard} "新增成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/incomes [post]
func (h *FinanceHandler) CreateIncome(c *gin.Context) {
	var req service.IncomeInput
	if !bind(c, &req) {
		return
	}
	ws, key, ok := h.prepare(c)
	if !ok {
		return
	}
	st, err := ws.AddIncome(c.Request.Context(), key, req)
	if err != nil {
		respondError(c, err, msgIncomeNotFound, "Gagal menyimpan pemasukan")
		return
	}
	h.dashboard(c, "Pemasukan berhasil ditambah", st)
}

// UpdateIncome 修改收入
// @Summary 修改收入
// @Tags 收入
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "收入ID"
// @Param month query string false "月份 (YYYY-MM)"
// @Param request body service.IncomeInput true "收入信息"
// @Success 200 {object} Response{data=service.Dashboard} "修改成功"
// @Failure 404 {object} Response "收入不存在"
// @Router /api/v1/incomes/{id} [put]
func (h *FinanceHandler) UpdateIncome(c *gin.Context) {
	var req service.IncomeInput
	if !bind(c, &req) {
		return
	}
	ws, key, ok := h.prepare(c)
	if !ok {
		return
	}
	st, err := ws.UpdateIncome(c.Request.Context(), key, c.Param("id"), req)
	if err != nil {
		respondError(c, err, msgIncomeNotFound, "Gagal menyimpan pemasukan")
		return
	}
	h.dashboard(c, "Pemasukan berhasil diperbarui", st)
}

// DeleteIncome 删除收入
// @Summary 删除收入
// @Tags 收入
// @Produce json
// @Security BearerAuth
// @Param id path string true "收入ID"
// @Param month query string false "月份 (YYYY-MM)"
// @Success 200 {object} Response{data=service.Dashboard} "删除成功"
// @Failure 404 {object} Response "收入不存在"
// @Router /api/v1/incomes/{id} [delete]
func (h *FinanceHandler) DeleteIncome(c *gin.Context) {
	ws, key, ok := h.prepare(c)
	if !ok {
		return
	}
	st, err := ws.DeleteIncome(c.Request.Context(), key, c.Param("id"))
	if err != nil {
		respondError(c, err, msgIncomeNotFound, "Gagal menghapus pemasukan")
		return
	}
	h.dashboard(c, "Pemasukan berhasil dihapus", st)
}

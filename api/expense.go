package api

import (
	"dompet/calc"
	"dompet/models"
	"dompet/service"

	"github.com/gin-gonic/gin"
)

// ExpenseRequest 支出表单，tagsText 为逗号分隔的标签，给出时优先于 tags
type ExpenseRequest struct {
	Category    string      `json:"category" example:"needs"`
	Amount      calc.Amount `json:"amount" swaggertype:"number" example:"150000"`
	Description string      `json:"description" example:"Belanja mingguan"`
	Date        string      `json:"date" example:"2025-10-18"`
	IsRecurring bool        `json:"isRecurring"`
	Status      string      `json:"status" example:"planned"`
	Tags        []string    `json:"tags"`
	TagsText    string      `json:"tagsText" example:"dapur, mingguan"`
}

func (r ExpenseRequest) input() service.ExpenseInput {
	tags := r.Tags
	if r.TagsText != "" {
		tags = service.SplitTags(r.TagsText)
	}
	return service.ExpenseInput{
		Category:    r.Category,
		Amount:      r.Amount,
		Description: r.Description,
		Date:        r.Date,
		IsRecurring: r.IsRecurring,
		Status:      r.Status,
		Tags:        tags,
	}
}

// CreateExpense 新增支出
// @Summary 新增支出
// @Description 新增支出；周期性支出在没有相同模板时自动登记为模板
// @Tags 支出
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份 (YYYY-MM)"
// @Param request body ExpenseRequest true "支出信息"
// @Success 200 {object} Response{data=service.Dashboard} "新增成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses [post]
func (h *FinanceHandler) CreateExpense(c *gin.Context) {
	var req ExpenseRequest
	if !bind(c, &req) {
		return
	}
	ws, key, ok := h.prepare(c)
	if !ok {
		return
	}
	st, err := ws.AddExpense(c.Request.Context(), key, req.input())
	if err != nil {
		respondError(c, err, msgExpenseNotFound, "Gagal menyimpan pengeluaran")
		return
	}
	h.dashboard(c, "Pengeluaran berhasil ditambah", st)
}

// UpdateExpense 修改支出
// @Summary 修改支出
// @Tags 支出
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "支出ID"
// @Param month query string false "月份 (YYYY-MM)"
// @Param request body ExpenseRequest true "支出信息"
// @Success 200 {object} Response{data=service.Dashboard} "修改成功"
// @Failure 404 {object} Response "支出不存在"
// @Router /api/v1/expenses/{id} [put]
func (h *FinanceHandler) UpdateExpense(c *gin.Context) {
	var req ExpenseRequest
	if !bind(c, &req) {
		return
	}
	ws, key, ok := h.prepare(c)
	if !ok {
		return
	}
	st, err := ws.UpdateExpense(c.Request.Context(), key, c.Param("id"), req.input())
	if err != nil {
		respondError(c, err, msgExpenseNotFound, "Gagal menyimpan pengeluaran")
		return
	}
	h.dashboard(c, "Pengeluaran berhasil diperbarui", st)
}

// DeleteExpense 删除支出
// @Summary 删除支出
// @Tags 支出
// @Produce json
// @Security BearerAuth
// @Param id path string true "支出ID"
// @Param month query string false "月份 (YYYY-MM)"
// @Success 200 {object} Response{data=service.Dashboard} "删除成功"
// @Failure 404 {object} Response "支出不存在"
// @Router /api/v1/expenses/{id} [delete]
func (h *FinanceHandler) DeleteExpense(c *gin.Context) {
	ws, key, ok := h.prepare(c)
	if !ok {
		return
	}
	st, err := ws.DeleteExpense(c.Request.Context(), key, c.Param("id"))
	if err != nil {
		respondError(c, err, msgExpenseNotFound, "Gagal menghapus pengeluaran")
		return
	}
	h.dashboard(c, "Pengeluaran berhasil dihapus", st)
}

// ToggleExpenseStatus 切换支出完成状态
// @Summary 切换支出状态
// @Description 在 planned 与 done 之间切换
// @Tags 支出
// @Produce json
// @Security BearerAuth
// @Param id path string true "支出ID"
// @Param month query string false "月份 (YYYY-MM)"
// @Success 200 {object} Response{data=service.Dashboard} "切换成功"
// @Failure 404 {object} Response "支出不存在"
// @Router /api/v1/expenses/{id}/status [patch]
func (h *FinanceHandler) ToggleExpenseStatus(c *gin.Context) {
	ws, key, ok := h.prepare(c)
	if !ok {
		return
	}
	st, status, err := ws.ToggleExpenseStatus(c.Request.Context(), key, c.Param("id"))
	if err != nil {
		respondError(c, err, msgExpenseNotFound, "Gagal memperbarui status pengeluaran")
		return
	}
	message := "Pengeluaran ditandai belum selesai"
	if status == models.ExpenseStatusDone {
		message = "Pengeluaran ditandai selesai"
	}
	h.dashboard(c, message, st)
}

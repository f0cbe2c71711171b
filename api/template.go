package api

import (
	"fmt"

	"dompet/service"

	"github.com/gin-gonic/gin"
)

// ListTemplates 周期性支出模板列表
// @Summary 模板列表
// @Tags 模板
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Template} "获取成功"
// @Router /api/v1/templates [get]
func (h *FinanceHandler) ListTemplates(c *gin.Context) {
	ws, _, ok := h.prepare(c)
	if !ok {
		return
	}
	Success(c, ws.State().Templates())
}

// CreateTemplate 新增模板
// @Summary 新增模板
// @Tags 模板
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份 (YYYY-MM)"
// @Param request body service.TemplateInput true "模板信息"
// @Success 200 {object} Response{data=service.Dashboard} "新增成功"
// @Router /api/v1/templates [post]
func (h *FinanceHandler) CreateTemplate(c *gin.Context) {
	var req service.TemplateInput
	if !bind(c, &req) {
		return
	}
	ws, key, ok := h.prepare(c)
	if !ok {
		return
	}
	if _, err := ws.AddTemplate(c.Request.Context(), req); err != nil {
		respondError(c, err, msgTemplateNotFound, "Gagal menyimpan template")
		return
	}
	h.reopen(c, ws, key, "Template berhasil ditambah")
}

// DeleteTemplate 删除模板
// @Summary 删除模板
// @Tags 模板
// @Produce json
// @Security BearerAuth
// @Param id path string true "模板ID"
// @Param month query string false "月份 (YYYY-MM)"
// @Success 200 {object} Response{data=service.Dashboard} "删除成功"
// @Failure 404 {object} Response "模板不存在"
// @Router /api/v1/templates/{id} [delete]
func (h *FinanceHandler) DeleteTemplate(c *gin.Context) {
	ws, key, ok := h.prepare(c)
	if !ok {
		return
	}
	if err := ws.DeleteTemplate(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, msgTemplateNotFound, "Gagal menghapus template")
		return
	}
	h.reopen(c, ws, key, "Template berhasil dihapus")
}

// ApplyTemplates 应用全部模板
// @Summary 应用模板
// @Description 按每个模板在当前月份生成一条计划中的周期性支出
// @Tags 模板
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份 (YYYY-MM)"
// @Success 200 {object} Response{data=service.Dashboard} "应用成功"
// @Failure 400 {object} Response "没有模板"
// @Router /api/v1/templates/apply [post]
func (h *FinanceHandler) ApplyTemplates(c *gin.Context) {
	ws, key, ok := h.prepare(c)
	if !ok {
		return
	}
	st, n, err := ws.ApplyTemplates(c.Request.Context(), key)
	if err != nil {
		respondError(c, err, msgTemplateNotFound, "Gagal menerapkan template")
		return
	}
	h.dashboard(c, fmt.Sprintf("%d template berhasil diterapkan", n), st)
}

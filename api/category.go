package api

import (
	"dompet/service"

	"github.com/gin-gonic/gin"
)

// ListCategories 类别列表
// @Summary 类别列表
// @Description 当前用户的支出类别，新用户返回内置类别
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Router /api/v1/categories [get]
func (h *FinanceHandler) ListCategories(c *gin.Context) {
	ws, _, ok := h.prepare(c)
	if !ok {
		return
	}
	Success(c, ws.State().Categories())
}

// CreateCategory 新增类别
// @Summary 新增类别
// @Description 名称不能为空且不能与已有类别重复（不区分大小写），颜色无效时使用默认色
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份 (YYYY-MM)"
// @Param request body service.CategoryInput true "类别信息"
// @Success 200 {object} Response{data=service.Dashboard} "新增成功"
// @Failure 400 {object} Response "名称为空或重复"
// @Router /api/v1/categories [post]
func (h *FinanceHandler) CreateCategory(c *gin.Context) {
	var req service.CategoryInput
	if !bind(c, &req) {
		return
	}
	ws, key, ok := h.prepare(c)
	if !ok {
		return
	}
	if _, err := ws.AddCategory(c.Request.Context(), req); err != nil {
		respondError(c, err, msgCategoryNotFound, "Gagal menyimpan kategori")
		return
	}
	h.reopen(c, ws, key, "Kategori berhasil ditambah")
}

// UpdateCategory 修改类别
// @Summary 修改类别
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "类别ID"
// @Param month query string false "月份 (YYYY-MM)"
// @Param request body service.CategoryInput true "类别信息"
// @Success 200 {object} Response{data=service.Dashboard} "修改成功"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [put]
func (h *FinanceHandler) UpdateCategory(c *gin.Context) {
	var req service.CategoryInput
	if !bind(c, &req) {
		return
	}
	ws, key, ok := h.prepare(c)
	if !ok {
		return
	}
	if _, err := ws.UpdateCategory(c.Request.Context(), c.Param("id"), req); err != nil {
		respondError(c, err, msgCategoryNotFound, "Gagal menyimpan kategori")
		return
	}
	h.reopen(c, ws, key, "Kategori berhasil diperbarui")
}

// DeleteCategory 删除类别
// @Summary 删除类别
// @Description 任一月份仍有支出使用该类别时拒绝删除
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param id path string true "类别ID"
// @Param month query string false "月份 (YYYY-MM)"
// @Success 200 {object} Response{data=service.Dashboard} "删除成功"
// @Failure 404 {object} Response "类别不存在"
// @Failure 409 {object} Response "类别仍在使用"
// @Router /api/v1/categories/{id} [delete]
func (h *FinanceHandler) DeleteCategory(c *gin.Context) {
	ws, _, ok := h.prepare(c)
	if !ok {
		return
	}
	st, err := ws.DeleteCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, msgCategoryNotFound, "Gagal menghapus kategori")
		return
	}
	h.dashboard(c, "Kategori berhasil dihapus", st)
}

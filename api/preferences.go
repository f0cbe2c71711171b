package api

import (
	"dompet/models"
	"dompet/service"

	"github.com/gin-gonic/gin"
)

// ToggleSortRequest 点击列头
type ToggleSortRequest struct {
	Table string `json:"table" binding:"required" example:"expense"`
	Key   string `json:"key" binding:"required" example:"amount"`
}

// SetSortRequest 直接选择排序方式
type SetSortRequest struct {
	Table  string `json:"table" binding:"required" example:"income"`
	Option string `json:"option" binding:"required" example:"amount-desc"`
}

// SetFilterRequest 支出类别筛选，空值或 all 表示全部
type SetFilterRequest struct {
	Category string `json:"category" example:"needs"`
}

// GetPreferences 表格偏好
// @Summary 表格偏好
// @Tags 偏好
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.Preferences} "获取成功"
// @Router /api/v1/preferences [get]
func (h *FinanceHandler) GetPreferences(c *gin.Context) {
	ws, _, ok := h.prepare(c)
	if !ok {
		return
	}
	Success(c, ws.State().Preferences())
}

// preferencesChanged 偏好修改后返回当前月份的页面数据
func (h *FinanceHandler) preferencesChanged(c *gin.Context, ws *service.Workspace, key string, update func() (models.Preferences, error)) {
	if _, err := update(); err != nil {
		respondError(c, err, "", "Gagal menyimpan preferensi")
		return
	}
	h.reopen(c, ws, key, "")
}

// ToggleSort 点击列头切换排序
// @Summary 切换排序
// @Description 同一列在默认方向与反方向间切换，换列时使用该列的默认方向
// @Tags 偏好
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份 (YYYY-MM)"
// @Param request body ToggleSortRequest true "表格与列"
// @Success 200 {object} Response{data=service.Dashboard} "成功"
// @Failure 400 {object} Response "无效的表格或列"
// @Router /api/v1/preferences/sort/toggle [post]
func (h *FinanceHandler) ToggleSort(c *gin.Context) {
	var req ToggleSortRequest
	if !bind(c, &req) {
		return
	}
	ws, key, ok := h.prepare(c)
	if !ok {
		return
	}
	h.preferencesChanged(c, ws, key, func() (models.Preferences, error) {
		return ws.ToggleSort(c.Request.Context(), req.Table, req.Key)
	})
}

// SetSort 选择排序方式
// @Summary 设置排序
// @Tags 偏好
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份 (YYYY-MM)"
// @Param request body SetSortRequest true "排序方式"
// @Success 200 {object} Response{data=service.Dashboard} "成功"
// @Failure 400 {object} Response "无效的排序方式"
// @Router /api/v1/preferences/sort [put]
func (h *FinanceHandler) SetSort(c *gin.Context) {
	var req SetSortRequest
	if !bind(c, &req) {
		return
	}
	ws, key, ok := h.prepare(c)
	if !ok {
		return
	}
	h.preferencesChanged(c, ws, key, func() (models.Preferences, error) {
		return ws.SetSort(c.Request.Context(), req.Table, req.Option)
	})
}

// SetCategoryFilter 设置支出类别筛选
// @Summary 设置类别筛选
// @Tags 偏好
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份 (YYYY-MM)"
// @Param request body SetFilterRequest true "类别"
// @Success 200 {object} Response{data=service.Dashboard} "成功"
// @Router /api/v1/preferences/filter [put]
func (h *FinanceHandler) SetCategoryFilter(c *gin.Context) {
	var req SetFilterRequest
	if !bind(c, &req) {
		return
	}
	ws, key, ok := h.prepare(c)
	if !ok {
		return
	}
	h.preferencesChanged(c, ws, key, func() (models.Preferences, error) {
		return ws.SetCategoryFilter(c.Request.Context(), req.Category)
	})
}

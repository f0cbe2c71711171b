package api

import (
	"dompet/middleware"
	"dompet/service"

	"github.com/gin-gonic/gin"
)

// FinanceHandler 月度记账接口
// 所有接口通过 month 查询参数指定页面正在查看的月份，空值表示上次打开的月份
type FinanceHandler struct {
	finance *service.Finance
}

// NewFinanceHandler 创建记账处理器
func NewFinanceHandler(finance *service.Finance) *FinanceHandler {
	return &FinanceHandler{finance: finance}
}

// workspace 当前用户的工作区，失败时已写入响应
func (h *FinanceHandler) workspace(c *gin.Context) (*service.Workspace, bool) {
	ws, err := h.finance.Workspace(middleware.GetCurrentUID(c))
	if err != nil {
		respondError(c, err, "", "Gagal memuat data")
		return nil, false
	}
	return ws, true
}

// openMonth 打开请求指定的月份，返回实际月份键
func (h *FinanceHandler) openMonth(c *gin.Context, ws *service.Workspace) (string, bool) {
	st, err := ws.Open(c.Request.Context(), c.Query("month"))
	if err != nil {
		respondError(c, err, "", "Gagal memuat data")
		return "", false
	}
	return st.MonthKey(), true
}

// prepare 取得工作区并打开月份
func (h *FinanceHandler) prepare(c *gin.Context) (*service.Workspace, string, bool) {
	ws, ok := h.workspace(c)
	if !ok {
		return nil, "", false
	}
	key, ok := h.openMonth(c, ws)
	if !ok {
		return nil, "", false
	}
	return ws, key, true
}

// dashboard 以修改后的状态响应
func (h *FinanceHandler) dashboard(c *gin.Context, message string, st service.AppState) {
	if message == "" {
		Success(c, h.finance.DashboardOf(st))
		return
	}
	SuccessWithMessage(c, message, h.finance.DashboardOf(st))
}

// reopen 不返回状态的操作完成后，重新读取月份并响应
func (h *FinanceHandler) reopen(c *gin.Context, ws *service.Workspace, key, message string) {
	st, err := ws.Open(c.Request.Context(), key)
	if err != nil {
		respondError(c, err, "", "Gagal memuat data")
		return
	}
	h.dashboard(c, message, st)
}

// bind 解析 JSON 请求体
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		BadRequest(c, msgInvalidRequest)
		return false
	}
	return true
}

package api

import (
	"net/http"

	"dompet/config"
	"dompet/middleware"
	"dompet/session"
	"dompet/web"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// PageHandler 服务端渲染的页面
type PageHandler struct {
	cfg     *config.Config
	finance *FinanceHandler
}

// NewPageHandler 创建页面处理器
func NewPageHandler(cfg *config.Config, finance *FinanceHandler) *PageHandler {
	return &PageHandler{cfg: cfg, finance: finance}
}

// Login 登录页；reason=idle 表示因闲置被登出
func (h *PageHandler) Login(c *gin.Context) {
	page := web.LoginPage{}
	if c.Query("reason") == "idle" {
		page.Notice = session.MessageExpired
	}
	c.HTML(http.StatusOK, "login.html", page)
}

// Index 月度页面，需经过 PageAuth
func (h *PageHandler) Index(c *gin.Context) {
	ws, err := h.finance.finance.Workspace(middleware.GetCurrentUID(c))
	if err != nil {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}
	st, err := ws.Open(c.Request.Context(), c.Query("month"))
	if err != nil {
		log.Warn().Err(err).Str("month", c.Query("month")).Msg("打开月份失败")
		// 月份参数无效时回到默认月份
		if c.Query("month") != "" {
			c.Redirect(http.StatusFound, "/")
			return
		}
		c.String(http.StatusInternalServerError, "Gagal memuat data")
		return
	}
	c.HTML(http.StatusOK, "dashboard.html", web.DashboardPage{
		Username:       middleware.GetCurrentUsername(c),
		SessionID:      middleware.GetSessionID(c),
		Dashboard:      h.finance.finance.DashboardOf(st),
		TimeoutSeconds: int(h.cfg.SessionTimeout().Seconds()),
		WarningSeconds: int(h.cfg.SessionWarning().Seconds()),
	})
}

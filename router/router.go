package router

import (
	"net/http"
	"time"

	"dompet/api"
	"dompet/config"
	_ "dompet/docs"
	"dompet/middleware"
	"dompet/service"
	"dompet/session"
	"dompet/web"
	"dompet/websocket"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps 路由依赖的服务
type Deps struct {
	Finance  *service.Finance
	Sessions *session.Manager
	Hub      *websocket.Hub
	Limiter  *middleware.RateLimiter
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, deps Deps) (*gin.Engine, error) {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// CORS 中间件
	r.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)
	static, err := web.Static()
	if err != nil {
		return nil, err
	}
	r.StaticFS("/static", http.FS(static))

	financeHandler := api.NewFinanceHandler(deps.Finance)
	pageHandler := api.NewPageHandler(cfg, financeHandler)

	// 页面
	r.GET("/login", pageHandler.Login)
	r.GET("/", middleware.PageAuth(deps.Sessions), pageHandler.Index)

	// WebSocket
	wsHandler := api.NewWebSocketHandler(deps.Hub, deps.Sessions, deps.Sessions, cfg.Server.AllowedOrigins)
	r.GET("/ws", wsHandler.HandleWS)

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 认证相关路由（无需登录）
		authHandler := api.NewAuthHandler(cfg, deps.Sessions)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login",
				middleware.LoginRateLimit(cfg.RateLimit.LoginAttempts, time.Duration(cfg.RateLimit.LoginWindowMinute)*time.Minute),
				authHandler.Login)
			// 已过期的会话也允许登出
			auth.POST("/logout", middleware.JWTAuth(), authHandler.Logout)
		}

		// 需要 JWT 与有效会话的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(), middleware.SessionGuard(deps.Sessions), middleware.APIRateLimit(deps.Limiter))
		{
			// 用户相关
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			// 会话
			sessionHandler := api.NewSessionHandler(deps.Sessions)
			sess := authorized.Group("/session")
			{
				sess.GET("", sessionHandler.Status)
				sess.POST("/activity", sessionHandler.Activity)
				sess.POST("/extend", sessionHandler.Extend)
				sess.POST("/visible", sessionHandler.Visible)
			}

			// 月份
			authorized.GET("/dashboard", financeHandler.GetDashboard)
			authorized.GET("/summary", financeHandler.GetSummary)
			authorized.POST("/months/shift", financeHandler.ShiftMonth)

			// 收入
			incomes := authorized.Group("/incomes")
			{
				incomes.POST("", financeHandler.CreateIncome)
				incomes.PUT("/:id", financeHandler.UpdateIncome)
				incomes.DELETE("/:id", financeHandler.DeleteIncome)
			}

			// 支出
			expenses := authorized.Group("/expenses")
			{
				expenses.POST("", financeHandler.CreateExpense)
				expenses.PUT("/:id", financeHandler.UpdateExpense)
				expenses.DELETE("/:id", financeHandler.DeleteExpense)
				expenses.PATCH("/:id/status", financeHandler.ToggleExpenseStatus)
			}

			// 类别
			categories := authorized.Group("/categories")
			{
				categories.GET("", financeHandler.ListCategories)
				categories.POST("", financeHandler.CreateCategory)
				categories.PUT("/:id", financeHandler.UpdateCategory)
				categories.DELETE("/:id", financeHandler.DeleteCategory)
			}

			// 周期性支出模板
			templates := authorized.Group("/templates")
			{
				templates.GET("", financeHandler.ListTemplates)
				templates.POST("", financeHandler.CreateTemplate)
				templates.POST("/apply", financeHandler.ApplyTemplates)
				templates.DELETE("/:id", financeHandler.DeleteTemplate)
			}

			authorized.PUT("/budgets", financeHandler.SaveBudgets)

			// 表格偏好
			prefs := authorized.Group("/preferences")
			{
				prefs.GET("", financeHandler.GetPreferences)
				prefs.POST("/sort/toggle", financeHandler.ToggleSort)
				prefs.PUT("/sort", financeHandler.SetSort)
				prefs.PUT("/filter", financeHandler.SetCategoryFilter)
			}

			// 导出与导入
			export := authorized.Group("/export")
			{
				export.GET("/excel", financeHandler.ExportExcel)
				export.GET("/csv", financeHandler.ExportCSV)
				export.GET("/json", financeHandler.ExportJSON)
			}
			authorized.POST("/import", financeHandler.Import)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	log.Debug().Int("routes", len(r.Routes())).Msg("路由已注册")
	return r, nil
}

// CORSMiddleware CORS 跨域中间件
// 携带 Cookie 的请求不能使用 "*"，只回显允许列表中的来源
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, "+middleware.RequestIDHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

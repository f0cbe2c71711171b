package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dompet/config"
	"dompet/database"
	"dompet/middleware"
	"dompet/models"
	"dompet/repository"
	"dompet/service"
	"dompet/session"
	"dompet/websocket"

	"gorm.io/gorm"
)

// app 进程内共享的组件
type app struct {
	cfg      *config.Config
	finance  *service.Finance
	sessions *session.Manager
	hub      *websocket.Hub
	limiter  *middleware.RateLimiter
}

// newApp 连接数据库并组装组件
func newApp(cfg *config.Config) (*app, error) {
	if err := database.Init(cfg); err != nil {
		return nil, err
	}
	middleware.InitJWT(cfg)

	loc := cfg.Location()
	now := func() time.Time { return time.Now().In(loc) }

	hub := websocket.NewHub()
	repo := repository.New(repository.NewGormStore(database.DB), now)

	var notifier service.Notifier
	if cfg.Budget.AlertEmail && cfg.Email.Enabled {
		notifier = service.NewEmailService(&cfg.Email, lookupRecipient(database.DB))
	}

	finance := service.NewFinance(repo, hub, notifier, service.Options{
		CacheSize:   cfg.Cache.Size,
		CacheTTL:    cfg.CacheTTL(),
		WarnPercent: cfg.Budget.WarningPercent,
		Now:         now,
	})
	sessions := session.NewManager(
		session.NewGormStore(database.DB),
		session.NewPolicy(cfg.SessionTimeout(), cfg.SessionWarning()),
		nil,
		hub,
	)

	return &app{
		cfg:      cfg,
		finance:  finance,
		sessions: sessions,
		hub:      hub,
		limiter:  middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst),
	}, nil
}

// close 释放后台资源
func (a *app) close() {
	a.sessions.Close()
	a.limiter.Stop()
	if err := database.Close(); err != nil {
		fmt.Printf("关闭数据库失败: %v\n", err)
	}
}

// lookupRecipient 按 uid 查询预算提醒的收件人
func lookupRecipient(db *gorm.DB) service.RecipientLookup {
	return func(ctx context.Context, uid string) (string, string, error) {
		var user models.User
		err := db.WithContext(ctx).Select("username", "display_name", "email").Where("uid = ?", uid).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", nil
		}
		if err != nil {
			return "", "", err
		}
		name := user.DisplayName
		if name == "" {
			name = user.Username
		}
		return user.Email, name, nil
	}
}

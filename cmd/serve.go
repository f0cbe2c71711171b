package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dompet/config"
	"dompet/router"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type serveFlags struct {
	port string
}

var serveOpts serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Jalankan server HTTP dasbor",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), serveOpts)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveOpts.port, "port", "p", "", "监听端口，覆盖配置文件")
}

// listenAddr 把 "8080" 或 ":8080" 统一为 ":8080"
func listenAddr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		port = "8080"
	}
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

func runServe(parent context.Context, flags serveFlags) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flags.port != "" {
		cfg.Server.Port = flags.port
	}
	config.PrintConfig()

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	engine, err := router.SetupRouter(cfg, router.Deps{
		Finance:  a.finance,
		Sessions: a.sessions,
		Hub:      a.hub,
		Limiter:  a.limiter,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 定期清理过期的月度缓存
	a.finance.StartJanitor(ctx, cfg.CacheTTL())

	srv := &http.Server{
		Addr:              listenAddr(cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("服务器启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("正在关闭服务器...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("服务器强制关闭")
		return err
	}
	log.Info().Msg("服务器已退出")
	return nil
}

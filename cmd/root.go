// Package cmd 命令行入口：serve、export、version
package cmd

import (
	"os"

	"dompet/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Version 发布时通过 -ldflags 覆盖
var Version = "1.0.0"

var configFile string

var rootCmd = &cobra.Command{
	Use:   "dompet",
	Short: "Dompet - dasbor keuangan pribadi",
	Long: `Dompet mencatat pemasukan dan pengeluaran per bulan, kategori, template rutin
dan budget, dengan ekspor Excel/CSV/JSON. Tanpa subperintah, server dijalankan.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger(os.Getenv("DOMPET_SERVER_MODE"))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), serveFlags{})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "外部配置文件路径（可选）")
	rootCmd.AddCommand(serveCmd, exportCmd, mailTestCmd, versionCmd)
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogger release 模式输出 JSON，其余模式输出便于阅读的控制台格式
func setupLogger(mode string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if mode == "release" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// loadConfig 加载配置并按运行模式重新设置日志
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	setupLogger(cfg.Server.Mode)
	return cfg, nil
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type exportFlags struct {
	uid    string
	month  string
	format string
	out    string
}

var exportOpts exportFlags

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Ekspor data satu bulan ke Excel, CSV atau JSON",
	Example: `  dompet export --uid 6f1c... --month 2025-10
  dompet export --uid 6f1c... --format json --out backup.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context(), exportOpts)
	},
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportOpts.uid, "uid", "", "用户 UID")
	f.StringVar(&exportOpts.month, "month", "", "月份 YYYY-MM，默认当前月份")
	f.StringVar(&exportOpts.format, "format", "xlsx", "导出格式: xlsx | csv | json")
	f.StringVarP(&exportOpts.out, "out", "o", "", "输出文件，默认使用生成的文件名")
	_ = exportCmd.MarkFlagRequired("uid")
}

// exportExt 校验导出格式并返回扩展名
func exportExt(format string) (string, error) {
	switch format {
	case "xlsx", "excel":
		return "xlsx", nil
	case "csv":
		return "csv", nil
	case "json":
		return "json", nil
	}
	return "", fmt.Errorf("format tidak dikenal: %s", format)
}

func runExport(ctx context.Context, flags exportFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ext, err := exportExt(flags.format)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	ws, err := a.finance.Workspace(flags.uid)
	if err != nil {
		return err
	}
	st, err := ws.Open(ctx, flags.month)
	if err != nil {
		return err
	}

	var (
		data     []byte
		filename string
	)
	switch ext {
	case "xlsx":
		data, filename, err = ws.ExportWorkbook(ctx, st.MonthKey())
	case "csv":
		data, filename, err = ws.ExportCSV(ctx, st.MonthKey())
	case "json":
		doc, derr := ws.ExportJSON(ctx, st.MonthKey())
		if derr != nil {
			return derr
		}
		data, err = json.MarshalIndent(doc, "", "  ")
		filename = fmt.Sprintf("dompet-%s.json", st.MonthKey())
	}
	if err != nil {
		return err
	}

	out := flags.out
	if out == "" {
		out = filename
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("menulis %s: %w", out, err)
	}
	log.Info().Str("file", out).Str("month", st.MonthKey()).Int("bytes", len(data)).Msg("导出完成")
	return nil
}

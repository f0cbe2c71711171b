package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"dompet/calc"
	"dompet/config"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

// Notifier 预算超支提醒
type Notifier interface {
	BudgetExceeded(ctx context.Context, uid, monthKey string, items []calc.BudgetItem) error
}

// RecipientLookup 按 uid 查询收件人邮箱与显示名
type RecipientLookup func(ctx context.Context, uid string) (email, name string, err error)

// EmailService 邮件服务
type EmailService struct {
	cfg    *config.EmailConfig
	lookup RecipientLookup
	send   func(m *gomail.Message) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig, lookup RecipientLookup) *EmailService {
	s := &EmailService{cfg: cfg, lookup: lookup}
	s.send = s.dialAndSend
	return s
}

// BudgetExceeded 发送超支提醒；未启用或用户没有邮箱时跳过
func (s *EmailService) BudgetExceeded(ctx context.Context, uid, monthKey string, items []calc.BudgetItem) error {
	if !s.cfg.Enabled || len(items) == 0 {
		return nil
	}
	if s.lookup == nil {
		return fmt.Errorf("未配置收件人查询")
	}
	to, name, err := s.lookup(ctx, uid)
	if err != nil {
		return fmt.Errorf("查询收件人失败: %w", err)
	}
	if to == "" {
		log.Debug().Str("uid", uid).Msg("用户未设置邮箱，跳过预算提醒")
		return nil
	}

	label := monthKey
	if t, err := calc.ParseMonthKey(monthKey, time.Local); err == nil {
		label = calc.FormatMonth(t)
	}
	subject := fmt.Sprintf("[Dompet] Budget terlampaui - %s", label)
	return s.sendEmail(to, subject, s.generateBudgetAlertBody(name, label, items))
}

// generateBudgetAlertBody 生成超支提醒内容
func (s *EmailService) generateBudgetAlertBody(name, monthLabel string, items []calc.BudgetItem) string {
	var rows strings.Builder
	for _, item := range items {
		fmt.Fprintf(&rows, `
                <tr>
                    <td>%s</td>
                    <td class="num">%s</td>
                    <td class="num">%s</td>
                    <td class="num over">%s</td>
                </tr>`,
			html.EscapeString(item.Name),
			calc.FormatCurrency(item.Limit),
			calc.FormatCurrency(item.ActualSpent),
			calc.FormatPercentage(item.ActualPercent),
		)
	}
	if name == "" {
		name = "Pengguna"
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Inter', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #ef4444, #b91c1c); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        table { width: 100%%; border-collapse: collapse; }
        th, td { padding: 10px; border-bottom: 1px solid #eee; text-align: left; }
        .num { text-align: right; }
        .over { color: #b91c1c; font-weight: 600; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💰 Dashboard Keuangan</h1>
        </div>
        <div class="content">
            <p>Halo <strong>%s</strong>,</p>
            <p>Pengeluaran aktual pada kategori berikut sudah melebihi batas budget untuk <strong>%s</strong>:</p>
            <table>
                <tr><th>Kategori</th><th class="num">Limit</th><th class="num">Aktual</th><th class="num">%%</th></tr>%s
            </table>
        </div>
        <div class="footer">
            <p>Email ini dikirim otomatis, mohon tidak dibalas</p>
        </div>
    </div>
</body>
</html>
`, html.EscapeString(name), html.EscapeString(monthLabel), rows.String())
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.send(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

func (s *EmailService) dialAndSend(m *gomail.Message) error {
	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}

// SendTestEmail 发送测试邮件
func (s *EmailService) SendTestEmail(toEmail string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用")
	}

	subject := "[Dompet] Tes konfigurasi email"
	body := `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>✅ Konfigurasi email berhasil</h2>
    <p>Jika kamu menerima email ini, layanan email sudah terkonfigurasi dengan benar.</p>
</body>
</html>
`
	return s.sendEmail(toEmail, subject, body)
}

package cmd

import (
	"fmt"

	"dompet/service"

	"github.com/spf13/cobra"
)

var mailTo string

var mailTestCmd = &cobra.Command{
	Use:   "mail-test",
	Short: "Kirim email uji untuk memeriksa konfigurasi SMTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := service.NewEmailService(&cfg.Email, nil).SendTestEmail(mailTo); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "email uji terkirim ke %s\n", mailTo)
		return nil
	},
}

func init() {
	mailTestCmd.Flags().StringVar(&mailTo, "to", "", "收件人邮箱")
	_ = mailTestCmd.MarkFlagRequired("to")
}

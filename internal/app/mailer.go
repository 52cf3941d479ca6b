package app

import (
	"github.com/MarcMan710/PosTask/internal/config"
	"github.com/MarcMan710/PosTask/internal/mail"
)

var globalMailer mail.Sender

func InitMailer() {
	cfg := config.Global().SMTP
	globalMailer = mail.NewSMTPSender(cfg.Host, cfg.Port,
		cfg.Username, cfg.Password, cfg.From)

	globalLogger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("initialized smtp mailer")
}

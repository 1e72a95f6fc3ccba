package mail

import (
	"github.com/ryan-gang/kindle-sendto/internal/config"
	"github.com/ryan-gang/kindle-sendto/internal/logger"
	"github.com/ryan-gang/kindle-sendto/internal/sendto"
)

// SMTPMailSender implements sendto.MailDispatcher using SMTP
type SMTPMailSender struct {
	cfg    config.ConfigProvider
	log    logger.LoggerInterface
	dialer sender
}

var _ sendto.MailDispatcher = (*SMTPMailSender)(nil)

// NewSMTPMailSender creates a new SMTP mail sender
func NewSMTPMailSender(cfg config.ConfigProvider, log logger.LoggerInterface) *SMTPMailSender {
	if log == nil {
		log = logger.NewNop()
	}
	return &SMTPMailSender{cfg: cfg, log: log, dialer: newDialer(cfg)}
}

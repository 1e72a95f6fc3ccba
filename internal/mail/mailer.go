package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/ryan-gang/kindle-sendto/internal/config"
	"github.com/ryan-gang/kindle-sendto/internal/sendto"

	gomail "gopkg.in/mail.v2"
)

// Subject line for device mail. Kindle's "convert" subject is not used
// because EPUB and PDF are delivered as they are.
const Subject = "kindle-send"

var ErrNoAttachments = errors.New("no valid files to send")

// sender is the part of *gomail.Dialer the mailer uses.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

func newDialer(cfg config.ConfigProvider) *gomail.Dialer {
	dialer := gomail.NewDialer(cfg.GetServer(), cfg.GetPort(), cfg.GetSender(), cfg.GetPassword())
	dialer.Timeout = cfg.GetMailTimeout()
	return dialer
}

// buildMessage assembles a mail with one attachment per staged file, each
// renamed to the name the user uploaded.
func buildMessage(from, to string, attachments []sendto.Attachment) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", Subject)
	msg.SetBody("text/plain", "")

	for _, a := range attachments {
		msg.Attach(a.Path, gomail.Rename(a.Name))
	}
	return msg
}

// SendToDevice mails the attachments to destination. The SMTP exchange is
// bounded by the configured mail timeout; ctx is honoured up to dialing.
func (s *SMTPMailSender) SendToDevice(ctx context.Context, destination string, attachments []sendto.Attachment) error {
	if len(attachments) == 0 {
		return ErrNoAttachments
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(s.cfg.GetSender(), destination, attachments)

	s.log.Infof("Sending mail with %d attachments (timeout %s)", len(attachments), s.cfg.GetMailTimeout())
	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	s.log.Infof("Mailed %d files", len(attachments))
	return nil
}

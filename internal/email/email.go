// Package email sends password reset mails. Without an SMTP server the mails
// are kept in an outbox that can be browsed locally.
package email

import (
	"chatapp-client/internal/keyValue"
	"chatapp-client/internal/models"
	"context"
	"fmt"
	"net/smtp"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

type Sender struct {
	sugar             *zap.SugaredLogger
	kv                *keyValue.Store
	server            string
	address           string
	username          string
	password          string
	fullServerAddress string
}

func New(cfg *models.ConfigFile, sugar *zap.SugaredLogger, kv *keyValue.Store, fullServerAddress string) *Sender {
	return &Sender{
		sugar:             sugar,
		kv:                kv,
		server:            cfg.SmtpServer,
		address:           fmt.Sprintf("%s:%s", cfg.SmtpServer, strconv.Itoa(cfg.SmtpPort)),
		username:          cfg.SmtpUsername,
		password:          cfg.SmtpPassword,
		fullServerAddress: fullServerAddress,
	}
}

func (s *Sender) local() bool {
	return s.server == ""
}

func (s *Sender) sendEmail(email []string, subject string, message string) error {
	auth := smtp.PlainAuth("", s.username, s.password, s.server)

	msg := fmt.Appendf(nil, "To: %s\r\n", email[0])
	msg = fmt.Append(msg, "MIME-version: 1.0;\r\n")
	msg = fmt.Append(msg, "Content-Type: text/html; charset=\"UTF-8\";\r\n")
	msg = fmt.Appendf(msg, "Subject: %s\r\n", subject)
	msg = fmt.Append(msg, "\r\n")
	msg = fmt.Appendf(msg, "%s\r\n", message)

	return smtp.SendMail(s.address, auth, s.username, email, msg)
}

func (s *Sender) SendPasswordReset(ctx context.Context, email string, username string, token string) error {
	link := fmt.Sprintf("%s/reset?token=%s", s.fullServerAddress, url.QueryEscape(token))

	if s.local() {
		s.sugar.Debugf("No SMTP server configured, storing password reset link for %s in outbox", email)
		return s.storeManual(ctx, email, link)
	}

	subject := "Password reset"
	message := fmt.Sprintf(`
	<html>
		<body>
			<h2>Hello %s!</h2>
			<a href="%s">Reset your password by clicking here</a>
		</body>
	</html>`,
		username, link)

	return s.sendEmail([]string{email}, subject, message)
}

// Package mail renders the transactional email templates and delivers them.
package mail

import (
	"context"
	"fmt"
	"html"
	"net/smtp"
	"regexp"
	"strconv"
	"strings"

	"github.com/riderhub/riderhub-backend/pkg/config"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/logger"
)

// Message is a rendered email ready for delivery.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers rendered messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var tokenRe = regexp.MustCompile(`\{[a-zA-Z]+\}`)

// Render substitutes {token} placeholders with HTML-escaped values. Tokens
// without a value are left untouched.
func Render(tpl Template, to string, vars map[string]string) Message {
	replace := func(s string, escape bool) string {
		return tokenRe.ReplaceAllStringFunc(s, func(tok string) string {
			v, ok := vars[strings.Trim(tok, "{}")]
			if !ok {
				return tok
			}
			if escape {
				return html.EscapeString(v)
			}
			return v
		})
	}
	return Message{
		To:      to,
		Subject: replace(tpl.Subject, false),
		HTML:    replace(tpl.Body, true),
	}
}

// SMTPSender delivers over SMTP with PLAIN auth.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPSender{
		addr: cfg.Host + ":" + strconv.Itoa(cfg.Port),
		from: cfg.From,
		auth: auth,
		send: smtp.SendMail,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.from, msg.To, msg.Subject, msg.HTML,
	)
	if err := s.send(s.addr, s.auth, s.from, []string{msg.To}, []byte(raw)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send email")
	}
	return nil
}

// LogSender writes messages to the log instead of delivering them. Used when
// SMTP is not configured.
type LogSender struct {
	logg *logger.Logger
}

func NewLogSender(logg *logger.Logger) *LogSender {
	return &LogSender{logg: logg}
}

func (l *LogSender) Send(ctx context.Context, msg Message) error {
	if l.logg != nil {
		ctx = l.logg.WithFields(ctx, map[string]any{"to": msg.To, "subject": msg.Subject})
		l.logg.Info(ctx, "email delivery skipped (smtp disabled)")
	}
	return nil
}

// NewSender picks SMTP when configured and falls back to logging.
func NewSender(cfg config.SMTPConfig, logg *logger.Logger) Sender {
	if cfg.Enabled() {
		return NewSMTPSender(cfg)
	}
	return NewLogSender(logg)
}

// Mailer sends each transactional email.
type Mailer struct {
	sender Sender
}

func NewMailer(sender Sender) *Mailer {
	return &Mailer{sender: sender}
}

func (m *Mailer) SendVerification(ctx context.Context, to, name, code string) error {
	return m.sender.Send(ctx, Render(VerificationEmail, to, map[string]string{
		"name":             name,
		"verificationCode": code,
	}))
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, name, resetLink string) error {
	return m.sender.Send(ctx, Render(PasswordResetRequestEmail, to, map[string]string{
		"name":      name,
		"resetLink": resetLink,
	}))
}

func (m *Mailer) SendPasswordResetSuccess(ctx context.Context, to, name string) error {
	return m.sender.Send(ctx, Render(PasswordResetSuccessEmail, to, map[string]string{"name": name}))
}

func (m *Mailer) SendWelcome(ctx context.Context, to, name, dashboardLink string) error {
	return m.sender.Send(ctx, Render(WelcomeEmail, to, map[string]string{
		"name":          name,
		"dashboardLink": dashboardLink,
	}))
}

// OrderNotification carries the fields of an order update email.
type OrderNotification struct {
	Name        string
	OrderNumber string
	OrderTotal  string
	Content     string
	OrderLink   string
}

func (m *Mailer) SendOrderNotification(ctx context.Context, to string, n OrderNotification) error {
	return m.sender.Send(ctx, Render(OrderNotificationEmail, to, map[string]string{
		"name":                n.Name,
		"orderNumber":         n.OrderNumber,
		"orderTotal":          n.OrderTotal,
		"notificationContent": n.Content,
		"orderLink":           n.OrderLink,
	}))
}

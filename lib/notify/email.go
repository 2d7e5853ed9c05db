package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"spicetracker/lib/telemetry"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("spicetracker.lib.notify")

type SmtpConfig struct {
	Server   string   `json:"server"`
	Port     int      `json:"port"`
	Address  string   `json:"address"`
	Password string   `json:"password"`
	To       []string `json:"to"`
}

func (c SmtpConfig) Enabled() bool {
	return c.Server != "" && len(c.To) > 0
}

type Message struct {
	Subject string
	Text    string
	// optional
	Html string
}

// Email sends messages to a fixed list of recipients.
type Email struct {
	config SmtpConfig
}

func NewEmail(config SmtpConfig) (Email, error) {
	if config.Server == "" {
		return Email{}, errors.New("smtp server is not set")
	}
	if len(config.To) == 0 {
		return Email{}, errors.New("no recipients")
	}
	return Email{config: config}, nil
}

func (e Email) Send(ctx context.Context, msg Message) error {
	_, span := tracer.Start(ctx, "Email:Send")
	defer span.End()
	span.SetAttributes(attribute.Int("recipients", len(e.config.To)))

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Spice Tracker <%s>", e.config.Address)
	mail.To = e.config.To
	mail.Subject = msg.Subject
	mail.Text = []byte(msg.Text)
	if msg.Html != "" {
		mail.HTML = []byte(msg.Html)
	}

	addr := fmt.Sprintf("%s:%d", e.config.Server, e.config.Port)
	err := mail.Send(addr, smtp.PlainAuth("", e.config.Address, e.config.Password, e.config.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}
	return nil
}

// Package mail delivers outbound email such as confirmation codes.
//
// The API never talks SMTP itself. In production messages are published to
// an AMQP queue that a separate mail worker drains; in development they are
// written to the log.
package mail

import (
	"context"
	"fmt"

	"yamdb/internal/config"
	"yamdb/internal/logging"
)

// Message is one outbound email.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes every message to the application log.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	logging.Ctx(ctx).Info().
		Str("component", "mail").
		Str("from", msg.From).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("outbound email")
	return nil
}

// New picks the backend named by MAIL_BACKEND. The returned close func
// releases broker resources and is never nil.
func New(cfg *config.Config) (Mailer, func() error, error) {
	switch cfg.MailBackend {
	case "amqp":
		m, err := DialAMQP(cfg.AMQPURL, cfg.MailQueue)
		if err != nil {
			return nil, nil, err
		}
		return m, m.Close, nil
	case "log", "":
		return LogMailer{}, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown mail backend %q", cfg.MailBackend)
	}
}

// ConfirmationCode builds the message carrying a freshly issued code.
func ConfirmationCode(from, to, code string) Message {
	return Message{
		From:    from,
		To:      to,
		Subject: "Confirmation code",
		Body:    fmt.Sprintf("Your confirmation code: %s", code),
	}
}

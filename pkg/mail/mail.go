// Package mail delivers transactional messages. The console sender logs
// instead of sending, which keeps development and tests free of SMTP
// credentials while exercising the same code path.
package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// Message is one outbound mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, message Message) error
}

type consoleSender struct {
	from   string
	logger zerolog.Logger
}

// NewConsoleSender builds a sender that writes messages to the log.
func NewConsoleSender(from string, logger zerolog.Logger) Sender {
	return &consoleSender{
		from:   from,
		logger: logger.With().Str("component", "mail").Logger(),
	}
}

func (s *consoleSender) Send(_ context.Context, message Message) error {
	s.logger.Info().
		Str("from", s.from).
		Str("to", message.To).
		Str("subject", message.Subject).
		Msg(message.Body)
	return nil
}

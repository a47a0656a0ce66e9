// Package channel delivers agent replies back out over messaging channels.
package channel

import (
	"context"
	"log/slog"

	"github.com/danwerth/opshub/internal/config"
)

// Sender pushes one outbound message to a channel recipient.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// NewSender picks the outbound transport from configuration. Without
// Twilio credentials replies are logged instead of delivered, which keeps
// local development working without an account.
func NewSender(cfg config.Config, logger *slog.Logger) Sender {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" {
		logger.Warn("no outbound messaging credentials, replies will be logged only")
		return &logSender{log: logger}
	}
	return NewTwilioClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
}

type logSender struct {
	log *slog.Logger
}

func (s *logSender) Send(ctx context.Context, to, body string) error {
	s.log.Info("outbound message (not delivered)", "to", to, "body", body)
	return nil
}

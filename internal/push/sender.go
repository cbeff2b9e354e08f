package push

import (
	"context"
	"log"
)

// LogSender is the Sender used until real web-push delivery is wired in; it
// records what would have been sent.
// TODO: replace with a VAPID-signed web-push sender once the keys are
// provisioned for production.
type LogSender struct {
	logger *log.Logger
}

func NewLogSender(logger *log.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, sub Subscription, payload Payload) error {
	s.logger.Printf("push to %s: %s / %s", sub.Endpoint, payload.Title, payload.Body)
	return nil
}

package notify

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/zvrva/busstation/internal/kafka"
)

// Sender records order notifications. Actual delivery (mail, push, SMS) is
// handled by an adjacent service; this sink only logs what would be sent.
type Sender struct {
	log *logrus.Logger
}

func NewSender(log *logrus.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.OrderEvent) error {
	s.log.WithFields(logrus.Fields{
		"type":      event.Type,
		"reference": event.Reference,
		"user_id":   event.UserID,
		"tickets":   len(event.Tickets),
	}).Info("order notification")
	return nil
}

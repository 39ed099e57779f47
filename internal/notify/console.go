package notify

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleSender logs notifications instead of delivering them. Used in
// development environments without push credentials.
type ConsoleSender struct {
	logger *zap.Logger
}

func NewConsoleSender(logger *zap.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

func (s *ConsoleSender) Send(_ context.Context, msg Message) (bool, error) {
	s.logger.Info("Push notification",
		zap.String("token", msg.Token),
		zap.String("title", msg.Title),
		zap.String("body", msg.Body),
		zap.Any("data", msg.Data),
	)
	return true, nil
}

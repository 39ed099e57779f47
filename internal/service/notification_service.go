package service

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/tutorlink/backend/internal/i18n"
	"github.com/tutorlink/backend/internal/model"
	"github.com/tutorlink/backend/internal/notify"
	"go.uber.org/zap"
)

// NotificationService informs counterparties about workflow transitions.
// Delivery is strictly best-effort: failures are logged and swallowed, a
// missing device token skips silently, and no method ever returns an error,
// so a failed notification can never roll back a committed transition.
type NotificationService struct {
	sender   notify.Sender
	messages *i18n.Provider
	logger   *zap.Logger
}

func NewNotificationService(sender notify.Sender, messages *i18n.Provider, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		sender:   sender,
		messages: messages,
		logger:   logger,
	}
}

// RequestReceived notifies the teacher about a new session request
func (s *NotificationService) RequestReceived(ctx context.Context, teacher *model.Party, req *model.SessionRequest) {
	s.send(ctx, teacher, i18n.KeyRequestReceivedTitle, i18n.KeyRequestReceivedBody, map[string]string{
		"kind":       "request_received",
		"request_id": strconv.FormatInt(req.ID, 10),
	})
}

// RequestAccepted notifies the student that the teacher accepted
func (s *NotificationService) RequestAccepted(ctx context.Context, student *model.Party, req *model.SessionRequest, sessionID int64) {
	s.send(ctx, student, i18n.KeyRequestAcceptedTitle, i18n.KeyRequestAcceptedBody, map[string]string{
		"kind":       "request_accepted",
		"request_id": strconv.FormatInt(req.ID, 10),
		"session_id": strconv.FormatInt(sessionID, 10),
	})
}

// RequestRejected notifies the student that the teacher rejected
func (s *NotificationService) RequestRejected(ctx context.Context, student *model.Party, req *model.SessionRequest, reason string) {
	s.send(ctx, student, i18n.KeyRequestRejectedTitle, i18n.KeyRequestRejectedBody, map[string]string{
		"kind":       "request_rejected",
		"request_id": strconv.FormatInt(req.ID, 10),
		"reason":     reason,
	})
}

// SessionStarted notifies the student that the session started
func (s *NotificationService) SessionStarted(ctx context.Context, student *model.Party, session *model.Session) {
	s.send(ctx, student, i18n.KeySessionStartedTitle, i18n.KeySessionStartedBody, map[string]string{
		"kind":       "session_started",
		"session_id": strconv.FormatInt(session.ID, 10),
	})
}

// SessionEnded notifies the student that the session completed
func (s *NotificationService) SessionEnded(ctx context.Context, student *model.Party, session *model.Session) {
	s.send(ctx, student, i18n.KeySessionEndedTitle, i18n.KeySessionEndedBody, map[string]string{
		"kind":       "session_ended",
		"session_id": strconv.FormatInt(session.ID, 10),
	})
}

// SessionCancelled notifies the counterparty that the session was cancelled
func (s *NotificationService) SessionCancelled(ctx context.Context, recipient *model.Party, session *model.Session) {
	s.send(ctx, recipient, i18n.KeySessionCancelledTitle, i18n.KeySessionCancelledBody, map[string]string{
		"kind":       "session_cancelled",
		"session_id": strconv.FormatInt(session.ID, 10),
	})
}

// PointsCredited notifies the buyer that purchased points arrived
func (s *NotificationService) PointsCredited(ctx context.Context, party *model.Party, points int) {
	s.send(ctx, party, i18n.KeyPointsCreditedTitle, i18n.KeyPointsCreditedBody, map[string]string{
		"kind":   "points_credited",
		"points": strconv.Itoa(points),
	})
}

func (s *NotificationService) send(ctx context.Context, recipient *model.Party, titleKey, bodyKey i18n.Key, data map[string]string) {
	if recipient == nil || recipient.DeviceToken == "" {
		return
	}

	data["correlation_id"] = uuid.NewString()

	msg := notify.Message{
		Token: recipient.DeviceToken,
		Title: s.messages.Get(recipient.Locale, titleKey),
		Body:  s.messages.Get(recipient.Locale, bodyKey),
		Data:  data,
	}

	acked, err := s.sender.Send(ctx, msg)
	if err != nil {
		s.logger.Error("Failed to send notification",
			zap.Int64("party_id", recipient.ID),
			zap.String("kind", data["kind"]),
			zap.Error(err),
		)
		return
	}

	if !acked {
		s.logger.Warn("Notification not acknowledged",
			zap.Int64("party_id", recipient.ID),
			zap.String("kind", data["kind"]),
		)
		return
	}

	s.logger.Debug("Notification sent",
		zap.Int64("party_id", recipient.ID),
		zap.String("kind", data["kind"]),
		zap.String("correlation_id", data["correlation_id"]),
	)
}

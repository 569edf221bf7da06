package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/portfolio-api/internal/events"
)

// StartAuditWorker subscribes a structured audit log to session events.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}

	handler := func(_ context.Context, event events.Event) error {
		logger.Info("audit",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.String("subject_id", event.SubjectID),
			zap.Time("at", event.Timestamp),
			zap.Any("payload", event.Payload),
		)
		return nil
	}

	for _, eventType := range []events.EventType{
		events.EventUserRegistered,
		events.EventUserLoggedIn,
		events.EventTokensRefreshed,
		events.EventSessionRevoked,
		events.EventPasswordChanged,
		events.EventOAuthLinked,
	} {
		dispatcher.Subscribe(eventType, handler)
	}
}

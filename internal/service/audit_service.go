package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/analify/dashboard-gateway/internal/config"
	"github.com/analify/dashboard-gateway/internal/events"
	"github.com/analify/dashboard-gateway/internal/observability"
	"github.com/analify/dashboard-gateway/internal/session"
)

// AuditService records session lifecycle events.
type AuditService struct {
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	cfg        config.AuditConfig
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger, cfg config.AuditConfig) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to every session event. The returned func unsubscribes.
func (a *AuditService) RegisterHandlers() func() {
	if a.dispatcher == nil {
		return func() {}
	}
	return a.dispatcher.SubscribeAll(a.handle)
}

func (a *AuditService) handle(ctx context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Time("at", event.Timestamp),
	}
	if event.Reason != "" {
		fields = append(fields, zap.String("reason", event.Reason))
	}
	if st, ok := event.Payload.(session.State); ok && st.User != nil {
		fields = append(fields, zap.Int64("user_id", st.User.UserID), zap.String("role", string(st.User.Role)))
	}

	a.logger.Info("session event", fields...)
	a.metrics.RecordSessionEvent(string(event.Type))
	a.sendWebhookStub(ctx, event)
	return nil
}

func (a *AuditService) sendWebhookStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(a.cfg.WebhookURL) == "" {
		return
	}
	a.logger.Debug("sendWebhookStub",
		zap.String("url", a.cfg.WebhookURL),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
}

package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/bp-tracker/internal/config"
	"github.com/spec-kit/bp-tracker/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventCrisisDetected, n.handleCrisisDetected)
	n.dispatcher.Subscribe(events.EventReminderDue, n.handleReminderDue)
	n.dispatcher.Subscribe(events.EventShareLinkIssued, n.handleShareLinkIssued)
}

func (n *NotificationService) handleCrisisDetected(ctx context.Context, event events.Event) error {
	n.logger.Info("CrisisDetected", zap.String("patient_id", event.PatientID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleReminderDue(ctx context.Context, event events.Event) error {
	n.logger.Info("ReminderDue", zap.String("patient_id", event.PatientID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleShareLinkIssued(ctx context.Context, event events.Event) error {
	n.logger.Info("ShareLinkIssued", zap.String("patient_id", event.PatientID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("patient_id", event.PatientID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("patient_id", event.PatientID),
		zap.String("event_type", string(event.Type)))
}

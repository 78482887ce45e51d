package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-auth/internal/config"
	"github.com/spec-kit/staff-auth/internal/events"
)

// AuditService records login events in the security log.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.AuditConfig
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.AuditConfig) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (s *AuditService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventLoginSucceeded, s.handleLoginSucceeded)
	s.dispatcher.Subscribe(events.EventLoginFailed, s.handleLoginFailed)
	s.dispatcher.Subscribe(events.EventStaffLockedOut, s.handleStaffLockedOut)
	s.dispatcher.Subscribe(events.EventLoginRejectedLocked, s.handleLoginRejectedLocked)
	s.dispatcher.Subscribe(events.EventPasswordBootstrap, s.handlePasswordBootstrap)
}

func (s *AuditService) handleLoginSucceeded(ctx context.Context, event events.Event) error {
	s.logger.Info("LoginSucceeded", eventFields(event)...)
	return nil
}

func (s *AuditService) handleLoginFailed(ctx context.Context, event events.Event) error {
	s.logger.Info("LoginFailed", eventFields(event)...)
	return nil
}

func (s *AuditService) handleStaffLockedOut(ctx context.Context, event events.Event) error {
	s.logger.Warn("StaffLockedOut", eventFields(event)...)
	s.sendWebhookStub(ctx, event)
	return nil
}

func (s *AuditService) handleLoginRejectedLocked(ctx context.Context, event events.Event) error {
	s.logger.Info("LoginRejectedLocked", eventFields(event)...)
	return nil
}

func (s *AuditService) handlePasswordBootstrap(ctx context.Context, event events.Event) error {
	s.logger.Info("PasswordBootstrapped", eventFields(event)...)
	s.sendWebhookStub(ctx, event)
	return nil
}

func (s *AuditService) sendWebhookStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(s.cfg.WebhookURL) == "" {
		return
	}
	s.logger.Debug("sendWebhookStub",
		zap.String("url", s.cfg.WebhookURL),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
}

func eventFields(event events.Event) []zap.Field {
	return []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("staff_id", event.StaffID),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload),
	}
}

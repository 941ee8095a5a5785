package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/hackdesk/hackdesk-api/internal/dto"
	"github.com/hackdesk/hackdesk-api/internal/models"
	"github.com/hackdesk/hackdesk-api/internal/repository"
)

// ErrNotificationNotFound indicates a notification could not be found for the user.
var ErrNotificationNotFound = errors.New("notification not found")

const notificationSubject = "hackdesk.notifications"

// NotificationService records workflow events and fans them out over NATS.
type NotificationService interface {
	Notify(ctx context.Context, userID uint, kind, message string) error
	List(ctx context.Context, userID uint, limit, offset int) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, id, userID uint) (dto.NotificationResponse, error)
}

type notificationService struct {
	repo      repository.NotificationRepository
	nats      *nats.Conn
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewNotificationService constructs a notification service. The NATS
// connection may be nil, in which case events are only persisted.
func NewNotificationService(repo repository.NotificationRepository, natsConn *nats.Conn, logger zerolog.Logger) NotificationService {
	return &notificationService{
		repo:      repo,
		nats:      natsConn,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "notification_service").Logger(),
		tracer:    otel.Tracer("github.com/hackdesk/hackdesk-api/internal/service/notification"),
	}
}

func (s *notificationService) Notify(ctx context.Context, userID uint, kind, message string) error {
	clean := strings.TrimSpace(s.sanitizer.Sanitize(message))
	if clean == "" {
		return errors.New("notification message empty after sanitization")
	}

	spanCtx, span := s.tracer.Start(ctx, "notifications.notify", trace.WithAttributes(
		attribute.Int("notification.user_id", int(userID)),
		attribute.String("notification.type", kind),
	))
	defer span.End()

	notification := models.Notification{
		UserID:  userID,
		Type:    kind,
		Message: clean,
	}

	if err := s.repo.Create(spanCtx, &notification); err != nil {
		span.RecordError(err)
		return err
	}

	if s.nats != nil {
		payload, err := json.Marshal(dto.NewNotificationResponse(notification))
		if err == nil {
			err = s.nats.Publish(notificationSubject, payload)
		}
		if err != nil {
			// Fan-out is best effort; the persisted row is authoritative.
			s.logger.Warn().Err(err).Uint("user_id", userID).Msg("failed to publish notification")
		}
	}

	return nil
}

func (s *notificationService) List(ctx context.Context, userID uint, limit, offset int) ([]dto.NotificationResponse, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return dto.NewNotificationResponseSlice(notifications), nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID uint) (dto.NotificationResponse, error) {
	notification, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NotificationResponse{}, ErrNotificationNotFound
		}
		return dto.NotificationResponse{}, err
	}

	return dto.NewNotificationResponse(notification), nil
}

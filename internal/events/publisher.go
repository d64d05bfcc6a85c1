package events

import (
	"context"

	"github.com/RoamStay-Hotels/service-booking/internal/kafka"
	"go.uber.org/zap"
)

const eventSource = "service-booking"

// BookingEventPublisher publishes booking lifecycle events. Publishing is
// best-effort: downstream notification is explicitly non-fatal, so failures
// are logged and dropped rather than failing the booking flow.
type BookingEventPublisher struct {
	producer *kafka.Producer
	logger   *zap.Logger
}

// NewBookingEventPublisher creates a new publisher.
func NewBookingEventPublisher(producer *kafka.Producer, logger *zap.Logger) *BookingEventPublisher {
	return &BookingEventPublisher{producer: producer, logger: logger}
}

// PublishConfirmed emits a BookingConfirmedEvent.
func (p *BookingEventPublisher) PublishConfirmed(ctx context.Context, event BookingConfirmedEvent) {
	p.publish(ctx, BookingConfirmed, event)
}

// PublishUpdated emits a BookingUpdatedEvent.
func (p *BookingEventPublisher) PublishUpdated(ctx context.Context, event BookingUpdatedEvent) {
	p.publish(ctx, BookingUpdated, event)
}

// PublishCancelled emits a BookingCancelledEvent.
func (p *BookingEventPublisher) PublishCancelled(ctx context.Context, event BookingCancelledEvent) {
	p.publish(ctx, BookingCancelled, event)
}

func (p *BookingEventPublisher) publish(ctx context.Context, eventType string, data any) {
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		p.logger.Error("failed to create cloud event",
			zap.String("type", eventType),
			zap.Error(err),
		)
		return
	}
	if err := p.producer.PublishEvent(ctx, TopicBookingEvents, cloudEvent); err != nil {
		p.logger.Error("failed to publish booking event",
			zap.String("type", eventType),
			zap.Error(err),
		)
	}
}

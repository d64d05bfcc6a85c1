package events

import (
	"context"
	"strings"

	"github.com/RoamStay-Hotels/service-booking/internal/kafka"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RoomPurger removes a deleted room's ledger records.
type RoomPurger interface {
	PurgeRoom(ctx context.Context, roomID uuid.UUID) error
}

// RoomEventConsumer listens to room-catalog events. Room deletion is the only
// path that ever deletes availability records.
type RoomEventConsumer struct {
	consumer *kafka.Consumer
	purger   RoomPurger
	logger   *zap.Logger
}

// NewRoomEventConsumer creates a new consumer for room events.
func NewRoomEventConsumer(brokers []string, groupID string, purger RoomPurger, logger *zap.Logger) *RoomEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicRoomEvents, logger)
	return &RoomEventConsumer{
		consumer: consumer,
		purger:   purger,
		logger:   logger,
	}
}

// Start begins consuming room events. It blocks until the context is cancelled.
func (c *RoomEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// handleMessage routes incoming Kafka messages to the appropriate handler.
func (c *RoomEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from room topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return err
	}

	c.logger.Info("received room event",
		zap.String("type", cloudEvent.Type),
		zap.String("id", cloudEvent.ID),
	)

	switch {
	case strings.EqualFold(cloudEvent.Type, RoomDeleted):
		return c.handleRoomDeleted(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled room event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

// handleRoomDeleted processes a RoomDeletedEvent.
func (c *RoomEventConsumer) handleRoomDeleted(ctx context.Context, ce kafka.CloudEvent) error {
	var event RoomDeletedEvent
	if err := ce.ParseData(&event); err != nil {
		c.logger.Error("failed to parse RoomDeletedEvent data", zap.Error(err))
		return err
	}
	return c.purger.PurgeRoom(ctx, event.RoomID)
}

// Close closes the underlying Kafka consumer.
func (c *RoomEventConsumer) Close() error {
	return c.consumer.Close()
}

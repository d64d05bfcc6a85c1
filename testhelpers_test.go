//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/RoamStay-Hotels/service-booking/internal/application"
	bookingEvents "github.com/RoamStay-Hotels/service-booking/internal/events"
	"github.com/RoamStay-Hotels/service-booking/internal/kafka"
	"github.com/RoamStay-Hotels/service-booking/internal/repository"
	"github.com/RoamStay-Hotels/service-booking/internal/saga"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// bookingStack holds wired-up booking service components.
type bookingStack struct {
	Bookings        *application.BookingService
	Ledger          *application.LedgerService
	Pricing         *application.PricingService
	RoomConsumer    *bookingEvents.RoomEventConsumer
	CleanupProducer func()
}

// setupContainers starts PostgreSQL and Kafka testcontainers and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_booking",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_booking sslmode=disable", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error)
	require.NoError(t, db.AutoMigrate(
		&repository.RoomModel{},
		&repository.PricingRuleModel{},
		&repository.AvailabilityModel{},
		&repository.BookingModel{},
	))

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, bookingEvents.TopicBookingEvents, bookingEvents.TopicRoomEvents)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupBookingStack wires up the full booking service stack against real infra.
func setupBookingStack(t *testing.T, db *gorm.DB, brokers []string) *bookingStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	roomCatalog := repository.NewRoomCatalog(db)
	ruleRepo := repository.NewPricingRuleRepository(db)
	ledgerRepo := repository.NewAvailabilityLedger(db)
	bookingRepo := repository.NewBookingRepository(db)

	ledgerSvc := application.NewLedgerService(ledgerRepo, roomCatalog, logger)
	pricingSvc := application.NewPricingService(ruleRepo, roomCatalog, ledgerSvc, logger)
	sagaSvc := saga.NewBookingSagaService(bookingRepo, ledgerRepo, logger)

	producer := kafka.NewProducer(brokers, logger)
	publisher := bookingEvents.NewBookingEventPublisher(producer, logger)
	bookingSvc := application.NewBookingService(bookingRepo, roomCatalog, ledgerSvc, pricingSvc, sagaSvc, publisher, logger)

	groupID := fmt.Sprintf("test-booking-%s", uuid.New().String()[:8])
	roomConsumer := bookingEvents.NewRoomEventConsumer(brokers, groupID, ledgerSvc, logger)

	return &bookingStack{
		Bookings:        bookingSvc,
		Ledger:          ledgerSvc,
		Pricing:         pricingSvc,
		RoomConsumer:    roomConsumer,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// seedRoom inserts a room catalog row for testing.
func seedRoom(t *testing.T, db *gorm.DB, hotelID uuid.UUID, basePrice float64, totalRooms int) uuid.UUID {
	t.Helper()
	roomID := uuid.New()
	now := time.Now().UTC()
	model := repository.RoomModel{
		ID:         roomID,
		HotelID:    hotelID,
		Capacity:   4,
		BasePrice:  basePrice,
		TotalRooms: totalRooms,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, db.Create(&model).Error, "failed to seed room")
	return roomID
}

// availabilityOn reads the stored counter for a (room, date), or -1 when the
// record does not exist.
func availabilityOn(t *testing.T, db *gorm.DB, roomID uuid.UUID, date time.Time) int {
	t.Helper()
	var model repository.AvailabilityModel
	err := db.Where("room_id = ? AND date = ?", roomID, date).First(&model).Error
	if err == gorm.ErrRecordNotFound {
		return -1
	}
	require.NoError(t, err)
	return model.Available
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType string, data interface{}) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := kafka.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	ce, err := kafka.NewCloudEvent(source, eventType, data)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), topic, ce)
	require.NoError(t, err, "failed to publish event")
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "failed to dial Kafka controller")
	defer controllerConn.Close()

	configs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		configs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	require.NoError(t, controllerConn.CreateTopics(configs...), "failed to create topics")
}

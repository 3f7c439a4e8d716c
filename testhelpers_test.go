//go:build integration

package main_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/teranga-tours/service-booking/internal/application"
	bookingEvents "github.com/teranga-tours/service-booking/internal/events"
	"github.com/teranga-tours/service-booking/internal/kafka"
	"github.com/teranga-tours/service-booking/internal/metrics"
	"github.com/teranga-tours/service-booking/internal/repository"
	"github.com/teranga-tours/service-booking/internal/saga"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// bookingStack holds wired-up booking service components.
type bookingStack struct {
	BookingService *application.BookingService
	Consumer       *bookingEvents.BookingEventConsumer
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

	require.NoError(t, db.AutoMigrate(
		&repository.CircuitModel{},
		&repository.StageModel{},
		&repository.PromotionModel{},
		&repository.BookingModel{},
		&repository.MessageModel{},
	))

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, "booking.events")

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

// setupBookingStack wires up the full booking service stack.
func setupBookingStack(t *testing.T, db *gorm.DB, brokers []string) *bookingStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	m := metrics.New(prometheus.NewRegistry())

	circuitRepo := repository.NewGormCircuitRepository(db)
	promotionRepo := repository.NewGormPromotionRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)

	producer := kafka.NewProducer(brokers, logger)
	sagaSvc := saga.NewBookingSagaService(bookingRepo, promotionRepo, producer, logger)
	promotionSvc := application.NewPromotionService(promotionRepo, m, logger)
	bookingSvc := application.NewBookingService(bookingRepo, circuitRepo, promotionSvc, sagaSvc, m, logger)

	groupID := fmt.Sprintf("test-booking-%s", uuid.New().String()[:8])
	consumer := bookingEvents.NewBookingEventConsumer(brokers, groupID, bookingSvc, logger)

	return &bookingStack{
		BookingService:  bookingSvc,
		Consumer:        consumer,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// seedCircuit inserts an active circuit and returns its model.
func seedCircuit(t *testing.T, db *gorm.DB, priceXOF int64) repository.CircuitModel {
	t.Helper()
	now := time.Now().UTC()
	model := repository.CircuitModel{
		ID:              uuid.New(),
		Slug:            fmt.Sprintf("circuit-test-%s", uuid.New().String()[:8]),
		Kind:            "circuit",
		TitleFR:         "Circuit de test",
		PriceXOF:        priceXOF,
		MinParticipants: 1,
		MaxParticipants: 20,
		DurationDays:    3,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, db.Create(&model).Error, "failed to seed circuit")
	return model
}

// seedPromotion inserts an active promotion with the given usage state.
func seedPromotion(t *testing.T, db *gorm.DB, code string, usageCount int, usageLimit *int) repository.PromotionModel {
	t.Helper()
	now := time.Now().UTC()
	model := repository.PromotionModel{
		ID:           uuid.New(),
		Code:         code,
		Kind:         "percentage",
		Value:        10,
		MinTravelers: 1,
		UsageLimit:   usageLimit,
		UsageCount:   usageCount,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, db.Create(&model).Error, "failed to seed promotion")
	return model
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType, key string, data interface{}) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := kafka.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	err := producer.Publish(context.Background(), topic, source, eventType, key, data)
	require.NoError(t, err, "failed to publish event")
}

// waitForUsageCount polls the promotions table until usage_count matches.
func waitForUsageCount(t *testing.T, db *gorm.DB, promotionID uuid.UUID, expected int, timeout time.Duration) {
	t.Helper()
	require.Eventually(t, func() bool {
		var model repository.PromotionModel
		if err := db.Where("id = ?", promotionID).First(&model).Error; err != nil {
			return false
		}
		return model.UsageCount == expected
	}, timeout, 200*time.Millisecond, "promotion usage_count did not reach %d", expected)
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

	controllerConn, err := kafkago.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	require.NoError(t, err, "failed to dial Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, 0, len(topics))
	for _, topic := range topics {
		topicConfigs = append(topicConfigs, kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
	}
	require.NoError(t, controllerConn.CreateTopics(topicConfigs...), "failed to create topics")
}

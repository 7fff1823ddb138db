package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/photo-gallery/adapters/event"
	"github.com/khoahotran/photo-gallery/adapters/persistence"
	photoUC "github.com/khoahotran/photo-gallery/internal/application/usecase/photo"
	"github.com/khoahotran/photo-gallery/internal/config"
	"github.com/khoahotran/photo-gallery/pkg/logger"
)

func main() {
	fmt.Println("Starting Photo Gallery Worker...")

	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	// Database
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Postgres: %v", err)
	}
	defer dbPool.Close()

	// Repositories
	photoRepo := persistence.NewPostgresPhotoRepo(dbPool, appLogger)

	// Worker Use Case
	reconcileUC := photoUC.NewReconcilePhotoEventUseCase(photoRepo, appLogger)

	// Kafka Consumer
	photoConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicPhotoEvents,
		GroupID:  "photo-reconciler-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer photoConsumer.Close()

	log.Printf("Worker listening on topic '%s'...", event.TopicPhotoEvents)

	ctx := context.Background()
	for {
		// FetchMessage leaves the offset uncommitted until the event is
		// handled, so a failed prune is redelivered.
		msg, err := photoConsumer.FetchMessage(ctx)
		if err != nil {
			log.Printf("ERROR: Failed to fetch message from Kafka: %v", err)
			continue
		}

		log.Printf("Received message from [Topic: %s], [Key: %s]", msg.Topic, string(msg.Key))

		var payload event.PhotoEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			log.Printf("ERROR: Failed to unmarshal event: %v. Skipping.", err)
			commitMessage(photoConsumer, msg)
			continue
		}

		log.Printf("Processing event: [%s] for PhotoID: %s", payload.EventType, payload.PhotoID)

		err = reconcileUC.Execute(ctx, payload)
		if err != nil {
			log.Printf("ERROR: Failed to process event for PhotoID %s: %v", payload.PhotoID, err)
			continue
		}

		commitMessage(photoConsumer, msg)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Printf("ERROR: Failed to commit message: %v", err)
	}
}

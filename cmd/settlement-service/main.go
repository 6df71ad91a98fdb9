package main

import (
	"context"
	"fmt"
	"log"

	"github.com/craftlane/settlement-service/internal/app/background"
	"github.com/craftlane/settlement-service/internal/config"
	"github.com/craftlane/settlement-service/internal/delivery/httpapi"
	"github.com/craftlane/settlement-service/internal/infrastructure/catalog"
	"github.com/craftlane/settlement-service/internal/infrastructure/checkout"
	publisher "github.com/craftlane/settlement-service/internal/infrastructure/kafka"
	"github.com/craftlane/settlement-service/internal/infrastructure/metrics"
	"github.com/craftlane/settlement-service/internal/infrastructure/migrate"
	"github.com/craftlane/settlement-service/internal/infrastructure/postgres"
	"github.com/craftlane/settlement-service/internal/infrastructure/postgres/repository"
	"github.com/craftlane/settlement-service/internal/infrastructure/signature"
	"github.com/craftlane/settlement-service/internal/usecase/settlement"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if cfg.OrderDB.MigrationPath != "" {
		if err := migrate.RunMigrations(db, cfg.OrderDB.MigrationPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	settlementPublisher := publisher.NewDefaultKafkaPublisher(brokers, cfg.KafkaService.Topic)

	// Init order repo
	orderRepo := repository.NewDefaultOrderRepository(db)
	// External collaborators
	catalogClient := catalog.NewHTTPCatalogClient(cfg.Catalog.Address, cfg.Catalog.Timeout)
	processorClient := checkout.NewHTTPCheckoutClient(cfg.Processor.Address, cfg.Processor.Timeout)
	// Webhook signature verifier
	verifier := signature.NewVerifier(cfg.Processor.WebhookSecret, cfg.Processor.SignatureTolerance)
	// Metrics
	settlementMetrics := metrics.NewSettlementMetrics()

	uc := settlement.NewDefaultSettlementUsecase(
		orderRepo,
		catalogClient,
		catalogClient,
		processorClient,
		verifier,
		settlementPublisher,
		settlementMetrics,
		cfg.Settlement.CommissionRateBps,
		cfg.Settlement.PendingOrderTTL,
	)

	// Sweep pending orders that never got a payment session
	go background.StartStaleOrderSweeper(context.Background(), uc, cfg.Settlement.SweepInterval)

	router := httpapi.NewRouter(uc)

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	log.Printf("settlement service started on %s\n", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"vilo-admin/internal/api"
	"vilo-admin/internal/config"
	"vilo-admin/internal/db"
	"vilo-admin/internal/events"
	"vilo-admin/internal/kafka"
	"vilo-admin/internal/logging"
	"vilo-admin/internal/mailer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Config load failed:", err)
	}

	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Fatal("Logger init failed:", err)
	}

	database, err := db.New(cfg.DB.DSN)
	if err != nil {
		logger.Errorf("DB connect failed: %v", err)
		log.Fatal("DB connect failed:", err)
	}
	defer database.Close()

	mail := mailer.New(cfg, logger)
	hub := events.NewHub(logger)
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	if cfg.Kafka.Broker != "" {
		consumer := kafka.NewConsumer(cfg, database, hub, logger)
		consumer.Start(ctx, &wg)
		defer consumer.Close()
	} else {
		logger.Warn("KAFKA_BROKER not set, submission ingestion disabled")
	}

	h := api.NewHandler(database, mail, hub, logger, cfg)
	r := api.NewRouter(logger, cfg, h)
	go func() {
		logger.Infof("API started on %s", cfg.API.Port)
		if err := r.Run(cfg.API.Port); err != nil {
			logger.Errorf("API run failed: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Info("Shutting down...")
	cancel()
	wg.Wait()
	logger.Info("Service stopped")
}

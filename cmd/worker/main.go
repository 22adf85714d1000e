package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/stayhub/config"
	"github.com/Domenick1991/stayhub/internal/indexer"
	"github.com/Domenick1991/stayhub/internal/kafka"
	"github.com/Domenick1991/stayhub/internal/lock"
	"github.com/Domenick1991/stayhub/internal/repository"
	"github.com/Domenick1991/stayhub/internal/service/reservation"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	coordinator := lock.NewRedisCoordinator(cfg.Redis)
	defer coordinator.Close()

	accommodationRepo := repository.NewAccommodationRepository(pool)
	memberRepo := repository.NewMemberRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)

	reservationService := reservation.NewReservationService(
		reservationRepo,
		accommodationRepo,
		memberRepo,
		coordinator,
		nil,
		time.Duration(cfg.Reservation.LockTTLSeconds)*time.Second,
		time.Duration(cfg.Reservation.HoldTTLMinutes)*time.Minute,
		logger,
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BookingEventsTopic, logger)
	defer consumer.Close()

	reindexer := indexer.New(logger)

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				logger.Warn("decode event", zap.Error(err))
				return nil
			}
			return reindexer.Handle(ctx, event)
		}); err != nil {
			logger.Warn("consumer stopped", zap.Error(err))
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.HoldSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			if _, err := reservationService.ExpireStaleHolds(ctx); err != nil {
				logger.Error("sweep stale holds", zap.Error(err))
			}
		case s := <-sig:
			logger.Info("received signal, shutting down", zap.String("signal", s.String()))
			return
		}
	}
}

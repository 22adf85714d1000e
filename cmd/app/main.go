package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/stayhub/config"
	"github.com/Domenick1991/stayhub/internal/bootstrap"
	"github.com/Domenick1991/stayhub/internal/cache"
	"github.com/Domenick1991/stayhub/internal/kafka"
	"github.com/Domenick1991/stayhub/internal/lock"
	"github.com/Domenick1991/stayhub/internal/repository"
	"github.com/Domenick1991/stayhub/internal/service/accommodations"
	"github.com/Domenick1991/stayhub/internal/service/reservation"
	"github.com/jackc/pgx/v5/pgxpool"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	coordinator := lock.NewRedisCoordinator(cfg.Redis)
	defer coordinator.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Reservation.AccommodationsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers, logger)
	defer producer.Close()

	accommodationRepo := repository.NewAccommodationRepository(pool)
	memberRepo := repository.NewMemberRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)

	accommodationService := accommodations.NewAccommodationService(accommodationRepo, redisCache)
	reservationService := reservation.NewReservationService(
		reservationRepo,
		accommodationRepo,
		memberRepo,
		coordinator,
		producer,
		time.Duration(cfg.Reservation.LockTTLSeconds)*time.Second,
		time.Duration(cfg.Reservation.HoldTTLMinutes)*time.Minute,
		logger,
		reservation.WithEventsTopic(cfg.Kafka.BookingEventsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, accommodationService, reservationService); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

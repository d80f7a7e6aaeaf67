package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/zvrva/busstation/config"
	"github.com/zvrva/busstation/internal/bootstrap"
	"github.com/zvrva/busstation/internal/cache"
	"github.com/zvrva/busstation/internal/kafka"
	"github.com/zvrva/busstation/internal/repository"
	"github.com/zvrva/busstation/internal/service/booking"
	"github.com/zvrva/busstation/internal/service/buses"
	"github.com/zvrva/busstation/internal/service/trips"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(
		cfg.Redis,
		time.Duration(cfg.Cache.TripsTTLSeconds)*time.Second,
		time.Duration(cfg.Cache.CapacityTTLSeconds)*time.Second,
	)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	busRepo := repository.NewBusRepository(pool)
	facilityRepo := repository.NewFacilityRepository(pool)
	tripRepo := repository.NewTripRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	ledger := repository.NewSeatLedger(pool)

	svc := bootstrap.Services{
		Buses:      buses.NewBusService(busRepo, redisCache),
		Facilities: buses.NewFacilityService(facilityRepo),
		Trips:      trips.NewTripService(tripRepo, ledger, redisCache, log),
		Bookings: booking.NewBookingService(
			orderRepo,
			tripRepo,
			redisCache,
			producer,
			cfg.Kafka.OrderTopic,
			log,
			booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		),
	}

	if err := bootstrap.Run(ctx, cfg, log, svc); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

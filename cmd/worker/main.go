package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/zvrva/busstation/config"
	"github.com/zvrva/busstation/internal/kafka"
	"github.com/zvrva/busstation/internal/notify"
	"github.com/zvrva/busstation/internal/repository"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	tripRepo := repository.NewTripRepository(pool)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := notify.NewSender(log)

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.OrderEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.WithError(err).Warn("decode order event")
				return nil
			}
			return sender.Send(ctx, event)
		}); err != nil {
			log.WithError(err).Info("consumer stopped")
		}
	}()

	auditTicker := time.NewTicker(time.Duration(cfg.Worker.AuditSweepMinutes) * time.Minute)
	defer auditTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-auditTicker.C:
			auditAvailability(ctx, tripRepo, log)
		case s := <-sig:
			log.Infof("received signal %v, shutting down", s)
			return
		}
	}
}

// auditAvailability recomputes remaining seats for every trip and reports
// any negative value. The unique constraint should make that impossible, so
// a hit means a constraint or ledger bug, worth alerting on.
func auditAvailability(ctx context.Context, trips repository.TripRepository, log *logrus.Logger) {
	summaries, err := trips.List(ctx)
	if err != nil {
		log.WithError(err).Error("availability audit failed")
		return
	}

	for _, t := range summaries {
		if t.TicketsAvailable < 0 {
			log.WithFields(logrus.Fields{
				"trip_id":           t.ID,
				"capacity":          t.BusNumSeats,
				"tickets_available": t.TicketsAvailable,
			}).Error("availability invariant violated")
		}
	}
	log.WithField("trips", len(summaries)).Debug("availability audit complete")
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/transitops/config"
	"github.com/Domenick1991/transitops/internal/bootstrap"
	"github.com/Domenick1991/transitops/internal/cache"
	"github.com/Domenick1991/transitops/internal/kafka"
	"github.com/Domenick1991/transitops/internal/repository"
	"github.com/Domenick1991/transitops/internal/service/booking"
	"github.com/Domenick1991/transitops/internal/service/shifts"
	"github.com/Domenick1991/transitops/internal/service/trips"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis,
		time.Duration(cfg.Cache.TripsTTLSeconds)*time.Second,
		time.Duration(cfg.Cache.SeatMapTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	tripRepo := repository.NewTripRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	fleetRepo := repository.NewFleetRepository(pool)

	tripService := trips.NewTripService(tripRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		redisCache,
		producer,
		cfg.Kafka.TicketsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	shiftService := shifts.NewShiftService(assignmentRepo, fleetRepo, producer, cfg.Kafka.AssignmentsTopic)

	if err := bootstrap.Run(ctx, cfg, tripService, bookingService, shiftService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

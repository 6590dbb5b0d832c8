package app

import (
	"context"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ruelucas/booking-service/booking/config"
	"github.com/ruelucas/booking-service/booking/internal/events"
	"github.com/ruelucas/booking-service/booking/internal/handler"
	"github.com/ruelucas/booking-service/booking/internal/repository"
	"github.com/ruelucas/booking-service/booking/internal/repository/mongorepo"
	"github.com/ruelucas/booking-service/booking/internal/repository/pgrepo"
	"github.com/ruelucas/booking-service/booking/internal/server"
	"github.com/ruelucas/booking-service/booking/internal/service"
	"github.com/ruelucas/booking-service/booking/migrations"
	"github.com/ruelucas/booking-service/pkg/kafka"
	"github.com/ruelucas/booking-service/pkg/logger"
	"github.com/ruelucas/booking-service/pkg/mongodb"
	"github.com/ruelucas/booking-service/pkg/postgres"
	"github.com/ruelucas/booking-service/pkg/redis"
)

const serviceName = "rue-lucas"

type closeFunc func(ctx context.Context)

func Run(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := logger.NewLogger(cfg.Log, serviceName)
	defer log.Sync() //nolint:errcheck

	repo, closeStorage, err := openStorage(cfg, log)
	if err != nil {
		return errors.Wrap(err, "storage init")
	}

	svcOpts := []service.Option{
		service.WithCodePrefix(cfg.Booking.CodePrefix),
		service.WithStorageTimeout(cfg.Storage.Timeout),
	}
	var publisher io.Closer
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			// reservations keep working without events
			log.Warn("kafka.NewProducer", zap.Error(err))
		} else {
			p := events.NewPublisher(producer, cfg.Kafka.Topic, log)
			svcOpts = append(svcOpts, service.WithEvents(p))
			publisher = p
		}
	}
	svc := service.NewService(repo, log, svcOpts...)

	hOpts := []handler.Option{
		handler.WithEnv(cfg.Env),
		handler.WithCORSOrigin(cfg.Booking.CORSOrigin),
	}
	if cfg.Redis.Enabled() {
		rdb, err := redis.NewClient(context.Background(), cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, in-memory rate limits", zap.Error(err))
		} else {
			defer rdb.Close() //nolint:errcheck
			hOpts = append(hOpts, handler.WithRedis(rdb))
		}
	}
	h := handler.New(svc.Reservation, svc.Review, log, hOpts...)

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)),
		zap.String("storage", cfg.Storage.Driver))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Warn("publisher close", zap.Error(err))
		}
	}
	closeStorage(closeCtx)
	log.Info("Graceful shutdown finished")
	return nil
}

func openStorage(cfg *config.Config, log *zap.Logger) (repository.Repository, closeFunc, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
		if err != nil {
			return repository.Repository{}, nil, err
		}
		return pgrepo.NewRepository(db, log), func(context.Context) { db.Close() }, nil
	default:
		client := mongodb.New(cfg.Mongo, log, mongorepo.EnsureIndexes)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
		defer cancel()
		// the handle reconnects on demand, so a cold database does not block startup
		if _, err := client.Database(ctx); err != nil {
			log.Warn("mongo not reachable yet", zap.Error(err))
		}
		return mongorepo.NewRepository(client, log), func(ctx context.Context) {
			if err := client.Close(ctx); err != nil {
				log.Warn("mongo close", zap.Error(err))
			}
		}, nil
	}
}

// Migrate applies the embedded postgres migrations.
func Migrate(cfg *config.Config) error {
	if cfg.Storage.Driver != config.DriverPostgres {
		return errors.Errorf("migrations apply to the %s driver only", config.DriverPostgres)
	}
	db := cfg.Database
	db.Migrate = true
	pool, err := postgres.NewPostgresDB(context.Background(), &db, migrations.MigrationFiles)
	if err != nil {
		return errors.Wrap(err, "migrate")
	}
	pool.Close()
	return nil
}

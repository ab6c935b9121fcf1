// Command confsync-demo runs two store instances against one Redis
// server and shows a write on the first instance converging into the
// second through the pub/sub broadcast.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/confsync"
	"github.com/dmitrymomot/confsync/config"
	"github.com/dmitrymomot/confsync/logger"
	"github.com/dmitrymomot/confsync/redis"
)

type appConfig struct {
	Namespace string `env:"CONFSYNC_NAMESPACE" envDefault:"demo"`
	Log       logger.Config
	Redis     redis.Config
}

func main() {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		logger.New(logger.WithFormat(logger.FormatText)).
			Error("loading config failed", logger.Error(err))
		os.Exit(1)
	}

	log := logger.NewFromConfig(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Error("connecting to redis failed", logger.Error(err))
		os.Exit(1)
	}
	defer client.Close()

	hash := redis.NewHashStore(client)
	pubsub := redis.NewPubSub(client)

	writer, err := confsync.New(cfg.Namespace, hash, pubsub,
		confsync.WithLogger(log.With("role", "writer")))
	if err != nil {
		log.Error("creating writer store failed", logger.Error(err))
		os.Exit(1)
	}
	defer writer.Close()

	reader, err := confsync.New(cfg.Namespace, hash, pubsub,
		confsync.WithLogger(log.With("role", "reader")))
	if err != nil {
		log.Error("creating reader store failed", logger.Error(err))
		os.Exit(1)
	}
	defer reader.Close()

	reader.OnError(func(err error) {
		log.Error("reader store error", logger.Error(err))
	})
	reader.StartMonitor(ctx)
	defer reader.StopMonitor()

	cancelWatch := reader.Watch("greeting", func(ev confsync.WatchEvent) {
		if ev.Cleared {
			log.Info("greeting cleared")
			return
		}
		log.Info("greeting changed", "value", ev.Value, "previous", ev.Previous)
	})
	defer cancelWatch()

	writer.Set("greeting", "hello from "+writer.InstanceID())

	// Give the round-trip a moment, then show the converged value.
	select {
	case <-time.After(2 * time.Second):
	case <-ctx.Done():
		return
	}

	log.Info("converged",
		"reader_value", reader.GetOr("greeting", "<unset>"),
		"keys", reader.Len(),
	)
}

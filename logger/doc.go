// Package logger builds slog loggers with the conventions used across
// confsync: JSON output by default, env-driven level and format, and a
// small set of typed attribute helpers for the domain (namespace, key,
// channel, instance).
//
//	var cfg logger.Config
//	config.MustLoad(&cfg)
//	log := logger.NewFromConfig(cfg, logger.WithAttr(slog.String("service", "confsync")))
//
//	log.Info("store ready", logger.Namespace("billing"))
package logger

package logger

import (
	"log/slog"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Namespace records the configuration namespace under the key "namespace".
func Namespace(ns string) slog.Attr {
	return slog.String("namespace", ns)
}

// Key records a configuration key under the key "key".
func Key(key string) slog.Attr {
	return slog.String("key", key)
}

// Channel records a broadcast channel name under the key "channel".
func Channel(channel string) slog.Attr {
	return slog.String("channel", channel)
}

// Instance records a store instance identity under the key "instance".
func Instance(id string) slog.Attr {
	return slog.String("instance", id)
}

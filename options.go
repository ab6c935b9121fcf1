package confsync

import "log/slog"

// Option configures a Store.
type Option func(*storeOptions)

type storeOptions struct {
	logger     *slog.Logger
	instanceID string
	bootstrap  bool
}

// WithLogger sets the logger used for background diagnostics.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *storeOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithInstanceID overrides the randomly generated instance identity.
// Intended for tests; production stores should keep the random default
// so self-echo suppression stays collision-free.
func WithInstanceID(id string) Option {
	return func(o *storeOptions) {
		if id != "" {
			o.instanceID = id
		}
	}
}

// WithoutBootstrap skips the initial pull during construction. The
// caller is expected to invoke Pull before reading.
func WithoutBootstrap() Option {
	return func(o *storeOptions) {
		o.bootstrap = false
	}
}

package confsync

import "context"

// Key and channel naming. A fixed prefix is concatenated with the
// namespace so that stores sharing one backing server or one transport
// never observe each other's data.
const (
	namespaceKeyPrefix = "confsync:ns:"
	setChannelPrefix   = "confsync:set:"
	clearChannelPrefix = "confsync:clear:"
)

// NamespaceKey returns the durable-store key for a namespace.
func NamespaceKey(namespace string) string {
	return namespaceKeyPrefix + namespace
}

// SetChannel returns the broadcast channel carrying set envelopes for a namespace.
func SetChannel(namespace string) string {
	return setChannelPrefix + namespace
}

// ClearChannel returns the broadcast channel carrying clear envelopes for a namespace.
func ClearChannel(namespace string) string {
	return clearChannelPrefix + namespace
}

// NamespaceStore is the durable backing hash keyed by namespace.
// Implementations must be safe for concurrent use; the store issues
// calls from background goroutines.
type NamespaceStore interface {
	// FetchAll returns every field of the namespace hash. A missing
	// namespace is an empty map, not an error.
	FetchAll(ctx context.Context, key string) (map[string]string, error)

	// SetField writes one serialized field value.
	SetField(ctx context.Context, key, field, value string) error

	// DeleteField removes one field. Deleting an absent field is not an error.
	DeleteField(ctx context.Context, key, field string) error
}

// InboundMessage is one payload delivered on a subscribed channel.
type InboundMessage struct {
	Channel string
	Payload []byte
}

// Subscription is a live subscriber handle. Messages is closed after
// Close returns; Close is idempotent.
type Subscription interface {
	Messages() <-chan InboundMessage
	Close() error
}

// Broadcaster is a named-channel publish/subscribe transport. Delivery
// is best-effort and at-most-once: only subscribers connected at publish
// time receive a message, and there is no replay.
type Broadcaster interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channels ...string) (Subscription, error)
}

package confsync

import "errors"

var (
	// ErrEmptyNamespace is returned when a store is created without a namespace.
	ErrEmptyNamespace = errors.New("namespace cannot be empty")

	// ErrNilStore is returned when a nil NamespaceStore is provided.
	ErrNilStore = errors.New("namespace store cannot be nil")

	// ErrNilBroadcaster is returned when a nil Broadcaster is provided.
	ErrNilBroadcaster = errors.New("broadcaster cannot be nil")

	// ErrValueNotSerializable is reported when a value cannot be encoded as JSON.
	ErrValueNotSerializable = errors.New("value cannot be serialized to JSON")

	// ErrPull is reported when fetching the namespace from the durable store fails.
	ErrPull = errors.New("failed to pull namespace from durable store")

	// ErrPersist is reported when writing a field to the durable store fails.
	ErrPersist = errors.New("failed to persist field to durable store")

	// ErrDelete is reported when deleting a field from the durable store fails.
	ErrDelete = errors.New("failed to delete field from durable store")

	// ErrSubscribe is returned when the broadcast transport refuses a subscription.
	ErrSubscribe = errors.New("failed to subscribe to broadcast channels")

	// ErrStoreClosed is returned by operations on a closed store.
	ErrStoreClosed = errors.New("store is closed")

	// ErrEnvelopeDecode is returned for payloads that are not valid envelopes.
	ErrEnvelopeDecode = errors.New("failed to decode change envelope")
)

package confsync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Store keeps a local in-memory mirror of one namespace in a durable
// backing hash and propagates changes to sibling instances over a
// broadcast transport. Writes are applied to the mirror synchronously
// and persisted/broadcast in the background; instances monitoring the
// namespace converge on the last delivered change.
//
// Propagation is best-effort: a change envelope is published even when
// its persistence failed, and no version comparison is performed on
// inbound envelopes, so the system is an eventually-consistent cache,
// not a consensus store.
type Store struct {
	namespace  string
	instanceID string
	store      NamespaceStore
	bcast      Broadcaster
	logger     *slog.Logger
	obs        *observers

	mu     sync.RWMutex
	mirror map[string]any
	closed bool

	readyOnce sync.Once

	monMu sync.Mutex
	sub   Subscription
	monWG sync.WaitGroup

	bg sync.WaitGroup
}

// New creates a store for the given namespace and performs the initial
// bootstrap pull. A bootstrap failure is not a constructor error: it is
// reported through the error observers (and the log) and the store
// remains usable with an empty mirror. Constructor errors are reserved
// for invalid arguments.
func New(namespace string, store NamespaceStore, bcast Broadcaster, opts ...Option) (*Store, error) {
	if namespace == "" {
		return nil, ErrEmptyNamespace
	}
	if store == nil {
		return nil, ErrNilStore
	}
	if bcast == nil {
		return nil, ErrNilBroadcaster
	}

	options := &storeOptions{
		logger:     slog.Default(),
		instanceID: uuid.NewString(),
		bootstrap:  true,
	}
	for _, opt := range opts {
		opt(options)
	}

	s := &Store{
		namespace:  namespace,
		instanceID: options.instanceID,
		store:      store,
		bcast:      bcast,
		logger:     options.logger,
		obs:        newObservers(),
		mirror:     make(map[string]any),
	}

	if options.bootstrap {
		// Reported via the error observers; the store stays usable.
		_ = s.Pull(context.Background())
	}

	return s, nil
}

// Namespace returns the namespace this store mirrors.
func (s *Store) Namespace() string { return s.namespace }

// InstanceID returns the identity tagged onto outbound envelopes.
func (s *Store) InstanceID() string { return s.instanceID }

// Pull resynchronizes the mirror from the durable store: the mirror is
// cleared, every stored field is fetched, and each field's text is
// parsed as JSON. Fields that fail to parse are dropped silently;
// tolerating partial corruption beats refusing the whole namespace.
// On fetch failure the mirror is left empty and the error is both
// returned and reported to the error observers.
func (s *Store) Pull(ctx context.Context) error {
	if s.isClosed() {
		return ErrStoreClosed
	}

	s.mu.Lock()
	s.mirror = make(map[string]any)
	s.mu.Unlock()

	fields, err := s.store.FetchAll(ctx, NamespaceKey(s.namespace))
	if err != nil {
		err = errors.Join(ErrPull, err)
		s.logger.Error("bootstrap pull failed", "namespace", s.namespace, "error", err)
		s.obs.emitError(err)
		return err
	}

	next := make(map[string]any, len(fields))
	for field, text := range fields {
		var value any
		if err := json.Unmarshal([]byte(text), &value); err != nil {
			s.logger.Debug("dropping unparsable field",
				"namespace", s.namespace, "field", field)
			continue
		}
		next[field] = value
	}

	s.mu.Lock()
	s.mirror = next
	s.mu.Unlock()

	s.readyOnce.Do(s.obs.emitReady)
	s.obs.emitUpdated()
	return nil
}

// Get returns the mirrored value for key. The boolean distinguishes a
// key explicitly set to nil from a key that was never set.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.mirror[key]
	return value, ok
}

// GetOr returns the mirrored value for key, or fallback if the key is
// absent. A key set to nil returns nil, not the fallback.
func (s *Store) GetOr(key string, fallback any) any {
	if value, ok := s.Get(key); ok {
		return value
	}
	return fallback
}

// Len returns the number of keys currently mirrored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.mirror)
}

// Set writes key to value. The mirror is updated synchronously, so
// reads observe the new value immediately; persistence and the change
// broadcast run in the background. Setting a key to its current value
// (by canonical JSON equality) is a no-op. A value that cannot be
// serialized is rejected before the mirror is touched.
func (s *Store) Set(key string, value any) *Store {
	text, err := json.Marshal(value)
	if err != nil {
		s.obs.emitError(errors.Join(ErrValueNotSerializable, err))
		return s
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return s
	}
	prev, had := s.mirror[key]
	if had {
		if prevText, err := json.Marshal(prev); err == nil && bytes.Equal(prevText, text) {
			s.mu.Unlock()
			return s
		}
	}
	s.mirror[key] = value
	s.mu.Unlock()

	var prevArg any
	if had {
		prevArg = prev
	}

	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		ctx := context.Background()

		persistErr := s.store.SetField(ctx, NamespaceKey(s.namespace), key, string(text))

		// The envelope goes out before the persistence error is
		// checked: propagation is best-effort and not gated on
		// durability, so peers may learn of a change that was never
		// durably recorded.
		s.publish(ctx, SetChannel(s.namespace), key, value, prevArg)

		if persistErr != nil {
			s.obs.emitError(errors.Join(ErrPersist, persistErr))
			return
		}
		s.obs.emitSet(key, value, prevArg)
		s.obs.emitUpdated()
	}()

	return s
}

// Clear removes key from the mirror immediately (idempotent if absent)
// and deletes the durable field in the background, then broadcasts the
// clear to peers.
func (s *Store) Clear(key string) *Store {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return s
	}
	delete(s.mirror, key)
	s.mu.Unlock()

	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		ctx := context.Background()

		deleteErr := s.store.DeleteField(ctx, NamespaceKey(s.namespace), key)
		s.publish(ctx, ClearChannel(s.namespace), key)

		if deleteErr != nil {
			s.obs.emitError(errors.Join(ErrDelete, deleteErr))
			return
		}
		s.obs.emitCleared(key)
		s.obs.emitUpdated()
	}()

	return s
}

// StartMonitor subscribes to the namespace's set and clear channels so
// remote changes converge into the mirror. At most one subscription is
// held at a time; calling StartMonitor while monitoring is a no-op.
// Subscription failures are reported to the error observers.
func (s *Store) StartMonitor(ctx context.Context) *Store {
	s.monMu.Lock()
	defer s.monMu.Unlock()

	if s.sub != nil || s.isClosed() {
		return s
	}

	sub, err := s.bcast.Subscribe(ctx, SetChannel(s.namespace), ClearChannel(s.namespace))
	if err != nil {
		s.obs.emitError(errors.Join(ErrSubscribe, err))
		return s
	}

	s.sub = sub
	s.monWG.Add(1)
	go func() {
		defer s.monWG.Done()
		for msg := range sub.Messages() {
			s.applyInbound(msg)
		}
	}()

	return s
}

// StopMonitor closes the subscription and stops future inbound
// delivery. Outbound persistence and broadcasts already in flight are
// not cancelled. Calling StopMonitor while idle is a no-op.
func (s *Store) StopMonitor() *Store {
	s.monMu.Lock()
	sub := s.sub
	s.sub = nil
	s.monMu.Unlock()

	if sub == nil {
		return s
	}

	if err := sub.Close(); err != nil {
		s.logger.Warn("closing subscription failed",
			"namespace", s.namespace, "error", err)
	}
	s.monWG.Wait()
	return s
}

// Monitoring reports whether a subscription is currently active.
func (s *Store) Monitoring() bool {
	s.monMu.Lock()
	defer s.monMu.Unlock()
	return s.sub != nil
}

// Close stops monitoring and waits for in-flight background
// persistence and broadcasts to finish. It is safe to call twice.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.StopMonitor()
	s.bg.Wait()
}

// OnReady registers fn to run once after the first successful pull.
// Returns an unsubscribe func.
func (s *Store) OnReady(fn func()) func() { return s.obs.onReady(fn) }

// OnError registers fn for background I/O failures. Returns an
// unsubscribe func.
func (s *Store) OnError(fn ErrorHandler) func() { return s.obs.onError(fn) }

// OnUpdated registers fn to run after every applied pull, set or clear,
// local or remote. Returns an unsubscribe func.
func (s *Store) OnUpdated(fn func()) func() { return s.obs.onUpdated(fn) }

// OnSet registers fn for every applied set, local or remote. Returns an
// unsubscribe func.
func (s *Store) OnSet(fn SetHandler) func() { return s.obs.onSet(fn) }

// OnCleared registers fn for every applied clear, local or remote.
// Returns an unsubscribe func.
func (s *Store) OnCleared(fn ClearedHandler) func() { return s.obs.onCleared(fn) }

func (s *Store) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// publish encodes and sends one envelope. Broadcast delivery is
// best-effort, so failures are logged rather than surfaced.
func (s *Store) publish(ctx context.Context, channel string, args ...any) {
	payload, err := encodeEnvelope(s.instanceID, args...)
	if err != nil {
		s.logger.Warn("encoding envelope failed", "channel", channel, "error", err)
		return
	}
	if err := s.bcast.Publish(ctx, channel, payload); err != nil {
		s.logger.Warn("broadcast publish failed", "channel", channel, "error", err)
	}
}

// applyInbound applies one envelope received from a peer. Envelopes
// sent by this instance are discarded unconditionally: the mirror was
// already updated before the broadcast went out, so applying the echo
// would double-fire notifications. Malformed payloads are dropped, the
// same tolerance the bootstrap applies to corrupt stored fields.
func (s *Store) applyInbound(msg InboundMessage) {
	sender, args, err := decodeEnvelope(msg.Payload)
	if err != nil {
		s.logger.Debug("dropping malformed envelope", "channel", msg.Channel, "error", err)
		return
	}
	if sender == s.instanceID {
		return
	}
	if len(args) == 0 {
		s.logger.Debug("dropping empty envelope", "channel", msg.Channel)
		return
	}

	var key string
	if err := json.Unmarshal(args[0], &key); err != nil {
		s.logger.Debug("dropping envelope with non-string key", "channel", msg.Channel)
		return
	}

	switch msg.Channel {
	case SetChannel(s.namespace):
		// The envelope's trailing previous-remote-value is
		// informational only; the notification carries the local
		// previous value. Last delivered envelope wins.
		var value any
		if len(args) > 1 {
			if err := json.Unmarshal(args[1], &value); err != nil {
				s.logger.Debug("dropping envelope with unparsable value",
					"channel", msg.Channel, "key", key)
				return
			}
		}

		s.mu.Lock()
		prev, had := s.mirror[key]
		s.mirror[key] = value
		s.mu.Unlock()

		var prevArg any
		if had {
			prevArg = prev
		}
		s.obs.emitSet(key, value, prevArg)
		s.obs.emitUpdated()

	case ClearChannel(s.namespace):
		s.mu.Lock()
		delete(s.mirror, key)
		s.mu.Unlock()

		s.obs.emitCleared(key)
		s.obs.emitUpdated()

	default:
		s.logger.Debug("dropping envelope from unknown channel", "channel", msg.Channel)
	}
}

package confsync

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore is an in-memory NamespaceStore. All methods are safe for
// concurrent use. Intended for tests and local development; it shares
// no state between processes.
type MemoryStore struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]string
}

// NewMemoryStore creates an empty in-memory namespace store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{namespaces: make(map[string]map[string]string)}
}

// Seed replaces the full field set of one namespace key. Test helper.
func (m *MemoryStore) Seed(key string, fields map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.namespaces[key] = maps.Clone(fields)
}

func (m *MemoryStore) FetchAll(ctx context.Context, key string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fields, ok := m.namespaces[key]
	if !ok {
		return map[string]string{}, nil
	}
	return maps.Clone(fields), nil
}

func (m *MemoryStore) SetField(ctx context.Context, key, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fields, ok := m.namespaces[key]
	if !ok {
		fields = make(map[string]string)
		m.namespaces[key] = fields
	}
	fields[field] = value
	return nil
}

func (m *MemoryStore) DeleteField(ctx context.Context, key, field string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if fields, ok := m.namespaces[key]; ok {
		delete(fields, field)
	}
	return nil
}

// MemoryBroadcaster is an in-process Broadcaster: channel-scoped
// fan-out to currently registered subscribers. Like a real transport it
// offers no replay, and messages are dropped for subscribers whose
// buffer is full rather than blocking the publisher.
type MemoryBroadcaster struct {
	mu          sync.RWMutex
	subscribers map[*memorySubscription]struct{}
	bufferSize  int
	closed      bool
}

// NewMemoryBroadcaster creates an in-memory broadcaster. bufferSize is
// the per-subscriber channel buffer; a minimum of 1 is enforced so
// publishing never blocks.
func NewMemoryBroadcaster(bufferSize int) *MemoryBroadcaster {
	return &MemoryBroadcaster{
		subscribers: make(map[*memorySubscription]struct{}),
		bufferSize:  max(bufferSize, 1),
	}
}

func (b *MemoryBroadcaster) Publish(ctx context.Context, channel string, payload []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil
	}
	for sub := range b.subscribers {
		sub.deliver(channel, payload)
	}
	return nil
}

func (b *MemoryBroadcaster) Subscribe(ctx context.Context, channels ...string) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &memorySubscription{
		parent:   b,
		channels: make(map[string]struct{}, len(channels)),
		messages: make(chan InboundMessage, b.bufferSize),
	}
	for _, ch := range channels {
		sub.channels[ch] = struct{}{}
	}

	if b.closed {
		close(sub.messages)
		sub.closed = true
		return sub, nil
	}

	b.subscribers[sub] = struct{}{}
	return sub, nil
}

// Close shuts down the broadcaster and closes every subscription.
// Safe to call twice.
func (b *MemoryBroadcaster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for sub := range b.subscribers {
		sub.close()
	}
	clear(b.subscribers)
	return nil
}

type memorySubscription struct {
	parent   *MemoryBroadcaster
	channels map[string]struct{}
	messages chan InboundMessage

	mu     sync.Mutex
	closed bool
}

func (s *memorySubscription) Messages() <-chan InboundMessage {
	return s.messages
}

func (s *memorySubscription) Close() error {
	s.parent.mu.Lock()
	delete(s.parent.subscribers, s)
	s.parent.mu.Unlock()

	s.close()
	return nil
}

func (s *memorySubscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.messages)
	}
}

func (s *memorySubscription) deliver(channel string, payload []byte) {
	if _, ok := s.channels[channel]; !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.messages <- InboundMessage{Channel: channel, Payload: payload}:
	default:
	}
}

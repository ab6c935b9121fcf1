package confsync

import "sync/atomic"

// WatchEvent describes one change observed for a watched key. Cleared
// is true when the key was removed; otherwise Value holds the new value
// and Previous the local value before the change (nil if the key was
// absent).
type WatchEvent struct {
	Key      string
	Value    any
	Previous any
	Cleared  bool
}

// Watch registers fn against set and clear notifications for one key,
// local or remote, and returns a cancel func. After cancel returns the
// callback never fires again, even for notifications already in flight.
// Multiple watches on the same key are independent.
func (s *Store) Watch(key string, fn func(WatchEvent)) func() {
	var ended atomic.Bool

	offSet := s.obs.onSet(func(k string, value, previous any) {
		if k != key || ended.Load() {
			return
		}
		fn(WatchEvent{Key: k, Value: value, Previous: previous})
	})
	offCleared := s.obs.onCleared(func(k string) {
		if k != key || ended.Load() {
			return
		}
		fn(WatchEvent{Key: k, Cleared: true})
	})

	return func() {
		if ended.Swap(true) {
			return
		}
		offSet()
		offCleared()
	}
}

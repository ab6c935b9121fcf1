// Package confsync implements a namespaced, replicated configuration
// store. Each Store keeps an in-process mirror of one shared key/value
// namespace, persists writes to a durable backing hash, and propagates
// changes to sibling instances over a publish/subscribe transport so
// all mirrors eventually converge.
//
// The model is an eventually-consistent cache with informational
// broadcast, not a consensus system: writes apply to the local mirror
// immediately, persistence and broadcast happen in the background, and
// the last envelope delivered to a peer wins regardless of when it was
// produced.
//
// # Usage
//
// Build a store over the bundled Redis adapters:
//
//	client, err := redis.Connect(ctx, redisCfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store, err := confsync.New("billing",
//	    redis.NewHashStore(client),
//	    redis.NewPubSub(client),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	store.StartMonitor(ctx)
//
//	store.Set("rate-limit", 120)
//	cancel := store.Watch("rate-limit", func(ev confsync.WatchEvent) {
//	    // fires for local and remote changes alike
//	})
//	defer cancel()
//
// Absent keys are distinct from keys explicitly set to nil:
//
//	v, ok := store.Get("missing")   // nil, false
//	store.Set("k", nil)
//	v, ok = store.Get("k")          // nil, true
//
// # Guarantees and their limits
//
//   - Reads never block on I/O; Set and Clear return after the
//     synchronous mirror update.
//   - A Set to the current value (by canonical JSON equality) is a
//     complete no-op: no persistence, no broadcast, no notification.
//   - Instances discard their own broadcast echoes, so a store
//     subscribed to its own channels never double-applies a change.
//   - Completions of concurrent writes to the same key are not
//     sequenced: the durably stored value can regress to an older write
//     if completions land out of order.
//   - Change envelopes are published even when persistence failed;
//     peers may observe a value that was never durably recorded.
//
// Failures of background I/O are delivered to OnError observers; no
// failure is fatal to the store and nothing is retried automatically.
//
// The in-memory MemoryStore and MemoryBroadcaster adapters implement
// the same contracts for tests and single-process use.
package confsync

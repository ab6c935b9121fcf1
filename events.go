package confsync

import "sync"

// Handler types for store notifications.
type (
	// SetHandler observes an applied set. Previous is the local value
	// the key held before the change, or nil if the key was absent.
	SetHandler func(key string, value, previous any)

	// ClearedHandler observes an applied clear.
	ClearedHandler func(key string)

	// ErrorHandler observes background I/O failures.
	ErrorHandler func(err error)
)

// observers holds explicit callback lists per notification kind.
// Registration returns an unsubscribe func; after it runs the callback
// never fires again. Callbacks are invoked without holding the lock so
// a handler may register or unsubscribe reentrantly.
type observers struct {
	mu      sync.RWMutex
	nextID  uint64
	ready   map[uint64]func()
	errs    map[uint64]ErrorHandler
	updated map[uint64]func()
	set     map[uint64]SetHandler
	cleared map[uint64]ClearedHandler
}

func newObservers() *observers {
	return &observers{
		ready:   make(map[uint64]func()),
		errs:    make(map[uint64]ErrorHandler),
		updated: make(map[uint64]func()),
		set:     make(map[uint64]SetHandler),
		cleared: make(map[uint64]ClearedHandler),
	}
}

func (o *observers) id() uint64 {
	o.nextID++
	return o.nextID
}

func (o *observers) onReady(fn func()) func() {
	o.mu.Lock()
	id := o.id()
	o.ready[id] = fn
	o.mu.Unlock()
	return func() {
		o.mu.Lock()
		delete(o.ready, id)
		o.mu.Unlock()
	}
}

func (o *observers) onError(fn ErrorHandler) func() {
	o.mu.Lock()
	id := o.id()
	o.errs[id] = fn
	o.mu.Unlock()
	return func() {
		o.mu.Lock()
		delete(o.errs, id)
		o.mu.Unlock()
	}
}

func (o *observers) onUpdated(fn func()) func() {
	o.mu.Lock()
	id := o.id()
	o.updated[id] = fn
	o.mu.Unlock()
	return func() {
		o.mu.Lock()
		delete(o.updated, id)
		o.mu.Unlock()
	}
}

func (o *observers) onSet(fn SetHandler) func() {
	o.mu.Lock()
	id := o.id()
	o.set[id] = fn
	o.mu.Unlock()
	return func() {
		o.mu.Lock()
		delete(o.set, id)
		o.mu.Unlock()
	}
}

func (o *observers) onCleared(fn ClearedHandler) func() {
	o.mu.Lock()
	id := o.id()
	o.cleared[id] = fn
	o.mu.Unlock()
	return func() {
		o.mu.Lock()
		delete(o.cleared, id)
		o.mu.Unlock()
	}
}

func (o *observers) emitReady() {
	o.mu.RLock()
	fns := make([]func(), 0, len(o.ready))
	for _, fn := range o.ready {
		fns = append(fns, fn)
	}
	o.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

func (o *observers) emitError(err error) {
	o.mu.RLock()
	fns := make([]ErrorHandler, 0, len(o.errs))
	for _, fn := range o.errs {
		fns = append(fns, fn)
	}
	o.mu.RUnlock()
	for _, fn := range fns {
		fn(err)
	}
}

func (o *observers) emitUpdated() {
	o.mu.RLock()
	fns := make([]func(), 0, len(o.updated))
	for _, fn := range o.updated {
		fns = append(fns, fn)
	}
	o.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

func (o *observers) emitSet(key string, value, previous any) {
	o.mu.RLock()
	fns := make([]SetHandler, 0, len(o.set))
	for _, fn := range o.set {
		fns = append(fns, fn)
	}
	o.mu.RUnlock()
	for _, fn := range fns {
		fn(key, value, previous)
	}
}

func (o *observers) emitCleared(key string) {
	o.mu.RLock()
	fns := make([]ClearedHandler, 0, len(o.cleared))
	for _, fn := range o.cleared {
		fns = append(fns, fn)
	}
	o.mu.RUnlock()
	for _, fn := range fns {
		fn(key)
	}
}

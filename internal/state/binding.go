// Package state binds each logical collection to a reactive cell with
// debounced, loss-resistant persistence on the key-value tier.
package state

import (
	"context"
	"sync"
	"time"

	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/metrics"
)

// Status models the binding lifecycle.
type Status int

const (
	StatusUninitialized Status = iota
	StatusLoaded
	StatusDirty
	StatusSaving
	StatusSaved
)

func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusDirty:
		return "dirty"
	case StatusSaving:
		return "saving"
	case StatusSaved:
		return "saved"
	default:
		return "uninitialized"
	}
}

// SlotStore is the key-value tier surface the binding persists through.
type SlotStore interface {
	Load(ctx context.Context, slot string, out any) bool
	Save(ctx context.Context, slot string, value any) error
}

// Normalizer validates and repairs a freshly loaded or imported collection.
type Normalizer[E any] func([]E) []E

// Options configures a collection binding.
type Options[E any] struct {
	Collection string
	Slot       string
	Default    []E
	Normalize  Normalizer[E]
	Debounce   time.Duration
	// OnChange fires after every accepted mutation; the remote sync
	// controller subscribes here. Never called for the initial load.
	OnChange func()
}

// Binding is one collection's reactive cell. All mutation goes through Set or
// Apply; reads go through Get. A trailing debounce coalesces bursts of Set
// calls into a single slot write.
type Binding[E any] struct {
	mu         sync.Mutex
	collection string
	slot       string
	store      SlotStore
	logg       *logger.Logger
	metrics    *metrics.PersistenceMetrics
	normalize  Normalizer[E]
	debounce   time.Duration
	onChange   func()

	value  []E
	prev   []E // last value accepted for write; loss-guard baseline
	status Status
	gen    uint64
	timer  *time.Timer
	closed bool
}

// NewBinding loads the collection from its slot exactly once and seeds the
// cell. The loaded value never triggers a save.
func NewBinding[E any](ctx context.Context, store SlotStore, logg *logger.Logger, m *metrics.PersistenceMetrics, opts Options[E]) *Binding[E] {
	b := &Binding[E]{
		collection: opts.Collection,
		slot:       opts.Slot,
		store:      store,
		logg:       logg,
		metrics:    m,
		normalize:  opts.Normalize,
		debounce:   opts.Debounce,
		onChange:   opts.OnChange,
		status:     StatusUninitialized,
	}
	if b.debounce <= 0 {
		b.debounce = 500 * time.Millisecond
	}

	loaded := opts.Default
	var raw []E
	if store.Load(ctx, b.slot, &raw) {
		loaded = raw
	}
	if b.normalize != nil {
		loaded = b.normalize(loaded)
	}
	b.value = loaded
	b.prev = loaded
	b.status = StatusLoaded
	return b
}

// Collection returns the logical collection name.
func (b *Binding[E]) Collection() string { return b.collection }

// Status reports the binding's lifecycle state.
func (b *Binding[E]) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// Get returns a copy of the current collection value.
func (b *Binding[E]) Get() []E {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]E(nil), b.value...)
}

// Len returns the current number of records without copying.
func (b *Binding[E]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.value)
}

// Set replaces the collection value and schedules a debounced save. Any save
// already pending for this collection is canceled and replaced, so only the
// final state of a burst is persisted.
func (b *Binding[E]) Set(ctx context.Context, next []E) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.value = next
	b.gen++
	b.status = StatusDirty
	if b.timer != nil {
		b.timer.Stop()
	}
	saveCtx := b.logg.WithCollection(context.WithoutCancel(ctx), b.collection)
	b.timer = time.AfterFunc(b.debounce, func() { b.flush(saveCtx) })
	onChange := b.onChange
	b.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

// Update applies fn to a copy of the current value and Sets the result.
func (b *Binding[E]) Update(ctx context.Context, fn func([]E) []E) {
	b.mu.Lock()
	snapshot := append([]E(nil), b.value...)
	b.mu.Unlock()
	b.Set(ctx, fn(snapshot))
}

// Apply replaces the collection value and persists immediately, bypassing
// both the debounce and the empty-write guard. Restore and remote pull use
// this path; both run under an explicit, user-confirmed overwrite.
func (b *Binding[E]) Apply(ctx context.Context, next []E) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	if b.normalize != nil {
		next = b.normalize(next)
	}
	b.value = next
	b.gen++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.status = StatusSaving
	gen := b.gen
	snapshot := append([]E(nil), next...)
	b.mu.Unlock()

	ctx = b.logg.WithCollection(ctx, b.collection)
	start := time.Now()
	err := b.store.Save(ctx, b.slot, snapshot)
	b.metrics.ObserveSaveDuration(b.collection, time.Since(start))

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.metrics.IncSaveFailure(b.collection)
		b.status = StatusDirty
		return err
	}
	b.metrics.IncSave(b.collection)
	b.prev = snapshot
	if b.gen == gen {
		b.status = StatusSaved
	}
	return nil
}

// Close cancels any pending debounced save. Dropping a scheduled save is safe:
// the next construction reloads the last persisted value.
func (b *Binding[E]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

// flush runs when the debounce timer fires.
func (b *Binding[E]) flush(ctx context.Context) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}

	// Loss guard: never let a transiently empty state erase previously
	// persisted data. The baseline stays at the last accepted write, so a
	// skipped save can diverge from disk until the next mutation; callers
	// accept that edge.
	if len(b.value) == 0 && len(b.prev) > 0 {
		b.status = StatusSaved
		b.mu.Unlock()
		b.metrics.IncEmptySkip(b.collection)
		b.logg.Warn(ctx, "skipping save of empty collection over non-empty data")
		return
	}

	b.status = StatusSaving
	gen := b.gen
	snapshot := append([]E(nil), b.value...)
	b.mu.Unlock()

	start := time.Now()
	err := b.store.Save(ctx, b.slot, snapshot)
	b.metrics.ObserveSaveDuration(b.collection, time.Since(start))

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		// Logged and absorbed; the next mutation re-attempts naturally.
		b.metrics.IncSaveFailure(b.collection)
		b.logg.Error(ctx, "saving collection failed", err)
		b.status = StatusDirty
		return
	}
	b.metrics.IncSave(b.collection)
	b.prev = snapshot
	if b.gen == gen {
		b.status = StatusSaved
	} else {
		// A mutation arrived mid-write; Set already rescheduled the timer.
		b.status = StatusDirty
	}
}

// Package appstate composes one binding per collection into the single state
// tree that backup, restore, and remote sync operate on.
package appstate

import (
	"context"
	"time"

	"github.com/adiwijaya-dev/shopdash-backend/internal/collections"
	"github.com/adiwijaya-dev/shopdash-backend/internal/products"
	"github.com/adiwijaya-dev/shopdash-backend/internal/state"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/config"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/db/models"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/metrics"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/slotstore"
)

// State holds every collection binding. Services mutate through these
// bindings only; the structured tier is fed by migration, not directly.
type State struct {
	Sales           *state.Binding[models.SalesRecord]
	Tasks           *state.Binding[models.Task]
	TaskCompletions *state.Binding[models.TaskCompletion]
	WorkLogs        *state.Binding[models.WorkLog]
	Products        *state.Binding[models.Product]
	Pricing         *state.Binding[models.PricingItem]
	Competitors     *state.Binding[models.CompetitorItem]
	VideoLogs       *state.Binding[models.VideoLog]
	Goals           *state.Binding[models.Goal]
}

// Snapshot is the full-state document exchanged with backup and remote sync.
// Nil slices mean the key was absent from the source document and the matching
// binding is left untouched; an empty slice is an explicit clear.
type Snapshot struct {
	SalesData       []models.SalesRecord    `json:"salesData"`
	Tasks           []models.Task           `json:"tasks"`
	TaskCompletions []models.TaskCompletion `json:"taskCompletions"`
	WorkLogs        []models.WorkLog        `json:"workLogs"`
	Products        []models.Product        `json:"products"`
	PricingItems    []models.PricingItem    `json:"pricingItems"`
	Competitors     []models.CompetitorItem `json:"competitors"`
	VideoLogs       []models.VideoLog       `json:"videoLogs"`
	Goals           []models.Goal           `json:"goals"`
}

// New loads every binding from its slot. onChange, when non-nil, receives the
// collection name after each accepted mutation; remote sync subscribes there.
func New(ctx context.Context, store *slotstore.Store, logg *logger.Logger, m *metrics.PersistenceMetrics, cfg config.PersistenceConfig, onChange func(collection string)) *State {
	bind := func(collection string) (string, time.Duration, func()) {
		slot := collections.Slot(cfg.SlotPrefix, collection)
		var hook func()
		if onChange != nil {
			hook = func() { onChange(collection) }
		}
		return slot, cfg.SaveDebounce, hook
	}

	s := &State{}

	slot, debounce, hook := bind(collections.SalesData)
	s.Sales = state.NewBinding(ctx, store, logg, m, state.Options[models.SalesRecord]{
		Collection: collections.SalesData, Slot: slot, Debounce: debounce, OnChange: hook,
	})

	slot, debounce, hook = bind(collections.Tasks)
	s.Tasks = state.NewBinding(ctx, store, logg, m, state.Options[models.Task]{
		Collection: collections.Tasks, Slot: slot, Debounce: debounce, OnChange: hook,
	})

	slot, debounce, hook = bind(collections.TaskCompletions)
	s.TaskCompletions = state.NewBinding(ctx, store, logg, m, state.Options[models.TaskCompletion]{
		Collection: collections.TaskCompletions, Slot: slot, Debounce: debounce, OnChange: hook,
	})

	slot, debounce, hook = bind(collections.WorkLogs)
	s.WorkLogs = state.NewBinding(ctx, store, logg, m, state.Options[models.WorkLog]{
		Collection: collections.WorkLogs, Slot: slot, Debounce: debounce, OnChange: hook,
	})

	slot, debounce, hook = bind(collections.Products)
	s.Products = state.NewBinding(ctx, store, logg, m, state.Options[models.Product]{
		Collection: collections.Products, Slot: slot, Debounce: debounce, OnChange: hook,
		Normalize: products.Sanitize,
	})

	slot, debounce, hook = bind(collections.PricingItems)
	s.Pricing = state.NewBinding(ctx, store, logg, m, state.Options[models.PricingItem]{
		Collection: collections.PricingItems, Slot: slot, Debounce: debounce, OnChange: hook,
	})

	slot, debounce, hook = bind(collections.Competitors)
	s.Competitors = state.NewBinding(ctx, store, logg, m, state.Options[models.CompetitorItem]{
		Collection: collections.Competitors, Slot: slot, Debounce: debounce, OnChange: hook,
	})

	slot, debounce, hook = bind(collections.VideoLogs)
	s.VideoLogs = state.NewBinding(ctx, store, logg, m, state.Options[models.VideoLog]{
		Collection: collections.VideoLogs, Slot: slot, Debounce: debounce, OnChange: hook,
	})

	slot, debounce, hook = bind(collections.Goals)
	s.Goals = state.NewBinding(ctx, store, logg, m, state.Options[models.Goal]{
		Collection: collections.Goals, Slot: slot, Debounce: debounce, OnChange: hook,
	})

	return s
}

// Snapshot captures the current value of every binding.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		SalesData:       s.Sales.Get(),
		Tasks:           s.Tasks.Get(),
		TaskCompletions: s.TaskCompletions.Get(),
		WorkLogs:        s.WorkLogs.Get(),
		Products:        s.Products.Get(),
		PricingItems:    s.Pricing.Get(),
		Competitors:     s.Competitors.Get(),
		VideoLogs:       s.VideoLogs.Get(),
		Goals:           s.Goals.Get(),
	}
}

// Apply overwrites bindings from the snapshot, key by key. Absent keys leave
// their binding untouched. Each apply persists immediately; a failing
// collection is reported but does not stop the rest.
func (s *State) Apply(ctx context.Context, snap Snapshot) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if snap.SalesData != nil {
		keep(s.Sales.Apply(ctx, snap.SalesData))
	}
	if snap.Tasks != nil {
		keep(s.Tasks.Apply(ctx, snap.Tasks))
	}
	if snap.TaskCompletions != nil {
		keep(s.TaskCompletions.Apply(ctx, snap.TaskCompletions))
	}
	if snap.WorkLogs != nil {
		keep(s.WorkLogs.Apply(ctx, snap.WorkLogs))
	}
	if snap.Products != nil {
		keep(s.Products.Apply(ctx, snap.Products))
	}
	if snap.PricingItems != nil {
		keep(s.Pricing.Apply(ctx, snap.PricingItems))
	}
	if snap.Competitors != nil {
		keep(s.Competitors.Apply(ctx, snap.Competitors))
	}
	if snap.VideoLogs != nil {
		keep(s.VideoLogs.Apply(ctx, snap.VideoLogs))
	}
	if snap.Goals != nil {
		keep(s.Goals.Apply(ctx, snap.Goals))
	}

	return firstErr
}

// Close stops every binding's pending debounce timer.
func (s *State) Close() {
	s.Sales.Close()
	s.Tasks.Close()
	s.TaskCompletions.Close()
	s.WorkLogs.Close()
	s.Products.Close()
	s.Pricing.Close()
	s.Competitors.Close()
	s.VideoLogs.Close()
	s.Goals.Close()
}

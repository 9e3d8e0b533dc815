package remotesync

import (
	"context"
	"sync"
	"time"

	"github.com/adiwijaya-dev/shopdash-backend/internal/appstate"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/metrics"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/slotstore"
)

// syncMeta is the local marker slot recording the last reconciled stamp. The
// worker reads the user from it, and the stamp tells operators when this
// instance last converged with the remote record.
type syncMeta struct {
	User        string    `json:"user"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Options tunes a Syncer.
type Options struct {
	// Debounce batches bursts of local changes into one push.
	Debounce time.Duration
	// MetaSlot names the slot holding the local sync stamp.
	MetaSlot string
}

// Syncer drives the push and pull cycles. Pushes are debounced behind
// NotifyChange; the pull runs once per login through Bind. A found remote
// record always replaces local state wholesale, with no merging.
type Syncer struct {
	client  RecordClient
	state   *appstate.State
	slots   *slotstore.Store
	logg    *logger.Logger
	metrics *metrics.PersistenceMetrics
	opts    Options
	now     func() time.Time

	mu     sync.Mutex
	user   string
	timer  *time.Timer
	closed bool
}

func NewSyncer(ctx context.Context, client RecordClient, state *appstate.State, slots *slotstore.Store, logg *logger.Logger, m *metrics.PersistenceMetrics, opts Options) *Syncer {
	return &Syncer{
		client:  client,
		state:   state,
		slots:   slots,
		logg:    logg,
		metrics: m,
		opts:    opts,
		now:     time.Now,
	}
}

// Bind attaches the syncer to the authenticated user and reconciles against
// the remote record. A found remote record overwrites local state wholesale,
// with no timestamp comparison; only when no record exists is the local state
// pushed up to create one. Failures are logged and the cycle is skipped,
// local data is never blocked on the remote.
func (s *Syncer) Bind(ctx context.Context, user string) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	ctx = s.logg.WithUserID(ctx, user)

	rec, err := s.client.FetchRecord(ctx, user)
	if err != nil {
		s.metrics.IncSyncCycle("pull", "failure")
		s.logg.Error(ctx, "fetching remote record failed, skipping sync cycle", err)
		return
	}
	if rec != nil {
		if err := s.state.Apply(ctx, rec.Snapshot); err != nil {
			s.metrics.IncSyncCycle("pull", "failure")
			s.logg.Error(ctx, "applying remote record failed", err)
			return
		}
		s.setStamp(ctx, user, rec.LastUpdated)
		s.metrics.IncSyncCycle("pull", "success")
		s.logg.Info(s.logg.WithField(ctx, "remote_updated", rec.LastUpdated), "adopted remote state")
		return
	}

	// No remote record yet: publish local so the next login finds one.
	if err := s.push(ctx); err == nil {
		s.logg.Info(ctx, "created remote record for user")
	}
}

// Attach binds the user without running the login reconcile. The background
// worker uses it to re-push local state without adopting the remote record.
func (s *Syncer) Attach(user string) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

// Unbind detaches the syncer on logout. Pending pushes are flushed first so
// the last local change is not lost.
func (s *Syncer) Unbind(ctx context.Context) {
	s.Flush(ctx)
	s.mu.Lock()
	s.user = ""
	s.mu.Unlock()
}

// NotifyChange schedules a debounced push. It is the hook handed to the state
// bindings and must never block the mutation that triggered it.
func (s *Syncer) NotifyChange(collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.user == "" {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.opts.Debounce, func() {
		ctx := s.logg.WithCollection(context.Background(), collection)
		if err := s.push(ctx); err != nil {
			s.logg.Error(ctx, "debounced push failed, will retry on next change", err)
		}
	})
}

// Flush cancels any pending debounce and pushes immediately.
func (s *Syncer) Flush(ctx context.Context) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	if err := s.push(ctx); err != nil {
		s.logg.Error(ctx, "flush push failed", err)
	}
}

// Close stops the pending push timer. It does not flush.
func (s *Syncer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Syncer) push(ctx context.Context) error {
	s.mu.Lock()
	user := s.user
	s.mu.Unlock()
	if user == "" {
		return nil
	}

	rec := Record{
		ID:          user,
		User:        user,
		Snapshot:    fullSnapshot(s.state),
		LastUpdated: s.now().UTC(),
	}
	if err := s.client.SaveRecord(ctx, rec); err != nil {
		s.metrics.IncSyncCycle("push", "failure")
		s.logg.Error(s.logg.WithUserID(ctx, user), "pushing remote record failed, skipping sync cycle", err)
		return err
	}

	s.setStamp(ctx, user, rec.LastUpdated)
	s.metrics.IncSyncCycle("push", "success")
	return nil
}

func (s *Syncer) setStamp(ctx context.Context, user string, stamp time.Time) {
	if err := s.slots.Save(ctx, s.opts.MetaSlot, syncMeta{User: user, LastUpdated: stamp}); err != nil {
		s.logg.Error(ctx, "persisting sync stamp failed", err)
	}
}

// fullSnapshot materializes every collection key. Empty collections must be
// present in the pushed record so a later pull can clear them.
func fullSnapshot(state *appstate.State) appstate.Snapshot {
	snap := state.Snapshot()
	snap.SalesData = orEmpty(snap.SalesData)
	snap.Tasks = orEmpty(snap.Tasks)
	snap.TaskCompletions = orEmpty(snap.TaskCompletions)
	snap.WorkLogs = orEmpty(snap.WorkLogs)
	snap.Products = orEmpty(snap.Products)
	snap.PricingItems = orEmpty(snap.PricingItems)
	snap.Competitors = orEmpty(snap.Competitors)
	snap.VideoLogs = orEmpty(snap.VideoLogs)
	snap.Goals = orEmpty(snap.Goals)
	return snap
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

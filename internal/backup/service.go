// Package backup serializes the full application state to one document and
// restores from one.
package backup

import (
	"context"
	"encoding/json"
	"time"

	"github.com/adiwijaya-dev/shopdash-backend/internal/appstate"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/db/models"
	pkgerrors "github.com/adiwijaya-dev/shopdash-backend/pkg/errors"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
)

// Document is the exported backup. Every collection key is always present,
// empty collections included; consumers rely on key presence.
type Document struct {
	SalesData       []models.SalesRecord    `json:"salesData"`
	Tasks           []models.Task           `json:"tasks"`
	TaskCompletions []models.TaskCompletion `json:"taskCompletions"`
	Products        []models.Product        `json:"products"`
	PricingItems    []models.PricingItem    `json:"pricingItems"`
	Competitors     []models.CompetitorItem `json:"competitors"`
	VideoLogs       []models.VideoLog       `json:"videoLogs"`
	WorkLogs        []models.WorkLog        `json:"workLogs"`
	Goals           []models.Goal           `json:"goals"`
	ExportDate      time.Time               `json:"exportDate"`
}

// expectedKeys is the validation set for import: a document carrying none of
// these is rejected as not-a-backup.
var expectedKeys = []string{
	"salesData", "tasks", "taskCompletions", "products",
	"pricingItems", "competitors", "videoLogs", "workLogs", "goals",
}

type Service struct {
	state *appstate.State
	logg  *logger.Logger
	now   func() time.Time
}

func NewService(state *appstate.State, logg *logger.Logger) *Service {
	return &Service{state: state, logg: logg, now: time.Now}
}

// Export gathers the current value of every collection. No collection is ever
// omitted; an unavailable one exports as empty.
func (s *Service) Export(_ context.Context) Document {
	snap := s.state.Snapshot()
	return Document{
		SalesData:       orEmpty(snap.SalesData),
		Tasks:           orEmpty(snap.Tasks),
		TaskCompletions: orEmpty(snap.TaskCompletions),
		Products:        orEmpty(snap.Products),
		PricingItems:    orEmpty(snap.PricingItems),
		Competitors:     orEmpty(snap.Competitors),
		VideoLogs:       orEmpty(snap.VideoLogs),
		WorkLogs:        orEmpty(snap.WorkLogs),
		Goals:           orEmpty(snap.Goals),
		ExportDate:      s.now().UTC(),
	}
}

// Import validates and applies a backup document. The overwrite is
// destructive, so the caller must pass confirm explicitly. Only keys present
// in the document are applied; products pass through the sanitizer inside
// their binding.
func (s *Service) Import(ctx context.Context, raw []byte, confirm bool) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "backup document is not valid JSON")
	}

	recognized := false
	for _, key := range expectedKeys {
		if _, ok := keys[key]; ok {
			recognized = true
			break
		}
	}
	if !recognized {
		return pkgerrors.New(pkgerrors.CodeValidation, "document does not look like a backup")
	}

	if !confirm {
		return pkgerrors.New(pkgerrors.CodeValidation, "restore overwrites current data and requires confirmation")
	}

	var snap appstate.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "backup document has malformed collections")
	}

	if err := s.state.Apply(ctx, snap); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "applying backup")
	}

	s.logg.Info(ctx, "backup imported")
	return nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

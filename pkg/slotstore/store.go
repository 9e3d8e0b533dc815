// Package slotstore implements the key-value persistence tier: one JSON
// document per named slot, with a paired backup slot used for recovery and
// guarded against empty overwrites.
package slotstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// BackupSuffix is appended to a slot name to form its shadow copy.
const BackupSuffix = "_backup"

type kv interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SlotKey(slot string) string
}

// Store reads and writes JSON slot documents on the key-value tier.
type Store struct {
	kv   kv
	logg *logger.Logger
}

func New(kv kv, logg *logger.Logger) *Store {
	return &Store{kv: kv, logg: logg}
}

// Load reads the primary slot into out. If the primary is absent or
// unparseable it falls back to the backup slot; recovered backup data is
// written back into the primary slot before returning. The boolean reports
// whether anything was loaded; false means the caller keeps its default.
// Failures are logged and swallowed, never returned.
func (s *Store) Load(ctx context.Context, slot string, out any) bool {
	ctx = s.logg.WithSlot(ctx, slot)

	raw, err := s.kv.Get(ctx, s.kv.SlotKey(slot))
	if err == nil {
		if jsonErr := json.Unmarshal([]byte(raw), out); jsonErr == nil {
			return true
		}
		s.logg.Warn(ctx, "primary slot is corrupt, trying backup")
	} else if !errors.Is(err, redis.Nil) {
		s.logg.Error(ctx, "reading primary slot failed, trying backup", err)
	}

	backupRaw, err := s.kv.Get(ctx, s.kv.SlotKey(slot+BackupSuffix))
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logg.Error(ctx, "reading backup slot failed", err)
		}
		return false
	}
	if jsonErr := json.Unmarshal([]byte(backupRaw), out); jsonErr != nil {
		s.logg.Warn(ctx, "backup slot is corrupt, falling back to default")
		return false
	}

	// Self-heal: put the recovered document back into the primary slot.
	if err := s.kv.Set(ctx, s.kv.SlotKey(slot), backupRaw, 0); err != nil {
		s.logg.Error(ctx, "restoring primary slot from backup failed", err)
	} else {
		s.logg.Info(ctx, "recovered slot from backup")
	}
	return true
}

// Save serializes value into the primary slot. The backup slot is only
// refreshed when the serialized value is non-empty, so the last known-good
// backup survives an empty write.
func (s *Store) Save(ctx context.Context, slot string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := s.kv.Set(ctx, s.kv.SlotKey(slot), string(raw), 0); err != nil {
		return err
	}

	if !nonEmptyJSON(raw) {
		return nil
	}
	return s.kv.Set(ctx, s.kv.SlotKey(slot+BackupSuffix), string(raw), 0)
}

// LoadFlag reads a boolean marker slot.
func (s *Store) LoadFlag(ctx context.Context, slot string) bool {
	raw, err := s.kv.Get(ctx, s.kv.SlotKey(slot))
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logg.Error(s.logg.WithSlot(ctx, slot), "reading flag slot failed", err)
		}
		return false
	}
	return raw == "true"
}

// SaveFlag writes a boolean marker slot. No backup is kept for flags.
func (s *Store) SaveFlag(ctx context.Context, slot string, value bool) error {
	raw := "false"
	if value {
		raw = "true"
	}
	return s.kv.Set(ctx, s.kv.SlotKey(slot), raw, 0)
}

// nonEmptyJSON reports whether the serialized document carries data worth
// backing up: a sequence with at least one element or a mapping with at least
// one key. Scalars count as non-empty, null does not.
func nonEmptyJSON(raw []byte) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case nil:
		return false
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case string:
		return len(t) > 0
	default:
		return true
	}
}

package interaction

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryCap bounds retained records per profile when running without a
// database.
const memoryCap = 200

// MemoryRecorder is the Recorder used when DATABASE_URL is not configured.
type MemoryRecorder struct {
	mu      sync.RWMutex
	records map[string][]Record
}

// NewMemoryRecorder returns an empty MemoryRecorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{records: make(map[string][]Record)}
}

// Record appends the exchange to the profile's in-memory log.
func (r *MemoryRecorder) Record(_ context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list := append(r.records[rec.ProfileID], rec)
	if len(list) > memoryCap {
		list = list[len(list)-memoryCap:]
	}
	r.records[rec.ProfileID] = list
	return nil
}

// Recent returns up to limit records for the profile, newest first.
func (r *MemoryRecorder) Recent(_ context.Context, profileID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.records[profileID]
	out := make([]Record, 0, limit)
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, list[i])
	}
	return out, nil
}

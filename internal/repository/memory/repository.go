package memory

import (
	"sync"
	"time"

	"github.com/omarshaarawi/leaguewrapped/internal/models"
)

type Repository struct {
	snapshot      *models.LeagueData
	fingerprint   uint64
	lastUpdated   time.Time
	lastPublished uint64
	mu            sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{}
}

// SaveSnapshot stores data and reports whether it differs from the
// previously stored snapshot.
func (r *Repository) SaveSnapshot(data *models.LeagueData) bool {
	fingerprint := data.Fingerprint()

	r.mu.Lock()
	defer r.mu.Unlock()
	changed := r.snapshot == nil || fingerprint != r.fingerprint
	r.snapshot = data
	r.fingerprint = fingerprint
	r.lastUpdated = time.Now()
	return changed
}

func (r *Repository) GetSnapshot() (*models.LeagueData, time.Time) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot, r.lastUpdated
}

func (r *Repository) Fingerprint() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fingerprint
}

func (r *Repository) MarkPublished(fingerprint uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastPublished = fingerprint
}

// Published reports whether a report for this fingerprint already went out.
func (r *Repository) Published(fingerprint uint64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastPublished != 0 && r.lastPublished == fingerprint
}

package listing

import (
	"sync"

	"realestate-api/models"
)

// Results holds the last-fetched set of matching properties, a loading
// flag, and an error slot. While a fetch is in flight the previous
// items stay visible (stale-while-revalidate).
//
// Every fetch is tagged with a sequence number at issuance. A
// completion is applied only when its sequence is newer than the last
// applied one, so a slow response from an earlier fetch can never
// overwrite the result of a later one.
type Results struct {
	mu      sync.Mutex
	items   []models.Property
	loading bool
	err     error
	issued  uint64
	applied uint64
}

// Begin marks a new fetch and returns its sequence number.
func (r *Results) Begin() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issued++
	r.loading = true
	return r.issued
}

// Complete records a successful fetch. It reports whether the payload
// was applied; stale completions are discarded.
func (r *Results) Complete(seq uint64, items []models.Property) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq <= r.applied {
		return false
	}
	r.applied = seq
	r.items = items
	r.err = nil
	if seq == r.issued {
		r.loading = false
	}
	return true
}

// Fail records a failed fetch. The current items are left untouched;
// only the error slot is set. Stale failures are discarded.
func (r *Results) Fail(seq uint64, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq <= r.applied {
		return false
	}
	r.applied = seq
	r.err = err
	if seq == r.issued {
		r.loading = false
	}
	return true
}

// Snapshot returns the current items, loading flag and error.
func (r *Results) Snapshot() ([]models.Property, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items, r.loading, r.err
}

package listing

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"realestate-api/models"
)

// Searcher executes a composed property query.
type Searcher interface {
	Search(ctx context.Context, f Filters, term string) ([]models.Property, error)
}

// SearcherFunc adapts a function to the Searcher interface.
type SearcherFunc func(ctx context.Context, f Filters, term string) ([]models.Property, error)

func (fn SearcherFunc) Search(ctx context.Context, f Filters, term string) ([]models.Property, error) {
	return fn(ctx, f, term)
}

// GormSearcher runs the query composer against a gorm connection.
type GormSearcher struct {
	DB *gorm.DB
}

func (s GormSearcher) Search(ctx context.Context, f Filters, term string) ([]models.Property, error) {
	var properties []models.Property
	err := f.Apply(s.DB.WithContext(ctx), term).Find(&properties).Error
	return properties, err
}

// View binds a filter set and a search term to a Searcher and the
// Results they feed. Every mutation triggers a refetch; overlapping
// fetches resolve through the Results sequence check, so the state
// always reflects the most recently issued request.
type View struct {
	mu       sync.Mutex
	filters  Filters
	term     string
	searcher Searcher
	results  Results
}

func NewView(searcher Searcher) *View {
	return &View{searcher: searcher}
}

// SetFilters merges the patch into the active filters and refetches.
func (v *View) SetFilters(ctx context.Context, p Patch) {
	v.mu.Lock()
	v.filters.Merge(p)
	v.mu.Unlock()
	v.Refresh(ctx)
}

// SetSearchTerm replaces the free-text term and refetches.
func (v *View) SetSearchTerm(ctx context.Context, term string) {
	v.mu.Lock()
	v.term = term
	v.mu.Unlock()
	v.Refresh(ctx)
}

// SetQuery applies a filter patch and the term as one transition, with
// a single refetch. Request handlers use this to avoid fetching twice.
func (v *View) SetQuery(ctx context.Context, p Patch, term string) {
	v.mu.Lock()
	v.filters.Merge(p)
	v.term = term
	v.mu.Unlock()
	v.Refresh(ctx)
}

// ResetFilters clears every constraint and refetches.
func (v *View) ResetFilters(ctx context.Context) {
	v.mu.Lock()
	v.filters.Reset()
	v.mu.Unlock()
	v.Refresh(ctx)
}

// Refresh issues a fetch for the current filters and term. The result
// is applied to the view state unless a newer fetch already landed.
func (v *View) Refresh(ctx context.Context) {
	v.mu.Lock()
	f := v.filters
	term := v.term
	v.mu.Unlock()

	seq := v.results.Begin()
	items, err := v.searcher.Search(ctx, f, term)
	if err != nil {
		v.results.Fail(seq, err)
		return
	}
	v.results.Complete(seq, items)
}

// Filters returns a copy of the active filter set.
func (v *View) Filters() Filters {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filters
}

// Snapshot returns the current results state.
func (v *View) Snapshot() ([]models.Property, bool, error) {
	return v.results.Snapshot()
}

package draft

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/debemdeboas/second-chance/internal/model"
	"github.com/debemdeboas/second-chance/internal/preview"
	"github.com/debemdeboas/second-chance/internal/sink"
)

// Repository holds drafts in memory. Every mutation of a draft happens under mu,
// so each draft sees one form event at a time. Getters return copies.
type Repository struct {
	mu     sync.Mutex
	drafts map[ID]*Draft

	previews *preview.Registry
	now      func() time.Time
}

func NewRepository(previews *preview.Registry) *Repository {
	return &Repository{
		drafts:   make(map[ID]*Draft),
		previews: previews,
		now:      time.Now,
	}
}

func (r *Repository) create() *Draft {
	d := &Draft{
		ID:          ID(uuid.New().String()),
		Fields:      Fields{Category: model.DefaultCategory()},
		LastTouched: r.now(),
	}
	r.drafts[d.ID] = d
	draftLogger.Debug().Str("draft_id", string(d.ID)).Msg("Draft created")
	return d
}

func (r *Repository) Create() *Draft {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.create().clone()
}

func (r *Repository) Get(id ID) (*Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.drafts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return d.clone(), nil
}

// GetOrCreate returns the draft with id, or a fresh one when id is unknown.
// The boolean reports whether a draft was created.
func (r *Repository) GetOrCreate(id ID) (*Draft, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d, ok := r.drafts[id]; ok && id != "" {
		d.LastTouched = r.now()
		return d.clone(), false
	}
	return r.create().clone(), true
}

func (r *Repository) Update(id ID, fields Fields) (*Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.drafts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	d.Fields = fields
	d.LastTouched = r.now()
	return d.clone(), nil
}

// SelectImages replaces the whole selection. The previous preview handles are
// released before the new ones are acquired; nothing accumulates across calls.
func (r *Repository) SelectImages(id ID, files []model.ImageFile) (*Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.drafts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	r.previews.Release(d.Previews)
	d.Images = append([]model.ImageFile(nil), files...)
	d.Previews = r.previews.Acquire(d.Images)
	d.LastTouched = r.now()

	draftLogger.Debug().
		Str("draft_id", string(id)).
		Int("images", len(d.Images)).
		Msg("Draft image selection replaced")

	return d.clone(), nil
}

// Submit validates the draft and hands it to s exactly once. A draft without
// images is rejected with ErrNoImages and s is not called. Fields are kept after
// a successful submission.
func (r *Repository) Submit(ctx context.Context, id ID, s sink.Sink) error {
	r.mu.Lock()
	d, ok := r.drafts[id]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	d.LastTouched = r.now()
	if err := d.Validate(); err != nil {
		r.mu.Unlock()
		return err
	}
	submission := d.Submission()
	r.mu.Unlock()

	if err := s.Submit(ctx, submission); err != nil {
		return fmt.Errorf("submit draft %s: %w", id, err)
	}
	return nil
}

// Discard releases the draft's previews and forgets it.
func (r *Repository) Discard(id ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.drafts[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	r.discard(d)
	return nil
}

func (r *Repository) discard(d *Draft) {
	r.previews.Release(d.Previews)
	d.Previews = nil
	d.Images = nil
	delete(r.drafts, d.ID)
}

// Sweep discards drafts untouched for longer than idle and returns how many.
func (r *Repository) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	swept := 0
	for _, d := range r.drafts {
		if d.LastTouched.Before(cutoff) {
			r.discard(d)
			swept++
		}
	}
	if swept > 0 {
		draftLogger.Info().Int("count", swept).Msg("Expired idle drafts")
	}
	return swept
}

// Run sweeps idle drafts every interval until ctx is done.
func (r *Repository) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(idle)
		}
	}
}

// Close discards every draft, releasing all preview handles.
func (r *Repository) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.drafts {
		r.discard(d)
	}
	draftLogger.Info().Msg("Draft repository closed")
}

func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.drafts)
}

package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ostvik/league-hub/internal/domain/season"
)

type SeasonRepository struct {
	mu    sync.RWMutex
	items map[string]season.Season
}

func NewSeasonRepository(seed []season.Season) *SeasonRepository {
	items := make(map[string]season.Season, len(seed))
	for _, s := range seed {
		items[s.ID] = s
	}
	return &SeasonRepository{items: items}
}

func (r *SeasonRepository) List(_ context.Context) ([]season.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]season.Season, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })

	return out, nil
}

func (r *SeasonRepository) GetByID(_ context.Context, seasonID string) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[seasonID]
	if !ok {
		return season.Season{}, false, nil
	}

	return s, true, nil
}

func (r *SeasonRepository) GetActive(_ context.Context) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	best := season.Season{}
	found := false
	for _, s := range r.items {
		if s.Status != season.StatusActive {
			continue
		}
		if !found || s.Number > best.Number {
			best = s
			found = true
		}
	}

	return best, found, nil
}

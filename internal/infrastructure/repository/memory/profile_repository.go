package memory

import (
	"context"
	"sync"

	"github.com/ostvik/league-hub/internal/domain/profile"
)

type ProfileRepository struct {
	mu    sync.RWMutex
	items map[string]profile.Profile
}

func NewProfileRepository(seed []profile.Profile) *ProfileRepository {
	items := make(map[string]profile.Profile, len(seed))
	for _, p := range seed {
		items[p.ID] = p
	}
	return &ProfileRepository{items: items}
}

func (r *ProfileRepository) GetByIDs(_ context.Context, profileIDs []string) ([]profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]profile.Profile, 0, len(profileIDs))
	for _, id := range profileIDs {
		if p, ok := r.items[id]; ok {
			out = append(out, p)
		}
	}

	return out, nil
}

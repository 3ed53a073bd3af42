package memory

import (
	"context"
	"sync"

	"github.com/ostvik/league-hub/internal/domain/squad"
)

type SquadRepository struct {
	mu    sync.RWMutex
	items map[string]squad.Squad
}

func NewSquadRepository(seed []squad.Squad) *SquadRepository {
	items := make(map[string]squad.Squad, len(seed))
	for _, s := range seed {
		items[s.ID] = s
	}
	return &SquadRepository{items: items}
}

func (r *SquadRepository) GetByIDs(_ context.Context, squadIDs []string) ([]squad.Squad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]squad.Squad, 0, len(squadIDs))
	for _, id := range squadIDs {
		if s, ok := r.items[id]; ok {
			out = append(out, s)
		}
	}

	return out, nil
}

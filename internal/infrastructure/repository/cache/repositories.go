package cache

import (
	"context"
	"sort"
	"strings"

	"github.com/ostvik/league-hub/internal/domain/profile"
	"github.com/ostvik/league-hub/internal/domain/rosterlock"
	"github.com/ostvik/league-hub/internal/domain/season"
	"github.com/ostvik/league-hub/internal/domain/squad"
	basecache "github.com/ostvik/league-hub/internal/platform/cache"
)

type SeasonRepository struct {
	next  season.Repository
	cache *basecache.Store
}

func NewSeasonRepository(next season.Repository, cache *basecache.Store) *SeasonRepository {
	return &SeasonRepository{next: next, cache: cache}
}

func (r *SeasonRepository) List(ctx context.Context) ([]season.Season, error) {
	v, err := r.cache.GetOrLoad(ctx, "season:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]season.Season(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]season.Season)
	return append([]season.Season(nil), items...), nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID string) (season.Season, bool, error) {
	key := "season:id:" + seasonID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return cachedSeason{value: item, exists: exists}, nil
	})
	if err != nil {
		return season.Season{}, false, err
	}

	cached, _ := v.(cachedSeason)
	return cached.value, cached.exists, nil
}

func (r *SeasonRepository) GetActive(ctx context.Context) (season.Season, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, "season:active", func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetActive(ctx)
		if err != nil {
			return nil, err
		}
		return cachedSeason{value: item, exists: exists}, nil
	})
	if err != nil {
		return season.Season{}, false, err
	}

	cached, _ := v.(cachedSeason)
	return cached.value, cached.exists, nil
}

type cachedSeason struct {
	value  season.Season
	exists bool
}

// RosterLockRepository caches the per-season current record, the hot
// read behind every invite mutation. Writes pass through and invalidate
// before returning, so a toggle is visible to the next status check.
type RosterLockRepository struct {
	next  rosterlock.Repository
	cache *basecache.Store
}

func NewRosterLockRepository(next rosterlock.Repository, cache *basecache.Store) *RosterLockRepository {
	return &RosterLockRepository{next: next, cache: cache}
}

func (r *RosterLockRepository) GetCurrent(ctx context.Context, seasonID string) (rosterlock.Record, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, rosterLockCurrentKey(seasonID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetCurrent(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return cachedRosterLock{value: item, exists: exists}, nil
	})
	if err != nil {
		return rosterlock.Record{}, false, err
	}

	cached, _ := v.(cachedRosterLock)
	return cached.value, cached.exists, nil
}

// AppendAndSupersede writes through and drops the season's cached
// entries. The drop runs when the write returns, which inside an open
// transaction is before commit; a read racing the commit can re-cache
// the superseded record for at most one TTL.
func (r *RosterLockRepository) AppendAndSupersede(ctx context.Context, rec rosterlock.Record, expectedCurrentID string) (rosterlock.Record, error) {
	out, err := r.next.AppendAndSupersede(ctx, rec, expectedCurrentID)
	if err != nil {
		return rosterlock.Record{}, err
	}

	r.cache.Delete(ctx, rosterLockCurrentKey(rec.SeasonID))
	r.cache.Delete(ctx, rosterLockHistoryKey(rec.SeasonID))
	return out, nil
}

func (r *RosterLockRepository) ListBySeason(ctx context.Context, seasonID string) ([]rosterlock.Record, error) {
	v, err := r.cache.GetOrLoad(ctx, rosterLockHistoryKey(seasonID), func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySeason(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return append([]rosterlock.Record(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]rosterlock.Record)
	return append([]rosterlock.Record(nil), items...), nil
}

type cachedRosterLock struct {
	value  rosterlock.Record
	exists bool
}

func rosterLockCurrentKey(seasonID string) string {
	return "roster-lock:current:" + seasonID
}

func rosterLockHistoryKey(seasonID string) string {
	return "roster-lock:history:" + seasonID
}

type SquadRepository struct {
	next  squad.Repository
	cache *basecache.Store
}

func NewSquadRepository(next squad.Repository, cache *basecache.Store) *SquadRepository {
	return &SquadRepository{next: next, cache: cache}
}

func (r *SquadRepository) GetByIDs(ctx context.Context, squadIDs []string) ([]squad.Squad, error) {
	ids := append([]string(nil), squadIDs...)
	sort.Strings(ids)
	key := "squad:ids:" + strings.Join(ids, ",")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.GetByIDs(ctx, squadIDs)
		if err != nil {
			return nil, err
		}
		return append([]squad.Squad(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]squad.Squad)
	return append([]squad.Squad(nil), items...), nil
}

type ProfileRepository struct {
	next  profile.Repository
	cache *basecache.Store
}

func NewProfileRepository(next profile.Repository, cache *basecache.Store) *ProfileRepository {
	return &ProfileRepository{next: next, cache: cache}
}

func (r *ProfileRepository) GetByIDs(ctx context.Context, profileIDs []string) ([]profile.Profile, error) {
	ids := append([]string(nil), profileIDs...)
	sort.Strings(ids)
	key := "profile:ids:" + strings.Join(ids, ",")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.GetByIDs(ctx, profileIDs)
		if err != nil {
			return nil, err
		}
		return append([]profile.Profile(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]profile.Profile)
	return append([]profile.Profile(nil), items...), nil
}

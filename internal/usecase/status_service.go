package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ostvik/league-hub/internal/domain/invite"
	"github.com/ostvik/league-hub/internal/domain/profile"
	"github.com/ostvik/league-hub/internal/domain/rosterlock"
	"github.com/ostvik/league-hub/internal/domain/season"
	"github.com/ostvik/league-hub/internal/domain/squad"
	"github.com/ostvik/league-hub/internal/platform/logging"
)

// LockStatus is the read model served to banners and collaborators.
type LockStatus struct {
	IsLocked       bool
	Reason         string
	SeasonID       string
	SeasonNumber   int
	SeasonName     string
	Label          string
	LockedAt       *time.Time
	NoActiveSeason bool
}

// PendingInviteSummary is one row of the pending-invite overview shown
// next to the lock controls.
type PendingInviteSummary struct {
	InviteID    string
	SquadName   string
	SquadTag    string
	PlayerAlias string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// LockStatusService is the read-only facade consulted by the
// invite-creation and invite-acceptance flows before any roster change.
type LockStatusService struct {
	seasonRepo  season.Repository
	lockRepo    rosterlock.Repository
	inviteRepo  invite.Repository
	squadRepo   squad.Repository
	profileRepo profile.Repository
	logger      *logging.Logger
	now         func() time.Time
}

func NewLockStatusService(
	seasonRepo season.Repository,
	lockRepo rosterlock.Repository,
	inviteRepo invite.Repository,
	squadRepo squad.Repository,
	profileRepo profile.Repository,
	logger *logging.Logger,
) *LockStatusService {
	if logger == nil {
		logger = logging.Default()
	}

	return &LockStatusService{
		seasonRepo:  seasonRepo,
		lockRepo:    lockRepo,
		inviteRepo:  inviteRepo,
		squadRepo:   squadRepo,
		profileRepo: profileRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// IsLocked reports the effective lock state for a season. A season with
// no ledger entry is unlocked by default. An empty seasonID checks the
// active season, which is what invite flows use.
func (s *LockStatusService) IsLocked(ctx context.Context, seasonID string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LockStatusService.IsLocked")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		active, exists, err := s.seasonRepo.GetActive(ctx)
		if err != nil {
			return false, fmt.Errorf("get active season: %w", err)
		}
		if !exists {
			return false, nil
		}
		seasonID = active.ID
	}

	current, exists, err := s.lockRepo.GetCurrent(ctx, seasonID)
	if err != nil {
		return false, fmt.Errorf("get current lock record: %w", err)
	}
	if !exists {
		return false, nil
	}

	return current.IsLocked, nil
}

// GetStatus returns the display status for a season, falling back to the
// active season when seasonID is empty.
func (s *LockStatusService) GetStatus(ctx context.Context, seasonID string) (LockStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LockStatusService.GetStatus")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)

	var target season.Season
	if seasonID == "" {
		active, exists, err := s.seasonRepo.GetActive(ctx)
		if err != nil {
			return LockStatus{}, fmt.Errorf("get active season: %w", err)
		}
		if !exists {
			return LockStatus{NoActiveSeason: true, Label: "No active season"}, nil
		}
		target = active
	} else {
		found, exists, err := s.seasonRepo.GetByID(ctx, seasonID)
		if err != nil {
			return LockStatus{}, fmt.Errorf("get season by id: %w", err)
		}
		if !exists {
			return LockStatus{}, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
		}
		target = found
	}

	status := LockStatus{
		SeasonID:     target.ID,
		SeasonNumber: target.Number,
		SeasonName:   target.Name,
		Label:        target.Label(),
	}

	current, exists, err := s.lockRepo.GetCurrent(ctx, target.ID)
	if err != nil {
		return LockStatus{}, fmt.Errorf("get current lock record: %w", err)
	}
	if !exists {
		return status, nil
	}

	status.IsLocked = current.IsLocked
	status.Reason = current.Reason
	status.LockedAt = current.LockedAt

	return status, nil
}

// ListSeasons returns every season, newest first, for the season picker.
func (s *LockStatusService) ListSeasons(ctx context.Context) ([]season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LockStatusService.ListSeasons")
	defer span.End()

	seasons, err := s.seasonRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}

	return seasons, nil
}

// History returns the full ledger for the audit display, newest first.
// Superseded records are immutable, so the slice is safe to cache.
func (s *LockStatusService) History(ctx context.Context, seasonID string) ([]rosterlock.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LockStatusService.History")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	if _, exists, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return nil, fmt.Errorf("get season by id: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}

	records, err := s.lockRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list lock records: %w", err)
	}

	return records, nil
}

// PendingInvites expires stale invites first, then returns the remaining
// pending ones joined with squad and player display names.
func (s *LockStatusService) PendingInvites(ctx context.Context) ([]PendingInviteSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LockStatusService.PendingInvites")
	defer span.End()

	expired, err := s.inviteRepo.ExpireStale(ctx, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("expire stale invites: %w", err)
	}
	if expired > 0 {
		s.logger.InfoContext(ctx, "expired stale invites before summary", "count", expired)
	}

	pending, err := s.inviteRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending invites: %w", err)
	}
	if len(pending) == 0 {
		return nil, nil
	}

	squadIDs := make([]string, 0, len(pending))
	playerIDs := make([]string, 0, len(pending))
	seenSquads := make(map[string]struct{}, len(pending))
	seenPlayers := make(map[string]struct{}, len(pending))
	for _, inv := range pending {
		if _, ok := seenSquads[inv.SquadID]; !ok {
			seenSquads[inv.SquadID] = struct{}{}
			squadIDs = append(squadIDs, inv.SquadID)
		}
		if _, ok := seenPlayers[inv.InvitedPlayerID]; !ok {
			seenPlayers[inv.InvitedPlayerID] = struct{}{}
			playerIDs = append(playerIDs, inv.InvitedPlayerID)
		}
	}

	squads, err := s.squadRepo.GetByIDs(ctx, squadIDs)
	if err != nil {
		return nil, fmt.Errorf("get squads by ids: %w", err)
	}
	profiles, err := s.profileRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("get profiles by ids: %w", err)
	}

	squadByID := make(map[string]squad.Squad, len(squads))
	for _, sq := range squads {
		squadByID[sq.ID] = sq
	}
	profileByID := make(map[string]profile.Profile, len(profiles))
	for _, p := range profiles {
		profileByID[p.ID] = p
	}

	out := make([]PendingInviteSummary, 0, len(pending))
	for _, inv := range pending {
		row := PendingInviteSummary{
			InviteID:    inv.ID,
			SquadName:   "Unknown Squad",
			SquadTag:    "???",
			PlayerAlias: "Unknown Player",
			CreatedAt:   inv.CreatedAt,
			ExpiresAt:   inv.ExpiresAt,
		}
		if sq, ok := squadByID[inv.SquadID]; ok {
			row.SquadName = sq.Name
			row.SquadTag = sq.Tag
		}
		if p, ok := profileByID[inv.InvitedPlayerID]; ok {
			row.PlayerAlias = p.Alias
		}
		out = append(out, row)
	}

	return out, nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ostvik/league-hub/internal/domain/invite"
	"github.com/ostvik/league-hub/internal/domain/rosterlock"
	"github.com/ostvik/league-hub/internal/domain/season"
	idgen "github.com/ostvik/league-hub/internal/platform/id"
	"github.com/ostvik/league-hub/internal/platform/logging"
)

// TxManager runs a function as one atomic unit against the store. The
// lock-history append and the invite cascade commit together or not at
// all; readers never see one without the other.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// ActorAuthorizer is the delegated permission gate for lock toggles.
type ActorAuthorizer interface {
	CanManageRosterLocks(ctx context.Context, actorID string) (bool, error)
}

// SetLockInput is the incoming payload for a lock or unlock transition.
type SetLockInput struct {
	SeasonID string
	Locked   bool
	Reason   string
	ActorID  string
}

type SetLockResult struct {
	Record           rosterlock.Record
	CancelledInvites int64
}

type LockService struct {
	seasonRepo season.Repository
	lockRepo   rosterlock.Repository
	inviteRepo invite.Repository
	tx         TxManager
	authorizer ActorAuthorizer
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewLockService(
	seasonRepo season.Repository,
	lockRepo rosterlock.Repository,
	inviteRepo invite.Repository,
	tx TxManager,
	authorizer ActorAuthorizer,
	idGen idgen.Generator,
	logger *logging.Logger,
) *LockService {
	if logger == nil {
		logger = logging.Default()
	}

	return &LockService{
		seasonRepo: seasonRepo,
		lockRepo:   lockRepo,
		inviteRepo: inviteRepo,
		tx:         tx,
		authorizer: authorizer,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// SetLock appends a new current ledger record for the season and, when
// locking, cancels every pending invite in the same transaction.
// Re-locking an already locked season (or re-unlocking) is permitted and
// simply appends a fresh record with the new reason.
func (s *LockService) SetLock(ctx context.Context, input SetLockInput) (SetLockResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LockService.SetLock")
	defer span.End()

	input.SeasonID = strings.TrimSpace(input.SeasonID)
	input.Reason = strings.TrimSpace(input.Reason)
	input.ActorID = strings.TrimSpace(input.ActorID)

	if input.SeasonID == "" {
		return SetLockResult{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if input.Reason == "" {
		return SetLockResult{}, fmt.Errorf("%w: a reason is required for every lock change", ErrInvalidInput)
	}
	if input.ActorID == "" {
		return SetLockResult{}, fmt.Errorf("%w: actor id is required", ErrInvalidInput)
	}

	if _, exists, err := s.seasonRepo.GetByID(ctx, input.SeasonID); err != nil {
		return SetLockResult{}, fmt.Errorf("get season by id: %w", err)
	} else if !exists {
		return SetLockResult{}, fmt.Errorf("%w: season=%s", ErrNotFound, input.SeasonID)
	}

	allowed, err := s.authorizer.CanManageRosterLocks(ctx, input.ActorID)
	if err != nil {
		return SetLockResult{}, fmt.Errorf("authorize actor: %w", err)
	}
	if !allowed {
		return SetLockResult{}, fmt.Errorf("%w: actor=%s may not manage roster locks", ErrUnauthorized, input.ActorID)
	}

	current, hasCurrent, err := s.lockRepo.GetCurrent(ctx, input.SeasonID)
	if err != nil {
		return SetLockResult{}, fmt.Errorf("get current lock record: %w", err)
	}

	recordID, err := s.idGen.NewID()
	if err != nil {
		return SetLockResult{}, fmt.Errorf("generate record id: %w", err)
	}

	now := s.now().UTC()
	rec := rosterlock.Record{
		ID:        recordID,
		SeasonID:  input.SeasonID,
		IsLocked:  input.Locked,
		ActorID:   input.ActorID,
		Reason:    input.Reason,
		IsCurrent: true,
	}
	// The timestamp for the requested direction is set to now; the
	// opposite one carries over from the superseded record so the pair
	// always describes the season's last lock and last unlock.
	if input.Locked {
		rec.LockedAt = &now
		if hasCurrent {
			rec.UnlockedAt = current.UnlockedAt
		}
	} else {
		rec.UnlockedAt = &now
		if hasCurrent {
			rec.LockedAt = current.LockedAt
		}
	}

	if err := rec.Validate(); err != nil {
		return SetLockResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	expectedCurrentID := ""
	if hasCurrent {
		expectedCurrentID = current.ID
	}

	var (
		appended  rosterlock.Record
		cancelled int64
	)
	err = s.tx.Do(ctx, func(ctx context.Context) error {
		if input.Locked {
			n, cancelErr := s.inviteRepo.CancelAllPending(ctx)
			if cancelErr != nil {
				return fmt.Errorf("%w: cancel pending invites: %v", ErrCascadeFailure, cancelErr)
			}
			cancelled = n
		}

		out, appendErr := s.lockRepo.AppendAndSupersede(ctx, rec, expectedCurrentID)
		if appendErr != nil {
			if errors.Is(appendErr, rosterlock.ErrConcurrentModification) {
				return fmt.Errorf("%w: lock state changed underneath this toggle, re-fetch and retry", ErrConflict)
			}
			return fmt.Errorf("append roster lock record: %w", appendErr)
		}
		appended = out

		return nil
	})
	if err != nil {
		return SetLockResult{}, err
	}

	s.logger.InfoContext(ctx, "roster lock toggled",
		"season_id", input.SeasonID,
		"locked", input.Locked,
		"actor_id", input.ActorID,
		"cancelled_invites", cancelled,
	)

	return SetLockResult{Record: appended, CancelledInvites: cancelled}, nil
}

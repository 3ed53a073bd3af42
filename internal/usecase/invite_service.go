package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ostvik/league-hub/internal/domain/invite"
	idgen "github.com/ostvik/league-hub/internal/platform/id"
	"github.com/ostvik/league-hub/internal/platform/logging"
)

// LockChecker is the slice of the status service that invite flows
// consult before allowing a roster change. An empty season id means
// "the active season".
type LockChecker interface {
	IsLocked(ctx context.Context, seasonID string) (bool, error)
}

// CreateInviteInput is the incoming payload for a new squad invite.
type CreateInviteInput struct {
	SquadID         string
	InvitedPlayerID string
	InvitedByID     string
	Message         string
}

type InviteService struct {
	inviteRepo invite.Repository
	lockCheck  LockChecker
	idGen      idgen.Generator
	inviteTTL  time.Duration
	logger     *logging.Logger
	now        func() time.Time
}

func NewInviteService(
	inviteRepo invite.Repository,
	lockCheck LockChecker,
	idGen idgen.Generator,
	inviteTTL time.Duration,
	logger *logging.Logger,
) *InviteService {
	if inviteTTL <= 0 {
		inviteTTL = 7 * 24 * time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &InviteService{
		inviteRepo: inviteRepo,
		lockCheck:  lockCheck,
		idGen:      idGen,
		inviteTTL:  inviteTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Create issues a pending invite. The roster lock check happens
// immediately before the insert; a lock imposed after this call is
// handled by the cascade, which cancels the invite.
func (s *InviteService) Create(ctx context.Context, input CreateInviteInput) (invite.Invite, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InviteService.Create")
	defer span.End()

	input.SquadID = strings.TrimSpace(input.SquadID)
	input.InvitedPlayerID = strings.TrimSpace(input.InvitedPlayerID)
	input.InvitedByID = strings.TrimSpace(input.InvitedByID)

	if input.SquadID == "" {
		return invite.Invite{}, fmt.Errorf("%w: squad id is required", ErrInvalidInput)
	}
	if input.InvitedPlayerID == "" {
		return invite.Invite{}, fmt.Errorf("%w: invited player id is required", ErrInvalidInput)
	}
	if input.InvitedByID == "" {
		return invite.Invite{}, fmt.Errorf("%w: inviter id is required", ErrInvalidInput)
	}

	locked, err := s.lockCheck.IsLocked(ctx, "")
	if err != nil {
		return invite.Invite{}, fmt.Errorf("check roster lock: %w", err)
	}
	if locked {
		return invite.Invite{}, fmt.Errorf("%w: squad invitations are disabled during the roster freeze", ErrRosterLocked)
	}

	inviteID, err := s.idGen.NewID()
	if err != nil {
		return invite.Invite{}, fmt.Errorf("generate invite id: %w", err)
	}

	now := s.now().UTC()
	inv := invite.Invite{
		ID:              inviteID,
		SquadID:         input.SquadID,
		InvitedPlayerID: input.InvitedPlayerID,
		InvitedByID:     input.InvitedByID,
		Message:         strings.TrimSpace(input.Message),
		Status:          invite.StatusPending,
		CreatedAt:       now,
		ExpiresAt:       now.Add(s.inviteTTL),
	}

	if err := inv.Validate(); err != nil {
		return invite.Invite{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.inviteRepo.Create(ctx, inv); err != nil {
		return invite.Invite{}, fmt.Errorf("create invite: %w", err)
	}

	s.logger.InfoContext(ctx, "squad invite created",
		"invite_id", inv.ID,
		"squad_id", inv.SquadID,
		"invited_player_id", inv.InvitedPlayerID,
	)

	return inv, nil
}

// Accept finalizes an invite for the invited player. The lock check is
// repeated here because a freeze may land between creation and
// acceptance.
func (s *InviteService) Accept(ctx context.Context, inviteID, playerID string) (invite.Invite, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InviteService.Accept")
	defer span.End()

	inv, err := s.getOwnPending(ctx, inviteID, playerID)
	if err != nil {
		return invite.Invite{}, err
	}

	locked, err := s.lockCheck.IsLocked(ctx, "")
	if err != nil {
		return invite.Invite{}, fmt.Errorf("check roster lock: %w", err)
	}
	if locked {
		return invite.Invite{}, fmt.Errorf("%w: invites cannot be accepted during the roster freeze", ErrRosterLocked)
	}

	if inv.ExpiresAt.Before(s.now().UTC()) {
		// Expire it now rather than waiting for the sweeper.
		if _, err := s.inviteRepo.TransitionStatus(ctx, inv.ID, invite.StatusPending, invite.StatusExpired); err != nil {
			return invite.Invite{}, fmt.Errorf("expire overdue invite: %w", err)
		}
		return invite.Invite{}, fmt.Errorf("%w: invite has expired", ErrInvalidInput)
	}

	moved, err := s.inviteRepo.TransitionStatus(ctx, inv.ID, invite.StatusPending, invite.StatusAccepted)
	if err != nil {
		return invite.Invite{}, fmt.Errorf("accept invite: %w", err)
	}
	if !moved {
		return invite.Invite{}, fmt.Errorf("%w: invite is no longer pending", ErrConflict)
	}

	inv.Status = invite.StatusAccepted
	s.logger.InfoContext(ctx, "squad invite accepted", "invite_id", inv.ID, "player_id", playerID)

	return inv, nil
}

// Decline needs no lock check; turning an invite down never changes a
// roster.
func (s *InviteService) Decline(ctx context.Context, inviteID, playerID string) (invite.Invite, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InviteService.Decline")
	defer span.End()

	inv, err := s.getOwnPending(ctx, inviteID, playerID)
	if err != nil {
		return invite.Invite{}, err
	}

	moved, err := s.inviteRepo.TransitionStatus(ctx, inv.ID, invite.StatusPending, invite.StatusDeclined)
	if err != nil {
		return invite.Invite{}, fmt.Errorf("decline invite: %w", err)
	}
	if !moved {
		return invite.Invite{}, fmt.Errorf("%w: invite is no longer pending", ErrConflict)
	}

	inv.Status = invite.StatusDeclined
	s.logger.InfoContext(ctx, "squad invite declined", "invite_id", inv.ID, "player_id", playerID)

	return inv, nil
}

// ListForPlayer sweeps stale invites first, then returns the player's
// live pending invites.
func (s *InviteService) ListForPlayer(ctx context.Context, playerID string) ([]invite.Invite, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InviteService.ListForPlayer")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	if _, err := s.inviteRepo.ExpireStale(ctx, now); err != nil {
		return nil, fmt.Errorf("expire stale invites: %w", err)
	}

	invites, err := s.inviteRepo.ListPendingByPlayer(ctx, playerID, now)
	if err != nil {
		return nil, fmt.Errorf("list pending invites: %w", err)
	}

	return invites, nil
}

// ExpireStale is the sweeper entry point; safe to call from a timer, a
// scheduler callback, or opportunistically before reads.
func (s *InviteService) ExpireStale(ctx context.Context) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InviteService.ExpireStale")
	defer span.End()

	count, err := s.inviteRepo.ExpireStale(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("expire stale invites: %w", err)
	}
	if count > 0 {
		s.logger.InfoContext(ctx, "stale invites expired", "count", count)
	}

	return count, nil
}

func (s *InviteService) getOwnPending(ctx context.Context, inviteID, playerID string) (invite.Invite, error) {
	inviteID = strings.TrimSpace(inviteID)
	playerID = strings.TrimSpace(playerID)
	if inviteID == "" || playerID == "" {
		return invite.Invite{}, fmt.Errorf("%w: invite id and player id are required", ErrInvalidInput)
	}

	inv, exists, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		return invite.Invite{}, fmt.Errorf("get invite: %w", err)
	}
	if !exists || inv.InvitedPlayerID != playerID {
		return invite.Invite{}, fmt.Errorf("%w: invite not found", ErrNotFound)
	}
	if inv.Status.IsTerminal() {
		return invite.Invite{}, fmt.Errorf("%w: invite is already %s", ErrConflict, inv.Status)
	}

	return inv, nil
}

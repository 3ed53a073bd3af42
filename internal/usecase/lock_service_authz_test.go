package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/ostvik/league-hub/internal/infrastructure/repository/memory"
	"github.com/ostvik/league-hub/internal/platform/logging"
)

type authorizerMock struct {
	mock.Mock
}

func (m *authorizerMock) CanManageRosterLocks(ctx context.Context, actorID string) (bool, error) {
	args := m.Called(ctx, actorID)
	return args.Bool(0), args.Error(1)
}

func TestLockService_SetLock_AuthorizerErrors(t *testing.T) {
	authorizer := &authorizerMock{}
	service := NewLockService(
		memory.NewSeasonRepository(memory.SeedSeasons()),
		memory.NewRosterLockRepository(),
		memory.NewSquadInviteRepository(),
		memory.NewTxManager(),
		authorizer,
		&sequenceIDGenerator{},
		logging.NewNop(),
	)

	input := SetLockInput{
		SeasonID: memory.SeasonIDSpring2026,
		Locked:   true,
		Reason:   "freeze",
		ActorID:  "admin-1",
	}

	authorizer.
		On("CanManageRosterLocks", mock.Anything, "admin-1").
		Return(false, ErrDependencyUnavailable).
		Once()

	if _, err := service.SetLock(t.Context(), input); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected upstream unavailability to surface, got %v", err)
	}

	authorizer.
		On("CanManageRosterLocks", mock.Anything, "admin-1").
		Return(false, nil).
		Once()

	if _, err := service.SetLock(t.Context(), input); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	authorizer.AssertExpectations(t)
}

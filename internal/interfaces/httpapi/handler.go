package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ostvik/league-hub/internal/domain/invite"
	"github.com/ostvik/league-hub/internal/domain/rosterlock"
	"github.com/ostvik/league-hub/internal/domain/season"
	"github.com/ostvik/league-hub/internal/platform/logging"
	"github.com/ostvik/league-hub/internal/usecase"
)

type Handler struct {
	lockService        *usecase.LockService
	statusService      *usecase.LockStatusService
	inviteService      *usecase.InviteService
	maintenanceService *usecase.MaintenanceService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	lockService *usecase.LockService,
	statusService *usecase.LockStatusService,
	inviteService *usecase.InviteService,
	maintenanceService *usecase.MaintenanceService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		lockService:        lockService,
		statusService:      statusService,
		inviteService:      inviteService,
		maintenanceService: maintenanceService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasons")
	defer span.End()

	seasons, err := h.statusService.ListSeasons(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list seasons failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]seasonDTO, 0, len(seasons))
	for _, s := range seasons {
		items = append(items, seasonToDTO(s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type seasonDTO struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Label  string `json:"label"`
}

func seasonToDTO(s season.Season) seasonDTO {
	return seasonDTO{
		ID:     s.ID,
		Number: s.Number,
		Name:   s.Name,
		Status: string(s.Status),
		Label:  s.Label(),
	}
}

type rosterLockStatusDTO struct {
	IsLocked       bool       `json:"is_locked"`
	Reason         string     `json:"reason,omitempty"`
	SeasonID       string     `json:"season_id,omitempty"`
	SeasonNumber   int        `json:"season_number,omitempty"`
	SeasonName     string     `json:"season_name,omitempty"`
	Label          string     `json:"label"`
	LockedAt       *time.Time `json:"locked_at,omitempty"`
	NoActiveSeason bool       `json:"no_active_season,omitempty"`
}

func lockStatusToDTO(s usecase.LockStatus) rosterLockStatusDTO {
	return rosterLockStatusDTO{
		IsLocked:       s.IsLocked,
		Reason:         s.Reason,
		SeasonID:       s.SeasonID,
		SeasonNumber:   s.SeasonNumber,
		SeasonName:     s.SeasonName,
		Label:          s.Label,
		LockedAt:       s.LockedAt,
		NoActiveSeason: s.NoActiveSeason,
	}
}

type rosterLockRecordDTO struct {
	ID         string     `json:"id"`
	SeasonID   string     `json:"season_id"`
	IsLocked   bool       `json:"is_locked"`
	LockedAt   *time.Time `json:"locked_at,omitempty"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
	ActorID    string     `json:"actor_id"`
	Reason     string     `json:"reason"`
	IsCurrent  bool       `json:"is_current"`
	CreatedAt  time.Time  `json:"created_at"`
}

func lockRecordToDTO(rec rosterlock.Record) rosterLockRecordDTO {
	return rosterLockRecordDTO{
		ID:         rec.ID,
		SeasonID:   rec.SeasonID,
		IsLocked:   rec.IsLocked,
		LockedAt:   rec.LockedAt,
		UnlockedAt: rec.UnlockedAt,
		ActorID:    rec.ActorID,
		Reason:     rec.Reason,
		IsCurrent:  rec.IsCurrent,
		CreatedAt:  rec.CreatedAt,
	}
}

type inviteDTO struct {
	ID              string    `json:"id"`
	SquadID         string    `json:"squad_id"`
	InvitedPlayerID string    `json:"invited_player_id"`
	InvitedByID     string    `json:"invited_by_id"`
	Message         string    `json:"message,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

func inviteToDTO(inv invite.Invite) inviteDTO {
	return inviteDTO{
		ID:              inv.ID,
		SquadID:         inv.SquadID,
		InvitedPlayerID: inv.InvitedPlayerID,
		InvitedByID:     inv.InvitedByID,
		Message:         inv.Message,
		Status:          string(inv.Status),
		CreatedAt:       inv.CreatedAt,
		ExpiresAt:       inv.ExpiresAt,
	}
}

type pendingInviteSummaryDTO struct {
	InviteID    string    `json:"invite_id"`
	SquadName   string    `json:"squad_name"`
	SquadTag    string    `json:"squad_tag"`
	PlayerAlias string    `json:"player_alias"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func pendingSummaryToDTO(row usecase.PendingInviteSummary) pendingInviteSummaryDTO {
	return pendingInviteSummaryDTO{
		InviteID:    row.InviteID,
		SquadName:   row.SquadName,
		SquadTag:    row.SquadTag,
		PlayerAlias: row.PlayerAlias,
		CreatedAt:   row.CreatedAt,
		ExpiresAt:   row.ExpiresAt,
	}
}

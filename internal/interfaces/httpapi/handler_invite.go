package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/ostvik/league-hub/internal/usecase"
)

type createInviteRequest struct {
	SquadID         string `json:"squad_id" validate:"required"`
	InvitedPlayerID string `json:"invited_player_id" validate:"required"`
	Message         string `json:"message" validate:"max=500"`
}

func (h *Handler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateInvite")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createInviteRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	inv, err := h.inviteService.Create(ctx, usecase.CreateInviteInput{
		SquadID:         req.SquadID,
		InvitedPlayerID: req.InvitedPlayerID,
		InvitedByID:     principal.UserID,
		Message:         req.Message,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create invite failed",
			"squad_id", req.SquadID,
			"invited_player_id", req.InvitedPlayerID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, inviteToDTO(inv))
}

func (h *Handler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcceptInvite")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	inviteID := r.PathValue("inviteID")
	inv, err := h.inviteService.Accept(ctx, inviteID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "accept invite failed", "invite_id", inviteID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, inviteToDTO(inv))
}

func (h *Handler) DeclineInvite(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeclineInvite")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	inviteID := r.PathValue("inviteID")
	inv, err := h.inviteService.Decline(ctx, inviteID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "decline invite failed", "invite_id", inviteID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, inviteToDTO(inv))
}

func (h *Handler) ListMyInvites(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyInvites")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	invites, err := h.inviteService.ListForPlayer(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list my invites failed", "player_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]inviteDTO, 0, len(invites))
	for _, inv := range invites {
		items = append(items, inviteToDTO(inv))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListPendingInvites(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPendingInvites")
	defer span.End()

	rows, err := h.statusService.PendingInvites(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list pending invites failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]pendingInviteSummaryDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, pendingSummaryToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

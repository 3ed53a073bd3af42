package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/ostvik/league-hub/internal/usecase"
)

func (h *Handler) GetActiveRosterLockStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetActiveRosterLockStatus")
	defer span.End()

	status, err := h.statusService.GetStatus(ctx, "")
	if err != nil {
		h.logger.ErrorContext(ctx, "get active roster lock status failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lockStatusToDTO(status))
}

func (h *Handler) GetSeasonRosterLockStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonRosterLockStatus")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	status, err := h.statusService.GetStatus(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "get season roster lock status failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lockStatusToDTO(status))
}

func (h *Handler) ListRosterLockHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRosterLockHistory")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	records, err := h.statusService.History(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list roster lock history failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]rosterLockRecordDTO, 0, len(records))
	for _, rec := range records {
		items = append(items, lockRecordToDTO(rec))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type setRosterLockRequest struct {
	Locked bool   `json:"locked"`
	Reason string `json:"reason" validate:"required,max=500"`
}

type setRosterLockResponse struct {
	Record           rosterLockRecordDTO `json:"record"`
	CancelledInvites int64               `json:"cancelled_invites"`
}

func (h *Handler) SetSeasonRosterLock(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetSeasonRosterLock")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req setRosterLockRequest
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

	seasonID := r.PathValue("seasonID")
	result, err := h.lockService.SetLock(ctx, usecase.SetLockInput{
		SeasonID: seasonID,
		Locked:   req.Locked,
		Reason:   req.Reason,
		ActorID:  principal.UserID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "set roster lock failed",
			"season_id", seasonID,
			"locked", req.Locked,
			"actor_id", principal.UserID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, setRosterLockResponse{
		Record:           lockRecordToDTO(result.Record),
		CancelledInvites: result.CancelledInvites,
	})
}

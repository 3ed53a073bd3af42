package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/ostvik/league-hub/internal/usecase"
)

func (h *Handler) RunExpireInvitesJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunExpireInvitesJob")
	defer span.End()

	expired, err := h.inviteService.ExpireStale(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "expire invites job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int64{"expired": expired})
}

type reconcileJobRequest struct {
	MaxWorkers int `json:"max_workers" validate:"min=0,max=64"`
}

func (h *Handler) RunReconcileJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunReconcileJob")
	defer span.End()

	var req reconcileJobRequest
	if r.Body != nil && r.ContentLength != 0 {
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
	}

	result, err := h.maintenanceService.Reconcile(ctx, usecase.ReconcileInput{
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "reconcile job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/seasons", handler.ListSeasons)
	mux.HandleFunc("GET /v1/roster-lock", handler.GetActiveRosterLockStatus)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/roster-lock", handler.GetSeasonRosterLockStatus)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/roster-lock/history", handler.ListRosterLockHistory)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("PUT /v1/seasons/{seasonID}/roster-lock", RequireAuth(verifier, http.HandlerFunc(handler.SetSeasonRosterLock)))
	mux.Handle("GET /v1/invites/pending", RequireAuth(verifier, http.HandlerFunc(handler.ListPendingInvites)))
	mux.Handle("GET /v1/invites/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyInvites)))
	mux.Handle("POST /v1/invites", RequireAuth(verifier, http.HandlerFunc(handler.CreateInvite)))
	mux.Handle("POST /v1/invites/{inviteID}/accept", RequireAuth(verifier, http.HandlerFunc(handler.AcceptInvite)))
	mux.Handle("POST /v1/invites/{inviteID}/decline", RequireAuth(verifier, http.HandlerFunc(handler.DeclineInvite)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/expire-invites", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunExpireInvitesJob)))
	mux.Handle("POST /v1/internal/jobs/reconcile", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunReconcileJob)))
}

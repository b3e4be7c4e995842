package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/jigyasu-kalyan/cp-nexus/internal/api/middleware"
	"github.com/jigyasu-kalyan/cp-nexus/internal/app/service"
	"github.com/jigyasu-kalyan/cp-nexus/internal/common"
	"github.com/jigyasu-kalyan/cp-nexus/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ProfileHandler struct {
	profileService *service.ProfileService
	syncService    *service.SyncService
}

func NewProfileHandler(ps *service.ProfileService, ss *service.SyncService) *ProfileHandler {
	return &ProfileHandler{profileService: ps, syncService: ss}
}

func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator) // All profile routes require auth
	r.Post("/link", h.link)
	r.Post("/sync", h.sync)
	r.Delete("/{platform}", h.unlink)
}

func (h *ProfileHandler) link(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.LinkProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	profile, err := h.profileService.Link(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, profile)
}

type syncRequest struct {
	Platform model.Platform `json:"platform"`
}

// sync runs inline with the request; the caller blocks until the profile's
// history has been pulled and persisted.
func (h *ProfileHandler) sync(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	// Body is optional; an empty request syncs the default platform.
	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if req.Platform == "" {
		req.Platform = model.PlatformCodeforces
	}

	// Sync requires an existing link; it never creates one.
	profile, err := h.profileService.Get(r.Context(), userID, req.Platform)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	result, err := h.syncService.Sync(r.Context(), userID, profile.Handle)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *ProfileHandler) unlink(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	platform := model.Platform(chi.URLParam(r, "platform"))
	if err := h.profileService.Unlink(r.Context(), userID, platform); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondNoContent(w)
}

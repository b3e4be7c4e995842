package handler

import (
	"net/http"

	"github.com/jigyasu-kalyan/cp-nexus/internal/api/middleware"
	"github.com/jigyasu-kalyan/cp-nexus/internal/app/service"
	"github.com/jigyasu-kalyan/cp-nexus/internal/common"

	"github.com/go-chi/chi/v5"
)

type ContestHandler struct {
	contestService *service.ContestService
}

func NewContestHandler(cs *service.ContestService) *ContestHandler {
	return &ContestHandler{contestService: cs}
}

func (h *ContestHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/", h.upcoming)
}

func (h *ContestHandler) upcoming(w http.ResponseWriter, r *http.Request) {
	contests, err := h.contestService.Upcoming(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contests)
}

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adiwijaya-dev/shopdash-backend/api/responses"
	"github.com/adiwijaya-dev/shopdash-backend/api/validators"
	"github.com/adiwijaya-dev/shopdash-backend/internal/goals"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/db/models"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
)

func GoalsList(svc goals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.List(r.Context()))
	}
}

func GoalCreate(svc goals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body models.Goal
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		goal, err := svc.Append(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, goal)
	}
}

type goalAchievedRequest struct {
	Achieved bool `json:"achieved"`
}

func GoalSetAchieved(svc goals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body goalAchievedRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		goal, err := svc.SetAchieved(r.Context(), chi.URLParam(r, "id"), body.Achieved)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, goal)
	}
}

func GoalDelete(svc goals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

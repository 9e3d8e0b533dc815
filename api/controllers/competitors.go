package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adiwijaya-dev/shopdash-backend/api/responses"
	"github.com/adiwijaya-dev/shopdash-backend/api/validators"
	"github.com/adiwijaya-dev/shopdash-backend/internal/competitors"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/db/models"
	pkgerrors "github.com/adiwijaya-dev/shopdash-backend/pkg/errors"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
)

func CompetitorsList(svc competitors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.List(r.Context()))
	}
}

func CompetitorCreate(svc competitors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body models.CompetitorItem
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Add(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func CompetitorUpdate(svc competitors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body models.CompetitorItem
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body.ID = chi.URLParam(r, "id")

		item, err := svc.Update(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func CompetitorDelete(svc competitors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// CompetitorLookup resolves the tracked competitor row for one of our SKUs.
// A miss is a normal answer, not an error.
func CompetitorLookup(svc competitors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sku := r.URL.Query().Get("sku")
		shopID := r.URL.Query().Get("shopId")
		if sku == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "sku is required"))
			return
		}

		item, found := svc.FindBySKU(r.Context(), sku, shopID)
		responses.WriteSuccess(w, map[string]any{"found": found, "item": item})
	}
}

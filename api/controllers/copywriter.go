package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/adiwijaya-dev/shopdash-backend/api/responses"
	"github.com/adiwijaya-dev/shopdash-backend/api/validators"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/copywriter"
	pkgerrors "github.com/adiwijaya-dev/shopdash-backend/pkg/errors"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
)

// Copywriter generates listing copy for one product.
type Copywriter interface {
	ProductDescription(ctx context.Context, name, brand string, price float64) (string, error)
}

type copyRequest struct {
	Name  string  `json:"name" validate:"required"`
	Brand string  `json:"brand"`
	Price float64 `json:"price" validate:"gte=0"`
}

func ProductCopy(writer Copywriter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body copyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		text, err := writer.ProductDescription(r.Context(), body.Name, body.Brand, body.Price)
		if err != nil {
			if errors.Is(err, copywriter.ErrNotConfigured) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "copywriter disabled"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generating copy"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"description": text})
	}
}

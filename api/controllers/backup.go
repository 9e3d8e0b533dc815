package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/adiwijaya-dev/shopdash-backend/api/responses"
	"github.com/adiwijaya-dev/shopdash-backend/internal/backup"
	pkgerrors "github.com/adiwijaya-dev/shopdash-backend/pkg/errors"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
)

func BackupExport(svc *backup.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Export(r.Context()))
	}
}

type backupImportRequest struct {
	Confirm  bool            `json:"confirm"`
	Document json.RawMessage `json:"document"`
}

// BackupImport restores a previously exported document. The confirm flag is
// mandatory because the restore overwrites everything the document carries.
func BackupImport(svc *backup.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
			return
		}

		var body backupImportRequest
		if err := json.Unmarshal(raw, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}
		if len(body.Document) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "document is required"))
			return
		}

		if err := svc.Import(r.Context(), body.Document, body.Confirm); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "restored"})
	}
}

package ingests

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/orderdesk-backend/api/responses"
	"github.com/angelmondragon/orderdesk-backend/api/validators"
	"github.com/angelmondragon/orderdesk-backend/internal/ingest"
	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/orderdesk-backend/pkg/errors"
	"github.com/angelmondragon/orderdesk-backend/pkg/logger"
	"github.com/angelmondragon/orderdesk-backend/pkg/pagination"
)

// LedgerLister pages through ingest ledger rows.
type LedgerLister interface {
	List(ctx context.Context, params ingest.ListParams) (*ingest.IngestList, error)
}

// List pages through the inbound email ledger for reconciliation.
func List(ledger LedgerLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ledger == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingest ledger unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := ingest.ListParams{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseParseStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter").
					WithDetails(map[string]any{"field": "status"}))
				return
			}
			params.Status = &status
		}

		list, err := ledger.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bodegonapp/storefront-backend/api/responses"
	"github.com/bodegonapp/storefront-backend/api/validators"
	"github.com/bodegonapp/storefront-backend/internal/sales"
	"github.com/bodegonapp/storefront-backend/pkg/enums"
	pkgerrors "github.com/bodegonapp/storefront-backend/pkg/errors"
	"github.com/bodegonapp/storefront-backend/pkg/logger"
)

type salesAdmin interface {
	List(ctx context.Context) ([]sales.Sale, error)
	Get(ctx context.Context, saleID int64) (*sales.Sale, error)
	UpdateStatus(ctx context.Context, saleID int64, status enums.SaleStatus) error
}

type saleStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func AdminListSales(svc salesAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

func AdminGetSale(svc salesAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathID("saleId", chi.URLParam(r, "saleId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func AdminUpdateSaleStatus(svc salesAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathID("saleId", chi.URLParam(r, "saleId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req saleStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseSaleStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sale status"))
			return
		}

		if err := svc.UpdateStatus(r.Context(), id, status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"saleId": id, "status": status})
	}
}

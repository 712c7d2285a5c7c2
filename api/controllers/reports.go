package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/bodegonapp/storefront-backend/api/responses"
	"github.com/bodegonapp/storefront-backend/api/validators"
	"github.com/bodegonapp/storefront-backend/internal/reports"
	"github.com/bodegonapp/storefront-backend/pkg/logger"
)

type reportExporter interface {
	RegisterCloseRange(ctx context.Context, from, to time.Time) (*reports.Export, error)
	RegisterCloseToday(ctx context.Context) (*reports.Export, error)
	DailyDetail(ctx context.Context, day time.Time) (*reports.Export, error)
}

// AdminRegisterCloseExport proxies the register-close report for a date range.
func AdminRegisterCloseExport(svc reportExporter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := validators.QueryDate(r, "desde")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.QueryDate(r, "hasta")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		export, err := svc.RegisterCloseRange(r.Context(), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteAttachment(w, export.Filename, export.ContentType, export.Data)
	}
}

func AdminRegisterCloseToday(svc reportExporter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		export, err := svc.RegisterCloseToday(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteAttachment(w, export.Filename, export.ContentType, export.Data)
	}
}

func AdminDailyDetailReport(svc reportExporter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := validators.QueryDate(r, "fecha")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		export, err := svc.DailyDetail(r.Context(), day)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteAttachment(w, export.Filename, export.ContentType, export.Data)
	}
}

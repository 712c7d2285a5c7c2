package controllers

import (
	"net/http"

	"github.com/bodegonapp/storefront-backend/api/middleware"
	"github.com/bodegonapp/storefront-backend/api/responses"
	"github.com/bodegonapp/storefront-backend/api/validators"
	"github.com/bodegonapp/storefront-backend/internal/checkout"
	"github.com/bodegonapp/storefront-backend/pkg/enums"
	"github.com/bodegonapp/storefront-backend/pkg/logger"
	"github.com/bodegonapp/storefront-backend/pkg/money"
)

type checkoutRequest struct {
	PaymentMethod string  `json:"paymentMethod" validate:"required"`
	ShippingFee   float64 `json:"shippingFee" validate:"min=0"`
	Notes         string  `json:"notes" validate:"max=500"`
}

func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := svc.Submit(r.Context(), checkout.Request{
			UserID:        middleware.UserIDFromContext(r.Context()),
			PaymentMethod: enums.PaymentMethod(req.PaymentMethod),
			ShippingFee:   money.FromFloat(req.ShippingFee),
			Notes:         req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}

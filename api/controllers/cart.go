package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bodegonapp/storefront-backend/api/middleware"
	"github.com/bodegonapp/storefront-backend/api/responses"
	"github.com/bodegonapp/storefront-backend/api/validators"
	"github.com/bodegonapp/storefront-backend/internal/cart"
	"github.com/bodegonapp/storefront-backend/pkg/logger"
)

const guestTokenHeader = "X-Guest-Token"

type cartItemRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	// Quantity is validated by the aggregator so a non-positive value surfaces
	// as an explicit rejection outcome instead of a decode error.
	Quantity int `json:"quantity"`
}

type cartPromotionRequest struct {
	PromotionID int64 `json:"promotionId" validate:"required,gt=0"`
	Quantity    int   `json:"quantity"`
}

// cartKeyFrom buckets authenticated users by id and guests by their
// client-generated token, falling back to the shared guest bucket.
func cartKeyFrom(r *http.Request) cart.Key {
	if userID := middleware.UserIDFromContext(r.Context()); userID > 0 {
		return cart.UserKey(userID)
	}
	if token := strings.TrimSpace(r.Header.Get(guestTokenHeader)); token != "" {
		return cart.GuestKey + cart.Key(":"+token)
	}
	return cart.GuestKey
}

func CartFetch(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := svc.View(r.Context(), cartKeyFrom(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cartItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		outcome, err := svc.AddProduct(r.Context(), cartKeyFrom(r), req.ProductID, req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, outcome)
	}
}

func CartDecrementItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cartItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		outcome, err := svc.DecrementProduct(r.Context(), cartKeyFrom(r), req.ProductID, req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, outcome)
	}
}

func CartAddPromotion(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cartPromotionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		outcome, err := svc.AddPromotion(r.Context(), cartKeyFrom(r), req.PromotionID, req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, outcome)
	}
}

func CartDecrementPromotion(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cartPromotionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		outcome, err := svc.DecrementPromotion(r.Context(), cartKeyFrom(r), req.PromotionID, req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, outcome)
	}
}

func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathID("productId", chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snapshot, err := svc.RemoveProduct(r.Context(), cartKeyFrom(r), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

func CartRemovePromotion(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathID("promotionId", chi.URLParam(r, "promotionId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snapshot, err := svc.RemovePromotion(r.Context(), cartKeyFrom(r), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Clear(r.Context(), cartKeyFrom(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/bodegonapp/storefront-backend/internal/cart"
	"github.com/bodegonapp/storefront-backend/internal/sales"
	"github.com/bodegonapp/storefront-backend/internal/users"
	"github.com/bodegonapp/storefront-backend/pkg/enums"
	pkgerrors "github.com/bodegonapp/storefront-backend/pkg/errors"
	"github.com/bodegonapp/storefront-backend/pkg/logger"
	"github.com/bodegonapp/storefront-backend/pkg/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

const (
	resultSuccess            = "success"
	resultRejected           = "rejected"
	resultSaleFailed         = "sale_failed"
	resultCompensated        = "compensated"
	resultCompensationFailed = "compensation_failed"
)

// Request carries everything checkout needs beyond the stored cart.
type Request struct {
	UserID        int64
	PaymentMethod enums.PaymentMethod
	ShippingFee   decimal.Decimal
	Notes         string
}

// Receipt reports a fully submitted sale.
type Receipt struct {
	SaleID     int64           `json:"saleId"`
	Total      decimal.Decimal `json:"total"`
	ItemCount  int             `json:"itemCount"`
	DetailRows int             `json:"detailRows"`
}

type cartAccessor interface {
	View(ctx context.Context, key cart.Key) (*cart.Snapshot, error)
	Clear(ctx context.Context, key cart.Key) error
}

type saleWriter interface {
	CreateSale(ctx context.Context, sale sales.Sale) (int64, error)
	CreateDetail(ctx context.Context, detail sales.DetailDTO) error
	UpdateStatus(ctx context.Context, saleID int64, status enums.SaleStatus) error
}

type userResolver interface {
	GetByID(ctx context.Context, id int64) (*users.User, error)
}

// Service submits a cart as a sale. The upstream API offers no transaction
// across the sale header and its detail rows, so the sequence is create
// header, then each detail in order, and on any detail failure the header is
// compensated to CANCELADO.
type Service interface {
	Submit(ctx context.Context, req Request) (*Receipt, error)
}

type service struct {
	carts   cartAccessor
	sales   saleWriter
	users   userResolver
	metrics *metrics.StorefrontMetrics
	logger  *logger.Logger
	now     func() time.Time
}

// NewService wires the checkout sequencer.
func NewService(carts cartAccessor, saleClient saleWriter, userClient userResolver, m *metrics.StorefrontMetrics, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if saleClient == nil {
		return nil, fmt.Errorf("sale client required")
	}
	if userClient == nil {
		return nil, fmt.Errorf("user client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		carts:   carts,
		sales:   saleClient,
		users:   userClient,
		metrics: m,
		logger:  logg,
		now:     time.Now,
	}, nil
}

func (s *service) Submit(ctx context.Context, req Request) (*Receipt, error) {
	start := s.now()

	// Guests browse and fill carts but never reach the sales API.
	if req.UserID <= 0 {
		s.metrics.ObserveCheckout(resultRejected, s.now().Sub(start))
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "checkout requires an authenticated user")
	}
	if !req.PaymentMethod.IsValid() {
		s.metrics.ObserveCheckout(resultRejected, s.now().Sub(start))
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", req.PaymentMethod))
	}
	if req.ShippingFee.IsNegative() {
		s.metrics.ObserveCheckout(resultRejected, s.now().Sub(start))
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping fee cannot be negative")
	}

	key := cart.UserKey(req.UserID)
	snapshot, err := s.carts.View(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(snapshot.Lines) == 0 {
		s.metrics.ObserveCheckout(resultRejected, s.now().Sub(start))
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	account, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	total := snapshot.Subtotal.Add(req.ShippingFee)
	saleID, err := s.sales.CreateSale(ctx, sales.Sale{
		Date:          s.now(),
		PaymentMethod: req.PaymentMethod,
		Total:         total,
		ShippingFee:   req.ShippingFee,
		Status:        enums.SaleStatusPending,
		Notes:         req.Notes,
		User:          account,
	})
	if err != nil {
		s.metrics.ObserveCheckout(resultSaleFailed, s.now().Sub(start))
		return nil, err
	}
	ctx = s.logger.WithSaleID(ctx, saleID)

	details := cart.BuildDetails(snapshot.Lines, saleID)
	for i, detail := range details {
		if err := s.sales.CreateDetail(ctx, detail); err != nil {
			return nil, s.compensate(ctx, saleID, i, len(details), err, start)
		}
	}

	if err := s.carts.Clear(ctx, key); err != nil {
		// The sale is fully submitted; a stale cart is recoverable.
		s.logger.Error(ctx, "clearing cart after checkout failed", err)
	}

	s.metrics.ObserveCheckout(resultSuccess, s.now().Sub(start))
	s.logger.Info(ctx, "checkout completed")
	return &Receipt{
		SaleID:     saleID,
		Total:      total,
		ItemCount:  snapshot.TotalItems,
		DetailRows: len(details),
	}, nil
}

// compensate voids the partially submitted sale and reports the original
// failure together with any compensation failure.
func (s *service) compensate(ctx context.Context, saleID int64, failedAt, totalDetails int, cause error, start time.Time) error {
	s.logger.Error(ctx, fmt.Sprintf("detail %d of %d failed, cancelling sale", failedAt+1, totalDetails), cause)

	combined := cause
	result := resultCompensated
	if err := s.sales.UpdateStatus(ctx, saleID, enums.SaleStatusCancelled); err != nil {
		s.logger.Error(ctx, "cancelling sale failed", err)
		combined = multierr.Append(combined, err)
		result = resultCompensationFailed
	}
	s.metrics.ObserveCheckout(result, s.now().Sub(start))

	return pkgerrors.
		Wrap(pkgerrors.CodeDependency, combined, "submitting sale details failed").
		WithDetails(map[string]any{
			"sale_id":      saleID,
			"failed_index": failedAt,
			"compensated":  result == resultCompensated,
		})
}

package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bodegonapp/storefront-backend/internal/catalog"
	pkgerrors "github.com/bodegonapp/storefront-backend/pkg/errors"
	"github.com/bodegonapp/storefront-backend/pkg/logger"
	"github.com/bodegonapp/storefront-backend/pkg/metrics"
)

const (
	opAddProduct         = "add_product"
	opDecrementProduct   = "decrement_product"
	opAddPromotion       = "add_promotion"
	opDecrementPromotion = "decrement_promotion"
	opRemoveProduct      = "remove_product"
	opRemovePromotion    = "remove_promotion"
	opClear              = "clear"
)

type productLoader interface {
	Product(ctx context.Context, id int64) (*catalog.Product, error)
}

type promotionLoader interface {
	Promotion(ctx context.Context, id int64) (*catalog.Promotion, error)
}

// Service aggregates a per-key cart of plain products and promotion bundles.
// Mutations re-validate against fresh catalog snapshots and report
// business-rule rejections as outcomes instead of errors.
type Service interface {
	View(ctx context.Context, key Key) (*Snapshot, error)
	AddProduct(ctx context.Context, key Key, productID int64, quantity int) (*Outcome, error)
	DecrementProduct(ctx context.Context, key Key, productID int64, quantity int) (*Outcome, error)
	AddPromotion(ctx context.Context, key Key, promotionID int64, quantity int) (*Outcome, error)
	DecrementPromotion(ctx context.Context, key Key, promotionID int64, quantity int) (*Outcome, error)
	RemoveProduct(ctx context.Context, key Key, productID int64) (*Snapshot, error)
	RemovePromotion(ctx context.Context, key Key, promotionID int64) (*Snapshot, error)
	Clear(ctx context.Context, key Key) error
}

type service struct {
	store      Store
	products   productLoader
	promotions promotionLoader
	metrics    *metrics.StorefrontMetrics
	logger     *logger.Logger
	locks      keyedMutex
	now        func() time.Time
}

// NewService wires the cart aggregator.
func NewService(store Store, products productLoader, promotions promotionLoader, m *metrics.StorefrontMetrics, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if promotions == nil {
		return nil, fmt.Errorf("promotion loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		store:      store,
		products:   products,
		promotions: promotions,
		metrics:    m,
		logger:     logg,
		now:        time.Now,
	}, nil
}

func (s *service) View(ctx context.Context, key Key) (*Snapshot, error) {
	lines, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	snap := snapshotOf(lines)
	return &snap, nil
}

func (s *service) AddProduct(ctx context.Context, key Key, productID int64, quantity int) (*Outcome, error) {
	unlock := s.locks.lock(key)
	defer unlock()

	lines, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return s.rejected(ctx, opAddProduct, ResultRejectedInvalidQuantity, lines, nil), nil
	}

	product, err := s.products.Product(ctx, productID)
	if err != nil {
		return nil, err
	}

	inCart := committedQuantity(lines, productID)
	if inCart+quantity > product.Stock {
		shortages := []Shortage{{
			ProductID: product.ID,
			Name:      product.Name,
			Requested: quantity,
			Available: clampNonNegative(product.Stock - inCart),
		}}
		return s.rejected(ctx, opAddProduct, ResultRejectedInsufficientStock, lines, shortages), nil
	}

	if idx := findProductLine(lines, productID); idx >= 0 {
		lines[idx].Quantity += quantity
		lines[idx].Product = product
		// The price captured when the line entered the cart sticks; catalog
		// price changes only affect new lines.
		if lines[idx].AppliedPrice.IsZero() {
			lines[idx].AppliedPrice = product.Price
		}
	} else {
		lines = append(lines, Line{
			ID:           nextLineID(lines),
			Quantity:     quantity,
			Product:      product,
			AppliedPrice: product.Price,
		})
	}
	return s.applied(ctx, key, opAddProduct, lines)
}

func (s *service) DecrementProduct(ctx context.Context, key Key, productID int64, quantity int) (*Outcome, error) {
	unlock := s.locks.lock(key)
	defer unlock()

	lines, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return s.rejected(ctx, opDecrementProduct, ResultRejectedInvalidQuantity, lines, nil), nil
	}

	idx := findProductLine(lines, productID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d is not in the cart", productID))
	}

	lines[idx].Quantity -= quantity
	if lines[idx].Quantity <= 0 {
		lines = removeAt(lines, idx)
	}
	return s.applied(ctx, key, opDecrementProduct, lines)
}

func (s *service) AddPromotion(ctx context.Context, key Key, promotionID int64, quantity int) (*Outcome, error) {
	unlock := s.locks.lock(key)
	defer unlock()

	lines, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return s.rejected(ctx, opAddPromotion, ResultRejectedInvalidQuantity, lines, nil), nil
	}

	promotion, err := s.promotions.Promotion(ctx, promotionID)
	if err != nil {
		return nil, err
	}
	if promotion.Expired(s.now()) {
		return s.rejected(ctx, opAddPromotion, ResultRejectedExpiredPromotion, lines, nil), nil
	}

	// All-or-nothing availability: every component must fit against the stock
	// remaining after plain lines and every promotion line already committed.
	var shortages []Shortage
	for _, component := range promotion.Details {
		needed := component.Quantity * quantity
		available := component.Product.Stock - committedQuantity(lines, component.Product.ID)
		if needed > available {
			shortages = append(shortages, Shortage{
				ProductID: component.Product.ID,
				Name:      component.Product.Name,
				Requested: needed,
				Available: clampNonNegative(available),
			})
		}
	}
	if len(shortages) > 0 {
		return s.rejected(ctx, opAddPromotion, ResultRejectedInsufficientStock, lines, shortages), nil
	}

	if idx := findPromotionLine(lines, promotionID); idx >= 0 {
		lines[idx].Quantity += quantity
		lines[idx].PromotionName = promotion.Name
		// Same applied-price preservation as plain lines; the components the
		// bundle entered the cart with keep governing the checkout split.
		if lines[idx].AppliedPrice.IsZero() {
			lines[idx].AppliedPrice = promotion.BundlePrice
		}
		if len(lines[idx].Components) == 0 {
			lines[idx].Components = promotion.Details
		}
	} else {
		lines = append(lines, Line{
			ID:            nextLineID(lines),
			Quantity:      quantity,
			AppliedPrice:  promotion.BundlePrice,
			IsPromotion:   true,
			PromotionID:   promotion.ID,
			PromotionName: promotion.Name,
			Components:    promotion.Details,
		})
	}
	return s.applied(ctx, key, opAddPromotion, lines)
}

func (s *service) DecrementPromotion(ctx context.Context, key Key, promotionID int64, quantity int) (*Outcome, error) {
	unlock := s.locks.lock(key)
	defer unlock()

	lines, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return s.rejected(ctx, opDecrementPromotion, ResultRejectedInvalidQuantity, lines, nil), nil
	}

	idx := findPromotionLine(lines, promotionID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("promotion %d is not in the cart", promotionID))
	}

	lines[idx].Quantity -= quantity
	if lines[idx].Quantity <= 0 {
		lines = removeAt(lines, idx)
	}
	return s.applied(ctx, key, opDecrementPromotion, lines)
}

func (s *service) RemoveProduct(ctx context.Context, key Key, productID int64) (*Snapshot, error) {
	unlock := s.locks.lock(key)
	defer unlock()

	lines, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	idx := findProductLine(lines, productID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d is not in the cart", productID))
	}
	lines = removeAt(lines, idx)

	outcome, err := s.applied(ctx, key, opRemoveProduct, lines)
	if err != nil {
		return nil, err
	}
	return &outcome.Cart, nil
}

func (s *service) RemovePromotion(ctx context.Context, key Key, promotionID int64) (*Snapshot, error) {
	unlock := s.locks.lock(key)
	defer unlock()

	lines, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	idx := findPromotionLine(lines, promotionID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("promotion %d is not in the cart", promotionID))
	}
	lines = removeAt(lines, idx)

	outcome, err := s.applied(ctx, key, opRemovePromotion, lines)
	if err != nil {
		return nil, err
	}
	return &outcome.Cart, nil
}

func (s *service) Clear(ctx context.Context, key Key) error {
	unlock := s.locks.lock(key)
	defer unlock()

	if err := s.store.Erase(ctx, key); err != nil {
		return err
	}
	s.metrics.ObserveCartOp(opClear, string(ResultApplied))
	return nil
}

func (s *service) applied(ctx context.Context, key Key, operation string, lines []Line) (*Outcome, error) {
	if err := s.store.Save(ctx, key, lines); err != nil {
		s.logger.Error(ctx, "persisting cart failed", err)
		return nil, err
	}
	s.metrics.ObserveCartOp(operation, string(ResultApplied))
	return &Outcome{Result: ResultApplied, Cart: snapshotOf(lines)}, nil
}

func (s *service) rejected(ctx context.Context, operation string, result Result, lines []Line, shortages []Shortage) *Outcome {
	s.metrics.ObserveCartOp(operation, string(result))
	return &Outcome{Result: result, Cart: snapshotOf(lines), Shortages: shortages}
}

// committedQuantity totals how many units of a product the cart already
// claims: plain lines plus every promotion line's per-bundle component
// quantity multiplied by the bundle count.
func committedQuantity(lines []Line, productID int64) int {
	total := 0
	for _, line := range lines {
		if !line.IsPromotion {
			if line.Product != nil && line.Product.ID == productID {
				total += line.Quantity
			}
			continue
		}
		for _, component := range line.Components {
			if component.Product.ID == productID {
				total += component.Quantity * line.Quantity
			}
		}
	}
	return total
}

func findProductLine(lines []Line, productID int64) int {
	for i, line := range lines {
		if !line.IsPromotion && line.Product != nil && line.Product.ID == productID {
			return i
		}
	}
	return -1
}

func findPromotionLine(lines []Line, promotionID int64) int {
	for i, line := range lines {
		if line.IsPromotion && line.PromotionID == promotionID {
			return i
		}
	}
	return -1
}

func removeAt(lines []Line, idx int) []Line {
	return append(lines[:idx], lines[idx+1:]...)
}

func clampNonNegative(value int) int {
	if value < 0 {
		return 0
	}
	return value
}

// keyedMutex serializes mutations per cart key so concurrent requests for the
// same bucket cannot interleave their load-modify-save cycles. Entries are
// reference counted and evicted once idle, so a churn of guest tokens does not
// grow the map for the life of the process.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[Key]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key Key) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[Key]*keyLock)
	}
	lock, ok := k.locks[key]
	if !ok {
		lock = &keyLock{}
		k.locks[key] = lock
	}
	lock.refs++
	k.mu.Unlock()

	lock.Lock()
	return func() {
		lock.Unlock()
		k.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

package checkout

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/bodegonapp/storefront-backend/internal/cart"
	"github.com/bodegonapp/storefront-backend/internal/catalog"
	"github.com/bodegonapp/storefront-backend/internal/sales"
	"github.com/bodegonapp/storefront-backend/internal/users"
	"github.com/bodegonapp/storefront-backend/pkg/enums"
	pkgerrors "github.com/bodegonapp/storefront-backend/pkg/errors"
	"github.com/bodegonapp/storefront-backend/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

func testSnapshot() *cart.Snapshot {
	return &cart.Snapshot{
		Lines: []cart.Line{
			{
				ID:           1,
				Quantity:     2,
				Product:      &catalog.Product{ID: 7, Price: decimal.NewFromInt(100)},
				AppliedPrice: decimal.NewFromInt(100),
			},
			{
				ID:           2,
				Quantity:     1,
				AppliedPrice: decimal.NewFromInt(1500),
				IsPromotion:  true,
				PromotionID:  50,
				Components: []catalog.PromotionDetail{
					{Quantity: 2, Product: catalog.Product{ID: 8}},
					{Quantity: 1, Product: catalog.Product{ID: 9}},
				},
			},
		},
		TotalItems: 3,
		Subtotal:   decimal.NewFromInt(1700),
	}
}

func newTestService(t *testing.T, carts *stubCarts, saleClient *stubSales, userClient *stubUsers) Service {
	t.Helper()
	svc, err := NewService(carts, saleClient, userClient, nil, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func validRequest() Request {
	return Request{
		UserID:        1,
		PaymentMethod: enums.PaymentMethodCash,
		ShippingFee:   decimal.NewFromInt(300),
	}
}

func TestSubmitHappyPath(t *testing.T) {
	t.Parallel()

	carts := &stubCarts{snapshot: testSnapshot()}
	saleClient := &stubSales{saleID: 42}
	userClient := &stubUsers{user: &users.User{ID: 1, Username: "ana", Role: enums.UserRoleUser}}
	svc := newTestService(t, carts, saleClient, userClient)

	receipt, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if receipt.SaleID != 42 {
		t.Fatalf("unexpected sale id %d", receipt.SaleID)
	}
	if !receipt.Total.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("expected total 2000, got %s", receipt.Total)
	}
	if receipt.DetailRows != 3 {
		t.Fatalf("expected 3 detail rows, got %d", receipt.DetailRows)
	}

	if saleClient.createdSale == nil || saleClient.createdSale.Status != enums.SaleStatusPending {
		t.Fatalf("sale must be created pending, got %+v", saleClient.createdSale)
	}
	if saleClient.createdSale.User == nil || saleClient.createdSale.User.ID != 1 {
		t.Fatalf("sale must carry the resolved user, got %+v", saleClient.createdSale.User)
	}
	if len(saleClient.details) != 3 {
		t.Fatalf("expected 3 submitted details, got %d", len(saleClient.details))
	}
	for _, detail := range saleClient.details {
		if detail.SaleID != 42 {
			t.Fatalf("detail must reference the created sale, got %+v", detail)
		}
	}
	if !carts.cleared {
		t.Fatal("cart must be cleared after success")
	}
}

func TestSubmitRejectsGuestsBeforeAnyCall(t *testing.T) {
	t.Parallel()

	carts := &stubCarts{snapshot: testSnapshot()}
	saleClient := &stubSales{saleID: 42}
	userClient := &stubUsers{}
	svc := newTestService(t, carts, saleClient, userClient)

	req := validRequest()
	req.UserID = 0
	_, err := svc.Submit(context.Background(), req)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if carts.viewCalls != 0 || saleClient.createdSale != nil || userClient.calls != 0 {
		t.Fatal("no collaborator may be reached for guest checkout")
	}
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	carts := &stubCarts{snapshot: &cart.Snapshot{Lines: []cart.Line{}}}
	svc := newTestService(t, carts, &stubSales{saleID: 42}, &stubUsers{user: &users.User{ID: 1}})

	_, err := svc.Submit(context.Background(), validRequest())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitRejectsUnknownPaymentMethod(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubCarts{snapshot: testSnapshot()}, &stubSales{saleID: 42}, &stubUsers{user: &users.User{ID: 1}})

	req := validRequest()
	req.PaymentMethod = enums.PaymentMethod("CHEQUE")
	if _, err := svc.Submit(context.Background(), req); pkgerrors.As(err) == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
}

func TestSubmitCancelsSaleWhenDetailFails(t *testing.T) {
	t.Parallel()

	carts := &stubCarts{snapshot: testSnapshot()}
	saleClient := &stubSales{saleID: 42, failDetail: true, failDetailAt: 1}
	svc := newTestService(t, carts, saleClient, &stubUsers{user: &users.User{ID: 1}})

	_, err := svc.Submit(context.Background(), validRequest())
	if err == nil {
		t.Fatal("expected error after detail failure")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}

	if saleClient.statusUpdate == nil {
		t.Fatal("expected the sale to be compensated")
	}
	if saleClient.statusUpdate.saleID != 42 || saleClient.statusUpdate.status != enums.SaleStatusCancelled {
		t.Fatalf("unexpected compensation %+v", saleClient.statusUpdate)
	}
	if len(saleClient.details) != 1 {
		t.Fatalf("submission must stop at the failed detail, got %d", len(saleClient.details))
	}
	if carts.cleared {
		t.Fatal("cart must be kept after a failed checkout")
	}
}

func TestSubmitReportsCompensationFailureToo(t *testing.T) {
	t.Parallel()

	carts := &stubCarts{snapshot: testSnapshot()}
	saleClient := &stubSales{saleID: 42, failDetail: true, failDetailAt: 0, failStatusUpdate: true}
	svc := newTestService(t, carts, saleClient, &stubUsers{user: &users.User{ID: 1}})

	_, err := svc.Submit(context.Background(), validRequest())
	if err == nil {
		t.Fatal("expected error")
	}
	chain := pkgerrors.Chain(err)
	if len(chain) == 0 {
		t.Fatal("expected an error chain")
	}
	details, ok := pkgerrors.As(err).Details().(map[string]any)
	if !ok {
		t.Fatalf("expected structured details, got %v", pkgerrors.As(err).Details())
	}
	if compensated, _ := details["compensated"].(bool); compensated {
		t.Fatal("compensation failure must be reported")
	}
}

func TestSubmitPropagatesSaleCreationFailure(t *testing.T) {
	t.Parallel()

	carts := &stubCarts{snapshot: testSnapshot()}
	saleClient := &stubSales{failCreate: true}
	svc := newTestService(t, carts, saleClient, &stubUsers{user: &users.User{ID: 1}})

	if _, err := svc.Submit(context.Background(), validRequest()); err == nil {
		t.Fatal("expected error")
	}
	if saleClient.statusUpdate != nil {
		t.Fatal("nothing to compensate when the sale itself failed")
	}
	if len(saleClient.details) != 0 {
		t.Fatal("no details may be submitted without a sale")
	}
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	t.Parallel()

	if _, err := NewService(nil, &stubSales{}, &stubUsers{}, nil, testLogger()); err == nil {
		t.Fatal("expected error for nil cart service")
	}
	if _, err := NewService(&stubCarts{}, nil, &stubUsers{}, nil, testLogger()); err == nil {
		t.Fatal("expected error for nil sale client")
	}
	if _, err := NewService(&stubCarts{}, &stubSales{}, nil, nil, testLogger()); err == nil {
		t.Fatal("expected error for nil user client")
	}
	if _, err := NewService(&stubCarts{}, &stubSales{}, &stubUsers{}, nil, nil); err == nil {
		t.Fatal("expected error for nil logger")
	}
}

type stubCarts struct {
	snapshot  *cart.Snapshot
	viewCalls int
	cleared   bool
}

func (s *stubCarts) View(ctx context.Context, key cart.Key) (*cart.Snapshot, error) {
	s.viewCalls++
	return s.snapshot, nil
}

func (s *stubCarts) Clear(ctx context.Context, key cart.Key) error {
	s.cleared = true
	return nil
}

type statusUpdate struct {
	saleID int64
	status enums.SaleStatus
}

type stubSales struct {
	saleID           int64
	failCreate       bool
	failDetail       bool
	failDetailAt     int
	failStatusUpdate bool
	createdSale      *sales.Sale
	details          []sales.DetailDTO
	statusUpdate     *statusUpdate
}

func (s *stubSales) CreateSale(ctx context.Context, sale sales.Sale) (int64, error) {
	if s.failCreate {
		return 0, fmt.Errorf("upstream down")
	}
	s.createdSale = &sale
	return s.saleID, nil
}

func (s *stubSales) CreateDetail(ctx context.Context, detail sales.DetailDTO) error {
	if s.failDetail && len(s.details) == s.failDetailAt {
		return fmt.Errorf("detail rejected")
	}
	s.details = append(s.details, detail)
	return nil
}

func (s *stubSales) UpdateStatus(ctx context.Context, saleID int64, status enums.SaleStatus) error {
	if s.failStatusUpdate {
		return fmt.Errorf("status update failed")
	}
	s.statusUpdate = &statusUpdate{saleID: saleID, status: status}
	return nil
}

type stubUsers struct {
	user  *users.User
	calls int
}

func (s *stubUsers) GetByID(ctx context.Context, id int64) (*users.User, error) {
	s.calls++
	if s.user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return s.user, nil
}

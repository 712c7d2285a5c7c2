package sales

import (
	"context"
	"net/url"
	"testing"

	"github.com/bodegonapp/storefront-backend/pkg/enums"
	pkgerrors "github.com/bodegonapp/storefront-backend/pkg/errors"
)

func TestCreateSaleReturnsServerID(t *testing.T) {
	t.Parallel()

	api := &stubResource{createdID: 42}
	client, err := NewClient(api)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, err := client.CreateSale(context.Background(), Sale{Status: enums.SaleStatusPending})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected sale id 42, got %d", id)
	}
	if api.lastPostPath != "venta" {
		t.Fatalf("unexpected path %q", api.lastPostPath)
	}
}

func TestCreateSaleRejectsMissingID(t *testing.T) {
	t.Parallel()

	client, err := NewClient(&stubResource{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.CreateSale(context.Background(), Sale{})
	if err == nil {
		t.Fatal("expected error for zero sale id")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestCreateDetailTargetsDTOPath(t *testing.T) {
	t.Parallel()

	api := &stubResource{createdID: 1}
	client, err := NewClient(api)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	detail := DetailDTO{Quantity: 2, ProductID: 7, SaleID: 42}
	if err := client.CreateDetail(context.Background(), detail); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.lastPostPath != "detalleVenta/dto" {
		t.Fatalf("unexpected path %q", api.lastPostPath)
	}
	sent, ok := api.lastPostBody.(DetailDTO)
	if !ok || sent.SaleID != 42 {
		t.Fatalf("unexpected body %+v", api.lastPostBody)
	}
}

func TestUpdateStatusSendsCancellation(t *testing.T) {
	t.Parallel()

	api := &stubResource{}
	client, err := NewClient(api)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := client.UpdateStatus(context.Background(), 42, enums.SaleStatusCancelled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.lastPutPath != "venta/42" {
		t.Fatalf("unexpected path %q", api.lastPutPath)
	}
	body, ok := api.lastPutBody.(map[string]string)
	if !ok || body["estadoVenta"] != "CANCELADO" {
		t.Fatalf("unexpected body %+v", api.lastPutBody)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	client, err := NewClient(&stubResource{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := client.UpdateStatus(context.Background(), 42, enums.SaleStatus("BOGUS")); err == nil {
		t.Fatal("expected error for invalid status")
	}
}

func TestNewClientRequiresAPI(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(nil); err == nil {
		t.Fatal("expected error for nil resource client")
	}
}

type stubResource struct {
	createdID    int64
	lastPostPath string
	lastPostBody any
	lastPutPath  string
	lastPutBody  any
}

func (s *stubResource) Get(ctx context.Context, path string, query url.Values, dest any) error {
	return nil
}

func (s *stubResource) Post(ctx context.Context, path string, body, dest any) error {
	s.lastPostPath = path
	s.lastPostBody = body
	if typed, ok := dest.(*Sale); ok {
		typed.ID = s.createdID
	}
	return nil
}

func (s *stubResource) Put(ctx context.Context, path string, body, dest any) error {
	s.lastPutPath = path
	s.lastPutBody = body
	return nil
}

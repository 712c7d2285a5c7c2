package sales

import (
	"context"
	"fmt"
	"net/url"

	"github.com/bodegonapp/storefront-backend/pkg/enums"
	pkgerrors "github.com/bodegonapp/storefront-backend/pkg/errors"
)

const (
	salesPath      = "venta"
	saleDetailPath = "detalleVenta/dto"
)

type resourceClient interface {
	Get(ctx context.Context, path string, query url.Values, dest any) error
	Post(ctx context.Context, path string, body, dest any) error
	Put(ctx context.Context, path string, body, dest any) error
}

// Client writes sales and their detail records to the upstream API.
type Client struct {
	api resourceClient
}

// NewClient builds the sales writer.
func NewClient(api resourceClient) (*Client, error) {
	if api == nil {
		return nil, fmt.Errorf("resource client required")
	}
	return &Client{api: api}, nil
}

// CreateSale submits the sale header and returns the server-assigned id.
func (c *Client) CreateSale(ctx context.Context, sale Sale) (int64, error) {
	var created Sale
	if err := c.api.Post(ctx, salesPath, sale, &created); err != nil {
		return 0, err
	}
	if created.ID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "upstream returned an invalid sale id")
	}
	return created.ID, nil
}

// CreateDetail submits one flattened detail record referencing a created sale.
func (c *Client) CreateDetail(ctx context.Context, detail DetailDTO) error {
	return c.api.Post(ctx, saleDetailPath, detail, nil)
}

// UpdateStatus transitions a sale; checkout compensation uses it to void
// partially submitted orders.
func (c *Client) UpdateStatus(ctx context.Context, saleID int64, status enums.SaleStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid sale status %q", status))
	}
	body := map[string]string{"estadoVenta": status.String()}
	return c.api.Put(ctx, fmt.Sprintf("%s/%d", salesPath, saleID), body, nil)
}

// List returns every sale for the back-office grid.
func (c *Client) List(ctx context.Context) ([]Sale, error) {
	var records []Sale
	if err := c.api.Get(ctx, salesPath, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Get fetches one sale by id.
func (c *Client) Get(ctx context.Context, saleID int64) (*Sale, error) {
	var record Sale
	if err := c.api.Get(ctx, fmt.Sprintf("%s/%d", salesPath, saleID), nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

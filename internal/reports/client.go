package reports

import (
	"context"
	"fmt"
	"net/url"
	"time"

	pkgerrors "github.com/bodegonapp/storefront-backend/pkg/errors"
)

const (
	registerClosePath = "cierreCaja"
	dateLayout        = "2006-01-02"
)

// Export is a downloadable report blob proxied from the upstream API.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

type byteGetter interface {
	GetBytes(ctx context.Context, path string, query url.Values) ([]byte, string, error)
}

// Client proxies back-office report downloads from the upstream API.
type Client struct {
	api byteGetter
}

// NewClient builds the report proxy.
func NewClient(api byteGetter) (*Client, error) {
	if api == nil {
		return nil, fmt.Errorf("resource client required")
	}
	return &Client{api: api}, nil
}

// RegisterCloseRange exports the register-close report between two dates,
// inclusive on both ends.
func (c *Client) RegisterCloseRange(ctx context.Context, from, to time.Time) (*Export, error) {
	if to.Before(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "report range end precedes start")
	}
	query := url.Values{}
	query.Set("desde", from.Format(dateLayout))
	query.Set("hasta", to.Format(dateLayout))

	data, contentType, err := c.api.GetBytes(ctx, registerClosePath+"/exportar", query)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("cierre-caja_%s_%s.xls", from.Format(dateLayout), to.Format(dateLayout))
	return &Export{Filename: name, ContentType: contentType, Data: data}, nil
}

// RegisterCloseToday exports the register-close report for the current day.
func (c *Client) RegisterCloseToday(ctx context.Context) (*Export, error) {
	data, contentType, err := c.api.GetBytes(ctx, registerClosePath+"/exportar-hoy", nil)
	if err != nil {
		return nil, err
	}
	return &Export{
		Filename:    "cierre-caja-hoy.xls",
		ContentType: contentType,
		Data:        data,
	}, nil
}

// DailyDetail exports the per-sale detail report for one date.
func (c *Client) DailyDetail(ctx context.Context, day time.Time) (*Export, error) {
	query := url.Values{}
	query.Set("fecha", day.Format(dateLayout))

	data, contentType, err := c.api.GetBytes(ctx, registerClosePath+"/informe-diario-detalle", query)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("informe-diario_%s.xls", day.Format(dateLayout))
	return &Export{Filename: name, ContentType: contentType, Data: data}, nil
}

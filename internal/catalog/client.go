package catalog

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

const (
	productsPath   = "producto"
	categoriesPath = "categoria"
	promotionsPath = "promocion"
)

type resourceGetter interface {
	Get(ctx context.Context, path string, query url.Values, dest any) error
}

// Client reads product, category and promotion snapshots from the upstream API.
type Client struct {
	api resourceGetter
}

// NewClient builds the catalog reader.
func NewClient(api resourceGetter) (*Client, error) {
	if api == nil {
		return nil, fmt.Errorf("resource client required")
	}
	return &Client{api: api}, nil
}

// Products lists the full catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.api.Get(ctx, productsPath, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches one snapshot by id.
func (c *Client) Product(ctx context.Context, id int64) (*Product, error) {
	var product Product
	if err := c.api.Get(ctx, fmt.Sprintf("%s/%d", productsPath, id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Categories lists catalog categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.api.Get(ctx, categoriesPath, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Promotions lists every promotion definition, expired ones included.
func (c *Client) Promotions(ctx context.Context) ([]Promotion, error) {
	var promotions []Promotion
	if err := c.api.Get(ctx, promotionsPath, nil, &promotions); err != nil {
		return nil, err
	}
	return promotions, nil
}

// ActivePromotions lists the addable set: promotions whose validity window is
// still open at now.
func (c *Client) ActivePromotions(ctx context.Context, now time.Time) ([]Promotion, error) {
	promotions, err := c.Promotions(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]Promotion, 0, len(promotions))
	for _, promo := range promotions {
		if promo.Expired(now) {
			continue
		}
		active = append(active, promo)
	}
	return active, nil
}

// Promotion fetches one promotion by id from the listed set.
func (c *Client) Promotion(ctx context.Context, id int64) (*Promotion, error) {
	var promotion Promotion
	if err := c.api.Get(ctx, fmt.Sprintf("%s/%d", promotionsPath, id), nil, &promotion); err != nil {
		return nil, err
	}
	return &promotion, nil
}

package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date unmarshals the upstream API's date fields, which arrive either as
// plain dates or full RFC3339 timestamps.
type Date struct {
	time.Time
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			d.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", raw)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

// Category is a catalog grouping.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"denominacion"`
}

// Product is the read-only catalog snapshot held by cart lines. Stock figures
// are captured at fetch time and may be stale; mutations re-validate against a
// fresh snapshot.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"denominacion"`
	Brand         string          `json:"marca"`
	Code          string          `json:"codigo"`
	Image         string          `json:"imagen"`
	Price         decimal.Decimal `json:"precio"`
	Cost          decimal.Decimal `json:"costo"`
	MarkupPercent float64         `json:"porcentaje"`
	Stock         int             `json:"stock"`
	UnitsSold     int             `json:"cantidadVendida"`
	Description   string          `json:"descripcion"`
	Category      Category        `json:"categoria"`
}

// PromotionDetail binds one product and its required quantity per bundle.
type PromotionDetail struct {
	ID       int64   `json:"id"`
	Quantity int     `json:"cantidad"`
	Product  Product `json:"producto"`
}

// Promotion is a fixed-price bundle with a validity window.
type Promotion struct {
	ID          int64             `json:"id"`
	Name        string            `json:"denominacion"`
	Description string            `json:"descripcion"`
	StartDate   Date              `json:"fechaInicio"`
	EndDate     Date              `json:"fechaFin"`
	BundlePrice decimal.Decimal   `json:"precioPromocional"`
	Details     []PromotionDetail `json:"detallePromociones"`
}

// Expired reports whether the promotion's validity window has closed. Expired
// promotions leave the addable set but are never force-removed from carts.
func (p Promotion) Expired(now time.Time) bool {
	return !p.EndDate.Time.IsZero() && p.EndDate.Time.Before(now)
}

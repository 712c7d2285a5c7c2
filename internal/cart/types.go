package cart

import (
	"fmt"

	"github.com/bodegonapp/storefront-backend/internal/catalog"
	"github.com/bodegonapp/storefront-backend/internal/sales"
	"github.com/bodegonapp/storefront-backend/pkg/money"
	"github.com/shopspring/decimal"
)

// Key addresses one persisted cart bucket. Authenticated users get their own
// bucket, anonymous sessions share the guest bucket semantics with a
// session-scoped key supplied by the transport layer.
type Key string

// GuestKey is the bucket for unauthenticated sessions.
const GuestKey Key = "guest"

// UserKey returns the bucket for an authenticated user.
func UserKey(userID int64) Key {
	return Key(fmt.Sprintf("user:%d", userID))
}

// Bucket is the raw storage identifier.
func (k Key) Bucket() string {
	return string(k)
}

// Line is one cart entry: either a plain product or a promotion bundle. The
// JSON shape is the persisted cart payload, so field tags stay stable.
type Line struct {
	ID            int64                     `json:"id"`
	Quantity      int                       `json:"cantidad"`
	Product       *catalog.Product          `json:"producto,omitempty"`
	AppliedPrice  decimal.Decimal           `json:"precioAplicado"`
	IsPromotion   bool                      `json:"esPromocion"`
	PromotionID   int64                     `json:"promocionId,omitempty"`
	PromotionName string                    `json:"denominacion,omitempty"`
	Components    []catalog.PromotionDetail `json:"productosPromocion,omitempty"`
}

// Snapshot is the read model returned to API consumers.
type Snapshot struct {
	Lines      []Line          `json:"items"`
	TotalItems int             `json:"totalItems"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// Result tags the outcome of a cart mutation. Business-rule rejections are
// outcomes, not errors; only infrastructure failures surface as errors.
type Result string

const (
	ResultApplied                   Result = "applied"
	ResultRejectedInsufficientStock Result = "rejected_insufficient_stock"
	ResultRejectedInvalidQuantity   Result = "rejected_invalid_quantity"
	ResultRejectedExpiredPromotion  Result = "rejected_expired_promotion"
)

// Applied reports whether the mutation changed the cart.
func (r Result) Applied() bool {
	return r == ResultApplied
}

// Shortage names one product whose availability blocked a mutation.
type Shortage struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// Outcome pairs a mutation result with the cart state after the call.
type Outcome struct {
	Result    Result     `json:"result"`
	Cart      Snapshot   `json:"cart"`
	Shortages []Shortage `json:"shortages,omitempty"`
}

func snapshotOf(lines []Line) Snapshot {
	if lines == nil {
		lines = []Line{}
	}
	total := 0
	subtotal := decimal.Zero
	for _, line := range lines {
		total += line.Quantity
		subtotal = subtotal.Add(line.AppliedPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return Snapshot{Lines: lines, TotalItems: total, Subtotal: subtotal}
}

// nextLineID resumes the id arena from the highest persisted line id.
func nextLineID(lines []Line) int64 {
	var max int64
	for _, line := range lines {
		if line.ID > max {
			max = line.ID
		}
	}
	return max + 1
}

// BuildDetails flattens cart lines into the upstream detail records for a
// created sale. Promotion lines expand to one record per component with the
// bundle quantity multiplied out and the bundle price split evenly across
// components.
func BuildDetails(lines []Line, saleID int64) []sales.DetailDTO {
	details := make([]sales.DetailDTO, 0, len(lines))
	for _, line := range lines {
		if !line.IsPromotion {
			if line.Product == nil {
				continue
			}
			details = append(details, sales.DetailDTO{
				Quantity:     line.Quantity,
				AppliedPrice: line.AppliedPrice,
				ProductID:    line.Product.ID,
				SaleID:       saleID,
			})
			continue
		}
		unitPrice := money.EvenSplit(line.AppliedPrice, len(line.Components))
		for _, component := range line.Components {
			details = append(details, sales.DetailDTO{
				Quantity:     component.Quantity * line.Quantity,
				AppliedPrice: unitPrice,
				ProductID:    component.Product.ID,
				SaleID:       saleID,
				IsPromotion:  true,
			})
		}
	}
	return details
}

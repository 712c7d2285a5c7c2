package sales

import (
	"time"

	"github.com/bodegonapp/storefront-backend/internal/users"
	"github.com/bodegonapp/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Sale is the order header submitted to the upstream API. Detail lines travel
// separately; the create request never embeds them.
type Sale struct {
	ID            int64               `json:"id,omitempty"`
	Date          time.Time           `json:"fecha"`
	PaymentMethod enums.PaymentMethod `json:"formaPago"`
	Total         decimal.Decimal     `json:"total"`
	ShippingFee   decimal.Decimal     `json:"envio"`
	Status        enums.SaleStatus    `json:"estadoVenta"`
	Notes         string              `json:"observaciones"`
	User          *users.User         `json:"user"`
}

// DetailDTO is one flattened order-detail record, wire-compatible with the
// upstream dto endpoint.
type DetailDTO struct {
	Quantity     int             `json:"cantidad"`
	AppliedPrice decimal.Decimal `json:"precioAplicado"`
	ProductID    int64           `json:"productoId"`
	SaleID       int64           `json:"ventaId"`
	IsPromotion  bool            `json:"esPromocion"`
}

package models

import "time"

// CartSnapshot persists one serialized cart bucket per key for deployments
// that prefer SQL over Redis as the cart persistence port.
type CartSnapshot struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Payload   string    `gorm:"column:payload;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the goose-managed table name.
func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}

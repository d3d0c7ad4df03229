package models

import "time"

type CartStatus string

const (
	CartStatusActive    CartStatus = "active"    // in the buyer's cart
	CartStatusOrdered   CartStatus = "ordered"   // consumed by a checkout
	CartStatusCancelled CartStatus = "cancelled" // removed by the buyer
)

// CartLine pairs a buyer with a product. Lines are never deleted; they move
// through active → ordered/cancelled. At most one line per (user, product)
// may be active at a time — repeated adds merge into it.
type CartLine struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	ProductID uint       `gorm:"index;not null" json:"product_id"`
	Product   Product    `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int        `gorm:"not null" json:"quantity"`
	Status    CartStatus `gorm:"type:VARCHAR(20);default:'active';index" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

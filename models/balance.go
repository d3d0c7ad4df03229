package models

import "time"

// BalanceEntry is one append-only ledger row for a seller. ChangeAmount is
// signed (credits positive, debits negative) and BalanceAfter must equal the
// seller's previous BalanceAfter plus ChangeAmount. Rows are never updated
// or deleted.
type BalanceEntry struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	SellerID  uint  `gorm:"index;not null" json:"seller_id"`
	InvoiceID *uint `gorm:"index" json:"invoice_id,omitempty"`

	Note         string    `json:"note"`
	ChangeAmount int64     `gorm:"not null" json:"change_amount"`
	BalanceAfter int64     `gorm:"not null" json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}

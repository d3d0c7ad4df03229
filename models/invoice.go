package models

import "time"

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusFailed  InvoiceStatus = "failed"
)

// Invoice is an immutable snapshot of a buyer's order at checkout time.
// Status starts pending and flips exactly once to paid or failed; only the
// gateway webhook handler performs that transition.
type Invoice struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	// Code is the human-readable reference (INV-<year>-<seq>) the gateway
	// sees as external_id. Sequence resets each year.
	Code   string        `gorm:"uniqueIndex;not null" json:"code"`
	Amount int64         `gorm:"not null" json:"amount"`
	Status InvoiceStatus `gorm:"type:VARCHAR(20);default:'pending';index" json:"status"`

	// PaymentURL is the gateway-hosted payment page for this invoice.
	PaymentURL     string     `json:"payment_url"`
	PaymentMethod  string     `json:"payment_method"`
	PaymentChannel string     `json:"payment_channel"`
	PaidAt         *time.Time `json:"paid_at"`

	// DownloadToken gates e-book delivery; minted when the invoice is paid.
	DownloadToken string `gorm:"index" json:"-"`

	Lines     []InvoiceLine `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt time.Time     `json:"created_at"`
}

// InvoiceLine preserves the unit price at purchase time, independent of
// later product edits. SellerID is denormalized for ledger crediting.
type InvoiceLine struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	InvoiceID   uint   `gorm:"index;not null" json:"invoice_id"`
	ProductID   uint   `gorm:"not null" json:"product_id"`
	SellerID    uint   `gorm:"index;not null" json:"seller_id"`
	ProductName string `json:"product_name"`
	UnitAmount  int64  `gorm:"not null" json:"unit_amount"`
	Quantity    int    `gorm:"not null" json:"quantity"`
	IsDownload  bool   `json:"is_download"`
}

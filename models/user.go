package models

import "time"

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"unique;not null" json:"email"`
	Name     string `json:"name"`
	IsSeller bool   `gorm:"default:false" json:"is_seller"`

	// LedgerSeq is bumped (under the enclosing transaction) before every
	// balance write so concurrent ledger mutations for the same seller
	// serialize on this row.
	LedgerSeq uint `json:"-"`

	Products  []Product `gorm:"foreignKey:SellerID" json:"-"`
	Invoices  []Invoice `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

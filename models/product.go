package models

import "time"

// Product is an e-book listing owned by a seller. Prices are minor units.
// Stock is only ever decremented by checkout.
type Product struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerID    uint   `gorm:"index;not null" json:"seller_id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Price       int64  `gorm:"not null" json:"price"`
	// FakePrice is the strike-through price shown next to the real one.
	FakePrice  int64      `json:"fake_price"`
	Stock      int        `gorm:"not null;default:0" json:"stock"`
	IsDownload bool       `gorm:"default:true" json:"is_download"`
	SaleStart  *time.Time `json:"sale_start"`
	SaleEnd    *time.Time `json:"sale_end"`

	Detail *ProductDetail `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"detail,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductDetail is the optional bibliographic sub-record of a product.
type ProductDetail struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	ProductID  uint   `gorm:"uniqueIndex;not null" json:"-"`
	Author     string `json:"author"`
	Publisher  string `json:"publisher"`
	ISBN       string `json:"isbn"`
	PageCount  int    `json:"page_count"`
	FileFormat string `json:"file_format"`
	FileSizeKB int    `json:"file_size_kb"`
}

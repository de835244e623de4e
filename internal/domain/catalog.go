package domain

import "time"

type ProductType string

const (
	ProductSimple  ProductType = "simple"
	ProductDigital ProductType = "digital"
)

// Fileable type tags stored on digital_files. A digital file hangs off either
// a product or one of its variations; this service only ever follows the
// resulting file reference.
const (
	FileableProduct   = "product"
	FileableVariation = "variation"
)

type Shop struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Product struct {
	ID          int64        `json:"id"`
	ShopID      int64        `json:"shop_id"`
	Shop        *Shop        `json:"shop,omitempty"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Description string       `json:"description,omitempty"`
	Price       float64      `json:"price"`
	SalePrice   *float64     `json:"sale_price,omitempty"`
	ProductType ProductType  `json:"product_type"`
	DigitalFile *DigitalFile `json:"digital_file,omitempty" gorm:"polymorphic:Fileable;polymorphicValue:product"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// IsFree reports whether the product can be claimed without a purchase:
// price is zero, or a sale price is set and is zero.
func (p *Product) IsFree() bool {
	if p.Price == 0 {
		return true
	}
	return p.SalePrice != nil && *p.SalePrice == 0
}

// DigitalFile links a sellable item to its stored media asset.
// AttachmentID is the media-library model id the bytes live under.
type DigitalFile struct {
	ID           int64     `json:"id"`
	AttachmentID int64     `json:"attachment_id"`
	URL          string    `json:"url"`
	FileName     string    `json:"file_name"`
	FileableID   int64     `json:"fileable_id"`
	FileableType string    `json:"fileable_type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

package model

import "time"

// Product is a catalog entry. All monetary fields are integer minor currency
// units (cents); nothing server-side ever divides by 100.
//
// StockQuantity is what sits in the back room. SaleQuantity is what is
// currently offered at the point of sale and is the only quantity a sale
// decrements. Units move from stock into sale via the restock-for-sale
// operation.
type Product struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
	Price         int64     `gorm:"not null" json:"price"`
	PriceCard     *int64    `json:"priceCard,omitempty"` // alternate price when paying by card
	StockQuantity int       `gorm:"not null;default:0" json:"stockQuantity"`
	SaleQuantity  int       `gorm:"not null;default:0" json:"saleQuantity"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Sales []Sale `json:"sales,omitempty"`
}

// UnitPrice returns the price a single unit sells for under the given payment
// method: the card price when paying by card and one is set, the cash price
// otherwise.
func (p *Product) UnitPrice(method PaymentMethod) int64 {
	if method == PaymentCard && p.PriceCard != nil && *p.PriceCard > 0 {
		return *p.PriceCard
	}
	return p.Price
}

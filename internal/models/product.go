package models

import "gorm.io/gorm"

// Product statuses. Only active products can be ordered.
const (
	ProductStatusActive     = "active"
	ProductStatusInactive   = "inactive"
	ProductStatusOutOfStock = "out_of_stock"
)

// Product represents a catalog item owned by a seller. StockQuantity is the
// single source of truth for availability on variant-less lines; it is only
// mutated by seller CRUD and by the order core's conditional
// decrement/increment operations.
type Product struct {
	ID                string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	SellerID          string  `json:"seller_id" gorm:"index;type:varchar(36)" validate:"required"`
	Name              string  `json:"name" gorm:"type:varchar(200)" validate:"required,min=3,max=200"`
	Slug              string  `json:"slug" gorm:"uniqueIndex;type:varchar(250)"`
	SKU               string  `json:"sku" gorm:"uniqueIndex;type:varchar(100)"`
	Brand             string  `json:"brand" gorm:"type:varchar(100)" validate:"required"`
	Description       string  `json:"description" validate:"required,min=10,max=2000"`
	Price             float64 `json:"price" validate:"required,gt=0"`
	DiscountPrice     float64 `json:"discount_price" validate:"omitempty,gt=0,ltfield=Price"`
	StockQuantity     int     `json:"stock_quantity" validate:"gte=0"`
	LowStockThreshold int     `json:"low_stock_threshold" gorm:"default:10" validate:"gte=0"`
	Status            string  `json:"status" gorm:"type:varchar(15);default:active" validate:"omitempty,oneof=active inactive out_of_stock"`
	IsFeatured        bool    `json:"is_featured"`
	AverageRating     float64 `json:"average_rating" gorm:"default:0"`
	TotalReviews      int     `json:"total_reviews" gorm:"default:0"`
	TotalSales        int     `json:"total_sales" gorm:"default:0"`

	Variants []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID"`
	gorm.Model
}

// UnitPrice returns the effective base price for a line against this
// product: the discount price when one is set, otherwise the list price.
// Variant price adjustments are applied on top of this.
func (p *Product) UnitPrice() float64 {
	if p.DiscountPrice > 0 {
		return p.DiscountPrice
	}
	return p.Price
}

// ProductVariant adds size/color dimensions to a product with its own stock
// counter and a price adjustment over the product's base price. When a line
// item names a variant, stock and price are drawn from the variant.
type ProductVariant struct {
	ID              string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ProductID       string  `json:"product_id" gorm:"index;type:varchar(36)" validate:"required"`
	Size            string  `json:"size" gorm:"type:varchar(10)" validate:"required"`
	Color           string  `json:"color" gorm:"type:varchar(50)" validate:"required"`
	ColorCode       string  `json:"color_code" gorm:"type:varchar(7)" validate:"omitempty,hexcolor"`
	SKU             string  `json:"sku" gorm:"uniqueIndex;type:varchar(100)"`
	PriceAdjustment float64 `json:"price_adjustment"` // difference from base product price
	StockQuantity   int     `json:"stock_quantity" validate:"gte=0"`
	IsActive        bool    `json:"is_active" gorm:"default:true"`
	gorm.Model
}

package models

import "gorm.io/gorm"

// Cart is a per-buyer staging area of selected items. Carts do not reserve
// stock; availability is only checked and consumed at checkout. The derived
// totals are maintained on every cart mutation and zeroed when the checkout
// transaction commits.
type Cart struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string     `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	TotalItems  int        `json:"total_items" gorm:"default:0"`
	TotalAmount float64    `json:"total_amount" gorm:"default:0"`
	Items       []CartItem `json:"items,omitempty" gorm:"foreignKey:CartID"`
	gorm.Model
}

// CartItem is a product/variant/quantity tuple inside a cart.
type CartItem struct {
	ID        string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string  `json:"cart_id" gorm:"index;type:varchar(36)"`
	ProductID string  `json:"product_id" gorm:"type:varchar(36)" validate:"required"`
	VariantID *string `json:"variant_id,omitempty" gorm:"type:varchar(36)"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price"` // effective price when the item was added
	gorm.Model
}

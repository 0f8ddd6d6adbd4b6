package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses. Delivered and cancelled are terminal.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Payment statuses, mutated independently of the order status by the
// payment reconciliation webhook.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusPartial  = "partial"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Payment methods accepted at checkout.
const (
	PaymentMethodCard   = "card"
	PaymentMethodUPI    = "upi"
	PaymentMethodWallet = "wallet"
	PaymentMethodCOD    = "cod"
)

// Order is an immutable purchase snapshot created only by the checkout
// transaction. The monetary fields are computed once at creation and never
// recomputed; TotalAmount always equals Subtotal + TaxAmount +
// ShippingAmount - DiscountAmount.
type Order struct {
	ID                string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber       string  `json:"order_number" gorm:"uniqueIndex;type:varchar(50)"`
	BuyerID           string  `json:"buyer_id" gorm:"index;type:varchar(36)"`
	ShippingAddressID string  `json:"shipping_address_id" gorm:"type:varchar(36)"`
	Status            string  `json:"status" gorm:"type:varchar(15);default:pending"`
	Subtotal          float64 `json:"subtotal"`
	TaxAmount         float64 `json:"tax_amount"`
	ShippingAmount    float64 `json:"shipping_amount"`
	DiscountAmount    float64 `json:"discount_amount"`
	TotalAmount       float64 `json:"total_amount"`
	PaymentMethod     string  `json:"payment_method" gorm:"type:varchar(10)"`
	PaymentStatus     string  `json:"payment_status" gorm:"type:varchar(10);default:pending"`
	PaymentID         string  `json:"payment_id,omitempty" gorm:"type:varchar(100)"`
	PaymentLinkID     string  `json:"payment_link_id,omitempty" gorm:"index;type:varchar(100)"`
	PaymentLinkURL    string  `json:"payment_link_url,omitempty" gorm:"type:varchar(500)"`
	Notes             string  `json:"notes,omitempty"`
	TrackingNumber    string  `json:"tracking_number,omitempty" gorm:"type:varchar(100)"`

	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	Items           []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	ShippingAddress *Address    `json:"shipping_address,omitempty" gorm:"foreignKey:ShippingAddressID"`
	Buyer           *User       `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	gorm.Model
}

// Cancellable reports whether a buyer may still cancel this order.
func (o *Order) Cancellable() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

// VariantDetails is the size/color snapshot stored on an order item when the
// line was placed against a variant.
type VariantDetails struct {
	Size      string `json:"size"`
	Color     string `json:"color"`
	ColorCode string `json:"color_code,omitempty"`
}

// OrderItem snapshots one order line at purchase time. ProductName,
// ProductSKU, VariantDetails and the prices are copies, not references:
// later catalog edits or deletions must never alter them. VariantID records
// which stock counter governed the line so that cancellation restores the
// same counter.
type OrderItem struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID        string          `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID      string          `json:"product_id" gorm:"type:varchar(36)"`
	VariantID      *string         `json:"variant_id,omitempty" gorm:"type:varchar(36)"`
	Quantity       int             `json:"quantity"`
	UnitPrice      float64         `json:"unit_price"`
	TotalPrice     float64         `json:"total_price"`
	ProductName    string          `json:"product_name" gorm:"type:varchar(200)"`
	ProductSKU     string          `json:"product_sku" gorm:"type:varchar(100)"`
	VariantDetails *VariantDetails `json:"variant_details,omitempty" gorm:"serializer:json"`
	gorm.Model
}

package models

import "gorm.io/gorm"

// Return request statuses.
const (
	ReturnStatusRequested = "requested"
	ReturnStatusApproved  = "approved"
	ReturnStatusRejected  = "rejected"
	ReturnStatusRefunded  = "refunded"
)

// ReturnRequest is a buyer's request to return a delivered order item. It
// references the OrderItem snapshot, not live catalog data.
type ReturnRequest struct {
	ID           string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID      string  `json:"order_id" gorm:"index;type:varchar(36)" validate:"required"`
	OrderItemID  string  `json:"order_item_id" gorm:"type:varchar(36)" validate:"required"`
	BuyerID      string  `json:"buyer_id" gorm:"index;type:varchar(36)"`
	Reason       string  `json:"reason" validate:"required,max=500"`
	Status       string  `json:"status" gorm:"type:varchar(10);default:requested"`
	RefundAmount float64 `json:"refund_amount"`
	gorm.Model
}

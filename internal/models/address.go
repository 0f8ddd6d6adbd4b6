package models

import "gorm.io/gorm"

// Address is a shipping address owned by a buyer. Orders reference an
// address by id; the address row itself is not copied into the order.
type Address struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID       string `json:"user_id" gorm:"index;type:varchar(36)" validate:"required"`
	Type         string `json:"type" gorm:"type:varchar(10);default:home" validate:"omitempty,oneof=home work other"`
	FirstName    string `json:"first_name" gorm:"type:varchar(50)" validate:"required"`
	LastName     string `json:"last_name" gorm:"type:varchar(50)" validate:"required"`
	Phone        string `json:"phone" gorm:"type:varchar(15)" validate:"required"`
	AddressLine1 string `json:"address_line_1" gorm:"type:varchar(200)" validate:"required"`
	AddressLine2 string `json:"address_line_2" gorm:"type:varchar(200)"`
	City         string `json:"city" gorm:"type:varchar(100)" validate:"required"`
	State        string `json:"state" gorm:"type:varchar(100)" validate:"required"`
	PostalCode   string `json:"postal_code" gorm:"type:varchar(20)" validate:"required"`
	Country      string `json:"country" gorm:"type:varchar(100);default:India" validate:"required"`
	IsDefault    bool   `json:"is_default"`
	gorm.Model
}

package models

import "gorm.io/gorm"

// Roles a user can hold. Admins are provisioned out of band; registration
// only accepts buyer and seller.
const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
	RoleBuyer  = "buyer"
)

// User represents an account: a buyer, a seller or an admin.
type User struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email       string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password    string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Role        string `json:"role" gorm:"type:varchar(10);default:buyer" validate:"omitempty,oneof=admin seller buyer"`
	FirstName   string `json:"first_name" gorm:"type:varchar(50)" validate:"required,max=50"`
	LastName    string `json:"last_name" gorm:"type:varchar(50)" validate:"required,max=50"`
	Phone       string `json:"phone" gorm:"type:varchar(15)" validate:"omitempty,max=15"`
	CompanyName string `json:"company_name,omitempty" gorm:"type:varchar(150)"` // sellers only
	IsActive    bool   `json:"is_active" gorm:"default:true"`
	gorm.Model         // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

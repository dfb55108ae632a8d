package models

import "time"

// User roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents a registered shopper or a member of staff.
type User struct {
	ID           string        `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username     string        `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email        string        `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password     string        `json:"password,omitempty" gorm:"type:varchar(255)" validate:"required,min=6"`
	Role         string        `json:"role" gorm:"type:varchar(20);default:customer"`
	StyleProfile *StyleProfile `json:"style_profile,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Sanitized returns a copy of the user that is safe to serialise.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

package models

import "time"

// User represents a registered customer account.
type User struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	Email            string     `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email"`
	PasswordHash     string     `json:"-" gorm:"type:varchar(255);not null"`
	FirstName        string     `json:"firstName" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	LastName         string     `json:"lastName" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	Phone            string     `json:"phone" gorm:"type:varchar(20)" validate:"omitempty,min=10"`
	CountryCode      string     `json:"countryCode" gorm:"type:varchar(5);default:'+90'"`
	BirthDate        *time.Time `json:"birthDate,omitempty"`
	Gender           string     `json:"gender,omitempty" gorm:"type:varchar(10)"`
	IsVerified       bool       `json:"isVerified" gorm:"default:false"`
	VerificationCode string     `json:"-" gorm:"type:varchar(6)"`
	LastLogin        *time.Time `json:"lastLogin,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

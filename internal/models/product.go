package models

import (
	"math"
	"time"
)

// Category groups products in the catalog.
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required,max=100"`
	Description string    `json:"description,omitempty"`
	SortOrder   int       `json:"sortOrder" gorm:"default:0"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`

	// ProductCount is filled by category listings, not persisted.
	ProductCount int64 `json:"productCount" gorm:"->;-:migration"`
}

// Product represents a catalog item.
//
// Rating and ReviewCount are derived aggregates: they are only ever written
// by the review repository when a review is inserted, never by catalog
// updates.
type Product struct {
	ID               uint     `json:"id" gorm:"primaryKey"`
	Name             string   `json:"name" gorm:"type:varchar(255);not null" validate:"required,min=3,max=255"`
	Slug             string   `json:"slug" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,max=255"`
	Description      string   `json:"description,omitempty"`
	ShortDescription string   `json:"shortDescription,omitempty" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	Price            float64  `json:"price" gorm:"not null" validate:"required,gt=0"`
	DiscountPrice    *float64 `json:"discountPrice,omitempty" validate:"omitempty,gt=0,ltefield=Price"`
	ImageURL         string   `json:"imageUrl,omitempty" gorm:"type:varchar(500)"`
	CategoryID       uint     `json:"categoryId"`
	Brand            string   `json:"brand,omitempty" gorm:"type:varchar(100)"`
	Model            string   `json:"model,omitempty" gorm:"type:varchar(100)"`
	Color            string   `json:"color,omitempty" gorm:"type:varchar(50)"`
	WarrantyPeriod   int      `json:"warrantyPeriod,omitempty"`
	Stock            int      `json:"stock" gorm:"default:0" validate:"gte=0"`
	MinStock         int      `json:"minStock" gorm:"default:5"`
	ViewCount        int      `json:"viewCount" gorm:"default:0"`
	Rating           float64  `json:"rating" gorm:"default:0"`
	ReviewCount      int      `json:"reviewCount" gorm:"default:0"`

	// No gorm default tags on the flags: a default tag on a bool makes GORM
	// drop false from the INSERT, so an inactive row could never be stored.
	IsActive   bool `json:"isActive"`
	IsFeatured bool `json:"isFeatured"`

	Category  *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// DiscountPercentage is computed from Price/DiscountPrice on reads.
	DiscountPercentage int `json:"discountPercentage" gorm:"-"`
}

// ComputeDiscountPercentage fills DiscountPercentage from the current price
// pair: round((price - discountPrice) / price * 100), or 0 when there is no
// discount.
func (p *Product) ComputeDiscountPercentage() {
	if p.DiscountPrice == nil || p.Price <= 0 {
		p.DiscountPercentage = 0
		return
	}
	p.DiscountPercentage = int(math.Round((p.Price - *p.DiscountPrice) / p.Price * 100))
}

package models

import "time"

// CartEntry is one (user, product) line of a shopping cart. The unique index
// guarantees at most one row per pair; re-adding a product increments
// Quantity instead of inserting a second row.
type CartEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID uint      `json:"productId" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1" validate:"required,gte=1"`
	AddedAt   time.Time `json:"addedAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt"`

	User    *User    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (CartEntry) TableName() string {
	return "cart_entries"
}

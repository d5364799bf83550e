package models

import "time"

// Favorite marks a product as favorited by a user; existence of the row is
// the whole state.
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_favorite_user_product"`
	ProductID uint      `json:"productId" gorm:"not null;uniqueIndex:idx_favorite_user_product"`
	CreatedAt time.Time `json:"createdAt"`

	User    *User    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// RecentlyViewed remembers the last time a signed-in user opened a product
// detail page. Re-viewing bumps ViewedAt in place.
type RecentlyViewed struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_recent_user_product"`
	ProductID uint      `json:"productId" gorm:"not null;uniqueIndex:idx_recent_user_product"`
	ViewedAt  time.Time `json:"viewedAt"`

	User    *User    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (RecentlyViewed) TableName() string {
	return "recently_viewed"
}

package models

import "time"

// Review is a customer review of a product. A user may review each product
// at most once; the unique index backs the check in the repository.
//
// HelpfulCount and NotHelpfulCount are derived from ReviewVote rows and are
// recomputed whenever a vote changes.
type Review struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	ProductID          uint      `json:"productId" gorm:"not null;uniqueIndex:idx_review_product_user"`
	UserID             uint      `json:"userId" gorm:"not null;uniqueIndex:idx_review_product_user"`
	Rating             int       `json:"rating" gorm:"not null" validate:"required,gte=1,lte=5"`
	Title              string    `json:"title,omitempty" gorm:"type:varchar(200)" validate:"omitempty,max=200"`
	Comment            string    `json:"comment" gorm:"not null" validate:"required"`
	IsVerifiedPurchase bool      `json:"isVerifiedPurchase" gorm:"default:false"`
	HelpfulCount       int       `json:"helpfulCount" gorm:"default:0"`
	NotHelpfulCount    int       `json:"notHelpfulCount" gorm:"default:0"`
	IsApproved         bool      `json:"isApproved" gorm:"default:false"`
	CreatedAt          time.Time `json:"createdAt"`

	User    *User    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Product *Product `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// ReviewVote records one user's helpful / not-helpful vote on a review.
// Resubmitting the same value retracts the vote; the opposite value flips it.
type ReviewVote struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ReviewID  uint      `json:"reviewId" gorm:"not null;uniqueIndex:idx_vote_review_user"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_vote_review_user"`
	IsHelpful bool      `json:"isHelpful" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`

	Review *Review `json:"-" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
	User   *User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

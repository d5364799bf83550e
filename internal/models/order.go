package models

import "time"

// Order statuses. The only legal transitions are pending -> completed and
// pending -> cancelled.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known status values.
func ValidOrderStatus(s string) bool {
	return s == OrderStatusPending || s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Order is an immutable snapshot of a checked-out cart. Apart from Status,
// nothing on a placed order is ever updated.
type Order struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	UserID        uint        `json:"userId" gorm:"not null;index"`
	OrderNumber   string      `json:"orderNumber" gorm:"uniqueIndex;type:varchar(50);not null"`
	CustomerName  string      `json:"customerName" gorm:"type:varchar(200)"`
	CustomerEmail string      `json:"customerEmail" gorm:"type:varchar(255)"`
	CustomerPhone string      `json:"customerPhone" gorm:"type:varchar(20)"`
	TotalAmount   float64     `json:"totalAmount" gorm:"not null"`
	Status        string      `json:"status" gorm:"type:varchar(50);default:'pending'"`
	Items         []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// OrderItem freezes a product's name and price at purchase time. Later
// catalog edits do not touch these rows.
type OrderItem struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	OrderID      uint      `json:"orderId" gorm:"not null;index"`
	ProductID    uint      `json:"productId" gorm:"not null"`
	ProductName  string    `json:"productName" gorm:"type:varchar(255);not null"`
	ProductPrice float64   `json:"productPrice" gorm:"not null"`
	Quantity     int       `json:"quantity" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt"`
}

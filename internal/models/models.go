package models

import (
	"time"
)

const (
	OrderStatusPending = "pending"
	OrderStatusShipped = "shipped"
)

// Account is created on first login and reconciled against the identity
// provider on every callback. GoogleID and Email are both unique anchors.
type Account struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	GoogleID string `gorm:"uniqueIndex;not null"     json:"-"`
	Email    string `gorm:"uniqueIndex;not null"     json:"email"`
	Name     string `json:"name"`
	Picture  string `json:"picture"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string    `gorm:"not null"                  json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null;check:price >= 0" json:"price"`
	Stock       int       `gorm:"not null;check:stock >= 0" json:"stock"`
	ImageURL    string    `gorm:"not null"                  json:"image_url"`
	SellerID    uint      `gorm:"index;not null"            json:"seller_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type Order struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	BuyerID   uint      `gorm:"index;not null"            json:"buyer_id"`
	ProductID uint      `gorm:"index;not null"            json:"product_id"`
	Product   Product   `json:"product"`
	Quantity  int       `gorm:"not null;default:1"        json:"quantity"`
	Status    string    `gorm:"not null;default:pending"  json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the only server-side request state: an opaque cookie token,
// the logged-in account (0 before the callback completes) and the
// transient oauth state.
type Session struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Token      string `gorm:"uniqueIndex;not null"     json:"-"`
	UserID     uint   `gorm:"index"                    json:"user_id"`
	OAuthState string `json:"-"`
	ExpiresAt  int64  `gorm:"not null"                 json:"expires_at"`
	Revoked    bool   `gorm:"default:false"            json:"-"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address represents a single address entry for a user. At most one address
// may have IsDefault set; the handlers demote prior defaults on write.
type Address struct {
	ID        string `bson:"id" json:"id"`
	Label     string `bson:"label" json:"label"`
	Line1     string `bson:"line1" json:"line1"`
	Line2     string `bson:"line2,omitempty" json:"line2,omitempty"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state,omitempty" json:"state,omitempty"`
	Pincode   string `bson:"pincode" json:"pincode"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
	IsDefault bool   `bson:"isDefault" json:"isDefault"`
}

// CartItem is one cart entry. The cart holds at most one entry per product;
// adding an existing product increments Quantity instead of appending.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	AddedAt   time.Time          `bson:"addedAt" json:"addedAt"`
}

// WishlistItem is one wishlist entry, unique per product.
type WishlistItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	AddedAt   time.Time          `bson:"addedAt" json:"addedAt"`
}

// User represents the application user account.
type User struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Email         string               `bson:"email" json:"email"`
	PasswordHash  string               `bson:"passwordHash" json:"-"`
	Name          string               `bson:"name" json:"name"`
	Phone         string               `bson:"phone,omitempty" json:"phone,omitempty"`
	Role          string               `bson:"role" json:"role"`
	EmailVerified bool                 `bson:"emailVerified" json:"emailVerified"`
	Addresses     []Address            `bson:"addresses" json:"addresses"`
	Cart          []CartItem           `bson:"cart" json:"cart"`
	Wishlist      []WishlistItem       `bson:"wishlist" json:"wishlist"`
	Orders        []primitive.ObjectID `bson:"orders,omitempty" json:"orders,omitempty"`
	Version       int64                `bson:"version" json:"version"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

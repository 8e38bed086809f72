// Package cart holds the pure reconciliation rules for user carts and
// wishlists. The handlers load the user document, run these helpers on the
// embedded slices and write the result back in one CAS-guarded update.
package cart

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/models"
)

// Add merges quantity units of productID into items. An existing entry is
// incremented in place and keeps its original addedAt; otherwise a fresh
// entry is appended with addedAt = now.
func Add(items []models.CartItem, productID primitive.ObjectID, quantity int, now time.Time) []models.CartItem {
	if quantity <= 0 {
		quantity = 1
	}
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			return items
		}
	}
	return append(items, models.CartItem{
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   now,
	})
}

// SetQuantity overwrites the quantity for productID. A non-positive quantity
// removes the entry; setting an absent product with quantity <= 0 is a no-op.
func SetQuantity(items []models.CartItem, productID primitive.ObjectID, quantity int) []models.CartItem {
	if quantity <= 0 {
		return Remove(items, productID)
	}
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			return items
		}
	}
	return items
}

// Remove filters the entry for productID out. Absent products are not an
// error; the slice comes back unchanged.
func Remove(items []models.CartItem, productID primitive.ObjectID) []models.CartItem {
	filtered := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.ProductID == productID {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// Normalize collapses a client-supplied cart into the stored shape: one
// entry per product (duplicate ids merge their quantities, first addedAt
// wins), non-positive quantities dropped. Sync replaces the stored cart
// with this normalized sequence, last write wins.
func Normalize(items []models.CartItem, now time.Time) []models.CartItem {
	merged := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if item.AddedAt.IsZero() {
			item.AddedAt = now
		}
		found := false
		for i := range merged {
			if merged[i].ProductID == item.ProductID {
				merged[i].Quantity += item.Quantity
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, item)
		}
	}
	return merged
}

// AddToWishlist appends productID only when absent, so repeated adds leave
// the wishlist unchanged.
func AddToWishlist(items []models.WishlistItem, productID primitive.ObjectID, now time.Time) []models.WishlistItem {
	for _, item := range items {
		if item.ProductID == productID {
			return items
		}
	}
	return append(items, models.WishlistItem{ProductID: productID, AddedAt: now})
}

// RemoveFromWishlist filters the entry for productID out.
func RemoveFromWishlist(items []models.WishlistItem, productID primitive.ObjectID) []models.WishlistItem {
	filtered := make([]models.WishlistItem, 0, len(items))
	for _, item := range items {
		if item.ProductID == productID {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/models"
)

func TestAddIncrementsExistingEntry(t *testing.T) {
	now := time.Now()
	productID := primitive.NewObjectID()

	items := Add(nil, productID, 2, now)
	items = Add(items, productID, 3, now.Add(time.Minute))

	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, now, items[0].AddedAt, "addedAt must keep the original entry time")
}

func TestAddIsAssociativeInEffect(t *testing.T) {
	now := time.Now()
	productID := primitive.NewObjectID()

	split := Add(Add(nil, productID, 2, now), productID, 3, now)
	single := Add(nil, productID, 5, now)

	require.Len(t, split, 1)
	require.Len(t, single, 1)
	assert.Equal(t, single[0].Quantity, split[0].Quantity)
}

func TestAddDefaultsNonPositiveQuantityToOne(t *testing.T) {
	items := Add(nil, primitive.NewObjectID(), 0, time.Now())
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestSetQuantityOverwrites(t *testing.T) {
	now := time.Now()
	productID := primitive.NewObjectID()

	items := Add(nil, productID, 4, now)
	items = SetQuantity(items, productID, 1)

	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestSetQuantityNonPositiveRemoves(t *testing.T) {
	now := time.Now()
	productID := primitive.NewObjectID()

	for _, quantity := range []int{0, -1} {
		items := Add(nil, productID, 2, now)
		items = SetQuantity(items, productID, quantity)
		assert.Empty(t, items)
	}
}

func TestSetQuantityAbsentProductNonPositiveIsNoop(t *testing.T) {
	now := time.Now()
	items := Add(nil, primitive.NewObjectID(), 2, now)

	result := SetQuantity(items, primitive.NewObjectID(), 0)

	assert.Equal(t, items, result)
}

func TestReAddAfterRemovalResetsAddedAt(t *testing.T) {
	first := time.Now()
	later := first.Add(time.Hour)
	productID := primitive.NewObjectID()

	items := Add(nil, productID, 2, first)
	items = SetQuantity(items, productID, 0)
	items = Add(items, productID, 1, later)

	require.Len(t, items, 1)
	assert.Equal(t, later, items[0].AddedAt)
}

func TestRemoveAbsentProductIsNoError(t *testing.T) {
	now := time.Now()
	kept := primitive.NewObjectID()

	items := Add(nil, kept, 1, now)
	items = Remove(items, primitive.NewObjectID())

	require.Len(t, items, 1)
	assert.Equal(t, kept, items[0].ProductID)
}

func TestNormalizeMergesDuplicatesAndDropsEmpties(t *testing.T) {
	now := time.Now()
	productID := primitive.NewObjectID()
	other := primitive.NewObjectID()

	incoming := []models.CartItem{
		{ProductID: productID, Quantity: 2, AddedAt: now},
		{ProductID: other, Quantity: 0},
		{ProductID: productID, Quantity: 3, AddedAt: now.Add(time.Minute)},
	}

	result := Normalize(incoming, now)

	require.Len(t, result, 1)
	assert.Equal(t, productID, result[0].ProductID)
	assert.Equal(t, 5, result[0].Quantity)
	assert.Equal(t, now, result[0].AddedAt)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	now := time.Now()
	incoming := []models.CartItem{
		{ProductID: primitive.NewObjectID(), Quantity: 2, AddedAt: now},
		{ProductID: primitive.NewObjectID(), Quantity: 1, AddedAt: now},
	}

	once := Normalize(incoming, now)
	twice := Normalize(once, now)

	assert.Equal(t, once, twice)
}

func TestAddToWishlistIsIdempotent(t *testing.T) {
	now := time.Now()
	productID := primitive.NewObjectID()

	items := AddToWishlist(nil, productID, now)
	items = AddToWishlist(items, productID, now.Add(time.Minute))

	require.Len(t, items, 1)
	assert.Equal(t, now, items[0].AddedAt)
}

func TestRemoveFromWishlist(t *testing.T) {
	now := time.Now()
	productID := primitive.NewObjectID()

	items := AddToWishlist(nil, productID, now)
	items = RemoveFromWishlist(items, productID)

	assert.Empty(t, items)
}

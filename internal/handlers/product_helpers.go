package handlers

import (
	"context"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/models"
)

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// slugify builds a URL-safe slug from a name: lowercase, non-alphanumerics
// collapsed to single dashes.
func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// decodeProducts drains a cursor and fills the derived fields the bson
// layer does not store.
func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	for i := range products {
		finalizeProduct(&products[i])
	}
	return products, nil
}

func finalizeProduct(p *models.Product) {
	p.IsOnSale = isProductOnSale(p.Price, p.SaleEnabled, p.SalePrice)
	p.InStock = p.Stock > 0
	if p.Reviews == nil {
		p.Reviews = []models.Review{}
	}
}

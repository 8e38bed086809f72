package handlers

import (
	"testing"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/models"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Organic Green Tea", "organic-green-tea"},
		{"  Neem Oil (500ml)!  ", "neem-oil-500ml"},
		{"Already-Slugged", "already-slugged"},
		{"___", ""},
	}
	for _, tt := range tests {
		if got := slugify(tt.name); got != tt.want {
			t.Fatalf("slugify(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFinalizeProductDerivedFields(t *testing.T) {
	p := models.Product{Price: 100, SaleEnabled: true, SalePrice: 80, Stock: 3}
	finalizeProduct(&p)
	if !p.IsOnSale {
		t.Fatal("expected IsOnSale to be true")
	}
	if !p.InStock {
		t.Fatal("expected InStock to be true")
	}
	if p.Reviews == nil {
		t.Fatal("expected Reviews to be non-nil")
	}

	p = models.Product{Price: 100, Stock: 0}
	finalizeProduct(&p)
	if p.IsOnSale || p.InStock {
		t.Fatalf("expected derived fields false, got isOnSale=%v inStock=%v", p.IsOnSale, p.InStock)
	}
}

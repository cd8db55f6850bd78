package service

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/productdash_api/internal/models"
)

// Default values applied to newly created products.
const (
	DefaultRating  = 5
	DefaultTerjual = 0
	minRating      = 1
	maxRating      = 5
)

// NormalizeProduct returns a copy of p with numeric fields coerced and, for
// new products, defaults filled in. Applying it twice gives the same result
// as applying it once.
func NormalizeProduct(p models.Product, isNew bool) models.Product {
	n := p.Clone()

	if isNew {
		if n.Terjual == nil {
			n.Terjual = models.NewNumber(DefaultTerjual)
		}
		if n.Rating == nil {
			n.Rating = models.NewNumber(DefaultRating)
		}
		if models.StringValue(n.Gambar) == "" {
			n.Gambar = models.StringPtr("")
		}
		if models.StringValue(n.Stok) == "" {
			n.Stok = models.StringPtr(models.StockInStock)
		}
	}

	if n.Terjual != nil {
		n.Terjual = models.NewNumber(coerceTerjual(n.Terjual))
	}
	if n.Rating != nil {
		n.Rating = models.NewNumber(coerceRating(n.Rating))
	}

	for i := range n.Varian {
		v := &n.Varian[i]
		asli, ok := v.HargaAsli.Float64()
		if !ok {
			asli = 0
		}
		diskon, ok := v.HargaDiskon.Float64()
		if !ok {
			diskon = asli
		}
		v.HargaAsli = models.NewNumber(asli)
		v.HargaDiskon = models.NewNumber(diskon)
	}

	return n
}

func coerceTerjual(n *models.Number) float64 {
	v, ok := n.Float64()
	if !ok {
		return DefaultTerjual
	}
	return math.Trunc(v)
}

// coerceRating clamps to [1, 5] first and then rounds to one decimal.
func coerceRating(n *models.Number) float64 {
	v, ok := n.Float64()
	if !ok {
		return DefaultRating
	}
	v = math.Max(minRating, math.Min(maxRating, v))
	// Round the shortest decimal form of v, not its binary expansion.
	rounded, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return rounded
}

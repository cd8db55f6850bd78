package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/productdash_api/internal/models"
)

func TestNormalizeProduct_Defaults(t *testing.T) {
	n := NormalizeProduct(validProduct(), true)

	assert.Equal(t, "0", numText(n.Terjual))
	assert.Equal(t, "5", numText(n.Rating))
	assert.Equal(t, "", models.StringValue(n.Gambar))
	require.NotNil(t, n.Gambar)
	assert.Equal(t, models.StockInStock, models.StringValue(n.Stok))
	assert.Equal(t, "50000", numText(n.Varian[0].HargaDiskon))
}

func TestNormalizeProduct_UpdateKeepsAbsentFields(t *testing.T) {
	p := models.Product{Nama: models.StringPtr("Shirt")}
	n := NormalizeProduct(p, false)

	assert.Nil(t, n.Terjual)
	assert.Nil(t, n.Rating)
	assert.Nil(t, n.Stok)
	assert.Nil(t, n.Gambar)
}

func TestNormalizeProduct_Rating(t *testing.T) {
	tests := []struct {
		in   *models.Number
		want float64
	}{
		{models.NewNumber(7), 5},
		{models.NewNumber(0.33), 1},
		{models.NewNumber(-2), 1},
		{models.NewNumber(4.26), 4.3},
		{models.NewNumber(3.14159), 3.1},
		{models.NumberFromString("4.44"), 4.4},
		{models.NewNumber(4.45), 4.5},
		{models.NewNumber(1.15), 1.2},
		{models.NumberFromString("abc"), 5},
	}
	for _, tt := range tests {
		t.Run(numText(tt.in), func(t *testing.T) {
			p := validProduct()
			p.Rating = tt.in
			got, ok := NormalizeProduct(p, true).Rating.Float64()
			require.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.True(t, NormalizeProduct(p, true).Rating.IsLiteral())
		})
	}
}

func TestNormalizeProduct_Terjual(t *testing.T) {
	p := validProduct()
	p.Terjual = models.NumberFromString("12.9")
	assert.Equal(t, "12", numText(NormalizeProduct(p, false).Terjual))

	p.Terjual = models.NumberFromString("lots")
	assert.Equal(t, "0", numText(NormalizeProduct(p, false).Terjual))
}

func TestNormalizeProduct_VariantPrices(t *testing.T) {
	p := validProduct()
	p.Varian = []models.Variant{
		{Name: "A", HargaAsli: models.NewNumber(1000)},
		{Name: "B", HargaAsli: models.NumberFromString("2000"), HargaDiskon: models.NumberFromString("1500")},
		{Name: "C", HargaAsli: models.NumberFromString("mahal")},
	}
	n := NormalizeProduct(p, false)

	assert.Equal(t, "1000", numText(n.Varian[0].HargaDiskon))
	assert.True(t, n.Varian[1].HargaAsli.IsLiteral())
	assert.Equal(t, "2000", numText(n.Varian[1].HargaAsli))
	assert.Equal(t, "1500", numText(n.Varian[1].HargaDiskon))
	assert.Equal(t, "0", numText(n.Varian[2].HargaAsli))
	assert.Equal(t, "0", numText(n.Varian[2].HargaDiskon))

	// input untouched
	assert.Nil(t, p.Varian[0].HargaDiskon)
	assert.False(t, p.Varian[1].HargaAsli.IsLiteral())
}

func TestNormalizeProduct_Idempotent(t *testing.T) {
	p := validProduct()
	p.Rating = models.NumberFromString("4.26")
	p.Terjual = models.NewNumber(3.7)
	p.Extra = map[string]json.RawMessage{"kategori": json.RawMessage(`"baju"`)}

	once := NormalizeProduct(p, true)
	twice := NormalizeProduct(once, true)

	a, err := json.Marshal(once)
	require.NoError(t, err)
	b, err := json.Marshal(twice)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

// numText returns n as it would be written to the catalog file.
func numText(n *models.Number) string {
	b, _ := json.Marshal(n)
	return string(b)
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GTDGit/productdash_api/internal/models"
)

func validProduct() models.Product {
	return models.Product{
		Nama:             models.StringPtr("Shirt"),
		DeskripsiSingkat: models.StringPtr("S"),
		DeskripsiLengkap: models.StringPtr("L"),
		Varian: []models.Variant{
			{Name: "Red", HargaAsli: models.NewNumber(50000)},
		},
	}
}

func TestValidateProduct_Create(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *models.Product)
		want   []string
	}{
		{
			name:   "valid",
			mutate: func(p *models.Product) {},
		},
		{
			name: "missing required text",
			mutate: func(p *models.Product) {
				p.Nama = nil
				p.DeskripsiSingkat = models.StringPtr("   ")
				p.DeskripsiLengkap = models.StringPtr("")
			},
			want: []string{
				"Nama produk harus diisi",
				"Deskripsi singkat harus diisi",
				"Deskripsi lengkap harus diisi",
			},
		},
		{
			name:   "unknown stok",
			mutate: func(p *models.Product) { p.Stok = models.StringPtr("available") },
			want:   []string{"Status stok harus in-stock, low-stock, atau out-of-stock"},
		},
		{
			name:   "empty stok is ignored",
			mutate: func(p *models.Product) { p.Stok = models.StringPtr("") },
		},
		{
			name:   "negative terjual",
			mutate: func(p *models.Product) { p.Terjual = models.NewNumber(-1) },
			want:   []string{"Jumlah terjual harus berupa angka positif"},
		},
		{
			name:   "non numeric terjual",
			mutate: func(p *models.Product) { p.Terjual = models.NumberFromString("banyak") },
			want:   []string{"Jumlah terjual harus berupa angka positif"},
		},
		{
			name:   "numeric string terjual",
			mutate: func(p *models.Product) { p.Terjual = models.NumberFromString("12") },
		},
		{
			name:   "rating above range",
			mutate: func(p *models.Product) { p.Rating = models.NewNumber(7) },
			want:   []string{"Rating harus berupa angka antara 1 hingga 5"},
		},
		{
			name:   "rating below range",
			mutate: func(p *models.Product) { p.Rating = models.NewNumber(0.5) },
			want:   []string{"Rating harus berupa angka antara 1 hingga 5"},
		},
		{
			name:   "no variants",
			mutate: func(p *models.Product) { p.Varian = []models.Variant{} },
			want:   []string{"Produk harus memiliki minimal satu varian"},
		},
		{
			name: "bad variants",
			mutate: func(p *models.Product) {
				p.Varian = []models.Variant{
					{Name: "Red", HargaAsli: models.NewNumber(100)},
					{Name: " ", HargaAsli: nil},
					{Name: "Blue", HargaAsli: models.NewNumber(-5), HargaDiskon: models.NumberFromString("x")},
				}
			},
			want: []string{
				"Varian 2: Nama varian harus diisi",
				"Varian 2: Harga asli harus diisi",
				"Varian 3: Harga asli harus berupa angka positif",
				"Varian 3: Harga diskon harus berupa angka positif",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct()
			tt.mutate(&p)
			assert.Equal(t, tt.want, ValidateProduct(p, false))
		})
	}
}

func TestValidateProduct_UpdateAllowsPartial(t *testing.T) {
	patch := models.Product{Rating: models.NewNumber(4.5)}
	assert.Empty(t, ValidateProduct(patch, true))

	patch = models.Product{Varian: []models.Variant{}}
	assert.Empty(t, ValidateProduct(patch, true))

	patch = models.Product{Stok: models.StringPtr("gone")}
	assert.Equal(t, []string{"Status stok harus in-stock, low-stock, atau out-of-stock"}, ValidateProduct(patch, true))
}

func TestValidateProduct_DoesNotModifyInput(t *testing.T) {
	p := validProduct()
	assert.Empty(t, ValidateProduct(p, false))
	assert.Nil(t, p.Varian[0].HargaDiskon)
}

package service

import (
	"fmt"
	"slices"
	"strings"

	"github.com/GTDGit/productdash_api/internal/models"
)

// Response messages for rejected product payloads.
const (
	MsgInvalidProduct     = "Data produk tidak valid"
	MsgInvalidAfterUpdate = "Data produk tidak valid setelah update"
)

// ValidationError carries every problem found in a product payload.
type ValidationError struct {
	Message string
	Details []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Details, "; "))
}

// ValidateProduct checks p against the product schema and returns a
// human-readable message per problem. It never modifies p. When isUpdate is
// true, p is treated as a partial payload and required fields are not enforced.
func ValidateProduct(p models.Product, isUpdate bool) []string {
	var errs []string

	if !isUpdate {
		if isBlank(p.Nama) {
			errs = append(errs, "Nama produk harus diisi")
		}
		if isBlank(p.DeskripsiSingkat) {
			errs = append(errs, "Deskripsi singkat harus diisi")
		}
		if isBlank(p.DeskripsiLengkap) {
			errs = append(errs, "Deskripsi lengkap harus diisi")
		}
	}

	if stok := models.StringValue(p.Stok); stok != "" && !slices.Contains(models.StockStatuses, stok) {
		errs = append(errs, "Status stok harus in-stock, low-stock, atau out-of-stock")
	}

	if p.Terjual != nil {
		if v, ok := p.Terjual.Float64(); !ok || v < 0 {
			errs = append(errs, "Jumlah terjual harus berupa angka positif")
		}
	}

	if p.Rating != nil {
		if v, ok := p.Rating.Float64(); !ok || v < 1 || v > 5 {
			errs = append(errs, "Rating harus berupa angka antara 1 hingga 5")
		}
	}

	if p.Varian != nil {
		if len(p.Varian) == 0 && !isUpdate {
			errs = append(errs, "Produk harus memiliki minimal satu varian")
		}
		for i, v := range p.Varian {
			errs = append(errs, validateVariant(i+1, v)...)
		}
	}

	return errs
}

func validateVariant(n int, v models.Variant) []string {
	var errs []string
	if strings.TrimSpace(v.Name) == "" {
		errs = append(errs, fmt.Sprintf("Varian %d: Nama varian harus diisi", n))
	}
	if v.HargaAsli == nil {
		errs = append(errs, fmt.Sprintf("Varian %d: Harga asli harus diisi", n))
	} else if f, ok := v.HargaAsli.Float64(); !ok || f < 0 {
		errs = append(errs, fmt.Sprintf("Varian %d: Harga asli harus berupa angka positif", n))
	}
	// A missing harga_diskon is valid; the normalizer fills it in.
	if v.HargaDiskon != nil {
		if f, ok := v.HargaDiskon.Float64(); !ok || f < 0 {
			errs = append(errs, fmt.Sprintf("Varian %d: Harga diskon harus berupa angka positif", n))
		}
	}
	return errs
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

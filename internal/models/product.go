package models

import (
	"encoding/json"
	"fmt"
)

// Stock status values accepted in the stok field.
const (
	StockInStock    = "in-stock"
	StockLowStock   = "low-stock"
	StockOutOfStock = "out-of-stock"
)

// StockStatuses lists the valid stok values.
var StockStatuses = []string{StockInStock, StockLowStock, StockOutOfStock}

// Product is a catalog entry as stored in the JSON file on GitHub.
//
// Optional fields are pointers so that an absent field can be told apart from
// an empty one; PUT requests carry partial products and only the present
// fields override the stored record. Members not listed here are kept in
// Extra and written back untouched.
type Product struct {
	ID               string
	Nama             *string
	DeskripsiSingkat *string
	DeskripsiLengkap *string
	Stok             *string
	Terjual          *Number
	Rating           *Number
	Gambar           *string
	Varian           []Variant // nil when absent, empty when sent as []
	URL              string

	Extra map[string]json.RawMessage
}

// Variant is a purchasable option of a product with its own pricing.
type Variant struct {
	Name        string
	HargaAsli   *Number
	HargaDiskon *Number

	Extra map[string]json.RawMessage
}

// NamaValue returns the product name or an empty string.
func (p *Product) NamaValue() string {
	return StringValue(p.Nama)
}

// Clone returns a copy that shares no slices or maps with p.
func (p Product) Clone() Product {
	c := p
	c.Extra = cloneRaw(p.Extra)
	if p.Varian != nil {
		c.Varian = make([]Variant, len(p.Varian))
		for i, v := range p.Varian {
			v.Extra = cloneRaw(v.Extra)
			c.Varian[i] = v
		}
	}
	return c
}

// ApplyPatch overlays the fields present in patch onto a copy of p. The id
// and url of p are always kept.
func (p Product) ApplyPatch(patch Product) Product {
	merged := p.Clone()
	if patch.Nama != nil {
		merged.Nama = patch.Nama
	}
	if patch.DeskripsiSingkat != nil {
		merged.DeskripsiSingkat = patch.DeskripsiSingkat
	}
	if patch.DeskripsiLengkap != nil {
		merged.DeskripsiLengkap = patch.DeskripsiLengkap
	}
	if patch.Stok != nil {
		merged.Stok = patch.Stok
	}
	if patch.Terjual != nil {
		merged.Terjual = patch.Terjual
	}
	if patch.Rating != nil {
		merged.Rating = patch.Rating
	}
	if patch.Gambar != nil {
		merged.Gambar = patch.Gambar
	}
	if patch.Varian != nil {
		merged.Varian = patch.Clone().Varian
	}
	for k, v := range patch.Extra {
		if merged.Extra == nil {
			merged.Extra = make(map[string]json.RawMessage)
		}
		merged.Extra[k] = append(json.RawMessage(nil), v...)
	}
	merged.ID = p.ID
	merged.URL = p.URL
	return merged
}

// MarshalJSON writes known fields in a stable order followed by extras.
func (p Product) MarshalJSON() ([]byte, error) {
	var w objectWriter
	w.field("id", p.ID, p.ID != "")
	w.field("nama", p.Nama, p.Nama != nil)
	w.field("deskripsi_singkat", p.DeskripsiSingkat, p.DeskripsiSingkat != nil)
	w.field("deskripsi_lengkap", p.DeskripsiLengkap, p.DeskripsiLengkap != nil)
	w.field("stok", p.Stok, p.Stok != nil)
	w.field("terjual", p.Terjual, p.Terjual != nil)
	w.field("rating", p.Rating, p.Rating != nil)
	w.field("gambar", p.Gambar, p.Gambar != nil)
	w.field("varian", p.Varian, p.Varian != nil)
	w.field("url", p.URL, p.URL != "")
	w.extra(p.Extra)
	return w.bytes()
}

// UnmarshalJSON decodes a product object. Type mismatches on known fields
// are reported with the field name.
func (p *Product) UnmarshalJSON(b []byte) error {
	return p.decode(b, false)
}

// decode fills p from a JSON object. When lenient, a known field holding a
// value of the wrong type is kept verbatim in Extra instead of failing.
func (p *Product) decode(b []byte, lenient bool) error {
	fields, err := splitObject(b)
	if err != nil {
		return err
	}
	*p = Product{}
	for key, raw := range fields {
		var target any
		switch key {
		case "id":
			target = &p.ID
		case "nama":
			target = &p.Nama
		case "deskripsi_singkat":
			target = &p.DeskripsiSingkat
		case "deskripsi_lengkap":
			target = &p.DeskripsiLengkap
		case "stok":
			target = &p.Stok
		case "terjual":
			target = &p.Terjual
		case "rating":
			target = &p.Rating
		case "gambar":
			target = &p.Gambar
		case "varian":
			target = &p.Varian
		case "url":
			target = &p.URL
		default:
			p.keepRaw(key, raw)
			continue
		}
		if err := json.Unmarshal(raw, target); err != nil {
			if !lenient {
				return fmt.Errorf("field %q: %w", key, err)
			}
			p.clearField(key)
			p.keepRaw(key, raw)
		}
	}
	return nil
}

func (p *Product) keepRaw(key string, raw json.RawMessage) {
	if p.Extra == nil {
		p.Extra = make(map[string]json.RawMessage)
	}
	p.Extra[key] = append(json.RawMessage(nil), raw...)
}

// clearField resets a known field left half decoded by a failed unmarshal.
func (p *Product) clearField(key string) {
	switch key {
	case "id":
		p.ID = ""
	case "nama":
		p.Nama = nil
	case "deskripsi_singkat":
		p.DeskripsiSingkat = nil
	case "deskripsi_lengkap":
		p.DeskripsiLengkap = nil
	case "stok":
		p.Stok = nil
	case "terjual":
		p.Terjual = nil
	case "rating":
		p.Rating = nil
	case "gambar":
		p.Gambar = nil
	case "varian":
		p.Varian = nil
	case "url":
		p.URL = ""
	}
}

// MarshalJSON writes the variant with known fields first.
func (v Variant) MarshalJSON() ([]byte, error) {
	var w objectWriter
	w.field("name", v.Name, true)
	w.field("harga_asli", v.HargaAsli, v.HargaAsli != nil)
	w.field("harga_diskon", v.HargaDiskon, v.HargaDiskon != nil)
	w.extra(v.Extra)
	return w.bytes()
}

// UnmarshalJSON decodes a variant object.
func (v *Variant) UnmarshalJSON(b []byte) error {
	fields, err := splitObject(b)
	if err != nil {
		return err
	}
	*v = Variant{}
	for key, raw := range fields {
		var target any
		switch key {
		case "name":
			target = &v.Name
		case "harga_asli":
			target = &v.HargaAsli
		case "harga_diskon":
			target = &v.HargaDiskon
		default:
			if v.Extra == nil {
				v.Extra = make(map[string]json.RawMessage)
			}
			v.Extra[key] = append(json.RawMessage(nil), raw...)
			continue
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return fmt.Errorf("varian field %q: %w", key, err)
		}
	}
	return nil
}

// StringValue dereferences s, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

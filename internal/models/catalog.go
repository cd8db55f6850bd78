package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Catalog is the decoded content of the catalog file together with the blob
// sha it was read at. An empty SHA means the file does not exist yet.
type Catalog struct {
	Products []Product `json:"products"`
	SHA      string    `json:"sha,omitempty"`
}

// IndexOf returns the position of the product with the given id, or -1.
func (c *Catalog) IndexOf(id string) int {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return i
		}
	}
	return -1
}

// CloneProducts returns a copy of the product slice that can be mutated
// without touching c.
func (c *Catalog) CloneProducts() []Product {
	out := make([]Product, len(c.Products))
	for i, p := range c.Products {
		out[i] = p.Clone()
	}
	return out
}

// DecodeStoredProducts parses the catalog file content. Blank content is an
// empty catalog. Records are decoded leniently: a known field holding a value
// of the wrong type is carried as a raw member and written back unchanged, so
// one off-schema record cannot make the whole catalog unreadable.
func DecodeStoredProducts(data []byte) ([]Product, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Product{}, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	products := make([]Product, len(records))
	for i, raw := range records {
		if err := products[i].decode(raw, true); err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
	}
	return products, nil
}

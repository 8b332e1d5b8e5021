package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an opaque backend identifier. The backend sends numbers, but ids
// are compared and stored as strings.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// RawProduct is a product record as the backend sends it.
type RawProduct struct {
	ID         ID              `json:"id"`
	Nombre     *string         `json:"nombre"`
	Tipo       *string         `json:"tipo"`
	PaisOrigen *string         `json:"paisOrigen"`
	Precio     json.RawMessage `json:"precio"`
	Stock      json.RawMessage `json:"stock"`
}

type Product struct {
	ID       ID       `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category,omitempty"`
	Country  string   `json:"country,omitempty"`
	Price    float64  `json:"price"`
	Stock    *int     `json:"stock,omitempty"`
	Tags     []string `json:"tags"`
	Image    string   `json:"image"`
	Rating   float64  `json:"rating"`
}

// CartLine is one server-side cart entry.
type CartLine struct {
	ID        ID     `json:"id"`
	Username  string `json:"username,omitempty"`
	ProductID ID     `json:"productoId"`
	Quantity  int    `json:"cantidad"`
}

// CartItem is a CartLine joined against the product set.
type CartItem struct {
	CartLine
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	LineTotal float64 `json:"line_total"`
	Missing   bool    `json:"missing,omitempty"`
}

type CartSummary struct {
	Items       []CartItem `json:"items"`
	Subtotal    float64    `json:"subtotal"`
	ShippingFee float64    `json:"shipping_fee"`
	Total       float64    `json:"total"`
}

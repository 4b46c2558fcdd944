package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type Brand struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type Product struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	CoverImage      string          `json:"cover_image"`
	Images          []string        `json:"images,omitempty"`
	AvailableColors []string        `json:"available_colors,omitempty"`
	AvailableSizes  []string        `json:"available_sizes,omitempty"`
	Quantity        *int            `json:"quantity,omitempty"`
	Brand           *Brand          `json:"brand,omitempty"`
	ReleaseYear     Year            `json:"release_year,omitempty"`
	Color           *string         `json:"color,omitempty"`
}

// Year accepts the release year as a JSON number or string. Missing or
// unparseable years are zero.
type Year int

func (y *Year) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*y = 0
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		n, _ := strconv.Atoi(strings.TrimSpace(s))
		*y = Year(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		*y = 0
		return nil
	}
	*y = Year(n)
	return nil
}

// Meta is the upstream paging block.
type Meta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// ListResponse is the upstream GET /products body.
type ListResponse struct {
	Data []Product `json:"data"`
	Meta *Meta     `json:"meta,omitempty"`
}

type Listing struct {
	Products    []Product    `json:"products"`
	Query       ListingQuery `json:"-"`
	Sort        string       `json:"sort"`
	SortOptions []SortOption `json:"sort_options"`
	Pager       Pager        `json:"pager"`
	Total       int          `json:"total"`
}

type PurchaseOptions struct {
	Color    string `json:"color"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

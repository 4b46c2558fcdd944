package catalog

import "sort"

type SortOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SortOptions are the orderings the upstream listing accepts.
var SortOptions = []SortOption{
	{Value: "-created_at", Label: "New products first"},
	{Value: "price", Label: "Price, low to high"},
	{Value: "-price", Label: "Price, high to low"},
}

type SortKey string

const (
	SortNew       SortKey = "new"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
)

// SortKeyFor maps an upstream sort parameter to the local key.
func SortKeyFor(param string) SortKey {
	switch param {
	case "price":
		return SortPriceAsc
	case "-price":
		return SortPriceDesc
	default:
		return SortNew
	}
}

// SortProducts returns a sorted copy of products. SortNew orders by release
// year, newest first, then by id descending; unknown keys sort as SortNew.
func SortProducts(products []Product, key SortKey) []Product {
	out := append([]Product(nil), products...)

	switch key {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price.LessThan(out[j].Price)
		})
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price.GreaterThan(out[j].Price)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].ReleaseYear != out[j].ReleaseYear {
				return out[i].ReleaseYear > out[j].ReleaseYear
			}
			return out[i].ID > out[j].ID
		})
	}
	return out
}

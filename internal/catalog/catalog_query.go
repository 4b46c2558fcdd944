package catalog

import (
	"net/url"
	"strconv"
	"strings"

	catalogerrors "github.com/khatias/rdbr-project/internal/catalog/errors"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	DefaultSort = "-created_at"

	// DefaultPageSize is the page size assumed when the upstream omits
	// paging metadata.
	DefaultPageSize = 12

	paramPage      = "page"
	paramSort      = "sort"
	paramPriceFrom = "filter[price_from]"
	paramPriceTo   = "filter[price_to]"
)

// ListingQuery is the state of the product listing carried in the URL.
type ListingQuery struct {
	Page      int
	Sort      string
	PriceFrom string
	PriceTo   string
}

// ParseListingQuery reads the listing query from the request. A missing or
// unparseable page means page 1; price bounds must be non-negative numbers.
func ParseListingQuery(c *gin.Context) (ListingQuery, error) {
	q := ListingQuery{
		Page:      1,
		Sort:      c.DefaultQuery(paramSort, DefaultSort),
		PriceFrom: strings.TrimSpace(c.Query(paramPriceFrom)),
		PriceTo:   strings.TrimSpace(c.Query(paramPriceTo)),
	}
	if q.Sort == "" {
		q.Sort = DefaultSort
	}
	if p, err := strconv.Atoi(c.Query(paramPage)); err == nil && p > 0 {
		q.Page = p
	}

	for _, bound := range []string{q.PriceFrom, q.PriceTo} {
		if bound == "" {
			continue
		}
		d, err := decimal.NewFromString(bound)
		if err != nil || d.IsNegative() {
			return ListingQuery{}, catalogerrors.ErrInvalidQuery
		}
	}
	return q, nil
}

// Values encodes the query for the upstream and for page links. Empty
// filters are left out.
func (q ListingQuery) Values() url.Values {
	v := url.Values{}
	v.Set(paramPage, strconv.Itoa(max(1, q.Page)))
	if q.PriceFrom != "" {
		v.Set(paramPriceFrom, q.PriceFrom)
	}
	if q.PriceTo != "" {
		v.Set(paramPriceTo, q.PriceTo)
	}
	if q.Sort != "" {
		v.Set(paramSort, q.Sort)
	}
	return v
}

// WithPage returns a copy of q pointing at page.
func (q ListingQuery) WithPage(page int) ListingQuery {
	q.Page = page
	return q
}

// PageLink is the listing URL of page, keeping the filters and sort of q.
func PageLink(basePath string, q ListingQuery, page int) string {
	return basePath + "?" + q.WithPage(page).Values().Encode()
}

type NavLink struct {
	Page     int    `json:"page"`
	Href     string `json:"href"`
	Disabled bool   `json:"disabled"`
}

type PageLinkView struct {
	Marker  PageMarker `json:"marker"`
	Href    string     `json:"href,omitempty"`
	Current bool       `json:"current"`
}

type Pager struct {
	CurrentPage int            `json:"current_page"`
	TotalPages  int            `json:"total_pages"`
	Pages       []PageLinkView `json:"pages"`
	Prev        NavLink        `json:"prev"`
	Next        NavLink        `json:"next"`
}

// BuildPager renders the pager of a listing page.
func BuildPager(basePath string, q ListingQuery, current, total int) Pager {
	markers := BuildPages(current, total)
	pages := make([]PageLinkView, 0, len(markers))
	for _, m := range markers {
		view := PageLinkView{Marker: m}
		if !m.Gap {
			view.Href = PageLink(basePath, q, m.Page)
			view.Current = m.Page == current
		}
		pages = append(pages, view)
	}

	prev := 1
	if current > 1 {
		prev = current - 1
	}
	next := total
	if current < total {
		next = current + 1
	}

	return Pager{
		CurrentPage: current,
		TotalPages:  total,
		Pages:       pages,
		Prev: NavLink{
			Page:     prev,
			Href:     PageLink(basePath, q, prev),
			Disabled: current == 1,
		},
		Next: NavLink{
			Page:     next,
			Href:     PageLink(basePath, q, next),
			Disabled: current == total,
		},
	}
}

// ResolveTotalPages prefers the upstream last page. Without it a full page
// suggests there is at least one more.
func ResolveTotalPages(meta *Meta, current, returned int) int {
	if meta != nil && meta.LastPage > 0 {
		return meta.LastPage
	}
	if returned < DefaultPageSize {
		return current
	}
	return current + 1
}

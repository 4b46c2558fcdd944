package catalog

import (
	"encoding/json"
	"strconv"
)

const (
	// Ellipsis marks a gap in the page sequence.
	Ellipsis = "..."

	// compactThreshold is the largest page count rendered without gaps.
	compactThreshold = 7
)

// PageMarker is either a page number or an ellipsis.
type PageMarker struct {
	Page int
	Gap  bool
}

func PageNumber(p int) PageMarker { return PageMarker{Page: p} }

func Gap() PageMarker { return PageMarker{Gap: true} }

func (m PageMarker) String() string {
	if m.Gap {
		return Ellipsis
	}
	return strconv.Itoa(m.Page)
}

// MarshalJSON renders a page as a number and a gap as "...".
func (m PageMarker) MarshalJSON() ([]byte, error) {
	if m.Gap {
		return json.Marshal(Ellipsis)
	}
	return json.Marshal(m.Page)
}

func (m *PageMarker) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s == Ellipsis {
			*m = Gap()
			return nil
		}
		p, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*m = PageNumber(p)
		return nil
	}
	var p int
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*m = PageNumber(p)
	return nil
}

// BuildPages lists the page markers of a pager. Up to seven pages are all
// shown; beyond that the first and last page frame a window of one page on
// each side of current, with gaps where pages are skipped. A non-positive
// total yields no markers.
func BuildPages(current, total int) []PageMarker {
	if total <= 0 {
		return []PageMarker{}
	}

	if total <= compactThreshold {
		out := make([]PageMarker, 0, total)
		for p := 1; p <= total; p++ {
			out = append(out, PageNumber(p))
		}
		return out
	}

	start := max(2, current-1)
	end := min(total-1, current+1)

	out := []PageMarker{PageNumber(1)}
	if start > 2 {
		out = append(out, Gap())
	}
	for p := start; p <= end; p++ {
		out = append(out, PageNumber(p))
	}
	if end < total-1 {
		out = append(out, Gap())
	}
	return append(out, PageNumber(total))
}

package catalog

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"shopadmin/pkg/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the ordering of the product grid.
type SortKey string

const (
	SortNewest       SortKey = "newest" // stable fetch order
	SortAlphabetical SortKey = "alpha"
	SortPriceAsc     SortKey = "price_asc"
	SortPriceDesc    SortKey = "price_desc"
)

// ParseSortKey maps a raw control value to a SortKey, defaulting to
// newest.
func ParseSortKey(raw string) SortKey {
	switch SortKey(raw) {
	case SortAlphabetical, SortPriceAsc, SortPriceDesc:
		return SortKey(raw)
	default:
		return SortNewest
	}
}

// FilterAll is the selector value that disables a category/brand filter.
const FilterAll = "all"

// FilterState is the grid's current filter and sort configuration. It is
// applied against the already-fetched collection and never triggers a
// re-fetch.
type FilterState struct {
	Query      string  `json:"query"`
	CategoryID string  `json:"category_id"`
	BrandID    string  `json:"brand_id"`
	Sort       SortKey `json:"sort"`
}

// Card is one product's visual unit in the grid. Non-matching cards are
// hidden, not removed, so clearing a filter restores them without a
// fetch.
type Card struct {
	Product models.Product `json:"product"`
	Visible bool           `json:"visible"`
}

// CollectionView owns the canonical ordered product list from the last
// successful fetch. Rendering is a one-way projection: Apply derives
// cards from the list, never the other way around.
type CollectionView struct {
	mu       sync.RWMutex
	products []models.Product
	collator *collate.Collator
}

func NewCollectionView() *CollectionView {
	return &CollectionView{collator: collate.New(language.Und)}
}

// ReplaceAll discards the previous list and takes the fetched one as the
// new insertion order.
func (v *CollectionView) ReplaceAll(products []models.Product) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.products = append([]models.Product(nil), products...)
}

// Products returns a copy of the canonical list in fetch order.
func (v *CollectionView) Products() []models.Product {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]models.Product, len(v.products))
	copy(out, v.products)
	return out
}

func (v *CollectionView) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.products)
}

// Apply sorts the full card set by the active sort key and marks each
// card's visibility from the filter predicates. Sorting and filtering are
// orthogonal: both run unconditionally on every filter-state change, so
// changing only the sort key never changes visibility.
func (v *CollectionView) Apply(f FilterState) []Card {
	v.mu.RLock()
	products := make([]models.Product, len(v.products))
	copy(products, v.products)
	v.mu.RUnlock()

	switch f.Sort {
	case SortAlphabetical:
		sort.SliceStable(products, func(i, j int) bool {
			return v.titleLess(products[i], products[j])
		})
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return parsePrice(products[i].Price) < parsePrice(products[j].Price)
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return parsePrice(products[i].Price) > parsePrice(products[j].Price)
		})
	}

	cards := make([]Card, len(products))
	for i, p := range products {
		cards[i] = Card{Product: p, Visible: matches(p, f)}
	}
	return cards
}

func (v *CollectionView) titleLess(a, b models.Product) bool {
	return v.collator.CompareString(strings.ToLower(a.Title), strings.ToLower(b.Title)) < 0
}

func matches(p models.Product, f FilterState) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		title := strings.ToLower(p.Title)
		desc := strings.ToLower(p.Description)
		if !strings.Contains(title, q) && !strings.Contains(desc, q) {
			return false
		}
	}
	if !refMatches(f.CategoryID, p.CategoryID) {
		return false
	}
	return refMatches(f.BrandID, p.BrandID)
}

func refMatches(filter, value string) bool {
	return filter == "" || filter == FilterAll || filter == value
}

// parsePrice extracts the numeric value from a displayed price by
// stripping everything that is not a digit, dot, or minus. Unparsable
// text sorts as 0.
func parsePrice(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	value, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return value
}

package catalog

import (
	"testing"

	"shopadmin/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grid() *CollectionView {
	v := NewCollectionView()
	v.ReplaceAll([]models.Product{
		{ID: "1", Title: "Zip Hoodie", Price: "$49.90", CategoryID: "2", BrandID: "3", Description: "warm fleece"},
		{ID: "2", Title: "basic shirt", Price: "19.99", CategoryID: "2", BrandID: "4", Description: "soft Cotton"},
		{ID: "3", Title: "Mug", Price: "free!", CategoryID: "5", BrandID: "3", Description: "ceramic"},
	})
	return v
}

func visibleIDs(cards []Card) []string {
	var ids []string
	for _, c := range cards {
		if c.Visible {
			ids = append(ids, c.Product.ID)
		}
	}
	return ids
}

func orderIDs(cards []Card) []string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.Product.ID
	}
	return ids
}

func TestApplyFilterPredicates(t *testing.T) {
	v := grid()

	tests := []struct {
		name    string
		filter  FilterState
		visible []string
	}{
		{"no filters", FilterState{}, []string{"1", "2", "3"}},
		{"query matches title, case-insensitive", FilterState{Query: "hoodie"}, []string{"1"}},
		{"query matches description", FilterState{Query: "COTTON"}, []string{"2"}},
		{"query miss", FilterState{Query: "boots"}, nil},
		{"category", FilterState{CategoryID: "2"}, []string{"1", "2"}},
		{"category all", FilterState{CategoryID: FilterAll}, []string{"1", "2", "3"}},
		{"brand", FilterState{BrandID: "3"}, []string{"1", "3"}},
		{"all three must hold", FilterState{Query: "shirt", CategoryID: "2", BrandID: "3"}, nil},
		{"all three hold", FilterState{Query: "shirt", CategoryID: "2", BrandID: "4"}, []string{"2"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.visible, visibleIDs(v.Apply(test.filter)))
		})
	}
}

func TestApplySortOrders(t *testing.T) {
	v := grid()

	// Newest keeps fetch order.
	assert.Equal(t, []string{"1", "2", "3"}, orderIDs(v.Apply(FilterState{Sort: SortNewest})))

	// Alphabetical compares lowercased titles.
	assert.Equal(t, []string{"2", "3", "1"}, orderIDs(v.Apply(FilterState{Sort: SortAlphabetical})))

	// Unparsable prices sort as 0.
	assert.Equal(t, []string{"3", "2", "1"}, orderIDs(v.Apply(FilterState{Sort: SortPriceAsc})))
	assert.Equal(t, []string{"1", "2", "3"}, orderIDs(v.Apply(FilterState{Sort: SortPriceDesc})))
}

func TestSortNeverChangesVisibility(t *testing.T) {
	v := grid()
	filter := FilterState{Query: "c", CategoryID: FilterAll, BrandID: "3"}

	want := visibleIDs(v.Apply(filter))
	for _, key := range []SortKey{SortNewest, SortAlphabetical, SortPriceAsc, SortPriceDesc} {
		filter.Sort = key
		got := visibleIDs(v.Apply(filter))
		assert.ElementsMatch(t, want, got, "sort %s", key)
	}
}

func TestHiddenCardsAreKept(t *testing.T) {
	v := grid()
	cards := v.Apply(FilterState{Query: "hoodie"})
	require.Len(t, cards, 3, "cards are hidden, not removed")
}

func TestReplaceAllDiscardsPriorCards(t *testing.T) {
	v := grid()
	v.ReplaceAll([]models.Product{{ID: "9", Title: "New"}})

	cards := v.Apply(FilterState{})
	require.Len(t, cards, 1)
	assert.Equal(t, "9", cards[0].Product.ID)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"19.99", 19.99},
		{"$1,299.00", 1299},
		{"R$ 10", 10},
		{"free!", 0},
		{"", 0},
		{"-5.50", -5.5},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, parsePrice(test.input), "input %q", test.input)
	}
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortNewest, ParseSortKey(""))
	assert.Equal(t, SortNewest, ParseSortKey("bogus"))
	assert.Equal(t, SortPriceDesc, ParseSortKey("price_desc"))
}

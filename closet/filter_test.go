package closet

import (
	"net/url"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rpupo63/virtual-closet-backend/errs"
	"github.com/rpupo63/virtual-closet-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

var (
	tagWork   = models.ClothingTag{ID: uuid.MustParse("00000000-0000-0000-0000-0000000000a1"), Name: "work"}
	tagWeekly = models.ClothingTag{ID: uuid.MustParse("00000000-0000-0000-0000-0000000000a2"), Name: "weekly"}
	tagGym    = models.ClothingTag{ID: uuid.MustParse("00000000-0000-0000-0000-0000000000a3"), Name: "gym"}
)

func fixtureItems() []models.ClothingItem {
	base := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	return []models.ClothingItem{
		{
			ID: uuid.New(), Name: "Oxford Shirt", Type: "shirt", Season: pq.StringArray{"spring", "fall"},
			Color: strPtr("white"), Brand: strPtr("Uniqlo"), WearCount: 4, IsFavorite: true,
			CreatedAt: base, Tags: []models.ClothingTag{tagWork},
		},
		{
			ID: uuid.New(), Name: "denim jacket", Type: "jacket", Season: pq.StringArray{"fall"},
			Color: strPtr("blue"), Description: strPtr("Vintage LEVI'S trucker"), WearCount: 0,
			CreatedAt: base.Add(48 * time.Hour), Tags: []models.ClothingTag{tagWeekly},
		},
		{
			ID: uuid.New(), Name: "Running Shorts", Type: "shorts", Season: pq.StringArray{"summer"},
			Color: strPtr("black"), Brand: strPtr("Nike"), WearCount: 9,
			CreatedAt: base.Add(24 * time.Hour), Tags: []models.ClothingTag{tagGym, tagWeekly},
		},
		{
			ID: uuid.New(), Name: "Wool Coat", Type: "coat", Season: pq.StringArray{"winter"},
			WearCount: 4, IsFavorite: true, CreatedAt: base.Add(72 * time.Hour),
		},
	}
}

func names(items []models.ClothingItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestApply_ZeroFilterIsIdentity(t *testing.T) {
	items := fixtureItems()

	got := Apply(items, Filter{}, "")

	assert.Equal(t, names(items), names(got))
	assert.True(t, Filter{}.IsZero())
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	items := fixtureItems()
	before := names(items)

	_ = Apply(items, Filter{}, SortNameDesc)

	assert.Equal(t, before, names(items))
}

func TestApply_Predicates(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "type", filter: Filter{Type: "jacket"}, want: []string{"denim jacket"}},
		{name: "season membership", filter: Filter{Season: "fall"}, want: []string{"Oxford Shirt", "denim jacket"}},
		{name: "color skips items without color", filter: Filter{Color: "black"}, want: []string{"Running Shorts"}},
		{name: "favorites only", filter: Filter{FavoritesOnly: true}, want: []string{"Oxford Shirt", "Wool Coat"}},
		{name: "search name case insensitive", filter: Filter{Search: "OXFORD"}, want: []string{"Oxford Shirt"}},
		{name: "search brand", filter: Filter{Search: "nik"}, want: []string{"Running Shorts"}},
		{name: "search description", filter: Filter{Search: "levi's"}, want: []string{"denim jacket"}},
		{name: "tags match any", filter: Filter{TagIDs: []uuid.UUID{tagWork.ID, tagGym.ID}}, want: []string{"Oxford Shirt", "Running Shorts"}},
		{name: "conjunction", filter: Filter{TagIDs: []uuid.UUID{tagWeekly.ID}, Season: "summer"}, want: []string{"Running Shorts"}},
		{name: "no match", filter: Filter{Type: "dress"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(fixtureItems(), tt.filter, "")
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestApply_FavoritesSubset(t *testing.T) {
	items := fixtureItems()
	favorites := 0
	for _, it := range items {
		if it.IsFavorite {
			favorites++
		}
	}

	got := Apply(items, Filter{FavoritesOnly: true}, SortMostWorn)

	assert.Len(t, got, favorites)
	for _, it := range got {
		assert.True(t, it.IsFavorite)
	}
}

func TestApply_Sorts(t *testing.T) {
	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortNewest, []string{"Wool Coat", "denim jacket", "Running Shorts", "Oxford Shirt"}},
		{SortOldest, []string{"Oxford Shirt", "Running Shorts", "denim jacket", "Wool Coat"}},
		// Oxford Shirt and Wool Coat tie on 4 and keep input order.
		{SortMostWorn, []string{"Running Shorts", "Oxford Shirt", "Wool Coat", "denim jacket"}},
		{SortLeastWorn, []string{"denim jacket", "Oxford Shirt", "Wool Coat", "Running Shorts"}},
		// Lexical ordering is case sensitive: upper case sorts before lower case.
		{SortNameAsc, []string{"Oxford Shirt", "Running Shorts", "Wool Coat", "denim jacket"}},
		{SortNameDesc, []string{"denim jacket", "Wool Coat", "Running Shorts", "Oxford Shirt"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.want, names(Apply(fixtureItems(), Filter{}, tt.key)))
		})
	}
}

func TestApply_NameAscReversedIsNameDesc(t *testing.T) {
	asc := names(Apply(fixtureItems(), Filter{}, SortNameAsc))
	desc := names(Apply(fixtureItems(), Filter{}, SortNameDesc))

	slices.Reverse(asc)
	assert.Equal(t, desc, asc)
}

func TestParseQuery(t *testing.T) {
	q := url.Values{}
	q.Set("type", "shirt")
	q.Set("season", "fall")
	q.Set("tags", tagWork.ID.String()+", "+tagGym.ID.String())
	q.Set("search", "  oxford ")
	q.Set("favorites", "true")
	q.Set("sort", "name-desc")

	f, key, err := ParseQuery(q)
	require.NoError(t, err)

	assert.Equal(t, "shirt", f.Type)
	assert.Equal(t, "fall", f.Season)
	assert.Equal(t, []uuid.UUID{tagWork.ID, tagGym.ID}, f.TagIDs)
	assert.Equal(t, "oxford", f.Search)
	assert.True(t, f.FavoritesOnly)
	assert.Equal(t, SortNameDesc, key)
}

func TestParseQuery_Defaults(t *testing.T) {
	f, key, err := ParseQuery(url.Values{})
	require.NoError(t, err)
	assert.True(t, f.IsZero())
	assert.Equal(t, SortNewest, key)
}

func TestParseQuery_Invalid(t *testing.T) {
	tests := map[string]url.Values{
		"type":   {"type": {"cape"}},
		"season": {"season": {"monsoon"}},
		"color":  {"color": {"teal"}},
		"tags":   {"tags": {"not-a-uuid"}},
		"sort":   {"sort": {"random"}},
	}

	for field, q := range tests {
		t.Run(field, func(t *testing.T) {
			_, _, err := ParseQuery(q)
			require.Error(t, err)
			assert.True(t, errs.IsValidation(err))

			var apiErr *errs.ApiErr
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, field, apiErr.Field)
		})
	}
}

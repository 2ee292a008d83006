package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson"
)

func TestFilterEqualityAndComparisons(t *testing.T) {
	values := url.Values{
		"difficulty":  {"easy"},
		"duration":    {"5"},
		"price[gte]":  {"500"},
		"price[lt]":   {"2000"},
		"page":        {"2"},
		"sort":        {"-price"},
	}

	f := New(values, nil).Filter()
	filter := f.FindFilter()

	assert.Equal(t, "easy", filter["difficulty"])
	assert.Equal(t, 5.0, filter["duration"])

	price, ok := filter["price"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, 500.0, price["$gte"])
	assert.Equal(t, 2000.0, price["$lt"])

	// reserved keys never leak into the filter
	assert.NotContains(t, filter, "page")
	assert.NotContains(t, filter, "sort")
}

func TestFilterMultiValueBecomesInSet(t *testing.T) {
	values := url.Values{"duration": {"5", "9"}}

	filter := New(values, nil).Filter().FindFilter()

	in, ok := filter["duration"].(bson.M)
	require.True(t, ok)
	assert.ElementsMatch(t, []any{5.0, 9.0}, in["$in"])
}

func TestFilterBaseKeysAreImmutable(t *testing.T) {
	values := url.Values{
		"secretTour":      {"true"},
		"secretTour[gte]": {"1"},
		"tourid":          {"someone-elses"},
	}
	base := bson.M{
		"secretTour": bson.M{"$ne": true},
		"tourid":     "t123",
	}

	filter := New(values, base).Filter().FindFilter()

	assert.Equal(t, bson.M{"$ne": true}, filter["secretTour"])
	assert.Equal(t, "t123", filter["tourid"])
}

func TestSortParsesDirectionsAndDefaults(t *testing.T) {
	f := New(url.Values{"sort": {"-price,ratingsAverage"}}, nil).Sort()
	assert.Equal(t, bson.D{
		{Key: "price", Value: -1},
		{Key: "ratingsAverage", Value: 1},
	}, f.SortSpec())

	f = New(url.Values{}, nil).Sort()
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, f.SortSpec())
}

func TestLimitFields(t *testing.T) {
	f := New(url.Values{"fields": {"name,price, duration"}}, nil).LimitFields()
	assert.Equal(t, bson.M{"_id": 1, "name": 1, "price": 1, "duration": 1}, f.Projection())

	f = New(url.Values{}, nil).LimitFields()
	assert.Equal(t, bson.M{"__v": 0}, f.Projection())
}

func TestPaginate(t *testing.T) {
	f := New(url.Values{"page": {"3"}, "limit": {"10"}}, nil).Paginate()
	assert.Equal(t, int64(20), f.Skip())
	assert.Equal(t, int64(10), f.Limit())
}

func TestPaginateMalformedFallsBackSilently(t *testing.T) {
	for _, values := range []url.Values{
		{"page": {"abc"}, "limit": {"xyz"}},
		{"page": {"-1"}, "limit": {"0"}},
		{},
	} {
		f := New(values, nil).Paginate()
		assert.Equal(t, int64(0), f.Skip())
		assert.Equal(t, int64(DefaultLimit), f.Limit())
	}
}

func TestStagesCompose(t *testing.T) {
	values := url.Values{
		"difficulty": {"medium"},
		"sort":       {"price"},
		"fields":     {"name,price"},
		"page":       {"2"},
		"limit":      {"5"},
	}

	f := New(values, bson.M{"secretTour": bson.M{"$ne": true}}).
		Filter().
		Sort().
		LimitFields().
		Paginate()

	assert.Equal(t, "medium", f.FindFilter()["difficulty"])
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, f.SortSpec())
	assert.Equal(t, bson.M{"_id": 1, "name": 1, "price": 1}, f.Projection())
	assert.Equal(t, int64(5), f.Skip())
	assert.Equal(t, int64(5), f.Limit())
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, 4.5, coerce("4.5"))
	assert.Equal(t, true, coerce("true"))
	assert.Equal(t, false, coerce("false"))
	assert.Equal(t, "easy", coerce("easy"))
}

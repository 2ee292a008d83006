// Package query turns an untrusted flat key-value description of a list
// request into a validated mongo query: filter, sort, projection and
// pagination. Stages compose in the fixed order
// Filter -> Sort -> LimitFields -> Paginate; skipping a stage leaves that
// dimension at its default.
package query

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
)

// reserved keys never become filter constraints.
var reserved = map[string]bool{
	"page":   true,
	"sort":   true,
	"limit":  true,
	"fields": true,
}

// price[gte]=500 style comparison suffixes.
var comparisonKey = regexp.MustCompile(`^(\w+)\[(gte|gt|lte|lt)\]$`)

type Features struct {
	values url.Values
	filter bson.M
	base   map[string]bool
	sort   bson.D
	proj   bson.M
	skip   int64
	limit  int64
}

// New builds a Features over the request query values and a base filter
// (parent scoping, secret-tour exclusion). Base filter keys are never
// overridden by client-supplied constraints.
func New(values url.Values, base bson.M) *Features {
	filter := bson.M{}
	baseKeys := make(map[string]bool, len(base))
	for k, v := range base {
		filter[k] = v
		baseKeys[k] = true
	}
	return &Features{
		values: values,
		filter: filter,
		base:   baseKeys,
		skip:   0,
		limit:  DefaultLimit,
	}
}

// Filter maps every non-reserved key to an equality constraint, or to a
// comparison operator when the key carries a [gte|gt|lte|lt] suffix. No
// schema validation happens here; unknown fields pass through and simply
// match nothing.
func (f *Features) Filter() *Features {
	for key, vals := range f.values {
		if reserved[key] || len(vals) == 0 {
			continue
		}

		if m := comparisonKey.FindStringSubmatch(key); m != nil {
			field, op := m[1], "$"+m[2]
			if f.base[field] {
				continue
			}
			cmp, ok := f.filter[field].(bson.M)
			if !ok {
				cmp = bson.M{}
			}
			cmp[op] = coerce(vals[len(vals)-1])
			f.filter[field] = cmp
			continue
		}

		if f.base[key] {
			continue
		}
		if len(vals) > 1 {
			// duplicate params survive only for whitelisted array-capable
			// fields (the pollution middleware collapses the rest), and
			// they match as a set
			in := make([]any, 0, len(vals))
			for _, v := range vals {
				in = append(in, coerce(v))
			}
			f.filter[key] = bson.M{"$in": in}
			continue
		}
		f.filter[key] = coerce(vals[0])
	}
	return f
}

// Sort parses a comma-separated field list, "-" prefix meaning descending.
// Defaults to newest first.
func (f *Features) Sort() *Features {
	raw := f.values.Get("sort")
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		dir := 1
		if strings.HasPrefix(field, "-") {
			dir = -1
			field = field[1:]
		}
		if field != "" {
			f.sort = append(f.sort, bson.E{Key: field, Value: dir})
		}
	}
	if len(f.sort) == 0 {
		f.sort = bson.D{{Key: "createdAt", Value: -1}}
	}
	return f
}

// LimitFields restricts the projection to the requested fields plus the
// identifier. Without a fields key the internal version field is excluded.
func (f *Features) LimitFields() *Features {
	raw := f.values.Get("fields")
	if raw == "" {
		f.proj = bson.M{"__v": 0}
		return f
	}
	proj := bson.M{"_id": 1}
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		proj[field] = 1
	}
	f.proj = proj
	return f
}

// Paginate turns page and limit into a skip/limit pair. Malformed numbers
// silently fall back to the defaults; pages past the end of the collection
// yield an empty result, never an error.
func (f *Features) Paginate() *Features {
	page := atoiDefault(f.values.Get("page"), DefaultPage)
	if page < 1 {
		page = DefaultPage
	}
	limit := atoiDefault(f.values.Get("limit"), DefaultLimit)
	if limit < 1 {
		limit = DefaultLimit
	}
	f.skip = int64(page-1) * int64(limit)
	f.limit = int64(limit)
	return f
}

// FindFilter is the composed mongo filter document.
func (f *Features) FindFilter() bson.M { return f.filter }

// FindOptions is the composed sort/projection/skip/limit for Find.
func (f *Features) FindOptions() *options.FindOptions {
	opts := options.Find().SetSkip(f.skip).SetLimit(f.limit)
	if len(f.sort) > 0 {
		opts.SetSort(f.sort)
	}
	if len(f.proj) > 0 {
		opts.SetProjection(f.proj)
	}
	return opts
}

func (f *Features) Skip() int64        { return f.skip }
func (f *Features) Limit() int64       { return f.limit }
func (f *Features) SortSpec() bson.D   { return f.sort }
func (f *Features) Projection() bson.M { return f.proj }

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// coerce keeps numeric comparisons numeric; everything else stays a string.
func coerce(s string) any {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	if s == "true" {
		return true
	}
	if s == "false" {
		return false
	}
	return s
}

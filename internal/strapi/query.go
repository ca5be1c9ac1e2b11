package strapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Filter operators understood by the CMS.
const (
	OpEq       = "$eq"
	OpNe       = "$ne"
	OpContains = "$contains"
)

// Query builds the bracketed query string Strapi expects. The zero value and
// a nil *Query are both empty queries.
type Query struct {
	values url.Values
}

func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

func (q *Query) init() {
	if q.values == nil {
		q.values = url.Values{}
	}
}

// Filter adds filters[a][b][op]=value for the dotted path "a.b".
func (q *Query) Filter(path, op string, value any) *Query {
	q.init()
	var key strings.Builder
	key.WriteString("filters")
	for _, part := range strings.Split(path, ".") {
		key.WriteString("[" + part + "]")
	}
	key.WriteString("[" + op + "]")
	q.values.Add(key.String(), formatValue(value))
	return q
}

// Eq adds an equality filter.
func (q *Query) Eq(path string, value any) *Query {
	return q.Filter(path, OpEq, value)
}

// Contains adds a substring/membership filter.
func (q *Query) Contains(path string, value any) *Query {
	return q.Filter(path, OpContains, value)
}

// Populate expands relations inline. Pass "*" for every first-level relation.
func (q *Query) Populate(fields ...string) *Query {
	q.init()
	if len(fields) > 0 {
		q.values.Set("populate", strings.Join(fields, ","))
	}
	return q
}

// Sort sets the sort order, each expression being "field:asc" or
// "field:desc".
func (q *Query) Sort(exprs ...string) *Query {
	q.init()
	if len(exprs) > 0 {
		q.values.Set("sort", strings.Join(exprs, ","))
	}
	return q
}

// Page requests one page of results.
func (q *Query) Page(page, pageSize int) *Query {
	q.init()
	q.values.Set("pagination[page]", strconv.Itoa(page))
	q.values.Set("pagination[pageSize]", strconv.Itoa(pageSize))
	return q
}

// Set adds a free-form parameter such as sessionId.
func (q *Query) Set(key string, value any) *Query {
	q.init()
	q.values.Set(key, formatValue(value))
	return q
}

// Values returns a copy of the encoded parameters.
func (q *Query) Values() url.Values {
	out := url.Values{}
	if q == nil {
		return out
	}
	for k, v := range q.values {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func (q *Query) String() string {
	return q.Values().Encode()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(t)
	}
}

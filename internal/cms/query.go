package cms

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

var filterKey = regexp.MustCompile(`^filters((?:\[[^\[\]]+\])+)$`)

type condition struct {
	path  []string
	op    string
	value string
}

type sortKey struct {
	field string
	desc  bool
}

type findParams struct {
	conditions []condition
	sort       []sortKey
	populate   map[string]bool
	page       int
	pageSize   int
}

type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

func parseFind(c *collection, v url.Values) (findParams, error) {
	p := findParams{page: 1, pageSize: defaultPageSize, populate: map[string]bool{}}

	for key, values := range v {
		m := filterKey.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		parts := strings.Split(strings.Trim(m[1], "[]"), "][")
		op := parts[len(parts)-1]
		if len(parts) < 2 || !strings.HasPrefix(op, "$") {
			return p, badRequest{fmt.Sprintf("Invalid filter %s", key)}
		}
		switch op {
		case "$eq", "$ne", "$contains":
		default:
			return p, badRequest{fmt.Sprintf("Invalid operator %s", op)}
		}
		for _, val := range values {
			p.conditions = append(p.conditions, condition{path: parts[:len(parts)-1], op: op, value: val})
		}
	}

	if raw := v.Get("sort"); raw != "" {
		for _, expr := range strings.Split(raw, ",") {
			field, dir, _ := strings.Cut(strings.TrimSpace(expr), ":")
			switch strings.ToLower(dir) {
			case "", "asc":
				p.sort = append(p.sort, sortKey{field: field})
			case "desc":
				p.sort = append(p.sort, sortKey{field: field, desc: true})
			default:
				return p, badRequest{fmt.Sprintf("Invalid sort direction %s", dir)}
			}
		}
	}

	for _, raw := range v["populate"] {
		for _, field := range strings.Split(raw, ",") {
			field = strings.TrimSpace(field)
			if field == "*" {
				for _, f := range c.populatable() {
					p.populate[f] = true
				}
				continue
			}
			if _, ok := c.relations[field]; !ok && !c.isMedia(field) {
				return p, badRequest{fmt.Sprintf("Invalid key %s", field)}
			}
			p.populate[field] = true
		}
	}

	var err error
	if raw := v.Get("pagination[page]"); raw != "" {
		if p.page, err = strconv.Atoi(raw); err != nil || p.page < 1 {
			return p, badRequest{"Invalid pagination page"}
		}
	}
	if raw := v.Get("pagination[pageSize]"); raw != "" {
		if p.pageSize, err = strconv.Atoi(raw); err != nil || p.pageSize < 1 {
			return p, badRequest{"Invalid pagination pageSize"}
		}
		if p.pageSize > maxPageSize {
			p.pageSize = maxPageSize
		}
	}
	return p, nil
}

// resolve walks path through the document. Relation fields hold the target
// documentId, so "blog_post.documentId" resolves to the stored value.
func resolve(c *collection, doc map[string]any, path []string) any {
	var cur any = doc
	for i, part := range path {
		if i == 1 && part == "documentId" {
			if _, ok := c.relations[path[0]]; ok {
				return cur
			}
		}
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[part]
	}
	return cur
}

func (cond condition) match(c *collection, doc map[string]any) bool {
	v := resolve(c, doc, cond.path)
	switch cond.op {
	case "$eq":
		return v != nil && stringify(v) == cond.value
	case "$ne":
		return v == nil || stringify(v) != cond.value
	case "$contains":
		switch t := v.(type) {
		case string:
			return strings.Contains(t, cond.value)
		case []any:
			for _, el := range t {
				if strings.Contains(stringify(el), cond.value) {
					return true
				}
			}
		}
	}
	return false
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

// compare orders two values; missing values sort after present ones in
// either direction.
func compare(a, b any) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	af, aNum := number(a)
	bf, bNum := number(b)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}
	return strings.Compare(stringify(a), stringify(b)), true
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int64:
		return float64(t), true
	}
	return 0, false
}

func (p findParams) apply(c *collection, docs []map[string]any) ([]map[string]any, pagination) {
	matched := docs[:0:0]
	for _, doc := range docs {
		ok := true
		for _, cond := range p.conditions {
			if !cond.match(c, doc) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, doc)
		}
	}

	if len(p.sort) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			for _, key := range p.sort {
				a, b := matched[i][key.field], matched[j][key.field]
				if a == nil && b == nil {
					continue
				}
				if a == nil || b == nil {
					return b == nil
				}
				cmp, _ := compare(a, b)
				if cmp == 0 {
					continue
				}
				if key.desc {
					return cmp > 0
				}
				return cmp < 0
			}
			return false
		})
	}

	total := len(matched)
	pg := pagination{
		Page:      p.page,
		PageSize:  p.pageSize,
		PageCount: int(math.Ceil(float64(total) / float64(p.pageSize))),
		Total:     total,
	}
	start := (p.page - 1) * p.pageSize
	if start > total {
		start = total
	}
	end := start + p.pageSize
	if end > total {
		end = total
	}
	return matched[start:end], pg
}

type pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package streaming

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// queryBuilder collects name=value pairs in insertion order. No sorting and
// no deduplication: the wire order is the declaration order of the caller.
type queryBuilder struct {
	pairs []string
	err   error
}

func (q *queryBuilder) add(name string, value any) {
	if q.err != nil {
		return
	}
	frag, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
	if err != nil {
		q.err = fmt.Errorf("encode query parameter %q: %w", name, err)
		return
	}
	q.pairs = append(q.pairs, frag)
}

// addMap emits name[key]=value per entry, keys sorted so identical inputs
// always yield identical query strings.
func (q *queryBuilder) addMap(name string, m map[string]string) {
	if q.err != nil || len(m) == 0 {
		return
	}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		q.pairs = append(q.pairs, name+"["+url.QueryEscape(k)+"]="+url.QueryEscape(m[k]))
	}
}

func (q *queryBuilder) encode() string {
	return strings.Join(q.pairs, "&")
}

func addOpt[T any](q *queryBuilder, name string, o Optional[T]) {
	if v, ok := o.Get(); ok {
		q.add(name, v)
	}
}

// addEnum passes the underlying string so the styler never sees the named type.
func addEnum[T ~string](q *queryBuilder, name string, o Optional[T]) {
	if v, ok := o.Get(); ok {
		q.add(name, string(v))
	}
}

type pathParam struct {
	name  string
	value any
}

// expandPath substitutes every {name} placeholder with the path-escaped value.
func expandPath(template string, params ...pathParam) (string, error) {
	path := template
	for _, p := range params {
		s, err := runtime.StyleParamWithLocation("simple", false, p.name, runtime.ParamLocationPath, p.value)
		if err != nil {
			return "", fmt.Errorf("encode path parameter %q: %w", p.name, err)
		}
		path = strings.ReplaceAll(path, "{"+p.name+"}", s)
	}
	if strings.ContainsAny(path, "{}") {
		return "", fmt.Errorf("unsubstituted placeholder in %q", path)
	}
	return path, nil
}

// Package partialkey provides an insertion-ordered map that can be queried by
// an unambiguous fragment of a key as well as by the exact key.
package partialkey

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no key matches.
var ErrNotFound = errors.New("key not found")

// AmbiguousKeyError is returned when a fragment matches more than one key.
type AmbiguousKeyError struct {
	Query   string
	Matches []string
}

func (e *AmbiguousKeyError) Error() string {
	return fmt.Sprintf("key %q is ambiguous: matches %s", e.Query, strings.Join(quoteAll(e.Matches), ", "))
}

// Dict maps string keys to values.
//
// Lookup order: exact key, then the single key starting with the query, then
// the single key containing the query. Partial matches are case-insensitive.
type Dict[V any] struct {
	keys   []string
	values map[string]V
}

// New returns an empty Dict.
func New[V any]() *Dict[V] {
	return &Dict[V]{values: make(map[string]V)}
}

// Set stores v under key, keeping the key's original position if it exists.
func (d *Dict[V]) Set(key string, v V) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

// Exact returns the value stored under exactly key.
func (d *Dict[V]) Exact(key string) (V, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Lookup resolves query to a single key and returns it with its value.
func (d *Dict[V]) Lookup(query string) (string, V, error) {
	var zero V
	if v, ok := d.values[query]; ok {
		return query, v, nil
	}

	q := strings.ToLower(query)
	for _, match := range []func(k string) bool{
		func(k string) bool { return strings.HasPrefix(strings.ToLower(k), q) },
		func(k string) bool { return strings.Contains(strings.ToLower(k), q) },
	} {
		var found []string
		for _, k := range d.keys {
			if match(k) {
				found = append(found, k)
			}
		}
		switch len(found) {
		case 0:
			continue
		case 1:
			return found[0], d.values[found[0]], nil
		default:
			return "", zero, &AmbiguousKeyError{Query: query, Matches: found}
		}
	}

	return "", zero, fmt.Errorf("%w: %q", ErrNotFound, query)
}

// Get is Lookup without the resolved key.
func (d *Dict[V]) Get(query string) (V, error) {
	_, v, err := d.Lookup(query)
	return v, err
}

// Keys returns keys in insertion order.
func (d *Dict[V]) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Len returns the number of keys.
func (d *Dict[V]) Len() int {
	return len(d.keys)
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}

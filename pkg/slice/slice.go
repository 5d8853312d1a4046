// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice complements the standard [slices] package with small functional
helpers (Map, Filter, Count, GroupBy) leveraging generics.
*/
package slice

// Map maps a slice of type T to a slice of type U using the provided transformation function.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}

// Filter returns the elements for which predicate is true, preserving order.
// The result is never nil, so it always serialises as a JSON array.
func Filter[T any](input []T, predicate func(T) bool) []T {
	result := make([]T, 0)
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}
	return result
}

// Count returns how many elements satisfy predicate.
func Count[T any](input []T, predicate func(T) bool) int {
	n := 0
	for _, v := range input {
		if predicate(v) {
			n++
		}
	}
	return n
}

// GroupBy buckets elements by key. Elements for which key reports ok=false
// are left out. Bucket order follows input order.
func GroupBy[T any, K comparable](input []T, key func(T) (K, bool)) map[K][]T {
	groups := make(map[K][]T)
	for _, v := range input {
		if k, ok := key(v); ok {
			groups[k] = append(groups[k], v)
		}
	}
	return groups
}

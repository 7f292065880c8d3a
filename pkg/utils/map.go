package utils

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// Generates a sequence constructed by applying a function to all elements of a given input sequence
func Map[T any, U any](input []T, mapFunction func(T) U) []U {
	output := make([]U, len(input))

	for i := range input {
		output[i] = mapFunction(input[i])
	}

	return output
}

// Returns an array with all the keys of a map, sorted ascending. Iterating a
// map through this gives deterministic output order.
func SortedKeys[Key constraints.Ordered, Value any](input map[Key]Value) []Key {
	keys := make([]Key, 0, len(input))

	for key := range input {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}

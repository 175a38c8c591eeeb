// Copyright 2025 The cclit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package collections

import "slices"

// Set is a generic implementation of a mathematical set for comparable types.
// It is implemented as a map with empty struct values for minimal memory usage.
type Set[T comparable] map[T]struct{}

// SetOf creates a new Set containing the given elements.
func SetOf[T comparable](elems ...T) Set[T] {
	return ToSet(elems)
}

// ToSet converts a slice into a Set, eliminating duplicates.
func ToSet[T comparable](slice []T) Set[T] {
	return make(Set[T], len(slice)).AddSlice(slice)
}

// Add inserts an element into the Set.
// Returns the Set to allow chaining.
func (s Set[T]) Add(elem T) Set[T] {
	s[elem] = struct{}{}
	return s
}

// AddSlice inserts all elements from the given slice to the Set.
// Returns the Set to allow chaining.
func (s Set[T]) AddSlice(elems []T) Set[T] {
	for _, elem := range elems {
		s.Add(elem)
	}
	return s
}

// Contains checks whether an element exists in the Set.
func (s Set[T]) Contains(elem T) bool {
	_, exists := s[elem]
	return exists
}

// Remove deletes an element from the Set if present.
func (s Set[T]) Remove(elem T) Set[T] {
	delete(s, elem)
	return s
}

// SortedValues returns the elements of the Set as a slice sorted with cmp.
func (s Set[T]) SortedValues(cmp func(l, r T) int) []T {
	values := make([]T, 0, len(s))
	for elem := range s {
		values = append(values, elem)
	}
	slices.SortFunc(values, cmp)
	return values
}

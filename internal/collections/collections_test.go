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

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapSlice(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, MapSlice([]int{1, 2, 3}, strconv.Itoa))
	assert.Empty(t, MapSlice([]int{}, strconv.Itoa))
}

func TestFilterSlice(t *testing.T) {
	even := func(v int) bool { return v%2 == 0 }
	assert.Equal(t, []int{2, 4}, FilterSlice([]int{1, 2, 3, 4, 5}, even))
	assert.Empty(t, FilterSlice([]int{1, 3}, even))
}

func TestSet(t *testing.T) {
	s := SetOf("b", "a", "b")
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("c"))
	assert.Len(t, s, 2)

	s.Add("c").Remove("a")
	assert.False(t, s.Contains("a"))
	assert.Equal(t, []string{"b", "c"}, s.SortedValues(strings.Compare))
}

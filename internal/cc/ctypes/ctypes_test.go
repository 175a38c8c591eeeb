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

package ctypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpelling(t *testing.T) {
	testCases := []struct {
		typ      Type
		expected string
	}{
		{CInt, "int"},
		{CULongLong, "unsigned long long"},
		{&Pointer{Pointee: CChar}, "char *"},
		{&Array{Elem: CInt, Len: 4}, "int[4]"},
		{&Record{Name: "Point"}, "Point"},
		{&Record{Name: "Rect", Tagged: true}, "struct Rect"},
		{&Record{Name: "Data", Tagged: true, IsUnion: true}, "union Data"},
		{&Enum{Name: "Color"}, "Color"},
		{&Alias{Name: "myint", Underlying: CInt}, "myint"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, tc.typ.Spelling())
	}
}

func TestCanonicalStripsAliases(t *testing.T) {
	inner := &Alias{Name: "myint", Underlying: CInt}
	outer := &Alias{Name: "deeper", Underlying: inner}

	assert.Equal(t, CInt, Canonical(outer))
	assert.Equal(t, CInt, Canonical(CInt), "non-aliases are already canonical")

	ptr := &Pointer{Pointee: inner}
	assert.Equal(t, ptr, Canonical(ptr), "canonicalization does not recurse into pointees")
}

func TestCategoryPredicates(t *testing.T) {
	assert.True(t, IsInteger(CInt))
	assert.True(t, IsInteger(CBool))
	assert.True(t, IsInteger(&Alias{Name: "myint", Underlying: CULongLong}))
	assert.False(t, IsInteger(CFloat))
	assert.False(t, IsInteger(&Record{Name: "Point"}))

	assert.True(t, IsFloating(CFloat))
	assert.True(t, IsFloating(CLDouble))
	assert.False(t, IsFloating(CInt))

	assert.True(t, IsCharLike(CChar))
	assert.True(t, IsCharLike(CSChar))
	assert.True(t, IsCharLike(CUChar))
	assert.False(t, IsCharLike(CShort))
	assert.False(t, IsCharLike(CVoid))
}

func TestIdentity(t *testing.T) {
	testCases := []struct {
		typ      Type
		expected string
	}{
		{CInt, "c:int"},
		{CUChar, "c:unsigned char"},
		{&Pointer{Pointee: CChar}, "c:*char"},
		{&Array{Elem: CInt, Len: 3}, "c:[3]int"},
		{&Record{Name: "Point"}, "c:@S@Point"},
		{&Record{Name: "Data", IsUnion: true}, "c:@U@Data"},
		{&Enum{Name: "Color"}, "c:@E@Color"},
		// The alias layer is invisible to identity: a typedef shares its
		// underlying type's key.
		{&Alias{Name: "myint", Underlying: CInt}, "c:int"},
	}
	for _, tc := range testCases {
		sti, ok := Identity(tc.typ)
		require.True(t, ok, "type %s", tc.typ.Spelling())
		assert.Equal(t, tc.expected, sti)
	}
}

func TestIdentityAnonymousRecordIsStructural(t *testing.T) {
	shape := func() *Record {
		return &Record{Name: "AnonymousStruct_1", Anonymous: true, Fields: []Field{
			{Name: "x", Type: CInt},
			{Name: "y", Type: CInt},
		}}
	}

	a, ok := Identity(shape())
	require.True(t, ok)
	b, ok := Identity(shape())
	require.True(t, ok)
	assert.Equal(t, a, b, "structurally identical anonymous records share an identity")
	assert.Equal(t, "c:@S@{x:int,y:int}", a)

	different, ok := Identity(&Record{Name: "AnonymousStruct_2", Anonymous: true, Fields: []Field{
		{Name: "x", Type: CFloat},
	}})
	require.True(t, ok)
	assert.NotEqual(t, a, different)
}

func TestIdentityUnavailable(t *testing.T) {
	_, ok := Identity(&Enum{})
	assert.False(t, ok, "unnamed enums have no stable identity")

	_, ok = Identity(&Pointer{Pointee: &Enum{}})
	assert.False(t, ok, "pointer identity requires a pointee identity")
}

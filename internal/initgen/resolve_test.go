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

package initgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativebind/cclit/internal/cc/ctypes"
)

func TestResolvePrimitiveMapping(t *testing.T) {
	reg := NewRegistry()
	testCases := []struct {
		typ      ctypes.Type
		expected string
	}{
		{ctypes.CInt, "i32"},
		{ctypes.CShort, "i16"},
		{ctypes.CLongLong, "i64"},
		{ctypes.CChar, "u8"},
		{ctypes.CSChar, "u8"},
		{ctypes.CUChar, "u8"},
		{ctypes.CFloat, "f32"},
		{ctypes.CDouble, "f64"},
		{&ctypes.Pointer{Pointee: ctypes.CChar}, "str"},
		{&ctypes.Pointer{Pointee: ctypes.CUChar}, "str"},
		{&ctypes.Pointer{Pointee: ctypes.CVoid}, "anyptr"},
		{&ctypes.Pointer{Pointee: ctypes.CInt}, "anyptr"},
		// Unmapped widths degrade to the raw spelling.
		{ctypes.CUInt, "unsigned int"},
		{ctypes.CLong, "long"},
		{ctypes.CULongLong, "unsigned long long"},
		{ctypes.CBool, "_Bool"},
		{ctypes.CLDouble, "long double"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ResolveTypeName(tc.typ, reg), "type %s", tc.typ.Spelling())
	}
}

func TestResolveStripsAliases(t *testing.T) {
	reg := NewRegistry()
	// typedef int myint; typedef myint deeper;
	myint := &ctypes.Alias{Name: "myint", Underlying: ctypes.CInt}
	deeper := &ctypes.Alias{Name: "deeper", Underlying: myint}

	assert.Equal(t, "i32", ResolveTypeName(myint, reg))
	assert.Equal(t, "i32", ResolveTypeName(deeper, reg))

	// A pointer to a char typedef is still a C string.
	cstr := &ctypes.Pointer{Pointee: &ctypes.Alias{Name: "byte_t", Underlying: ctypes.CChar}}
	assert.Equal(t, "str", ResolveTypeName(cstr, reg))
}

func TestResolveRecordFallsThroughToSpelling(t *testing.T) {
	reg := NewRegistry()
	point := &ctypes.Record{Name: "Point", Fields: []ctypes.Field{
		{Name: "x", Type: ctypes.CInt},
		{Name: "y", Type: ctypes.CInt},
	}}
	tagged := &ctypes.Record{Name: "Rect", Tagged: true}

	assert.Equal(t, "Point", ResolveTypeName(point, reg))
	assert.Equal(t, "struct Rect", ResolveTypeName(tagged, reg))
	assert.Equal(t, "Color", ResolveTypeName(&ctypes.Enum{Name: "Color"}, reg))
}

func TestResolveOverridePrecedence(t *testing.T) {
	point := &ctypes.Record{Name: "Point"}
	sti, ok := ctypes.Identity(point)
	require.True(t, ok)
	require.Equal(t, "c:@S@Point", sti)

	reg := NewRegistry()
	reg.SetAll([]Entry{
		{Key: sti, Name: "Vec2"},
		{Key: "c:int", Name: "Int32"}, // overrides win even for builtins
	})

	assert.Equal(t, "Vec2", ResolveTypeName(point, reg))
	assert.Equal(t, "Int32", ResolveTypeName(ctypes.CInt, reg))
	// An aliased view of the same type shares the identity, hence the name.
	assert.Equal(t, "Int32", ResolveTypeName(&ctypes.Alias{Name: "myint", Underlying: ctypes.CInt}, reg))
}

func TestResolveIsDeterministic(t *testing.T) {
	reg := NewRegistry()
	reg.SetAll([]Entry{{Key: "c:@S@Point", Name: "Vec2"}})

	// Two structurally identical values of the same declaration resolve
	// identically, regardless of pointer identity.
	a := &ctypes.Record{Name: "Point"}
	b := &ctypes.Record{Name: "Point"}
	assert.Equal(t, ResolveTypeName(a, reg), ResolveTypeName(b, reg))

	for range 3 {
		assert.Equal(t, "Vec2", ResolveTypeName(a, reg))
	}
}

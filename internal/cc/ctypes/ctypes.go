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

// Package ctypes models the subset of the C type system needed to rewrite
// macro compound literals as named initializers: builtin kinds with their
// width and signedness, pointers, arrays, enums, records (structs and unions)
// with ordered fields, and typedef aliases.
//
// Types are borrowed, read-only handles: they are built once by the parser
// and never mutated afterwards.
package ctypes

import (
	"fmt"
	"strings"
)

type Kind int

const (
	KindBuiltin Kind = iota
	KindPointer
	KindArray
	KindRecord
	KindEnum
	KindAlias
)

// BuiltinKind identifies a specific C builtin type. Plain char is distinct
// from signed char and unsigned char, mirroring the three character types of
// the C standard.
type BuiltinKind int

const (
	Void BuiltinKind = iota
	Bool
	Char
	SChar
	UChar
	Short
	UShort
	Int
	UInt
	Long
	ULong
	LongLong
	ULongLong
	Float
	Double
	LongDouble
)

// Type is an opaque handle to a C type. Implementations are *Builtin,
// *Pointer, *Array, *Record, *Enum and *Alias.
type Type interface {
	Kind() Kind
	// Spelling returns the C spelling of the type as written in source, e.g.
	// "Point" for a typedef name or "struct Rectangle" for a tagged record.
	Spelling() string
}

type Builtin struct {
	K BuiltinKind
}

type Pointer struct {
	Pointee Type
}

type Array struct {
	Elem Type
	Len  int
}

// Field is a named, declaration-ordered data member of a record.
type Field struct {
	Name string
	Type Type
}

// Record is a struct or union type. Name is either the struct tag, the
// typedef name that introduced an otherwise anonymous record, or a generated
// AnonymousStruct_N / AnonymousUnion_N placeholder.
type Record struct {
	Name      string
	IsUnion   bool
	Tagged    bool // declared with a tag: `struct Name { ... }`
	Anonymous bool // had neither tag nor typedef name; Name is generated
	Fields    []Field
}

type Enum struct {
	Name string
}

// Alias is a typedef layer over another type.
type Alias struct {
	Name       string
	Underlying Type
}

func (*Builtin) Kind() Kind { return KindBuiltin }
func (*Pointer) Kind() Kind { return KindPointer }
func (*Array) Kind() Kind   { return KindArray }
func (*Record) Kind() Kind  { return KindRecord }
func (*Enum) Kind() Kind    { return KindEnum }
func (*Alias) Kind() Kind   { return KindAlias }

var builtinSpellings = map[BuiltinKind]string{
	Void:       "void",
	Bool:       "_Bool",
	Char:       "char",
	SChar:      "signed char",
	UChar:      "unsigned char",
	Short:      "short",
	UShort:     "unsigned short",
	Int:        "int",
	UInt:       "unsigned int",
	Long:       "long",
	ULong:      "unsigned long",
	LongLong:   "long long",
	ULongLong:  "unsigned long long",
	Float:      "float",
	Double:     "double",
	LongDouble: "long double",
}

func (t *Builtin) Spelling() string { return builtinSpellings[t.K] }
func (t *Pointer) Spelling() string { return t.Pointee.Spelling() + " *" }
func (t *Array) Spelling() string   { return fmt.Sprintf("%s[%d]", t.Elem.Spelling(), t.Len) }
func (t *Enum) Spelling() string    { return t.Name }
func (t *Alias) Spelling() string   { return t.Name }

func (t *Record) Spelling() string {
	if t.Tagged {
		if t.IsUnion {
			return "union " + t.Name
		}
		return "struct " + t.Name
	}
	return t.Name
}

// Singleton builtins shared by the parser and tests.
var (
	CVoid      = &Builtin{Void}
	CBool      = &Builtin{Bool}
	CChar      = &Builtin{Char}
	CSChar     = &Builtin{SChar}
	CUChar     = &Builtin{UChar}
	CShort     = &Builtin{Short}
	CUShort    = &Builtin{UShort}
	CInt       = &Builtin{Int}
	CUInt      = &Builtin{UInt}
	CLong      = &Builtin{Long}
	CULong     = &Builtin{ULong}
	CLongLong  = &Builtin{LongLong}
	CULongLong = &Builtin{ULongLong}
	CFloat     = &Builtin{Float}
	CDouble    = &Builtin{Double}
	CLDouble   = &Builtin{LongDouble}
)

// Canonical strips all typedef alias layers, down to the underlying builtin,
// pointer, array, enum or record form. Every other kind is already canonical.
func Canonical(t Type) Type {
	for {
		alias, ok := t.(*Alias)
		if !ok {
			return t
		}
		t = alias.Underlying
	}
}

// IsInteger reports whether the canonical form of t is a C integer type
// (including the character types and _Bool).
func IsInteger(t Type) bool {
	b, ok := Canonical(t).(*Builtin)
	return ok && b.K >= Bool && b.K <= ULongLong
}

// IsFloating reports whether the canonical form of t is a C floating type.
func IsFloating(t Type) bool {
	b, ok := Canonical(t).(*Builtin)
	return ok && b.K >= Float && b.K <= LongDouble
}

// IsCharLike reports whether the canonical form of t is one of the three C
// character types. Used to distinguish C string pointers from raw pointers.
func IsCharLike(t Type) bool {
	b, ok := Canonical(t).(*Builtin)
	return ok && (b.K == Char || b.K == SChar || b.K == UChar)
}

// Identity derives the stable type identity (STI) of t: a deterministic
// string key independent of spelling or file location, usable across
// translation units as the override table's lookup key. Two structurally
// identical types produce the same identity.
//
// The format follows the shape of clang USRs: "c:@S@Point" for a named
// struct, "c:@U@Data" for a named union, "c:@E@Color" for a named enum and
// "c:<spelling>" for builtins. Anonymous records, which have no stable name,
// use a structural descriptor of their fields instead. Returns ok=false for
// types with no computable identity.
func Identity(t Type) (sti string, ok bool) {
	switch v := Canonical(t).(type) {
	case *Builtin:
		return "c:" + v.Spelling(), true
	case *Pointer:
		pointee, ok := Identity(v.Pointee)
		if !ok {
			return "", false
		}
		return "c:*" + strings.TrimPrefix(pointee, "c:"), true
	case *Array:
		elem, ok := Identity(v.Elem)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("c:[%d]%s", v.Len, strings.TrimPrefix(elem, "c:")), true
	case *Enum:
		if v.Name == "" {
			return "", false
		}
		return "c:@E@" + v.Name, true
	case *Record:
		marker := "@S@"
		if v.IsUnion {
			marker = "@U@"
		}
		if !v.Anonymous && v.Name != "" {
			return "c:" + marker + v.Name, true
		}
		// Anonymous records fall back to a structural descriptor so that the
		// same shape yields the same key in every translation unit.
		fields := make([]string, 0, len(v.Fields))
		for _, f := range v.Fields {
			fieldID, ok := Identity(f.Type)
			if !ok {
				return "", false
			}
			fields = append(fields, f.Name+":"+strings.TrimPrefix(fieldID, "c:"))
		}
		return "c:" + marker + "{" + strings.Join(fields, ",") + "}", true
	default:
		return "", false
	}
}

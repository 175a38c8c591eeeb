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

package parser

import "github.com/nativebind/cclit/internal/cc/ctypes"

// Expr is a node of an initializer expression tree. Implementations are
// *IntLit, *FloatLit, *StrLit, *CompoundLit, *InitList and *Opaque.
//
// The tree is deliberately shallow: anything the macro evaluator does not
// model (identifiers, arithmetic, casts, function-like macro calls) collapses
// into an Opaque node carrying the verbatim source text of its span.
type Expr interface {
	isExpr()
}

// IntLit is an integer literal. Values outside the signed 64-bit range have
// been truncated into it during parsing.
type IntLit struct {
	Value int64
}

// FloatLit is a floating point literal. Text is the canonical decimal
// representation of its value, with any C suffix removed.
type FloatLit struct {
	Text string
}

// StrLit is a string literal. Value is the character content between the
// quotes, with escape sequences left as written.
type StrLit struct {
	Value string
}

// InitList is a brace-enclosed initializer list: { e0, e1, ... }. Its element
// types are not known until it is matched against a record field.
type InitList struct {
	Elems []Expr
	// Verbatim source text of the whole list, used when the list cannot be
	// typed and degrades to passthrough.
	Text string
}

// CompoundLit is a typed compound literal: (Type){ ... } or the tolerated
// bare Type{ ... } spelling. Init is normally an *InitList; consumers must
// not assume it is.
type CompoundLit struct {
	Type ctypes.Type
	Init Expr
}

// Opaque is the fallback node for every expression kind without structured
// handling. Text is the exact original source substring of the expression
// span when the span is contiguous, or the space-joined token contents
// otherwise. It is never empty.
type Opaque struct {
	Text string
}

func (*IntLit) isExpr()      {}
func (*FloatLit) isExpr()    {}
func (*StrLit) isExpr()      {}
func (*InitList) isExpr()    {}
func (*CompoundLit) isExpr() {}
func (*Opaque) isExpr()      {}

// VarDecl is a top-level variable declaration with an initializer, recorded
// so the evaluation entry point can locate the sentinel declaration of the
// synthetic translation unit.
type VarDecl struct {
	Name string
	Init Expr
}

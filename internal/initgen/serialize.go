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
	"errors"
	"strconv"
	"strings"

	"github.com/nativebind/cclit/internal/cc/ctypes"
	"github.com/nativebind/cclit/internal/cc/parser"
)

// Sentinel markers returned by compound serialization instead of faulting.
// Callers checking the output for these strings decide the failure policy.
const (
	NotARecordMarker    = "<not a record>"
	NotAnInitListMarker = "<not an init list>"
)

// ErrTooDeeplyNested is returned when compound literal nesting exceeds the
// serializer's depth bound.
var ErrTooDeeplyNested = errors.New("literal too deeply nested")

// DefaultMaxDepth bounds compound literal nesting when Serializer.MaxDepth
// is left zero. Deeper sources are rejected with ErrTooDeeplyNested rather
// than risking unbounded recursion on adversarial headers.
const DefaultMaxDepth = 64

// Fragment is one rendered piece of initializer text. Passthrough marks text
// copied verbatim from the C source because no structured handling exists for
// that expression kind; consumers may reject such fragments instead of
// trusting foreign syntax.
type Fragment struct {
	Text        string
	Passthrough bool
}

// Serializer renders expression trees as named-field initializer text. It
// never mutates the expression tree or the registry.
type Serializer struct {
	Registry *Registry
	MaxDepth int
}

func (s *Serializer) maxDepth() int {
	if s.MaxDepth > 0 {
		return s.MaxDepth
	}
	return DefaultMaxDepth
}

// Serialize renders a single expression:
//
//   - integer literals as decimal text of their signed 64-bit value,
//   - float literals as canonical decimal text,
//   - string literals as `"content".ref()`, a borrowed-string view,
//   - compound literals through CompoundToInit,
//   - everything else verbatim from source, tagged Passthrough.
func (s *Serializer) Serialize(e parser.Expr) (Fragment, error) {
	return s.serialize(e, 0)
}

func (s *Serializer) serialize(e parser.Expr, depth int) (Fragment, error) {
	switch v := e.(type) {
	case *parser.IntLit:
		return Fragment{Text: strconv.FormatInt(v.Value, 10)}, nil
	case *parser.FloatLit:
		return Fragment{Text: v.Text}, nil
	case *parser.StrLit:
		return Fragment{Text: `"` + v.Value + `".ref()`}, nil
	case *parser.CompoundLit:
		return s.compoundToInit(v, depth)
	case *parser.InitList:
		// A brace list with no governing record type (e.g. an array field
		// initializer) has no named-field form; its source text passes
		// through.
		return Fragment{Text: v.Text, Passthrough: true}, nil
	case *parser.Opaque:
		return Fragment{Text: v.Text, Passthrough: true}, nil
	default:
		return Fragment{Text: NotAnInitListMarker}, nil
	}
}

// CompoundToInit renders a compound literal as `Name{f0=v0, f1=v1, ...}`,
// recursing into nested compound literals. Non-record literals and non-list
// initializers yield the sentinel markers, not errors.
func (s *Serializer) CompoundToInit(cl *parser.CompoundLit) (Fragment, error) {
	return s.compoundToInit(cl, 0)
}

func (s *Serializer) compoundToInit(cl *parser.CompoundLit, depth int) (Fragment, error) {
	if depth >= s.maxDepth() {
		return Fragment{}, ErrTooDeeplyNested
	}
	record, ok := ctypes.Canonical(cl.Type).(*ctypes.Record)
	if !ok {
		return Fragment{Text: NotARecordMarker}, nil
	}
	list, ok := cl.Init.(*parser.InitList)
	if !ok {
		return Fragment{Text: NotAnInitListMarker}, nil
	}

	fields := record.Fields
	if record.IsUnion && len(fields) > 1 {
		// A union literal initializes only its first member.
		fields = fields[:1]
	}
	n := min(len(fields), len(list.Elems))

	var out strings.Builder
	out.WriteString(ResolveTypeName(cl.Type, s.Registry))
	out.WriteByte('{')
	passthrough := false
	for i := 0; i < n; i++ {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(fields[i].Name)
		out.WriteByte('=')

		value := list.Elems[i]
		// An untyped {...} element initializing a record-typed field takes
		// that field's declared type.
		if nested, isList := value.(*parser.InitList); isList {
			if _, isRecord := ctypes.Canonical(fields[i].Type).(*ctypes.Record); isRecord {
				value = &parser.CompoundLit{Type: fields[i].Type, Init: nested}
			}
		}
		frag, err := s.serialize(value, depth+1)
		if err != nil {
			return Fragment{}, err
		}
		passthrough = passthrough || frag.Passthrough
		out.WriteString(frag.Text)
	}
	out.WriteByte('}')
	return Fragment{Text: out.String(), Passthrough: passthrough}, nil
}

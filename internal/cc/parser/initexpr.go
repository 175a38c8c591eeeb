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

import (
	"errors"
	"strconv"
	"strings"

	"github.com/nativebind/cclit/internal/cc/ctypes"
	"github.com/nativebind/cclit/internal/cc/lexer"
)

// exprFromTokens converts one initializer expression (the token sequence
// between '=' and ';', or one element of an initializer list) into an Expr.
// Every form without structured handling collapses into an Opaque node
// carrying the verbatim source text of the full span.
func (u *Unit) exprFromTokens(toks []token) Expr {
	if e := u.structuralExpr(toks); e != nil {
		return e
	}
	text := u.spanText(toks)
	if text == "" {
		text = "<unknown>"
	}
	return &Opaque{Text: text}
}

// structuralExpr recognizes the modeled expression forms, returning nil when
// the tokens require the Opaque fallback. Redundant wrapping parentheses are
// looked through for structure detection only; the Opaque fallback always
// renders the original span including them.
func (u *Unit) structuralExpr(toks []token) Expr {
	if len(toks) == 0 {
		return nil
	}

	if len(toks) == 1 {
		return literalExpr(toks[0])
	}

	first := toks[0]
	switch {
	// (Type){ ... } — a C compound literal.
	case first.Content == "(":
		closeIdx := matchingDelimiter(toks, 0)
		if closeIdx < 0 {
			return nil
		}
		if closeIdx == len(toks)-1 {
			// Fully parenthesized expression: look through for structure.
			if inner := u.structuralExpr(toks[1:closeIdx]); inner != nil {
				return inner
			}
			return nil
		}
		if toks[closeIdx+1].Content != "{" || matchingDelimiter(toks, closeIdx+1) != len(toks)-1 {
			return nil
		}
		t, ok := u.typeFromTokens(toks[1:closeIdx])
		if !ok {
			return nil
		}
		return &CompoundLit{Type: t, Init: u.initListFromTokens(toks[closeIdx+1:])}

	// Type{ ... } — tolerated bare spelling, seen in the wild in macro
	// bodies targeting binding generators.
	case first.Type == lexer.TokenType_Identifier && toks[1].Content == "{":
		if matchingDelimiter(toks, 1) != len(toks)-1 {
			return nil
		}
		t, ok := u.typeFromTokens(toks[:1])
		if !ok {
			return nil
		}
		return &CompoundLit{Type: t, Init: u.initListFromTokens(toks[1:])}

	// { ... } — untyped initializer list; its type comes from the record
	// field it initializes.
	case first.Content == "{":
		if matchingDelimiter(toks, 0) != len(toks)-1 {
			return nil
		}
		return u.initListFromTokens(toks)

	default:
		return nil
	}
}

// literalExpr converts a single literal token, or reports nil for anything
// that must stay opaque (identifiers, char literals).
func literalExpr(tok token) Expr {
	switch tok.Type {
	case lexer.TokenType_IntegerLiteral:
		if v, ok := parseCIntLiteral(tok.Content); ok {
			return &IntLit{Value: v}
		}
		return nil
	case lexer.TokenType_FloatLiteral:
		if text, ok := canonicalFloatText(tok.Content); ok {
			return &FloatLit{Text: text}
		}
		return nil
	case lexer.TokenType_StringLiteral:
		return &StrLit{Value: strings.Trim(tok.Content, `"`)}
	default:
		return nil
	}
}

// parseCIntLiteral parses a C integer literal (decimal, hex or octal, with
// optional suffixes) into a signed 64-bit value. Values above the int64 range
// wrap into it: a fidelity limit, not an error.
func parseCIntLiteral(text string) (int64, bool) {
	text = strings.TrimRightFunc(text, func(r rune) bool {
		return r == 'u' || r == 'U' || r == 'l' || r == 'L'
	})
	v, err := strconv.ParseInt(text, 0, 64)
	if err == nil {
		return v, true
	}
	if errors.Is(err, strconv.ErrRange) {
		if uv, uerr := strconv.ParseUint(text, 0, 64); uerr == nil {
			return int64(uv), true
		}
	}
	return 0, false
}

// canonicalFloatText renders a C float literal in its canonical decimal form,
// dropping the C suffix: "2.5f" -> "2.5", "1e2" -> "100".
func canonicalFloatText(text string) (string, bool) {
	trimmed := strings.TrimRight(text, "fFlL")
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatFloat(v, 'g', -1, 64), true
}

// typeFromTokens resolves a type reference inside a compound literal cast:
// either a single typedef name or a `struct|union|enum Tag` pair.
func (u *Unit) typeFromTokens(toks []token) (ctypes.Type, bool) {
	// Qualifiers are irrelevant for naming.
	for len(toks) > 0 && skippableSpecifiers.Contains(toks[0].Content) {
		toks = toks[1:]
	}
	switch len(toks) {
	case 1:
		t, ok := u.types.names[toks[0].Content]
		return t, ok
	case 2:
		switch toks[0].Content {
		case "struct", "union":
			t, ok := u.types.tags[tagKey(toks[0].Content == "union", toks[1].Content)]
			return t, ok
		case "enum":
			t, ok := u.types.tags["enum "+toks[1].Content]
			return t, ok
		}
	}
	return nil, false
}

// initListFromTokens parses a brace-enclosed initializer list, including the
// delimiters, splitting elements on top-level commas.
func (u *Unit) initListFromTokens(toks []token) *InitList {
	list := &InitList{Text: u.spanText(toks)}
	inner := toks[1 : len(toks)-1]

	depth, start := 0, 0
	flush := func(end int) {
		if element := inner[start:end]; len(element) > 0 {
			list.Elems = append(list.Elems, u.exprFromTokens(element))
		}
	}
	for i, tok := range inner {
		switch tok.Content {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case ",":
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(inner))
	return list
}

// matchingDelimiter returns the index of the delimiter closing the one at
// openIdx, or -1 when unbalanced.
func matchingDelimiter(toks []token, openIdx int) int {
	depth := 0
	for i := openIdx; i < len(toks); i++ {
		switch toks[i].Content {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

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
	"strconv"

	"github.com/nativebind/cclit/internal/cc/ctypes"
	"github.com/nativebind/cclit/internal/cc/lexer"
	"github.com/nativebind/cclit/internal/collections"
)

// declParser scans the preprocessed token stream for type declarations and
// top-level initialized variables. Everything else (function definitions,
// prototypes, attributes) is skipped with brace/paren balancing.
type declParser struct {
	unit       *Unit
	tokensLeft []token
}

// Storage classes and qualifiers irrelevant for evaluation, dropped wherever
// a type may start.
var skippableSpecifiers = collections.SetOf(
	"const", "volatile", "restrict", "static", "extern", "register", "inline",
	"__inline", "__inline__", "_Atomic", "__restrict", "__restrict__",
)

var builtinKeywords = collections.SetOf(
	"void", "char", "short", "int", "long", "float", "double",
	"signed", "unsigned", "_Bool",
)

func (d *declParser) parseAll() {
	for len(d.tokensLeft) > 0 {
		switch d.peek().Content {
		case "typedef":
			d.next()
			d.parseTypedef()
		case "struct", "union", "enum":
			// Tagged definition at file scope registers the type; trailing
			// declarators (if any) are skipped.
			d.parseType()
			d.skipToSemicolon()
		default:
			d.parseStatement()
		}
	}
}

func (d *declParser) peek() token {
	if len(d.tokensLeft) == 0 {
		return token{Token: lexer.TokenEmpty, file: -1}
	}
	return d.tokensLeft[0]
}

func (d *declParser) peekAt(n int) token {
	if n >= len(d.tokensLeft) {
		return token{Token: lexer.TokenEmpty, file: -1}
	}
	return d.tokensLeft[n]
}

func (d *declParser) next() token {
	tok := d.peek()
	d.drop(1)
	return tok
}

// Drop n tokens from the front of the input stream (or all if fewer are left).
func (d *declParser) drop(n int) {
	d.tokensLeft = d.tokensLeft[min(n, len(d.tokensLeft)):]
}

func (d *declParser) skipSpecifiers() {
	for skippableSpecifiers.Contains(d.peek().Content) {
		d.next()
	}
}

// skipToSemicolon drops tokens until (and including) the next ';' that is not
// nested inside parentheses, brackets or braces.
func (d *declParser) skipToSemicolon() {
	depth := 0
	for len(d.tokensLeft) > 0 {
		switch tok := d.next(); tok.Content {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case ";":
			if depth <= 0 {
				return
			}
		}
	}
}

// skipBalanced assumes the opening token was just consumed and drops tokens
// until the matching closer.
func (d *declParser) skipBalanced(open, close string) {
	depth := 1
	for len(d.tokensLeft) > 0 && depth > 0 {
		switch d.next().Content {
		case open:
			depth++
		case close:
			depth--
		}
	}
}

// parseStatement handles an arbitrary top-level statement. Declarations of
// the form `... name = initializer ;` are recorded as VarDecls (this is how
// the sentinel declaration of the synthetic unit is found); function
// definitions and anything else are skipped.
func (d *declParser) parseStatement() {
	depth := 0
	for i := 0; i < len(d.tokensLeft); i++ {
		tok := d.tokensLeft[i]
		switch tok.Content {
		case "(", "[":
			depth++
		case ")", "]":
			depth--
		case "{":
			if depth == 0 {
				// Function body (or aggregate without '='): skip it whole.
				d.drop(i + 1)
				d.skipBalanced("{", "}")
				if d.peek().Content == ";" {
					d.next()
				}
				return
			}
			depth++
		case "}":
			depth--
		case "=":
			if depth == 0 && i > 0 && d.tokensLeft[i-1].Type == lexer.TokenType_Identifier {
				d.parseVarDecl(i)
				return
			}
		case ";":
			if depth == 0 {
				d.drop(i + 1)
				return
			}
		}
	}
	d.drop(len(d.tokensLeft))
}

// parseVarDecl records `name = rhs ;` with the '=' at the given index.
func (d *declParser) parseVarDecl(eqIdx int) {
	name := d.tokensLeft[eqIdx-1].Content

	depth := 0
	end := -1
	for i := eqIdx + 1; i < len(d.tokensLeft); i++ {
		switch d.tokensLeft[i].Content {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case ";":
			if depth <= 0 {
				end = i
			}
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		d.drop(len(d.tokensLeft))
		return
	}

	rhs := d.tokensLeft[eqIdx+1 : end]
	d.drop(end + 1)
	if len(rhs) == 0 {
		return
	}
	d.unit.Vars = append(d.unit.Vars, VarDecl{Name: name, Init: d.unit.exprFromTokens(rhs)})
}

// parseTypedef handles `typedef <type> <declarators> ;`. A typedef over an
// anonymous record or enum donates its name to the type, mirroring how clang
// spells such types; further declarators become aliases.
func (d *declParser) parseTypedef() {
	t, ok := d.parseType()
	if !ok {
		d.skipToSemicolon()
		return
	}

	for {
		declType := t
		for d.peek().Content == "*" || skippableSpecifiers.Contains(d.peek().Content) {
			if d.next().Content == "*" {
				declType = &ctypes.Pointer{Pointee: declType}
			}
		}
		if d.peek().Content == "(" {
			// Function pointer typedef: not modeled.
			d.skipToSemicolon()
			return
		}
		nameTok := d.next()
		if nameTok.Type != lexer.TokenType_Identifier {
			d.skipToSemicolon()
			return
		}
		declType = d.parseArraySuffix(declType)

		d.unit.types.names[nameTok.Content] = adoptTypedefName(nameTok.Content, declType)

		switch d.peek().Content {
		case ",":
			d.next()
			continue
		case ";":
			d.next()
			return
		default:
			d.skipToSemicolon()
			return
		}
	}
}

// adoptTypedefName gives an anonymous record or enum the typedef's name (the
// way clang reports the spelling of `typedef struct {...} Name;` as "Name"),
// otherwise wraps the type in an alias layer.
func adoptTypedefName(name string, t ctypes.Type) ctypes.Type {
	switch v := t.(type) {
	case *ctypes.Record:
		if v.Anonymous {
			v.Name = name
			v.Anonymous = false
			return v
		}
	case *ctypes.Enum:
		if v.Name == "" {
			v.Name = name
			return v
		}
	}
	return &ctypes.Alias{Name: name, Underlying: t}
}

// parseType parses a type specifier: builtin keyword sequences, struct/union
// (with optional inline body), enum, or a previously registered typedef name.
// Returns ok=false without consuming tokens beyond the specifiers when the
// next tokens do not begin a recognizable type.
func (d *declParser) parseType() (ctypes.Type, bool) {
	d.skipSpecifiers()
	switch tok := d.peek(); {
	case tok.Content == "struct" || tok.Content == "union":
		return d.parseRecord()
	case tok.Content == "enum":
		return d.parseEnum()
	case builtinKeywords.Contains(tok.Content):
		return d.parseBuiltin(), true
	case tok.Type == lexer.TokenType_Identifier:
		if t, ok := d.unit.types.names[tok.Content]; ok {
			d.next()
			return t, true
		}
		return nil, false
	default:
		return nil, false
	}
}

func (d *declParser) parseBuiltin() ctypes.Type {
	var words []string
	for builtinKeywords.Contains(d.peek().Content) {
		words = append(words, d.next().Content)
	}
	return classifyBuiltin(words)
}

func classifyBuiltin(words []string) *ctypes.Builtin {
	has := collections.ToSet(words)
	longs := 0
	for _, w := range words {
		if w == "long" {
			longs++
		}
	}
	unsigned := has.Contains("unsigned")

	switch {
	case has.Contains("void"):
		return ctypes.CVoid
	case has.Contains("float"):
		return ctypes.CFloat
	case has.Contains("double"):
		if longs > 0 {
			return ctypes.CLDouble
		}
		return ctypes.CDouble
	case has.Contains("char"):
		switch {
		case unsigned:
			return ctypes.CUChar
		case has.Contains("signed"):
			return ctypes.CSChar
		default:
			return ctypes.CChar
		}
	case has.Contains("short"):
		if unsigned {
			return ctypes.CUShort
		}
		return ctypes.CShort
	case longs >= 2:
		if unsigned {
			return ctypes.CULongLong
		}
		return ctypes.CLongLong
	case longs == 1:
		if unsigned {
			return ctypes.CULong
		}
		return ctypes.CLong
	case has.Contains("_Bool"):
		return ctypes.CBool
	case unsigned:
		return ctypes.CUInt
	default:
		return ctypes.CInt
	}
}

// parseRecord parses `struct|union [Tag] [{ fields }]`. Tagged records are
// registered before their body is parsed so self-referential pointer fields
// resolve. Anonymous records receive a generated placeholder name.
func (d *declParser) parseRecord() (ctypes.Type, bool) {
	isUnion := d.next().Content == "union"

	name, tagged := "", false
	if d.peek().Type == lexer.TokenType_Identifier {
		name, tagged = d.next().Content, true
	}

	if d.peek().Content != "{" {
		if !tagged {
			return nil, false
		}
		key := tagKey(isUnion, name)
		if t, ok := d.unit.types.tags[key]; ok {
			return t, true
		}
		// Forward reference: register an incomplete record.
		rec := &ctypes.Record{Name: name, IsUnion: isUnion, Tagged: true}
		d.unit.types.tags[key] = rec
		return rec, true
	}

	var rec *ctypes.Record
	if tagged {
		key := tagKey(isUnion, name)
		if existing, ok := d.unit.types.tags[key].(*ctypes.Record); ok {
			rec = existing // completing a forward declaration
		} else {
			rec = &ctypes.Record{Name: name, IsUnion: isUnion, Tagged: true}
			d.unit.types.tags[key] = rec
		}
	} else {
		rec = &ctypes.Record{Name: d.unit.nextAnonName(isUnion), IsUnion: isUnion, Anonymous: true}
	}

	d.next() // consume '{'
	d.parseFields(rec)
	return rec, true
}

func (d *declParser) parseFields(rec *ctypes.Record) {
	for len(d.tokensLeft) > 0 {
		if d.peek().Content == "}" {
			d.next()
			return
		}

		base, ok := d.parseType()
		if !ok {
			d.skipToSemicolon()
			continue
		}

		for {
			fieldType := base
			for d.peek().Content == "*" || skippableSpecifiers.Contains(d.peek().Content) {
				if d.next().Content == "*" {
					fieldType = &ctypes.Pointer{Pointee: fieldType}
				}
			}

			if d.peek().Content == "(" {
				// Function pointer field: keep the name, type degrades to an
				// untyped pointer.
				if name, ok := d.parseFnPtrDeclarator(); ok {
					rec.Fields = append(rec.Fields, ctypes.Field{Name: name, Type: &ctypes.Pointer{Pointee: ctypes.CVoid}})
				}
				break
			}

			name := ""
			if d.peek().Type == lexer.TokenType_Identifier {
				name = d.next().Content
			}
			fieldType = d.parseArraySuffix(fieldType)
			if d.peek().Content == ":" { // bitfield width
				d.next()
				d.next()
			}
			rec.Fields = append(rec.Fields, ctypes.Field{Name: name, Type: fieldType})

			if d.peek().Content == "," {
				d.next()
				continue
			}
			if d.peek().Content == ";" {
				d.next()
			} else {
				d.skipToSemicolon()
			}
			break
		}
	}
}

// parseFnPtrDeclarator consumes `( * name ) ( params )` up to and including
// the terminating semicolon, returning the declarator name if present.
func (d *declParser) parseFnPtrDeclarator() (string, bool) {
	d.next() // '('
	name := ""
	for d.peek().Content == "*" {
		d.next()
	}
	if d.peek().Type == lexer.TokenType_Identifier {
		name = d.next().Content
	}
	d.skipToSemicolon()
	return name, name != ""
}

func (d *declParser) parseArraySuffix(t ctypes.Type) ctypes.Type {
	for d.peek().Content == "[" {
		d.next()
		length := 0
		if d.peek().Type == lexer.TokenType_IntegerLiteral {
			if v, err := strconv.Atoi(d.peek().Content); err == nil {
				length = v
			}
		}
		for len(d.tokensLeft) > 0 && d.peek().Content != "]" {
			d.next()
		}
		if d.peek().Content == "]" {
			d.next()
		}
		t = &ctypes.Array{Elem: t, Len: length}
	}
	return t
}

// parseEnum parses `enum [Tag] [{ enumerators }]`. Enumerator values are not
// modeled; uses of enum constants in initializers degrade to passthrough.
func (d *declParser) parseEnum() (ctypes.Type, bool) {
	d.next() // 'enum'

	name, tagged := "", false
	if d.peek().Type == lexer.TokenType_Identifier {
		name, tagged = d.next().Content, true
	}

	e := &ctypes.Enum{Name: name}
	if tagged {
		key := "enum " + name
		if existing, ok := d.unit.types.tags[key].(*ctypes.Enum); ok {
			e = existing
		} else {
			d.unit.types.tags[key] = e
		}
	}

	if d.peek().Content == "{" {
		d.next()
		d.skipBalanced("{", "}")
	} else if !tagged {
		return nil, false
	}
	return e, true
}

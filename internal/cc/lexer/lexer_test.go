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

package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenContents tokenizes the input and returns (type, content) pairs,
// dropping whitespace and newlines for readability.
func tokenContents(input string) []Token {
	var out []Token
	for _, tok := range NewLexer([]byte(input)).Tokenize() {
		if tok.Type == TokenType_Whitespace || tok.Type == TokenType_Newline {
			continue
		}
		tok.Location = Cursor{} // location is asserted separately
		out = append(out, tok)
	}
	return out
}

func TestTokenizeDeclaration(t *testing.T) {
	tokens := tokenContents(`const Point p = (Point){1, 2};`)
	expected := []Token{
		{Type: TokenType_Identifier, Content: "const"},
		{Type: TokenType_Identifier, Content: "Point"},
		{Type: TokenType_Identifier, Content: "p"},
		{Type: TokenType_Symbol, Content: "="},
		{Type: TokenType_Symbol, Content: "("},
		{Type: TokenType_Identifier, Content: "Point"},
		{Type: TokenType_Symbol, Content: ")"},
		{Type: TokenType_Symbol, Content: "{"},
		{Type: TokenType_IntegerLiteral, Content: "1"},
		{Type: TokenType_Symbol, Content: ","},
		{Type: TokenType_IntegerLiteral, Content: "2"},
		{Type: TokenType_Symbol, Content: "}"},
		{Type: TokenType_Symbol, Content: ";"},
	}
	assert.Equal(t, expected, tokens)
}

func TestTokenizeLiterals(t *testing.T) {
	testCases := []struct {
		input    string
		expected TokenType
	}{
		{"42", TokenType_IntegerLiteral},
		{"0xFF", TokenType_IntegerLiteral},
		{"10UL", TokenType_IntegerLiteral},
		{"2.5", TokenType_FloatLiteral},
		{"2.5f", TokenType_FloatLiteral},
		{".5", TokenType_FloatLiteral},
		{"1e10", TokenType_FloatLiteral},
		{"1.5e-3", TokenType_FloatLiteral},
		{`"hello world"`, TokenType_StringLiteral},
		{`"esc \" aped"`, TokenType_StringLiteral},
		{"'a'", TokenType_CharLiteral},
		{`'\n'`, TokenType_CharLiteral},
	}
	for _, tc := range testCases {
		tokens := tokenContents(tc.input)
		require.Len(t, tokens, 1, "input %q", tc.input)
		assert.Equal(t, tc.expected, tokens[0].Type, "input %q", tc.input)
		assert.Equal(t, tc.input, tokens[0].Content, "input %q", tc.input)
	}
}

func TestFloatShadowsIntegerPrefix(t *testing.T) {
	// "2.5" must not tokenize as integer 2 followed by ".5".
	tokens := tokenContents("2.5")
	require.Len(t, tokens, 1)
	assert.Equal(t, TokenType_FloatLiteral, tokens[0].Type)
}

func TestTokenizeDirectives(t *testing.T) {
	tokens := NewLexer([]byte("#define MAX 10\n#  include \"a.h\"\n")).Tokenize()

	require.NotEmpty(t, tokens)
	assert.Equal(t, TokenType_PreprocessorDirective, tokens[0].Type)
	assert.Equal(t, "#define", tokens[0].Content)
	assert.Equal(t, "define", tokens[0].SubContent)

	var include Token
	for _, tok := range tokens {
		if tok.Type == TokenType_PreprocessorDirective && tok.SubContent == "include" {
			include = tok
		}
	}
	assert.Equal(t, "#  include", include.Content, "spaces between # and name are part of the directive")
}

func TestTokenizeComments(t *testing.T) {
	tokens := tokenContents("a // line comment\nb /* multi\nline */ c")
	expected := []Token{
		{Type: TokenType_Identifier, Content: "a"},
		{Type: TokenType_SingleLineComment, Content: "// line comment"},
		{Type: TokenType_Identifier, Content: "b"},
		{Type: TokenType_MultiLineComment, Content: "/* multi\nline */"},
		{Type: TokenType_Identifier, Content: "c"},
	}
	assert.Equal(t, expected, tokens)
}

func TestTokenizeMultiCharSymbols(t *testing.T) {
	tokens := tokenContents("a->b << 2 >= x++")
	var symbols []string
	for _, tok := range tokens {
		if tok.Type == TokenType_Symbol {
			symbols = append(symbols, tok.Content)
		}
	}
	assert.Equal(t, []string{"->", "<<", ">=", "++"}, symbols)
}

func TestLineContinuation(t *testing.T) {
	tokens := NewLexer([]byte("#define A 1 + \\\n 2\n")).Tokenize()
	var types []TokenType
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	assert.Contains(t, types, TokenType_ContinueLine)
	// The newline consumed by the continuation produces no Newline token
	// before the trailing "2".
	var sawNewline bool
	for _, tok := range tokens {
		if tok.Type == TokenType_Newline {
			sawNewline = true
		}
		if tok.Content == "2" {
			assert.False(t, sawNewline, "continuation must keep the directive line open")
		}
	}
}

func TestCursorTracking(t *testing.T) {
	lx := NewLexer([]byte("ab cd\nef"))

	tok := lx.NextToken()
	assert.Equal(t, Cursor{Offset: 0, Line: 1, Column: 1}, tok.Location)
	assert.Equal(t, "ab", tok.Content)

	lx.NextToken() // whitespace
	tok = lx.NextToken()
	assert.Equal(t, Cursor{Offset: 3, Line: 1, Column: 4}, tok.Location)
	assert.Equal(t, "cd", tok.Content)

	lx.NextToken() // newline
	tok = lx.NextToken()
	assert.Equal(t, Cursor{Offset: 6, Line: 2, Column: 1}, tok.Location)
	assert.Equal(t, "ef", tok.Content)

	assert.Equal(t, TokenEOF, lx.NextToken())
}

func TestSpanText(t *testing.T) {
	source := []byte("x = sizeof( int ) + 1;")
	tokens := NewLexer(source).Tokenize()

	var kept []Token
	for _, tok := range tokens {
		if tok.Type != TokenType_Whitespace {
			kept = append(kept, tok)
		}
	}
	// Span from "sizeof" through the closing parenthesis.
	text, ok := SpanText(source, kept[2], kept[5])
	require.True(t, ok)
	assert.Equal(t, "sizeof( int )", text)

	_, ok = SpanText(source, kept[5], kept[2])
	assert.False(t, ok, "reversed span must be rejected")
}

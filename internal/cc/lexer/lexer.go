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

// Package lexer provides a lexical analyzer for C source code. It breaks the
// input into a sequence of tokens which can then be processed by a parser.
//
// The lexer classifies tokens into several types (for e.g. easier filtering of
// comments or whitespace) and tracks their location in the source code, both
// as line/column for error reporting and as byte offsets for verbatim source
// span recovery.
package lexer

import (
	"bytes"
	"regexp"
	"strings"
)

type (
	// Abstraction over regexp.Regexp allows providing an alternative implementation.
	matcher interface {
		// Return a two-element slice of integers defining the location of the
		// leftmost match in content of this matcher. The match itself is at
		// content[indices[0]:indices[1]]. A return value of nil indicates no match.
		FindIndex(content []byte) (indices []int)
	}

	// Implementation of matcher for fixed strings. No need to use regexp.Regexp for such simple cases.
	fixedString string

	// Represents a way of matching a specific token type.
	matchingRule struct {
		matchedType  TokenType
		matchingImpl matcher
	}

	// Lexer breaks the input C source code into a sequence of tokens.
	Lexer struct {
		dataLeft []byte
		cursor   Cursor
	}
)

func (fs fixedString) FindIndex(content []byte) []int {
	if begin := bytes.Index(content, []byte(fs)); begin >= 0 {
		return []int{begin, begin + len(fs)}
	}
	return nil
}

// Matching logic for all token types apart from:
// - TokenType_Word which is the default fallback type when no other matchingRule apply.
// - TokenType_EOF which is returned when no input data is left to process and it is never used for another purpose.
//
// Rules with the same starting position are disambiguated by match length
// (longer wins), so e.g. a float literal shadows the integer literal that
// matches its leading digits, and a comment shadows the '/' symbol.
var matchingRules = []matchingRule{
	{matchedType: TokenType_PreprocessorDirective, matchingImpl: regexp.MustCompile(`#[\t\v\f\r ]*\w+`)},
	{matchedType: TokenType_Newline, matchingImpl: fixedString("\n")},
	{matchedType: TokenType_Whitespace, matchingImpl: regexp.MustCompile(`[\t\v\f\r ]+`)},
	{matchedType: TokenType_ContinueLine, matchingImpl: regexp.MustCompile(`\\[\t\v\f\r ]*\n`)},
	{matchedType: TokenType_SingleLineComment, matchingImpl: regexp.MustCompile(`//[^\n]*`)},
	{matchedType: TokenType_MultiLineComment, matchingImpl: regexp.MustCompile(`(?s)/\*.*?\*/`)},
	{matchedType: TokenType_StringLiteral, matchingImpl: regexp.MustCompile(`"(?:[^"\\\n]|\\.)*"`)},
	{matchedType: TokenType_CharLiteral, matchingImpl: regexp.MustCompile(`'(?:[^'\\\n]|\\.)+'`)},
	{matchedType: TokenType_FloatLiteral, matchingImpl: regexp.MustCompile(`(?:\d+\.\d*|\.\d+)(?:[eE][-+]?\d+)?[fFlL]?|\d+[eE][-+]?\d+[fFlL]?`)},
	{matchedType: TokenType_IntegerLiteral, matchingImpl: regexp.MustCompile(`(?:0[xX][0-9A-Fa-f]+|\d+)(?:[uUlL]*)`)},
	{matchedType: TokenType_Identifier, matchingImpl: regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)},
	{matchedType: TokenType_Symbol, matchingImpl: regexp.MustCompile(`(?:<<|>>|->|\+\+|--|[!=<>]=?|&&?|\|\|?|[(){}\[\],;*+\-/%~^?:.])`)},
}

func NewLexer(sourceCode []byte) *Lexer {
	return &Lexer{dataLeft: sourceCode, cursor: CursorInit}
}

// Update the lexer state accordingly to the extracted token content.
func (lx *Lexer) consume(content string) {
	lx.dataLeft = lx.dataLeft[len(content):]
	lx.cursor = lx.cursor.AdvancedBy(content)
}

// directiveNameRegex extracts the directive name out of a matched
// preprocessor directive token, e.g. "define" from "#  define".
var directiveNameRegex = regexp.MustCompile(`\w+$`)

// NextToken returns the next token extracted from the beginning of the input
// data left to process. If no more tokens are left, returns TokenEOF.
func (lx *Lexer) NextToken() Token {
	if len(lx.dataLeft) == 0 {
		return TokenEOF
	}

	// Try each matchingRule looking for the earliest match.
	tokenBegin := len(lx.dataLeft)
	tokenEnd := len(lx.dataLeft)
	tokenType := TokenType_Word
	for _, rule := range matchingRules {
		match := rule.matchingImpl.FindIndex(lx.dataLeft)
		if match != nil && (match[0] < tokenBegin || ( /* prefer longer matches */ match[0] == tokenBegin && match[1] > tokenEnd)) {
			tokenBegin = match[0]
			tokenEnd = match[1]
			tokenType = rule.matchedType
		}
	}

	var result Token
	if tokenBegin == 0 {
		// Something matched at the beginning, so return that token.
		result = Token{Type: tokenType, Location: lx.cursor, Content: string(lx.dataLeft[tokenBegin:tokenEnd])}
		if tokenType == TokenType_PreprocessorDirective {
			result.SubContent = directiveNameRegex.FindString(result.Content)
		}
	} else {
		// If nothing matched at the beginning of the text, return a word token up to the next match. If nothing matched
		// anywhere, use the rest of the text.
		result = Token{Type: TokenType_Word, Location: lx.cursor, Content: string(lx.dataLeft[:tokenBegin])}
	}

	lx.consume(result.Content)
	return result
}

// Tokenize returns all tokens extracted from the input data.
func (lx *Lexer) Tokenize() []Token {
	var tokens []Token
	for len(lx.dataLeft) > 0 {
		tokens = append(tokens, lx.NextToken())
	}
	return tokens
}

// SpanText recovers the verbatim source substring covering the given token
// range from the buffer the tokens were produced from. Returns ok=false when
// the tokens do not originate from a single contiguous region of source (for
// example after macro expansion spliced streams together); callers should
// fall back to joining token contents.
func SpanText(source []byte, first, last Token) (string, bool) {
	begin, end := first.Location.Offset, last.End()
	if begin < 0 || end > len(source) || begin >= end {
		return "", false
	}
	return strings.TrimSpace(string(source[begin:end])), true
}

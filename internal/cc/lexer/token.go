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

type TokenType int

const (
	// Special token type indicating the end of the input stream (or default
	// value when an error is returned).
	TokenType_EOF TokenType = iota

	// Identifier or keyword, a letter or underscore followed by letters,
	// digits or underscores.
	TokenType_Identifier

	// Integer literal in base decimal, hexadecimal or octal, with optional C
	// suffixes, e.g. 123, 0x1A3F, 0755, 42ULL.
	TokenType_IntegerLiteral

	// Floating point literal with optional exponent and C suffix, e.g. 3.14,
	// .5, 1e9, 2.5f.
	TokenType_FloatLiteral

	// String literal, enclosed in double quotes, e.g. "example".
	TokenType_StringLiteral

	// Character literal, enclosed in single quotes, e.g. 'a', '\n'.
	TokenType_CharLiteral

	// Operator or punctuation symbol, e.g. '{', ',', '==', '->'.
	TokenType_Symbol

	// Preprocessor directive, a hash '#' followed by the directive name (with
	// optional whitespace characters between). The directive name (without the
	// hash) is stored in Token.SubContent.
	TokenType_PreprocessorDirective

	// Single newline character '\n'. Newlines require special handling because
	// they mark the end of a preprocessor directive.
	TokenType_Newline

	// One or more whitespace characters, other than newlines.
	TokenType_Whitespace

	// Line continuation sequence, a backslash '\' followed by a newline
	// character '\n' (with optional whitespace characters between).
	TokenType_ContinueLine

	// Single-line comment, starting with // and ending at the end of the line.
	TokenType_SingleLineComment

	// Multi-line comment, starting with /* and ending with */.
	TokenType_MultiLineComment

	// Every complete token that is not one of the other types.
	//
	// This is a fallback type. The lexer covers only the subset of C syntax
	// relevant for macro evaluation; every token without a dedicated TokenType
	// is classified as Word.
	TokenType_Word
)

func (t TokenType) String() string {
	switch t {
	case TokenType_EOF:
		return "end of file"
	case TokenType_Identifier:
		return "identifier"
	case TokenType_IntegerLiteral:
		return "integer literal"
	case TokenType_FloatLiteral:
		return "float literal"
	case TokenType_StringLiteral:
		return `"string literal"`
	case TokenType_CharLiteral:
		return "character literal"
	case TokenType_Symbol:
		return "symbol"
	case TokenType_PreprocessorDirective:
		return "preprocessor directive"
	case TokenType_Newline:
		return "newline"
	case TokenType_Whitespace:
		return "whitespace"
	case TokenType_ContinueLine:
		return `line continuation backslash '\'`
	case TokenType_SingleLineComment:
		return "single-line comment"
	case TokenType_MultiLineComment:
		return "multi-line comment"
	case TokenType_Word:
		return "word"
	default:
		return "unknown token"
	}
}

type Token struct {
	Type     TokenType
	Location Cursor
	Content  string
	// For preprocessor directives the directive name without the leading hash
	// and whitespace, e.g. "define" for "# define". Empty for other types.
	SubContent string
}

// End returns the byte offset one past the last byte of the token content.
func (t Token) End() int {
	return t.Location.Offset + len(t.Content)
}

var (
	TokenEOF = Token{Type: TokenType_EOF}
	// Zero value returned by lookahead helpers when no tokens are left.
	TokenEmpty = Token{Type: TokenType_EOF}
)

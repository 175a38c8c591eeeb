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
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nativebind/cclit/internal/cc/lexer"
	"github.com/nativebind/cclit/internal/collections"
)

// switch to enable logging of recoverable preprocessing problems,
// used only for development purposes
const debug = false

// preprocessor walks the token stream of a translation unit, handling
// directives and expanding object-like macros, and accumulates the active
// (compiled) token stream in out.
type preprocessor struct {
	unit        *Unit
	includeDirs []string
	pragmaOnce  collections.Set[string] // absolute paths of #pragma once files
	activeFiles collections.Set[string] // include cycle guard
	out         []token
}

func newPreprocessor(unit *Unit, includeDirs []string) *preprocessor {
	return &preprocessor{
		unit:        unit,
		includeDirs: includeDirs,
		pragmaOnce:  collections.Set[string]{},
		activeFiles: collections.Set[string]{},
	}
}

// predefine installs -D style definitions as ordinary object-like macros.
func (p *preprocessor) predefine(definitions []string) error {
	env, err := ParseMacros(definitions)
	if err != nil {
		return err
	}
	for name, value := range env {
		p.unit.macros[name] = &macro{
			name: name,
			body: []token{{
				Token: lexer.Token{Type: lexer.TokenType_IntegerLiteral, Content: strconv.Itoa(value)},
				file:  -1,
			}},
		}
	}
	return nil
}

func isRelevantTokenType(t lexer.Token) bool {
	switch t.Type {
	case lexer.TokenType_Identifier, lexer.TokenType_IntegerLiteral, lexer.TokenType_FloatLiteral,
		lexer.TokenType_StringLiteral, lexer.TokenType_CharLiteral, lexer.TokenType_Symbol,
		lexer.TokenType_PreprocessorDirective, lexer.TokenType_Newline:
		return true
	default:
		return false
	}
}

// condFrame tracks one #if/#elif/#else level.
type condFrame struct {
	parentActive bool // the enclosing context was active when the frame opened
	active       bool // current branch is being compiled
	taken        bool // some earlier branch of this block already matched
}

// processFile tokenizes and preprocesses one source file, recursing into
// quoted includes. Appends active tokens to p.out.
func (p *preprocessor) processFile(fileIdx int) error {
	file := p.unit.files[fileIdx]
	raw := lexer.NewLexer(file.data).Tokenize()
	toks := make([]token, 0, len(raw))
	for _, t := range raw {
		if isRelevantTokenType(t) {
			toks = append(toks, token{Token: t, file: fileIdx})
		}
	}

	var stack []condFrame
	active := func() bool {
		return len(stack) == 0 || stack[len(stack)-1].active
	}

	i := 0
	for i < len(toks) {
		tok := toks[i]
		switch {
		case tok.Type == lexer.TokenType_PreprocessorDirective:
			line, next := readDirectiveLine(toks, i+1)
			p.handleDirective(tok, line, fileIdx, &stack, active)
			i = next
		case tok.Type == lexer.TokenType_Newline:
			i++
		case !active():
			i++
		default:
			p.emit(tok, collections.Set[string]{})
			i++
		}
	}
	return nil
}

// readDirectiveLine collects the remaining tokens of a directive line,
// returning them along with the index right after the terminating newline.
func readDirectiveLine(toks []token, start int) (line []token, next int) {
	for next = start; next < len(toks); next++ {
		if toks[next].Type == lexer.TokenType_Newline {
			return toks[start:next], next + 1
		}
	}
	return toks[start:], next
}

func (p *preprocessor) handleDirective(directive token, line []token, fileIdx int, stack *[]condFrame, active func() bool) {
	switch directive.SubContent {
	case "if", "ifdef", "ifndef":
		parentActive := active()
		cond := parentActive && p.evalCondition(directive.SubContent, line)
		*stack = append(*stack, condFrame{parentActive: parentActive, active: cond, taken: cond})

	case "elif", "elifdef", "elifndef":
		if len(*stack) == 0 {
			p.debugf("unpaired #%s in %s", directive.SubContent, p.unit.files[fileIdx].path)
			return
		}
		frame := &(*stack)[len(*stack)-1]
		kind := strings.TrimPrefix(directive.SubContent, "el")
		frame.active = frame.parentActive && !frame.taken && p.evalCondition(kind, line)
		frame.taken = frame.taken || frame.active

	case "else":
		if len(*stack) == 0 {
			p.debugf("unpaired #else in %s", p.unit.files[fileIdx].path)
			return
		}
		frame := &(*stack)[len(*stack)-1]
		frame.active = frame.parentActive && !frame.taken
		frame.taken = true

	case "endif":
		if len(*stack) == 0 {
			p.debugf("unpaired #endif in %s", p.unit.files[fileIdx].path)
			return
		}
		*stack = (*stack)[:len(*stack)-1]

	case "include", "include_next":
		if active() {
			p.handleInclude(line, fileIdx)
		}

	case "define":
		if active() {
			p.defineMacro(line)
		}

	case "undef":
		if active() && len(line) > 0 {
			delete(p.unit.macros, line[0].Content)
		}

	case "pragma":
		if active() && len(line) > 0 && line[0].Content == "once" {
			p.pragmaOnce.Add(normalizePath(p.unit.files[fileIdx].path))
		}

	default:
		// #error, #warning, #line and anything unknown: irrelevant for macro
		// evaluation, the line has already been consumed.
	}
}

// evalCondition evaluates a single #if/#ifdef/#ifndef condition line. Parse
// failures make the branch inactive rather than failing the whole unit; the
// front end is best-effort by design.
func (p *preprocessor) evalCondition(kind string, line []token) bool {
	defined := func(name string) bool {
		_, ok := p.unit.macros[name]
		return ok
	}
	switch kind {
	case "ifdef":
		return len(line) > 0 && defined(line[0].Content)
	case "ifndef":
		return len(line) > 0 && !defined(line[0].Content)
	}

	contents := collections.MapSlice(line, func(t token) string { return t.Content })
	expr, err := parseCondTokens(contents)
	if err != nil {
		p.debugf("failed to parse condition %v: %v", contents, err)
		return false
	}
	return expr.eval(p.environment(), defined)
}

// environment derives the integer view of the macro table used by
// conditional expressions: object-like macros with a single integer-literal
// body map to its value, any other defined macro maps to 1.
func (p *preprocessor) environment() Environment {
	env := Environment{}
	for name, m := range p.unit.macros {
		value := 1
		if !m.funcLike && len(m.body) == 1 && m.body[0].Type == lexer.TokenType_IntegerLiteral {
			if v, err := parseEnvIntLiteral(m.body[0].Content); err == nil {
				value = v
			}
		}
		env[name] = value
	}
	return env
}

// defineMacro parses `#define NAME [(params)] body...`. A macro is
// function-like only when the opening parenthesis immediately follows the
// name, per the C standard.
func (p *preprocessor) defineMacro(line []token) {
	if len(line) == 0 || line[0].Type != lexer.TokenType_Identifier {
		return
	}
	m := &macro{name: line[0].Content}
	rest := line[1:]

	if len(rest) > 0 && rest[0].Content == "(" && rest[0].Location.Offset == line[0].End() {
		m.funcLike = true
		i := 1
		for ; i < len(rest) && rest[i].Content != ")"; i++ {
			if rest[i].Type == lexer.TokenType_Identifier {
				m.params = append(m.params, rest[i].Content)
			}
		}
		rest = rest[min(i+1, len(rest)):]
	}

	m.body = rest
	p.unit.macros[m.name] = m
}

// emit appends an active token to the output stream, splicing in the bodies
// of object-like macros. The expanding set guards against self-referential
// definitions.
func (p *preprocessor) emit(tok token, expanding collections.Set[string]) {
	if tok.Type == lexer.TokenType_Identifier {
		if m, ok := p.unit.macros[tok.Content]; ok && !m.funcLike && !expanding.Contains(m.name) {
			expanding.Add(m.name)
			for _, bodyToken := range m.body {
				p.emit(bodyToken, expanding)
			}
			expanding.Remove(m.name)
			return
		}
	}
	p.out = append(p.out, tok)
}

// handleInclude resolves a quoted include and processes the target file.
// System includes (<...>) are skipped: the front end does not follow them and
// instead pre-seeds the well-known stdint/stddef typedefs. A quoted include
// that cannot be resolved is skipped with a debug note, keeping evaluation
// best-effort.
func (p *preprocessor) handleInclude(line []token, fromFile int) {
	if len(line) == 0 {
		return
	}
	if line[0].Content == "<" {
		return
	}
	if line[0].Type != lexer.TokenType_StringLiteral {
		p.debugf("malformed include in %s: %v", p.unit.files[fromFile].path, line[0].Content)
		return
	}
	path := strings.Trim(line[0].Content, `"`)

	resolved, data, ok := p.resolveInclude(path, fromFile)
	if !ok {
		p.debugf("cannot resolve include %q from %s", path, p.unit.files[fromFile].path)
		return
	}

	abs := normalizePath(resolved)
	if p.pragmaOnce.Contains(abs) || p.activeFiles.Contains(abs) {
		return
	}

	fileIdx := p.unit.addFile(resolved, data)
	p.activeFiles.Add(abs)
	defer p.activeFiles.Remove(abs)
	if err := p.processFile(fileIdx); err != nil {
		p.debugf("failed to process %s: %v", resolved, err)
	}
}

func (p *preprocessor) resolveInclude(path string, fromFile int) (resolved string, data []byte, ok bool) {
	var candidates []string
	if filepath.IsAbs(path) {
		candidates = []string{path}
	} else {
		if dir := filepath.Dir(p.unit.files[fromFile].path); dir != "" && !strings.HasPrefix(dir, "<") {
			candidates = append(candidates, filepath.Join(dir, path))
		}
		for _, dir := range p.includeDirs {
			candidates = append(candidates, filepath.Join(dir, path))
		}
		candidates = append(candidates, path)
	}

	for _, candidate := range candidates {
		if content, err := os.ReadFile(candidate); err == nil {
			return candidate, content, true
		}
	}
	return "", nil, false
}

func (p *preprocessor) debugf(format string, args ...any) {
	if debug {
		log.Printf(format, args...)
	}
}

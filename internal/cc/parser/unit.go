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

// Package parser implements a lightweight C front end sufficient for macro
// evaluation, without requiring a full compiler. It preprocesses a synthetic
// translation unit (quoted includes, object-like macro expansion, conditional
// compilation), scans type declarations (typedefs, structs, unions, enums)
// and parses macro expansions into initializer expression trees.
//
// The parser deliberately understands only enough of the C grammar to type
// compound literals; every construct outside that subset is skipped or
// degrades to an Opaque passthrough expression.
package parser

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/nativebind/cclit/internal/cc/ctypes"
	"github.com/nativebind/cclit/internal/cc/lexer"
	"github.com/nativebind/cclit/internal/collections"
)

// SentinelName is the synthetic variable the macro expansion is assigned to,
// used solely to give the expression tree an anchor point for inspection.
const SentinelName = "__cclit_val"

// Options carries the subset of compiler flags the front end honors.
type Options struct {
	IncludeDirs []string // -I search paths, in order
	Defines     []string // -D style macro definitions
}

// ParseArgs extracts the supported flags from a clang/gcc style argument
// list. Unrecognized flags (-x, -std=..., warnings) are ignored rather than
// rejected so callers can pass their usual compiler invocations through.
func ParseArgs(args []string) Options {
	var opts Options
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-I" && i+1 < len(args):
			i++
			opts.IncludeDirs = append(opts.IncludeDirs, args[i])
		case strings.HasPrefix(arg, "-I"):
			opts.IncludeDirs = append(opts.IncludeDirs, strings.TrimPrefix(arg, "-I"))
		case arg == "-D" && i+1 < len(args):
			i++
			opts.Defines = append(opts.Defines, args[i])
		case strings.HasPrefix(arg, "-D"):
			opts.Defines = append(opts.Defines, strings.TrimPrefix(arg, "-D"))
		}
	}
	return opts
}

// token is a lexer token annotated with the index of the source file it was
// read from, so verbatim spans can be recovered after macro expansion.
type token struct {
	lexer.Token
	file int
}

type sourceFile struct {
	path string
	data []byte
}

// macro is a single #define. Function-like macros are recorded but never
// expanded; their use sites degrade to Opaque expressions.
type macro struct {
	name     string
	funcLike bool
	params   []string
	body     []token
}

// Unit is the result of parsing one (synthetic) translation unit: the macro
// table, the type table and the top-level variable declarations found.
type Unit struct {
	files  []sourceFile
	macros map[string]*macro
	types  *typeTable
	Vars   []VarDecl

	anonStructs, anonUnions int
}

func newUnit() *Unit {
	return &Unit{
		macros: map[string]*macro{},
		types:  newTypeTable(),
	}
}

func (u *Unit) addFile(path string, data []byte) int {
	u.files = append(u.files, sourceFile{path: path, data: data})
	return len(u.files) - 1
}

// LookupVar returns the top-level declaration with the given name.
func (u *Unit) LookupVar(name string) (VarDecl, bool) {
	for _, v := range u.Vars {
		if v.Name == name {
			return v, true
		}
	}
	return VarDecl{}, false
}

// ObjectMacroNames returns the names of all object-like macros whose
// definition lives in the given file, sorted alphabetically. Used by batch
// tooling to discover evaluation candidates.
func (u *Unit) ObjectMacroNames(path string) []string {
	abs := normalizePath(path)
	names := collections.Set[string]{}
	for name, m := range u.macros {
		if m.funcLike || len(m.body) == 0 {
			continue
		}
		fileIdx := m.body[0].file
		if fileIdx >= 0 && fileIdx < len(u.files) && normalizePath(u.files[fileIdx].path) == abs {
			names.Add(name)
		}
	}
	return names.SortedValues(strings.Compare)
}

func (u *Unit) nextAnonName(isUnion bool) string {
	if isUnion {
		u.anonUnions++
		return fmt.Sprintf("AnonymousUnion_%d", u.anonUnions)
	}
	u.anonStructs++
	return fmt.Sprintf("AnonymousStruct_%d", u.anonStructs)
}

func normalizePath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// typeTable tracks typedef names and struct/union/enum tags separately,
// mirroring the two C namespaces involved.
type typeTable struct {
	names map[string]ctypes.Type // typedef and builtin-typedef names
	tags  map[string]ctypes.Type // "struct X", "union X", "enum X"
}

func newTypeTable() *typeTable {
	t := &typeTable{
		names: map[string]ctypes.Type{},
		tags:  map[string]ctypes.Type{},
	}
	// Pre-seeded stdint/stddef typedefs: system headers are not followed, yet
	// fixture headers rely on these names being well typed.
	for name, underlying := range map[string]ctypes.Type{
		"int8_t":    ctypes.CSChar,
		"uint8_t":   ctypes.CUChar,
		"int16_t":   ctypes.CShort,
		"uint16_t":  ctypes.CUShort,
		"int32_t":   ctypes.CInt,
		"uint32_t":  ctypes.CUInt,
		"int64_t":   ctypes.CLongLong,
		"uint64_t":  ctypes.CULongLong,
		"size_t":    ctypes.CULong,
		"ssize_t":   ctypes.CLong,
		"ptrdiff_t": ctypes.CLong,
		"intptr_t":  ctypes.CLong,
		"uintptr_t": ctypes.CULong,
		"wchar_t":   ctypes.CInt,
		"bool":      ctypes.CBool,
	} {
		t.names[name] = &ctypes.Alias{Name: name, Underlying: underlying}
	}
	return t
}

func tagKey(isUnion bool, name string) string {
	if isUnion {
		return "union " + name
	}
	return "struct " + name
}

// spanText recovers the verbatim source text covering the given tokens. When
// the tokens originate from a single contiguous region of one file, the exact
// substring is returned; otherwise (tokens spliced together by nested macro
// expansion) the token contents are joined with single spaces.
func (u *Unit) spanText(toks []token) string {
	if len(toks) == 0 {
		return ""
	}
	first, last := toks[0], toks[len(toks)-1]
	if first.file >= 0 && first.file == last.file && first.file < len(u.files) {
		sameFile := !slices.ContainsFunc(toks, func(t token) bool { return t.file != first.file })
		if sameFile {
			if text, ok := lexer.SpanText(u.files[first.file].data, first.Token, last.Token); ok {
				return text
			}
		}
	}
	return strings.Join(collections.MapSlice(toks, func(t token) string { return t.Content }), " ")
}

// BuildMacroUnit assembles and parses the synthetic one-declaration
// translation unit
//
//	#include "<headerPath>"
//	const __cclit_val = <macroName>;
//
// using the caller-supplied compiler arguments plus an automatically injected
// include path for the header's own directory. The resulting unit contains
// the sentinel declaration when the macro expanded to a parseable expression.
func BuildMacroUnit(headerPath, macroName string, args []string) (*Unit, error) {
	opts := ParseArgs(args)
	if dir := filepath.Dir(headerPath); dir != "" {
		opts.IncludeDirs = append([]string{dir}, opts.IncludeDirs...)
	}
	source := fmt.Sprintf("#include %q\nconst %s = %s;\n", headerPath, SentinelName, macroName)
	return buildUnit(source, opts)
}

// BuildHeaderUnit parses a translation unit consisting of a single #include
// of the given header. Used to discover the header's macro definitions.
func BuildHeaderUnit(headerPath string, args []string) (*Unit, error) {
	opts := ParseArgs(args)
	if dir := filepath.Dir(headerPath); dir != "" {
		opts.IncludeDirs = append([]string{dir}, opts.IncludeDirs...)
	}
	source := fmt.Sprintf("#include %q\n", headerPath)
	return buildUnit(source, opts)
}

func buildUnit(source string, opts Options) (*Unit, error) {
	unit := newUnit()
	pp := newPreprocessor(unit, opts.IncludeDirs)
	if err := pp.predefine(opts.Defines); err != nil {
		return nil, err
	}

	fileIdx := unit.addFile("<command line>", []byte(source))
	if err := pp.processFile(fileIdx); err != nil {
		return nil, err
	}

	dp := declParser{unit: unit, tokensLeft: pp.out}
	dp.parseAll()
	return unit, nil
}

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
	"fmt"
	"strings"

	"github.com/nativebind/cclit/internal/cc/parser"
)

var (
	// ErrSystemHeader rejects angle-bracket header paths: platform headers
	// define macros that are not meant for binding generation.
	ErrSystemHeader = errors.New("system headers are not evaluated")
	// ErrNoDeclaration means the synthetic unit produced no usable sentinel
	// declaration, usually because the macro is undefined or function-like.
	ErrNoDeclaration = errors.New("sentinel declaration not found")
	// ErrNotCompoundLiteral means the macro expands to something other than
	// a compound literal. Such macros are unsupported, not malformed.
	ErrNotCompoundLiteral = errors.New("macro does not expand to a compound literal")
)

// Evaluator is the entry point tying the pipeline together: parse one macro
// into an expression tree, serialize it, assemble the declaration string.
type Evaluator struct {
	Registry *Registry
	// MaxDepth carries through to the Serializer; zero means
	// DefaultMaxDepth.
	MaxDepth int
}

// Evaluate turns one object-like macro defined in headerPath into a typed
// declaration of the form "<Name> <macroName> = <Name>{f0=v0, ...};".
// compilerArgs accepts -I and -D arguments; others are ignored. Every
// unsupported input returns an error, never partial output.
func (ev *Evaluator) Evaluate(headerPath, macroName string, compilerArgs []string) (string, error) {
	if strings.HasPrefix(headerPath, "<") && strings.HasSuffix(headerPath, ">") {
		return "", ErrSystemHeader
	}

	unit, err := parser.BuildMacroUnit(headerPath, macroName, compilerArgs)
	if err != nil {
		return "", err
	}
	decl, ok := unit.LookupVar(parser.SentinelName)
	if !ok {
		return "", ErrNoDeclaration
	}
	literal, ok := decl.Init.(*parser.CompoundLit)
	if !ok {
		return "", ErrNotCompoundLiteral
	}

	serializer := &Serializer{Registry: ev.Registry, MaxDepth: ev.MaxDepth}
	frag, err := serializer.CompoundToInit(literal)
	if err != nil {
		return "", err
	}
	if frag.Text == NotARecordMarker || frag.Text == NotAnInitListMarker {
		return "", fmt.Errorf("macro %s: %s", macroName, strings.Trim(frag.Text, "<>"))
	}

	name := ResolveTypeName(literal.Type, ev.Registry)
	return name + " " + macroName + " = " + frag.Text + ";", nil
}

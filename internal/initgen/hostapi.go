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

// Engine is the host-facing adapter: a stateful wrapper matching the
// present/absent calling convention foreign host integrations expect, hiding
// the internal error values. One Engine owns one Registry; hosts must
// serialize all calls on an Engine (single coordinating thread).
type Engine struct {
	registry *Registry
}

func NewEngine() *Engine {
	return &Engine{registry: NewRegistry()}
}

// SetCustomTypeNames replaces the override table wholesale. keys[i] pairs
// with names[i]; the shorter slice bounds the pairing, so mismatched lengths
// silently drop the excess rather than faulting.
func (e *Engine) SetCustomTypeNames(keys, names []string) {
	entries := make([]Entry, 0, min(len(keys), len(names)))
	for i := range min(len(keys), len(names)) {
		entries = append(entries, Entry{Key: keys[i], Name: names[i]})
	}
	e.registry.SetAll(entries)
}

// EvaluateMacro evaluates one macro and reports whether a declaration was
// produced. All failure modes (system header, parse failure, non-compound
// macro, missing declaration) collapse to ok=false.
func (e *Engine) EvaluateMacro(headerPath, macroName string, compilerArgs []string) (string, bool) {
	ev := &Evaluator{Registry: e.registry}
	decl, err := ev.Evaluate(headerPath, macroName, compilerArgs)
	if err != nil {
		return "", false
	}
	return decl, true
}

// ReleaseString releases a string returned by EvaluateMacro. Go strings need
// no explicit release; the method exists so hosts written against an
// allocate/release convention keep a paired call site.
func (e *Engine) ReleaseString(_ string) {}

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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(name string) string {
	return filepath.Join("testdata", name)
}

func TestEvaluatePointMacro(t *testing.T) {
	ev := &Evaluator{Registry: NewRegistry()}

	decl, err := ev.Evaluate(fixture("point.h"), "P", nil)
	require.NoError(t, err)
	assert.Equal(t, "Point P = Point{x=1, y=2};", decl)

	decl, err = ev.Evaluate(fixture("point.h"), "ORIGIN", nil)
	require.NoError(t, err)
	assert.Equal(t, "Point ORIGIN = Point{x=0, y=0};", decl)
}

func TestEvaluateWithOverride(t *testing.T) {
	reg := NewRegistry()
	reg.SetAll([]Entry{{Key: "c:@S@Point", Name: "Vec2"}})
	ev := &Evaluator{Registry: reg}

	decl, err := ev.Evaluate(fixture("point.h"), "P", nil)
	require.NoError(t, err)
	assert.Equal(t, "Vec2 P = Vec2{x=1, y=2};", decl)
}

func TestEvaluateRejectsSystemHeader(t *testing.T) {
	ev := &Evaluator{Registry: NewRegistry()}

	_, err := ev.Evaluate("<stdio.h>", "EOF", nil)
	assert.ErrorIs(t, err, ErrSystemHeader)
}

func TestEvaluateRejectsNonCompoundMacro(t *testing.T) {
	ev := &Evaluator{Registry: NewRegistry()}

	// ANSWER expands to the plain integer 42.
	_, err := ev.Evaluate(fixture("point.h"), "ANSWER", nil)
	assert.ErrorIs(t, err, ErrNotCompoundLiteral)
}

func TestEvaluateUndefinedMacro(t *testing.T) {
	ev := &Evaluator{Registry: NewRegistry()}

	_, err := ev.Evaluate(fixture("point.h"), "NO_SUCH_MACRO", nil)
	assert.Error(t, err)
}

func TestEvaluateNestedCompoundLiteral(t *testing.T) {
	ev := &Evaluator{Registry: NewRegistry()}

	decl, err := ev.Evaluate(fixture("edge.h"), "COMPLEX_VAL", nil)
	require.NoError(t, err)
	assert.Equal(t,
		`ComplexStruct COMPLEX_VAL = ComplexStruct{info=AnonymousStruct_4{metric=AnonymousUnion_2{count=42}, description="ok".ref()}, position=Point{x=3, y=4}};`,
		decl)
}

func TestEvaluateUnionMacro(t *testing.T) {
	ev := &Evaluator{Registry: NewRegistry()}

	decl, err := ev.Evaluate(fixture("edge.h"), "DATA_VAL", nil)
	require.NoError(t, err)
	assert.Equal(t, "Data DATA_VAL = Data{i=7};", decl)
}

func TestEvaluateFloatCanonicalization(t *testing.T) {
	ev := &Evaluator{Registry: NewRegistry()}

	decl, err := ev.Evaluate(fixture("edge.h"), "SCALE_VAL", nil)
	require.NoError(t, err)
	assert.Equal(t, "Scale SCALE_VAL = Scale{sx=2.5, sy=100};", decl)
}

func TestEvaluateVerbatimPassthroughField(t *testing.T) {
	ev := &Evaluator{Registry: NewRegistry()}

	// RED is an enum constant, not modeled; its source span passes through.
	decl, err := ev.Evaluate(fixture("edge.h"), "CALC_VAL", nil)
	require.NoError(t, err)
	assert.Equal(t, "Point CALC_VAL = Point{x=RED + 1, y=2};", decl)
}

func TestEvaluateExpandsMacrosInsideMacros(t *testing.T) {
	ev := &Evaluator{Registry: NewRegistry()}

	decl, err := ev.Evaluate(fixture("edge.h"), "WIDE_VAL", nil)
	require.NoError(t, err)
	assert.Equal(t, "Point WIDE_VAL = Point{x=100, y=2};", decl)
}

func TestEvaluateMissingHeader(t *testing.T) {
	ev := &Evaluator{Registry: NewRegistry()}

	_, err := ev.Evaluate(fixture("does_not_exist.h"), "P", nil)
	assert.Error(t, err)
}

func TestEvaluateHonorsDefines(t *testing.T) {
	ev := &Evaluator{Registry: NewRegistry()}

	// point.h is found through -I when referenced by bare name.
	decl, err := ev.Evaluate(fixture("point.h"), "P", []string{"-I", "testdata", "-DEXTRA=1"})
	require.NoError(t, err)
	assert.Equal(t, "Point P = Point{x=1, y=2};", decl)
}

func TestEngineHostBoundary(t *testing.T) {
	engine := NewEngine()

	decl, ok := engine.EvaluateMacro(fixture("point.h"), "P", nil)
	require.True(t, ok)
	assert.Equal(t, "Point P = Point{x=1, y=2};", decl)

	engine.SetCustomTypeNames([]string{"c:@S@Point"}, []string{"Vec2"})
	decl, ok = engine.EvaluateMacro(fixture("point.h"), "P", nil)
	require.True(t, ok)
	assert.Equal(t, "Vec2 P = Vec2{x=1, y=2};", decl)

	// Failures collapse to ok=false, never partial output.
	decl, ok = engine.EvaluateMacro("<stdio.h>", "EOF", nil)
	assert.False(t, ok)
	assert.Empty(t, decl)

	// Mismatched lengths pair up to the shorter slice.
	engine.SetCustomTypeNames([]string{"c:@S@Point", "c:int"}, []string{"Vec2"})
	decl, ok = engine.EvaluateMacro(fixture("point.h"), "P", nil)
	require.True(t, ok)
	assert.Equal(t, "Vec2 P = Vec2{x=1, y=2};", decl)

	engine.ReleaseString(decl) // paired release stays a no-op
}

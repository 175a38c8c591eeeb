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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistrySetAllReplacesWholesale(t *testing.T) {
	reg := NewRegistry()
	reg.SetAll([]Entry{{Key: "c:@S@Point", Name: "Vec2"}})

	name, ok := reg.Lookup("c:@S@Point")
	assert.True(t, ok)
	assert.Equal(t, "Vec2", name)

	reg.SetAll([]Entry{{Key: "c:@S@Rect", Name: "Box"}})

	_, ok = reg.Lookup("c:@S@Point")
	assert.False(t, ok, "entries must not survive a SetAll")
	name, ok = reg.Lookup("c:@S@Rect")
	assert.True(t, ok)
	assert.Equal(t, "Box", name)
}

func TestRegistryDuplicateKeyLastWins(t *testing.T) {
	reg := NewRegistry()
	reg.SetAll([]Entry{
		{Key: "c:@S@Point", Name: "First"},
		{Key: "c:@S@Point", Name: "Second"},
	})

	name, ok := reg.Lookup("c:@S@Point")
	assert.True(t, ok)
	assert.Equal(t, "Second", name)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryEmptyAndNil(t *testing.T) {
	reg := NewRegistry()
	_, ok := reg.Lookup("c:int")
	assert.False(t, ok)

	var nilReg *Registry
	_, ok = nilReg.Lookup("c:int")
	assert.False(t, ok)
	assert.Equal(t, 0, nilReg.Len())
}

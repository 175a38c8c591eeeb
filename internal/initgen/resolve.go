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
	"github.com/nativebind/cclit/internal/cc/ctypes"
)

// Distinguished names for pointer types.
const (
	// NameString is the resolved name for pointers to a character type,
	// a borrowed C string in the target binding.
	NameString = "str"
	// NameAnyPtr is the resolved name for every other pointer.
	NameAnyPtr = "anyptr"
)

// primitiveNames maps C builtin kinds to fixed-width semantic names. Kinds
// absent from the table (unsigned int, long, _Bool, long double, ...) degrade
// to their raw spelling rather than failing.
var primitiveNames = map[ctypes.BuiltinKind]string{
	ctypes.Int:      "i32",
	ctypes.Short:    "i16",
	ctypes.LongLong: "i64",
	ctypes.Char:     "u8",
	ctypes.SChar:    "u8",
	ctypes.UChar:    "u8",
	ctypes.Float:    "f32",
	ctypes.Double:   "f64",
}

// ResolveTypeName maps a C type to the name the target binding exposes it
// under. An override registered for the type's stable identity always wins,
// even for builtins. Otherwise the alias-stripped form is classified: builtins
// through the fixed-width table, pointers to NameString or NameAnyPtr
// depending on whether the pointee is char-like. Everything unmapped falls
// through to the type's own spelling, so resolution never fails.
func ResolveTypeName(t ctypes.Type, reg *Registry) string {
	if sti, ok := ctypes.Identity(t); ok {
		if name, ok := reg.Lookup(sti); ok {
			return name
		}
	}
	switch canonical := ctypes.Canonical(t).(type) {
	case *ctypes.Builtin:
		if name, ok := primitiveNames[canonical.K]; ok {
			return name
		}
	case *ctypes.Pointer:
		if ctypes.IsCharLike(canonical.Pointee) {
			return NameString
		}
		return NameAnyPtr
	}
	return t.Spelling()
}

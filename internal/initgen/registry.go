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

// Package initgen turns macros that expand to C compound literals into
// fully-typed, named-field initializer strings for a foreign binding
// generator.
package initgen

// Entry pairs a stable type identity key (see ctypes.Identity) with the
// display name the generated binding should use for that type.
type Entry struct {
	Key  string
	Name string
}

// Registry maps stable type identities to caller-supplied display names.
// It is owned by whoever drives the evaluation; resolution functions receive
// it as an explicit parameter and never mutate it. Not safe for concurrent
// mutation: callers must not call SetAll while an evaluation is in flight.
type Registry struct {
	names map[string]string
}

func NewRegistry() *Registry {
	return &Registry{names: map[string]string{}}
}

// SetAll replaces the registry's contents wholesale. Previously registered
// entries do not survive the call; for duplicate keys the last entry wins.
func (r *Registry) SetAll(entries []Entry) {
	names := make(map[string]string, len(entries))
	for _, e := range entries {
		names[e.Key] = e.Name
	}
	r.names = names
}

// Lookup returns the display name registered under key. A nil registry has
// no entries.
func (r *Registry) Lookup(key string) (string, bool) {
	if r == nil {
		return "", false
	}
	name, ok := r.names[key]
	return name, ok
}

// Len reports the number of registered overrides.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

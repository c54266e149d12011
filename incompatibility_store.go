// Copyright 2024 The University of Queensland
// Copyright 2025 Contriboss
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

package pubgrub

import (
	"github.com/armon/go-radix"
)

// IncompatibilityStore is the append-only collection of every
// incompatibility the solver has derived or been given, indexed by each
// package it mentions so unit propagation (spec §4.5.1) can fetch "every
// incompatibility touching this package" without scanning the whole set.
//
// Per-package buckets are backed by a radix tree keyed on the package's
// interned string value rather than a plain Go map, so Packages() and any
// future prefix-scoped diagnostics (e.g. "all incompatibilities for
// packages named like x") iterate in sorted, deterministic order — spec
// S1 requires the whole solve to be deterministic given deterministic
// provider responses, and range-over-map iteration order is not.
type IncompatibilityStore struct {
	all    []*Incompatibility
	byPkg  *radix.Tree
	nextID int
}

// NewIncompatibilityStore returns an empty store.
func NewIncompatibilityStore() *IncompatibilityStore {
	return &IncompatibilityStore{byPkg: radix.New()}
}

// Add assigns inc a stable ID, appends it to the global list, and indexes
// it under every package it mentions. Returns inc for chaining.
func (s *IncompatibilityStore) Add(inc *Incompatibility) *Incompatibility {
	inc.id = s.nextID
	s.nextID++
	s.all = append(s.all, inc)

	for _, pkg := range inc.order {
		key := pkg.Value()
		if v, ok := s.byPkg.Get(key); ok {
			bucket := v.([]*Incompatibility)
			s.byPkg.Insert(key, append(bucket, inc))
		} else {
			s.byPkg.Insert(key, []*Incompatibility{inc})
		}
	}
	return inc
}

// ForPackage returns every incompatibility mentioning pkg, oldest first.
// The returned slice must not be mutated by the caller.
func (s *IncompatibilityStore) ForPackage(pkg Name) []*Incompatibility {
	v, ok := s.byPkg.Get(pkg.Value())
	if !ok {
		return nil
	}
	return v.([]*Incompatibility)
}

// All returns every incompatibility in insertion order.
func (s *IncompatibilityStore) All() []*Incompatibility {
	return s.all
}

// Len reports how many incompatibilities have been added.
func (s *IncompatibilityStore) Len() int {
	return len(s.all)
}

// Packages returns every package name with at least one indexed
// incompatibility, in sorted (radix) order.
func (s *IncompatibilityStore) Packages() []string {
	var names []string
	s.byPkg.Walk(func(key string, _ interface{}) bool {
		names = append(names, key)
		return false
	})
	return names
}

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
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
)

// genRange builds a small, quick-friendly Range by punching a handful of
// byte-sized holes out of Any(), which exercises normalize/merge without
// needing a custom quick.Generator for the whole interval slice.
func genRange(seed uint8) Range {
	domain := SimpleVersionDomain{}
	r := Any(domain)
	for i, bit := 0, seed; bit != 0; i, bit = i+1, bit>>1 {
		if bit&1 == 1 {
			lo := SimpleVersion(string(rune('a' + i)))
			r = r.Intersection(Exact(domain, lo).Negate())
		}
	}
	return r
}

// TestPropertyRangeNegateInvolution is P1: negating twice returns the
// original canonical range, for any range reachable from genRange.
func TestPropertyRangeNegateInvolution(t *testing.T) {
	f := func(seed uint8) bool {
		r := genRange(seed)
		return r.Negate().Negate().Equals(r)
	}
	assert.NoError(t, quick.Check(f, &quick.Config{MaxCount: 200}))
}

// TestPropertyRangeIntersectionCommutative is P3: intersection does not
// depend on operand order.
func TestPropertyRangeIntersectionCommutative(t *testing.T) {
	f := func(a, b uint8) bool {
		ra, rb := genRange(a), genRange(b)
		return ra.Intersection(rb).Equals(rb.Intersection(ra))
	}
	assert.NoError(t, quick.Check(f, &quick.Config{MaxCount: 200}))
}

// TestPropertyRangeUnionCommutative is P4: union does not depend on
// operand order.
func TestPropertyRangeUnionCommutative(t *testing.T) {
	f := func(a, b uint8) bool {
		ra, rb := genRange(a), genRange(b)
		return ra.Union(rb).Equals(rb.Union(ra))
	}
	assert.NoError(t, quick.Check(f, &quick.Config{MaxCount: 200}))
}

// TestPropertyRangeCanonicalFormIsUnique is P5: two ways of building the
// same set of versions produce Equals ranges — here, intersecting with
// Any() (a no-op) must not change the range's canonical representation.
func TestPropertyRangeCanonicalFormIsUnique(t *testing.T) {
	domain := SimpleVersionDomain{}
	f := func(seed uint8) bool {
		r := genRange(seed)
		return r.Intersection(Any(domain)).Equals(r)
	}
	assert.NoError(t, quick.Check(f, &quick.Config{MaxCount: 200}))
}

// TestPropertyTermIntersectIdempotent is T1: intersecting a term with
// itself is a no-op.
func TestPropertyTermIntersectIdempotent(t *testing.T) {
	f := func(seed uint8, positive bool) bool {
		term := Term{Range: genRange(seed), Positive: positive}
		return term.Intersect(term).equalsAsTerm(term)
	}
	assert.NoError(t, quick.Check(f, &quick.Config{MaxCount: 200}))
}

// TestPropertyTermDoubleNegationIsIdentity is T2.
func TestPropertyTermDoubleNegationIsIdentity(t *testing.T) {
	f := func(seed uint8, positive bool) bool {
		term := Term{Range: genRange(seed), Positive: positive}
		return term.Negate().Negate().equalsAsTerm(term)
	}
	assert.NoError(t, quick.Check(f, &quick.Config{MaxCount: 200}))
}

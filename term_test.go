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

import "testing"

func TestTermNegateRoundTrips(t *testing.T) {
	t.Parallel()

	domain := SimpleVersionDomain{}
	r := Between(domain, v("1.0.0"), v("2.0.0"))
	pos := NewPositiveTerm(r)

	neg := pos.Negate()
	if neg.Positive {
		t.Fatal("negating a positive term should yield a negative term")
	}
	if !neg.Negate().equalsAsTerm(pos) {
		t.Fatal("double negation should round-trip")
	}
}

func TestTermIsAlwaysTrue(t *testing.T) {
	t.Parallel()

	domain := SimpleVersionDomain{}
	alwaysTrue := NewNegativeTerm(Empty(domain))
	if !alwaysTrue.IsAlwaysTrue() {
		t.Fatal("Negative(empty) should be always true")
	}

	neverTrue := NewPositiveTerm(Empty(domain))
	if neverTrue.IsAlwaysTrue() {
		t.Fatal("Positive(empty) should not be always true")
	}
}

func TestTermIntersectCases(t *testing.T) {
	t.Parallel()

	domain := SimpleVersionDomain{}
	a := Between(domain, v("1.0.0"), v("3.0.0"))
	b := Between(domain, v("2.0.0"), v("4.0.0"))

	posPos := NewPositiveTerm(a).Intersect(NewPositiveTerm(b))
	want := NewPositiveTerm(Between(domain, v("2.0.0"), v("3.0.0")))
	if !posPos.equalsAsTerm(want) {
		t.Fatalf("Positive ∩ Positive = %s, want %s", posPos, want)
	}

	negNeg := NewNegativeTerm(a).Intersect(NewNegativeTerm(b))
	if negNeg.Positive {
		t.Fatal("Negative ∩ Negative must remain negative")
	}
}

func TestTermIsSatisfiedByAndContradictedBy(t *testing.T) {
	t.Parallel()

	domain := SimpleVersionDomain{}
	wide := NewPositiveTerm(Between(domain, v("1.0.0"), v("3.0.0")))
	narrow := NewPositiveTerm(Between(domain, v("1.5.0"), v("2.0.0")))
	disjoint := NewPositiveTerm(Between(domain, v("5.0.0"), v("6.0.0")))

	if !wide.IsSatisfiedBy(narrow) {
		t.Fatal("a wide term should be satisfied by a narrower one nested inside it")
	}
	if narrow.IsSatisfiedBy(wide) {
		t.Fatal("a narrow term should not be satisfied by a wider one")
	}
	if !wide.IsContradictedBy(disjoint) {
		t.Fatal("disjoint terms should contradict each other")
	}
	if wide.IsContradictedBy(narrow) {
		t.Fatal("overlapping terms should not contradict")
	}
}

func TestTermRelationTo(t *testing.T) {
	t.Parallel()

	domain := SimpleVersionDomain{}
	term := NewPositiveTerm(Between(domain, v("1.0.0"), v("2.0.0")))

	satisfied := NewPositiveTerm(Between(domain, v("1.2.0"), v("1.5.0")))
	if term.RelationTo(satisfied) != RelationSatisfied {
		t.Fatal("expected RelationSatisfied")
	}

	contradicted := NewPositiveTerm(Between(domain, v("5.0.0"), v("6.0.0")))
	if term.RelationTo(contradicted) != RelationContradicted {
		t.Fatal("expected RelationContradicted")
	}

	inconclusive := NewPositiveTerm(Between(domain, v("1.5.0"), v("3.0.0")))
	if term.RelationTo(inconclusive) != RelationInconclusive {
		t.Fatal("expected RelationInconclusive")
	}
}

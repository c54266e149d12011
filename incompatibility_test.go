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

func TestNewFromDependencyOfIncompatibilityTerms(t *testing.T) {
	t.Parallel()

	domain := SimpleVersionDomain{}
	foo := MakeName("foo")
	bar := MakeName("bar")
	fooRange := Exact(domain, v("1.0.0"))
	barRange := HigherThan(domain, v("2.0.0"))

	inc := NewFromDependencyOfIncompatibility(foo, fooRange, bar, barRange)

	fooTerm, ok := inc.Term(foo)
	if !ok || !fooTerm.Positive || !fooTerm.Range.Equals(fooRange) {
		t.Fatalf("expected Positive(%s) for foo, got %v (present=%v)", fooRange, fooTerm, ok)
	}
	barTerm, ok := inc.Term(bar)
	if !ok || barTerm.Positive || !barTerm.Range.Equals(barRange) {
		t.Fatalf("expected Negative(%s) for bar, got %v (present=%v)", barRange, barTerm, ok)
	}
}

func TestIncompatibilityElidesAlwaysTrueTerms(t *testing.T) {
	t.Parallel()

	domain := SimpleVersionDomain{}
	pkg := MakeName("foo")
	inc := NewNoVersionsIncompatibility(pkg, Empty(domain))

	// Positive(empty) is never always-true, so it must still be present.
	term, ok := inc.Term(pkg)
	if !ok {
		t.Fatal("Positive(empty) term should not be elided")
	}
	if !term.Range.IsEmpty() {
		t.Fatal("expected the empty range to be preserved")
	}

	// A dependency on the empty range yields Negative(empty), which is
	// always true and must be elided.
	bar := MakeName("bar")
	dep := NewFromDependencyOfIncompatibility(pkg, Any(domain), bar, Empty(domain))
	if _, ok := dep.Term(bar); ok {
		t.Fatal("Negative(empty) term should be elided")
	}
}

func TestIncompatibilityIsTerminal(t *testing.T) {
	t.Parallel()

	domain := SimpleVersionDomain{}
	root := MakeName("$$root")
	rootVersion := v("1.0.0")

	terminal := NewNoVersionsIncompatibility(root, Exact(domain, rootVersion))
	if !terminal.isTerminal(root, rootVersion) {
		t.Fatal("a lone Positive term on root containing rootVersion should be terminal")
	}

	nonTerminal := NewFromDependencyOfIncompatibility(MakeName("a"), Any(domain), MakeName("b"), Any(domain))
	if nonTerminal.isTerminal(root, rootVersion) {
		t.Fatal("a two-package incompatibility should not be terminal")
	}
}

func TestResolventDropsPivotAndIntersectsOthers(t *testing.T) {
	t.Parallel()

	domain := SimpleVersionDomain{}
	a := MakeName("a")
	b := MakeName("b")
	c := MakeName("c")

	// inc1: a depends on b in [1,2)
	inc1 := NewFromDependencyOfIncompatibility(a, Any(domain), b, Between(domain, v("1.0.0"), v("2.0.0")))
	// inc2 (the "cause"): b in [1,2) depends on c in [3,4)
	inc2 := NewFromDependencyOfIncompatibility(b, Between(domain, v("1.0.0"), v("2.0.0")), c, Between(domain, v("3.0.0"), v("4.0.0")))

	resolvent := inc1.resolvent(inc2, b)

	if _, ok := resolvent.Term(b); ok {
		t.Fatal("the pivot package should not appear in the resolvent")
	}
	if _, ok := resolvent.Term(a); !ok {
		t.Fatal("expected a's term to survive into the resolvent")
	}
	if _, ok := resolvent.Term(c); !ok {
		t.Fatal("expected c's term to survive into the resolvent")
	}
	if resolvent.cause.Kind != CauseDerived {
		t.Fatal("resolvent should be tagged CauseDerived")
	}
	if resolvent.cause.Parent1 != inc1 || resolvent.cause.Parent2 != inc2 {
		t.Fatal("resolvent should record its two parents")
	}
}

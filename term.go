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

import "fmt"

// Term is a signed Range: a Positive term is true iff the selected version
// lies in the range, a Negative term is true iff either no version is
// selected or the selected version lies outside the range.
//
// Positive(empty) and Negative(empty) are both legal and distinct:
// Positive(empty) can never be satisfied ("no version works"), while
// Negative(empty) is always true and may be elided from incompatibilities.
type Term struct {
	Range    Range
	Positive bool
}

// NewPositiveTerm builds Positive(r).
func NewPositiveTerm(r Range) Term { return Term{Range: r, Positive: true} }

// NewNegativeTerm builds Negative(r).
func NewNegativeTerm(r Range) Term { return Term{Range: r, Positive: false} }

// String renders the term for diagnostics and derivation-tree reports.
func (t Term) String() string {
	if t.Positive {
		return t.Range.String()
	}
	if t.Range.IsEmpty() {
		return "*" // Negative(empty) is always true
	}
	return fmt.Sprintf("not %s", t.Range)
}

// Negate returns the logical negation: Positive(r) <-> Negative(r).
func (t Term) Negate() Term {
	return Term{Range: t.Range, Positive: !t.Positive}
}

// IsAlwaysTrue reports whether this term is Negative(empty), which may be
// elided from an incompatibility's term map (spec §3).
func (t Term) IsAlwaysTrue() bool {
	return !t.Positive && t.Range.IsEmpty()
}

// Contains reports whether v satisfies the term in isolation.
func (t Term) Contains(v Version) bool {
	in := t.Range.Contains(v)
	if t.Positive {
		return in
	}
	return !in
}

// Intersect computes the intersection of two terms for the same package
// per spec §4.2:
//
//	Positive(a) ∩ Positive(b) = Positive(a ∩ b)
//	Positive(a) ∩ Negative(b) = Positive(a ∩ complement(b))
//	Negative(a) ∩ Negative(b) = Negative(a ∪ b)
func (t Term) Intersect(other Term) Term {
	switch {
	case t.Positive && other.Positive:
		return NewPositiveTerm(t.Range.Intersection(other.Range))
	case t.Positive && !other.Positive:
		return NewPositiveTerm(t.Range.Intersection(other.Range.Negate()))
	case !t.Positive && other.Positive:
		return NewPositiveTerm(other.Range.Intersection(t.Range.Negate()))
	default:
		return NewNegativeTerm(t.Range.Union(other.Range))
	}
}

// IsSatisfiedBy reports whether every version making other true also
// makes t true, i.e. other ⊆ t, encoded as t ∩ other == other.
func (t Term) IsSatisfiedBy(other Term) bool {
	return t.Intersect(other).equalsAsTerm(other)
}

// IsContradictedBy reports whether t and other can never both be true:
// their intersection is Positive(empty).
func (t Term) IsContradictedBy(other Term) bool {
	i := t.Intersect(other)
	return i.Positive && i.Range.IsEmpty()
}

func (t Term) equalsAsTerm(other Term) bool {
	if t.Positive != other.Positive {
		return false
	}
	return t.Range.Equals(other.Range)
}

// Relation is the trichotomy a term (or an incompatibility, see
// PartialSolution.Relation) can have with the rest of a set of terms per
// spec §4.2.
type Relation int

const (
	// RelationSatisfied means the set of terms proves this term true.
	RelationSatisfied Relation = iota
	// RelationContradicted means the set of terms proves this term false.
	RelationContradicted
	// RelationInconclusive means neither satisfied nor contradicted yet.
	RelationInconclusive
)

// RelationTo classifies t against the intersection of a set of other
// terms for the same package (e.g. the partial solution's cached
// intersection for t's package).
func (t Term) RelationTo(intersectionOfOthers Term) Relation {
	if t.IsSatisfiedBy(intersectionOfOthers) {
		return RelationSatisfied
	}
	if t.IsContradictedBy(intersectionOfOthers) {
		return RelationContradicted
	}
	return RelationInconclusive
}

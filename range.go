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
	"fmt"
	"sort"
	"strings"
)

// interval is one half-open [lo, hi) slice of a Range. hiInf means the
// upper bound is +infinity; hi is meaningless in that case.
type interval struct {
	lo    Version
	hi    Version
	hiInf bool
}

func (iv interval) contains(v Version) bool {
	if v.Compare(iv.lo) < 0 {
		return false
	}
	if iv.hiInf {
		return true
	}
	return v.Compare(iv.hi) < 0
}

// touches reports whether two intervals are adjacent or overlapping, i.e.
// whether they should merge into one run during normalization.
func (iv interval) touches(other interval) bool {
	if iv.hiInf {
		return true
	}
	// iv touches other if iv.hi >= other.lo (assuming iv sorts before other).
	return iv.hi.Compare(other.lo) >= 0
}

func (iv interval) merge(other interval) interval {
	hi, hiInf := iv.hi, iv.hiInf
	if !hiInf {
		if other.hiInf {
			hi, hiInf = other.hi, true
		} else if other.hi.Compare(hi) > 0 {
			hi = other.hi
		}
	}
	return interval{lo: iv.lo, hi: hi, hiInf: hiInf}
}

// Range is a canonical, order-preserving union of pairwise-disjoint,
// non-touching half-open intervals [lo, hi) over a VersionDomain. Two
// Ranges representing the same set of versions are always equal via
// Equals, because every constructor normalizes: intervals are sorted,
// overlapping/adjacent runs are merged, and empty runs are dropped.
//
// The zero value is not a valid Range; use Empty or another constructor.
type Range struct {
	domain    VersionDomain
	intervals []interval
}

// Empty returns the Range containing no versions.
func Empty(domain VersionDomain) Range {
	return Range{domain: domain}
}

// Any returns the Range containing every version in the domain:
// [lowest(), +inf).
func Any(domain VersionDomain) Range {
	return Range{domain: domain, intervals: []interval{{lo: domain.Lowest(), hiInf: true}}}
}

// Exact returns the Range containing only v: [v, bump(v)).
func Exact(domain VersionDomain, v Version) Range {
	return between(domain, v, domain.Bump(v), false)
}

// HigherThan returns [v, +inf).
func HigherThan(domain VersionDomain, v Version) Range {
	return Range{domain: domain, intervals: []interval{{lo: v, hiInf: true}}}
}

// StrictlyLowerThan returns [lowest(), v).
func StrictlyLowerThan(domain VersionDomain, v Version) Range {
	return between(domain, domain.Lowest(), v, false)
}

// Between returns [lo, hi), empty if lo >= hi.
func Between(domain VersionDomain, lo, hi Version) Range {
	return between(domain, lo, hi, false)
}

func between(domain VersionDomain, lo, hi Version, hiInf bool) Range {
	if !hiInf && lo.Compare(hi) >= 0 {
		return Empty(domain)
	}
	return Range{domain: domain, intervals: []interval{{lo: lo, hi: hi, hiInf: hiInf}}}
}

// Domain returns the VersionDomain this Range was built against.
func (r Range) Domain() VersionDomain { return r.domain }

// IsEmpty reports whether the Range contains no versions.
func (r Range) IsEmpty() bool { return len(r.intervals) == 0 }

// Contains reports whether v lies within the Range.
func (r Range) Contains(v Version) bool {
	for _, iv := range r.intervals {
		if iv.contains(v) {
			return true
		}
	}
	return false
}

// Negate returns the complement of r within [lowest(), +inf). Negating
// twice returns to the original canonical form (P1 in spec §8).
func (r Range) Negate() Range {
	if r.IsEmpty() {
		return Any(r.domain)
	}

	var gaps []interval
	cursor := r.domain.Lowest()
	exhausted := false

	for _, iv := range r.intervals {
		if cursor.Compare(iv.lo) < 0 {
			gaps = append(gaps, interval{lo: cursor, hi: iv.lo})
		}
		if iv.hiInf {
			exhausted = true
			break
		}
		cursor = iv.hi
	}

	if !exhausted {
		gaps = append(gaps, interval{lo: cursor, hiInf: true})
	}

	return normalize(r.domain, gaps)
}

// Intersection returns the set of versions in both r and other.
func (r Range) Intersection(other Range) Range {
	if len(r.intervals) == 0 || len(other.intervals) == 0 {
		return Empty(r.domain)
	}

	var out []interval
	i, j := 0, 0
	for i < len(r.intervals) && j < len(other.intervals) {
		a, b := r.intervals[i], other.intervals[j]
		lo := a.lo
		if b.lo.Compare(lo) > 0 {
			lo = b.lo
		}

		var hi Version
		var hiInf bool
		switch {
		case a.hiInf && b.hiInf:
			hiInf = true
		case a.hiInf:
			hi, hiInf = b.hi, false
		case b.hiInf:
			hi, hiInf = a.hi, false
		case a.hi.Compare(b.hi) <= 0:
			hi = a.hi
		default:
			hi = b.hi
		}

		if hiInf || lo.Compare(hi) < 0 {
			out = append(out, interval{lo: lo, hi: hi, hiInf: hiInf})
		}

		if upperCompare(a, b) <= 0 {
			i++
		} else {
			j++
		}
	}

	return normalize(r.domain, out)
}

// upperCompare orders two intervals by their upper bound, treating +inf
// as maximal. Used only to decide which sweep pointer to advance in
// Intersection, never for output.
func upperCompare(a, b interval) int {
	switch {
	case a.hiInf && b.hiInf:
		return 0
	case a.hiInf:
		return 1
	case b.hiInf:
		return -1
	default:
		return a.hi.Compare(b.hi)
	}
}

// Union returns the set of versions in r or other (De Morgan-equivalent
// to the complement of the intersection of the complements).
func (r Range) Union(other Range) Range {
	return r.Negate().Intersection(other.Negate()).Negate()
}

// Equals reports whether r and other represent the same set of versions.
// Because every constructor normalizes, this reduces to slice equality
// (P5 in spec §8: canonical-form uniqueness).
func (r Range) Equals(other Range) bool {
	if len(r.intervals) != len(other.intervals) {
		return false
	}
	for i := range r.intervals {
		a, b := r.intervals[i], other.intervals[i]
		if a.hiInf != b.hiInf {
			return false
		}
		if a.lo.Compare(b.lo) != 0 {
			return false
		}
		if !a.hiInf && a.hi.Compare(b.hi) != 0 {
			return false
		}
	}
	return true
}

// IsSubsetOf reports whether r ⊆ other.
func (r Range) IsSubsetOf(other Range) bool {
	return r.Intersection(other).Equals(r)
}

// String renders the Range using ">=lo, <hi" style segments joined by
// " || " for multiple disjoint runs.
func (r Range) String() string {
	if r.IsEmpty() {
		return "∅"
	}
	parts := make([]string, len(r.intervals))
	for i, iv := range r.intervals {
		parts[i] = intervalString(iv, r.domain)
	}
	return strings.Join(parts, " || ")
}

func intervalString(iv interval, domain VersionDomain) string {
	if iv.lo.Compare(domain.Lowest()) == 0 && iv.hiInf {
		return "*"
	}
	if iv.hiInf {
		return fmt.Sprintf(">=%s", iv.lo)
	}
	if iv.lo.Compare(domain.Lowest()) == 0 {
		return fmt.Sprintf("<%s", iv.hi)
	}
	if domain.Bump(iv.lo).Compare(iv.hi) == 0 {
		return fmt.Sprintf("==%s", iv.lo)
	}
	return fmt.Sprintf(">=%s, <%s", iv.lo, iv.hi)
}

// normalize sorts intervals by lower bound, merges touching/overlapping
// runs, and drops empties. This is the single chokepoint every
// constructor and operation funnels through, guaranteeing P5.
func normalize(domain VersionDomain, intervals []interval) Range {
	filtered := intervals[:0]
	for _, iv := range intervals {
		if iv.hiInf || iv.lo.Compare(iv.hi) < 0 {
			filtered = append(filtered, iv)
		}
	}
	if len(filtered) == 0 {
		return Empty(domain)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].lo.Compare(filtered[j].lo) < 0
	})

	merged := filtered[:1]
	for i := 1; i < len(filtered); i++ {
		last := &merged[len(merged)-1]
		cur := filtered[i]
		if last.touches(cur) {
			*last = last.merge(cur)
		} else {
			merged = append(merged, cur)
		}
	}

	out := make([]interval, len(merged))
	copy(out, merged)
	return Range{domain: domain, intervals: out}
}

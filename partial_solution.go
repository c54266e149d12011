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
	"github.com/sirupsen/logrus"
)

type assignmentKind int

const (
	assignmentDecision assignmentKind = iota
	assignmentDerivation
)

// assignment is one entry in the partial solution's chronological log:
// either a decision (a concrete version chosen for a package) or a
// derivation (a term forced by some incompatibility), per spec §3/§4.4.
type assignment struct {
	index         int
	pkg           Name
	term          Term
	kind          assignmentKind
	decisionLevel int
	cause         *Incompatibility // nil for decisions and the synthetic root derivation
}

// pkgState is the per-package running state the partial solution caches
// so that Term lookups during unit propagation are O(1) instead of
// replaying the whole log.
type pkgState struct {
	intersection Term
	hasTerm      bool
	decided      bool
	decision     Version
	history      []*assignment // chronological, oldest first
}

// PartialSolution is the backtrackable, chronological assignment log at
// the heart of the solver (spec §3/§4.4): a sequence of decisions and
// derivations, a current decision level, and — cached per package — the
// intersection of every term assigned to that package so far.
type PartialSolution struct {
	domain VersionDomain
	logger *logrus.Logger

	log   []*assignment
	level int
	states *radix.Tree // key: pkg.Value(), value: *pkgState
}

// NewPartialSolution returns an empty partial solution at decision level 0.
func NewPartialSolution(domain VersionDomain, logger *logrus.Logger) *PartialSolution {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PartialSolution{
		domain: domain,
		logger: logger,
		states: radix.New(),
	}
}

// CurrentDecisionLevel returns the current decision level: 0 before any
// decision, otherwise the level of the most recent decision (AddDecision
// increments the level before recording).
func (ps *PartialSolution) CurrentDecisionLevel() int {
	return ps.level
}

func (ps *PartialSolution) state(pkg Name) *pkgState {
	key := pkg.Value()
	if v, ok := ps.states.Get(key); ok {
		return v.(*pkgState)
	}
	st := &pkgState{}
	ps.states.Insert(key, st)
	return st
}

func (ps *PartialSolution) record(pkg Name, term Term, kind assignmentKind, cause *Incompatibility) {
	st := ps.state(pkg)
	a := &assignment{
		index:         len(ps.log),
		pkg:           pkg,
		term:          term,
		kind:          kind,
		decisionLevel: ps.level,
		cause:         cause,
	}
	ps.log = append(ps.log, a)
	st.history = append(st.history, a)
	if st.hasTerm {
		st.intersection = st.intersection.Intersect(term)
	} else {
		st.intersection = term
		st.hasTerm = true
	}
	ps.logger.WithFields(logrus.Fields{
		"package": pkg.Value(),
		"term":    term.String(),
		"level":   ps.level,
		"kind":    kind,
	}).Debug("partial_solution: recorded assignment")
}

// AddDecision records that version was chosen for pkg, incrementing the
// decision level.
func (ps *PartialSolution) AddDecision(pkg Name, version Version) {
	ps.level++
	st := ps.state(pkg)
	st.decided = true
	st.decision = version
	ps.record(pkg, NewPositiveTerm(Exact(ps.domain, version)), assignmentDecision, nil)
}

// AddDerivation records a term forced on pkg by cause, at the current
// decision level. cause is nil only for the synthetic initial derivation
// that seeds the root package (spec §3).
func (ps *PartialSolution) AddDerivation(pkg Name, term Term, cause *Incompatibility) {
	ps.record(pkg, term, assignmentDerivation, cause)
}

// Term returns the cached intersection of every term assigned to pkg so
// far, or false if pkg has no assignments.
func (ps *PartialSolution) Term(pkg Name) (Term, bool) {
	st := ps.state(pkg)
	if !st.hasTerm {
		return Term{}, false
	}
	return st.intersection, true
}

// Decision returns the version decided for pkg, if any.
func (ps *PartialSolution) Decision(pkg Name) (Version, bool) {
	st := ps.state(pkg)
	if !st.decided {
		return nil, false
	}
	return st.decision, true
}

// Decisions returns every decided package and its chosen version. The
// radix tree is walked in sorted order, but the result is a Go map and
// has no iteration order of its own.
func (ps *PartialSolution) Decisions() map[Name]Version {
	out := make(map[Name]Version)
	ps.states.Walk(func(key string, v interface{}) bool {
		st := v.(*pkgState)
		if st.decided {
			out[MakeName(key)] = st.decision
		}
		return false
	})
	return out
}

// Relation classifies inc against the current partial solution: the
// weakest relation across all of inc's terms is the incompatibility's
// relation (spec §4.2). When exactly one term is Inconclusive and every
// other is Satisfied, that lone package is returned as the "unsatisfied"
// package unit propagation should examine next; otherwise ok is false.
func (ps *PartialSolution) Relation(inc *Incompatibility) (rel Relation, unsatisfied Name, ok bool) {
	rel = RelationSatisfied
	found := false
	for _, pkg := range inc.order {
		t := inc.terms[pkg]
		cached, has := ps.Term(pkg)
		if !has {
			cached = NewNegativeTerm(Empty(t.Range.Domain()))
		}
		switch t.RelationTo(cached) {
		case RelationContradicted:
			return RelationContradicted, Name{}, false
		case RelationInconclusive:
			if found {
				return RelationInconclusive, Name{}, false
			}
			found = true
			unsatisfied = pkg
			rel = RelationInconclusive
		}
	}
	if rel == RelationInconclusive {
		return RelationInconclusive, unsatisfied, true
	}
	return RelationSatisfied, Name{}, false
}

// Satisfier returns the earliest assignment in the log after which inc
// became satisfied (the "satisfier"), and previousLevel: the highest
// decision level among the assignments to inc's packages that precede the
// satisfier, or 1 if that is lower (the backjump target used by conflict
// resolution, spec §4.5.2).
func (ps *PartialSolution) Satisfier(inc *Incompatibility) (satisfier *assignment, previousLevel int) {
	accum := make(map[Name]Term, len(inc.order))
	satisfiedPkgs := make(map[Name]bool, len(inc.order))
	var relevant []*assignment
	for _, a := range ps.log {
		if _, wanted := inc.terms[a.pkg]; !wanted {
			continue
		}
		relevant = append(relevant, a)
	}

	for _, a := range relevant {
		term := inc.terms[a.pkg]
		if existing, ok := accum[a.pkg]; ok {
			accum[a.pkg] = existing.Intersect(a.term)
		} else {
			accum[a.pkg] = a.term
		}
		if term.IsSatisfiedBy(accum[a.pkg]) {
			satisfiedPkgs[a.pkg] = true
		}
		if len(satisfiedPkgs) == len(inc.order) {
			satisfier = a
			break
		}
	}
	if satisfier == nil {
		return nil, ps.level
	}

	// previousLevel is the highest decision level among the relevant
	// assignments strictly before satisfier, floored at 1 (spec §4.4: "or
	// level 1 if no such earlier point exists") since level 0 holds only
	// root's synthetic derivation, never a real decision to backjump past.
	previousLevel = 1
	for _, a := range relevant {
		if a.index >= satisfier.index {
			break
		}
		if a.decisionLevel > previousLevel {
			previousLevel = a.decisionLevel
		}
	}
	return satisfier, previousLevel
}

// Backtrack discards every assignment made at a decision level strictly
// greater than level, restoring cached intersections by replaying the
// surviving log. Used by conflict resolution to jump back to the
// previous satisfier level (spec §4.5.2).
func (ps *PartialSolution) Backtrack(level int) {
	keep := ps.log[:0:0]
	for _, a := range ps.log {
		if a.decisionLevel <= level {
			keep = append(keep, a)
		}
	}

	ps.log = nil
	ps.level = level
	ps.states = radix.New()
	for _, a := range keep {
		st := ps.state(a.pkg)
		st.history = append(st.history, a)
		if st.hasTerm {
			st.intersection = st.intersection.Intersect(a.term)
		} else {
			st.intersection = a.term
			st.hasTerm = true
		}
		if a.kind == assignmentDecision {
			st.decided = true
			st.decision = versionFromExactTerm(a.term)
		}
		a.index = len(ps.log)
		ps.log = append(ps.log, a)
	}

	ps.logger.WithField("level", level).Debug("partial_solution: backtracked")
}

func versionFromExactTerm(t Term) Version {
	// A decision's term is always Positive(Exact(domain, v)): the single
	// interval's lower bound is v.
	if len(t.Range.intervals) == 0 {
		return nil
	}
	return t.Range.intervals[0].lo
}

// UndecidedPositivePackages returns, in deterministic order, every
// package with a positive cached term but no decision yet — the
// candidates the next solver step must choose among (spec §4.5, "pick a
// package with a positive derivation that isn't yet decided").
func (ps *PartialSolution) UndecidedPositivePackages() []Name {
	var out []Name
	ps.states.Walk(func(key string, v interface{}) bool {
		st := v.(*pkgState)
		if !st.decided && st.hasTerm && st.intersection.Positive {
			out = append(out, MakeName(key))
		}
		return false
	})
	return out
}

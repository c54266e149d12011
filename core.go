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
	"context"
	"sort"

	"github.com/sirupsen/logrus"
)

// core holds the mutable state shared by unit propagation and conflict
// resolution: the incompatibility store, the partial solution, and the
// root package identity needed to recognize a terminal (unsolvable)
// incompatibility (spec §4.5).
type core struct {
	domain            VersionDomain
	root              Name
	rootVersion       Version
	incompatibilities *IncompatibilityStore
	solution          *PartialSolution
	logger            *logrus.Logger
	prov              Provider
}

func newCore(domain VersionDomain, prov Provider, root Name, rootVersion Version, logger *logrus.Logger) *core {
	c := &core{
		domain:            domain,
		root:              root,
		rootVersion:       rootVersion,
		incompatibilities: NewIncompatibilityStore(),
		solution:          NewPartialSolution(domain, logger),
		logger:            logger,
		prov:              prov,
	}
	c.incompatibilities.Add(NewNotRootIncompatibility(domain, root, rootVersion))
	c.solution.AddDerivation(root, NewPositiveTerm(Exact(domain, rootVersion)), nil)
	return c
}

// provider returns the Provider this core was built with. The ctx
// parameter is accepted for symmetry with other core accessors and to
// keep call sites free to thread cancellation through later.
func (c *core) provider(_ context.Context) Provider { return c.prov }

// registerDependencies turns pkg's declared dependencies at version into
// FromDependencyOf incompatibilities (spec §4.5, decision step), after
// validating that none of them is a self-dependency or an empty range.
// decide (solver.go) is the sole caller: root is seeded into the partial
// solution via AddDerivation rather than AddDecision, so it never counts
// as "decided" either — it surfaces from UndecidedPositivePackages on the
// very first step like any other positive, undecided package, and flows
// through this same path the first time decide chooses it.
func (c *core) registerDependencies(pkg Name, version Version, deps map[Name]Range) error {
	depNames := make([]Name, 0, len(deps))
	for dep := range deps {
		depNames = append(depNames, dep)
	}
	sort.Slice(depNames, func(i, j int) bool { return depNames[i].Value() < depNames[j].Value() })

	for _, dep := range depNames {
		r := deps[dep]
		if dep == pkg {
			return &SelfDependencyError{Package: pkg, Version: version}
		}
		if r.IsEmpty() {
			return &DependencyOnTheEmptySetError{Package: pkg, Version: version, Dependency: dep}
		}
		c.addIncompatibility(NewFromDependencyOfIncompatibility(pkg, Exact(c.domain, version), dep, r))
	}
	return nil
}

// addIncompatibility stores inc, logging its addition the way the
// teacher's solver_state.go traces every state transition.
func (c *core) addIncompatibility(inc *Incompatibility) *Incompatibility {
	c.incompatibilities.Add(inc)
	c.logger.WithFields(logrus.Fields{
		"id":    inc.id,
		"terms": inc.String(),
	}).Debug("core: added incompatibility")
	return inc
}

// propagate runs unit propagation to a fixed point starting from the
// packages in initial (spec §4.5.1). When a conflict proves the whole
// problem unsolvable, the error is a *NoSolutionError carrying the
// terminal incompatibility; the *Incompatibility result is always nil.
func (c *core) propagate(initial []Name) (*Incompatibility, error) {
	queue := append([]Name(nil), initial...)
	queued := make(map[Name]bool, len(initial))
	for _, p := range initial {
		queued[p] = true
	}

	enqueue := func(pkg Name) {
		if !queued[pkg] {
			queued[pkg] = true
			queue = append(queue, pkg)
		}
	}

	for len(queue) > 0 {
		pkg := queue[0]
		queue = queue[1:]
		delete(queued, pkg)

		related := c.incompatibilities.ForPackage(pkg)
		for i := len(related) - 1; i >= 0; i-- {
			inc := related[i]
			rel, unsatisfiedPkg, ok := c.solution.Relation(inc)

			if rel == RelationSatisfied {
				rootCause, almostPkg, backtrackLevel, err := c.resolveConflict(inc)
				if err != nil {
					return nil, err
				}
				c.solution.Backtrack(backtrackLevel)
				queue = nil
				queued = make(map[Name]bool)
				// rootCause is almost-satisfied against the reverted solution
				// except for almostPkg's term; derive its negation and resume
				// propagation from there (pubgrub-rs internal/core.rs
				// unit_propagation, the conflict_id branch).
				c.solution.AddDerivation(almostPkg, rootCause.terms[almostPkg].Negate(), rootCause)
				enqueue(almostPkg)
				break
			}

			if rel == RelationInconclusive && ok {
				negated := inc.terms[unsatisfiedPkg].Negate()
				c.solution.AddDerivation(unsatisfiedPkg, negated, inc)
				enqueue(unsatisfiedPkg)
			}
		}
	}
	return nil, nil
}

// resolveConflict implements the rule of resolution (spec §4.3/§4.5.2):
// given an incompatibility the partial solution fully satisfies, walk
// backwards through the derivations that caused it, resolving on each
// pivot package, until either the incompatibility proves the whole
// problem unsolvable (isTerminal) or it becomes a new incompatibility
// whose satisfier sits strictly after some earlier decision — the
// backjump target. The returned package is the satisfier's package,
// whose negated term unit propagation should derive next.
func (c *core) resolveConflict(inc *Incompatibility) (*Incompatibility, Name, int, error) {
	for {
		if inc.isTerminal(c.root, c.rootVersion) {
			return nil, Name{}, 0, &NoSolutionError{Cause: inc, Tree: buildDerivationTree(inc)}
		}

		satisfier, previousLevel := c.solution.Satisfier(inc)
		if satisfier == nil {
			return nil, Name{}, 0, newFailure("no satisfier found for incompatibility %s", inc)
		}

		if satisfier.kind == assignmentDecision || satisfier.cause == nil || previousLevel < satisfier.decisionLevel {
			return inc, satisfier.pkg, previousLevel, nil
		}

		inc = c.addIncompatibility(inc.resolvent(satisfier.cause, satisfier.pkg))
	}
}

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

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Solution maps every package transitively required by the root to the
// single version the solver decided on for it. The root package itself
// is included, pinned at the version passed to Solve.
type Solution map[Name]Version

// SolverOptions configures a Solver. Zero value is valid: a nil Logger
// falls back to logrus's standard logger, nil choosers fall back to the
// package-fewest-versions / first-match defaults, and MaxSteps of zero
// means unbounded.
type SolverOptions struct {
	Logger         *logrus.Logger
	PackageChooser PackageChooser
	VersionChooser VersionChooser
	MaxSteps       int
}

// Option configures a Solver via NewSolver.
type Option func(*SolverOptions)

// WithLogger sets the logrus logger the solver and its internals report
// structured progress to.
func WithLogger(l *logrus.Logger) Option {
	return func(o *SolverOptions) { o.Logger = l }
}

// WithPackageChooser overrides the strategy for picking which undecided
// package to decide on next.
func WithPackageChooser(c PackageChooser) Option {
	return func(o *SolverOptions) { o.PackageChooser = c }
}

// WithVersionChooser overrides the strategy for picking which version of
// the chosen package to decide on.
func WithVersionChooser(c VersionChooser) Option {
	return func(o *SolverOptions) { o.VersionChooser = c }
}

// WithMaxSteps bounds the number of decision-loop iterations before the
// solve aborts with a FailureError, guarding against a misbehaving
// Provider that never converges.
func WithMaxSteps(n int) Option {
	return func(o *SolverOptions) { o.MaxSteps = n }
}

// Solver runs the PubGrub algorithm against a Provider.
type Solver struct {
	opts SolverOptions
}

// NewSolver builds a Solver from the given options.
func NewSolver(opts ...Option) *Solver {
	s := &Solver{}
	for _, opt := range opts {
		opt(&s.opts)
	}
	if s.opts.Logger == nil {
		s.opts.Logger = logrus.StandardLogger()
	}
	if s.opts.PackageChooser == nil {
		s.opts.PackageChooser = DefaultPackageChooser()
	}
	if s.opts.VersionChooser == nil {
		s.opts.VersionChooser = DefaultVersionChooser()
	}
	return s
}

// Solve finds a version for root and every package it transitively
// depends on, or returns a *NoSolutionError proving none exists (spec
// §4.5). Each call is tagged with a fresh trace ID for correlating log
// lines across a single solve.
func (s *Solver) Solve(ctx context.Context, provider Provider, domain VersionDomain, root Name, rootVersion Version) (Solution, error) {
	traceID := uuid.New().String()
	log := s.opts.Logger.WithFields(logrus.Fields{
		"trace_id": traceID,
		"root":     root.Value(),
		"version":  rootVersion.String(),
	})
	log.Info("solver: starting solve")

	c := newCore(domain, provider, root, rootVersion, s.opts.Logger)
	changed := []Name{root}

	for step := 0; ; step++ {
		if s.opts.MaxSteps > 0 && step >= s.opts.MaxSteps {
			err := newFailure("exceeded max steps (%d)", s.opts.MaxSteps)
			log.WithError(err).Error("solver: aborting")
			return nil, err
		}
		if err := provider.ShouldCancel(ctx); err != nil {
			wrapped := &ErrorInShouldCancelError{Err: err}
			log.WithError(wrapped).Warn("solver: cancelled")
			return nil, wrapped
		}

		if _, err := c.propagate(changed); err != nil {
			log.WithError(err).Info("solver: propagation ended the solve")
			return nil, err
		}

		candidates := c.solution.UndecidedPositivePackages()
		if len(candidates) == 0 {
			decisions := c.solution.Decisions()
			log.WithField("packages", len(decisions)).Info("solver: solution found")
			return Solution(decisions), nil
		}

		nextChanged, err := s.decide(ctx, c, candidates)
		if err != nil {
			return nil, err
		}
		changed = nextChanged
	}
}

// decide makes exactly one solver decision: choose a package among
// candidates, choose a version for it (or record that none is
// available), and register the dependency incompatibilities that
// version implies (spec §4.5, decision step).
func (s *Solver) decide(ctx context.Context, c *core, candidates []Name) ([]Name, error) {
	remaining := make(map[Name][]Version, len(candidates))
	for _, pkg := range candidates {
		term, _ := c.solution.Term(pkg)
		versions, err := c.provider(ctx).Versions(ctx, pkg)
		if err != nil {
			return nil, &ErrorRetrievingDependenciesError{Package: pkg, Err: err}
		}
		var compatible []Version
		for _, v := range versions {
			if term.Contains(v) {
				compatible = append(compatible, v)
			}
		}
		remaining[pkg] = compatible
	}

	pkg, err := s.opts.PackageChooser.ChoosePackage(ctx, candidates, remaining)
	if err != nil {
		return nil, &ErrorChoosingPackageVersionError{Err: err}
	}

	term, _ := c.solution.Term(pkg)
	version, err := s.opts.VersionChooser.ChooseVersion(ctx, pkg, term, remaining[pkg])
	if err != nil {
		return nil, &ErrorChoosingPackageVersionError{Package: pkg, Err: err}
	}
	if version == nil {
		c.addIncompatibility(NewNoVersionsIncompatibility(pkg, term.Range))
		return []Name{pkg}, nil
	}

	deps, err := c.provider(ctx).Dependencies(ctx, pkg, version)
	if err != nil {
		c.addIncompatibility(NewUnavailableDependenciesIncompatibility(pkg, Exact(c.domain, version)))
		s.opts.Logger.WithError(err).WithFields(logrus.Fields{
			"package": pkg.Value(),
			"version": version.String(),
		}).Warn("solver: dependency retrieval failed, blocking this version")
		return []Name{pkg}, nil
	}

	if err := c.registerDependencies(pkg, version, deps); err != nil {
		return nil, err
	}

	c.solution.AddDecision(pkg, version)
	return []Name{pkg}, nil
}

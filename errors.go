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

	"github.com/pkg/errors"
)

// NoSolutionError is returned when the solver proves that no assignment
// of versions satisfies the root requirements. Cause is the terminal
// incompatibility the conflict-resolution loop derived — either the empty
// incompatibility or a single Positive term on the root package that
// includes the requested root version — and Tree is the materialized derivation DAG built from it
// (see report.go).
type NoSolutionError struct {
	Cause *Incompatibility
	Tree  *DerivationNode
}

func (e *NoSolutionError) Error() string {
	return fmt.Sprintf("no solution satisfies the given requirements: %s", e.Cause)
}

// ErrorRetrievingDependenciesError wraps a failure from
// Provider.Versions, recording which package was being resolved when the
// provider failed; Version is left nil in that case. A failure from
// Provider.Dependencies is not reported through this type: the solver
// records that version as having unavailable dependencies and keeps
// solving.
type ErrorRetrievingDependenciesError struct {
	Package Name
	Version Version
	Err     error
}

func (e *ErrorRetrievingDependenciesError) Error() string {
	return fmt.Sprintf("retrieving dependencies of %s %s: %v", e.Package.Value(), e.Version, e.Err)
}

func (e *ErrorRetrievingDependenciesError) Unwrap() error { return e.Err }

// DependencyOnTheEmptySetError is returned when a package is recorded as
// depending on the empty range of another package, which spec §3 calls
// out as always an input error rather than something a solve can resolve
// (the dependency could never be satisfied no matter what else is true).
type DependencyOnTheEmptySetError struct {
	Package    Name
	Version    Version
	Dependency Name
}

func (e *DependencyOnTheEmptySetError) Error() string {
	return fmt.Sprintf("%s %s depends on %s with an empty version range", e.Package.Value(), e.Version, e.Dependency.Value())
}

// SelfDependencyError is returned when a package is recorded as
// depending on itself, which can never be satisfiable (a package cannot
// both be decided at one version and excluded from that same version).
type SelfDependencyError struct {
	Package Name
	Version Version
}

func (e *SelfDependencyError) Error() string {
	return fmt.Sprintf("%s %s depends on itself", e.Package.Value(), e.Version)
}

// ErrorChoosingPackageVersionError wraps a failure from a PackageChooser
// or VersionChooser while the solver was trying to make its next
// decision.
type ErrorChoosingPackageVersionError struct {
	Package Name
	Err     error
}

func (e *ErrorChoosingPackageVersionError) Error() string {
	return fmt.Sprintf("choosing a version for %s: %v", e.Package.Value(), e.Err)
}

func (e *ErrorChoosingPackageVersionError) Unwrap() error { return e.Err }

// ErrorInShouldCancelError wraps a non-nil return from
// Provider.ShouldCancel, aborting the solve.
type ErrorInShouldCancelError struct {
	Err error
}

func (e *ErrorInShouldCancelError) Error() string {
	return fmt.Sprintf("solve cancelled: %v", e.Err)
}

func (e *ErrorInShouldCancelError) Unwrap() error { return e.Err }

// FailureError wraps an internal invariant violation — conflict
// resolution reaching a state the algorithm proves cannot occur. Seeing
// one means the solver has a bug, not that the input is unsatisfiable.
type FailureError struct {
	Msg string
}

func (e *FailureError) Error() string { return "internal solver failure: " + e.Msg }

func newFailure(format string, args ...interface{}) error {
	return errors.WithStack(&FailureError{Msg: fmt.Sprintf(format, args...)})
}

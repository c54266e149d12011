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

// Package semverdomain adapts github.com/Masterminds/semver's Version
// type to the pubgrub.Version and pubgrub.VersionDomain interfaces, so a
// Solver can resolve real semantic-version ranges instead of the
// lexicographic SimpleVersion used in tests.
package semverdomain

import (
	"github.com/Masterminds/semver"
	"github.com/pkg/errors"

	pubgrub "github.com/contriboss/versolve"
)

// Version wraps *semver.Version so it satisfies pubgrub.Version.
type Version struct {
	v *semver.Version
}

// Parse parses s as a semantic version.
func Parse(s string) (Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, errors.Wrapf(err, "parsing semantic version %q", s)
	}
	return Version{v: v}, nil
}

// String implements pubgrub.Version.
func (v Version) String() string {
	if v.v == nil {
		return "0.0.0"
	}
	return v.v.String()
}

// Compare implements pubgrub.Version.
func (v Version) Compare(other pubgrub.Version) int {
	o, ok := other.(Version)
	if !ok || o.v == nil || v.v == nil {
		return 0
	}
	return v.v.Compare(o.v)
}

// Domain implements pubgrub.VersionDomain for semantic versions: 0.0.0
// is the minimum, and Bump produces the next patch release with any
// prerelease/build metadata stripped.
//
// Because semver orders prereleases of a version before the version
// itself (1.0.0-alpha < 1.0.0), Exact(domain, v) = [v, Bump(v)) is not
// perfectly tight: it also contains every prerelease of the next patch
// release (Exact of 1.0.0 contains 1.0.1-alpha), and for a prerelease v
// also the later prereleases of v's version and that release itself.
// RangeFromConstraint's ">" and "<=" forms also use Bump and share this.
type Domain struct{}

// Lowest implements pubgrub.VersionDomain.
func (Domain) Lowest() pubgrub.Version {
	return Version{v: semver.MustParse("0.0.0")}
}

// Bump implements pubgrub.VersionDomain.
func (Domain) Bump(v pubgrub.Version) pubgrub.Version {
	sv, ok := v.(Version)
	if !ok || sv.v == nil {
		return v
	}
	next := semver.MustParse(sv.v.String())
	bumped, _ := semver.NewVersion(
		itoa(next.Major()) + "." + itoa(next.Minor()) + "." + itoa(next.Patch()+1),
	)
	return Version{v: bumped}
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// RangeFromConstraint converts a single comparator, given as its operator
// op and version v, into a pubgrub.Range over Domain using the half-open
// interval algebra. Supported operators are ">=", ">", "<=", "<", and "="
// (or an empty operator, meaning "="); any other operator, including "~"
// and "^", returns an error.
func RangeFromConstraint(domain Domain, op string, v Version) (pubgrub.Range, error) {
	switch op {
	case ">=":
		return pubgrub.HigherThan(domain, v), nil
	case ">":
		return pubgrub.HigherThan(domain, domain.Bump(v)), nil
	case "<":
		return pubgrub.StrictlyLowerThan(domain, v), nil
	case "<=":
		return pubgrub.StrictlyLowerThan(domain, domain.Bump(v)), nil
	case "=", "":
		return pubgrub.Exact(domain, v), nil
	default:
		return pubgrub.Range{}, errors.Errorf("unsupported comparator operator %q", op)
	}
}

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

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// MemoryProvider is an in-memory Provider, useful for tests and for
// building example dependency graphs without wiring up a real registry.
type MemoryProvider struct {
	domain   VersionDomain
	packages map[Name]map[Version]map[Name]Range
}

// NewMemoryProvider returns an empty MemoryProvider over domain.
func NewMemoryProvider(domain VersionDomain) *MemoryProvider {
	return &MemoryProvider{
		domain:   domain,
		packages: make(map[Name]map[Version]map[Name]Range),
	}
}

// AddPackage registers one version of pkg with its dependency ranges.
// A nil or empty deps means pkg@version has no dependencies.
func (m *MemoryProvider) AddPackage(pkg Name, version Version, deps map[Name]Range) {
	if m.packages[pkg] == nil {
		m.packages[pkg] = make(map[Version]map[Name]Range)
	}
	m.packages[pkg][version] = deps
}

// Versions implements Provider.
func (m *MemoryProvider) Versions(_ context.Context, pkg Name) ([]Version, error) {
	versions, ok := m.packages[pkg]
	if !ok {
		return nil, nil
	}
	out := make([]Version, 0, len(versions))
	for v := range versions {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out, nil
}

// Dependencies implements Provider.
func (m *MemoryProvider) Dependencies(_ context.Context, pkg Name, version Version) (map[Name]Range, error) {
	versions, ok := m.packages[pkg]
	if !ok {
		return nil, errors.Errorf("unknown package %q", pkg.Value())
	}
	deps, ok := versions[version]
	if !ok {
		return nil, errors.Errorf("unknown version %s of package %q", version, pkg.Value())
	}
	return deps, nil
}

// ShouldCancel implements Provider; MemoryProvider never cancels on its
// own but still honors ctx cancellation.
func (m *MemoryProvider) ShouldCancel(ctx context.Context) error {
	return ctx.Err()
}

var _ Provider = (*MemoryProvider)(nil)

// memoryFixture is the YAML shape loaded by LoadMemoryProviderYAML:
//
//	packages:
//	  foo:
//	    "1.0.0":
//	      bar: ">=2.0.0, <3.0.0"
//	  bar:
//	    "2.1.0": {}
type memoryFixture struct {
	Packages map[string]map[string]map[string]string `yaml:"packages"`
}

// LoadMemoryProviderYAML builds a MemoryProvider from a YAML fixture using
// domain to parse version and range strings via parseVersion/parseRange.
// Intended for test suites that want their dependency graphs kept as data
// rather than Go literals.
func LoadMemoryProviderYAML(domain VersionDomain, data []byte, parseVersion func(string) (Version, error), parseRange func(VersionDomain, string) (Range, error)) (*MemoryProvider, error) {
	var fixture memoryFixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, errors.Wrap(err, "parsing memory provider fixture")
	}

	mp := NewMemoryProvider(domain)
	for pkgStr, versions := range fixture.Packages {
		pkg := MakeName(pkgStr)
		for verStr, depStrs := range versions {
			version, err := parseVersion(verStr)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing version %q of package %q", verStr, pkgStr)
			}
			deps := make(map[Name]Range, len(depStrs))
			for depStr, rangeStr := range depStrs {
				r, err := parseRange(domain, rangeStr)
				if err != nil {
					return nil, errors.Wrapf(err, "parsing range %q for dependency %q of %s %s", rangeStr, depStr, pkgStr, verStr)
				}
				deps[MakeName(depStr)] = r
			}
			mp.AddPackage(pkg, version, deps)
		}
	}
	return mp, nil
}

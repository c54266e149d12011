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
	"strings"
	"testing"
)

func TestNoSolutionErrorCarriesDerivationTree(t *testing.T) {
	t.Parallel()

	domain := SimpleVersionDomain{}
	root := MakeName("$$root")
	a := MakeName("a")

	mp := NewMemoryProvider(domain)
	mp.AddPackage(root, v("1.0.0"), deps(a, Between(domain, v("1.0.0"), v("2.0.0"))))
	mp.AddPackage(a, v("5.0.0"), nil)

	solver := NewSolver()
	_, err := solver.Solve(context.Background(), mp, domain, root, v("1.0.0"))
	if err == nil {
		t.Fatal("expected an error")
	}

	noSolution, ok := err.(*NoSolutionError)
	if !ok {
		t.Fatalf("expected *NoSolutionError, got %T", err)
	}
	if noSolution.Tree == nil {
		t.Fatal("expected a non-nil derivation tree")
	}

	report := NewReporter().Explain(noSolution.Tree)
	if strings.TrimSpace(report) == "" {
		t.Fatal("expected a non-empty explanation")
	}
}

func TestBuildDerivationTreeMarksSharedNodes(t *testing.T) {
	t.Parallel()

	domain := SimpleVersionDomain{}
	a := MakeName("a")
	b := MakeName("b")
	c := MakeName("c")

	// Every incompatibility goes through a store so each gets a distinct ID,
	// which the tree-builder uses for node identity.
	store := NewIncompatibilityStore()

	// shared: used as a cause for two different derived incompatibilities.
	shared := store.Add(NewFromDependencyOfIncompatibility(a, Any(domain), b, Exact(domain, v("1.0.0"))))
	other1 := store.Add(NewFromDependencyOfIncompatibility(b, Exact(domain, v("1.0.0")), c, Between(domain, v("1.0.0"), v("2.0.0"))))
	other2 := store.Add(NewFromDependencyOfIncompatibility(b, Exact(domain, v("1.0.0")), c, Between(domain, v("3.0.0"), v("4.0.0"))))

	derived1 := store.Add(shared.resolvent(other1, b))
	derived2 := store.Add(shared.resolvent(other2, b))

	// Wrap both derived incompatibilities under one synthetic root so the
	// tree-builder has to walk through `shared` twice.
	root := store.Add(derived1.resolvent(derived2, c))

	tree := buildDerivationTree(root)
	if tree.Parent1 == nil || tree.Parent2 == nil {
		t.Fatal("expected the synthetic root to have two parents")
	}

	var foundShared bool
	var walk func(n *DerivationNode)
	seen := make(map[*DerivationNode]bool)
	walk = func(n *DerivationNode) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		if n.SharedID != 0 {
			foundShared = true
		}
		walk(n.Parent1)
		walk(n.Parent2)
	}
	walk(tree)
	if !foundShared {
		t.Fatal("expected shared incompatibility to be marked with a SharedID")
	}
}

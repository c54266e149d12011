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
	"strings"
)

// DerivationNode is one node of the derivation tree that explains why an
// incompatibility holds (spec §4.6). External incompatibilities are
// leaves; derived incompatibilities carry the two prior incompatibilities
// the rule of resolution combined to produce them. SharedID is non-zero
// when this node is reachable from more than one place in the tree, so a
// renderer can print it once and refer back to it afterward instead of
// duplicating the explanation.
type DerivationNode struct {
	Incompatibility *Incompatibility
	Parent1         *DerivationNode
	Parent2         *DerivationNode
	SharedID        int
}

// IsExternal reports whether this node is a leaf fact rather than a
// clause derived via resolution.
func (n *DerivationNode) IsExternal() bool {
	return n.Incompatibility.cause.Kind != CauseDerived
}

// buildDerivationTree walks the cause chain of root, materializing it
// into a DAG of DerivationNodes and marking every incompatibility
// reachable from more than one place with a shared ID, so Reporter can
// print shared subderivations once (spec §4.6).
func buildDerivationTree(root *Incompatibility) *DerivationNode {
	refCount := make(map[int]int)
	visited := make(map[int]bool)
	var countRefs func(inc *Incompatibility)
	countRefs = func(inc *Incompatibility) {
		refCount[inc.id]++
		if visited[inc.id] {
			return
		}
		visited[inc.id] = true
		if inc.cause.Kind == CauseDerived {
			countRefs(inc.cause.Parent1)
			countRefs(inc.cause.Parent2)
		}
	}
	countRefs(root)

	nextSharedID := 1
	nodes := make(map[int]*DerivationNode)
	var build func(inc *Incompatibility) *DerivationNode
	build = func(inc *Incompatibility) *DerivationNode {
		if n, ok := nodes[inc.id]; ok {
			return n
		}
		node := &DerivationNode{Incompatibility: inc}
		nodes[inc.id] = node
		if refCount[inc.id] > 1 {
			node.SharedID = nextSharedID
			nextSharedID++
		}
		if inc.cause.Kind == CauseDerived {
			node.Parent1 = build(inc.cause.Parent1)
			node.Parent2 = build(inc.cause.Parent2)
		}
		return node
	}
	return build(root)
}

// Reporter renders a derivation tree as a human-readable explanation,
// the way a NoSolutionError is typically surfaced to a user (spec §4.6).
type Reporter struct {
	// CollapseNoVersions merges a CauseNoVersions leaf directly into the
	// line that needed it ("..., because there is no available version of
	// foo and ...") rather than giving it its own numbered line. Defaults to true
	// when a Reporter is built with NewReporter.
	CollapseNoVersions bool
}

// NewReporter returns a Reporter with the default rendering options.
func NewReporter() *Reporter {
	return &Reporter{CollapseNoVersions: true}
}

// Explain renders the full derivation tree rooted at tree as a numbered,
// multi-line explanation.
func (r *Reporter) Explain(tree *DerivationNode) string {
	var b strings.Builder
	printed := make(map[int]int) // incompatibility ID -> line number
	line := 0

	var visit func(n *DerivationNode) string
	visit = func(n *DerivationNode) string {
		if n.IsExternal() {
			return n.Incompatibility.String()
		}
		if n.SharedID != 0 {
			if num, ok := printed[n.Incompatibility.id]; ok {
				return fmt.Sprintf("%s (see line %d)", n.Incompatibility, num)
			}
		}

		if r.CollapseNoVersions && collapsible(n.Parent1) {
			desc := visit(n.Parent2)
			return fmt.Sprintf("%s, because %s", n.Incompatibility,
				fmt.Sprintf("there is no available version of %s and %s",
					n.Parent1.Incompatibility.cause.Package.Value(), desc))
		}
		if r.CollapseNoVersions && collapsible(n.Parent2) {
			desc := visit(n.Parent1)
			return fmt.Sprintf("%s, because %s and there is no available version of %s",
				n.Incompatibility, desc, n.Parent2.Incompatibility.cause.Package.Value())
		}

		left := visit(n.Parent1)
		right := visit(n.Parent2)
		line++
		num := line
		printed[n.Incompatibility.id] = num
		b.WriteString(fmt.Sprintf("%d. Because %s and %s, %s.\n", num, left, right, n.Incompatibility))
		return fmt.Sprintf("%s (line %d)", n.Incompatibility, num)
	}

	top := visit(tree)
	if _, ok := printed[tree.Incompatibility.id]; !ok {
		// The root was external or collapsed, so no line holds it yet.
		line++
		b.WriteString(fmt.Sprintf("%d. %s.\n", line, top))
	}
	return b.String()
}

func collapsible(n *DerivationNode) bool {
	return n != nil && n.IsExternal() && n.Incompatibility.cause.Kind == CauseNoVersions
}

/*
Copyright SUSE LLC.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package solver

import (
	"fmt"
	"strings"

	"github.com/packsolve/packsolve/pkg/pool"
)

// tribool is a boolean with an additional "unassigned" state.
type tribool int8

const (
	tbUndef tribool = iota
	tbTrue
	tbFalse
)

// lit is a signed solvable literal: "solvable installed" or, negated,
// "solvable not installed".
type lit struct {
	solvable pool.SolvableID
	negated  bool
}

func (l lit) negate() lit {
	return lit{solvable: l.solvable, negated: !l.negated}
}

func (l lit) String() string {
	if l.negated {
		return fmt.Sprintf("~%d", l.solvable)
	}
	return fmt.Sprintf("%d", l.solvable)
}

type clauseKind int

const (
	// clauseInstallRoot asserts the synthetic root solvable.
	clauseInstallRoot clauseKind = iota
	// clauseRequires: ¬parent ∨ candidate1 ∨ ... ∨ candidateN.
	clauseRequires
	// clauseConstrains: ¬parent ∨ ¬forbidden.
	clauseConstrains
	// clauseForbidMultiple: ¬a ∨ ¬b for two candidates of one name.
	clauseForbidMultiple
	// clauseLock: ¬other, because a sibling is locked.
	clauseLock
	// clauseLearnt clauses come out of conflict analysis.
	clauseLearnt
)

// clause is a disjunction of signed solvable literals, plus enough context
// to explain itself in conflict messages.
type clause struct {
	kind clauseKind
	lits []lit

	// explanation context; which fields are set depends on kind
	parent    pool.SolvableID
	set       pool.VersionSetID
	forbidden pool.SolvableID

	// nameUnknown distinguishes "no such package" from "no matching
	// candidate" in requires clauses; lockedOut marks matches that were
	// excluded by a lock.
	nameUnknown bool
	lockedOut   bool
}

type clauseStatus int

const (
	clauseSatisfied clauseStatus = iota
	clauseUnit
	clauseConflict
	clauseUnresolved
)

// eval returns the clause status under the current assignment and, for unit
// clauses, the one unassigned literal.
func (c *clause) eval(d *decisions) (clauseStatus, lit) {
	var unit lit
	unassigned := 0
	for _, l := range c.lits {
		switch d.litValue(l) {
		case tbTrue:
			return clauseSatisfied, lit{}
		case tbUndef:
			unassigned++
			unit = l
		}
	}
	switch unassigned {
	case 0:
		return clauseConflict, lit{}
	case 1:
		return clauseUnit, unit
	}
	return clauseUnresolved, lit{}
}

// reasonLits returns the assignments that forced the clause: for a conflict
// every literal is false, for an implied literal p every literal but p is.
// The returned literals are the (true) assignments themselves.
func (c *clause) reasonLits(p lit, haveP bool) []lit {
	reason := make([]lit, 0, len(c.lits))
	for _, l := range c.lits {
		if haveP && l == p {
			continue
		}
		reason = append(reason, l.negate())
	}
	return reason
}

// maxLevel returns the highest decision level among the clause's literals.
// Only meaningful for fully-false clauses.
func (c *clause) maxLevel(d *decisions) int {
	max := 0
	for _, l := range c.lits {
		if lv := d.levels[l.solvable]; lv > max {
			max = lv
		}
	}
	return max
}

func (c *clause) String() string {
	strs := make([]string, len(c.lits))
	for i, l := range c.lits {
		strs[i] = l.String()
	}
	return strings.Join(strs, ",")
}

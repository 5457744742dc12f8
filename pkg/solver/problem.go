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

// Problem is the first-class, recoverable unsatisfiability result: the
// minimal set of clauses implicated in a root-level conflict, rendered as
// human-readable reasons. Callers typically relax a spec and retry.
type Problem struct {
	reasons []string
}

// Error implements the error interface.
func (p *Problem) Error() string {
	if len(p.reasons) == 0 {
		return "constraints are not satisfiable"
	}
	return "constraints are not satisfiable:\n" + p.Explain()
}

// Explain returns a multi-line explanation suitable for end users.
func (p *Problem) Explain() string {
	lines := make([]string, len(p.reasons))
	for i, r := range p.reasons {
		lines[i] = "  - " + r
	}
	return strings.Join(lines, "\n")
}

// Reasons returns the individual reason lines.
func (p *Problem) Reasons() []string {
	return p.reasons
}

// newProblem collects the clauses implicated in a root-level conflict by
// walking each conflicting literal's implying clause.
func (s *Solver) newProblem(confl *clause) *Problem {
	s.logger.Debugf("unsatisfiable at root level: %s", confl)

	var reasons []string
	seenClause := map[*clause]bool{}
	seenLine := map[string]bool{}
	seenSolvable := map[pool.SolvableID]bool{}
	queue := []*clause{confl}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if seenClause[c] {
			continue
		}
		seenClause[c] = true
		if line := s.explainClause(c); line != "" && !seenLine[line] {
			seenLine[line] = true
			reasons = append(reasons, line)
		}
		for _, l := range c.lits {
			if seenSolvable[l.solvable] {
				continue
			}
			seenSolvable[l.solvable] = true
			if r := s.dec.reasons[l.solvable]; r != nil {
				queue = append(queue, r)
			}
		}
	}
	return &Problem{reasons: reasons}
}

// explainClause renders one clause as a reason line. Root bookkeeping and
// learnt clauses carry no user-facing information and render empty.
func (s *Solver) explainClause(c *clause) string {
	display := func(id pool.SolvableID) string {
		if id == pool.RootSolvable {
			return "the request"
		}
		return s.pool.DisplaySolvable(id)
	}

	switch c.kind {
	case clauseRequires:
		parent := display(c.parent)
		spec := s.pool.DisplayVersionSet(c.set)
		switch {
		case c.nameUnknown:
			return fmt.Sprintf("%s requires %s, but no such package exists", parent, spec)
		case c.lockedOut:
			return fmt.Sprintf("%s requires %s, but every matching candidate is excluded by a lock", parent, spec)
		case len(c.lits) == 1:
			return fmt.Sprintf("%s requires %s, but no candidate matches", parent, spec)
		default:
			return fmt.Sprintf("%s requires %s", parent, spec)
		}
	case clauseConstrains:
		return fmt.Sprintf("%s constrains %s, which excludes %s",
			display(c.parent), s.pool.DisplayVersionSet(c.set), display(c.forbidden))
	case clauseForbidMultiple:
		return fmt.Sprintf("%s and %s cannot be installed at the same time",
			display(c.parent), display(c.forbidden))
	case clauseLock:
		return fmt.Sprintf("%s is excluded because %s is locked",
			display(c.forbidden), display(c.parent))
	}
	return ""
}

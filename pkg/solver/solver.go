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
	"github.com/Masterminds/log-go"
	"github.com/packsolve/packsolve/pkg/pool"
	"github.com/packsolve/packsolve/pkg/transaction"
)

// Solver is the conflict-driven clause-learning engine. It is single
// threaded: one Solve call runs to completion on the calling goroutine, and
// all search state is created inside the call, so a populated pool can back
// any number of sequential solves.
type Solver struct {
	pool     *pool.Pool
	provider CandidateProvider
	logger   log.Logger

	// per-solve state, reset by Solve
	dec        *decisions
	cache      *solveCache
	clauses    []*clause
	bySolvable map[pool.SolvableID][]*clause
	expanded   map[pool.SolvableID]bool
	forbidden  map[pool.NameID]bool
	requires   map[requiresKey]bool
	constrains map[constrainsKey]bool

	decisionCount    int
	propagationCount int
	conflictCount    int
	learntCount      int
}

type requiresKey struct {
	parent pool.SolvableID
	set    pool.VersionSetID
}

type constrainsKey struct {
	parent    pool.SolvableID
	set       pool.VersionSetID
	forbidden pool.SolvableID
}

// New creates a solver over a pool and a candidate provider.
func New(p *pool.Pool, provider CandidateProvider) *Solver {
	return &Solver{
		pool:     p,
		provider: provider,
		logger:   log.Current,
	}
}

// SetLogger replaces the solver's logger (log.Current by default).
func (s *Solver) SetLogger(logger log.Logger) {
	s.logger = logger
}

// Solve resolves the job set into a transaction, or returns a *Problem
// describing the minimal conflict when the jobs are unsatisfiable.
func (s *Solver) Solve(jobs *Jobs) (*transaction.Transaction, error) {
	solution, problem := s.solve(jobs)
	if problem != nil {
		return nil, problem
	}
	return transaction.Derive(s.pool, solution, jobs.installed, jobs.reinstall), nil
}

func (s *Solver) solve(jobs *Jobs) ([]pool.SolvableID, *Problem) {
	s.reset()

	for _, id := range jobs.favor {
		s.cache.favored[s.pool.ResolveSolvable(id).Name()] = id
	}
	for _, id := range jobs.lock {
		s.cache.locked[s.pool.ResolveSolvable(id).Name()] = id
	}
	s.pool.SetRootRequirements(jobs.install)

	if confl := s.addClause(&clause{
		kind: clauseInstallRoot,
		lits: []lit{{solvable: pool.RootSolvable}},
	}); confl != nil {
		return nil, s.newProblem(confl)
	}
	if confl := s.addLockClauses(jobs); confl != nil {
		return nil, s.newProblem(confl)
	}

	if problem := s.run(); problem != nil {
		return nil, problem
	}

	s.logger.Debugf("solved: %d decisions, %d propagations, %d conflicts, %d learnt clauses",
		s.decisionCount, s.propagationCount, s.conflictCount, s.learntCount)
	solution := s.dec.trueSolvables()
	// the synthetic root is not part of the result
	if len(solution) > 0 && solution[0] == pool.RootSolvable {
		solution = solution[1:]
	}
	return solution, nil
}

func (s *Solver) reset() {
	s.dec = newDecisions(s.pool.NumSolvables())
	s.cache = newSolveCache(s.pool, s.provider)
	s.clauses = nil
	s.bySolvable = map[pool.SolvableID][]*clause{}
	s.expanded = map[pool.SolvableID]bool{}
	s.forbidden = map[pool.NameID]bool{}
	s.requires = map[requiresKey]bool{}
	s.constrains = map[constrainsKey]bool{}
	s.decisionCount = 0
	s.propagationCount = 0
	s.conflictCount = 0
	s.learntCount = 0
}

// addLockClauses excludes every name-sibling of a locked solvable.
func (s *Solver) addLockClauses(jobs *Jobs) *clause {
	for _, locked := range jobs.lock {
		name := s.pool.ResolveSolvable(locked).Name()
		cands := s.cache.getCandidates(name)
		if cands == nil {
			continue
		}
		for _, other := range cands.Candidates {
			if other == locked {
				continue
			}
			confl := s.addClause(&clause{
				kind:      clauseLock,
				lits:      []lit{{solvable: other, negated: true}},
				parent:    locked,
				forbidden: other,
			})
			if confl != nil {
				return confl
			}
		}
	}
	return nil
}

// run drives propagation, dependency expansion and decisions until the
// formula is solved or unsatisfiable at the root level.
func (s *Solver) run() *Problem {
	for {
		if confl := s.propagate(); confl != nil {
			if problem := s.resolveConflict(confl); problem != nil {
				return problem
			}
			continue
		}
		added, confl := s.expand()
		if confl != nil {
			if problem := s.resolveConflict(confl); problem != nil {
				return problem
			}
			continue
		}
		if added {
			continue
		}
		if !s.decide() {
			return nil
		}
	}
}

// propagate satisfies unit clauses until fixpoint or conflict.
func (s *Solver) propagate() *clause {
	for s.dec.qhead < len(s.dec.trail) {
		l := s.dec.trail[s.dec.qhead]
		s.dec.qhead++
		s.propagationCount++
		for _, c := range s.bySolvable[l.solvable] {
			status, unit := c.eval(s.dec)
			switch status {
			case clauseConflict:
				return c
			case clauseUnit:
				if !s.dec.enqueue(unit, c) {
					return c
				}
			}
		}
	}
	return nil
}

// expand adds requirement and constrain clauses for solvables newly assigned
// true. It reports whether any clause was added, and the conflicting clause
// if adding one produced an immediate conflict.
func (s *Solver) expand() (bool, *clause) {
	added := false
	for i := 0; i < len(s.dec.trail); i++ {
		l := s.dec.trail[i]
		if l.negated || s.expanded[l.solvable] {
			continue
		}
		id := l.solvable
		sv := s.pool.ResolveSolvable(id)
		if !sv.IsRoot() {
			if confl := s.addForbidClauses(sv.Name()); confl != nil {
				return true, confl
			}
		}
		deps := s.cache.getDependencies(id)
		for _, req := range deps.Requirements {
			ok, confl := s.addRequiresClause(id, req)
			added = added || ok
			if confl != nil {
				return added, confl
			}
		}
		for _, constr := range deps.Constrains {
			ok, confl := s.addConstrainsClauses(id, constr)
			added = added || ok
			if confl != nil {
				return added, confl
			}
		}
		// only now is the solvable fully expanded; a conflict above leaves
		// it pending so the remaining clauses are added after backtracking
		s.expanded[id] = true
	}
	return added, nil
}

// addRequiresClause builds ¬parent ∨ c1 ∨ ... ∨ cN over the candidates that
// match the requirement, in decision-preference order. Locks reduce the
// candidates to the locked solvable only.
func (s *Solver) addRequiresClause(parent pool.SolvableID, set pool.VersionSetID) (bool, *clause) {
	key := requiresKey{parent: parent, set: set}
	if s.requires[key] {
		return false, nil
	}
	s.requires[key] = true

	name, _ := s.pool.ResolveVersionSet(set)
	matching, known := s.cache.matchingCandidates(set)

	lockedOut := false
	if locked := s.cache.lockedFor(name); locked != NoSolvable {
		kept := matching[:0:0]
		for _, id := range matching {
			if id == locked {
				kept = append(kept, id)
			}
		}
		if len(kept) == 0 && len(matching) > 0 {
			lockedOut = true
		}
		matching = kept
	}

	if confl := s.addForbidClauses(name); confl != nil {
		return true, confl
	}

	lits := make([]lit, 0, len(matching)+1)
	lits = append(lits, lit{solvable: parent, negated: true})
	for _, id := range matching {
		lits = append(lits, lit{solvable: id})
	}
	c := &clause{
		kind:        clauseRequires,
		lits:        lits,
		parent:      parent,
		set:         set,
		nameUnknown: !known,
		lockedOut:   lockedOut,
	}
	return true, s.addClause(c)
}

// addConstrainsClauses forbids each candidate the constraint excludes from
// being installed together with the parent.
func (s *Solver) addConstrainsClauses(parent pool.SolvableID, set pool.VersionSetID) (bool, *clause) {
	added := false
	for _, victim := range s.cache.violatingCandidates(set) {
		key := constrainsKey{parent: parent, set: set, forbidden: victim}
		if s.constrains[key] {
			continue
		}
		s.constrains[key] = true
		added = true
		confl := s.addClause(&clause{
			kind: clauseConstrains,
			lits: []lit{
				{solvable: parent, negated: true},
				{solvable: victim, negated: true},
			},
			parent:    parent,
			set:       set,
			forbidden: victim,
		})
		if confl != nil {
			return added, confl
		}
	}
	return added, nil
}

// addForbidClauses adds the pairwise at-most-one clauses for a name's
// candidates, once per name per solve.
func (s *Solver) addForbidClauses(name pool.NameID) *clause {
	if s.forbidden[name] {
		return nil
	}
	s.forbidden[name] = true
	cands := s.cache.getCandidates(name)
	if cands == nil {
		return nil
	}
	ids := cands.Candidates
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			confl := s.addClause(&clause{
				kind: clauseForbidMultiple,
				lits: []lit{
					{solvable: ids[i], negated: true},
					{solvable: ids[j], negated: true},
				},
				parent:    ids[i],
				forbidden: ids[j],
			})
			if confl != nil {
				return confl
			}
		}
	}
	return nil
}

// addClause stores and indexes a clause, immediately propagating it when it
// is unit and reporting it back when it is already false.
func (s *Solver) addClause(c *clause) *clause {
	s.clauses = append(s.clauses, c)
	seen := map[pool.SolvableID]bool{}
	for _, l := range c.lits {
		if seen[l.solvable] {
			continue
		}
		seen[l.solvable] = true
		s.bySolvable[l.solvable] = append(s.bySolvable[l.solvable], c)
	}
	status, unit := c.eval(s.dec)
	switch status {
	case clauseConflict:
		return c
	case clauseUnit:
		if !s.dec.enqueue(unit, c) {
			return c
		}
	}
	return nil
}

// decide picks the next unsatisfied requirement of an installed solvable and
// tries its most-preferred untried candidate as a new decision level. It
// returns false when no decision is left: the formula is satisfied.
func (s *Solver) decide() bool {
	for _, c := range s.clauses {
		if c.kind != clauseRequires {
			continue
		}
		if s.dec.value(c.parent) != tbTrue {
			continue
		}
		pick := pool.SolvableID(-1)
		satisfied := false
		for _, l := range c.lits[1:] {
			switch s.dec.value(l.solvable) {
			case tbTrue:
				satisfied = true
			case tbUndef:
				if pick < 0 {
					pick = l.solvable
				}
			}
			if satisfied {
				break
			}
		}
		if satisfied || pick < 0 {
			continue
		}
		s.dec.newLevel()
		s.decisionCount++
		s.dec.enqueue(lit{solvable: pick}, nil)
		s.logger.Debugf("decision %d at level %d: install %s",
			s.decisionCount, s.dec.level(), s.pool.DisplaySolvable(pick))
		return true
	}
	return false
}

// resolveConflict learns a clause from the conflict and backjumps, or
// returns the Problem when the conflict is rooted at level 0.
func (s *Solver) resolveConflict(confl *clause) *Problem {
	s.conflictCount++
	maxLevel := confl.maxLevel(s.dec)
	if maxLevel == 0 {
		return s.newProblem(confl)
	}
	// clauses added mid-search can be false without touching the current
	// level; analysis needs the conflict to sit at the top of the trail
	if maxLevel < s.dec.level() {
		s.dec.backtrack(maxLevel)
	}

	learnt, btLevel := s.analyze(confl)
	s.dec.backtrack(btLevel)
	s.learn(learnt)
	return nil
}

// learn records a learnt clause; by construction it is unit at the level we
// just backjumped to, so its asserting literal propagates immediately.
func (s *Solver) learn(lits []lit) {
	c := &clause{kind: clauseLearnt, lits: lits}
	s.learntCount++
	s.logger.Debugf("learnt clause %s", c)
	s.addClause(c)
}

// analyze walks the trail backward from the conflicting clause, resolving
// against each literal's implying clause until exactly one literal of the
// current decision level remains (first UIP). It returns the learnt clause,
// asserting literal first, and the backjump level: the second-highest
// decision level among the learnt literals.
func (s *Solver) analyze(confl *clause) ([]lit, int) {
	seen := map[pool.SolvableID]bool{}
	learnt := []lit{{}}
	counter := 0
	btLevel := 0

	var p lit
	haveP := false
	for {
		for _, q := range confl.reasonLits(p, haveP) {
			if seen[q.solvable] {
				continue
			}
			seen[q.solvable] = true
			switch level := s.dec.levels[q.solvable]; {
			case level == s.dec.level():
				counter++
			case level > 0:
				learnt = append(learnt, q.negate())
				if level > btLevel {
					btLevel = level
				}
			}
		}
		for {
			p = s.dec.trail[len(s.dec.trail)-1]
			confl = s.dec.reasons[p.solvable]
			s.dec.undoOne()
			if seen[p.solvable] {
				break
			}
		}
		haveP = true
		counter--
		if counter == 0 {
			break
		}
	}
	learnt[0] = p.negate()
	return learnt, btLevel
}

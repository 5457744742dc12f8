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

import "github.com/packsolve/packsolve/pkg/pool"

// solveCache memoizes provider lookups for one Solve call. It is an
// explicit side table scoped to the call, never shared across solves, so
// provider determinism within a solve is all the solver depends on.
type solveCache struct {
	pool     *pool.Pool
	provider CandidateProvider

	// job-derived decision hints, by name
	favored map[pool.NameID]pool.SolvableID
	locked  map[pool.NameID]pool.SolvableID

	candidates    map[pool.NameID]*Candidates
	sorted        map[pool.NameID][]pool.SolvableID
	deps          map[pool.SolvableID]Dependencies
	haveDeps      map[pool.SolvableID]bool
	matching      map[pool.VersionSetID][]pool.SolvableID
	haveMatching  map[pool.VersionSetID]bool
	violating     map[pool.VersionSetID][]pool.SolvableID
	haveViolating map[pool.VersionSetID]bool
}

func newSolveCache(p *pool.Pool, provider CandidateProvider) *solveCache {
	return &solveCache{
		pool:          p,
		provider:      provider,
		favored:       map[pool.NameID]pool.SolvableID{},
		locked:        map[pool.NameID]pool.SolvableID{},
		candidates:    map[pool.NameID]*Candidates{},
		sorted:        map[pool.NameID][]pool.SolvableID{},
		deps:          map[pool.SolvableID]Dependencies{},
		haveDeps:      map[pool.SolvableID]bool{},
		matching:      map[pool.VersionSetID][]pool.SolvableID{},
		haveMatching:  map[pool.VersionSetID]bool{},
		violating:     map[pool.VersionSetID][]pool.SolvableID{},
		haveViolating: map[pool.VersionSetID]bool{},
	}
}

// getCandidates calls the provider at most once per name.
func (c *solveCache) getCandidates(name pool.NameID) *Candidates {
	if cands, ok := c.candidates[name]; ok {
		return cands
	}
	cands := c.provider.GetCandidates(name)
	c.candidates[name] = cands
	return cands
}

// getDependencies calls the provider at most once per solvable. The root's
// requirements come from the pool, not the provider.
func (c *solveCache) getDependencies(id pool.SolvableID) Dependencies {
	if c.haveDeps[id] {
		return c.deps[id]
	}
	var deps Dependencies
	if s := c.pool.ResolveSolvable(id); s.IsRoot() {
		deps = Dependencies{Requirements: s.Requirements()}
	} else {
		deps = c.provider.GetDependencies(id)
	}
	c.deps[id] = deps
	c.haveDeps[id] = true
	return deps
}

// favoredFor returns the favored candidate of a name: job hints win over the
// provider's.
func (c *solveCache) favoredFor(name pool.NameID) pool.SolvableID {
	if id, ok := c.favored[name]; ok {
		return id
	}
	if cands := c.getCandidates(name); cands != nil {
		return cands.Favored
	}
	return NoSolvable
}

// lockedFor returns the locked candidate of a name, if any.
func (c *solveCache) lockedFor(name pool.NameID) pool.SolvableID {
	if id, ok := c.locked[name]; ok {
		return id
	}
	if cands := c.getCandidates(name); cands != nil {
		return cands.Locked
	}
	return NoSolvable
}

// sortedCandidates returns the name's candidates in decision order: the
// provider's preference order with the favored candidate moved to the front.
func (c *solveCache) sortedCandidates(name pool.NameID) []pool.SolvableID {
	if ids, ok := c.sorted[name]; ok {
		return ids
	}
	cands := c.getCandidates(name)
	if cands == nil {
		c.sorted[name] = nil
		return nil
	}
	ids := append([]pool.SolvableID(nil), cands.Candidates...)
	c.provider.SortCandidates(c.pool, ids, c.getCandidates)
	if favored := c.favoredFor(name); favored != NoSolvable {
		for i, id := range ids {
			if id == favored {
				copy(ids[1:i+1], ids[:i])
				ids[0] = favored
				break
			}
		}
	}
	c.sorted[name] = ids
	return ids
}

// matchingCandidates returns, in decision order, the candidates admitted by
// a version set. known is false when the set's name is entirely unknown.
func (c *solveCache) matchingCandidates(set pool.VersionSetID) (ids []pool.SolvableID, known bool) {
	name, vs := c.pool.ResolveVersionSet(set)
	if c.getCandidates(name) == nil {
		return nil, false
	}
	if c.haveMatching[set] {
		return c.matching[set], true
	}
	for _, id := range c.sortedCandidates(name) {
		if vs.Matches(c.pool.ResolveSolvable(id).Record()) {
			ids = append(ids, id)
		}
	}
	c.matching[set] = ids
	c.haveMatching[set] = true
	return ids, true
}

// violatingCandidates returns the candidates of a set's name that the set
// excludes; these are the targets of constrain implications.
func (c *solveCache) violatingCandidates(set pool.VersionSetID) []pool.SolvableID {
	if c.haveViolating[set] {
		return c.violating[set]
	}
	name, vs := c.pool.ResolveVersionSet(set)
	var ids []pool.SolvableID
	if cands := c.getCandidates(name); cands != nil {
		for _, id := range cands.Candidates {
			if !vs.Matches(c.pool.ResolveSolvable(id).Record()) {
				ids = append(ids, id)
			}
		}
	}
	c.violating[set] = ids
	c.haveViolating[set] = true
	return ids
}

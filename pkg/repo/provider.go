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

/*
Package repo provides an in-memory candidate provider over repodata records.

A Provider is populated from records (AddRecord for strict loading,
AddRecordLenient when a repodata snapshot may carry malformed entries),
optionally marked up with favored and locked candidates, and then handed to
the solver as its CandidateProvider.
*/
package repo

import (
	"github.com/Masterminds/log-go"
	"github.com/pkg/errors"

	"github.com/packsolve/packsolve/pkg/pool"
	"github.com/packsolve/packsolve/pkg/rank"
	"github.com/packsolve/packsolve/pkg/record"
	"github.com/packsolve/packsolve/pkg/solver"
)

// Provider is an in-memory CandidateProvider backed by the pool. It is
// populated up front; the solver only reads from it.
type Provider struct {
	pool   *pool.Pool
	logger log.Logger

	candidates map[pool.NameID][]pool.SolvableID
	favored    map[pool.NameID]pool.SolvableID
	locked     map[pool.NameID]pool.SolvableID

	diags []string
}

// NewProvider returns an empty provider over p.
func NewProvider(p *pool.Pool, logger log.Logger) *Provider {
	if logger == nil {
		logger = log.Current
	}
	return &Provider{
		pool:       p,
		logger:     logger,
		candidates: map[pool.NameID][]pool.SolvableID{},
		favored:    map[pool.NameID]pool.SolvableID{},
		locked:     map[pool.NameID]pool.SolvableID{},
	}
}

// AddRecord interns the record into the pool, parses its dependency and
// constrain specs, and registers the solvable as a candidate of its name.
// Any malformed spec fails the whole record.
func (pr *Provider) AddRecord(rec *record.Record) (pool.SolvableID, error) {
	requirements := make([]pool.VersionSetID, 0, len(rec.Depends))
	for _, dep := range rec.Depends {
		set, err := pr.InternSpec(dep)
		if err != nil {
			return solver.NoSolvable, errors.Wrapf(err, "repo: record %s", rec)
		}
		requirements = append(requirements, set)
	}
	constrains := make([]pool.VersionSetID, 0, len(rec.Constrains))
	for _, con := range rec.Constrains {
		set, err := pr.InternSpec(con)
		if err != nil {
			return solver.NoSolvable, errors.Wrapf(err, "repo: record %s", rec)
		}
		constrains = append(constrains, set)
	}

	name := pr.pool.InternPackageName(rec.Name)
	id := pr.pool.AddPackage(name, rec)
	for _, set := range requirements {
		pr.pool.AddDependency(id, set)
	}
	for _, set := range constrains {
		pr.pool.AddConstrains(id, set)
	}
	pr.candidates[name] = append(pr.candidates[name], id)
	return id, nil
}

// AddRecordLenient is AddRecord for untrusted repodata: a malformed record
// is skipped and remembered as a diagnostic instead of failing the load.
func (pr *Provider) AddRecordLenient(rec *record.Record) (pool.SolvableID, bool) {
	id, err := pr.AddRecord(rec)
	if err != nil {
		pr.logger.Warnf("skipping record %s: %s", rec, err)
		pr.diags = append(pr.diags, err.Error())
		return solver.NoSolvable, false
	}
	return id, true
}

// AddVirtual registers a virtual package describing the running system,
// e.g. "__glibc". Virtual packages are candidates like any other but never
// appear in transactions.
func (pr *Provider) AddVirtual(rec *record.Record) pool.SolvableID {
	name := pr.pool.InternPackageName(rec.Name)
	id := pr.pool.AddVirtualPackage(name, rec)
	pr.candidates[name] = append(pr.candidates[name], id)
	return id
}

// RegisterName marks a name as known even when no record of it was loaded,
// so the solver reports "no candidate matches" rather than "no such
// package".
func (pr *Provider) RegisterName(name string) pool.NameID {
	id := pr.pool.InternPackageName(name)
	if _, ok := pr.candidates[id]; !ok {
		pr.candidates[id] = []pool.SolvableID{}
	}
	return id
}

// SetFavored marks id as the candidate to try first for its name.
func (pr *Provider) SetFavored(id pool.SolvableID) {
	pr.favored[pr.pool.ResolveSolvable(id).Name()] = id
}

// SetLocked pins its name to id: no other candidate is acceptable.
func (pr *Provider) SetLocked(id pool.SolvableID) {
	pr.locked[pr.pool.ResolveSolvable(id).Name()] = id
}

// InternSpec parses a match spec and interns it as a version set.
func (pr *Provider) InternSpec(spec string) (pool.VersionSetID, error) {
	ms, err := record.ParseMatchSpec(spec)
	if err != nil {
		return 0, err
	}
	return pr.pool.InternVersionSet(pr.pool.InternPackageName(ms.Name), ms), nil
}

// Diagnostics returns the per-record errors collected by lenient loading.
func (pr *Provider) Diagnostics() []string {
	return pr.diags
}

// GetCandidates implements solver.CandidateProvider.
func (pr *Provider) GetCandidates(name pool.NameID) *solver.Candidates {
	ids, ok := pr.candidates[name]
	if !ok {
		return nil
	}
	cands := &solver.Candidates{
		Candidates: append([]pool.SolvableID(nil), ids...),
		Favored:    solver.NoSolvable,
		Locked:     solver.NoSolvable,
	}
	if id, ok := pr.favored[name]; ok {
		cands.Favored = id
	}
	if id, ok := pr.locked[name]; ok {
		cands.Locked = id
	}
	return cands
}

// GetDependencies implements solver.CandidateProvider. The dependency sets
// were interned at load time, so this is a pool read and cannot fail.
func (pr *Provider) GetDependencies(id pool.SolvableID) solver.Dependencies {
	s := pr.pool.ResolveSolvable(id)
	return solver.Dependencies{
		Requirements: s.Requirements(),
		Constrains:   s.Constrains(),
	}
}

// SortCandidates implements solver.CandidateProvider with the default
// ranking policy, feeding the step-4 tie-break from the solve's memoized
// candidate lookups.
func (pr *Provider) SortCandidates(p *pool.Pool, ids []pool.SolvableID, lookup func(pool.NameID) *solver.Candidates) {
	byName := func(name string) []*record.Record {
		nameID, ok := p.LookupPackageName(name)
		if !ok {
			return nil
		}
		cands := lookup(nameID)
		if cands == nil {
			return nil
		}
		records := make([]*record.Record, 0, len(cands.Candidates))
		for _, id := range cands.Candidates {
			if r, ok := p.ResolveSolvable(id).Record().(*record.Record); ok {
				records = append(records, r)
			}
		}
		return records
	}
	rank.Sort(p, ids, byName)
}

var _ solver.CandidateProvider = (*Provider)(nil)

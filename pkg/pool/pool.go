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
Package pool implements the arena that interns package names, package
solvables and version-constraint sets, handing out small dense ids.

Interning is a total function from key to id: the same name, or the same
(name, constraint) pair, always yields the same id within one pool. Ids are
never freed; any id issued stays valid and resolvable for the pool's whole
lifetime. Solvables are the exception to deduplication: every AddPackage
call allocates a fresh slot, and callers that want to prefer one archive
variant over another reuse an existing slot through ResetPackage.

Resolving an id that this pool did not issue is a programmer error and
panics.
*/
package pool

import (
	"fmt"
	"sync"
)

type versionSetEntry struct {
	name NameID
	set  VersionSet
}

type versionSetKey struct {
	name NameID
	repr string
}

// Pool is the interning arena. It may be shared read-only across solves;
// interning itself is guarded so concurrent population is also safe.
type Pool struct {
	mu sync.RWMutex

	names   []string
	nameIDs map[string]NameID

	solvables []*Solvable

	sets   []versionSetEntry
	setIDs map[versionSetKey]VersionSetID
}

// New returns an empty pool with the synthetic root solvable at id 0.
func New() *Pool {
	p := &Pool{
		nameIDs: map[string]NameID{},
		setIDs:  map[versionSetKey]VersionSetID{},
	}
	p.solvables = append(p.solvables, &Solvable{root: true, name: -1})
	return p
}

// InternPackageName interns name, returning the same id for equal names.
func (p *Pool) InternPackageName(name string) NameID {
	p.mu.Lock()
	defer p.mu.Unlock()

	if id, ok := p.nameIDs[name]; ok {
		return id
	}
	id := NameID(len(p.names))
	p.names = append(p.names, name)
	p.nameIDs[name] = id
	return id
}

// LookupPackageName returns the id of an already-interned name.
func (p *Pool) LookupPackageName(name string) (NameID, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	id, ok := p.nameIDs[name]
	return id, ok
}

// ResolvePackageName returns the name behind id, panicking on a foreign id.
func (p *Pool) ResolvePackageName(id NameID) string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if id < 0 || int(id) >= len(p.names) {
		panic(fmt.Sprintf("pool: name id %d was not issued by this pool", id))
	}
	return p.names[id]
}

// AddPackage appends a new package solvable for name. Every call allocates;
// deduplication of archive variants is the caller's job via ResetPackage.
func (p *Pool) AddPackage(name NameID, record PackageRecord) SolvableID {
	return p.addSolvable(name, record, false)
}

// AddVirtualPackage appends a solvable for a virtual (synthetic) package,
// e.g. a "__glibc" marker supplied by the running system.
func (p *Pool) AddVirtualPackage(name NameID, record PackageRecord) SolvableID {
	return p.addSolvable(name, record, true)
}

func (p *Pool) addSolvable(name NameID, record PackageRecord, virtual bool) SolvableID {
	p.mu.Lock()
	defer p.mu.Unlock()

	if name < 0 || int(name) >= len(p.names) {
		panic(fmt.Sprintf("pool: name id %d was not issued by this pool", name))
	}
	id := SolvableID(len(p.solvables))
	p.solvables = append(p.solvables, &Solvable{
		name:    name,
		record:  record,
		virtual: virtual,
	})
	return id
}

// ResetPackage reuses an existing solvable slot for a different record,
// keeping the id stable. Used when deduplicating archive variants of the
// same name+version+build (e.g. preferring .conda over .tar.bz2).
func (p *Pool) ResetPackage(id SolvableID, name NameID, record PackageRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.solvable(id)
	if s.root {
		panic("pool: cannot reset the root solvable")
	}
	s.name = name
	s.record = record
	s.requirements = nil
	s.constrains = nil
}

// AddDependency attaches a requirement version set to a package solvable.
func (p *Pool) AddDependency(id SolvableID, set VersionSetID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.solvable(id)
	if s.root {
		panic("pool: use SetRootRequirements for the root solvable")
	}
	s.requirements = append(s.requirements, set)
}

// AddConstrains attaches a constrain version set to a package solvable.
func (p *Pool) AddConstrains(id SolvableID, set VersionSetID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.solvable(id)
	if s.root {
		panic("pool: the root solvable carries no constrains")
	}
	s.constrains = append(s.constrains, set)
}

// SetRootRequirements replaces the top-level requirements held by the root
// solvable. The solver calls this when translating a job set.
func (p *Pool) SetRootRequirements(sets []VersionSetID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	root := p.solvables[RootSolvable]
	root.requirements = append([]VersionSetID(nil), sets...)
}

// ResolveSolvable returns the solvable behind id, panicking on a foreign id.
func (p *Pool) ResolveSolvable(id SolvableID) *Solvable {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.solvable(id)
}

func (p *Pool) solvable(id SolvableID) *Solvable {
	if id < 0 || int(id) >= len(p.solvables) {
		panic(fmt.Sprintf("pool: solvable id %d was not issued by this pool", id))
	}
	return p.solvables[id]
}

// NumSolvables returns the number of solvables in the pool, root included.
func (p *Pool) NumSolvables() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.solvables)
}

// InternVersionSet interns a (name, set) pair, deduplicating by the set's
// display form.
func (p *Pool) InternVersionSet(name NameID, set VersionSet) VersionSetID {
	p.mu.Lock()
	defer p.mu.Unlock()

	if name < 0 || int(name) >= len(p.names) {
		panic(fmt.Sprintf("pool: name id %d was not issued by this pool", name))
	}
	key := versionSetKey{name: name, repr: set.String()}
	if id, ok := p.setIDs[key]; ok {
		return id
	}
	id := VersionSetID(len(p.sets))
	p.sets = append(p.sets, versionSetEntry{name: name, set: set})
	p.setIDs[key] = id
	return id
}

// ResolveVersionSet returns the name id and set behind id, panicking on a
// foreign id.
func (p *Pool) ResolveVersionSet(id VersionSetID) (NameID, VersionSet) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if id < 0 || int(id) >= len(p.sets) {
		panic(fmt.Sprintf("pool: version set id %d was not issued by this pool", id))
	}
	entry := p.sets[id]
	return entry.name, entry.set
}

// DisplayVersionSet renders a version set together with its package name,
// e.g. "numpy >=1.2,<2".
func (p *Pool) DisplayVersionSet(id VersionSetID) string {
	name, set := p.ResolveVersionSet(id)
	repr := set.String()
	if repr == "" {
		return p.ResolvePackageName(name)
	}
	return fmt.Sprintf("%s %s", p.ResolvePackageName(name), repr)
}

// DisplaySolvable renders a solvable for messages.
func (p *Pool) DisplaySolvable(id SolvableID) string {
	return p.ResolveSolvable(id).String()
}

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
Package transaction converts a solver's final assignment plus the
previously-installed set into the ordered list of operations an installer
must apply: installs, removals, forced reinstalls, and remove+install pairs
for packages changing version or build.

The package only decides what to do; applying operations to a filesystem
prefix belongs to an external installer.
*/
package transaction

import (
	"fmt"
	"sort"
	"strings"

	"github.com/packsolve/packsolve/pkg/pool"
)

// OperationKind enumerates what an installer can do with one solvable.
type OperationKind int

const (
	// Install puts a solvable into the prefix.
	Install OperationKind = iota
	// Remove takes a solvable out of the prefix.
	Remove
	// Reinstall re-links the same exact record, forced by a job.
	Reinstall
)

func (k OperationKind) String() string {
	switch k {
	case Install:
		return "Install"
	case Remove:
		return "Remove"
	case Reinstall:
		return "Reinstall"
	}
	return fmt.Sprintf("Unknown(%d)", int(k))
}

// known reports whether the kind is one the derivation logic recognizes.
func (k OperationKind) known() bool {
	switch k {
	case Install, Remove, Reinstall:
		return true
	}
	return false
}

// Operation is one step of a transaction.
type Operation struct {
	Kind     OperationKind
	Solvable pool.SolvableID
	Record   pool.PackageRecord
}

// Transaction is the ordered diff between the previously-installed state and
// the solved state. For a package changing version, the Remove of the old
// record precedes the Install of the new one, so the installer never has two
// operations claiming the same files at once.
type Transaction struct {
	Operations []Operation
	// Unchanged lists records present before and after with no work to do.
	Unchanged []pool.PackageRecord
}

// IsEmpty reports whether the transaction requires no work.
func (t *Transaction) IsEmpty() bool {
	return len(t.Operations) == 0
}

// UnsupportedOperationsError reports operation kinds the derivation logic
// does not recognize. Unknown kinds are collected, never silently dropped.
type UnsupportedOperationsError struct {
	Kinds []OperationKind
}

func (e *UnsupportedOperationsError) Error() string {
	strs := make([]string, len(e.Kinds))
	for i, k := range e.Kinds {
		strs[i] = k.String()
	}
	return "transaction: unsupported operation kinds: " + strings.Join(strs, ", ")
}

// Derive diffs the solver's solution against the previously-installed set.
// Virtual solvables describe the running system and never produce
// operations. Output order is by package name, deterministic for a given
// pool and inputs.
func Derive(p *pool.Pool, solution, installed, reinstall []pool.SolvableID) *Transaction {
	nameOf := func(id pool.SolvableID) pool.NameID {
		return p.ResolveSolvable(id).Name()
	}

	installedByName := map[pool.NameID]pool.SolvableID{}
	for _, id := range installed {
		installedByName[nameOf(id)] = id
	}
	solutionByName := map[pool.NameID]pool.SolvableID{}
	for _, id := range solution {
		s := p.ResolveSolvable(id)
		if s.IsRoot() || s.IsVirtual() {
			continue
		}
		solutionByName[s.Name()] = id
	}
	forced := map[pool.SolvableID]bool{}
	for _, id := range reinstall {
		forced[id] = true
	}

	names := make([]pool.NameID, 0, len(installedByName)+len(solutionByName))
	seen := map[pool.NameID]bool{}
	for name := range installedByName {
		seen[name] = true
		names = append(names, name)
	}
	for name := range solutionByName {
		if !seen[name] {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return p.ResolvePackageName(names[i]) < p.ResolvePackageName(names[j])
	})

	t := &Transaction{}
	for _, name := range names {
		before, wasInstalled := installedByName[name]
		after, isWanted := solutionByName[name]
		switch {
		case wasInstalled && isWanted && before == after:
			if forced[before] {
				t.append(Reinstall, p, before)
			} else {
				t.Unchanged = append(t.Unchanged, p.ResolveSolvable(before).Record())
			}
		case wasInstalled && isWanted:
			// changed record: remove the old before installing the new
			t.append(Remove, p, before)
			t.append(Install, p, after)
		case wasInstalled:
			t.append(Remove, p, before)
		default:
			t.append(Install, p, after)
		}
	}
	return t
}

func (t *Transaction) append(kind OperationKind, p *pool.Pool, id pool.SolvableID) {
	t.Operations = append(t.Operations, Operation{
		Kind:     kind,
		Solvable: id,
		Record:   p.ResolveSolvable(id).Record(),
	})
}

// FromOperations builds a transaction from operations produced by a
// lower-level backend, returning an UnsupportedOperationsError listing every
// unrecognized kind.
func FromOperations(ops []Operation) (*Transaction, error) {
	var unknown []OperationKind
	seen := map[OperationKind]bool{}
	for _, op := range ops {
		if !op.Kind.known() && !seen[op.Kind] {
			seen[op.Kind] = true
			unknown = append(unknown, op.Kind)
		}
	}
	if len(unknown) > 0 {
		return nil, &UnsupportedOperationsError{Kinds: unknown}
	}
	return &Transaction{Operations: ops}, nil
}

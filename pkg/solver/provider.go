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

// NoSolvable marks an absent favored/locked candidate. Solvable id 0 is the
// synthetic root, which is never a candidate, so it doubles as the zero
// value here.
const NoSolvable = pool.RootSolvable

// Candidates is the per-name result of candidate discovery.
type Candidates struct {
	// Candidates lists every solvable of the name, in the provider's
	// storage order. The solver sorts a copy through SortCandidates.
	Candidates []pool.SolvableID
	// Favored, when set, is tried before its name-siblings but does not
	// exclude them.
	Favored pool.SolvableID
	// Locked, when set, is the only acceptable choice for the name.
	// Failing to pick it is a distinguished conflict, not a generic
	// "no candidates" error.
	Locked pool.SolvableID
}

// Dependencies is the per-solvable result of dependency discovery.
type Dependencies struct {
	// Requirements must each be satisfied by some installed solvable.
	Requirements []pool.VersionSetID
	// Constrains restrict the named package only if it ends up installed
	// for some other reason.
	Constrains []pool.VersionSetID
}

// CandidateProvider is the capability interface the solver calls to discover
// the package universe. Implementations must be deterministic within one
// solve; the solver calls GetCandidates and GetDependencies at most once per
// id per solve and caches the results.
type CandidateProvider interface {
	// GetCandidates returns the candidates of a name, or nil when the name
	// is entirely unknown. A non-nil result with an empty candidate list
	// means the name is known but nothing currently matches; the two cases
	// produce different conflict messages.
	GetCandidates(name pool.NameID) *Candidates

	// GetDependencies returns the requirements and constrains of a package
	// solvable. Lookups that fail internally must degrade to empty
	// dependencies plus an out-of-band diagnostic, never abort the solve.
	GetDependencies(id pool.SolvableID) Dependencies

	// SortCandidates reorders ids in place, most-preferred first. lookup
	// exposes the solve's memoized Candidates for other names, so
	// implementations can rank by dependency versions without re-querying
	// themselves.
	SortCandidates(p *pool.Pool, ids []pool.SolvableID, lookup func(pool.NameID) *Candidates)
}

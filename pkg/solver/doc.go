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
Package solver resolves a set of requested package specifications against a
universe of candidates into a consistent, installable set.

The caller populates a pool (interning names, records and version sets),
implements or reuses a CandidateProvider over it, and builds a job set of
install/favor/lock requests. Solve then runs a conflict-driven
clause-learning search:

 1. Jobs become root-level clauses and decision hints.

 2. Unit propagation satisfies clauses with a single unassigned literal
    until fixpoint; a fully-false clause is a conflict.

 3. Whenever a solvable is assigned true, its dependencies are expanded:
    one clause per requirement forcing a matching candidate, an implication
    per constrain forbidding excluded candidates, and pairwise packing
    clauses keeping candidates of one name mutually exclusive.

 4. When nothing propagates, the next unsatisfied requirement's
    most-preferred untried candidate is assigned true as a new decision
    level. Preference order comes from the provider's SortCandidates, with
    favored candidates moved to the front and locks reducing the choice to
    a single candidate.

 5. Conflicts are analyzed back to the first unique implication point,
    yielding a learnt clause and a backjump level; search resumes with the
    learnt clause asserting.

 6. A conflict rooted at decision level 0 is final: Solve returns a Problem
    listing the implicated requirements, locks and incompatibilities.

On success the assignment is diffed against the previously-installed set
into an ordered transaction of install/remove/reinstall operations.

Provider lookups are memoized per solve in an explicit side table, so
repeated lookups are free and nothing leaks between solves. Given an
identical pool and job set, repeated solves produce identical transactions.
*/
package solver

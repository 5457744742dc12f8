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

// Jobs is the set of root requests driving a solve. Jobs are translated
// into root-level clauses and decision-order hints before the main loop
// starts; they are not re-interpreted mid-solve.
type Jobs struct {
	install   []pool.VersionSetID
	favor     []pool.SolvableID
	lock      []pool.SolvableID
	installed []pool.SolvableID
	reinstall []pool.SolvableID
}

// NewJobs returns an empty job set.
func NewJobs() *Jobs {
	return &Jobs{}
}

// Install adds a hard top-level requirement; it becomes a requirement edge
// from the synthetic root solvable.
func (j *Jobs) Install(set pool.VersionSetID) {
	j.install = append(j.install, set)
}

// Favor biases the decision order so id is tried before its name-sibling
// candidates. It does not force selection.
func (j *Jobs) Favor(id pool.SolvableID) {
	j.favor = append(j.favor, id)
}

// Lock removes every other candidate of id's name from consideration.
func (j *Jobs) Lock(id pool.SolvableID) {
	j.lock = append(j.lock, id)
}

// Installed marks id as previously installed. Installed solvables are
// favored during decisions and form the "before" side of the derived
// transaction.
func (j *Jobs) Installed(id pool.SolvableID) {
	j.installed = append(j.installed, id)
	j.favor = append(j.favor, id)
}

// Reinstall marks a previously-installed solvable for a forced reinstall of
// the same exact record.
func (j *Jobs) Reinstall(id pool.SolvableID) {
	j.installed = append(j.installed, id)
	j.favor = append(j.favor, id)
	j.reinstall = append(j.reinstall, id)
}

// InstallRequests returns the top-level requirement sets.
func (j *Jobs) InstallRequests() []pool.VersionSetID {
	return j.install
}

// InstalledSet returns the previously-installed solvables.
func (j *Jobs) InstalledSet() []pool.SolvableID {
	return j.installed
}

// ReinstallSet returns the solvables marked for forced reinstall.
func (j *Jobs) ReinstallSet() []pool.SolvableID {
	return j.reinstall
}

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

package pool

// NameID is a dense handle to an interned package name.
type NameID int

// SolvableID is a dense handle to a solvable. ID 0 is reserved for the
// synthetic root solvable that carries the top-level requirements of a solve.
type SolvableID int

// VersionSetID is a dense handle to an interned (name, version set) pair.
type VersionSetID int

// RootSolvable is the id of the synthetic root solvable.
const RootSolvable = SolvableID(0)

// Solvable is an entry in the pool: either the synthetic root or a package
// candidate. Package solvables hold the owning name, the caller's record,
// and the interned requirement/constrain sets attached to them.
type Solvable struct {
	root         bool
	virtual      bool
	name         NameID
	record       PackageRecord
	requirements []VersionSetID
	constrains   []VersionSetID
}

// IsRoot reports whether the solvable is the synthetic root.
func (s *Solvable) IsRoot() bool {
	return s.root
}

// IsVirtual reports whether the solvable was added as a virtual package.
func (s *Solvable) IsVirtual() bool {
	return s.virtual
}

// Name returns the owning name id. Only valid for package solvables.
func (s *Solvable) Name() NameID {
	return s.name
}

// Record returns the caller's package record, nil for the root.
func (s *Solvable) Record() PackageRecord {
	return s.record
}

// Requirements returns the version sets that must all be satisfied when the
// solvable is installed. For the root these are the job-derived requirements.
func (s *Solvable) Requirements() []VersionSetID {
	return s.requirements
}

// Constrains returns the version sets that restrict other packages only if
// those end up installed for some other reason.
func (s *Solvable) Constrains() []VersionSetID {
	return s.constrains
}

// String returns the display form of the solvable.
func (s *Solvable) String() string {
	if s.root {
		return "<root>"
	}
	return s.record.String()
}

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

// PackageRecord is the caller's immutable package metadata attached to a
// package solvable. The pool never inspects it beyond display; matching
// against version sets happens through VersionSet.Matches.
type PackageRecord interface {
	// String returns a display form of the record, unique enough to tell
	// candidates of the same name apart (e.g. "numpy-1.2.0-py39_0").
	String() string
}

// Version is a package version with a total order.
type Version interface {
	// Compare returns -1, 0 or 1 when the receiver sorts lower, equal or
	// higher than other.
	Compare(other Version) int
	String() string
}

// VersionSet is a constraint expression able to test membership of a
// record's version (e.g. ">=1.2,<2").
type VersionSet interface {
	// Matches reports whether rec is a member of the set.
	Matches(rec PackageRecord) bool
	String() string
}

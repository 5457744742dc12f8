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
Package record provides the default package-record and match-spec types used
with the interning pool: a conda-style record (name, version, build string
and number, timestamp, tracked features, dependency and constrain specs) and
a match spec that tests records against a version range.

Both types implement the pool's capability interfaces, so callers with their
own metadata formats can swap in their own implementations.
*/
package record

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/packsolve/packsolve/pkg/pool"
	"github.com/pkg/errors"
)

// Record is one package candidate as found in repodata. Each record is
// unique: the same name at a different version or build is a different
// record.
type Record struct {
	Name          string
	Version       string
	Build         string
	BuildNumber   int
	Timestamp     int64 // milliseconds since the epoch
	TrackFeatures []string
	Depends       []string // match specs, e.g. "python >=3.8"
	Constrains    []string // match specs that bite only if the target is installed
	Channel       string
	Size          int64 // archive size in bytes

	version Version
}

// New returns a record with its version parsed. A malformed version is an
// input error, surfaced here and never inside the solver.
func New(name, version, build string) (*Record, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return nil, errors.Wrapf(err, "record: package %q", name)
	}
	return &Record{
		Name:    name,
		Version: version,
		Build:   build,
		version: v,
	}, nil
}

// NewMock builds a record from a name, version and dependency specs,
// panicking on malformed input.
// Useful for testing.
func NewMock(name, version string, depends ...string) *Record {
	r, err := New(name, version, "")
	if err != nil {
		panic(err)
	}
	r.Depends = depends
	return r
}

// Ver returns the parsed version. Records built as bare literals parse
// lazily; a malformed version then panics, since it bypassed New.
func (r *Record) Ver() Version {
	if r.version.v == nil {
		r.version = Version{v: semver.MustParse(r.Version)}
	}
	return r.version
}

// HasTrackFeatures reports whether the record carries tracked features.
// Tracked features exist only to be down-weighted during ranking.
func (r *Record) HasTrackFeatures() bool {
	return len(r.TrackFeatures) > 0
}

// String returns the record's fingerprint, e.g. "numpy-1.2.0-py39_0".
func (r *Record) String() string {
	if r.Build == "" {
		return fmt.Sprintf("%s-%s", r.Name, r.Version)
	}
	return fmt.Sprintf("%s-%s-%s", r.Name, r.Version, r.Build)
}

// Version is a total-ordered package version backed by semver.
type Version struct {
	v *semver.Version
}

// ParseVersion parses a version string.
func ParseVersion(s string) (Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, errors.Wrapf(err, "record: invalid version %q", s)
	}
	return Version{v: v}, nil
}

// MustVersion parses a version string and panics on failure.
// Useful for testing.
func MustVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare implements pool.Version. Comparing against a foreign version
// implementation is a programmer error.
func (v Version) Compare(other pool.Version) int {
	o, ok := other.(Version)
	if !ok {
		panic(fmt.Sprintf("record: cannot compare against version type %T", other))
	}
	return v.v.Compare(o.v)
}

func (v Version) String() string {
	return v.v.String()
}

var _ pool.PackageRecord = (*Record)(nil)
var _ pool.Version = Version{}

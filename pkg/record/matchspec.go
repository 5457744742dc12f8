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

package record

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/packsolve/packsolve/pkg/pool"
	"github.com/pkg/errors"
)

// MatchSpec selects records of one package by version range and, optionally,
// by exact build string. It implements pool.VersionSet.
//
// Accepted forms: "numpy", "numpy=1.2.0", "numpy >=1.2,<2",
// "numpy >=1.2,<2 py39_0".
type MatchSpec struct {
	Name  string
	Range string // empty means any version
	Build string // empty means any build

	constraints *semver.Constraints
}

// ParseMatchSpec parses a match spec string. Malformed specs fail here, at
// parse time, before any of them reach the solver.
func ParseMatchSpec(spec string) (*MatchSpec, error) {
	s := strings.TrimSpace(spec)
	if s == "" {
		return nil, errors.New("record: empty match spec")
	}

	name := s
	rest := ""
	if i := strings.IndexAny(s, " =<>!~^"); i >= 0 {
		name = s[:i]
		rest = strings.TrimSpace(s[i:])
	}
	if name == "" {
		return nil, errors.Errorf("record: match spec %q has no package name", spec)
	}

	ms := &MatchSpec{Name: name}
	if rest == "" {
		return ms, nil
	}

	// a range may contain ", " separators; collapse them so an optional
	// trailing build string stays the only whitespace-separated extra field
	fields := strings.Fields(strings.ReplaceAll(rest, ", ", ","))
	if len(fields) > 2 {
		return nil, errors.Errorf("record: cannot parse match spec %q", spec)
	}
	if len(fields) == 2 {
		ms.Build = fields[1]
	}
	c, err := semver.NewConstraint(fields[0])
	if err != nil {
		return nil, errors.Wrapf(err, "record: invalid version range %q in match spec %q", fields[0], spec)
	}
	ms.Range = fields[0]
	ms.constraints = c

	return ms, nil
}

// MustParseMatchSpec parses a match spec and panics on failure.
// Useful for testing.
func MustParseMatchSpec(spec string) *MatchSpec {
	ms, err := ParseMatchSpec(spec)
	if err != nil {
		panic(err)
	}
	return ms
}

// Matches implements pool.VersionSet for *Record candidates. Records of
// other names, foreign record types, or versions outside the range are not
// members.
func (m *MatchSpec) Matches(rec pool.PackageRecord) bool {
	r, ok := rec.(*Record)
	if !ok {
		return false
	}
	if r.Name != m.Name {
		return false
	}
	if m.Build != "" && m.Build != r.Build {
		return false
	}
	if m.constraints == nil {
		return true
	}
	return m.constraints.Check(r.Ver().v)
}

// String returns the range and build part of the spec, without the name; the
// pool prepends the name when displaying an interned version set.
func (m *MatchSpec) String() string {
	switch {
	case m.Range == "":
		return ""
	case m.Build == "":
		return m.Range
	default:
		return m.Range + " " + m.Build
	}
}

var _ pool.VersionSet = (*MatchSpec)(nil)

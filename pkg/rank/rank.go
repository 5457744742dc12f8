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
Package rank implements the candidate ordering policy used as the solver's
default decision heuristic and usable standalone to pick a "best" record
among duplicates.

Given two candidates of the same name, the chain is:

 1. a candidate without tracked features beats one with tracked features
 2. higher version
 3. higher build number
 4. for dependency names both candidates share (skipping byte-identical
    constraint strings), prefer the side whose constraint admits the higher
    resolved dependency version; tracked features on the resolved side
    weigh much more than the version difference
 5. more recent timestamp

Candidates that tie on all five steps keep their solvable-id order, which
makes the overall ordering total and solves reproducible.
*/
package rank

import (
	"sort"

	"github.com/packsolve/packsolve/pkg/pool"
	"github.com/packsolve/packsolve/pkg/record"
)

// trackedWeight dwarfs the ±1 version scores in the dependency tie-break,
// so a tracked-feature dependency loses even against many version wins.
const trackedWeight = 100

// CandidatesByName supplies all candidate records of a dependency name for
// the step-4 tie-break. Returning nil skips the name.
type CandidatesByName func(name string) []*record.Record

// Sort reorders ids in place, most-preferred candidate first. Solvables
// whose records are not *record.Record keep their id order.
func Sort(p *pool.Pool, ids []pool.SolvableID, byName CandidatesByName) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, aok := p.ResolveSolvable(ids[i]).Record().(*record.Record)
		b, bok := p.ResolveSolvable(ids[j]).Record().(*record.Record)
		if aok && bok {
			if c := Compare(a, b, byName); c != 0 {
				return c < 0
			}
		}
		return ids[i] < ids[j]
	})
}

// Compare returns a negative value when a is preferred over b, positive when
// b is preferred, and zero on a full tie.
func Compare(a, b *record.Record, byName CandidatesByName) int {
	if a.HasTrackFeatures() != b.HasTrackFeatures() {
		if b.HasTrackFeatures() {
			return -1
		}
		return 1
	}

	if c := b.Ver().Compare(a.Ver()); c != 0 {
		return c
	}

	if a.BuildNumber != b.BuildNumber {
		if a.BuildNumber > b.BuildNumber {
			return -1
		}
		return 1
	}

	if byName != nil {
		if score := dependencyScore(a, b, byName); score != 0 {
			if score > 0 {
				return -1
			}
			return 1
		}
	}

	if a.Timestamp != b.Timestamp {
		if a.Timestamp > b.Timestamp {
			return -1
		}
		return 1
	}

	return 0
}

// dependencyScore sums, over every dependency name a and b share, a score
// for which side resolves to the better dependency. Positive favors a.
func dependencyScore(a, b *record.Record, byName CandidatesByName) int {
	aSpecs := specsByName(a)
	bSpecs := specsByName(b)

	names := make([]string, 0, len(aSpecs))
	for name := range aSpecs {
		if _, ok := bSpecs[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	total := 0
	for _, name := range names {
		aSpec := aSpecs[name]
		bSpec := bSpecs[name]
		if aSpec == bSpec {
			// identical constraint strings carry no signal
			continue
		}
		candidates := byName(name)
		if len(candidates) == 0 {
			continue
		}
		aBest, aTracked, ok := highestMatching(candidates, aSpec)
		if !ok {
			continue
		}
		bBest, bTracked, ok := highestMatching(candidates, bSpec)
		if !ok {
			continue
		}
		switch {
		case bTracked && !aTracked:
			total += trackedWeight
		case aTracked && !bTracked:
			total -= trackedWeight
		default:
			if c := aBest.Compare(bBest); c > 0 {
				total++
			} else if c < 0 {
				total--
			}
		}
	}
	return total
}

// specsByName maps each declared dependency name to its raw spec string,
// keeping the first occurrence. Malformed specs are skipped.
func specsByName(r *record.Record) map[string]string {
	specs := make(map[string]string, len(r.Depends))
	for _, dep := range r.Depends {
		ms, err := record.ParseMatchSpec(dep)
		if err != nil {
			continue
		}
		if _, ok := specs[ms.Name]; !ok {
			specs[ms.Name] = dep
		}
	}
	return specs
}

// highestMatching returns the highest candidate version admitted by spec.
// The tracked flag AND-folds over every matching candidate; the
// two-candidate behavior is the one the tests pin down.
func highestMatching(candidates []*record.Record, spec string) (record.Version, bool, bool) {
	ms, err := record.ParseMatchSpec(spec)
	if err != nil {
		return record.Version{}, false, false
	}
	var best *record.Record
	tracked := true
	for _, c := range candidates {
		if !ms.Matches(c) {
			continue
		}
		tracked = tracked && c.HasTrackFeatures()
		if best == nil || c.Ver().Compare(best.Ver()) > 0 {
			best = c
		}
	}
	if best == nil {
		return record.Version{}, false, false
	}
	return best.Ver(), tracked, true
}

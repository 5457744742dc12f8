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

// decisions is the solver's partial truth assignment: per-solvable values,
// decision levels and implying clauses, plus the chronological trail that
// makes backtracking possible. It is created fresh per Solve call.
type decisions struct {
	assigns []tribool
	levels  []int
	reasons []*clause

	// trail lists the literals made true, in assignment order; trailLim
	// holds the trail length at each decision level boundary.
	trail    []lit
	trailLim []int

	// qhead is the index of the first trail entry not yet propagated.
	qhead int
}

func newDecisions(n int) *decisions {
	return &decisions{
		assigns: make([]tribool, n),
		levels:  make([]int, n),
		reasons: make([]*clause, n),
	}
}

// ensure grows the tables when the pool gained solvables mid-solve.
func (d *decisions) ensure(id pool.SolvableID) {
	for int(id) >= len(d.assigns) {
		d.assigns = append(d.assigns, tbUndef)
		d.levels = append(d.levels, 0)
		d.reasons = append(d.reasons, nil)
	}
}

func (d *decisions) value(id pool.SolvableID) tribool {
	d.ensure(id)
	return d.assigns[id]
}

func (d *decisions) litValue(l lit) tribool {
	v := d.value(l.solvable)
	if v == tbUndef || !l.negated {
		return v
	}
	if v == tbTrue {
		return tbFalse
	}
	return tbTrue
}

// level returns the current decision level; 0 is the root level.
func (d *decisions) level() int {
	return len(d.trailLim)
}

// newLevel opens a new decision level.
func (d *decisions) newLevel() {
	d.trailLim = append(d.trailLim, len(d.trail))
}

// enqueue records l as true, with the implying clause (nil for decisions).
// It returns false when l is already false: a conflicting assignment.
func (d *decisions) enqueue(l lit, reason *clause) bool {
	switch d.litValue(l) {
	case tbTrue:
		return true
	case tbFalse:
		return false
	}
	if l.negated {
		d.assigns[l.solvable] = tbFalse
	} else {
		d.assigns[l.solvable] = tbTrue
	}
	d.levels[l.solvable] = d.level()
	d.reasons[l.solvable] = reason
	d.trail = append(d.trail, l)
	return true
}

// undoOne unbinds the most recent trail entry.
func (d *decisions) undoOne() {
	l := d.trail[len(d.trail)-1]
	d.assigns[l.solvable] = tbUndef
	d.levels[l.solvable] = 0
	d.reasons[l.solvable] = nil
	d.trail = d.trail[:len(d.trail)-1]
}

// backtrack undoes every assignment above level and resets the propagation
// cursor to the end of the remaining trail.
func (d *decisions) backtrack(level int) {
	for d.level() > level {
		lim := d.trailLim[len(d.trailLim)-1]
		for len(d.trail) > lim {
			d.undoOne()
		}
		d.trailLim = d.trailLim[:len(d.trailLim)-1]
	}
	d.qhead = len(d.trail)
}

// trueSolvables returns every solvable currently assigned true, in id order.
func (d *decisions) trueSolvables() []pool.SolvableID {
	ids := []pool.SolvableID{}
	for i, v := range d.assigns {
		if v == tbTrue {
			ids = append(ids, pool.SolvableID(i))
		}
	}
	return ids
}

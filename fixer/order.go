package fixer

import (
	"fmt"
	"sort"
)

// Order returns fixers in the order they are applied in a pass.
//
// RunBefore and RunAfter constraints are honored first. Among the
// fixers whose constraints are satisfied, the one with the highest
// priority goes next, ties broken by name. Constraints that form a
// cycle are reported as a *ConflictError.
func Order(fixers []Fixer) ([]Fixer, error) {
	index := make(map[string]int, len(fixers))
	for i, f := range fixers {
		name := f.Name()
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate fixer %q", name)
		}
		index[name] = i
	}

	succ := make([]map[int]bool, len(fixers))
	for i := range succ {
		succ[i] = make(map[int]bool)
	}
	indeg := make([]int, len(fixers))
	edge := func(from, to int) {
		if from == to || succ[from][to] {
			return
		}
		succ[from][to] = true
		indeg[to]++
	}
	for i, f := range fixers {
		c, ok := f.(Constrained)
		if !ok {
			continue
		}
		for _, name := range c.RunBefore() {
			if j, ok := index[name]; ok {
				edge(i, j)
			}
		}
		for _, name := range c.RunAfter() {
			if j, ok := index[name]; ok {
				edge(j, i)
			}
		}
	}

	less := func(a, b int) bool {
		pa, pb := fixers[a].Priority(), fixers[b].Priority()
		if pa != pb {
			return pa > pb
		}
		return fixers[a].Name() < fixers[b].Name()
	}
	var ready []int
	for i := range fixers {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}
	ordered := make([]Fixer, 0, len(fixers))
	for len(ready) > 0 {
		sort.Slice(ready, func(x, y int) bool { return less(ready[x], ready[y]) })
		i := ready[0]
		ready = ready[1:]
		ordered = append(ordered, fixers[i])
		for j := range succ[i] {
			indeg[j]--
			if indeg[j] == 0 {
				ready = append(ready, j)
			}
		}
	}
	if len(ordered) < len(fixers) {
		return nil, &ConflictError{Cycle: cycleMembers(fixers, succ, indeg)}
	}
	return ordered, nil
}

// cycleMembers returns the sorted names of the fixers left over by
// the topological sort that lie on a cycle or between two cycles.
// Fixers that merely depend on a cycle are pruned.
func cycleMembers(fixers []Fixer, succ []map[int]bool, indeg []int) []string {
	left := make(map[int]bool)
	for i, d := range indeg {
		if d > 0 {
			left[i] = true
		}
	}
	for pruned := true; pruned; {
		pruned = false
		for i := range left {
			sink := true
			for j := range succ[i] {
				if left[j] {
					sink = false
					break
				}
			}
			if sink {
				delete(left, i)
				pruned = true
			}
		}
	}
	names := make([]string, 0, len(left))
	for i := range left {
		names = append(names, fixers[i].Name())
	}
	sort.Strings(names)
	return names
}

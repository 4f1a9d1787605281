package dag

import (
	"sort"
	"strings"
)

// FindCycles enumerates the elementary cycles of a plain adjacency map
// without any edge classification. Self edges are ignored. Each cycle is
// rotated to start at its lowest name and closed by repeating that name;
// the result is deduplicated and sorted.
//
// Every simple path is explored, so the cost grows quickly with the number
// of cycles. It is meant for single packages.
func FindCycles(adjacency map[string][]string) [][]string {
	found := make(map[string][]string)
	onPath := make(map[string]bool)
	var path []string

	var dfs func(node string)
	dfs = func(node string) {
		onPath[node] = true
		path = append(path, node)

		for _, next := range adjacency[node] {
			switch {
			case next == node:
				continue
			case onPath[next]:
				start := indexOf(path, next)
				cycle := normalizeCycle(path[start:])
				found[strings.Join(cycle, "\x00")] = cycle
			default:
				dfs(next)
			}
		}

		path = path[:len(path)-1]
		onPath[node] = false
	}

	nodes := make([]string, 0, len(adjacency))
	for node := range adjacency {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	for _, node := range nodes {
		dfs(node)
	}

	cycles := make([][]string, 0, len(found))
	for _, c := range found {
		cycles = append(cycles, c)
	}
	sort.Slice(cycles, func(i, j int) bool {
		return strings.Join(cycles[i], " ") < strings.Join(cycles[j], " ")
	})
	return cycles
}

// normalizeCycle rotates cycle to start at its lowest name and closes it.
func normalizeCycle(cycle []string) []string {
	lowest := 0
	for i, name := range cycle {
		if name < cycle[lowest] {
			lowest = i
		}
	}
	out := make([]string, 0, len(cycle)+1)
	out = append(out, cycle[lowest:]...)
	out = append(out, cycle[:lowest]...)
	return append(out, cycle[lowest])
}

func indexOf(slice []string, s string) int {
	for i, v := range slice {
		if v == s {
			return i
		}
	}
	return -1
}

package community

import (
	"sort"
)

// Edge is one weighted undirected similarity relation between two
// discussion nodes.
type Edge struct {
	Source string
	Target string
	Weight float64
}

const (
	maxSweeps = 100
	eps       = 1e-12
)

// wgraph is a weighted undirected graph with loop weights, used for the
// coarsening levels.
type wgraph struct {
	n    int
	adj  []map[int]float64 // i -> j -> weight, j != i
	self []float64         // internal (loop) weight per node
	m    float64           // total edge weight including loops
}

func (g *wgraph) degree(i int) float64 {
	d := 2 * g.self[i]
	for _, w := range g.adj[i] {
		d += w
	}
	return d
}

// Louvain partitions the graph into communities by greedy modularity
// optimization: repeated local moves followed by graph coarsening, until
// modularity gain stabilizes. Nodes are visited in sorted-id order and
// ties break towards the first improving move, so the partition is
// deterministic. Only nodes appearing in edges are labeled; isolated
// nodes receive no community.
func Louvain(edges []Edge) map[string]int {
	if len(edges) == 0 {
		return map[string]int{}
	}

	index := make(map[string]int)
	var names []string
	for _, e := range edges {
		for _, id := range []string{e.Source, e.Target} {
			if _, ok := index[id]; !ok {
				index[id] = 0
				names = append(names, id)
			}
		}
	}
	sort.Strings(names)
	for i, name := range names {
		index[name] = i
	}

	g := &wgraph{
		n:    len(names),
		adj:  make([]map[int]float64, len(names)),
		self: make([]float64, len(names)),
	}
	for i := range g.adj {
		g.adj[i] = make(map[int]float64)
	}
	for _, e := range edges {
		s, t := index[e.Source], index[e.Target]
		w := e.Weight
		if w <= 0 {
			w = 1
		}
		if s == t {
			g.self[s] += w
			g.m += w
			continue
		}
		g.adj[s][t] += w
		g.adj[t][s] += w
		g.m += w
	}

	// nodeComm maps each original node to its community in the current
	// coarsened graph.
	nodeComm := make([]int, g.n)
	for i := range nodeComm {
		nodeComm[i] = i
	}

	for {
		comm := localMove(g)
		renumbered, count := renumber(comm)
		for i := range nodeComm {
			nodeComm[i] = renumbered[nodeComm[i]]
		}
		if count == g.n {
			break
		}
		g = aggregate(g, renumbered, count)
	}

	result := make(map[string]int, len(names))
	for i, name := range names {
		result[name] = nodeComm[i]
	}
	return result
}

// localMove runs modularity-greedy sweeps: each node moves to the
// neighboring community with the largest positive modularity gain.
func localMove(g *wgraph) []int {
	comm := make([]int, g.n)
	degree := make([]float64, g.n)
	sumTot := make([]float64, g.n)
	for i := 0; i < g.n; i++ {
		comm[i] = i
		degree[i] = g.degree(i)
		sumTot[i] = degree[i]
	}

	m2 := 2 * g.m
	if m2 == 0 {
		return comm
	}

	for sweep := 0; sweep < maxSweeps; sweep++ {
		moved := false
		for i := 0; i < g.n; i++ {
			current := comm[i]

			// Edge weight from i to each neighboring community.
			wComm := make(map[int]float64)
			for j, w := range g.adj[i] {
				wComm[comm[j]] += w
			}

			sumTot[current] -= degree[i]

			candidates := make([]int, 0, len(wComm)+1)
			for c := range wComm {
				candidates = append(candidates, c)
			}
			sort.Ints(candidates)

			best := current
			bestGain := wComm[current] - sumTot[current]*degree[i]/m2
			for _, c := range candidates {
				if c == current {
					continue
				}
				gain := wComm[c] - sumTot[c]*degree[i]/m2
				if gain > bestGain+eps {
					best, bestGain = c, gain
				}
			}

			sumTot[best] += degree[i]
			if best != current {
				comm[i] = best
				moved = true
			}
		}
		if !moved {
			break
		}
	}
	return comm
}

// renumber maps community ids to a dense 0..count-1 range, in order of
// first appearance by node index.
func renumber(comm []int) ([]int, int) {
	mapping := make(map[int]int)
	out := make([]int, len(comm))
	next := 0
	for i, c := range comm {
		id, ok := mapping[c]
		if !ok {
			id = next
			mapping[c] = id
			next++
		}
		out[i] = id
	}
	return out, next
}

// aggregate coarsens the graph: each community becomes one node, intra-
// community weight becomes a loop.
func aggregate(g *wgraph, comm []int, count int) *wgraph {
	out := &wgraph{
		n:    count,
		adj:  make([]map[int]float64, count),
		self: make([]float64, count),
		m:    g.m,
	}
	for i := range out.adj {
		out.adj[i] = make(map[int]float64)
	}

	for i := 0; i < g.n; i++ {
		ci := comm[i]
		out.self[ci] += g.self[i]
		for j, w := range g.adj[i] {
			cj := comm[j]
			if ci == cj {
				if i < j {
					out.self[ci] += w
				}
				continue
			}
			out.adj[ci][cj] += w
		}
	}
	return out
}

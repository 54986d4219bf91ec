package recommender

import (
	"container/heap"
	"math"
	"sort"

	"github.com/viant/imgrec/vector"
)

type edge struct {
	to     int
	weight float64
}

// graph is a sparse undirected similarity graph over candidate nodes.
// Node i stands for ordinal ords[i]; node 0 and node 1 are the endpoints.
type graph struct {
	ords []int
	adj  [][]edge
}

// buildGraph links every node to its EdgesPerNode most similar candidates,
// bridges each node to its best match in the adjacent seed groups and always
// links the two endpoints.
func buildGraph(sp *space, ords, groups []int, cfg TransitionConfig) *graph {
	m := len(ords)
	sims := make([][]float64, m)
	for i := range sims {
		sims[i] = make([]float64, m)
	}
	for i := 0; i < m; i++ {
		a := ords[i]
		for j := 0; j < i; j++ {
			b := ords[j]
			s := vector.CosineWithNorms(sp.vecs[a], sp.vecs[b], sp.norms[a], sp.norms[b])
			sims[i][j], sims[j][i] = s, s
		}
	}
	closer := func(i, x, y int) bool {
		if sims[i][x] != sims[i][y] {
			return sims[i][x] > sims[i][y]
		}
		return ords[x] < ords[y]
	}

	linked := make([][]bool, m)
	for i := range linked {
		linked[i] = make([]bool, m)
	}
	link := func(i, j int) { linked[i][j], linked[j][i] = true, true }
	others := make([]int, 0, m)
	for i := 0; i < m; i++ {
		others = others[:0]
		for j := 0; j < m; j++ {
			if j != i && sims[i][j] >= cfg.MinSimilarity {
				others = append(others, j)
			}
		}
		sort.Slice(others, func(x, y int) bool { return closer(i, others[x], others[y]) })
		for _, j := range others[:min(cfg.EdgesPerNode, len(others))] {
			link(i, j)
		}
	}

	members := map[int][]int{}
	for i, group := range groups {
		members[group] = append(members[group], i)
	}
	order := make([]int, 0, len(members))
	for group := range members {
		order = append(order, group)
	}
	sort.Ints(order)
	for n := 1; n < len(order); n++ {
		left, right := members[order[n-1]], members[order[n]]
		bridge(left, right, closer, link)
		bridge(right, left, closer, link)
	}
	if m > 1 {
		link(0, 1)
	}

	g := &graph{ords: ords, adj: make([][]edge, m)}
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			if linked[i][j] {
				w := math.Max(0, 1-sims[i][j]) + cfg.HopPenalty
				g.adj[i] = append(g.adj[i], edge{to: j, weight: w})
			}
		}
	}
	return g
}

// bridge links every node of from to its closest node in to.
func bridge(from, to []int, closer func(i, x, y int) bool, link func(i, j int)) {
	for _, i := range from {
		best := -1
		for _, j := range to {
			if j != i && (best < 0 || closer(i, j, best)) {
				best = j
			}
		}
		if best >= 0 {
			link(i, best)
		}
	}
}

type hopState struct {
	node int
	hops int
	cost float64
	rank int
}

type frontier []hopState

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].cost != f[j].cost {
		return f[i].cost < f[j].cost
	}
	if f[i].hops != f[j].hops {
		return f[i].hops < f[j].hops
	}
	return f[i].rank < f[j].rank
}
func (f frontier) Swap(i, j int)       { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x interface{}) { *f = append(*f, x.(hopState)) }
func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	x := old[n-1]
	*f = old[:n-1]
	return x
}

// shortestPath runs Dijkstra over (node, hops) states so that the returned
// path has at most maxHops edges. It returns graph nodes from source to
// target inclusive.
func (g *graph) shortestPath(source, target, maxHops int) ([]int, bool) {
	m := len(g.adj)
	dist := make([][]float64, m)
	prev := make([][]int, m)
	for i := range dist {
		dist[i] = make([]float64, maxHops+1)
		prev[i] = make([]int, maxHops+1)
		for h := range dist[i] {
			dist[i][h] = math.Inf(1)
			prev[i][h] = -1
		}
	}
	dist[source][0] = 0
	f := &frontier{{node: source, rank: g.ords[source]}}
	for f.Len() > 0 {
		cur := heap.Pop(f).(hopState)
		if cur.cost > dist[cur.node][cur.hops] {
			continue
		}
		if cur.node == target {
			return g.trace(prev, target, cur.hops), true
		}
		if cur.hops == maxHops {
			continue
		}
		next := cur.hops + 1
		for _, e := range g.adj[cur.node] {
			cost := cur.cost + e.weight
			if cost < dist[e.to][next] {
				dist[e.to][next] = cost
				prev[e.to][next] = cur.node
				heap.Push(f, hopState{node: e.to, hops: next, cost: cost, rank: g.ords[e.to]})
			}
		}
	}
	return nil, false
}

func (g *graph) trace(prev [][]int, target, hops int) []int {
	path := make([]int, hops+1)
	node := target
	for h := hops; h >= 0; h-- {
		path[h] = node
		node = prev[node][h]
	}
	return path
}

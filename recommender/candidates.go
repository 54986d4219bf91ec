package recommender

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/viant/imgrec/vector"
)

// candidateSet collects graph nodes in insertion order up to a hard cap.
// groups[i] is the seed group of ords[i]: 0 for the source side, 1..n for
// the waypoints in order and n+1 for the target side.
type candidateSet struct {
	limit   int
	members *roaring.Bitmap
	ords    []int
	groups  []int
}

func newCandidateSet(limit int) *candidateSet {
	return &candidateSet{limit: limit, members: roaring.New()}
}

func (c *candidateSet) full() bool { return len(c.ords) >= c.limit }

// add inserts ord into group unless present or the set is full.
func (c *candidateSet) add(ord, group int) bool {
	if c.full() || !c.members.CheckedAdd(uint32(ord)) {
		return false
	}
	c.ords = append(c.ords, ord)
	c.groups = append(c.groups, group)
	return true
}

// gatherCandidates selects the transition graph nodes for from -> to:
// the endpoints, each endpoint's nearest neighbours, the neighbours of
// waypoints spaced evenly along the arc between the endpoints, then one expansion hop
// around every seed. Lists are merged round-robin so the cap trims each
// source evenly.
func (r *Recommender) gatherCandidates(sp *space, from, to int) (*candidateSet, error) {
	cfg := r.transition
	last := cfg.Waypoints + 1
	set := newCandidateSet(cfg.MaxCandidates)
	set.add(from, 0)
	set.add(to, last)

	lists := make([][]int, last+1)
	var err error
	if lists[0], err = sp.neighbors(sp.vecs[from], cfg.NeighborsPerEndpoint, from); err != nil {
		return nil, err
	}
	if lists[last], err = sp.neighbors(sp.vecs[to], cfg.NeighborsPerEndpoint, to); err != nil {
		return nil, err
	}
	for w := 1; w < last; w++ {
		point, ok := waypoint(sp.vecs[from], sp.vecs[to], float64(w)/float64(last))
		if !ok {
			continue
		}
		if lists[w], err = sp.neighbors(point, cfg.NeighborsPerEndpoint/4, -1); err != nil {
			return nil, err
		}
	}
	interleave(set, lists)

	seeds := len(set.ords)
	for n := 0; n < seeds; n++ {
		if set.full() || cfg.ExpansionNeighbors == 0 {
			break
		}
		seed, group := set.ords[n], set.groups[n]
		near, err := sp.neighbors(sp.vecs[seed], cfg.ExpansionNeighbors, seed)
		if err != nil {
			return nil, err
		}
		for _, ord := range near {
			set.add(ord, group)
		}
	}
	return set, nil
}

// interleave adds lists[g] to group g, one rank at a time across all lists.
func interleave(set *candidateSet, lists [][]int) {
	for rank := 0; ; rank++ {
		more := false
		for group, list := range lists {
			if rank < len(list) {
				more = true
				set.add(list[rank], group)
			}
		}
		if !more || set.full() {
			return
		}
	}
}

// waypoint returns the point at fraction t along the great circle from a/|a|
// to b/|b|, or false when either endpoint is the zero vector or the two
// directions are parallel or opposite.
func waypoint(a, b []float32, t float64) ([]float32, bool) {
	ua, okA := vector.Normalize(a)
	ub, okB := vector.Normalize(b)
	if !okA || !okB {
		return nil, false
	}
	var dot float64
	for i := range ua {
		dot += float64(ua[i]) * float64(ub[i])
	}
	omega := math.Acos(math.Max(-1, math.Min(1, dot)))
	sinOmega := math.Sin(omega)
	if sinOmega < 1e-6 {
		return nil, false
	}
	wa, wb := math.Sin((1-t)*omega)/sinOmega, math.Sin(t*omega)/sinOmega
	point := make([]float32, len(ua))
	for i := range ua {
		point[i] = float32(wa*float64(ua[i]) + wb*float64(ub[i]))
	}
	return vector.Normalize(point)
}

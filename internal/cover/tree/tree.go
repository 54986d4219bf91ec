package tree

// This implementation is adapted from github.com/viant/gds/tree/cover.

import (
	"container/heap"
	"math"
	"sync"

	"github.com/viant/vec/search"
)

// BoundStrategy selects which lower-bound radius to use when pruning.
type BoundStrategy int

const (
	// BoundPerNode uses cached per-node subtree radius (tighter pruning, exact
	// for metric distances).
	BoundPerNode BoundStrategy = iota
	// BoundLevel uses a geometric bound derived from the node level; cheaper
	// but may miss neighbours on irregular trees.
	BoundLevel
)

// Tree represents a cover tree for cosine/euclidean kNN queries. Values of
// type T are attached to inserted points.
type Tree[T any] struct {
	root          *Node
	base          float32
	distanceName  DistanceFunction
	distanceFunc  DistanceFunc
	values        []T
	points        []*Point
	version       uint64
	sealedVersion uint64
	boundStrategy BoundStrategy
	mu            sync.RWMutex
}

// NewTree constructs a cover tree with the provided base and distance metric.
func NewTree[T any](base float32, distanceFn DistanceFunction) *Tree[T] {
	if base <= 1 {
		base = 1.3
	}
	fn := distanceFn.Function()
	if fn == nil {
		fn = DistanceFunctionCosine.Function()
		distanceFn = DistanceFunctionCosine
	}
	return &Tree[T]{
		base:          base,
		distanceName:  distanceFn,
		distanceFunc:  fn,
		boundStrategy: BoundPerNode,
	}
}

// Distance returns the configured distance function name.
func (t *Tree[T]) Distance() DistanceFunction { return t.distanceName }

// SetBoundStrategy switches the pruning strategy.
func (t *Tree[T]) SetBoundStrategy(s BoundStrategy) {
	t.mu.Lock()
	t.boundStrategy = s
	t.mu.Unlock()
}

// Len returns the number of inserted points.
func (t *Tree[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.points)
}

// Insert adds a new value/vector pair to the tree and returns its index.
func (t *Tree[T]) Insert(value T, point *Point) int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	point.index = int32(len(t.values))
	t.values = append(t.values, value)
	t.points = append(t.points, point)
	if point.Magnitude == 0 && len(point.Vector) > 0 {
		point.Magnitude = search.Float32s(point.Vector).Magnitude()
	}
	if t.root == nil {
		node := NewNode(point, 0, t.base)
		t.root = &node
	} else {
		t.insert(t.root, point, 0)
	}
	t.version++
	return point.index
}

// Value returns the stored value for the given point.
func (t *Tree[T]) Value(point *Point) T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var zero T
	if point == nil || point.index < 0 || int(point.index) >= len(t.values) {
		return zero
	}
	return t.values[point.index]
}

// Point returns the point stored under index, or nil.
func (t *Tree[T]) Point(index int32) *Point {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if index < 0 || int(index) >= len(t.points) {
		return nil
	}
	return t.points[index]
}

func (t *Tree[T]) insert(node *Node, point *Point, level int32) {
	for {
		baseLevel := float32(math.Pow(float64(t.base), float64(level)))
		distance := t.distanceFunc(point, node.point)
		if distance < baseLevel {
			inserted := false
			for i := range node.children {
				child := &node.children[i]
				if t.distanceFunc(point, child.point) < baseLevel {
					node = child
					level--
					inserted = true
					break
				}
			}
			if !inserted {
				node.children = append(node.children, NewNode(point, level-1, t.base))
				return
			}
		} else {
			level++
			if level > node.level {
				newRoot := NewNode(point, level, t.base)
				newRoot.children = append(newRoot.children, *t.root)
				t.root = &newRoot
				return
			}
		}
	}
}

// Seal computes every subtree radius so subsequent searches only read the
// tree and can run concurrently. Inserting again unseals it.
func (t *Tree[T]) Seal() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ensureRadius(t.root)
	t.sealedVersion = t.version
}

// KNearestNeighbors runs a best-first kNN search with a node priority queue
// and returns neighbours nearest first.
func (t *Tree[T]) KNearestNeighbors(point *Point, k int) []*Neighbor {
	t.mu.RLock()
	if t.sealedVersion != t.version && t.boundStrategy == BoundPerNode {
		// radii must be (re)computed under the write lock
		t.mu.RUnlock()
		t.Seal()
		t.mu.RLock()
	}
	defer t.mu.RUnlock()
	if t.root == nil || k <= 0 {
		return nil
	}
	if point.Magnitude == 0 && len(point.Vector) > 0 {
		point.Magnitude = search.Float32s(point.Vector).Magnitude()
	}
	nh := &Neighbors{}
	pq := &nodeQueue{}
	rootDist := t.distanceFunc(point, t.root.point)
	heap.Push(pq, nodeItem{node: t.root, lb: rootDist - t.boundRadius(t.root), centerDist: rootDist})

	for pq.Len() > 0 {
		top := heap.Pop(pq).(nodeItem)
		if nh.Len() == k && top.lb > (*nh)[0].Distance {
			break
		}
		cand := Neighbor{Point: top.node.point, Distance: top.centerDist}
		if nh.Len() < k {
			heap.Push(nh, cand)
		} else if worse((*nh)[0], cand) {
			(*nh)[0] = cand
			heap.Fix(nh, 0)
		}
		for i := range top.node.children {
			child := &top.node.children[i]
			cd := t.distanceFunc(point, child.point)
			lb := cd - t.boundRadius(child)
			if nh.Len() == k && lb > (*nh)[0].Distance {
				continue
			}
			heap.Push(pq, nodeItem{node: child, lb: lb, centerDist: cd})
		}
	}
	result := make([]*Neighbor, nh.Len())
	for i := len(result) - 1; i >= 0; i-- {
		n := heap.Pop(nh).(Neighbor)
		result[i] = &n
	}
	return result
}

func (t *Tree[T]) ensureRadius(n *Node) float32 {
	if n == nil {
		return 0
	}
	if n.radiusVersion == t.version {
		return n.radius
	}
	maxR := float32(0)
	for i := range n.children {
		child := &n.children[i]
		d := t.distanceFunc(n.point, child.point) + t.ensureRadius(child)
		if d > maxR {
			maxR = d
		}
	}
	n.radius = maxR
	n.radiusVersion = t.version
	return maxR
}

func (t *Tree[T]) levelCoverRadius(n *Node) float32 {
	if t.base <= 1 || n == nil {
		return float32(math.MaxFloat32)
	}
	return n.baseLevel * t.base / (t.base - 1)
}

func (t *Tree[T]) boundRadius(n *Node) float32 {
	if t.boundStrategy == BoundLevel {
		return t.levelCoverRadius(n)
	}
	return n.radius
}

type nodeItem struct {
	node       *Node
	lb         float32
	centerDist float32
}

type nodeQueue []nodeItem

func (q nodeQueue) Len() int            { return len(q) }
func (q nodeQueue) Less(i, j int) bool  { return q[i].lb < q[j].lb }
func (q nodeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x interface{}) { *q = append(*q, x.(nodeItem)) }
func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

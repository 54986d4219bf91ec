// Package topk selects the k best scored items under a total order: higher
// score first, then lexically smaller id.
package topk

import (
	"container/heap"
	"sort"
)

// Item is a scored candidate. Ord is an opaque caller handle (usually an
// ordinal into the caller's arrays).
type Item struct {
	Ord   int
	ID    string
	Score float64
}

// Better reports whether a ranks strictly before b.
func Better(a, b Item) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.ID < b.ID
}

// worst-first heap
type items []Item

func (h items) Len() int            { return len(h) }
func (h items) Less(i, j int) bool  { return Better(h[j], h[i]) }
func (h items) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *items) Push(x interface{}) { *h = append(*h, x.(Item)) }
func (h *items) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Heap keeps the k best items seen so far. k <= 0 keeps everything.
type Heap struct {
	k int
	h items
}

// New returns a Heap bounded to k items.
func New(k int) *Heap {
	c := k
	if c <= 0 || c > 1024 {
		c = 64
	}
	return &Heap{k: k, h: make(items, 0, c)}
}

// Len returns the number of items held.
func (t *Heap) Len() int { return len(t.h) }

// Full reports whether the heap holds k items.
func (t *Heap) Full() bool { return t.k > 0 && len(t.h) >= t.k }

// Worst returns the lowest ranked held item; ok is false when empty.
func (t *Heap) Worst() (Item, bool) {
	if len(t.h) == 0 {
		return Item{}, false
	}
	return t.h[0], true
}

// Push offers an item and reports whether it was kept.
func (t *Heap) Push(it Item) bool {
	if !t.Full() {
		heap.Push(&t.h, it)
		return true
	}
	if !Better(it, t.h[0]) {
		return false
	}
	t.h[0] = it
	heap.Fix(&t.h, 0)
	return true
}

// Sorted drains the heap and returns items best first.
func (t *Heap) Sorted() []Item {
	out := make([]Item, len(t.h))
	copy(out, t.h)
	t.h = t.h[:0]
	Sort(out)
	return out
}

// Sort orders items best first.
func Sort(list []Item) {
	sort.Slice(list, func(i, j int) bool { return Better(list[i], list[j]) })
}

package core

import (
	"sort"
)

// DefaultMaxObjectsPerNode is the leaf size used when callers pass a
// non-positive threshold
const DefaultMaxObjectsPerNode = 8

// bvhNode is one entry of the node arena. Leaves reference a contiguous run
// of the reordered item slice; internal nodes reference two child nodes.
type bvhNode struct {
	box         AABB
	left, right int32 // child node indices, -1 for leaves
	first       int32 // first item index (leaves only)
	count       int32 // number of items (leaves only)
}

func (n *bvhNode) isLeaf() bool {
	return n.left < 0
}

// BVH is a Bounding Volume Hierarchy over any bounded item type. Nodes live
// in a flat arena with the root at index 0. The tree is immutable once built
// and safe for concurrent traversal.
type BVH[T Bounded] struct {
	nodes []bvhNode
	items []T
}

// LeafFunc resolves the items of one leaf against a ray. It must only report
// hits with T <= ray.TMax, and should return the nearest of them, preferring
// the earlier item on ties.
type LeafFunc[T Bounded] func(ray Ray, items []T) (*HitRecord, bool)

// bvhEntry caches an item's box and center while building
type bvhEntry[T Bounded] struct {
	item   T
	box    AABB
	center Vec3
}

// NewBVH builds a BVH by recursive median split, cycling the split axis
// X, Y, Z from the root down. Nodes with at most maxObjectsPerNode items
// become leaves. An empty item slice yields an empty BVH that never hits.
func NewBVH[T Bounded](items []T, maxObjectsPerNode int) *BVH[T] {
	if maxObjectsPerNode <= 0 {
		maxObjectsPerNode = DefaultMaxObjectsPerNode
	}

	bvh := &BVH[T]{}
	if len(items) == 0 {
		return bvh
	}

	entries := make([]bvhEntry[T], len(items))
	for i, item := range items {
		box := item.BoundingBox()
		entries[i] = bvhEntry[T]{item: item, box: box, center: box.Center()}
	}

	// Roughly 2n/threshold nodes for a balanced median split
	bvh.nodes = make([]bvhNode, 0, 2*len(items)/maxObjectsPerNode+1)
	bvh.build(entries, 0, 0, maxObjectsPerNode)

	bvh.items = make([]T, len(entries))
	for i, entry := range entries {
		bvh.items[i] = entry.item
	}
	return bvh
}

// build appends the subtree for entries (which start at offset in the final
// item order) and returns its node index
func (bvh *BVH[T]) build(entries []bvhEntry[T], offset int, axis int, maxObjectsPerNode int) int32 {
	index := int32(len(bvh.nodes))

	if len(entries) <= maxObjectsPerNode {
		box := entries[0].box
		for _, entry := range entries[1:] {
			box = box.Merged(entry.box)
		}
		bvh.nodes = append(bvh.nodes, bvhNode{
			box:   box,
			left:  -1,
			right: -1,
			first: int32(offset),
			count: int32(len(entries)),
		})
		return index
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].center.Axis(axis) < entries[j].center.Axis(axis)
	})

	// Reserve the slot so parents precede their children in the arena
	bvh.nodes = append(bvh.nodes, bvhNode{})

	mid := len(entries) / 2
	nextAxis := (axis + 1) % 3
	left := bvh.build(entries[:mid], offset, nextAxis, maxObjectsPerNode)
	right := bvh.build(entries[mid:], offset+mid, nextAxis, maxObjectsPerNode)

	bvh.nodes[index] = bvhNode{
		box:   bvh.nodes[left].box.Merged(bvh.nodes[right].box),
		left:  left,
		right: right,
	}
	return index
}

// Trace finds the nearest hit along ray. Subtrees whose box the ray misses
// are skipped; of two children the one whose center is closer to the ray
// origin is visited first, and its hit distance bounds the search in the other.
// A hit in the second child replaces the first only when strictly nearer, so
// on equal distances the first hit found wins.
func (bvh *BVH[T]) Trace(ray Ray, leaf LeafFunc[T]) (*HitRecord, bool) {
	if len(bvh.nodes) == 0 {
		return nil, false
	}
	return bvh.traceNode(0, ray, leaf)
}

func (bvh *BVH[T]) traceNode(index int32, ray Ray, leaf LeafFunc[T]) (*HitRecord, bool) {
	node := &bvh.nodes[index]
	if !node.box.Hit(ray) {
		return nil, false
	}

	if node.isLeaf() {
		return leaf(ray, bvh.items[node.first:node.first+node.count])
	}

	near, far := node.left, node.right
	nearDist := bvh.nodes[near].box.Center().Subtract(ray.Origin).LengthSquared()
	farDist := bvh.nodes[far].box.Center().Subtract(ray.Origin).LengthSquared()
	if farDist < nearDist {
		near, far = far, near
	}

	hit, isHit := bvh.traceNode(near, ray, leaf)
	if isHit {
		ray = ray.WithMax(hit.T)
	}

	if farHit, isFarHit := bvh.traceNode(far, ray, leaf); isFarHit && (!isHit || farHit.T < hit.T) {
		return farHit, true
	}
	return hit, isHit
}

// Bounds returns the box around every item; false for an empty BVH
func (bvh *BVH[T]) Bounds() (AABB, bool) {
	if len(bvh.nodes) == 0 {
		return AABB{}, false
	}
	return bvh.nodes[0].box, true
}

// Len returns the number of items in the BVH
func (bvh *BVH[T]) Len() int {
	return len(bvh.items)
}

// Items returns the items in leaf order. The slice must not be modified.
func (bvh *BVH[T]) Items() []T {
	return bvh.items
}

// BVHStats summarizes the shape of a BVH
type BVHStats struct {
	Nodes        int     // Total nodes
	Leaves       int     // Leaf nodes
	MaxDepth     int     // Depth of the deepest leaf (root is 0)
	AvgLeafDepth float64 // Mean leaf depth
	Items        int     // Items stored across all leaves
	MaxLeafItems int     // Largest leaf
}

// Stats walks the tree and returns its statistics
func (bvh *BVH[T]) Stats() BVHStats {
	var stats BVHStats
	if len(bvh.nodes) == 0 {
		return stats
	}

	bvh.collectStats(0, 0, &stats)
	if stats.Leaves > 0 {
		stats.AvgLeafDepth /= float64(stats.Leaves)
	}
	return stats
}

func (bvh *BVH[T]) collectStats(index int32, depth int, stats *BVHStats) {
	node := &bvh.nodes[index]
	stats.Nodes++

	if node.isLeaf() {
		stats.Leaves++
		stats.Items += int(node.count)
		stats.AvgLeafDepth += float64(depth) // divided by leaf count at the end
		stats.MaxDepth = max(stats.MaxDepth, depth)
		stats.MaxLeafItems = max(stats.MaxLeafItems, int(node.count))
		return
	}

	bvh.collectStats(node.left, depth+1, stats)
	bvh.collectStats(node.right, depth+1, stats)
}

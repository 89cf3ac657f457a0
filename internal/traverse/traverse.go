// Package traverse provides stateless traversal over n-ary tree shapes.
//
// The functions take the tree shape as a children function rather than an
// interface, so any node type works without adapters. Visits stop early
// when the visit function returns false.
package traverse

// PreOrder visits node before its children, children in index order.
// Returns false if the visit function aborted the walk.
func PreOrder[T any](node T, children func(T) []T, visit func(T) bool) bool {
	if !visit(node) {
		return false
	}
	for _, c := range children(node) {
		if !PreOrder(c, children, visit) {
			return false
		}
	}
	return true
}

// PostOrder visits node after its children, children in index order.
// Returns false if the visit function aborted the walk.
func PostOrder[T any](node T, children func(T) []T, visit func(T) bool) bool {
	for _, c := range children(node) {
		if !PostOrder(c, children, visit) {
			return false
		}
	}
	return visit(node)
}

// LevelOrder visits nodes breadth-first, siblings in index order.
// Returns false if the visit function aborted the walk.
func LevelOrder[T any](root T, children func(T) []T, visit func(T) bool) bool {
	queue := []T{root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if !visit(node) {
			return false
		}
		queue = append(queue, children(node)...)
	}
	return true
}

// Collect returns the nodes of a preorder walk as a slice.
func Collect[T any](root T, children func(T) []T) []T {
	var out []T
	PreOrder(root, children, func(n T) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Depth returns the height of the tree rooted at root: 0 for a leaf.
func Depth[T any](root T, children func(T) []T) int {
	max := 0
	for _, c := range children(root) {
		if d := Depth(c, children) + 1; d > max {
			max = d
		}
	}
	return max
}

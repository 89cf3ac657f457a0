package traverse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type node struct {
	label string
	kids  []*node
}

func kids(n *node) []*node { return n.kids }

// tree:
//
//	a
//	├── b
//	│   ├── d
//	│   └── e
//	└── c
//	    └── f
func testTree() *node {
	return &node{label: "a", kids: []*node{
		{label: "b", kids: []*node{
			{label: "d"},
			{label: "e"},
		}},
		{label: "c", kids: []*node{
			{label: "f"},
		}},
	}}
}

func labels(nodes []*node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.label
	}
	return out
}

func walk(walker func(*node, func(*node) []*node, func(*node) bool) bool, root *node) []string {
	var out []string
	walker(root, kids, func(n *node) bool {
		out = append(out, n.label)
		return true
	})
	return out
}

func TestPreOrder(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "d", "e", "c", "f"}, walk(PreOrder[*node], testTree()))
}

func TestPostOrder(t *testing.T) {
	assert.Equal(t, []string{"d", "e", "b", "f", "c", "a"}, walk(PostOrder[*node], testTree()))
}

func TestLevelOrder(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, walk(LevelOrder[*node], testTree()))
}

func TestEarlyAbort(t *testing.T) {
	var visited []string
	done := PreOrder(testTree(), kids, func(n *node) bool {
		visited = append(visited, n.label)
		return n.label != "d"
	})
	assert.False(t, done)
	assert.Equal(t, []string{"a", "b", "d"}, visited, "siblings after the abort are not visited")

	done = PostOrder(testTree(), kids, func(n *node) bool {
		return n.label != "e"
	})
	assert.False(t, done)

	done = LevelOrder(testTree(), kids, func(n *node) bool {
		return n.label != "c"
	})
	assert.False(t, done)
}

func TestCollect(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "d", "e", "c", "f"}, labels(Collect(testTree(), kids)))
	assert.Equal(t, []string{"x"}, labels(Collect(&node{label: "x"}, kids)))
}

func TestDepth(t *testing.T) {
	assert.Equal(t, 2, Depth(testTree(), kids))
	assert.Equal(t, 0, Depth(&node{label: "leaf"}, kids))
}

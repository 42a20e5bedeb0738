// Package scene implements the scene graph as an arena of nodes addressed by handles.
package scene

import (
	"errors"
	"iter"
	"slices"

	"github.com/df07/go-soft-renderer/pkg/core"
)

// Errors returned by graph operations
var (
	ErrInvalidNode = errors.New("invalid node")
	ErrForeignNode = errors.New("node belongs to a different scene")
	ErrCycle       = errors.New("node cannot be added beneath itself or one of its descendants")
)

const noParent = -1

// nodeData is the arena record behind a Node handle
type nodeData struct {
	parent    int
	children  []int
	local     core.Transform
	component any
}

// Scene owns every node created through it and the ordered list of root nodes
type Scene struct {
	nodes []nodeData
	roots []int
}

// New creates an empty scene
func New() *Scene {
	return &Scene{}
}

// NewNode allocates a detached node holding component (nil for a plain grouping node).
// The node is not part of the hierarchy until it is added to the scene or to another node.
func (s *Scene) NewNode(component any) Node {
	s.nodes = append(s.nodes, nodeData{
		parent:    noParent,
		local:     core.Identity(),
		component: component,
	})
	return Node{scene: s, id: len(s.nodes) - 1}
}

// Add appends node to the root list, detaching it from any previous parent first
func (s *Scene) Add(node Node) error {
	if err := s.owns(node); err != nil {
		return err
	}
	node.Detach()
	s.roots = append(s.roots, node.id)
	return nil
}

// Remove takes node out of the root list. It reports whether node was a root.
func (s *Scene) Remove(node Node) bool {
	if s.owns(node) != nil {
		return false
	}
	i := slices.Index(s.roots, node.id)
	if i < 0 {
		return false
	}
	s.roots = slices.Delete(s.roots, i, i+1)
	return true
}

// Roots returns the root nodes in insertion order
func (s *Scene) Roots() []Node {
	return s.handles(s.roots)
}

// Len returns the number of nodes allocated in the arena, attached or not
func (s *Scene) Len() int {
	return len(s.nodes)
}

// All enumerates every node reachable from the roots, depth-first pre-order:
// each root is followed by all of its descendants.
func (s *Scene) All() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		s.walk(s.roots, yield)
	}
}

// Nodes collects All into a slice
func (s *Scene) Nodes() []Node {
	return slices.Collect(s.All())
}

func (s *Scene) walk(ids []int, yield func(Node) bool) bool {
	for _, id := range slices.Clone(ids) {
		if !yield(Node{scene: s, id: id}) {
			return false
		}
		if !s.walk(s.nodes[id].children, yield) {
			return false
		}
	}
	return true
}

func (s *Scene) isRoot(id int) bool {
	return slices.Contains(s.roots, id)
}

func (s *Scene) owns(n Node) error {
	if !n.Valid() {
		return ErrInvalidNode
	}
	if n.scene != s {
		return ErrForeignNode
	}
	return nil
}

func (s *Scene) handles(ids []int) []Node {
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = Node{scene: s, id: id}
	}
	return out
}

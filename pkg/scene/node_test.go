package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-soft-renderer/pkg/core"
)

const tolerance = 1e-9

func TestAdd_Reparent(t *testing.T) {
	s := New()
	a := s.NewNode("a")
	b := s.NewNode("b")
	child := s.NewNode("child")

	require.NoError(t, s.Add(a))
	require.NoError(t, s.Add(b))
	require.NoError(t, a.Add(child))

	parent, ok := child.Parent()
	require.True(t, ok)
	assert.Equal(t, a, parent)

	// Re-adding detaches from the previous parent first
	require.NoError(t, b.Add(child))
	parent, _ = child.Parent()
	assert.Equal(t, b, parent)
	assert.Empty(t, a.Children())
	assert.Equal(t, []Node{child}, b.Children())

	// Adding a root under a node removes it from the root list
	require.NoError(t, a.Add(b))
	assert.Equal(t, []Node{a}, s.Roots())
	assert.Equal(t, s, child.Scene())
}

func TestAdd_Errors(t *testing.T) {
	s := New()
	other := New()
	root := s.NewNode(nil)
	mid := s.NewNode(nil)
	leaf := s.NewNode(nil)
	require.NoError(t, root.Add(mid))
	require.NoError(t, mid.Add(leaf))

	tests := []struct {
		name   string
		parent Node
		child  Node
		err    error
	}{
		{"self", mid, mid, ErrCycle},
		{"ancestor", leaf, root, ErrCycle},
		{"parent", leaf, mid, ErrCycle},
		{"foreign", root, other.NewNode(nil), ErrForeignNode},
		{"zero child", root, Node{}, ErrInvalidNode},
		{"zero parent", Node{}, root, ErrInvalidNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parent.Add(tt.child)
			if !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}

	// Failed adds leave the hierarchy untouched
	assert.Equal(t, []Node{mid}, root.Children())
	assert.Equal(t, []Node{leaf}, mid.Children())

	assert.ErrorIs(t, other.Add(root), ErrForeignNode)
	assert.ErrorIs(t, s.Add(Node{}), ErrInvalidNode)
}

func TestRemoveAndDetach(t *testing.T) {
	s := New()
	root := s.NewNode(nil)
	child := s.NewNode(nil)
	grandchild := s.NewNode(nil)
	require.NoError(t, s.Add(root))
	require.NoError(t, root.Add(child))
	require.NoError(t, child.Add(grandchild))

	assert.False(t, root.Remove(grandchild), "not a direct child")
	assert.True(t, root.Remove(child))
	assert.False(t, root.Remove(child))
	assert.Nil(t, child.Scene(), "detached subtrees belong to no scene")
	assert.Equal(t, []Node{grandchild}, child.Children(), "the subtree stays intact")

	require.NoError(t, s.Add(child))
	grandchild.Detach()
	_, ok := grandchild.Parent()
	assert.False(t, ok)
	assert.Empty(t, child.Children())

	child.Detach()
	assert.Equal(t, []Node{root}, s.Roots())
	assert.False(t, s.Remove(child))
	assert.True(t, s.Remove(root))
	assert.Empty(t, s.Roots())
}

func TestEnumeration(t *testing.T) {
	s := New()
	n := func(name string) Node { return s.NewNode(name) }
	a, a1, a2, a1x, b := n("a"), n("a1"), n("a2"), n("a1x"), n("b")
	unattached := n("unattached")
	_ = unattached

	require.NoError(t, s.Add(a))
	require.NoError(t, s.Add(b))
	require.NoError(t, a.Add(a1))
	require.NoError(t, a.Add(a2))
	require.NoError(t, a1.Add(a1x))

	names := func(nodes []Node) []string {
		out := make([]string, len(nodes))
		for i, node := range nodes {
			out[i] = node.Component().(string)
		}
		return out
	}

	assert.Equal(t, []string{"a", "a1", "a1x", "a2", "b"}, names(s.Nodes()))

	var below []Node
	for node := range a.Descendants() {
		below = append(below, node)
	}
	assert.Equal(t, []string{"a1", "a1x", "a2"}, names(below))

	// Early exit stops the walk
	count := 0
	for range s.All() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
	assert.Equal(t, 6, s.Len())
}

func TestWorldTransform(t *testing.T) {
	s := New()
	parent := s.NewNode(nil)
	child := s.NewNode(nil)
	require.NoError(t, s.Add(parent))
	require.NoError(t, parent.Add(child))

	parent.Move(core.NewVec3(1, 0, 0))
	parent.Rotate(core.UnitZ, math.Pi/2)
	child.Move(core.NewVec3(1, 0, 0))

	// Rotation is applied in the parent frame, after the move: (1,0,0) -> (0,1,0)
	assert.True(t, parent.Position().ApproxEquals(core.NewVec3(0, 1, 0), tolerance), "parent %v", parent.Position())
	// The child's offset is rotated along with the parent
	assert.True(t, child.Position().ApproxEquals(core.NewVec3(0, 2, 0), tolerance), "child %v", child.Position())

	p := core.NewVec3(0.3, -2, 5)
	roundTrip := child.WorldToLocal().Apply(child.LocalToWorld().Apply(p))
	assert.True(t, roundTrip.ApproxEquals(p, tolerance))

	// Reparenting under the root list drops the parent's contribution
	require.NoError(t, s.Add(child))
	assert.True(t, child.Position().ApproxEquals(core.NewVec3(1, 0, 0), tolerance))
}

func TestRotateAround(t *testing.T) {
	s := New()
	n := s.NewNode(nil)
	n.Move(core.NewVec3(2, 0, 0))
	n.RotateAround(core.NewVec3(1, 0, 0), core.UnitZ, math.Pi)

	assert.True(t, n.Position().ApproxEquals(core.NewVec3(0, 0, 0), tolerance), "got %v", n.Position())
}

func TestDirectionalAccessors(t *testing.T) {
	s := New()
	n := s.NewNode(nil)

	assert.Equal(t, core.UnitY, n.Forward())
	assert.Equal(t, core.UnitZ, n.Up())
	assert.Equal(t, core.UnitX, n.Right())
	assert.Equal(t, core.UnitY.Negate(), n.Backward())
	assert.Equal(t, core.UnitZ.Negate(), n.Down())
	assert.Equal(t, core.UnitX.Negate(), n.Left())

	// The accessors map basis vectors as points, so translation is included
	n.Move(core.NewVec3(0, -5, 0))
	assert.Equal(t, core.NewVec3(0, -4, 0), n.Forward())
	assert.Equal(t, core.NewVec3(0, 4, 0), n.Backward())
	assert.Equal(t, core.UnitY, n.Direction(core.UnitY), "Direction ignores translation")
}

func TestTransformAccess(t *testing.T) {
	s := New()
	n := s.NewNode(nil)
	assert.Equal(t, core.Identity(), n.Transform())

	m := core.Scale(core.NewVec3(2, 2, 2))
	n.SetTransform(m)
	assert.Equal(t, m, n.Transform())
	assert.Equal(t, m, n.LocalToWorld())
}

func TestZeroNode(t *testing.T) {
	var n Node
	assert.False(t, n.Valid())
	assert.Nil(t, n.Component())
	assert.Nil(t, n.Children())
	assert.Nil(t, n.Scene())
	assert.Equal(t, core.Identity(), n.LocalToWorld())
	n.Move(core.UnitX)
	n.Detach()
	assert.Equal(t, "Node(invalid)", n.String())
}

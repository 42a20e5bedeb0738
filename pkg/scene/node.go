package scene

import (
	"fmt"
	"iter"
	"slices"

	"github.com/df07/go-soft-renderer/pkg/core"
)

// Node is a handle to a node stored in a Scene. The zero Node is invalid.
//
// Methods called on an invalid node do nothing and return zero values
// (the identity transform for transform accessors).
type Node struct {
	scene *Scene
	id    int
}

// Valid reports whether the handle refers to a node in an arena
func (n Node) Valid() bool {
	return n.scene != nil && n.id >= 0 && n.id < len(n.scene.nodes)
}

func (n Node) data() *nodeData {
	if !n.Valid() {
		return nil
	}
	return &n.scene.nodes[n.id]
}

func (n Node) String() string {
	if !n.Valid() {
		return "Node(invalid)"
	}
	return fmt.Sprintf("Node(%d)", n.id)
}

// Component returns the value attached to the node, or nil
func (n Node) Component() any {
	if d := n.data(); d != nil {
		return d.component
	}
	return nil
}

// SetComponent replaces the value attached to the node
func (n Node) SetComponent(component any) {
	if d := n.data(); d != nil {
		d.component = component
	}
}

// Parent returns the parent node. ok is false for roots and detached nodes.
func (n Node) Parent() (parent Node, ok bool) {
	d := n.data()
	if d == nil || d.parent == noParent {
		return Node{}, false
	}
	return Node{scene: n.scene, id: d.parent}, true
}

// Children returns the direct children in insertion order
func (n Node) Children() []Node {
	d := n.data()
	if d == nil {
		return nil
	}
	return n.scene.handles(d.children)
}

// Descendants enumerates all nodes below n, depth-first pre-order, excluding n itself
func (n Node) Descendants() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		if d := n.data(); d != nil {
			n.scene.walk(d.children, yield)
		}
	}
}

// Scene returns the scene whose root list contains n's top-most ancestor, or nil
// when that ancestor is detached.
func (n Node) Scene() *Scene {
	if !n.Valid() {
		return nil
	}
	root := n
	for {
		parent, ok := root.Parent()
		if !ok {
			break
		}
		root = parent
	}
	if n.scene.isRoot(root.id) {
		return n.scene
	}
	return nil
}

// Add makes child the last child of n, detaching it from its previous parent
// or from the scene's root list.
func (n Node) Add(child Node) error {
	if !n.Valid() || !child.Valid() {
		return ErrInvalidNode
	}
	if n.scene != child.scene {
		return ErrForeignNode
	}
	for ancestor, ok := n, true; ok; ancestor, ok = ancestor.Parent() {
		if ancestor.id == child.id {
			return ErrCycle
		}
	}

	child.Detach()
	d := n.data()
	d.children = append(d.children, child.id)
	child.data().parent = n.id
	return nil
}

// Remove detaches child if it is a direct child of n. It reports whether it was.
func (n Node) Remove(child Node) bool {
	if !n.Valid() || !child.Valid() || n.scene != child.scene {
		return false
	}
	if parent, ok := child.Parent(); !ok || parent.id != n.id {
		return false
	}
	child.Detach()
	return true
}

// Detach removes n from its parent's children or from the scene's root list.
// The subtree below n stays intact.
func (n Node) Detach() {
	d := n.data()
	if d == nil {
		return
	}
	if d.parent != noParent {
		p := &n.scene.nodes[d.parent]
		if i := slices.Index(p.children, n.id); i >= 0 {
			p.children = slices.Delete(p.children, i, i+1)
		}
		d.parent = noParent
		return
	}
	n.scene.Remove(n)
}

// Transform returns the local transform relative to the parent
func (n Node) Transform() core.Transform {
	if d := n.data(); d != nil {
		return d.local
	}
	return core.Identity()
}

// SetTransform replaces the local transform
func (n Node) SetTransform(t core.Transform) {
	if d := n.data(); d != nil {
		d.local = t
	}
}

// LocalToWorld returns the transform from this node's space to world space
func (n Node) LocalToWorld() core.Transform {
	d := n.data()
	if d == nil {
		return core.Identity()
	}
	if parent, ok := n.Parent(); ok {
		return parent.LocalToWorld().Mul(d.local)
	}
	return d.local
}

// WorldToLocal returns the transform from world space to this node's space
func (n Node) WorldToLocal() core.Transform {
	return n.LocalToWorld().Inverse()
}

// Position returns the node origin in world space
func (n Node) Position() core.Vec3 {
	return n.LocalToWorld().TranslationPart()
}

// Forward returns the local +Y axis mapped through the world transform.
// Like every directional accessor it includes the translation.
func (n Node) Forward() core.Vec3 {
	return n.LocalToWorld().Apply(core.UnitY)
}

// Backward is the negation of Forward
func (n Node) Backward() core.Vec3 {
	return n.Forward().Negate()
}

// Up returns the local +Z axis mapped through the world transform
func (n Node) Up() core.Vec3 {
	return n.LocalToWorld().Apply(core.UnitZ)
}

// Down is the negation of Up
func (n Node) Down() core.Vec3 {
	return n.Up().Negate()
}

// Right returns the local +X axis mapped through the world transform
func (n Node) Right() core.Vec3 {
	return n.LocalToWorld().Apply(core.UnitX)
}

// Left is the negation of Right
func (n Node) Left() core.Vec3 {
	return n.Right().Negate()
}

// Direction maps a local direction to world space by the linear part of the
// world transform only
func (n Node) Direction(local core.Vec3) core.Vec3 {
	return n.LocalToWorld().ApplyDirection(local)
}

// Rotate applies a rotation of angle radians about an axis through the origin
// of the parent space, after the current local transform.
func (n Node) Rotate(axis core.Vec3, angle float64) {
	if d := n.data(); d != nil {
		d.local = core.Rotation(axis, angle).Mul(d.local)
	}
}

// RotateAround rotates the node about an axis passing through point
func (n Node) RotateAround(point, axis core.Vec3, angle float64) {
	if d := n.data(); d != nil {
		r := core.Translation(point).
			Mul(core.Rotation(axis, angle)).
			Mul(core.Translation(point.Negate()))
		d.local = r.Mul(d.local)
	}
}

// Move translates the node by delta in parent space
func (n Node) Move(delta core.Vec3) {
	if d := n.data(); d != nil {
		d.local = core.Translation(delta).Mul(d.local)
	}
}

package rolloc

import "sync/atomic"

// nodeIDCounter is atomic: wheels may be laid out from several goroutines
// (one per HTTP request, for instance).
var nodeIDCounter atomic.Uint32

func nextNodeID() uint32 {
	return nodeIDCounter.Add(1)
}

// --- Node ---

// Node is the scene graph element produced by the Layout Builder and consumed
// by surfaces. A single flat struct is used for all node types; the fields
// that matter depend on Type.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local). Rotation is in radians, clockwise on screen, applied
	// around the pivot point.
	X, Y     float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	PivotX   float64
	PivotY   float64

	// Computed, updated by updateWorldTransform.
	worldTransform [6]float64
	transformDirty bool

	Visible bool

	// Appearance
	Fill        Color
	Stroke      Color
	StrokeWidth float64
	// ImageRef is an optional image reference used as a pattern fill by
	// surfaces that support it. Others fall back to Fill.
	ImageRef string

	// Shape data, in local coordinates.
	Radius float64 // NodeTypeCircle
	Path   Path    // NodeTypeWedge
	Points []Vec2  // NodeTypeLine (two points), NodeTypePolygon
	Text   string  // NodeTypeText

	// Metadata. Wedge and label nodes carry their item index here.
	UserData any

	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Visible = true
	n.transformDirty = true
}

// NewContainer creates a group node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewCircle creates a circle node of the given radius centered on its origin.
func NewCircle(name string, radius float64) *Node {
	n := &Node{Name: name, Type: NodeTypeCircle, Radius: radius}
	nodeDefaults(n)
	return n
}

// NewWedge creates a pie-slice node from a path in local coordinates.
func NewWedge(name string, path Path) *Node {
	n := &Node{Name: name, Type: NodeTypeWedge, Path: path}
	nodeDefaults(n)
	return n
}

// NewText creates a label node centered on its origin.
func NewText(name, content string) *Node {
	n := &Node{Name: name, Type: NodeTypeText, Text: content, Fill: ColorBlack}
	nodeDefaults(n)
	return n
}

// NewLine creates a stroked segment from a to b in local coordinates.
func NewLine(name string, a, b Vec2) *Node {
	n := &Node{Name: name, Type: NodeTypeLine, Points: []Vec2{a, b}, StrokeWidth: 1}
	nodeDefaults(n)
	return n
}

// NewPolygon creates a filled polygon node from points in local coordinates.
func NewPolygon(name string, points []Vec2) *Node {
	n := &Node{Name: name, Type: NodeTypePolygon, Points: points}
	nodeDefaults(n)
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("rolloc: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("rolloc: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("rolloc: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// Find returns the first descendant (depth-first, including n) with the given
// name, or nil.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Path = nil
	n.Points = nil
	n.UserData = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}

package rolloc

import "fmt"

// globalDebug enables disposed-node checks in tree operations. Set through
// SetDebugMode.
var globalDebug bool

// SetDebugMode enables or disables debug checks. When enabled, tree
// operations on disposed nodes panic with a descriptive message instead of
// silently corrupting the scene.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("rolloc debug: %s on disposed node %q", op, n.Name))
	}
}

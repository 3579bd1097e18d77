package graph

// Host is the environment nodes live in. It decides whether removed nodes
// are destroyed right away.
type Host interface {
	// Live reports whether the host is running. Nodes removed while the host
	// is not live are released from the workspace but never destroyed.
	Live() bool
	// Destroy is called once for every node removed while the host is live.
	Destroy(n *Node)
}

// EditorHost is an editing-only host. It is never live.
type EditorHost struct{}

// Live always returns false.
func (EditorHost) Live() bool { return false }

// Destroy does nothing.
func (EditorHost) Destroy(*Node) {}

// RuntimeHost is a live host. OnDestroy, if set, receives destroyed nodes.
type RuntimeHost struct {
	OnDestroy func(n *Node)
}

// Live always returns true.
func (h RuntimeHost) Live() bool { return true }

// Destroy forwards to OnDestroy.
func (h RuntimeHost) Destroy(n *Node) {
	if h.OnDestroy != nil {
		h.OnDestroy(n)
	}
}

var (
	_ Host = EditorHost{}
	_ Host = RuntimeHost{}
)

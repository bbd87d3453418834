package content

import "github.com/google/uuid"

// Snapshot is one immutable view of the content map. A resolution call
// acquires a snapshot once and holds it for the whole call; concurrent
// refreshes swap in new snapshots without disturbing in-flight resolutions.
type Snapshot interface {
	// Website returns the website scope with the given id.
	Website(id uuid.UUID) (*Website, bool)

	// Node returns the node of the given kind and id.
	Node(kind Kind, id uuid.UUID) (*Node, bool)
}

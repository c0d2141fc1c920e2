package drop

import "droplayer/pkg/geom"

// Tree creates, tags and positions overlay containers in the host's element
// tree. E is the host's element handle.
type Tree[E comparable] interface {
	CreateContainer() E
	SetID(el E, id string)
	SetClassName(el E, className string)
	// InsertFirst makes child the first child of root.
	InsertFirst(root, child E)
	Detach(el E)
	// ClearPlacement removes any position and width previously applied, so
	// the container measures at its intrinsic size.
	ClearPlacement(el E)
	ApplyPlacement(el E, p Placement)
}

// Geometry answers box queries. Every call reads the current layout.
type Geometry[E comparable] interface {
	BoundingBox(el E) geom.Box
	Viewport() geom.Size
	// ScrollAncestors returns every ancestor of el that scrolls on its own,
	// innermost first.
	ScrollAncestors(el E) []E
}

// Renderer mounts content of type C into a container.
type Renderer[E comparable, C any] interface {
	Render(content C, container E) error
	Unrender(container E)
}

// Signals delivers reposition triggers. Each subscription returns the
// function that releases it.
type Signals[E comparable] interface {
	OnScroll(el E, fn func()) (cancel func())
	OnResize(fn func()) (cancel func())
	// NextTick runs fn on a later turn of the host's event loop.
	NextTick(fn func()) (cancel func())
}

// Host is the full set of collaborators a Manager needs.
type Host[E comparable, C any] interface {
	Tree[E]
	Geometry[E]
	Renderer[E, C]
	Signals[E]
}

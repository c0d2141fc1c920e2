// Package drop keeps floating overlays ("drops") such as menus, tooltips and
// popovers anchored to the element that opened them.
//
// The package has three parts. Resolve normalises an alignment request and
// applies the defaults. Compute is the placement calculation: anchor box,
// overlay box, viewport and alignment in, left/top/width out. Manager and
// Drop own the lifecycle: they create the container, subscribe to the scroll
// and resize signals that move the anchor, and run a placement pass whenever
// one fires.
//
// The element tree itself is supplied by a Host. See package page for one
// backed by the html package.
package drop

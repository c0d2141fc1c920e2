package drop

// Drop is one live overlay. It owns its container and the subscriptions that
// keep it placed; the anchor is only referenced.
type Drop[E comparable, C any] struct {
	id            string
	manager       *Manager[E, C]
	anchor        E
	container     E
	opts          Options
	scrollParents []E
	subs          []func()
	cancelPending func()
	placement     Placement
	placed        bool
	active        bool
}

// ID returns the container id, unique per drop.
func (d *Drop[E, C]) ID() string { return d.id }

// Anchor returns the element the drop is anchored on.
func (d *Drop[E, C]) Anchor() E { return d.anchor }

// Container returns the overlay container.
func (d *Drop[E, C]) Container() E { return d.container }

// Options returns the resolved options.
func (d *Drop[E, C]) Options() Options { return d.opts }

// ScrollParents returns the scroll ancestors the drop listens to.
func (d *Drop[E, C]) ScrollParents() []E { return d.scrollParents }

// Active reports whether Remove has not been called yet.
func (d *Drop[E, C]) Active() bool { return d.active }

// Placement returns the last placement applied and whether there was one.
func (d *Drop[E, C]) Placement() (Placement, bool) {
	return d.placement, d.placed
}

// Place recomputes the overlay position from fresh geometry. It does nothing
// once the drop is removed.
func (d *Drop[E, C]) Place() {
	if !d.active {
		return
	}
	h := d.manager.host

	// Clear first: the container's own box must be measured without the
	// width from the previous pass.
	h.ClearPlacement(d.container)

	p := Compute(Input{
		Anchor:   h.BoundingBox(d.anchor),
		Overlay:  h.BoundingBox(d.container),
		Body:     h.BoundingBox(d.manager.root),
		Viewport: h.Viewport(),
		Align:    d.opts.Align,
	})
	h.ApplyPlacement(d.container, p)
	d.placement = p
	d.placed = true
}

// Render swaps the drop content and places the drop again on the next tick,
// once the new content has a size. A pending re-placement from an earlier
// Render is replaced. Render does nothing once the drop is removed.
func (d *Drop[E, C]) Render(content C) error {
	if !d.active {
		d.manager.logger.Debug("render on removed drop ignored", "id", d.id)
		return nil
	}
	h := d.manager.host
	if err := h.Render(content, d.container); err != nil {
		return err
	}
	if d.cancelPending != nil {
		d.cancelPending()
	}
	d.cancelPending = h.NextTick(func() {
		d.cancelPending = nil
		d.Place()
	})
	return nil
}

// Remove releases every subscription, unmounts the content and detaches the
// container, in that order. Calling it again does nothing.
func (d *Drop[E, C]) Remove() {
	if !d.active {
		return
	}
	d.active = false
	h := d.manager.host

	if d.cancelPending != nil {
		d.cancelPending()
		d.cancelPending = nil
	}
	for _, cancel := range d.subs {
		cancel()
	}
	d.subs = nil

	h.Unrender(d.container)
	h.Detach(d.container)
	d.manager.forget(d.id)
	d.manager.logger.Debug("drop removed", "id", d.id)
}

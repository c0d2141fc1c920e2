package drop

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const (
	DefaultBaseClass   = "drop"
	DefaultColorPrefix = "background-color-index-"
)

// Manager owns the drops placed under one overlay root. Several managers,
// each with its own root, can share a host.
//
// A Manager and its drops are not safe for concurrent use. Hosts call into
// them from a single event loop.
type Manager[E comparable, C any] struct {
	host        Host[E, C]
	root        E
	logger      *log.Logger
	baseClass   string
	colorPrefix string
	drops       map[string]*Drop[E, C]
	order       []string
}

// NewManager creates a manager that inserts containers under root.
func NewManager[E comparable, C any](host Host[E, C], root E) *Manager[E, C] {
	return &Manager[E, C]{
		host:        host,
		root:        root,
		logger:      log.Default(),
		baseClass:   DefaultBaseClass,
		colorPrefix: DefaultColorPrefix,
		drops:       make(map[string]*Drop[E, C]),
	}
}

// SetLogger sets the logger used for alignment warnings and lifecycle
// tracing.
func (m *Manager[E, C]) SetLogger(l *log.Logger) {
	if l != nil {
		m.logger = l
	}
}

// SetBaseClass sets the class every container carries.
func (m *Manager[E, C]) SetBaseClass(class string) {
	m.baseClass = class
}

// SetColorPrefix sets the class prefix applied to Options.ColorIndex.
func (m *Manager[E, C]) SetColorPrefix(prefix string) {
	m.colorPrefix = prefix
}

// Root returns the overlay root.
func (m *Manager[E, C]) Root() E {
	return m.root
}

// Add creates a drop anchored on anchor, renders content into it and places
// it before returning, so it is never shown unplaced.
func (m *Manager[E, C]) Add(anchor E, content C, opts Options) (*Drop[E, C], error) {
	resolved, warnings := Resolve(opts)
	for _, w := range warnings {
		m.logger.Warn("invalid drop alignment", "field", w.Field, "value", w.Value,
			"allowed", strings.Join(w.Allowed, ","))
	}

	d := &Drop[E, C]{
		id:      "drop-" + uuid.NewString(),
		manager: m,
		anchor:  anchor,
		opts:    resolved,
		active:  true,
	}

	h := m.host
	d.container = h.CreateContainer()
	h.SetID(d.container, d.id)
	h.SetClassName(d.container, m.className(resolved))
	// first child of the root, ahead of the page's own content
	h.InsertFirst(m.root, d.container)

	if err := h.Render(content, d.container); err != nil {
		h.Detach(d.container)
		return nil, fmt.Errorf("rendering drop content: %w", err)
	}

	d.scrollParents = h.ScrollAncestors(anchor)
	for _, sp := range d.scrollParents {
		d.subs = append(d.subs, h.OnScroll(sp, d.Place))
	}
	d.subs = append(d.subs, h.OnResize(d.Place))

	m.drops[d.id] = d
	m.order = append(m.order, d.id)
	m.logger.Debug("drop added", "id", d.id, "align", resolved.Align.String(),
		"scrollParents", len(d.scrollParents))

	d.Place()
	return d, nil
}

func (m *Manager[E, C]) className(opts Options) string {
	classes := make([]string, 0, 3)
	if m.baseClass != "" {
		classes = append(classes, m.baseClass)
	}
	if opts.ClassName != "" {
		classes = append(classes, opts.ClassName)
	}
	if opts.ColorIndex != "" {
		classes = append(classes, m.colorPrefix+opts.ColorIndex)
	}
	return strings.Join(classes, " ")
}

// Get returns the active drop with the given id.
func (m *Manager[E, C]) Get(id string) (*Drop[E, C], bool) {
	d, ok := m.drops[id]
	return d, ok
}

// Active returns the live drops in creation order.
func (m *Manager[E, C]) Active() []*Drop[E, C] {
	out := make([]*Drop[E, C], 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.drops[id])
	}
	return out
}

// Len returns the number of live drops.
func (m *Manager[E, C]) Len() int {
	return len(m.drops)
}

// PlaceAll re-places every live drop.
func (m *Manager[E, C]) PlaceAll() {
	for _, d := range m.Active() {
		d.Place()
	}
}

// RemoveAll removes every live drop, newest first.
func (m *Manager[E, C]) RemoveAll() {
	active := m.Active()
	for i := len(active) - 1; i >= 0; i-- {
		active[i].Remove()
	}
}

func (m *Manager[E, C]) forget(id string) {
	delete(m.drops, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

package resource

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/charmbracelet/log"

	"droplayer/pkg/drop"
	"droplayer/pkg/geom"
	"droplayer/pkg/html"
	"droplayer/pkg/js"
	"droplayer/pkg/page"
	"droplayer/pkg/render"
)

// Options configure a Session.
type Options struct {
	Viewport    geom.Size
	BaseClass   string // empty keeps drop.DefaultBaseClass
	ColorPrefix string // empty keeps drop.DefaultColorPrefix
	Logger      *log.Logger
	Measurer    page.TextMeasurer // nil keeps the gg measurer
	NoScripts   bool
}

// Session is a page with its drop manager and script engine wired together.
type Session struct {
	Page   *page.Page
	Drops  *drop.Manager[*html.Node, string]
	Engine *js.Engine
	logger *log.Logger
	class  string
}

// NewSession parses markup, lays it out in the viewport and runs its
// scripts. A failing script is logged and the session is still returned.
func NewSession(markup string, opts Options) (*Session, error) {
	return NewSessionContext(context.Background(), markup, opts)
}

// NewSessionContext is NewSession with the scripts bounded by ctx. Scripts
// still running when ctx is done are interrupted and the session is
// discarded.
func NewSessionContext(ctx context.Context, markup string, opts Options) (*Session, error) {
	p, err := page.Parse(markup, opts.Viewport)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	p.SetMeasurer(opts.Measurer)

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	m := drop.NewManager[*html.Node, string](p, p.Body())
	m.SetLogger(logger)
	class := drop.DefaultBaseClass
	if opts.BaseClass != "" {
		class = opts.BaseClass
		m.SetBaseClass(class)
	}
	if opts.ColorPrefix != "" {
		m.SetColorPrefix(opts.ColorPrefix)
	}

	e := js.New(p, m)
	e.SetLogger(logger)

	s := &Session{Page: p, Drops: m, Engine: e, logger: logger, class: class}
	if scripts := p.Document().Scripts; !opts.NoScripts && len(scripts) > 0 {
		logger.Debug("running scripts", "count", len(scripts))
		err := e.ExecuteContext(ctx, p.Document())
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("running scripts: %w", err)
		}
		if err != nil {
			logger.Error("script failed", "err", err)
		}
	}
	return s, nil
}

// Open loads uri and starts a session on it.
func Open(uri string, opts Options) (*Session, error) {
	markup, err := Load(uri)
	if err != nil {
		return nil, err
	}
	return NewSession(markup, opts)
}

// Place adds a drop anchored on the element with id anchorID.
func (s *Session) Place(anchorID, content string, opts drop.Options) (*drop.Drop[*html.Node, string], error) {
	anchor := s.Page.Element(anchorID)
	if anchor == nil {
		return nil, fmt.Errorf("anchor #%s not found", anchorID)
	}
	return s.Drops.Add(anchor, content, opts)
}

// Settle runs deferred work (re-placements after Render, script timeouts).
func (s *Session) Settle() int {
	return s.Engine.Drain()
}

// SettleContext is Settle bounded by ctx.
func (s *Session) SettleContext(ctx context.Context) int {
	return s.Engine.DrainContext(ctx)
}

// Render paints the page onto target. The viewport is not changed.
func (s *Session) Render(target *image.RGBA) {
	r := render.NewRendererForImage(target)
	r.SetDropClass(s.class)
	r.Render(s.Page)
}

// Snapshot renders the page at the viewport size.
func (s *Session) Snapshot() *render.Renderer {
	vp := s.Page.Viewport()
	r := render.NewRenderer(int(vp.Width), int(vp.Height))
	r.SetDropClass(s.class)
	r.Render(s.Page)
	return r
}

// Package js runs page scripts with goja. Scripts see a small DOM
// (document, element proxies), console, window scrolling, a one-tick
// setTimeout and the drop global that creates overlays.
package js

import (
	"context"
	"fmt"

	"droplayer/pkg/drop"
	"droplayer/pkg/html"
	"droplayer/pkg/page"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"
)

// maxTicks bounds how many rounds of deferred work Execute drains, so a
// script that keeps rescheduling itself cannot hang the caller.
const maxTicks = 64

// Engine executes JavaScript against a page and the drops placed on it.
type Engine struct {
	vm     *goja.Runtime
	page   *page.Page
	drops  *drop.Manager[*html.Node, string]
	logger *log.Logger
	dom    *domContext
}

// New creates an engine with a fresh goja runtime bound to p. Drops created
// by scripts go through m.
func New(p *page.Page, m *drop.Manager[*html.Node, string]) *Engine {
	vm := goja.New()
	e := &Engine{
		vm:     vm,
		page:   p,
		drops:  m,
		logger: log.Default(),
	}
	e.dom = registerDocument(vm, p)

	c := &consoleAPI{engine: e}
	c.register(vm)
	registerWindow(e)
	registerDrop(e)
	return e
}

// SetLogger sets the logger console output goes to.
func (e *Engine) SetLogger(l *log.Logger) {
	if l != nil {
		e.logger = l
	}
}

// Execute runs the document's scripts in order, then drains the work they
// deferred to the next tick. The first failing script stops execution.
func (e *Engine) Execute(doc *html.Document) error {
	return e.ExecuteContext(context.Background(), doc)
}

// ExecuteContext is Execute bounded by ctx: when ctx is done the running
// script is interrupted and ctx's error is returned.
func (e *Engine) ExecuteContext(ctx context.Context, doc *html.Document) error {
	defer e.interruptOn(ctx)()

	for i, script := range doc.Scripts {
		if _, err := e.vm.RunString(script); err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("script %d: %w", i, ctx.Err())
			}
			return fmt.Errorf("script %d: %w", i, err)
		}
	}
	e.drain(ctx)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("deferred scripts: %w", err)
	}
	return nil
}

// interruptOn interrupts the VM once ctx is done. The returned func stops
// watching and clears an interrupt that arrived after the last script.
func (e *Engine) interruptOn(ctx context.Context) func() {
	if ctx.Done() == nil {
		return func() {}
	}
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		e.vm.Interrupt(ctx.Err())
		close(fired)
	})
	return func() {
		if !stop() {
			<-fired
		}
		e.vm.ClearInterrupt()
	}
}

// RunString runs one script without draining deferred work.
func (e *Engine) RunString(src string) (goja.Value, error) {
	return e.vm.RunString(src)
}

// Drain runs deferred work until none is left and returns the number of
// tasks that ran.
func (e *Engine) Drain() int {
	return e.drain(context.Background())
}

// DrainContext is Drain bounded by ctx, interrupting a callback still
// running when ctx is done.
func (e *Engine) DrainContext(ctx context.Context) int {
	defer e.interruptOn(ctx)()
	return e.drain(ctx)
}

func (e *Engine) drain(ctx context.Context) int {
	total := 0
	for i := 0; i < maxTicks && ctx.Err() == nil; i++ {
		n := e.page.Tick()
		if n == 0 {
			break
		}
		total += n
	}
	if e.page.Pending() > 0 {
		e.logger.Warn("deferred work still pending", "tasks", e.page.Pending())
	}
	return total
}

// droptui shows a page in the terminal with one drop attached to an anchor.
// Arrow keys and PgUp/PgDn scroll the page, Tab scrolls the anchor's nearest
// scrolling container, d toggles the drop, q or Esc quits.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"droplayer/pkg/drop"
	"droplayer/pkg/geom"
	"droplayer/pkg/html"
	"droplayer/pkg/page"
	"droplayer/pkg/resource"
	"droplayer/pkg/term"
)

// tickInterval paces the page's next-tick queue.
const tickInterval = 16 * time.Millisecond

type viewer struct {
	screen  tcell.Screen
	session *resource.Session
	anchor  string
	content string
	opts    drop.Options
	current *drop.Drop[*html.Node, string]
	logger  *log.Logger
}

func main() {
	anchor := flag.String("anchor", "", "id of the anchor element")
	content := flag.String("content", `<div style="width: 20px; height: 5px; background-color: #334455">menu</div>`, "drop content")
	align := flag.String("align", "top=bottom", "drop alignment")
	logFile := flag.String("log", "", "write logs to this file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: droptui [flags] <page>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), *anchor, *content, *align, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "droptui: %v\n", err)
		os.Exit(1)
	}
}

func run(uri, anchor, content, align, logFile string) error {
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger := log.NewWithOptions(logOut, log.Options{ReportTimestamp: true, TimeFormat: "15:04:05.00", Level: log.DebugLevel})

	a, err := drop.ParseAlign(align)
	if err != nil {
		return err
	}
	markup, err := resource.Load(uri)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	w, h := screen.Size()
	s, err := resource.NewSession(markup, resource.Options{
		Viewport: geom.Size{Width: float64(w), Height: float64(h)},
		Logger:   logger,
		Measurer: page.CellMeasurer{},
	})
	if err != nil {
		return err
	}

	v := &viewer{
		screen:  screen,
		session: s,
		anchor:  anchor,
		content: content,
		opts:    drop.Options{Align: a},
		logger:  logger,
	}
	if anchor != "" {
		v.toggle()
	}
	v.loop()
	return nil
}

func (v *viewer) toggle() {
	if v.current != nil {
		v.current.Remove()
		v.current = nil
		return
	}
	d, err := v.session.Place(v.anchor, v.content, v.opts)
	if err != nil {
		v.logger.Error("adding drop", "err", err)
		return
	}
	v.current = d
}

// scrollInner scrolls the innermost scrolling container of the anchor.
func (v *viewer) scrollInner(dy float64) {
	if v.current == nil {
		return
	}
	parents := v.current.ScrollParents()
	p := v.session.Page
	el := parents[0]
	p.ScrollTo(el, p.ScrollTop(el)+dy)
}

func (v *viewer) handle(ev tcell.Event) bool {
	p := v.session.Page
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			p.ScrollWindow(p.WindowScroll() - 1)
		case tcell.KeyDown:
			p.ScrollWindow(p.WindowScroll() + 1)
		case tcell.KeyPgUp:
			p.ScrollWindow(p.WindowScroll() - p.Viewport().Height)
		case tcell.KeyPgDn:
			p.ScrollWindow(p.WindowScroll() + p.Viewport().Height)
		case tcell.KeyTab:
			v.scrollInner(1)
		case tcell.KeyBacktab:
			v.scrollInner(-1)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'd':
				v.toggle()
			}
		}
	case *tcell.EventResize:
		w, h := ev.Size()
		v.screen.Sync()
		p.Resize(geom.Size{Width: float64(w), Height: float64(h)})
	}
	return true
}

func (v *viewer) loop() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	term.Draw(v.screen, v.session.Page)
	for {
		select {
		case ev := <-events:
			if !v.handle(ev) {
				return
			}
			term.Draw(v.screen, v.session.Page)
		case <-ticker.C:
			if v.session.Page.Tick() > 0 {
				term.Draw(v.screen, v.session.Page)
			}
		}
	}
}

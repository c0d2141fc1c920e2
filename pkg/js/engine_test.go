package js

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"droplayer/pkg/drop"
	"droplayer/pkg/geom"
	"droplayer/pkg/html"
	"droplayer/pkg/page"

	"github.com/charmbracelet/log"
)

type fixedMeasurer struct{}

func (fixedMeasurer) MeasureText(s string) (float64, float64) {
	return float64(len([]rune(s))) * 8, 16
}

const testPage = `<div id="header" style="height: 40px"></div>
<div id="scroller" style="overflow: auto; height: 200px; width: 300px">
  <div style="height: 460px"></div>
  <button id="anchor" style="width: 100px; height: 20px; left: 10px">Open</button>
  <div style="height: 400px"></div>
</div>`

type fixture struct {
	page   *page.Page
	drops  *drop.Manager[*html.Node, string]
	engine *Engine
	logs   *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	p, err := page.Parse(testPage, geom.Size{Width: 800, Height: 600})
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	p.SetMeasurer(fixedMeasurer{})

	var buf bytes.Buffer
	logger := log.New(&buf)
	m := drop.NewManager[*html.Node, string](p, p.Body())
	m.SetLogger(logger)
	e := New(p, m)
	e.SetLogger(logger)
	return &fixture{page: p, drops: m, engine: e, logs: &buf}
}

// run executes src as the document's only script.
func (f *fixture) run(t *testing.T, src string) {
	t.Helper()
	doc := f.page.Document()
	doc.Scripts = []string{src}
	if err := f.engine.Execute(doc); err != nil {
		t.Fatal(err)
	}
}

func TestGetElementById(t *testing.T) {
	f := newFixture(t)
	f.run(t, `
		var el = document.getElementById("anchor");
		if (el === null) throw new Error("element not found");
		if (el.id !== "anchor") throw new Error("wrong id: " + el.id);
		if (el.tagName !== "BUTTON") throw new Error("wrong tagName: " + el.tagName);
		if (el !== document.getElementById("anchor")) throw new Error("proxy identity lost");
		if (document.getElementById("nope") !== null) throw new Error("expected null");
		if (el.parentElement.id !== "scroller") throw new Error("wrong parent");
	`)
}

func TestElementMutation(t *testing.T) {
	f := newFixture(t)
	f.run(t, `
		var el = document.createElement("div");
		el.id = "made";
		el.className = "box wide";
		el.style.backgroundColor = "yellow";
		el.style.height = "10px";
		el.innerHTML = "<span>one</span><span>two</span>";
		document.body.appendChild(el);
		if (el.children.length !== 2) throw new Error("children: " + el.children.length);
		if (el.textContent !== "onetwo") throw new Error("textContent: " + el.textContent);
		if (el.style.backgroundColor !== "yellow") throw new Error("style read back: " + el.style.backgroundColor);
		if (document.getElementsByClassName("wide").length !== 1) throw new Error("class lookup");
	`)

	n := f.page.Element("made")
	if n == nil {
		t.Fatal("appended element not in document")
	}
	if got, _ := n.GetAttribute("style"); got != "background-color: yellow; height: 10px" {
		t.Errorf("style = %q", got)
	}
}

func TestConsoleGoesToLogger(t *testing.T) {
	f := newFixture(t)
	f.run(t, `console.log("hello", 42); console.warn("careful");`)
	out := f.logs.String()
	if !strings.Contains(out, "hello 42") || !strings.Contains(out, "careful") {
		t.Errorf("log output = %q", out)
	}
}

func TestDropAdd(t *testing.T) {
	f := newFixture(t)
	f.run(t, `
		var d = drop.add(document.getElementById("anchor"),
			'<div style="width: 150px; height: 300px">menu</div>',
			{className: "menu", colorIndex: 2});
		var p = d.placement();
		if (p.left !== 10 || p.top !== 300 || p.width !== 150) {
			throw new Error("placement: " + JSON.stringify(p));
		}
		if (d.element.className !== "drop menu background-color-index-2") {
			throw new Error("class: " + d.element.className);
		}
		if (d.id.indexOf("drop-") !== 0) throw new Error("id: " + d.id);
		if (drop.active().length !== 1) throw new Error("active");
	`)
	if f.drops.Len() != 1 {
		t.Errorf("manager has %d drops", f.drops.Len())
	}
}

func TestDropAddLegacyOptions(t *testing.T) {
	f := newFixture(t)
	f.run(t, `
		var d = drop.add(document.getElementById("anchor"),
			'<div style="width: 150px; height: 300px"></div>',
			{top: "bottom", className: "ignored"});
		if (d.placement().viewportTop !== 200) throw new Error("not flipped: " + d.placement().viewportTop);
		if (d.element.className !== "drop") throw new Error("class: " + d.element.className);
	`)
}

func TestDropInvalidAlignmentWarns(t *testing.T) {
	f := newFixture(t)
	f.run(t, `drop.add(document.getElementById("anchor"), "<p>x</p>", {align: {top: "middle"}});`)
	if !strings.Contains(f.logs.String(), "invalid drop alignment") {
		t.Errorf("no warning logged: %q", f.logs.String())
	}
}

func TestDropFollowsScrollTop(t *testing.T) {
	f := newFixture(t)
	f.run(t, `
		var d = drop.add(document.getElementById("anchor"),
			'<div style="width: 150px; height: 300px"></div>', {align: {top: "bottom"}});
		document.getElementById("scroller").scrollTop = 300;
		if (d.placement().viewportTop !== 220) throw new Error("after scrollTop: " + d.placement().viewportTop);
		window.scrollTo(0, 50);
		if (window.scrollY !== 50) throw new Error("scrollY: " + window.scrollY);
		var p = d.placement();
		if (p.viewportTop !== 170 || p.top !== 220) throw new Error("after scrollTo: " + JSON.stringify(p));
	`)
}

func TestDropRenderPlacesAfterScripts(t *testing.T) {
	f := newFixture(t)
	f.run(t, `
		var d = drop.add(document.getElementById("anchor"), '<div style="width: 150px; height: 10px"></div>');
		d.render('<div style="width: 420px; height: 10px"></div>');
		if (d.placement().width !== 150) throw new Error("placed before tick");
		globalThis.last = d;
	`)
	v, err := f.engine.RunString(`last.placement().width`)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.ToFloat(); got != 420 {
		t.Errorf("width after Execute = %v, want 420", got)
	}
}

func TestDropRemove(t *testing.T) {
	f := newFixture(t)
	f.run(t, `
		var d = drop.add(document.getElementById("anchor"), "<p>x</p>");
		d.render("<p>y</p>");
		d.remove();
		d.remove();
		if (d.active) throw new Error("still active");
		d.render("<p>z</p>");
		if (drop.active().length !== 0) throw new Error("still tracked");
	`)
	if f.page.Listeners() != 0 || f.page.Pending() != 0 {
		t.Errorf("listeners = %d, pending = %d", f.page.Listeners(), f.page.Pending())
	}
}

func TestDropAddRejectsNonElement(t *testing.T) {
	f := newFixture(t)
	doc := f.page.Document()
	doc.Scripts = []string{`drop.add("anchor", "<p>x</p>")`}
	if err := f.engine.Execute(doc); err == nil {
		t.Fatal("expected error for non-element anchor")
	}
	doc.Scripts = []string{`drop.add(document.body, "<p>x</p>", "top")`}
	if err := f.engine.Execute(doc); err == nil {
		t.Fatal("expected error for string options")
	}
}

func TestSetTimeoutRunsOnTick(t *testing.T) {
	f := newFixture(t)
	f.run(t, `
		globalThis.ran = [];
		setTimeout(function() { ran.push("a"); setTimeout(function() { ran.push("b"); }); });
		var id = setTimeout(function() { ran.push("never"); });
		clearTimeout(id);
		if (ran.length !== 0) throw new Error("ran synchronously");
	`)
	v, err := f.engine.RunString(`ran.join(",")`)
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "a,b" {
		t.Errorf("ran = %q, want a,b", v.String())
	}
}

func TestWindowResizeReplaces(t *testing.T) {
	f := newFixture(t)
	f.run(t, `
		var d = drop.add(document.getElementById("anchor"), '<div style="width: 150px; height: 300px"></div>');
		window.resizeTo(100, 600);
		if (window.innerWidth !== 100) throw new Error("innerWidth: " + window.innerWidth);
		if (d.placement().width !== 100) throw new Error("width: " + d.placement().width);
	`)
}

func TestCamelToKebab(t *testing.T) {
	tests := map[string]string{
		"backgroundColor": "background-color",
		"fontSize":        "font-size",
		"color":           "color",
		"cssFloat":        "float",
	}
	for in, want := range tests {
		if got := camelToKebab(in); got != want {
			t.Errorf("camelToKebab(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExecuteContextInterruptsScript(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"busy loop", `while (true) {}`},
		{"busy timeout", `setTimeout(function () { while (true) {} })`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			doc := f.page.Document()
			doc.Scripts = []string{tt.src}

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			done := make(chan error, 1)
			go func() { done <- f.engine.ExecuteContext(ctx, doc) }()

			select {
			case err := <-done:
				if !errors.Is(err, context.DeadlineExceeded) {
					t.Fatalf("err = %v, want deadline exceeded", err)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("script still running after its deadline")
			}

			// the runtime is usable again once the interrupt is cleared
			v, err := f.engine.RunString(`1 + 1`)
			if err != nil || v.ToInteger() != 2 {
				t.Errorf("RunString after interrupt = %v, %v", v, err)
			}
		})
	}
}

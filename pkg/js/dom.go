package js

import (
	"math"
	"strings"
	"unicode"

	"droplayer/pkg/css"
	"droplayer/pkg/html"
	"droplayer/pkg/page"

	"github.com/dop251/goja"
)

// domContext holds shared state for DOM bindings. It caches one proxy per
// *html.Node so the same JS object comes back for the same node (===).
type domContext struct {
	vm    *goja.Runtime
	page  *page.Page
	cache map[*html.Node]*goja.Object
}

// registerDocument sets up the global `document` object.
func registerDocument(vm *goja.Runtime, p *page.Page) *domContext {
	ctx := &domContext{
		vm:    vm,
		page:  p,
		cache: make(map[*html.Node]*goja.Object),
	}
	doc := p.Document()

	docObj := vm.NewObject()
	docObj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		node := doc.GetElementByID(call.Argument(0).String())
		if node == nil {
			return goja.Null()
		}
		return ctx.elementProxy(node)
	})
	docObj.Set("getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		cls := call.Argument(0).String()
		var nodes []*html.Node
		doc.Root.Walk(func(n *html.Node) {
			if n.Type == html.ElementNode && n.HasClass(cls) {
				nodes = append(nodes, n)
			}
		})
		return ctx.elementArray(nodes)
	})
	docObj.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(vm.NewTypeError("Failed to execute 'createElement' on 'Document': 1 argument required"))
		}
		return ctx.elementProxy(html.NewElement(strings.ToLower(call.Arguments[0].String())))
	})
	docObj.DefineAccessorProperty("body", vm.ToValue(func(goja.FunctionCall) goja.Value {
		return ctx.elementProxy(p.Body())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	vm.Set("document", docObj)
	return ctx
}

func (ctx *domContext) elementArray(nodes []*html.Node) goja.Value {
	vals := make([]interface{}, len(nodes))
	for i, n := range nodes {
		vals[i] = ctx.elementProxy(n)
	}
	return ctx.vm.NewArray(vals...)
}

// elementProxy creates (or retrieves from cache) a DynamicObject wrapping
// node.
func (ctx *domContext) elementProxy(node *html.Node) *goja.Object {
	if v, ok := ctx.cache[node]; ok {
		return v
	}
	v := ctx.vm.NewDynamicObject(&elementAccessor{ctx: ctx, node: node})
	ctx.cache[node] = v
	return v
}

// unwrapNode returns the node behind an element proxy, or nil.
func (ctx *domContext) unwrapNode(val goja.Value) *html.Node {
	if val == nil || goja.IsNull(val) || goja.IsUndefined(val) {
		return nil
	}
	obj := val.ToObject(ctx.vm)
	for node, cached := range ctx.cache {
		if cached.SameAs(obj) {
			return node
		}
	}
	return nil
}

// mustNode is unwrapNode for required arguments; it throws a TypeError.
func (ctx *domContext) mustNode(val goja.Value, what string) *html.Node {
	n := ctx.unwrapNode(val)
	if n == nil {
		panic(ctx.vm.NewTypeError(what + " is not an element"))
	}
	return n
}

// elementAccessor implements goja.DynamicObject over an html.Node.
type elementAccessor struct {
	ctx  *domContext
	node *html.Node
}

var elementKeys = []string{
	"tagName", "nodeType", "id", "className", "textContent",
	"innerHTML", "outerHTML", "style", "children", "parentElement",
	"getAttribute", "setAttribute", "removeAttribute",
	"appendChild", "removeChild", "remove", "contains",
	"scrollTop", "getBoundingClientRect",
}

func (e *elementAccessor) Get(key string) goja.Value {
	vm := e.ctx.vm
	n := e.node

	switch key {
	case "nodeType":
		if n.Type == html.TextNode {
			return vm.ToValue(3)
		}
		return vm.ToValue(1)
	case "tagName":
		if n.Type == html.TextNode {
			return goja.Undefined()
		}
		return vm.ToValue(strings.ToUpper(n.TagName))
	case "id":
		return vm.ToValue(n.ID())
	case "className":
		return vm.ToValue(n.ClassName())
	case "textContent":
		return vm.ToValue(n.TextContent())
	case "innerHTML":
		return vm.ToValue(n.Serialize())
	case "outerHTML":
		return vm.ToValue(n.SerializeOuter())
	case "style":
		return vm.NewDynamicObject(&styleAccessor{vm: vm, node: n})
	case "children":
		var kids []*html.Node
		for _, c := range n.Children {
			if c.Type == html.ElementNode {
				kids = append(kids, c)
			}
		}
		return e.ctx.elementArray(kids)
	case "parentElement":
		if n.Parent != nil && n.Parent.Type == html.ElementNode && n.Parent.TagName != "document" {
			return e.ctx.elementProxy(n.Parent)
		}
		return goja.Null()
	case "scrollTop":
		return vm.ToValue(e.ctx.page.ScrollTop(n))

	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			val, ok := n.GetAttribute(call.Argument(0).String())
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(val)
		})
	case "setAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			n.SetAttribute(call.Argument(0).String(), call.Argument(1).String())
			return goja.Undefined()
		})
	case "removeAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			n.RemoveAttribute(call.Argument(0).String())
			return goja.Undefined()
		})
	case "appendChild":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			child := e.ctx.mustNode(call.Argument(0), "appendChild argument")
			if child.Contains(n) {
				panic(vm.NewTypeError("appendChild would create a cycle"))
			}
			n.AddChild(child)
			return call.Argument(0)
		})
	case "removeChild":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			child := e.ctx.mustNode(call.Argument(0), "removeChild argument")
			if n.RemoveChild(child) == nil {
				panic(vm.NewTypeError("removeChild argument is not a child"))
			}
			return call.Argument(0)
		})
	case "remove":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			if n.Parent != nil {
				n.Parent.RemoveChild(n)
			}
			return goja.Undefined()
		})
	case "contains":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			other := e.ctx.unwrapNode(call.Argument(0))
			return vm.ToValue(other != nil && n.Contains(other))
		})
	case "getBoundingClientRect":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			b := e.ctx.page.BoundingBox(n)
			return vm.ToValue(map[string]float64{
				"left": b.Left, "top": b.Top, "right": b.Right(), "bottom": b.Bottom(),
				"width": b.Width, "height": b.Height,
			})
		})
	}
	return goja.Undefined()
}

func (e *elementAccessor) Set(key string, val goja.Value) bool {
	n := e.node
	switch key {
	case "textContent":
		n.SetTextContent(val.String())
	case "className":
		n.SetClassName(val.String())
	case "id":
		n.SetAttribute("id", val.String())
	case "innerHTML":
		nodes, err := html.ParseFragment(val.String())
		if err != nil {
			panic(e.ctx.vm.NewGoError(err))
		}
		n.RemoveChildren()
		for _, c := range nodes {
			n.AddChild(c)
		}
	case "scrollTop":
		e.ctx.page.ScrollTo(n, val.ToFloat())
	default:
		return false
	}
	return true
}

func (e *elementAccessor) Has(key string) bool {
	for _, k := range elementKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (e *elementAccessor) Delete(key string) bool {
	return false
}

func (e *elementAccessor) Keys() []string {
	return elementKeys
}

// styleAccessor maps camelCase property access onto the node's inline
// style.
type styleAccessor struct {
	vm   *goja.Runtime
	node *html.Node
}

func (s *styleAccessor) Get(key string) goja.Value {
	if key == "cssText" {
		return s.vm.ToValue(s.node.Style().String())
	}
	val, _ := s.node.Style().Get(camelToKebab(key))
	return s.vm.ToValue(val)
}

func (s *styleAccessor) Set(key string, val goja.Value) bool {
	if key == "cssText" {
		s.node.SetStyle(css.ParseInlineStyle(val.String()))
		return true
	}
	style := s.node.Style()
	if v := val.String(); v == "" {
		style.Delete(camelToKebab(key))
	} else {
		style.Set(camelToKebab(key), v)
	}
	s.node.SetStyle(style)
	return true
}

func (s *styleAccessor) Has(key string) bool {
	return true
}

func (s *styleAccessor) Delete(key string) bool {
	style := s.node.Style()
	style.Delete(camelToKebab(key))
	s.node.SetStyle(style)
	return true
}

func (s *styleAccessor) Keys() []string {
	return s.node.Style().Keys()
}

// camelToKebab converts a JS camelCase property name to CSS kebab-case.
func camelToKebab(s string) string {
	if s == "cssFloat" {
		return "float"
	}
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// numberArg reads argument i as a number, 0 when absent.
func numberArg(call goja.FunctionCall, i int) float64 {
	v := call.Argument(i)
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return 0
	}
	f := v.ToFloat()
	if math.IsNaN(f) {
		return 0
	}
	return f
}

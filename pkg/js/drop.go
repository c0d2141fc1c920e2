package js

import (
	"droplayer/pkg/drop"
	"droplayer/pkg/html"

	"github.com/dop251/goja"
)

type pageDrop = drop.Drop[*html.Node, string]

// registerDrop sets up the `drop` global:
//
//	var d = drop.add(anchor, "<ul>...</ul>", {align: {top: "bottom"}, className: "menu"});
//	d.render("<p>loading</p>");
//	d.remove();
//
// The options object may also use the older flat alignment shape
// ({top: "bottom", left: "left"}).
func registerDrop(e *Engine) {
	vm := e.vm

	obj := vm.NewObject()
	obj.Set("add", func(call goja.FunctionCall) goja.Value {
		anchor := e.dom.mustNode(call.Argument(0), "drop anchor")
		content := stringArg(call, 1)

		var raw map[string]any
		if v := call.Argument(2); !goja.IsUndefined(v) && !goja.IsNull(v) {
			m, ok := v.Export().(map[string]any)
			if !ok {
				panic(vm.NewTypeError("drop options must be an object"))
			}
			raw = m
		}

		d, err := e.drops.Add(anchor, content, drop.OptionsFromMap(raw))
		if err != nil {
			panic(vm.NewGoError(err))
		}
		return e.dropObject(d)
	})
	obj.Set("active", func(goja.FunctionCall) goja.Value {
		active := e.drops.Active()
		ids := make([]interface{}, len(active))
		for i, d := range active {
			ids[i] = d.ID()
		}
		return vm.NewArray(ids...)
	})
	obj.Set("placeAll", func(goja.FunctionCall) goja.Value {
		e.drops.PlaceAll()
		return goja.Undefined()
	})
	obj.Set("removeAll", func(goja.FunctionCall) goja.Value {
		e.drops.RemoveAll()
		return goja.Undefined()
	})
	vm.Set("drop", obj)
}

func (e *Engine) dropObject(d *pageDrop) goja.Value {
	vm := e.vm
	obj := vm.NewObject()
	obj.Set("id", d.ID())
	obj.Set("element", e.dom.elementProxy(d.Container()))
	obj.Set("place", func(goja.FunctionCall) goja.Value {
		d.Place()
		return goja.Undefined()
	})
	obj.Set("render", func(call goja.FunctionCall) goja.Value {
		if err := d.Render(stringArg(call, 0)); err != nil {
			panic(vm.NewGoError(err))
		}
		return goja.Undefined()
	})
	obj.Set("remove", func(goja.FunctionCall) goja.Value {
		d.Remove()
		return goja.Undefined()
	})
	obj.Set("placement", func(goja.FunctionCall) goja.Value {
		p, ok := d.Placement()
		if !ok {
			return goja.Null()
		}
		return vm.ToValue(map[string]float64{
			"left": p.Left, "top": p.Top, "width": p.Width, "viewportTop": p.ViewportTop,
		})
	})
	obj.DefineAccessorProperty("active", vm.ToValue(func(goja.FunctionCall) goja.Value {
		return vm.ToValue(d.Active())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	return obj
}

// stringArg reads argument i as a string, "" when absent.
func stringArg(call goja.FunctionCall, i int) string {
	v := call.Argument(i)
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}

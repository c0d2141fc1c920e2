package js

import (
	"droplayer/pkg/geom"

	"github.com/dop251/goja"
)

// registerWindow sets up `window` plus the global setTimeout/clearTimeout.
// Timeouts ignore their delay and run on the page's next tick.
func registerWindow(e *Engine) {
	vm := e.vm
	p := e.page

	win := vm.NewObject()
	win.Set("scrollTo", func(call goja.FunctionCall) goja.Value {
		// scrollTo(y) or scrollTo(x, y); only the vertical offset is kept
		y := numberArg(call, 0)
		if len(call.Arguments) > 1 {
			y = numberArg(call, 1)
		}
		p.ScrollWindow(y)
		return goja.Undefined()
	})
	win.Set("resizeTo", func(call goja.FunctionCall) goja.Value {
		p.Resize(geom.Size{Width: numberArg(call, 0), Height: numberArg(call, 1)})
		return goja.Undefined()
	})
	getter := func(fn func() float64) goja.Value {
		return vm.ToValue(func(goja.FunctionCall) goja.Value { return vm.ToValue(fn()) })
	}
	win.DefineAccessorProperty("scrollY", getter(p.WindowScroll), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	win.DefineAccessorProperty("innerWidth", getter(func() float64 { return p.Viewport().Width }),
		nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	win.DefineAccessorProperty("innerHeight", getter(func() float64 { return p.Viewport().Height }),
		nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	vm.Set("window", win)

	timers := make(map[int64]func())
	var next int64
	vm.Set("setTimeout", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(vm.NewTypeError("setTimeout callback is not a function"))
		}
		next++
		id := next
		timers[id] = p.NextTick(func() {
			delete(timers, id)
			if _, err := fn(goja.Undefined()); err != nil {
				e.logger.Error("timeout callback failed", "err", err)
			}
		})
		return vm.ToValue(id)
	})
	vm.Set("clearTimeout", func(call goja.FunctionCall) goja.Value {
		id := call.Argument(0).ToInteger()
		if cancel, ok := timers[id]; ok {
			cancel()
			delete(timers, id)
		}
		return goja.Undefined()
	})
}

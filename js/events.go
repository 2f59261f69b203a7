package js

import (
	"sync"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/minidom/dom"
)

// EventBinder exposes dom events to JavaScript: the Event and CustomEvent
// constructors, and the EventTarget methods of bound nodes.
type EventBinder struct {
	runtime *Runtime
	binder  *DOMBinder

	mu sync.Mutex
	// listeners maps a JavaScript function to its dom.Listener so that
	// removeEventListener with the same function finds the registration.
	listeners map[*goja.Object]*dom.Listener
	// events caches the wrapper of each dom.Event so listeners along the
	// path observe the same object.
	events map[*dom.Event]*goja.Object
}

// NewEventBinder creates a new event binder resolving nodes through binder.
func NewEventBinder(runtime *Runtime, binder *DOMBinder) *EventBinder {
	return &EventBinder{
		runtime:   runtime,
		binder:    binder,
		listeners: make(map[*goja.Object]*dom.Listener),
		events:    make(map[*dom.Event]*goja.Object),
	}
}

// listenerFor returns the dom.Listener for a JavaScript function, creating
// it on first use. With create false it returns nil for unknown functions.
func (eb *EventBinder) listenerFor(fn *goja.Object, callback goja.Callable, create bool) *dom.Listener {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if l, ok := eb.listeners[fn]; ok {
		return l
	}
	if !create {
		return nil
	}

	l := dom.NewListener(func(event *dom.Event) error {
		this := eb.binder.nullable(eb.binder.BindNode(event.CurrentTarget()))
		_, err := callback(this, eb.WrapEvent(event))
		return err
	})
	eb.listeners[fn] = l
	return l
}

// parseListenerOptions reads the third argument of add/removeEventListener,
// which is either a capture boolean or an options object.
func (eb *EventBinder) parseListenerOptions(call goja.FunctionCall) dom.ListenerOptions {
	var opts dom.ListenerOptions
	if len(call.Arguments) < 3 {
		return opts
	}
	arg := call.Arguments[2]
	if goja.IsUndefined(arg) || goja.IsNull(arg) {
		return opts
	}
	obj, ok := arg.(*goja.Object)
	if !ok {
		opts.Capture = arg.ToBoolean()
		return opts
	}
	if v := obj.Get("capture"); v != nil {
		opts.Capture = v.ToBoolean()
	}
	if v := obj.Get("once"); v != nil {
		opts.Once = v.ToBoolean()
	}
	return opts
}

// BindEventTarget adds EventTarget interface methods to a bound node object.
func (eb *EventBinder) BindEventTarget(obj *goja.Object) {
	vm := eb.runtime.vm
	node := eb.binder.getGoNode(obj)
	if node == nil {
		return
	}

	obj.Set("addEventListener", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			return goja.Undefined()
		}

		eventType := call.Arguments[0].String()
		callback, ok := goja.AssertFunction(call.Arguments[1])
		if !ok {
			return goja.Undefined()
		}
		fn := call.Arguments[1].ToObject(vm)

		node.AddEventListener(eventType, eb.listenerFor(fn, callback, true), eb.parseListenerOptions(call))
		return goja.Undefined()
	})

	obj.Set("removeEventListener", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			return goja.Undefined()
		}

		eventType := call.Arguments[0].String()
		if _, ok := goja.AssertFunction(call.Arguments[1]); !ok {
			return goja.Undefined()
		}
		l := eb.listenerFor(call.Arguments[1].ToObject(vm), nil, false)
		if l == nil {
			return goja.Undefined()
		}

		node.RemoveEventListener(eventType, l, eb.parseListenerOptions(call).Capture)
		return goja.Undefined()
	})

	obj.Set("dispatchEvent", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(vm.NewTypeError("Failed to execute 'dispatchEvent' on 'EventTarget': 1 argument required, but only 0 present."))
		}

		event := eb.getGoEvent(call.Arguments[0])
		if event == nil {
			panic(vm.NewTypeError("Failed to execute 'dispatchEvent' on 'EventTarget': parameter 1 is not of type 'Event'."))
		}

		return vm.ToValue(node.DispatchEvent(event))
	})
}

// getGoEvent extracts the *dom.Event behind a JavaScript event object.
func (eb *EventBinder) getGoEvent(v goja.Value) *dom.Event {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	if goEvent := obj.Get("_goEvent"); goEvent != nil && !goja.IsUndefined(goEvent) {
		if event, ok := goEvent.Export().(*dom.Event); ok {
			return event
		}
	}
	return nil
}

// WrapEvent returns the JavaScript object for event, creating it on first use.
func (eb *EventBinder) WrapEvent(event *dom.Event) *goja.Object {
	eb.mu.Lock()
	if obj, ok := eb.events[event]; ok {
		eb.mu.Unlock()
		return obj
	}
	eb.mu.Unlock()

	obj := eb.newEventObject(event)

	eb.mu.Lock()
	eb.events[event] = obj
	eb.mu.Unlock()
	return obj
}

// newEventObject builds the JavaScript view of event. Every property reads
// through to the Go event, so state changes made in Go are visible.
func (eb *EventBinder) newEventObject(event *dom.Event) *goja.Object {
	vm := eb.runtime.vm
	b := eb.binder
	obj := vm.NewObject()

	obj.Set("_goEvent", event)

	getter := func(name string, fn func() goja.Value) {
		obj.DefineAccessorProperty(name, vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return fn()
		}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	}

	getter("type", func() goja.Value { return vm.ToValue(event.Type()) })
	getter("bubbles", func() goja.Value { return vm.ToValue(event.Bubbles()) })
	getter("cancelable", func() goja.Value { return vm.ToValue(event.Cancelable()) })
	getter("eventPhase", func() goja.Value { return vm.ToValue(int(event.EventPhase())) })
	getter("defaultPrevented", func() goja.Value { return vm.ToValue(event.DefaultPrevented()) })
	getter("target", func() goja.Value { return b.nullable(b.BindNode(event.Target())) })
	getter("currentTarget", func() goja.Value { return b.nullable(b.BindNode(event.CurrentTarget())) })
	getter("detail", func() goja.Value {
		switch d := event.Detail().(type) {
		case nil:
			return goja.Null()
		case goja.Value:
			return d
		default:
			return vm.ToValue(d)
		}
	})

	// Methods
	obj.Set("preventDefault", func(call goja.FunctionCall) goja.Value {
		event.PreventDefault()
		return goja.Undefined()
	})

	obj.Set("stopPropagation", func(call goja.FunctionCall) goja.Value {
		event.StopPropagation()
		return goja.Undefined()
	})

	obj.Set("stopImmediatePropagation", func(call goja.FunctionCall) goja.Value {
		event.StopImmediatePropagation()
		return goja.Undefined()
	})

	obj.Set("composedPath", func(call goja.FunctionCall) goja.Value {
		path := event.ComposedPath()
		items := make([]interface{}, 0, len(path))
		// Innermost first, as the DOM reports it.
		for i := len(path) - 1; i >= 0; i-- {
			items = append(items, b.BindNode(path[i]))
		}
		return vm.NewArray(items...)
	})

	// Constants
	obj.Set("NONE", int(dom.EventPhaseNone))
	obj.Set("CAPTURING_PHASE", int(dom.EventPhaseCapturing))
	obj.Set("AT_TARGET", int(dom.EventPhaseAtTarget))
	obj.Set("BUBBLING_PHASE", int(dom.EventPhaseBubbling))

	return obj
}

// eventInit reads an EventInit dictionary argument.
func (eb *EventBinder) eventInit(call goja.ConstructorCall, withDetail bool) dom.EventInit {
	var init dom.EventInit
	if len(call.Arguments) < 2 {
		return init
	}
	optObj, ok := call.Arguments[1].(*goja.Object)
	if !ok {
		return init
	}
	if v := optObj.Get("bubbles"); v != nil && !goja.IsUndefined(v) {
		init.Bubbles = v.ToBoolean()
	}
	if v := optObj.Get("cancelable"); v != nil && !goja.IsUndefined(v) {
		init.Cancelable = v.ToBoolean()
	}
	if withDetail {
		if v := optObj.Get("detail"); v != nil && !goja.IsUndefined(v) {
			init.Detail = v
		}
	}
	return init
}

// SetupEventConstructors sets up Event and CustomEvent constructors on the global object.
func (eb *EventBinder) SetupEventConstructors() {
	vm := eb.runtime.vm

	newConstructor := func(name string, withDetail bool) {
		vm.Set(name, func(call goja.ConstructorCall) *goja.Object {
			if len(call.Arguments) < 1 {
				panic(vm.NewTypeError("Failed to construct '" + name + "': 1 argument required, but only 0 present."))
			}
			event := dom.NewEvent(call.Arguments[0].String(), eb.eventInit(call, withDetail))
			return eb.WrapEvent(event)
		})
	}

	newConstructor("Event", false)
	newConstructor("CustomEvent", true)
}

// ClearEvents drops the cached event wrappers.
func (eb *EventBinder) ClearEvents() {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.events = make(map[*dom.Event]*goja.Object)
}

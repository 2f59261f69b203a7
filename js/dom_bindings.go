package js

import (
	"errors"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/minidom/dom"
	"github.com/chrisuehlinger/minidom/html"
)

// domExceptionCode returns the legacy exception code for a DOMException name.
func domExceptionCode(name string) int {
	switch name {
	case dom.IndexSizeErrorName:
		return 1
	case dom.HierarchyRequestErrorName:
		return 3
	case dom.InvalidCharacterErrorName:
		return 5
	case dom.NotFoundErrorName:
		return 8
	case dom.NotSupportedErrorName:
		return 9
	case dom.SyntaxErrorName:
		return 12
	}
	return 0
}

// DOMBinder provides methods to bind DOM objects to JavaScript.
type DOMBinder struct {
	runtime  *Runtime
	events   *EventBinder
	nodeMap  map[*dom.Node]*goja.Object // Cache to return same JS object for same DOM node
	document *dom.Document              // Current document for creating new nodes

	// Prototype objects for instanceof checks
	nodeProto         *goja.Object
	textProto         *goja.Object
	elementProto      *goja.Object
	documentProto     *goja.Object
	domExceptionProto *goja.Object
}

// NewDOMBinder creates a new DOM binder for the given runtime, together with
// the EventBinder that gives bound nodes their EventTarget methods.
func NewDOMBinder(runtime *Runtime) *DOMBinder {
	b := &DOMBinder{
		runtime: runtime,
		nodeMap: make(map[*dom.Node]*goja.Object),
	}
	b.setupPrototypes()
	b.events = NewEventBinder(runtime, b)
	b.events.SetupEventConstructors()
	return b
}

// Events returns the binder's EventBinder.
func (b *DOMBinder) Events() *EventBinder {
	return b.events
}

// setupPrototypes creates the prototype chain for DOM interfaces.
// This enables instanceof checks to work correctly.
func (b *DOMBinder) setupPrototypes() {
	vm := b.runtime.vm

	b.nodeProto = b.defineInterface("Node", nil)
	nodeConstructorObj := vm.Get("Node").ToObject(vm)
	nodeConstructorObj.Set("ELEMENT_NODE", int(dom.ElementNode))
	nodeConstructorObj.Set("TEXT_NODE", int(dom.TextNode))
	nodeConstructorObj.Set("DOCUMENT_NODE", int(dom.DocumentNode))

	b.textProto = b.defineInterface("Text", b.nodeProto)
	b.elementProto = b.defineInterface("Element", b.nodeProto)
	b.documentProto = b.defineInterface("Document", b.nodeProto)

	// DOMException extends Error prototype
	b.domExceptionProto = vm.NewObject()
	errorProto := vm.Get("Error").ToObject(vm).Get("prototype").ToObject(vm)
	b.domExceptionProto.SetPrototype(errorProto)

	domExceptionConstructor := vm.ToValue(func(call goja.ConstructorCall) *goja.Object {
		message := ""
		name := "Error"
		if len(call.Arguments) > 0 {
			message = call.Arguments[0].String()
		}
		if len(call.Arguments) > 1 {
			name = call.Arguments[1].String()
		}
		exc := call.This
		exc.Set("message", message)
		exc.Set("name", name)
		exc.Set("code", domExceptionCode(name))
		return exc
	})
	domExceptionConstructorObj := domExceptionConstructor.ToObject(vm)
	domExceptionConstructorObj.Set("prototype", b.domExceptionProto)
	b.domExceptionProto.Set("constructor", domExceptionConstructorObj)

	domExceptionConstructorObj.Set("INDEX_SIZE_ERR", 1)
	domExceptionConstructorObj.Set("HIERARCHY_REQUEST_ERR", 3)
	domExceptionConstructorObj.Set("INVALID_CHARACTER_ERR", 5)
	domExceptionConstructorObj.Set("NOT_FOUND_ERR", 8)
	domExceptionConstructorObj.Set("NOT_SUPPORTED_ERR", 9)
	domExceptionConstructorObj.Set("SYNTAX_ERR", 12)

	vm.Set("DOMException", domExceptionConstructorObj)
}

// defineInterface installs a global constructor that cannot be called and
// returns its prototype object.
func (b *DOMBinder) defineInterface(name string, parent *goja.Object) *goja.Object {
	vm := b.runtime.vm
	proto := vm.NewObject()
	if parent != nil {
		proto.SetPrototype(parent)
	}
	constructor := vm.ToValue(func(call goja.ConstructorCall) *goja.Object {
		panic(vm.NewTypeError("Illegal constructor"))
	})
	constructorObj := constructor.ToObject(vm)
	constructorObj.Set("prototype", proto)
	proto.Set("constructor", constructorObj)
	vm.Set(name, constructorObj)
	return proto
}

// BindDocument creates the JavaScript document object for doc and installs
// it as the runtime's global document.
func (b *DOMBinder) BindDocument(doc *dom.Document) *goja.Object {
	b.document = doc
	jsDoc := b.bindDocumentInternal(doc)
	b.runtime.SetDocument(jsDoc)
	return jsDoc
}

// bindDocumentInternal creates a document binding without touching the
// global document.
func (b *DOMBinder) bindDocumentInternal(doc *dom.Document) *goja.Object {
	if doc == nil {
		return nil
	}
	node := doc.AsNode()
	if jsObj, ok := b.nodeMap[node]; ok {
		return jsObj
	}

	vm := b.runtime.vm
	jsDoc := vm.NewObject()
	jsDoc.SetPrototype(b.documentProto)
	jsDoc.Set("_goNode", node)
	b.nodeMap[node] = jsDoc

	b.bindNodeProperties(jsDoc, node)

	jsDoc.DefineAccessorProperty("documentElement", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.nullable(b.BindElement(doc.DocumentElement()))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsDoc.DefineAccessorProperty("body", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.nullable(b.BindElement(doc.FindFirst(dom.ByTagName("body"))))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsDoc.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(vm.NewTypeError("Failed to execute 'createElement' on 'Document': 1 argument required, but only 0 present."))
		}
		el, err := doc.CreateElementWithError(call.Arguments[0].String())
		if err != nil {
			b.throwError(err)
		}
		return b.BindElement(el)
	})

	jsDoc.Set("createTextNode", func(call goja.FunctionCall) goja.Value {
		data := ""
		if len(call.Arguments) > 0 {
			data = call.Arguments[0].String()
		}
		return b.BindNode(doc.CreateTextNode(data).AsNode())
	})

	jsDoc.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Null()
		}
		return b.nullable(b.BindElement(doc.GetElementByID(call.Arguments[0].String())))
	})

	jsDoc.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return b.bindElementArray(nil)
		}
		return b.bindElementArray(doc.GetElementsByTagName(call.Arguments[0].String()))
	})

	jsDoc.Set("getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return b.bindElementArray(nil)
		}
		return b.bindElementArray(doc.GetElementsByClassName(call.Arguments[0].String()))
	})

	jsDoc.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		el, err := doc.QuerySelector(b.selectorArg(call, "querySelector"))
		if err != nil {
			b.throwError(err)
		}
		return b.nullable(b.BindElement(el))
	})

	jsDoc.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		els, err := doc.QuerySelectorAll(b.selectorArg(call, "querySelectorAll"))
		if err != nil {
			b.throwError(err)
		}
		return b.bindElementArray(els)
	})

	b.events.BindEventTarget(jsDoc)

	return jsDoc
}

// BindElement creates a JavaScript object from a DOM element.
func (b *DOMBinder) BindElement(el *dom.Element) *goja.Object {
	if el == nil {
		return nil
	}

	node := el.AsNode()

	// Check cache
	if jsObj, ok := b.nodeMap[node]; ok {
		return jsObj
	}

	vm := b.runtime.vm
	jsEl := vm.NewObject()
	jsEl.SetPrototype(b.elementProto)
	jsEl.Set("_goNode", node)
	b.nodeMap[node] = jsEl

	b.bindNodeProperties(jsEl, node)

	jsEl.DefineAccessorProperty("tagName", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.TagName())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("localName", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.LocalName())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("id", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.ID())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			el.SetID(call.Arguments[0].String())
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("className", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.ClassName())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			el.SetClassName(call.Arguments[0].String())
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("outerHTML", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(html.OuterHTML(node))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("innerHTML", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(html.InnerHTML(node))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	// Attributes
	jsEl.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Null()
		}
		value, ok := el.LookupAttribute(call.Arguments[0].String())
		if !ok {
			return goja.Null()
		}
		return vm.ToValue(value)
	})

	jsEl.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(vm.NewTypeError("Failed to execute 'setAttribute' on 'Element': 2 arguments required."))
		}
		if err := el.SetAttributeWithError(call.Arguments[0].String(), call.Arguments[1].String()); err != nil {
			b.throwError(err)
		}
		return goja.Undefined()
	})

	jsEl.Set("hasAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return vm.ToValue(false)
		}
		return vm.ToValue(el.HasAttribute(call.Arguments[0].String()))
	})

	jsEl.Set("removeAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			el.RemoveAttribute(call.Arguments[0].String())
		}
		return goja.Undefined()
	})

	jsEl.Set("getAttributeNames", func(call goja.FunctionCall) goja.Value {
		attrs := el.Attributes()
		names := make([]interface{}, len(attrs))
		for i, attr := range attrs {
			names[i] = attr.Name
		}
		return vm.NewArray(names...)
	})

	// Element navigation
	jsEl.DefineAccessorProperty("children", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.bindElementArray(el.Children())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("childElementCount", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.ChildElementCount())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("firstElementChild", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.nullable(b.BindElement(el.FirstElementChild()))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("lastElementChild", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.nullable(b.BindElement(el.LastElementChild()))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("previousElementSibling", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.nullable(b.BindElement(el.PreviousElementSibling()))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("nextElementSibling", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.nullable(b.BindElement(el.NextElementSibling()))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.Set("remove", func(call goja.FunctionCall) goja.Value {
		el.Remove()
		return goja.Undefined()
	})

	// Search
	jsEl.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return b.bindElementArray(nil)
		}
		return b.bindElementArray(el.GetElementsByTagName(call.Arguments[0].String()))
	})

	jsEl.Set("getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return b.bindElementArray(nil)
		}
		return b.bindElementArray(el.GetElementsByClassName(call.Arguments[0].String()))
	})

	jsEl.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		found, err := el.QuerySelector(b.selectorArg(call, "querySelector"))
		if err != nil {
			b.throwError(err)
		}
		return b.nullable(b.BindElement(found))
	})

	jsEl.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		found, err := el.QuerySelectorAll(b.selectorArg(call, "querySelectorAll"))
		if err != nil {
			b.throwError(err)
		}
		return b.bindElementArray(found)
	})

	jsEl.Set("matches", func(call goja.FunctionCall) goja.Value {
		ok, err := el.Matches(b.selectorArg(call, "matches"))
		if err != nil {
			b.throwError(err)
		}
		return vm.ToValue(ok)
	})

	jsEl.Set("closest", func(call goja.FunctionCall) goja.Value {
		selector := b.selectorArg(call, "closest")
		for ancestor := el; ancestor != nil; ancestor = ancestor.AsNode().ParentElement() {
			ok, err := ancestor.Matches(selector)
			if err != nil {
				b.throwError(err)
			}
			if ok {
				return b.BindElement(ancestor)
			}
		}
		return goja.Null()
	})

	b.events.BindEventTarget(jsEl)

	return jsEl
}

// BindTextNode creates a JavaScript object from a DOM text node.
func (b *DOMBinder) BindTextNode(text *dom.Text) *goja.Object {
	if text == nil {
		return nil
	}
	node := text.AsNode()
	if jsObj, ok := b.nodeMap[node]; ok {
		return jsObj
	}

	vm := b.runtime.vm
	jsNode := vm.NewObject()
	jsNode.SetPrototype(b.textProto)
	jsNode.Set("_goNode", node)
	b.nodeMap[node] = jsNode

	b.bindNodeProperties(jsNode, node)

	jsNode.DefineAccessorProperty("data", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(text.Data())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			text.SetData(call.Arguments[0].String())
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsNode.DefineAccessorProperty("length", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(text.Length())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsNode.DefineAccessorProperty("wholeText", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(text.WholeText())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsNode.Set("appendData", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			text.AppendData(call.Arguments[0].String())
		}
		return goja.Undefined()
	})

	jsNode.Set("substringData", func(call goja.FunctionCall) goja.Value {
		data, err := text.SubstringData(int(call.Argument(0).ToInteger()), int(call.Argument(1).ToInteger()))
		if err != nil {
			b.throwError(err)
		}
		return vm.ToValue(data)
	})

	jsNode.Set("splitText", func(call goja.FunctionCall) goja.Value {
		rest, err := text.SplitText(int(call.Argument(0).ToInteger()))
		if err != nil {
			b.throwError(err)
		}
		return b.BindTextNode(rest)
	})

	b.events.BindEventTarget(jsNode)

	return jsNode
}

// BindNode creates a JavaScript object for any node kind.
func (b *DOMBinder) BindNode(node *dom.Node) *goja.Object {
	if node == nil {
		return nil
	}

	// Check cache
	if jsObj, ok := b.nodeMap[node]; ok {
		return jsObj
	}

	switch node.NodeType() {
	case dom.ElementNode:
		return b.BindElement((*dom.Element)(node))
	case dom.DocumentNode:
		return b.bindDocumentInternal((*dom.Document)(node))
	case dom.TextNode:
		return b.BindTextNode((*dom.Text)(node))
	}
	return nil
}

// bindNodeProperties adds the Node interface shared by every node kind.
func (b *DOMBinder) bindNodeProperties(jsObj *goja.Object, node *dom.Node) {
	vm := b.runtime.vm

	jsObj.Set("nodeType", int(node.NodeType()))

	jsObj.DefineAccessorProperty("nodeName", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(node.NodeName())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsObj.DefineAccessorProperty("nodeValue", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if node.NodeType() != dom.TextNode {
			return goja.Null()
		}
		return vm.ToValue(node.NodeValue())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			node.SetNodeValue(call.Arguments[0].String())
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsObj.DefineAccessorProperty("textContent", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if node.NodeType() == dom.DocumentNode {
			return goja.Null()
		}
		return vm.ToValue(node.TextContent())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			value := ""
			if arg := call.Arguments[0]; !goja.IsNull(arg) && !goja.IsUndefined(arg) {
				value = arg.String()
			}
			node.SetTextContent(value)
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	// Parent node properties
	jsObj.DefineAccessorProperty("parentNode", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.nullable(b.BindNode(node.ParentNode()))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsObj.DefineAccessorProperty("parentElement", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.nullable(b.BindElement(node.ParentElement()))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	// Sibling properties
	jsObj.DefineAccessorProperty("previousSibling", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.nullable(b.BindNode(node.PreviousSibling()))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsObj.DefineAccessorProperty("nextSibling", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.nullable(b.BindNode(node.NextSibling()))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	// Child properties
	jsObj.DefineAccessorProperty("firstChild", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.nullable(b.BindNode(node.FirstChild()))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsObj.DefineAccessorProperty("lastChild", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.nullable(b.BindNode(node.LastChild()))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsObj.DefineAccessorProperty("childNodes", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.BindNodeList(node.ChildNodes())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsObj.DefineAccessorProperty("ownerDocument", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if node.NodeType() == dom.DocumentNode {
			return goja.Null()
		}
		doc := node.OwnerDocument()
		if doc == nil {
			return goja.Null()
		}
		return b.bindDocumentInternal(doc)
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	// Child methods
	jsObj.Set("hasChildNodes", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(node.HasChildNodes())
	})

	jsObj.Set("appendChild", func(call goja.FunctionCall) goja.Value {
		child := b.nodeArg(call, 0, "appendChild")
		result, err := node.AppendChildWithError(child)
		if err != nil {
			b.throwError(err)
		}
		return b.BindNode(result)
	})

	jsObj.Set("insertBefore", func(call goja.FunctionCall) goja.Value {
		newChild := b.nodeArg(call, 0, "insertBefore")
		var refChild *dom.Node
		if len(call.Arguments) > 1 && !goja.IsNull(call.Arguments[1]) && !goja.IsUndefined(call.Arguments[1]) {
			refChild = b.nodeArg(call, 1, "insertBefore")
		}
		result, err := node.InsertBeforeWithError(newChild, refChild)
		if err != nil {
			b.throwError(err)
		}
		return b.BindNode(result)
	})

	jsObj.Set("removeChild", func(call goja.FunctionCall) goja.Value {
		child := b.nodeArg(call, 0, "removeChild")
		result, err := node.RemoveChildWithError(child)
		if err != nil {
			b.throwError(err)
		}
		return b.BindNode(result)
	})

	jsObj.Set("replaceChild", func(call goja.FunctionCall) goja.Value {
		newChild := b.nodeArg(call, 0, "replaceChild")
		oldChild := b.nodeArg(call, 1, "replaceChild")
		result, err := node.ReplaceChildWithError(newChild, oldChild)
		if err != nil {
			b.throwError(err)
		}
		return b.BindNode(result)
	})

	jsObj.Set("cloneNode", func(call goja.FunctionCall) goja.Value {
		deep := len(call.Arguments) > 0 && call.Arguments[0].ToBoolean()
		return b.BindNode(node.CloneNode(deep))
	})

	jsObj.Set("contains", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 || goja.IsNull(call.Arguments[0]) || goja.IsUndefined(call.Arguments[0]) {
			return vm.ToValue(false)
		}
		other := b.getGoNode(call.Arguments[0].ToObject(vm))
		return vm.ToValue(other != nil && node.Contains(other))
	})

	jsObj.Set("getRootNode", func(call goja.FunctionCall) goja.Value {
		return b.BindNode(node.GetRootNode())
	})

	jsObj.Set("isSameNode", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 || goja.IsNull(call.Arguments[0]) || goja.IsUndefined(call.Arguments[0]) {
			return vm.ToValue(false)
		}
		return vm.ToValue(node.IsSameNode(b.getGoNode(call.Arguments[0].ToObject(vm))))
	})
}

// nodeArg returns the Go node behind argument i, throwing a TypeError when
// it is missing or not a bound node.
func (b *DOMBinder) nodeArg(call goja.FunctionCall, i int, method string) *dom.Node {
	vm := b.runtime.vm
	if len(call.Arguments) <= i || goja.IsNull(call.Arguments[i]) || goja.IsUndefined(call.Arguments[i]) {
		panic(vm.NewTypeError("Failed to execute '" + method + "' on 'Node': parameter is not of type 'Node'."))
	}
	goNode := b.getGoNode(call.Arguments[i].ToObject(vm))
	if goNode == nil {
		panic(vm.NewTypeError("Failed to execute '" + method + "' on 'Node': parameter is not of type 'Node'."))
	}
	return goNode
}

// selectorArg returns the selector argument of a selector method.
func (b *DOMBinder) selectorArg(call goja.FunctionCall, method string) string {
	if len(call.Arguments) < 1 {
		panic(b.runtime.vm.NewTypeError("Failed to execute '" + method + "': 1 argument required, but only 0 present."))
	}
	return call.Arguments[0].String()
}

// nullable converts a nil binding into JavaScript null.
func (b *DOMBinder) nullable(obj *goja.Object) goja.Value {
	if obj == nil {
		return goja.Null()
	}
	return obj
}

// getGoNode extracts the Go *dom.Node from a JavaScript object.
func (b *DOMBinder) getGoNode(obj *goja.Object) *dom.Node {
	if obj == nil {
		return nil
	}
	if v := obj.Get("_goNode"); v != nil && !goja.IsUndefined(v) && !goja.IsNull(v) {
		if node, ok := v.Export().(*dom.Node); ok {
			return node
		}
	}
	return nil
}

// createDOMException creates a DOMException object using the global constructor.
func (b *DOMBinder) createDOMException(name, message string) *goja.Object {
	vm := b.runtime.vm

	if ctor, ok := goja.AssertConstructor(vm.Get("DOMException")); ok {
		if exc, err := ctor(nil, vm.ToValue(message), vm.ToValue(name)); err == nil {
			return exc
		}
	}

	exc := vm.NewObject()
	exc.Set("name", name)
	exc.Set("message", message)
	exc.Set("code", domExceptionCode(name))
	return exc
}

// throwError throws err into JavaScript: DOM errors become DOMException
// objects, anything else a plain Error.
func (b *DOMBinder) throwError(err error) {
	vm := b.runtime.vm
	var domErr *dom.DOMError
	if errors.As(err, &domErr) {
		panic(vm.ToValue(b.createDOMException(domErr.Name, domErr.Message)))
	}
	panic(vm.NewGoError(err))
}

// BindNodeList creates a JavaScript NodeList object. length, item and
// forEach read the live list; indexed properties reflect the children
// present when the list was bound.
func (b *DOMBinder) BindNodeList(nodeList *dom.NodeList) *goja.Object {
	vm := b.runtime.vm
	jsList := vm.NewObject()

	jsList.DefineAccessorProperty("length", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(nodeList.Length())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsList.Set("item", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Null()
		}
		return b.nullable(b.BindNode(nodeList.Item(int(call.Arguments[0].ToInteger()))))
	})

	for i := 0; i < nodeList.Length(); i++ {
		idx := i
		jsList.DefineAccessorProperty(vm.ToValue(idx).String(), vm.ToValue(func(call goja.FunctionCall) goja.Value {
			node := nodeList.Item(idx)
			if node == nil {
				return goja.Undefined()
			}
			return b.BindNode(node)
		}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	}

	jsList.Set("forEach", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		callback, ok := goja.AssertFunction(call.Arguments[0])
		if !ok {
			return goja.Undefined()
		}
		var thisArg goja.Value = goja.Undefined()
		if len(call.Arguments) > 1 {
			thisArg = call.Arguments[1]
		}
		for i, node := range nodeList.ToSlice() {
			if _, err := callback(thisArg, b.BindNode(node), vm.ToValue(i), jsList); err != nil {
				panic(err)
			}
		}
		return goja.Undefined()
	})

	return jsList
}

// bindElementArray returns a JavaScript array of element bindings.
func (b *DOMBinder) bindElementArray(els []*dom.Element) *goja.Object {
	items := make([]interface{}, len(els))
	for i, el := range els {
		items[i] = b.BindElement(el)
	}
	return b.runtime.vm.NewArray(items...)
}

// ClearCache clears the node binding cache.
func (b *DOMBinder) ClearCache() {
	b.nodeMap = make(map[*dom.Node]*goja.Object)
}

package dom

import (
	"strings"
)

// Attribute is a single name/value pair on an Element.
type Attribute struct {
	Name  string
	Value string
}

// elementData holds data specific to Element nodes.
type elementData struct {
	localName string
	tagName   string

	// Insertion ordered, names are unique and lower case.
	attributes []Attribute

	// Mirrors of the "id" and "class" attributes.
	id        string
	className string
}

// Element represents an element in the DOM tree.
// Element is a view of Node and provides element-specific properties and methods.
type Element Node

// newElement creates an element whose tag name is normalized to upper case.
func newElement(tagName string, ownerDoc *Document) *Element {
	localName := strings.ToLower(tagName)
	upper := strings.ToUpper(tagName)
	node := newNode(ElementNode, upper, ownerDoc)
	node.elementData = &elementData{
		localName: localName,
		tagName:   upper,
	}
	return (*Element)(node)
}

// AsNode returns the underlying Node.
func (e *Element) AsNode() *Node {
	return (*Node)(e)
}

// NodeType returns ElementNode (1).
func (e *Element) NodeType() NodeType {
	return ElementNode
}

// NodeName returns the tag name.
func (e *Element) NodeName() string {
	return e.TagName()
}

// TagName returns the tag name in uppercase.
func (e *Element) TagName() string {
	return e.data().tagName
}

// LocalName returns the local name of the element (lowercase).
func (e *Element) LocalName() string {
	return e.data().localName
}

func (e *Element) data() *elementData {
	if e.elementData == nil {
		e.elementData = &elementData{
			localName: strings.ToLower(e.nodeName),
			tagName:   strings.ToUpper(e.nodeName),
		}
	}
	return e.elementData
}

// ID returns the id attribute value.
func (e *Element) ID() string {
	return e.data().id
}

// SetID sets the id attribute value.
func (e *Element) SetID(id string) {
	e.setAttributeValue("id", id)
}

// ClassName returns the class attribute value.
func (e *Element) ClassName() string {
	return e.data().className
}

// SetClassName sets the class attribute value.
func (e *Element) SetClassName(className string) {
	e.setAttributeValue("class", className)
}

// ClassList returns the whitespace separated tokens of the class attribute.
func (e *Element) ClassList() []string {
	return strings.Fields(e.data().className)
}

// HasClass reports whether class is one of the element's class tokens.
func (e *Element) HasClass(class string) bool {
	for _, token := range e.ClassList() {
		if token == class {
			return true
		}
	}
	return false
}

// Attributes returns a copy of the element's attributes in insertion order.
func (e *Element) Attributes() []Attribute {
	attrs := make([]Attribute, len(e.data().attributes))
	copy(attrs, e.data().attributes)
	return attrs
}

// GetAttribute returns the value of the attribute with the given name, or ""
// when it is absent. Names are matched case-insensitively.
func (e *Element) GetAttribute(name string) string {
	value, _ := e.LookupAttribute(name)
	return value
}

// LookupAttribute returns the value of the attribute and whether it is present.
func (e *Element) LookupAttribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, attr := range e.data().attributes {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// HasAttribute returns true if the element has the given attribute.
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.LookupAttribute(name)
	return ok
}

// SetAttribute sets the value of the attribute with the given name.
// Invalid names are ignored; use SetAttributeWithError to observe them.
func (e *Element) SetAttribute(name, value string) {
	_ = e.SetAttributeWithError(name, value)
}

// SetAttributeWithError sets the value of the attribute with the given name.
// Returns an error if the name is invalid.
func (e *Element) SetAttributeWithError(name, value string) error {
	if !IsValidAttributeLocalName(name) {
		return ErrInvalidCharacter("The string contains invalid characters.")
	}
	e.setAttributeValue(strings.ToLower(name), value)
	return nil
}

// setAttributeValue stores a lower-case attribute and keeps the id and
// className mirrors in step with their reserved attributes.
func (e *Element) setAttributeValue(name, value string) {
	ed := e.data()
	found := false
	for i := range ed.attributes {
		if ed.attributes[i].Name == name {
			ed.attributes[i].Value = value
			found = true
			break
		}
	}
	if !found {
		ed.attributes = append(ed.attributes, Attribute{Name: name, Value: value})
	}

	switch name {
	case "id":
		ed.id = value
	case "class":
		ed.className = value
	}
}

// RemoveAttribute removes the attribute with the given name.
// Removing "id" or "class" also clears ID or ClassName.
func (e *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	ed := e.data()
	for i, attr := range ed.attributes {
		if attr.Name == name {
			ed.attributes = append(ed.attributes[:i], ed.attributes[i+1:]...)
			break
		}
	}

	switch name {
	case "id":
		ed.id = ""
	case "class":
		ed.className = ""
	}
}

// IsValidAttributeLocalName checks if a string is a valid attribute local name per the DOM Standard.
// A string is valid if its length is at least 1 and it does not contain:
// - ASCII whitespace (tab, newline, form feed, carriage return, space)
// - U+0000 NULL
// - U+002F (/)
// - U+003D (=)
// - U+003E (>)
func IsValidAttributeLocalName(name string) bool {
	if len(name) == 0 {
		return false
	}
	for _, r := range name {
		if r == ' ' || r == '\t' || r == '\n' || r == '\f' || r == '\r' {
			return false
		}
		if r == '\x00' || r == '/' || r == '=' || r == '>' {
			return false
		}
	}
	return true
}

// Children returns the child elements in document order.
func (e *Element) Children() []*Element {
	var children []*Element
	for child := e.firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			children = append(children, (*Element)(child))
		}
	}
	return children
}

// ChildElementCount returns the number of child elements.
func (e *Element) ChildElementCount() int {
	count := 0
	for child := e.firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			count++
		}
	}
	return count
}

// FirstElementChild returns the first child element.
func (e *Element) FirstElementChild() *Element {
	for child := e.firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			return (*Element)(child)
		}
	}
	return nil
}

// LastElementChild returns the last child element.
func (e *Element) LastElementChild() *Element {
	for child := e.lastChild; child != nil; child = child.prevSibling {
		if child.nodeType == ElementNode {
			return (*Element)(child)
		}
	}
	return nil
}

// PreviousElementSibling returns the previous sibling element.
func (e *Element) PreviousElementSibling() *Element {
	for sibling := e.prevSibling; sibling != nil; sibling = sibling.prevSibling {
		if sibling.nodeType == ElementNode {
			return (*Element)(sibling)
		}
	}
	return nil
}

// NextElementSibling returns the next sibling element.
func (e *Element) NextElementSibling() *Element {
	for sibling := e.nextSibling; sibling != nil; sibling = sibling.nextSibling {
		if sibling.nodeType == ElementNode {
			return (*Element)(sibling)
		}
	}
	return nil
}

// TextContent returns the text content of the element.
func (e *Element) TextContent() string {
	return e.AsNode().TextContent()
}

// SetTextContent replaces the element's children with a single text node.
func (e *Element) SetTextContent(text string) {
	e.AsNode().SetTextContent(text)
}

// Remove removes this element from its parent.
func (e *Element) Remove() {
	if parent := e.parentNode; parent != nil {
		parent.removeChildInternal(e.AsNode())
	}
}

// CloneNode clones this element, including its attributes.
func (e *Element) CloneNode(deep bool) *Element {
	return (*Element)(e.AsNode().CloneNode(deep))
}

// FindAll returns the descendant elements for which pred holds, in document order.
func (e *Element) FindAll(pred Predicate) []*Element {
	return findAll(e.AsNode(), pred)
}

// FindFirst returns the first descendant element for which pred holds.
func (e *Element) FindFirst(pred Predicate) *Element {
	return findFirst(e.AsNode(), pred)
}

// GetElementsByTagName returns descendants with the given tag name ("*" matches all).
func (e *Element) GetElementsByTagName(tagName string) []*Element {
	return e.FindAll(ByTagName(tagName))
}

// GetElementsByClassName returns descendants carrying all of the given class names.
func (e *Element) GetElementsByClassName(classNames string) []*Element {
	return e.FindAll(ByClassName(classNames))
}

// QuerySelector returns the first descendant element matching the selector,
// using the owner document's selector compiler.
func (e *Element) QuerySelector(selector string) (*Element, error) {
	pred, err := e.ownerDoc.compileSelector(selector)
	if err != nil {
		return nil, err
	}
	return e.FindFirst(pred), nil
}

// QuerySelectorAll returns all descendant elements matching the selector.
func (e *Element) QuerySelectorAll(selector string) ([]*Element, error) {
	pred, err := e.ownerDoc.compileSelector(selector)
	if err != nil {
		return nil, err
	}
	return e.FindAll(pred), nil
}

// Matches returns true if the element matches the given selector.
func (e *Element) Matches(selector string) (bool, error) {
	pred, err := e.ownerDoc.compileSelector(selector)
	if err != nil {
		return false, err
	}
	return pred(e), nil
}

// Closest returns the closest inclusive ancestor element for which pred holds.
func (e *Element) Closest(pred Predicate) *Element {
	for node := e.AsNode(); node != nil; node = node.parentNode {
		if node.nodeType == ElementNode && pred((*Element)(node)) {
			return (*Element)(node)
		}
	}
	return nil
}

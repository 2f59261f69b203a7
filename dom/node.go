package dom

import (
	"strings"
)

// Node represents a node in the DOM tree. Element, Text and Document are
// views over the same struct, selected by nodeType.
type Node struct {
	nodeType   NodeType
	nodeName   string
	ownerDoc   *Document
	parentNode *Node
	childNodes *NodeList

	// First/last child and sibling pointers for efficient traversal.
	// parentNode and the sibling pointers never own the node they point at.
	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node

	// Type-specific data (only one will be non-nil based on nodeType)
	elementData  *elementData
	textData     *string
	documentData *documentData

	// Created on first AddEventListener.
	listeners *listenerRegistry
}

// newNode creates a new node with the given type and name.
func newNode(nodeType NodeType, nodeName string, ownerDoc *Document) *Node {
	n := &Node{
		nodeType: nodeType,
		nodeName: nodeName,
		ownerDoc: ownerDoc,
	}
	n.childNodes = newNodeList(n)
	return n
}

// NodeType returns the type of the node.
func (n *Node) NodeType() NodeType {
	return n.nodeType
}

// NodeName returns the name of the node.
// For elements, this is the tag name in uppercase.
// For text nodes, this is "#text".
// For documents, this is "#document".
func (n *Node) NodeName() string {
	return n.nodeName
}

// NodeValue returns the data of a text node and "" for every other kind.
func (n *Node) NodeValue() string {
	if n.nodeType == TextNode && n.textData != nil {
		return *n.textData
	}
	return ""
}

// SetNodeValue sets the data of a text node. It is a no-op for other kinds.
func (n *Node) SetNodeValue(value string) {
	if n.nodeType == TextNode {
		n.textData = &value
	}
}

// OwnerDocument returns the Document that created this node.
// For Document nodes, this returns nil.
func (n *Node) OwnerDocument() *Document {
	if n.nodeType == DocumentNode {
		return nil
	}
	return n.ownerDoc
}

// ParentNode returns the parent of this node.
func (n *Node) ParentNode() *Node {
	return n.parentNode
}

// ParentElement returns the parent Element, or nil if the parent is not an element.
func (n *Node) ParentElement() *Element {
	if n.parentNode != nil && n.parentNode.nodeType == ElementNode {
		return (*Element)(n.parentNode)
	}
	return nil
}

// ChildNodes returns a live NodeList of child nodes.
func (n *Node) ChildNodes() *NodeList {
	return n.childNodes
}

// FirstChild returns the first child node, or nil if there are no children.
func (n *Node) FirstChild() *Node {
	return n.firstChild
}

// LastChild returns the last child node, or nil if there are no children.
func (n *Node) LastChild() *Node {
	return n.lastChild
}

// PreviousSibling returns the previous sibling node, or nil if this is the first child.
func (n *Node) PreviousSibling() *Node {
	return n.prevSibling
}

// NextSibling returns the next sibling node, or nil if this is the last child.
func (n *Node) NextSibling() *Node {
	return n.nextSibling
}

// HasChildNodes returns true if this node has any child nodes.
func (n *Node) HasChildNodes() bool {
	return n.firstChild != nil
}

// TextContent returns the text content of the node and its descendants.
func (n *Node) TextContent() string {
	switch n.nodeType {
	case DocumentNode:
		return ""
	case TextNode:
		return n.NodeValue()
	default:
		var sb strings.Builder
		n.collectTextContent(&sb)
		return sb.String()
	}
}

func (n *Node) collectTextContent(sb *strings.Builder) {
	for child := n.firstChild; child != nil; child = child.nextSibling {
		switch child.nodeType {
		case TextNode:
			sb.WriteString(child.NodeValue())
		case ElementNode:
			child.collectTextContent(sb)
		}
	}
}

// SetTextContent sets the text content of the node.
// For elements, this replaces all children with a single text node, or with
// nothing when value is empty.
func (n *Node) SetTextContent(value string) {
	switch n.nodeType {
	case DocumentNode:
		return
	case TextNode:
		n.SetNodeValue(value)
	default:
		for n.firstChild != nil {
			n.removeChildInternal(n.firstChild)
		}
		if value != "" {
			n.insertBeforeInternal(newTextNode(value, n.ownerDoc), nil)
		}
	}
}

// AppendChild adds a node to the end of the list of children of this node.
// For error-returning version, use AppendChildWithError.
func (n *Node) AppendChild(child *Node) *Node {
	result, _ := n.AppendChildWithError(child)
	return result
}

// AppendChildWithError adds a node to the end of the list of children of this node.
// If child already has a parent it is detached from it first.
// Returns an error if the operation violates DOM hierarchy constraints.
func (n *Node) AppendChildWithError(child *Node) (*Node, error) {
	return n.InsertBeforeWithError(child, nil)
}

// InsertBefore inserts a node before a reference child node.
// If refChild is nil, the node is appended to the end.
// For error-returning version, use InsertBeforeWithError.
func (n *Node) InsertBefore(newChild, refChild *Node) *Node {
	result, _ := n.InsertBeforeWithError(newChild, refChild)
	return result
}

// InsertBeforeWithError inserts a node before a reference child node.
// If refChild is nil, the node is appended to the end.
// Returns a NotFoundError if refChild is not a child of this node, and a
// HierarchyRequestError if the insertion would break the tree.
func (n *Node) InsertBeforeWithError(newChild, refChild *Node) (*Node, error) {
	if err := n.validatePreInsertion(newChild, refChild); err != nil {
		return nil, err
	}
	return n.insertBefore(newChild, refChild), nil
}

// validatePreInsertion implements the pre-insertion validation steps from the DOM Standard.
// https://dom.spec.whatwg.org/#concept-node-pre-insert
func (n *Node) validatePreInsertion(node, child *Node) error {
	if node == nil {
		return ErrHierarchyRequest("The node to be inserted is null.")
	}
	if n.nodeType == TextNode {
		return ErrHierarchyRequest("A Text node cannot have children.")
	}
	// A Document is always a root.
	if node.nodeType == DocumentNode {
		return ErrHierarchyRequest("A Document cannot be inserted as a child.")
	}
	// The new child must not be an inclusive ancestor of the parent.
	if n.isInclusiveAncestor(node) {
		return ErrHierarchyRequest("The new child element contains the parent.")
	}
	if child != nil && child.parentNode != n {
		return ErrNotFound("The node before which the new node is to be inserted is not a child of this node.")
	}
	return nil
}

// isInclusiveAncestor returns true if node is this node or an ancestor of this node.
func (n *Node) isInclusiveAncestor(node *Node) bool {
	if node == nil {
		return false
	}
	for current := n; current != nil; current = current.parentNode {
		if current == node {
			return true
		}
	}
	return false
}

func (n *Node) insertBefore(newChild, refChild *Node) *Node {
	// Inserting a node before itself leaves it where it is.
	if newChild == refChild {
		return newChild
	}

	if newChild.parentNode != nil {
		newChild.parentNode.removeChildInternal(newChild)
	}
	n.insertBeforeInternal(newChild, refChild)
	return newChild
}

// adoptNode recursively sets the ownerDocument for a node and its descendants.
func adoptNode(node *Node, doc *Document) {
	node.ownerDoc = doc
	for child := node.firstChild; child != nil; child = child.nextSibling {
		adoptNode(child, doc)
	}
}

// RemoveChild removes a child node from this node.
// For error-returning version, use RemoveChildWithError.
func (n *Node) RemoveChild(child *Node) *Node {
	result, _ := n.RemoveChildWithError(child)
	return result
}

// RemoveChildWithError removes a child node from this node.
// Returns an error if the child is not a child of this node.
func (n *Node) RemoveChildWithError(child *Node) (*Node, error) {
	if child == nil {
		return nil, ErrNotFound("The node to be removed is null.")
	}
	if child.parentNode != n {
		return nil, ErrNotFound("The node to be removed is not a child of this node.")
	}

	n.removeChildInternal(child)
	return child, nil
}

// removeChildInternal removes a child from this node's children list.
// This is the internal implementation that does not check if child is actually a child.
func (n *Node) removeChildInternal(child *Node) {
	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else {
		n.firstChild = child.nextSibling
	}

	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	} else {
		n.lastChild = child.prevSibling
	}

	child.parentNode = nil
	child.prevSibling = nil
	child.nextSibling = nil
}

// insertBeforeInternal inserts a detached node before a reference child without validation.
// If refChild is nil, appends to the end.
func (n *Node) insertBeforeInternal(newChild, refChild *Node) {
	newChild.parentNode = n

	// Adopt the node to this document if needed
	if n.nodeType == DocumentNode {
		if newChild.ownerDoc != (*Document)(n) {
			adoptNode(newChild, (*Document)(n))
		}
	} else if n.ownerDoc != nil && newChild.ownerDoc != n.ownerDoc {
		adoptNode(newChild, n.ownerDoc)
	}

	if refChild == nil {
		newChild.prevSibling = n.lastChild
		newChild.nextSibling = nil
		if n.lastChild != nil {
			n.lastChild.nextSibling = newChild
		} else {
			n.firstChild = newChild
		}
		n.lastChild = newChild
		return
	}

	newChild.prevSibling = refChild.prevSibling
	newChild.nextSibling = refChild
	if refChild.prevSibling != nil {
		refChild.prevSibling.nextSibling = newChild
	} else {
		n.firstChild = newChild
	}
	refChild.prevSibling = newChild
}

// ReplaceChild replaces a child node with a new node.
// For error-returning version, use ReplaceChildWithError.
func (n *Node) ReplaceChild(newChild, oldChild *Node) *Node {
	result, _ := n.ReplaceChildWithError(newChild, oldChild)
	return result
}

// ReplaceChildWithError replaces oldChild with newChild at the same position
// and returns oldChild, now detached.
// Returns an error if the operation violates DOM hierarchy constraints.
func (n *Node) ReplaceChildWithError(newChild, oldChild *Node) (*Node, error) {
	if oldChild == nil {
		return nil, ErrNotFound("The node to be replaced is null.")
	}
	if oldChild.parentNode != n {
		return nil, ErrNotFound("The node to be replaced is not a child of this node.")
	}
	if err := n.validatePreInsertion(newChild, nil); err != nil {
		return nil, err
	}

	if newChild == oldChild {
		return oldChild, nil
	}

	// Get the next sibling of oldChild before any tree modifications.
	// If that sibling is newChild itself it is about to move.
	referenceChild := oldChild.nextSibling
	if referenceChild == newChild {
		referenceChild = newChild.nextSibling
	}

	if newChild.parentNode != nil {
		newChild.parentNode.removeChildInternal(newChild)
	}
	n.removeChildInternal(oldChild)
	n.insertBeforeInternal(newChild, referenceChild)

	return oldChild, nil
}

// CloneNode creates a copy of this node without a parent.
// If deep is true, all descendants are also cloned, in order.
// Event listeners are never copied.
func (n *Node) CloneNode(deep bool) *Node {
	clone := n.shallowClone()

	if deep {
		for child := n.firstChild; child != nil; child = child.nextSibling {
			clone.insertBeforeInternal(child.CloneNode(true), nil)
		}
		if n.nodeType == DocumentNode {
			clone.documentData.documentElement = correspondingNode(n, clone, n.documentData.documentElement)
		}
	}

	return clone
}

func (n *Node) shallowClone() *Node {
	clone := newNode(n.nodeType, n.nodeName, n.ownerDoc)

	switch n.nodeType {
	case ElementNode:
		if n.elementData != nil {
			clone.elementData = &elementData{
				localName: n.elementData.localName,
				tagName:   n.elementData.tagName,
				id:        n.elementData.id,
				className: n.elementData.className,
			}
			clone.elementData.attributes = make([]Attribute, len(n.elementData.attributes))
			copy(clone.elementData.attributes, n.elementData.attributes)
		}
	case TextNode:
		if n.textData != nil {
			text := *n.textData
			clone.textData = &text
		}
	case DocumentNode:
		clone.documentData = &documentData{}
		if n.documentData != nil {
			clone.documentData.logger = n.documentData.logger
			clone.documentData.selectorCompiler = n.documentData.selectorCompiler
		}
		// Set ownerDoc to point to itself for Document nodes
		clone.ownerDoc = (*Document)(clone)
	}

	return clone
}

// correspondingNode finds the node in the cloned tree that sits at the same
// position as target sits in the original tree.
func correspondingNode(original, clone, target *Node) *Node {
	if target == nil || !original.Contains(target) {
		return nil
	}
	var indexes []int
	for cur := target; cur != original; cur = cur.parentNode {
		indexes = append(indexes, cur.index())
	}
	result := clone
	for i := len(indexes) - 1; i >= 0 && result != nil; i-- {
		result = result.childNodes.Item(indexes[i])
	}
	return result
}

// index returns the position of the node among its siblings.
func (n *Node) index() int {
	i := 0
	for sibling := n.prevSibling; sibling != nil; sibling = sibling.prevSibling {
		i++
	}
	return i
}

// Contains returns true if other is this node or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	if other == nil {
		return false
	}
	for node := other; node != nil; node = node.parentNode {
		if node == n {
			return true
		}
	}
	return false
}

// GetRootNode returns the root of the tree containing this node.
func (n *Node) GetRootNode() *Node {
	root := n
	for root.parentNode != nil {
		root = root.parentNode
	}
	return root
}

// IsSameNode returns true if this node is the same node as the given node.
func (n *Node) IsSameNode(other *Node) bool {
	return n == other
}

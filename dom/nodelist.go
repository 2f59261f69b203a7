package dom

// NodeList is a live view of a node's children: it always reflects the
// current child list of its parent.
type NodeList struct {
	parent *Node
}

// newNodeList creates a new live NodeList for the given parent node.
func newNodeList(parent *Node) *NodeList {
	return &NodeList{parent: parent}
}

// Length returns the number of nodes in the collection.
func (nl *NodeList) Length() int {
	count := 0
	for child := nl.parent.firstChild; child != nil; child = child.nextSibling {
		count++
	}
	return count
}

// Item returns the node at the given index, or nil if the index is out of bounds.
func (nl *NodeList) Item(index int) *Node {
	if index < 0 {
		return nil
	}
	i := 0
	for child := nl.parent.firstChild; child != nil; child = child.nextSibling {
		if i == index {
			return child
		}
		i++
	}
	return nil
}

// IndexOf returns the position of node in the list, or -1.
func (nl *NodeList) IndexOf(node *Node) int {
	i := 0
	for child := nl.parent.firstChild; child != nil; child = child.nextSibling {
		if child == node {
			return i
		}
		i++
	}
	return -1
}

// ForEach calls the given function for each node in the collection.
func (nl *NodeList) ForEach(fn func(node *Node, index int)) {
	i := 0
	for child := nl.parent.firstChild; child != nil; child = child.nextSibling {
		fn(child, i)
		i++
	}
}

// ToSlice returns a snapshot of the nodes currently in the list.
func (nl *NodeList) ToSlice() []*Node {
	var values []*Node
	nl.ForEach(func(node *Node, _ int) {
		values = append(values, node)
	})
	return values
}

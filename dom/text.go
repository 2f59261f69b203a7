package dom

import "strings"

// Text represents a text node in the DOM. It carries a data payload and is
// always a leaf in trees built through this package.
type Text Node

func newTextNode(data string, ownerDoc *Document) *Node {
	node := newNode(TextNode, "#text", ownerDoc)
	node.textData = &data
	return node
}

// AsNode returns the underlying Node.
func (t *Text) AsNode() *Node {
	return (*Node)(t)
}

// NodeType returns TextNode (3).
func (t *Text) NodeType() NodeType {
	return TextNode
}

// NodeName returns "#text".
func (t *Text) NodeName() string {
	return "#text"
}

// Data returns the text content.
func (t *Text) Data() string {
	return t.AsNode().NodeValue()
}

// SetData sets the text content.
func (t *Text) SetData(data string) {
	t.AsNode().SetNodeValue(data)
}

// Length returns the length of the text content in UTF-16 code units.
func (t *Text) Length() int {
	return UTF16Length(t.Data())
}

// AppendData appends a string to the text.
func (t *Text) AppendData(data string) {
	t.SetData(t.Data() + data)
}

// SubstringData returns count code units starting at offset. It fails with
// an IndexSizeError when offset is past the end of the data.
func (t *Text) SubstringData(offset, count int) (string, error) {
	data := t.Data()
	length := UTF16Length(data)
	if offset < 0 || offset > length {
		return "", ErrIndexSize("offset is outside the text data")
	}
	if count < 0 {
		count = 0
	}
	if count > length-offset {
		count = length - offset
	}
	return UTF16Substring(data, offset, offset+count), nil
}

// SplitText truncates the node at offset and inserts a new text node holding
// the remainder right after it. The new node is returned.
func (t *Text) SplitText(offset int) (*Text, error) {
	data := t.Data()
	length := UTF16Length(data)
	if offset < 0 || offset > length {
		return nil, ErrIndexSize("offset is outside the text data")
	}

	node := t.AsNode()
	rest := (*Text)(newTextNode(UTF16Substring(data, offset, length), node.ownerDoc))
	t.SetData(UTF16Substring(data, 0, offset))
	if parent := node.parentNode; parent != nil {
		parent.InsertBefore(rest.AsNode(), node.nextSibling)
	}
	return rest, nil
}

// WholeText returns the text of this node and all adjacent text nodes.
func (t *Text) WholeText() string {
	first := t.AsNode()
	for first.prevSibling != nil && first.prevSibling.nodeType == TextNode {
		first = first.prevSibling
	}

	var sb strings.Builder
	for node := first; node != nil && node.nodeType == TextNode; node = node.nextSibling {
		sb.WriteString(node.NodeValue())
	}
	return sb.String()
}

// CloneNode clones this text node together with its data.
func (t *Text) CloneNode() *Text {
	return (*Text)(t.AsNode().CloneNode(false))
}

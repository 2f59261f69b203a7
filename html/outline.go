package html

import (
	"strconv"
	"strings"

	tp "github.com/xlab/treeprint"

	"github.com/chrisuehlinger/minidom/dom"
)

// Outline renders n and its descendants as an indented tree, one node per
// line. It is meant for debugging, not as markup.
func Outline(n *dom.Node) string {
	if n == nil {
		return ""
	}
	p := tp.New()
	outline(p, n)
	return p.String()
}

func outline(p tp.Tree, n *dom.Node) {
	if !n.HasChildNodes() {
		p.AddNode(label(n))
		return
	}
	branch := p.AddBranch(label(n))
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		outline(branch, child)
	}
}

func label(n *dom.Node) string {
	switch n.NodeType() {
	case dom.TextNode:
		return "#text " + strconv.Quote(n.NodeValue())
	case dom.ElementNode:
		el := (*dom.Element)(n)
		var sb strings.Builder
		sb.WriteString("<")
		sb.WriteString(el.LocalName())
		for _, attr := range el.Attributes() {
			sb.WriteString(" ")
			sb.WriteString(attr.Name)
			sb.WriteString("=")
			sb.WriteString(strconv.Quote(attr.Value))
		}
		sb.WriteString(">")
		return sb.String()
	default:
		return n.NodeName()
	}
}

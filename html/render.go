// Package html serializes dom trees to HTML markup using golang.org/x/net/html
// as the underlying renderer.
package html

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/chrisuehlinger/minidom/dom"
)

// Render writes the HTML serialization of n and its descendants to w.
// Text and attribute values are escaped. Void elements such as <br> are
// written self-closed and their children, if any, are not serialized.
func Render(w io.Writer, n *dom.Node) error {
	if n == nil {
		return nil
	}
	return html.Render(w, convertNode(n))
}

// OuterHTML returns the serialization of n including n itself. It returns
// the empty string if rendering fails.
func OuterHTML(n *dom.Node) string {
	var sb strings.Builder
	if err := Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}

// InnerHTML returns the serialization of n's children. A void element
// serializes as empty.
func InnerHTML(n *dom.Node) string {
	if n == nil {
		return ""
	}
	if n.NodeType() == dom.ElementNode && IsVoidElement((*dom.Element)(n).LocalName()) {
		return ""
	}
	var sb strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if err := Render(&sb, child); err != nil {
			return ""
		}
	}
	return sb.String()
}

// IsVoidElement reports whether tagName names an HTML element that cannot
// have content.
func IsVoidElement(tagName string) bool {
	switch atom.Lookup([]byte(strings.ToLower(tagName))) {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr, atom.Img,
		atom.Input, atom.Keygen, atom.Link, atom.Meta, atom.Param, atom.Source,
		atom.Track, atom.Wbr:
		return true
	}
	return false
}

// convertNode builds the golang.org/x/net/html equivalent of n.
func convertNode(n *dom.Node) *html.Node {
	var out *html.Node
	switch n.NodeType() {
	case dom.DocumentNode:
		out = &html.Node{Type: html.DocumentNode}
	case dom.TextNode:
		return &html.Node{Type: html.TextNode, Data: n.NodeValue()}
	case dom.ElementNode:
		el := (*dom.Element)(n)
		name := el.LocalName()
		out = &html.Node{
			Type:     html.ElementNode,
			Data:     name,
			DataAtom: atom.Lookup([]byte(name)),
			Attr:     convertAttributes(el.Attributes()),
		}
		if IsVoidElement(name) {
			return out
		}
	default:
		return &html.Node{Type: html.ErrorNode}
	}

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		out.AppendChild(convertNode(child))
	}
	return out
}

func convertAttributes(attrs []dom.Attribute) []html.Attribute {
	if len(attrs) == 0 {
		return nil
	}
	result := make([]html.Attribute, len(attrs))
	for i, attr := range attrs {
		result[i] = html.Attribute{Key: attr.Name, Val: attr.Value}
	}
	return result
}

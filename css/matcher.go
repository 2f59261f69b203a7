package css

import (
	"strings"

	"github.com/chrisuehlinger/minidom/dom"
)

// MatchElement tests if any compound of the selector list matches an element.
func (s *CSSSelector) MatchElement(el *dom.Element) bool {
	for _, c := range s.Compounds {
		if c.MatchElement(el) {
			return true
		}
	}
	return false
}

// MatchElement tests if a compound selector matches an element.
func (c *CompoundSelector) MatchElement(el *dom.Element) bool {
	if el == nil {
		return false
	}

	// Type selector
	if c.TypeSelector != "" && c.TypeSelector != "*" {
		if !strings.EqualFold(el.LocalName(), c.TypeSelector) {
			return false
		}
	}

	// ID selectors
	for _, id := range c.IDSelectors {
		if el.ID() != id {
			return false
		}
	}

	// Class selectors
	for _, class := range c.ClassSelectors {
		if !el.HasClass(class) {
			return false
		}
	}

	// Attribute selectors
	for _, attr := range c.AttributeMatchers {
		if !matchAttributeSelector(attr, el) {
			return false
		}
	}

	return true
}

func matchAttributeSelector(attr *AttributeMatcher, el *dom.Element) bool {
	value, ok := el.LookupAttribute(attr.Name)
	if !ok {
		return false
	}
	switch attr.Operator {
	case AttrExists:
		return true
	case AttrEquals:
		return value == attr.Value
	default:
		return false
	}
}

// Compile parses selector and returns a predicate matching the elements it
// selects. It has the dom.SelectorCompiler signature, so it can be passed to
// dom.WithSelectorCompiler.
func Compile(selector string) (dom.Predicate, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	return sel.MatchElement, nil
}

// MustCompile is like Compile but panics if the selector cannot be parsed.
func MustCompile(selector string) dom.Predicate {
	pred, err := Compile(selector)
	if err != nil {
		panic(err)
	}
	return pred
}

// Matches reports whether el matches selector.
func Matches(el *dom.Element, selector string) (bool, error) {
	pred, err := Compile(selector)
	if err != nil {
		return false, err
	}
	return pred(el), nil
}

// QuerySelector returns the first element under root matching the selector.
func QuerySelector(root *dom.Node, selector string) (*dom.Element, error) {
	pred, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	return findFirst(root, pred), nil
}

// QuerySelectorAll returns all elements under root matching the selector.
func QuerySelectorAll(root *dom.Node, selector string) ([]*dom.Element, error) {
	pred, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	switch root.NodeType() {
	case dom.DocumentNode:
		return (*dom.Document)(root).FindAll(pred), nil
	case dom.ElementNode:
		return (*dom.Element)(root).FindAll(pred), nil
	}
	return nil, nil
}

func findFirst(root *dom.Node, pred dom.Predicate) *dom.Element {
	switch root.NodeType() {
	case dom.DocumentNode:
		return (*dom.Document)(root).FindFirst(pred)
	case dom.ElementNode:
		return (*dom.Element)(root).FindFirst(pred)
	}
	return nil
}

package dom

import "strings"

// Predicate selects elements during a search.
type Predicate func(*Element) bool

// SelectorCompiler turns a selector string into a Predicate. The css package
// provides one; install it with WithSelectorCompiler.
type SelectorCompiler func(selector string) (Predicate, error)

// ByID matches elements whose id equals id. An empty id matches nothing.
func ByID(id string) Predicate {
	return func(el *Element) bool {
		return id != "" && el.ID() == id
	}
}

// ByTagName matches elements by tag name, case-insensitively. "*" matches
// every element.
func ByTagName(tagName string) Predicate {
	tagName = strings.ToUpper(tagName)
	return func(el *Element) bool {
		if tagName == "*" {
			return true
		}
		return el.TagName() == tagName
	}
}

// ByClassName matches elements carrying every whitespace separated class in
// classNames. An empty list matches nothing.
func ByClassName(classNames string) Predicate {
	classes := strings.Fields(classNames)
	return func(el *Element) bool {
		if len(classes) == 0 {
			return false
		}
		for _, class := range classes {
			if !el.HasClass(class) {
				return false
			}
		}
		return true
	}
}

// ByAttribute matches elements having the attribute name set to value.
func ByAttribute(name, value string) Predicate {
	return func(el *Element) bool {
		v, ok := el.LookupAttribute(name)
		return ok && v == value
	}
}

// HasAttributeNamed matches elements carrying the attribute regardless of value.
func HasAttributeNamed(name string) Predicate {
	return func(el *Element) bool {
		return el.HasAttribute(name)
	}
}

// All matches elements for which every predicate holds.
func All(preds ...Predicate) Predicate {
	return func(el *Element) bool {
		for _, pred := range preds {
			if !pred(el) {
				return false
			}
		}
		return true
	}
}

// Any matches elements for which at least one predicate holds.
func Any(preds ...Predicate) Predicate {
	return func(el *Element) bool {
		for _, pred := range preds {
			if pred(el) {
				return true
			}
		}
		return false
	}
}

// findAll collects the element descendants of root that satisfy pred, in
// pre-order.
func findAll(root *Node, pred Predicate) []*Element {
	var elements []*Element
	traverse(root, pred, false, &elements)
	return elements
}

func findFirst(root *Node, pred Predicate) *Element {
	var elements []*Element
	traverse(root, pred, true, &elements)
	if len(elements) > 0 {
		return elements[0]
	}
	return nil
}

// traverse walks the element descendants of node. Text children are skipped
// by kind, so they are never handed to the predicate.
func traverse(node *Node, pred Predicate, firstOnly bool, results *[]*Element) bool {
	for child := node.firstChild; child != nil; child = child.nextSibling {
		if child.nodeType != ElementNode {
			continue
		}
		el := (*Element)(child)
		if pred(el) {
			*results = append(*results, el)
			if firstOnly {
				return true
			}
		}
		if traverse(child, pred, firstOnly, results) {
			return true
		}
	}
	return false
}

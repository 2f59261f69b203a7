package dom

import (
	"log/slog"
	"unicode"
)

// documentData holds data specific to Document nodes.
type documentData struct {
	documentElement  *Node // root Element, assigned by the owner
	logger           *slog.Logger
	selectorCompiler SelectorCompiler
}

// Document is the root of a DOM tree. It never has a parent, creates the
// other node kinds and is the entry point for whole-tree searches.
type Document Node

// DocumentOption configures a Document created by NewDocument.
type DocumentOption func(*documentData)

// WithLogger sets the logger that receives listener failures reported during
// event dispatch. The default is slog.Default().
func WithLogger(logger *slog.Logger) DocumentOption {
	return func(dd *documentData) {
		dd.logger = logger
	}
}

// WithSelectorCompiler installs the compiler used by QuerySelector,
// QuerySelectorAll and Matches.
func WithSelectorCompiler(compiler SelectorCompiler) DocumentOption {
	return func(dd *documentData) {
		dd.selectorCompiler = compiler
	}
}

// NewDocument creates a new empty Document.
func NewDocument(opts ...DocumentOption) *Document {
	node := newNode(DocumentNode, "#document", nil)
	node.documentData = &documentData{}
	for _, opt := range opts {
		opt(node.documentData)
	}
	doc := (*Document)(node)
	node.ownerDoc = doc
	return doc
}

// AsNode returns the underlying Node.
func (d *Document) AsNode() *Node {
	return (*Node)(d)
}

// NodeType returns DocumentNode (9).
func (d *Document) NodeType() NodeType {
	return DocumentNode
}

// NodeName returns "#document".
func (d *Document) NodeName() string {
	return "#document"
}

// DocumentElement returns the root element of the document, or nil if none
// has been assigned.
func (d *Document) DocumentElement() *Element {
	if d.documentData == nil || d.documentData.documentElement == nil {
		return nil
	}
	return (*Element)(d.documentData.documentElement)
}

// SetDocumentElement assigns the document's root element. Appending an
// element to the document does not do this implicitly.
func (d *Document) SetDocumentElement(el *Element) {
	if el == nil {
		d.documentData.documentElement = nil
		return
	}
	d.documentData.documentElement = el.AsNode()
}

// Logger returns the logger used for dispatch failures.
func (d *Document) Logger() *slog.Logger {
	if d == nil || d.documentData == nil || d.documentData.logger == nil {
		return slog.Default()
	}
	return d.documentData.logger
}

// SetLogger replaces the logger used for dispatch failures.
func (d *Document) SetLogger(logger *slog.Logger) {
	d.documentData.logger = logger
}

// SetSelectorCompiler replaces the selector compiler.
func (d *Document) SetSelectorCompiler(compiler SelectorCompiler) {
	d.documentData.selectorCompiler = compiler
}

// CreateElement creates a new element with the given tag name.
// This method ignores errors for backwards compatibility. Use CreateElementWithError
// for proper error handling.
func (d *Document) CreateElement(tagName string) *Element {
	el, _ := d.CreateElementWithError(tagName)
	return el
}

// CreateElementWithError creates a new element with the given tag name.
// Returns an InvalidCharacterError if the tag name is not a valid name.
func (d *Document) CreateElementWithError(tagName string) (*Element, error) {
	if !isValidElementName(tagName) {
		return nil, ErrInvalidCharacter("The tag name provided ('" + tagName + "') is not a valid name.")
	}
	return newElement(tagName, d), nil
}

// isValidElementName accepts names starting with a letter and containing no
// whitespace or markup delimiters.
func isValidElementName(name string) bool {
	for i, r := range name {
		if i == 0 && !unicode.IsLetter(r) {
			return false
		}
		if unicode.IsSpace(r) || r == '\x00' || r == '/' || r == '>' || r == '<' || r == '=' {
			return false
		}
	}
	return name != ""
}

// CreateTextNode creates a new text node with the given data.
func (d *Document) CreateTextNode(data string) *Text {
	return (*Text)(newTextNode(data, d))
}

// TextContent is always empty for documents.
func (d *Document) TextContent() string {
	return ""
}

// CloneNode clones the document. A deep clone re-targets DocumentElement to
// the cloned counterpart when the original element is part of the tree.
func (d *Document) CloneNode(deep bool) *Document {
	return (*Document)(d.AsNode().CloneNode(deep))
}

// FindAll returns the elements of the document for which pred holds, in
// document order.
func (d *Document) FindAll(pred Predicate) []*Element {
	var results []*Element
	d.search(pred, false, &results)
	return results
}

// FindFirst returns the first element of the document for which pred holds.
func (d *Document) FindFirst(pred Predicate) *Element {
	var results []*Element
	d.search(pred, true, &results)
	if len(results) > 0 {
		return results[0]
	}
	return nil
}

// search walks the document's element descendants. A documentElement that
// was assigned but never attached is searched on its own, inclusively.
func (d *Document) search(pred Predicate, firstOnly bool, results *[]*Element) {
	if de := d.DocumentElement(); de != nil && !d.AsNode().Contains(de.AsNode()) {
		if pred(de) {
			*results = append(*results, de)
			if firstOnly {
				return
			}
		}
		traverse(de.AsNode(), pred, firstOnly, results)
		return
	}
	traverse(d.AsNode(), pred, firstOnly, results)
}

// GetElementByID returns the first element with the given id.
// Returns nil if id is empty since elements with an empty id attribute are
// not considered to have an ID.
func (d *Document) GetElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	return d.FindFirst(ByID(id))
}

// GetElementsByTagName returns elements with the given tag name.
func (d *Document) GetElementsByTagName(tagName string) []*Element {
	return d.FindAll(ByTagName(tagName))
}

// GetElementsByClassName returns elements with the given class name(s).
func (d *Document) GetElementsByClassName(classNames string) []*Element {
	return d.FindAll(ByClassName(classNames))
}

// QuerySelector returns the first element matching the selector.
func (d *Document) QuerySelector(selector string) (*Element, error) {
	pred, err := d.compileSelector(selector)
	if err != nil {
		return nil, err
	}
	return d.FindFirst(pred), nil
}

// QuerySelectorAll returns all elements matching the selector.
func (d *Document) QuerySelectorAll(selector string) ([]*Element, error) {
	pred, err := d.compileSelector(selector)
	if err != nil {
		return nil, err
	}
	return d.FindAll(pred), nil
}

func (d *Document) compileSelector(selector string) (Predicate, error) {
	if d == nil || d.documentData == nil || d.documentData.selectorCompiler == nil {
		return nil, ErrNotSupported("No selector compiler is installed.")
	}
	return d.documentData.selectorCompiler(selector)
}

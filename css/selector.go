// Package css compiles simple CSS selectors into dom.Predicate values.
//
// Supported syntax is a comma separated list of compound selectors built
// from a type selector (div, *), #id, .class, [attr] and [attr=value]
// with an optional quoted value. Combinators and pseudo-classes are
// rejected with a SyntaxError.
package css

import (
	"strings"

	"github.com/chrisuehlinger/minidom/dom"
)

// CSSSelector represents a parsed selector list.
type CSSSelector struct {
	Compounds []*CompoundSelector
}

// CompoundSelector is a sequence of simple selectors that all apply to the
// same element.
type CompoundSelector struct {
	TypeSelector      string // "" when absent, "*" for universal
	IDSelectors       []string
	ClassSelectors    []string
	AttributeMatchers []*AttributeMatcher
}

// AttributeOperator represents the operator in an attribute selector.
type AttributeOperator int

const (
	AttrExists AttributeOperator = iota // [attr]
	AttrEquals                          // [attr=value]
)

// AttributeMatcher represents an attribute selector.
type AttributeMatcher struct {
	Name     string
	Operator AttributeOperator
	Value    string
}

// selectorParser is a byte scanner over a selector string.
type selectorParser struct {
	input string
	pos   int
}

// ParseSelector parses a selector list.
func ParseSelector(input string) (*CSSSelector, error) {
	p := &selectorParser{input: input}
	return p.parseSelector()
}

func (p *selectorParser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *selectorParser) current() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *selectorParser) skipWhitespace() bool {
	skipped := false
	for !p.eof() && isWhitespace(p.current()) {
		p.pos++
		skipped = true
	}
	return skipped
}

func (p *selectorParser) errorf(msg string) error {
	return dom.ErrSyntax("'" + p.input + "' is not a valid selector: " + msg + ".")
}

// parseSelector parses compounds separated by commas.
func (p *selectorParser) parseSelector() (*CSSSelector, error) {
	selector := &CSSSelector{}

	p.skipWhitespace()
	if p.eof() {
		return nil, p.errorf("empty selector")
	}

	for {
		compound, err := p.parseCompoundSelector()
		if err != nil {
			return nil, err
		}
		selector.Compounds = append(selector.Compounds, compound)

		p.skipWhitespace()
		if p.eof() {
			return selector, nil
		}
		if p.current() != ',' {
			if isCombinator(p.current()) || isNameStart(p.current()) || strings.IndexByte("#.[*", p.current()) >= 0 {
				return nil, p.errorf("combinators are not supported")
			}
			return nil, p.errorf("unexpected '" + string(p.current()) + "'")
		}
		p.pos++
		p.skipWhitespace()
	}
}

// parseCompoundSelector parses a single compound selector.
func (p *selectorParser) parseCompoundSelector() (*CompoundSelector, error) {
	compound := &CompoundSelector{}
	start := p.pos

	// Type selector
	if p.current() == '*' {
		p.pos++
		compound.TypeSelector = "*"
	} else if isNameStart(p.current()) {
		compound.TypeSelector = strings.ToLower(p.parseIdent())
	}

	for !p.eof() {
		switch c := p.current(); c {
		case '#':
			p.pos++
			name := p.parseIdent()
			if name == "" {
				return nil, p.errorf("expected an id after '#'")
			}
			compound.IDSelectors = append(compound.IDSelectors, name)
		case '.':
			p.pos++
			name := p.parseIdent()
			if name == "" {
				return nil, p.errorf("expected a class name after '.'")
			}
			compound.ClassSelectors = append(compound.ClassSelectors, name)
		case '[':
			attr, err := p.parseAttributeSelector()
			if err != nil {
				return nil, err
			}
			compound.AttributeMatchers = append(compound.AttributeMatchers, attr)
		case ':':
			return nil, p.errorf("pseudo-classes are not supported")
		case '*':
			return nil, p.errorf("unexpected '*'")
		default:
			if p.pos == start {
				return nil, p.errorf("unexpected '" + string(c) + "'")
			}
			return compound, nil
		}
	}

	if p.pos == start {
		return nil, p.errorf("expected a selector")
	}
	return compound, nil
}

// parseAttributeSelector parses [attr] and [attr=value].
func (p *selectorParser) parseAttributeSelector() (*AttributeMatcher, error) {
	p.pos++ // [
	p.skipWhitespace()

	name := p.parseIdent()
	if name == "" {
		return nil, p.errorf("expected an attribute name")
	}
	attr := &AttributeMatcher{Name: strings.ToLower(name), Operator: AttrExists}

	p.skipWhitespace()
	switch p.current() {
	case ']':
		p.pos++
		return attr, nil
	case '=':
		p.pos++
	default:
		return nil, p.errorf("unsupported attribute operator")
	}

	p.skipWhitespace()
	attr.Operator = AttrEquals
	switch q := p.current(); q {
	case '"', '\'':
		value, err := p.parseString(q)
		if err != nil {
			return nil, err
		}
		attr.Value = value
	default:
		value := p.parseIdent()
		if value == "" {
			return nil, p.errorf("expected an attribute value")
		}
		attr.Value = value
	}

	p.skipWhitespace()
	if p.current() != ']' {
		return nil, p.errorf("expected ']'")
	}
	p.pos++
	return attr, nil
}

// parseIdent consumes an identifier, resolving backslash escapes of single
// characters.
func (p *selectorParser) parseIdent() string {
	var sb strings.Builder
	for !p.eof() {
		c := p.current()
		switch {
		case c == '\\' && p.pos+1 < len(p.input):
			sb.WriteByte(p.input[p.pos+1])
			p.pos += 2
		case isNameChar(c):
			sb.WriteByte(c)
			p.pos++
		default:
			return sb.String()
		}
	}
	return sb.String()
}

// parseString consumes a string delimited by quote.
func (p *selectorParser) parseString(quote byte) (string, error) {
	p.pos++
	var sb strings.Builder
	for !p.eof() {
		c := p.current()
		switch {
		case c == quote:
			p.pos++
			return sb.String(), nil
		case c == '\\' && p.pos+1 < len(p.input):
			sb.WriteByte(p.input[p.pos+1])
			p.pos += 2
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated string")
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isCombinator(c byte) bool {
	return c == '>' || c == '+' || c == '~'
}

func isNameStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '-' || c >= 0x80 || c == '\\'
}

func isNameChar(c byte) bool {
	return isNameStart(c) && c != '\\' || c >= '0' && c <= '9'
}

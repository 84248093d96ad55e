package jsontree

import (
	"fmt"
	"log/slog"
	"sync"
)

// Parser drives a single recursive-descent parse of a byte range into a
// Node tree, per spec.md §4.3. It carries the content, the current
// offset, the current nesting depth, and the Allocator this parse was
// constructed with, captured by value at construction so a later call
// to SetDefaultAllocator never perturbs an in-flight parse.
type Parser struct {
	content string
	offset  int
	depth   int
	alloc   Allocator
	logger  *slog.Logger

	strict bool
}

// ParseOption configures a Parser constructed by NewParser/Parse.
type ParseOption func(*Parser)

// WithAllocator overrides the Allocator a Parser uses for this call only,
// per spec.md §4.1's per-parse override.
func WithAllocator(a Allocator) ParseOption {
	return func(p *Parser) { p.alloc = a }
}

// WithStrictTermination requires that, after the top-level value, only
// whitespace remains. Without it, trailing bytes are ignored (the parse
// simply stops after the value), matching spec.md §4.3's distinction
// between strict and non-strict top-level parses.
func WithStrictTermination() ParseOption {
	return func(p *Parser) { p.strict = true }
}

// WithLogger attaches a *slog.Logger used only for debug-level tracing
// of depth-limit near-misses; a nil logger (the default) disables
// tracing entirely rather than panicking.
func WithLogger(logger *slog.Logger) ParseOption {
	return func(p *Parser) { p.logger = logger }
}

// NewParser constructs a Parser over content without running it, for
// callers that want to inspect options before calling Parse.
func NewParser(content string, opts ...ParseOption) *Parser {
	p := &Parser{content: content, alloc: currentDefaultAllocator()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// parserPool recycles *Parser values, following the same
// AcquireWriter/ReleaseWriter sync.Pool pattern print.go uses for Printer.
var parserPool = sync.Pool{New: func() any { return &Parser{} }}

// AcquireParser fetches a recycled Parser (or allocates one) and resets
// it over content. Pair with ReleaseParser when done.
func AcquireParser(content string, opts ...ParseOption) *Parser {
	p := parserPool.Get().(*Parser)
	*p = Parser{content: content, alloc: currentDefaultAllocator()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ReleaseParser returns p to the pool. p must not be used afterward.
func ReleaseParser(p *Parser) {
	if p == nil {
		return
	}
	*p = Parser{}
	parserPool.Put(p)
}

// Parse parses content into a Node tree. On success it returns the root
// node and clears the LastParseError slot; the offset at which parsing
// stopped is not reported on success. On failure it returns a
// *ParseError describing the kind and offset of the failure, and also
// records it for LastParseError.
func Parse(content string, opts ...ParseOption) (*Node, error) {
	p := NewParser(content, opts...)
	root, err := p.parseDocument()
	if err != nil {
		pe := p.wrapError(err)
		recordLastParseError(pe)
		return nil, pe
	}
	recordLastParseError(nil)
	return root, nil
}

func (p *Parser) wrapError(err error) *ParseError {
	if pe, ok := err.(*ParseError); ok {
		return pe
	}
	kind := ErrKindSyntax
	if _, ok := err.(*ContractError); ok {
		kind = ErrKindContract
	}
	return newParseError(kind, p.content, p.offset, err)
}

func (p *Parser) parseDocument() (*Node, error) {
	p.skipBOM()
	p.skipWhitespace()
	root, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if p.strict && p.offset < len(p.content) {
		return nil, newParseError(ErrKindSyntax, p.content, p.offset,
			fmt.Errorf("trailing content after top-level value"))
	}
	return root, nil
}

func (p *Parser) skipBOM() {
	const bom = "\xEF\xBB\xBF"
	if p.offset == 0 && len(p.content) >= len(bom) && p.content[:len(bom)] == bom {
		p.offset = len(bom)
	}
}

func (p *Parser) skipWhitespace() {
	s := p.content
	i := p.offset
	for i < len(s) && s[i] <= 0x20 {
		i++
	}
	p.offset = i
}

func (p *Parser) atEnd() bool { return p.offset >= len(p.content) }

func (p *Parser) enterContainer() error {
	p.depth++
	if p.depth > MaxNestingDepth {
		p.depth--
		return newParseError(ErrKindDepth, p.content, p.offset,
			fmt.Errorf("nesting depth exceeds %d", MaxNestingDepth))
	}
	if p.logger != nil && p.depth >= MaxNestingDepth-4 {
		p.logger.Debug("approaching nesting depth limit",
			"depth", p.depth, "limit", MaxNestingDepth, "offset", p.offset)
	}
	return nil
}

func (p *Parser) exitContainer() { p.depth-- }

// parseValue dispatches on the lookahead byte per spec.md §4.3's value
// dispatch table.
func (p *Parser) parseValue() (*Node, error) {
	if p.atEnd() {
		return nil, newParseError(ErrKindBounds, p.content, p.offset,
			fmt.Errorf("unexpected end of input"))
	}
	switch p.content[p.offset] {
	case 'n':
		return p.parseLiteral("null", NewNull())
	case 't':
		return p.parseLiteral("true", NewTrue())
	case 'f':
		return p.parseLiteral("false", NewFalse())
	case '"':
		return p.parseStringNode()
	case '[':
		return p.parseArray()
	case '{':
		return p.parseObject()
	default:
		c := p.content[p.offset]
		if c == '-' || (c >= '0' && c <= '9') {
			return p.parseNumberNode()
		}
		return nil, newParseError(ErrKindSyntax, p.content, p.offset,
			fmt.Errorf("unexpected character %q", c))
	}
}

func (p *Parser) parseLiteral(literal string, node *Node) (*Node, error) {
	end := p.offset + len(literal)
	if end > len(p.content) || p.content[p.offset:end] != literal {
		return nil, newParseError(ErrKindSyntax, p.content, p.offset,
			fmt.Errorf("expected %q", literal))
	}
	p.offset = end
	return node, nil
}

func (p *Parser) parseNumberNode() (*Node, error) {
	node, end, err := parseNumberAt(p.content, p.offset)
	if err != nil {
		return nil, newParseError(ErrKindSyntax, p.content, p.offset, err)
	}
	p.offset = end
	return node, nil
}

func (p *Parser) parseStringNode() (*Node, error) {
	value, end, err := parseStringAt(p.content, p.offset, p.alloc)
	if err != nil {
		return nil, p.wrapStringErr(err)
	}
	p.offset = end
	return NewString(value), nil
}

func (p *Parser) wrapStringErr(err error) error {
	if _, ok := err.(*ContractError); ok {
		return newParseError(ErrKindContract, p.content, p.offset, err)
	}
	return newParseError(ErrKindSyntax, p.content, p.offset, err)
}

// parseArray implements spec.md §4.3's array grammar: after '[', skip
// whitespace and handle the empty case; otherwise loop parsing a value,
// splicing it onto the tail via appendChild (O(1) via the tail-in-head
// trick), requiring ',' to continue or ']' to close.
func (p *Parser) parseArray() (*Node, error) {
	if err := p.enterContainer(); err != nil {
		return nil, err
	}
	defer p.exitContainer()

	p.offset++ // consume '['
	arr := NewArray()

	p.skipWhitespace()
	if !p.atEnd() && p.content[p.offset] == ']' {
		p.offset++
		return arr, nil
	}

	for {
		p.skipWhitespace()
		item, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		appendChild(arr, item)

		p.skipWhitespace()
		if p.atEnd() {
			return nil, newParseError(ErrKindBounds, p.content, p.offset,
				fmt.Errorf("unterminated array"))
		}
		switch p.content[p.offset] {
		case ',':
			p.offset++
			continue
		case ']':
			p.offset++
			return arr, nil
		default:
			return nil, newParseError(ErrKindSyntax, p.content, p.offset,
				fmt.Errorf("expected ',' or ']'"))
		}
	}
}

// parseObject mirrors parseArray but parses a string key, requires ':',
// then a value, before splicing the child onto the tail.
func (p *Parser) parseObject() (*Node, error) {
	if err := p.enterContainer(); err != nil {
		return nil, err
	}
	defer p.exitContainer()

	p.offset++ // consume '{'
	obj := NewObject()

	p.skipWhitespace()
	if !p.atEnd() && p.content[p.offset] == '}' {
		p.offset++
		return obj, nil
	}

	for {
		p.skipWhitespace()
		if p.atEnd() || p.content[p.offset] != '"' {
			return nil, newParseError(ErrKindSyntax, p.content, p.offset,
				fmt.Errorf("expected string key"))
		}
		key, end, err := parseStringAt(p.content, p.offset, p.alloc)
		if err != nil {
			return nil, p.wrapStringErr(err)
		}
		p.offset = end

		p.skipWhitespace()
		if p.atEnd() || p.content[p.offset] != ':' {
			return nil, newParseError(ErrKindSyntax, p.content, p.offset,
				fmt.Errorf("expected ':'"))
		}
		p.offset++

		p.skipWhitespace()
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		value.Key = key
		appendChild(obj, value)

		p.skipWhitespace()
		if p.atEnd() {
			return nil, newParseError(ErrKindBounds, p.content, p.offset,
				fmt.Errorf("unterminated object"))
		}
		switch p.content[p.offset] {
		case ',':
			p.offset++
			continue
		case '}':
			p.offset++
			return obj, nil
		default:
			return nil, newParseError(ErrKindSyntax, p.content, p.offset,
				fmt.Errorf("expected ',' or '}'"))
		}
	}
}

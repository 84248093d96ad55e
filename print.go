package jsontree

import (
	"log/slog"
	"sync"
)

// printer is the "print buffer" from spec.md §4.4: a growable byte
// buffer tracking capacity, offset, depth, the format flag, and the
// no-alloc flag. ensure(n) is the geometric-growth primitive every write
// path funnels through.
type printer struct {
	buf      []byte
	format   bool
	noAlloc  bool
	depth    int
	alloc    Allocator
	overflow bool
	logger   *slog.Logger
}

// Printer is a reusable handle around a print buffer, acquired via
// AcquirePrinter and returned via ReleasePrinter so repeated Print calls
// can reuse the underlying buffer's backing array instead of starting
// fresh each time.
type Printer struct {
	p printer
}

var printerPool = sync.Pool{New: func() any { return &Printer{} }}

// AcquirePrinter fetches a recycled Printer (or allocates one), applying
// opts over a clean buffer. Pair with ReleasePrinter when done.
func AcquirePrinter(opts ...PrintOption) *Printer {
	pr := printerPool.Get().(*Printer)
	buf := pr.p.buf[:0]
	pr.p = printer{alloc: currentDefaultAllocator(), buf: buf}
	for _, opt := range opts {
		opt(&pr.p)
	}
	return pr
}

// ReleasePrinter returns pr to the pool. pr must not be used afterward.
func ReleasePrinter(pr *Printer) {
	if pr == nil {
		return
	}
	printerPool.Put(pr)
}

// Print serializes node using pr's buffer and options, resetting depth
// and overflow state from the previous call.
func (pr *Printer) Print(node *Node) (string, error) {
	pr.p.buf = pr.p.buf[:0]
	pr.p.depth = 0
	pr.p.overflow = false
	if pr.p.buf == nil {
		pr.p.buf = make([]byte, 0, defaultPrintCapacity)
	}
	if err := pr.p.printValue(node); err != nil {
		return "", err
	}
	if pr.p.overflow {
		return "", newContractError("Print: fixed buffer overflow")
	}
	return string(pr.p.buf), nil
}

// PrintOption configures Print.
type PrintOption func(*printer)

// WithFormat enables pretty-printing with tab indentation, per spec.md
// §4.4's Objects/Arrays formatting rules.
func WithFormat() PrintOption {
	return func(p *printer) { p.format = true }
}

// WithCapacityHint supplies an initial buffer capacity, corresponding to
// spec.md §4.4's "hinted" print entry point.
func WithCapacityHint(n int) PrintOption {
	return func(p *printer) {
		if n > 0 {
			p.buf = make([]byte, 0, n)
		}
	}
}

// WithFixedBuffer supplies a fixed-capacity buffer and disables growth,
// corresponding to spec.md §4.4's "fixed" print entry point: overflow
// makes Print return a *ContractError instead of growing the buffer.
func WithFixedBuffer(buf []byte) PrintOption {
	return func(p *printer) {
		p.buf = buf[:0]
		p.noAlloc = true
	}
}

// WithPrintAllocator overrides the Allocator used for buffer growth.
func WithPrintAllocator(a Allocator) PrintOption {
	return func(p *printer) { p.alloc = a }
}

// WithPrintLogger attaches a *slog.Logger used only for debug-level
// tracing of buffer growth events.
func WithPrintLogger(logger *slog.Logger) PrintOption {
	return func(p *printer) { p.logger = logger }
}

const defaultPrintCapacity = 256

// Print serializes node to text. Managed mode (the default) starts with
// a 256-byte buffer and grows as needed; see WithCapacityHint and
// WithFixedBuffer for the other two entry points from spec.md §4.4.
func Print(node *Node, opts ...PrintOption) (string, error) {
	p := &printer{alloc: currentDefaultAllocator()}
	for _, opt := range opts {
		opt(p)
	}
	if p.buf == nil {
		p.buf = make([]byte, 0, defaultPrintCapacity)
	}
	if err := p.printValue(node); err != nil {
		return "", err
	}
	if p.overflow {
		return "", newContractError("Print: fixed buffer overflow")
	}
	return string(p.buf), nil
}

// ensure reports whether at least n more bytes can be written, growing
// the buffer geometrically when allowed. Matches spec.md §4.4's
// ensure(n): grow to max(needed, needed*2) bounded by a 31-bit ceiling,
// or fail when no-alloc is set.
func (p *printer) ensure(n int) bool {
	needed := len(p.buf) + n
	if needed <= cap(p.buf) {
		return true
	}
	if p.noAlloc {
		p.overflow = true
		return false
	}
	const sizeCeiling = 1<<31 - 1
	grown := needed * 2
	if grown < needed || grown > sizeCeiling {
		grown = needed
	}
	if grown > sizeCeiling {
		p.overflow = true
		return false
	}
	next := p.alloc.Allocate(grown)[:len(p.buf)]
	copy(next, p.buf)
	p.buf = next
	if p.logger != nil {
		p.logger.Debug("grew print buffer", "needed", needed, "new_capacity", grown)
	}
	return true
}

func (p *printer) writeByte(b byte) bool {
	if !p.ensure(1) {
		return false
	}
	p.buf = append(p.buf, b)
	return true
}

func (p *printer) writeString(s string) bool {
	if !p.ensure(len(s)) {
		return false
	}
	p.buf = append(p.buf, s...)
	return true
}

func (p *printer) tabs(n int) bool {
	for i := 0; i < n; i++ {
		if !p.writeByte('\t') {
			return false
		}
	}
	return true
}

func (p *printer) printValue(node *Node) error {
	if node == nil {
		return newContractError("Print: nil node")
	}
	ok := true
	switch node.Kind {
	case KindNull, KindInvalid:
		ok = p.writeString("null")
	case KindTrue:
		ok = p.writeString("true")
	case KindFalse:
		ok = p.writeString("false")
	case KindNumber:
		ok = p.writeString(formatNumber(node))
	case KindRaw:
		ok = p.writeString(node.Value)
	case KindString:
		ok = p.printQuotedString(node.Value)
	case KindArray:
		return p.printArray(node)
	case KindObject:
		return p.printObject(node)
	default:
		return newContractError("Print: unknown node kind")
	}
	if !ok {
		return newContractError("Print: buffer overflow")
	}
	return nil
}

func (p *printer) printArray(node *Node) error {
	if !p.writeByte('[') {
		return newContractError("Print: buffer overflow")
	}
	for c := node.Child; c != nil; c = c.Next {
		if err := p.printValue(c); err != nil {
			return err
		}
		if c.Next != nil {
			if !p.writeByte(',') {
				return newContractError("Print: buffer overflow")
			}
			if p.format {
				if !p.writeByte(' ') {
					return newContractError("Print: buffer overflow")
				}
			}
		}
	}
	if !p.writeByte(']') {
		return newContractError("Print: buffer overflow")
	}
	return nil
}

func (p *printer) printObject(node *Node) error {
	if !p.writeByte('{') {
		return newContractError("Print: buffer overflow")
	}
	if p.format {
		if !p.writeByte('\n') {
			return newContractError("Print: buffer overflow")
		}
	}
	p.depth++
	for c := node.Child; c != nil; c = c.Next {
		if p.format {
			if !p.tabs(p.depth) {
				return newContractError("Print: buffer overflow")
			}
		}
		if !p.printQuotedString(c.Key) {
			return newContractError("Print: buffer overflow")
		}
		if !p.writeByte(':') {
			return newContractError("Print: buffer overflow")
		}
		if p.format {
			if !p.writeByte('\t') {
				return newContractError("Print: buffer overflow")
			}
		}
		if err := p.printValue(c); err != nil {
			return err
		}
		if c.Next != nil {
			if !p.writeByte(',') {
				return newContractError("Print: buffer overflow")
			}
		}
		if p.format {
			if !p.writeByte('\n') {
				return newContractError("Print: buffer overflow")
			}
		}
	}
	p.depth--
	if p.format {
		if !p.tabs(p.depth) {
			return newContractError("Print: buffer overflow")
		}
	}
	if !p.writeByte('}') {
		return newContractError("Print: buffer overflow")
	}
	return nil
}

// printQuotedString implements spec.md §4.4's string printer: a fast
// path (no escapes needed) that copies the content verbatim between
// quotes, and a slow path that escapes `" \ \b \f \n \r \t` and any byte
// below 0x20 as `\u00XX`.
func (p *printer) printQuotedString(s string) bool {
	needsEscape := false
	for i := 0; i < len(s); i++ {
		if mustEscape(s[i]) {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		if !p.writeByte('"') || !p.writeString(s) || !p.writeByte('"') {
			return false
		}
		return true
	}

	if !p.writeByte('"') {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			if !p.writeString(`\"`) {
				return false
			}
		case '\\':
			if !p.writeString(`\\`) {
				return false
			}
		case '\b':
			if !p.writeString(`\b`) {
				return false
			}
		case '\f':
			if !p.writeString(`\f`) {
				return false
			}
		case '\n':
			if !p.writeString(`\n`) {
				return false
			}
		case '\r':
			if !p.writeString(`\r`) {
				return false
			}
		case '\t':
			if !p.writeString(`\t`) {
				return false
			}
		default:
			if c < 0x20 {
				if !p.writeString(`\u00`) || !p.writeString(hexByte(c)) {
					return false
				}
			} else {
				if !p.writeByte(c) {
					return false
				}
			}
		}
	}
	return p.writeByte('"')
}

func mustEscape(c byte) bool {
	return c == '"' || c == '\\' || c < 0x20
}

func hexByte(b byte) string {
	const hex = "0123456789abcdef"
	return string([]byte{hex[b>>4], hex[b&0xF]})
}

// MinifyPrint is Print with formatting disabled; provided for symmetry
// with the two-mode ("format or not") API surface spec.md §6 describes.
func MinifyPrint(node *Node) (string, error) {
	return Print(node)
}

// PrintBuffered is Print using the "hinted" entry point: an initial
// capacity estimate instead of the 256-byte default, for callers who
// know roughly how large the serialized form will be.
func PrintBuffered(node *Node, capacityHint int, opts ...PrintOption) (string, error) {
	return Print(node, append(opts, WithCapacityHint(capacityHint))...)
}

// PrintPreallocated is Print using the "fixed" entry point: it writes
// into buf and never grows it, returning a *ContractError on overflow
// instead of allocating.
func PrintPreallocated(node *Node, buf []byte, opts ...PrintOption) (string, error) {
	return Print(node, append(opts, WithFixedBuffer(buf))...)
}

// String serializes node and discards any error, returning an empty
// string on failure. It exists for callers formatting into logs or
// debug output where handling a print error is not worth the ceremony.
func String(node *Node) string {
	s, err := Print(node)
	if err != nil {
		return ""
	}
	return s
}

// Bytes is String, returned as a byte slice.
func Bytes(node *Node) []byte {
	return []byte(String(node))
}


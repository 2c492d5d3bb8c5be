// Package gcstring provides immutable strings managed by a gc.Collector.
//
// Each string object owns a byte buffer. The buffer is released when the object is
// swept or when the heap is closed; the object slot itself is recycled by the
// collector.
package gcstring

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/joshuapare/gckit/gc"
)

// ErrNotString indicates a ref that does not name a live string.
var ErrNotString = errors.New("gcstring: ref is not a live string")

// Encoding names the byte encoding of input passed to Decode.
type Encoding uint8

const (
	UTF8 Encoding = iota
	Windows1252
	Latin1
)

func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "utf-8"
	case Windows1252:
		return "windows-1252"
	case Latin1:
		return "iso-8859-1"
	default:
		return fmt.Sprintf("Encoding(%d)", uint8(e))
	}
}

// ParseEncoding maps a name such as "latin1" or "windows-1252" to an Encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "", "utf8", "utf-8":
		return UTF8, nil
	case "windows-1252", "cp1252", "windows1252":
		return Windows1252, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return Latin1, nil
	default:
		return 0, fmt.Errorf("gcstring: unknown encoding %q", name)
	}
}

func (e Encoding) decoder() *encoding.Decoder {
	switch e {
	case Windows1252:
		return charmap.Windows1252.NewDecoder()
	case Latin1:
		return charmap.ISO8859_1.NewDecoder()
	default:
		return nil
	}
}

// String is the payload of a managed string.
type String struct {
	data []byte
	heap *Heap
}

// Finalize releases the buffer of a swept string.
func (s *String) Finalize() { s.release() }

// Destroy releases the buffer when the heap is closed.
func (s *String) Destroy() { s.release() }

func (s *String) release() {
	if s.data == nil {
		return
	}
	s.data = nil
	s.heap.freed++
}

// Heap allocates strings from one collector.
type Heap struct {
	c     *gc.Collector[String]
	freed int
}

// NewHeap returns a heap managing n string objects. It grows by one object whenever
// it runs out.
func NewHeap(n int, opts ...gc.Option[String]) *Heap {
	return &Heap{c: gc.New(n, opts...)}
}

// Collector exposes the underlying collector for rooting, protecting and collecting.
func (h *Heap) Collector() *gc.Collector[String] { return h.c }

// New allocates a string holding s.
func (h *Heap) New(s string) gc.Ref {
	return h.store([]byte(s))
}

func (h *Heap) store(buf []byte) gc.Ref {
	ref := h.c.MustAlloc()
	*h.c.Get(ref) = String{data: buf, heap: h}
	return ref
}

// Decode converts raw from enc to UTF-8 and allocates the result.
func (h *Heap) Decode(raw []byte, enc Encoding) (gc.Ref, error) {
	dec := enc.decoder()
	if dec == nil {
		return h.store(append([]byte(nil), raw...)), nil
	}
	out, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return gc.Nil, fmt.Errorf("gcstring: decode %s: %w", enc, err)
	}
	return h.store(out), nil
}

// Concat allocates the concatenation of a and b. Both operands are read before the
// allocation, which may run a collection.
func (h *Heap) Concat(a, b gc.Ref) (gc.Ref, error) {
	sa, sb := h.c.Get(a), h.c.Get(b)
	if sa == nil || sb == nil {
		return gc.Nil, ErrNotString
	}
	buf := make([]byte, 0, len(sa.data)+len(sb.data))
	buf = append(buf, sa.data...)
	buf = append(buf, sb.data...)
	return h.store(buf), nil
}

// Text returns the contents of a live string, or "" if ref is not one.
func (h *Heap) Text(ref gc.Ref) string {
	if s := h.c.Get(ref); s != nil {
		return string(s.data)
	}
	return ""
}

// Len returns the byte length of a live string, or -1 if ref is not one.
func (h *Heap) Len(ref gc.Ref) int {
	if s := h.c.Get(ref); s != nil {
		return len(s.data)
	}
	return -1
}

// Freed returns how many string buffers have been released so far.
func (h *Heap) Freed() int { return h.freed }

// Close releases every string and the collector.
func (h *Heap) Close() {
	gc.Free(&h.c)
}

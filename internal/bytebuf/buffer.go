// Package bytebuf provides the growable byte buffer shared by the filter
// and the recorder. A Buffer owns a contiguous region and exposes explicit
// consume/transfer semantics: classified bytes move between buffers only
// through Transfer, which never reorders them, and an incomplete escape
// sequence is left in place untouched until more data arrives.
package bytebuf

import (
	"fmt"
	"io"
)

// Buffer is a growable byte region. The zero value is an empty buffer
// ready for use.
type Buffer struct {
	data []byte // len(data) is the used size, cap(data) the allocation
}

// New returns a buffer with the given initial capacity.
func New(capacity int) *Buffer {
	return &Buffer{data: make([]byte, 0, capacity)}
}

// Len returns the number of bytes in use.
func (b *Buffer) Len() int { return len(b.data) }

// Cap returns the allocated capacity.
func (b *Buffer) Cap() int { return cap(b.data) }

// Bytes returns a non-owning view of the used region. The view is
// invalidated by any mutation of the buffer and must not outlive one.
func (b *Buffer) Bytes() []byte { return b.data }

// Slice returns a non-owning view of [start, end) for inspection only.
// Same invalidation rules as Bytes.
func (b *Buffer) Slice(start, end int) []byte { return b.data[start:end] }

// Reset empties the buffer, keeping the allocation.
func (b *Buffer) Reset() { b.data = b.data[:0] }

// EnsureCap grows the buffer so at least target bytes fit. Growth is
// doubling-or-more so repeated appends stay amortized O(1). Existing
// bytes are preserved; outstanding views are invalidated.
func (b *Buffer) EnsureCap(target int) {
	if target <= cap(b.data) {
		return
	}
	newCap := 2 * cap(b.data)
	if target > newCap {
		newCap = target
	}
	grown := make([]byte, len(b.data), newCap)
	copy(grown, b.data)
	b.data = grown
}

// Append copies p onto the end of the buffer.
func (b *Buffer) Append(p []byte) {
	b.EnsureCap(len(b.data) + len(p))
	b.data = append(b.data, p...)
}

// AppendByte appends a single byte.
func (b *Buffer) AppendByte(c byte) {
	b.EnsureCap(len(b.data) + 1)
	b.data = append(b.data, c)
}

// AppendString appends the bytes of s.
func (b *Buffer) AppendString(s string) {
	b.EnsureCap(len(b.data) + len(s))
	b.data = append(b.data, s...)
}

// ReadFrom performs one read of up to max bytes into the free tail of the
// buffer, growing it first if needed, and advances the used size by the
// number of bytes actually read. It returns that count; at end of stream
// the count is 0 and err is io.EOF.
func (b *Buffer) ReadFrom(r io.Reader, max int) (int, error) {
	b.EnsureCap(len(b.data) + max)
	n, err := r.Read(b.data[len(b.data) : len(b.data)+max])
	if n > 0 {
		b.data = b.data[:len(b.data)+n]
		// A read that returned data counts as progress even if it also
		// returned io.EOF; the next call reports the end of stream.
		if err == io.EOF {
			err = nil
		}
	}
	return n, err
}

// Consume removes the first n bytes. Consuming the whole buffer is O(1);
// a partial consume shifts the remainder to the front. n larger than the
// used size is a programming error and panics.
func (b *Buffer) Consume(n int) {
	if n < 0 || n > len(b.data) {
		panic(fmt.Sprintf("bytebuf: consume %d of %d bytes", n, len(b.data)))
	}
	if n == len(b.data) {
		b.data = b.data[:0]
		return
	}
	copy(b.data, b.data[n:])
	b.data = b.data[:len(b.data)-n]
}

// Transfer appends the first n bytes of src to dst and consumes them from
// src, preserving order. It is the sole way classified bytes move from an
// input buffer to an output buffer. dst and src must be distinct.
func Transfer(dst, src *Buffer, n int) {
	if dst == src {
		panic("bytebuf: transfer to itself")
	}
	if n > len(src.data) {
		panic(fmt.Sprintf("bytebuf: transfer %d of %d bytes", n, len(src.data)))
	}
	dst.Append(src.data[:n])
	src.Consume(n)
}

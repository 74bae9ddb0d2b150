// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package imphash

import "encoding/binary"

// endianness is runtime data resolved once from the stream's version probe,
// never a type parameter (SPEC_FULL.md §9 / spec.md §9 re-architecture
// guidance).
type endianness int

const (
	littleEndian endianness = iota
	bigEndian
)

func (e endianness) order() binary.ByteOrder {
	if e == bigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// cursor walks a _VBA_PROJECT byte buffer with an explicit, mutable
// offset. Every read is a checked operation: on overrun it returns
// ErrShortRead instead of panicking, so the caller can fold every failure
// into a single "return what we have so far" branch (spec.md §4.1, §9).
type cursor struct {
	buf []byte
	off int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

// bytesAt mirrors saferwall/pe/helper.go's ReadBytesAtOffset: a
// single bounds-checked slice accessor every other primitive is built on.
func (c *cursor) bytesAt(off, size int) ([]byte, error) {
	if off < 0 || size < 0 {
		return nil, ErrShortRead
	}
	end := off + size
	if end < off || end > len(c.buf) {
		return nil, ErrShortRead
	}
	return c.buf[off:end], nil
}

func (c *cursor) peekByte(off int) (byte, error) {
	b, err := c.bytesAt(off, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// advance moves the cursor by n bytes without reading. n may be negative
// only as a result of arithmetic upstream; a negative resulting offset is
// treated as a short read.
func (c *cursor) advance(n int) error {
	next := c.off + n
	if next < 0 {
		return ErrShortRead
	}
	c.off = next
	return nil
}

// readWord reads a 16-bit value at the cursor under the given byte order
// and advances past it.
func (c *cursor) readWord(e endianness) (uint16, error) {
	b, err := c.bytesAt(c.off, 2)
	if err != nil {
		return 0, err
	}
	c.off += 2
	return e.order().Uint16(b), nil
}

// readWordAt reads a 16-bit value at an explicit offset without moving
// the cursor.
func (c *cursor) readWordAt(off int, e endianness) (uint16, error) {
	b, err := c.bytesAt(off, 2)
	if err != nil {
		return 0, err
	}
	return e.order().Uint16(b), nil
}

// readDword reads a 32-bit value at the cursor and advances past it.
func (c *cursor) readDword(e endianness) (uint32, error) {
	b, err := c.bytesAt(c.off, 4)
	if err != nil {
		return 0, err
	}
	c.off += 4
	return e.order().Uint32(b), nil
}

// skipStructure is the "skip-structure" primitive of spec.md §4.1: read a
// length prefix (16- or 32-bit per isLengthDW), optionally treat an
// all-ones value as a sentinel meaning "absent, do not multiply," and
// otherwise advance by length*elementSize.
func (c *cursor) skipStructure(e endianness, isLengthDW bool, elementSize int, checkSentinel bool) error {
	var length uint64
	var isSentinel bool

	if isLengthDW {
		v, err := c.readDword(e)
		if err != nil {
			return err
		}
		length = uint64(v)
		isSentinel = checkSentinel && v == 0xFFFFFFFF
	} else {
		v, err := c.readWord(e)
		if err != nil {
			return err
		}
		length = uint64(v)
		isSentinel = checkSentinel && v == 0xFFFF
	}

	if isSentinel {
		return nil
	}
	return c.advance(int(length) * elementSize)
}

// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package gosnmp

// berBuffer is a growable byte accumulator used while encoding BER/TLV
// values. Headers (tag + length) are only known once the payload has been
// measured, so encoding happens payload-first and the header is prepended
// afterwards rather than patched in place.
type berBuffer struct {
	data []byte
}

// newBerBuffer returns an empty accumulator.
func newBerBuffer() *berBuffer {
	return &berBuffer{data: make([]byte, 0, 64)}
}

// Append adds b to the end of the buffer.
func (buf *berBuffer) Append(b ...byte) {
	buf.data = append(buf.data, b...)
}

// Write implements io.Writer so berBuffer can be used with binary.Write etc.
func (buf *berBuffer) Write(p []byte) (int, error) {
	buf.data = append(buf.data, p...)
	return len(p), nil
}

// Prepend places b in front of the buffer's current contents. Used to glue
// a tag+length header onto an already-encoded payload.
func (buf *berBuffer) Prepend(b ...byte) {
	buf.data = append(append([]byte{}, b...), buf.data...)
}

// Bytes returns the accumulated bytes.
func (buf *berBuffer) Bytes() []byte {
	return buf.data
}

// Len reports the number of accumulated bytes.
func (buf *berBuffer) Len() int {
	return len(buf.data)
}

// wrap prepends a tag byte and its BER length encoding, returning the
// finished TLV. This is the "encode into a temporary, measure, then write
// the header" pattern described for this codec: no in-place prepend is
// needed because the payload is always fully known before the header is
// built.
func (buf *berBuffer) wrap(tag byte) ([]byte, error) {
	length, err := marshalLength(buf.Len())
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 1+len(length)+buf.Len())
	out = append(out, tag)
	out = append(out, length...)
	out = append(out, buf.data...)
	return out, nil
}

// cursor is a paired (buffer, offset) decoder. All decode helpers take a
// cursor and advance its offset; nothing decodes in place.
type cursor struct {
	data   []byte
	offset int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

// remaining returns the unconsumed tail of the buffer.
func (c *cursor) remaining() []byte {
	if c.offset > len(c.data) {
		return nil
	}
	return c.data[c.offset:]
}

// advance moves the cursor forward n bytes, failing if that would run past
// the end of the buffer.
func (c *cursor) advance(n int) error {
	if n < 0 || c.offset+n > len(c.data) {
		return errShortBuffer
	}
	c.offset += n
	return nil
}

// take returns the next n bytes and advances past them.
func (c *cursor) take(n int) ([]byte, error) {
	if n < 0 || c.offset+n > len(c.data) {
		return nil, errShortBuffer
	}
	b := c.data[c.offset : c.offset+n]
	c.offset += n
	return b, nil
}

func (c *cursor) atEnd() bool {
	return c.offset >= len(c.data)
}

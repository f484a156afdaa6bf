// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package gosnmp

import "fmt"

// marshalLength encodes a BER length per ITU X.690: a single byte if
// length < 128, otherwise a leading byte with the high bit set and the low
// 7 bits giving the count of following big-endian length bytes.
func marshalLength(length int) ([]byte, error) {
	if length < 0 {
		return nil, fmt.Errorf("gosnmp: negative length %d", length)
	}
	if length < 0x80 {
		return []byte{byte(length)}, nil
	}

	var buf []byte
	n := length
	for n > 0 {
		buf = append([]byte{byte(n & 0xff)}, buf...)
		n >>= 8
	}
	if len(buf) > 0x7f {
		return nil, fmt.Errorf("gosnmp: length %d too large to encode", length)
	}
	return append([]byte{0x80 | byte(len(buf))}, buf...), nil
}

// parseLength parses a BER length starting at c's current offset, returning
// the decoded length and advancing the cursor past the length octets.
func parseLength(c *cursor) (int, error) {
	first, err := c.take(1)
	if err != nil {
		return 0, errShortBuffer
	}
	if first[0] < 0x80 {
		return int(first[0]), nil
	}

	count := int(first[0] &^ 0x80)
	if count == 0 {
		// indefinite length - not used by SNMP's definite-length BER subset.
		return 0, errLengthMismatch
	}
	lenBytes, err := c.take(count)
	if err != nil {
		return 0, errShortBuffer
	}
	length := 0
	for _, b := range lenBytes {
		length = length<<8 | int(b)
	}
	return length, nil
}

// berHeader holds a parsed tag+length pair.
type berHeader struct {
	Tag    Asn1BER
	Length int
}

// parseHeader parses a TLV header (tag, length), advancing the cursor past
// both. A tag whose low 5 bits equal 0x1F indicates the multi-byte tag
// extension, which SNMP never uses, and is rejected.
func parseHeader(c *cursor) (berHeader, error) {
	tagByte, err := c.take(1)
	if err != nil {
		return berHeader{}, errShortBuffer
	}
	if tagByte[0]&0x1f == 0x1f {
		return berHeader{}, errMultiByteTag
	}
	length, err := parseLength(c)
	if err != nil {
		return berHeader{}, err
	}
	if length > len(c.remaining()) {
		return berHeader{}, errShortBuffer
	}
	return berHeader{Tag: Asn1BER(tagByte[0]), Length: length}, nil
}

// marshalUvarInt encodes an unsigned integer as minimum-length big-endian
// bytes (used for msgID, msgMaxSize, engineBoots, engineTime - all plain
// BER INTEGERs that happen to always be non-negative).
func marshalUvarInt(v uint32) []byte {
	b := marshalInt64(int64(v))
	// a non-negative INTEGER whose encoded high bit would read as negative
	// needs a leading 0x00 to stay unsigned; marshalInt64 already does this
	// since v fits in int64 without sign ambiguity up to uint32 range.
	return b
}

// marshalInt64 encodes a signed integer as minimum-length two's-complement
// bytes: no redundant leading 0x00 or 0xFF that the sign of the next bit
// would already imply.
func marshalInt64(v int64) []byte {
	if v == 0 {
		return []byte{0}
	}

	var out []byte
	neg := v < 0
	for {
		out = append([]byte{byte(v & 0xff)}, out...)
		v >>= 8
		if neg && v == -1 && out[0]&0x80 != 0 {
			break
		}
		if !neg && v == 0 && out[0]&0x80 == 0 {
			break
		}
	}
	return out
}

// parseInt64 decodes a minimum-length two's-complement signed integer.
func parseInt64(b []byte) int64 {
	if len(b) == 0 {
		return 0
	}
	var v int64
	if b[0]&0x80 != 0 {
		v = -1
	}
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	return v
}

// parseUint64 decodes an unsigned big-endian integer (used for Counter32,
// Gauge32, TimeTicks, Counter64 payloads, which never carry a sign bit in
// SNMP despite being BER INTEGER-shaped).
func parseUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

// encodeOID encodes sub-identifiers per X.690/RFC: the first two
// sub-identifiers combine as 40*a+b, the remainder each base-128 big-endian
// with the continuation bit set on all but the last byte of each group.
func encodeOID(oid Oid) ([]byte, error) {
	if len(oid) == 0 {
		return []byte{}, nil
	}
	a, b := oid[0], uint32(0)
	if len(oid) > 1 {
		b = oid[1]
	}
	if a > 2 {
		return nil, fmt.Errorf("gosnmp: first OID sub-identifier must be 0, 1 or 2, got %d", a)
	}
	if a < 2 && b >= 40 {
		return nil, fmt.Errorf("gosnmp: second OID sub-identifier must be < 40 when first is 0 or 1, got %d", b)
	}

	out := []byte{}
	out = append(out, encodeBase128(40*a+b)...)
	for _, sub := range oid[2:] {
		out = append(out, encodeBase128(sub)...)
	}
	return out, nil
}

func encodeBase128(v uint32) []byte {
	if v == 0 {
		return []byte{0}
	}
	var groups []byte
	for v > 0 {
		groups = append([]byte{byte(v & 0x7f)}, groups...)
		v >>= 7
	}
	for i := 0; i < len(groups)-1; i++ {
		groups[i] |= 0x80
	}
	return groups
}

// decodeOID reverses encodeOID.
func decodeOID(b []byte) (Oid, error) {
	if len(b) == 0 {
		return Oid{}, nil
	}

	var subs []uint32
	first := uint32(b[0])
	// the leading byte alone only carries the combined 40a+b when it has no
	// continuation bit; if it does, the first group spans multiple bytes.
	groups, err := splitBase128(b)
	if err != nil {
		return nil, err
	}
	first = groups[0]
	if first < 40 {
		subs = append(subs, 0, first)
	} else if first < 80 {
		subs = append(subs, 1, first-40)
	} else {
		subs = append(subs, 2, first-80)
	}
	subs = append(subs, groups[1:]...)
	return Oid(subs), nil
}

func splitBase128(b []byte) ([]uint32, error) {
	var out []uint32
	var cur uint32
	started := false
	for _, c := range b {
		cur = cur<<7 | uint32(c&0x7f)
		started = true
		if c&0x80 == 0 {
			out = append(out, cur)
			cur = 0
			started = false
		}
	}
	if started {
		return nil, errInvalidOIDEncoding
	}
	return out, nil
}

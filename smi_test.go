// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package gosnmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOidStringAndParse(t *testing.T) {
	oid, err := ParseOid(".1.3.6.1.2.1.1.1.0")
	require.NoError(t, err)
	assert.Equal(t, ".1.3.6.1.2.1.1.1.0", oid.String())
}

func TestOidEqualAndCompare(t *testing.T) {
	a := MustParseOid("1.3.6.1.2.1.1.1.0")
	b := MustParseOid("1.3.6.1.2.1.1.1.0")
	c := MustParseOid("1.3.6.1.2.1.1.2.0")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.Equal(t, 0, a.Compare(b))
	assert.Equal(t, -1, a.Compare(c))
	assert.Equal(t, 1, c.Compare(a))
}

func TestOidHasPrefix(t *testing.T) {
	root := MustParseOid("1.3.6.1.2.1.2.2.1")
	child := MustParseOid("1.3.6.1.2.1.2.2.1.10.1")
	assert.True(t, child.HasPrefix(root))
	assert.False(t, root.HasPrefix(child))
	assert.False(t, root.HasPrefix(root))
}

func TestOidAppendParentClone(t *testing.T) {
	base := MustParseOid("1.3.6.1.4.1.8072")
	full := base.Append(3, 2, 10)
	assert.Equal(t, ".1.3.6.1.4.1.8072.3.2.10", full.String())
	assert.Equal(t, ".1.3.6.1.4.1.8072.3.2", full.Parent().String())

	clone := full.Clone()
	clone[0] = 9
	assert.NotEqual(t, full[0], clone[0])
}

func TestEncodeDecodeValueRoundTrip(t *testing.T) {
	cases := []struct {
		tag   Asn1BER
		value interface{}
	}{
		{Integer, Integer32Val(-12345)},
		{OctetString, []byte("public")},
		{Counter32, Counter32Val(4294967295)},
		{Gauge32, Gauge32Val(100)},
		{TimeTicks, TimeTicksVal(123456)},
		{Counter64, Counter64Val(18446744073709551615)},
		{Opaque, OpaqueVal{0x01, 0x02, 0x03}},
	}
	for _, c := range cases {
		enc, err := encodeValue(c.tag, c.value)
		require.NoError(t, err)
		cur := newCursor(enc)
		tag, val, err := decodeValue(cur)
		require.NoError(t, err)
		assert.Equal(t, c.tag, tag)
		assert.True(t, EqualValue(c.tag, c.value, val), "tag %s: want %v got %v", c.tag, c.value, val)
		assert.True(t, cur.atEnd())
	}
}

func TestEncodeIPAddress(t *testing.T) {
	ip, err := ParseIPAddr("192.168.1.1")
	require.NoError(t, err)
	enc, err := encodeValue(IPAddress, ip)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x40, 0x04, 192, 168, 1, 1}, enc)

	cur := newCursor(enc)
	tag, val, err := decodeValue(cur)
	require.NoError(t, err)
	assert.Equal(t, IPAddress, tag)
	assert.Equal(t, ip, val.(IPAddr))
}

func TestDecodeExceptionValues(t *testing.T) {
	for _, tag := range []Asn1BER{NoSuchObject, NoSuchInstance, EndOfMibView} {
		enc, err := encodeValue(tag, nil)
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(tag), 0x00}, enc)
		cur := newCursor(enc)
		gotTag, val, err := decodeValue(cur)
		require.NoError(t, err)
		assert.Equal(t, tag, gotTag)
		assert.Nil(t, val)
	}
}

func TestCloneValueIsIndependent(t *testing.T) {
	orig := []byte{0x01, 0x02}
	clone := CloneValue(OctetString, orig).([]byte)
	clone[0] = 0xff
	assert.Equal(t, byte(0x01), orig[0])
}

func TestStringValuePrintableVsBinary(t *testing.T) {
	assert.Equal(t, "hello", StringValue(OctetString, []byte("hello")))
	assert.Contains(t, StringValue(OctetString, []byte{0x00, 0xff}), "00")
}

func TestCounterDiffWraparound(t *testing.T) {
	var max32 uint32 = 4294967295
	assert.Equal(t, uint32(10), CounterDiff32(max32, 9))
	var max64 uint64 = 18446744073709551615
	assert.Equal(t, uint64(5), CounterDiff64(max64, 4))
}

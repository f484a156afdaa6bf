// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package gosnmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalVarbindRoundTrip(t *testing.T) {
	vb := SnmpPDU{Name: MustParseOid("1.3.6.1.2.1.1.1.0"), Type: OctetString, Value: []byte("a router")}
	enc, err := marshalVarbind(vb)
	require.NoError(t, err)

	c := newCursor(enc)
	got, err := unmarshalVarbind(c)
	require.NoError(t, err)
	assert.True(t, vb.Equal(got))
	assert.True(t, c.atEnd())
}

func TestMarshalVarbindListRoundTrip(t *testing.T) {
	vbs := []SnmpPDU{
		{Name: MustParseOid("1.3.6.1.2.1.1.1.0"), Type: OctetString, Value: []byte("sysDescr")},
		{Name: MustParseOid("1.3.6.1.2.1.1.3.0"), Type: TimeTicks, Value: TimeTicksVal(42)},
	}
	enc, err := marshalVarbindList(vbs)
	require.NoError(t, err)

	got, err := unmarshalVarbindList(newCursor(enc))
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range vbs {
		assert.True(t, vbs[i].Equal(got[i]))
	}
}

func TestRequestIDNonZeroAndSeeded(t *testing.T) {
	SeedRequestID(1)
	a := genRequestID()
	SeedRequestID(1)
	b := genRequestID()
	assert.Equal(t, a, b)
	assert.NotZero(t, a)
}

func TestInjectAndExtractTrapBindings(t *testing.T) {
	vbs := []SnmpPDU{
		{Name: MustParseOid("1.3.6.1.2.1.1.1.0"), Type: OctetString, Value: []byte("payload")},
	}
	trapOID := MustParseOid("1.3.6.1.6.3.1.1.5.3")
	withBindings := injectTrapBindings(vbs, 1234, trapOID)
	require.Len(t, withBindings, 3)
	assert.True(t, withBindings[0].Name.Equal(oidSysUpTime))
	assert.True(t, withBindings[1].Name.Equal(oidSnmpTrapOID))

	sysUpTime, gotOID, rest, err := extractTrapBindings(withBindings)
	require.NoError(t, err)
	assert.Equal(t, uint32(1234), sysUpTime)
	assert.True(t, gotOID.Equal(trapOID))
	require.Len(t, rest, 1)
	assert.True(t, rest[0].Equal(vbs[0]))
}

func TestInjectTrapBindingsIdempotent(t *testing.T) {
	trapOID := MustParseOid("1.3.6.1.6.3.1.1.5.3")
	already := []SnmpPDU{
		{Name: oidSysUpTime.Clone(), Type: TimeTicks, Value: TimeTicksVal(99)},
		{Name: oidSnmpTrapOID.Clone(), Type: ObjectIdentifier, Value: trapOID.Clone()},
	}
	out := injectTrapBindings(already, 1, trapOID)
	assert.Len(t, out, 2)
	assert.Equal(t, TimeTicksVal(99), out[0].Value)
}

func TestMarshalPDUBodyGetRequestRoundTrip(t *testing.T) {
	body := pduBody{
		Type:        GetRequest,
		RequestID:   555,
		ErrorStatus: NoError,
		ErrorIndex:  0,
		Variables: []SnmpPDU{
			{Name: MustParseOid("1.3.6.1.2.1.1.1.0"), Type: Null},
		},
	}
	enc, err := marshalPDUBody(body)
	require.NoError(t, err)

	got, err := parsePDUBody(newCursor(enc))
	require.NoError(t, err)
	assert.Equal(t, body.Type, got.Type)
	assert.Equal(t, body.RequestID, got.RequestID)
	require.Len(t, got.Variables, 1)
	assert.True(t, got.Variables[0].Name.Equal(body.Variables[0].Name))
}

func TestMarshalPDUBodyGetBulkRoundTrip(t *testing.T) {
	body := pduBody{
		Type:           GetBulkRequest,
		RequestID:      1,
		NonRepeaters:   1,
		MaxRepetitions: 10,
		Variables: []SnmpPDU{
			{Name: MustParseOid("1.3.6.1.2.1.2.2.1.1"), Type: Null},
		},
	}
	enc, err := marshalPDUBody(body)
	require.NoError(t, err)

	got, err := parsePDUBody(newCursor(enc))
	require.NoError(t, err)
	assert.Equal(t, 1, got.NonRepeaters)
	assert.Equal(t, 10, got.MaxRepetitions)
}

func TestMarshalPDUBodyRequestIDZeroGetsFilled(t *testing.T) {
	body := pduBody{Type: GetRequest}
	enc, err := marshalPDUBody(body)
	require.NoError(t, err)

	got, err := parsePDUBody(newCursor(enc))
	require.NoError(t, err)
	assert.NotZero(t, got.RequestID)
}

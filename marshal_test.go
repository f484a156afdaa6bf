// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package gosnmp

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeHexPacket(t *testing.T, spaced string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(spaced, " ", ""))
	require.NoError(t, err)
	return b
}

func TestMarshalMsgV2cRoundTrip(t *testing.T) {
	packet := &SnmpPacket{
		Version:   Version2c,
		Community: "public",
		PDUType:   GetRequest,
		RequestID: 1000,
		Variables: []SnmpPDU{
			{Name: MustParseOid("1.3.6.1.2.1.1.1.0"), Type: Null},
		},
	}
	enc, err := packet.marshalMsg()
	require.NoError(t, err)

	got, err := unmarshalMsg(enc, "public", true)
	require.NoError(t, err)
	assert.Equal(t, Version2c, got.Version)
	assert.Equal(t, "public", got.Community)
	assert.Equal(t, GetRequest, got.PDUType)
	assert.Equal(t, uint32(1000), got.RequestID)
	require.Len(t, got.Variables, 1)
}

func TestUnmarshalMsgRejectsWrongCommunity(t *testing.T) {
	packet := &SnmpPacket{Version: Version1, Community: "secret", PDUType: GetRequest, RequestID: 1}
	enc, err := packet.marshalMsg()
	require.NoError(t, err)

	_, err = unmarshalMsg(enc, "public", true)
	assert.ErrorIs(t, err, errCommunityMismatch)
}

func TestMarshalMsgV2TrapRoundTrip(t *testing.T) {
	trapOID := MustParseOid("1.3.6.1.6.3.1.1.5.3")
	packet := &SnmpPacket{
		Version:       Version2c,
		Community:     "public",
		PDUType:       SNMPv2Trap,
		RequestID:     1,
		SnmpTrapOID:   trapOID,
		TrapSysUpTime: 4200,
		Variables: []SnmpPDU{
			{Name: MustParseOid("1.3.6.1.2.1.1.1.0"), Type: OctetString, Value: []byte("payload")},
		},
	}
	enc, err := packet.marshalMsg()
	require.NoError(t, err)

	got, err := unmarshalMsg(enc, "public", true)
	require.NoError(t, err)
	assert.True(t, got.SnmpTrapOID.Equal(trapOID))
	assert.Equal(t, uint32(4200), got.TrapSysUpTime)
	require.Len(t, got.Variables, 1)
	assert.Equal(t, "payload", string(got.Variables[0].Value.([]byte)))
}

func TestIsResponseAndIsReport(t *testing.T) {
	resp := &SnmpPacket{PDUType: GetResponse}
	report := &SnmpPacket{PDUType: Report}
	assert.True(t, resp.IsResponse())
	assert.False(t, resp.IsReport())
	assert.True(t, report.IsReport())
	assert.False(t, report.IsResponse())
}

func TestMarshalMsgRejectsV3(t *testing.T) {
	packet := &SnmpPacket{Version: Version3, PDUType: GetRequest}
	_, err := packet.marshalMsg()
	assert.ErrorIs(t, err, errVersionMismatch)
}

// TestUnmarshalMsgV1GetVector decodes the literal SNMPv1 Get packet for
// sysDescr.0 given in spec section 8 scenario 1 and checks every field it
// documents, then re-encodes and asserts the bytes round-trip exactly.
func TestUnmarshalMsgV1GetVector(t *testing.T) {
	raw := decodeHexPacket(t, "30 26 02 01 00 04 06 70 75 62 6c 69 63 a0 19 02 01 26 02 01 00 02 01 00 30 0e 30 0c 06 08 2b 06 01 02 01 01 02 00 05 00")

	got, err := unmarshalMsg(raw, "public", true)
	require.NoError(t, err)
	assert.Equal(t, Version1, got.Version)
	assert.Equal(t, "public", got.Community)
	assert.Equal(t, GetRequest, got.PDUType)
	assert.Equal(t, uint32(38), got.RequestID)
	assert.Equal(t, NoError, got.Error)
	assert.Equal(t, 0, got.ErrorIndex)
	require.Len(t, got.Variables, 1)
	assert.True(t, got.Variables[0].Name.Equal(MustParseOid("1.3.6.1.2.1.1.2.0")))
	assert.Equal(t, Null, got.Variables[0].Type)

	reenc, err := got.marshalMsg()
	require.NoError(t, err)
	assert.Equal(t, raw, reenc)
}

// TestUnmarshalMsgV1ResponseObjectIdVector decodes the literal SNMPv1
// Response packet of spec section 8 scenario 2, which carries an
// ObjectIdentifier-valued varbind, and asserts the round trip.
func TestUnmarshalMsgV1ResponseObjectIdVector(t *testing.T) {
	raw := decodeHexPacket(t, "30 38 02 01 00 04 06 70 75 62 6c 69 63 a2 2b 02 01 26 02 01 00 02 01 00 30 20 30 1e 06 08 2b 06 01 02 01 01 02 00 06 12 2b 06 01 04 01 8f 51 01 01 01 82 29 5d 01 1b 02 02 01")

	got, err := unmarshalMsg(raw, "public", true)
	require.NoError(t, err)
	assert.Equal(t, Version1, got.Version)
	assert.Equal(t, GetResponse, got.PDUType)
	assert.Equal(t, uint32(38), got.RequestID)
	require.Len(t, got.Variables, 1)
	assert.True(t, got.Variables[0].Name.Equal(MustParseOid("1.3.6.1.2.1.1.2.0")))
	oid, ok := got.Variables[0].Value.(Oid)
	require.True(t, ok)
	assert.True(t, oid.Equal(MustParseOid("1.3.6.1.4.1.2001.1.1.1.297.93.1.27.2.2.1")))

	reenc, err := got.marshalMsg()
	require.NoError(t, err)
	assert.Equal(t, raw, reenc)
}

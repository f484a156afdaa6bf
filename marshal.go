// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package gosnmp

import "fmt"

// SnmpPacket represents an entire SNMP message at the application layer,
// covering v1, v2c and v3 framing. Which fields are meaningful depends on
// Version: v1/v2c use Community; v3 uses MsgID/MsgMaxSize/MsgFlags/
// SecurityModel/SecurityParameters/ContextEngineID/ContextName.
type SnmpPacket struct {
	Version   SnmpVersion
	Community string

	PDUType        Asn1BER
	RequestID      uint32
	Error          ErrorStatus
	ErrorIndex     int
	NonRepeaters   int
	MaxRepetitions int
	Variables      []SnmpPDU

	// V2Trap/Inform dedicated fields, extracted from/injected into the
	// leading two varbinds (spec section 4.4).
	SnmpTrapOID   Oid
	TrapSysUpTime uint32

	// SNMPv3 fields.
	MsgID              uint32
	MsgMaxSize         uint32
	MsgFlags           SnmpV3MsgFlags
	SecurityModel      SnmpV3SecurityModel
	SecurityParameters *UsmSecurityParameters
	ContextEngineID    string
	ContextName        string

	Logger Logger
}

// IsResponse reports whether the packet is a GetResponse PDU.
func (packet *SnmpPacket) IsResponse() bool {
	return packet.PDUType == GetResponse
}

// IsReport reports whether the packet is a Report PDU. Earlier
// implementations conflated this with IsResponse; Report has its own tag
// (0xA8) and is tested directly (spec section 9).
func (packet *SnmpPacket) IsReport() bool {
	return packet.PDUType == Report
}

func (packet *SnmpPacket) toBody() pduBody {
	return pduBody{
		Type:           packet.PDUType,
		RequestID:      packet.RequestID,
		ErrorStatus:    packet.Error,
		ErrorIndex:     packet.ErrorIndex,
		NonRepeaters:   packet.NonRepeaters,
		MaxRepetitions: packet.MaxRepetitions,
		Variables:      packet.Variables,
		SysUpTime:      packet.TrapSysUpTime,
		TrapOID:        packet.SnmpTrapOID,
	}
}

func (packet *SnmpPacket) fromBody(body pduBody) error {
	packet.PDUType = body.Type
	packet.RequestID = body.RequestID
	packet.Error = body.ErrorStatus
	packet.ErrorIndex = body.ErrorIndex
	packet.NonRepeaters = body.NonRepeaters
	packet.MaxRepetitions = body.MaxRepetitions

	if isTrapType(body.Type) {
		sysUpTime, trapOID, rest, err := extractTrapBindings(body.Variables)
		if err != nil {
			return err
		}
		packet.TrapSysUpTime = sysUpTime
		packet.SnmpTrapOID = trapOID
		packet.Variables = rest
		return nil
	}
	packet.Variables = body.Variables
	return nil
}

// marshalPDU encodes the PDU portion only (used directly by v1/v2c framing
// and, wrapped in a ScopedPdu, by v3).
func (packet *SnmpPacket) marshalPDU() ([]byte, error) {
	body, err := marshalPDUBody(packet.toBody())
	if err != nil {
		return nil, err
	}
	return body, nil
}

// marshalMsg encodes a full v1/v2c packet: SEQUENCE { version, community,
// pdu } (spec section 4.5).
func (packet *SnmpPacket) marshalMsg() ([]byte, error) {
	if packet.Version != Version1 && packet.Version != Version2c {
		return nil, errVersionMismatch
	}
	buf := newBerBuffer()

	versionTLV, err := encodeValue(Integer, Integer32Val(int32(packet.Version)))
	if err != nil {
		return nil, err
	}
	buf.Append(versionTLV...)

	communityTLV, err := encodeValue(OctetString, []byte(packet.Community))
	if err != nil {
		return nil, err
	}
	buf.Append(communityTLV...)

	pdu, err := packet.marshalPDU()
	if err != nil {
		return nil, err
	}
	buf.Append(pdu...)

	return buf.wrap(byte(Sequence))
}

// unmarshalMsg decodes a full v1/v2c packet, validating version and, if
// checkCommunity is set, that the community equals expectedCommunity.
func unmarshalMsg(data []byte, expectedCommunity string, checkCommunity bool) (*SnmpPacket, error) {
	c := newCursor(data)
	hdr, err := parseHeader(c)
	if err != nil {
		return nil, err
	}
	if hdr.Tag != Sequence {
		return nil, errNotASequence
	}
	if hdr.Length != len(c.remaining()) {
		return nil, errLengthMismatch
	}

	versionTag, versionVal, err := decodeValue(c)
	if err != nil {
		return nil, err
	}
	if versionTag != Integer {
		return nil, fmt.Errorf("gosnmp: expected Integer version, got %s", versionTag)
	}
	version := SnmpVersion(int32(versionVal.(Integer32Val)))
	if version != Version1 && version != Version2c {
		return nil, errVersionMismatch
	}

	communityTag, communityVal, err := decodeValue(c)
	if err != nil {
		return nil, err
	}
	if communityTag != OctetString {
		return nil, fmt.Errorf("gosnmp: expected OctetString community, got %s", communityTag)
	}
	community := string(communityVal.([]byte))
	if checkCommunity && community != expectedCommunity {
		return nil, errCommunityMismatch
	}

	body, err := parsePDUBody(c)
	if err != nil {
		return nil, err
	}

	packet := &SnmpPacket{Version: version, Community: community}
	if err := packet.fromBody(body); err != nil {
		return nil, err
	}
	return packet, nil
}

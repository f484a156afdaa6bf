// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package gosnmp

import (
	"fmt"
	"math/rand"
	"sync"
)

// SnmpVersion identifies the protocol version carried by a packet.
type SnmpVersion uint8

const (
	Version1  SnmpVersion = 0x0
	Version2c SnmpVersion = 0x1
	Version3  SnmpVersion = 0x3
)

func (v SnmpVersion) String() string {
	switch v {
	case Version1:
		return "1"
	case Version2c:
		return "2c"
	case Version3:
		return "3"
	default:
		return fmt.Sprintf("unknown(%d)", v)
	}
}

// ErrorStatus is the agent-reported error-status code, RFC 3416.
type ErrorStatus uint8

const (
	NoError             ErrorStatus = 0
	TooBig              ErrorStatus = 1
	NoSuchName          ErrorStatus = 2
	BadValue            ErrorStatus = 3
	ReadOnly            ErrorStatus = 4
	GenErr              ErrorStatus = 5
	NoAccess            ErrorStatus = 6
	WrongType           ErrorStatus = 7
	WrongLength         ErrorStatus = 8
	WrongEncoding       ErrorStatus = 9
	WrongValue          ErrorStatus = 10
	NoCreation          ErrorStatus = 11
	InconsistentValue   ErrorStatus = 12
	ResourceUnavailable ErrorStatus = 13
	CommitFailed        ErrorStatus = 14
	UndoFailed          ErrorStatus = 15
	AuthorizationError  ErrorStatus = 16
	NotWritable         ErrorStatus = 17
	InconsistentName    ErrorStatus = 18
)

func (e ErrorStatus) String() string {
	names := [...]string{
		"noError", "tooBig", "noSuchName", "badValue", "readOnly", "genErr",
		"noAccess", "wrongType", "wrongLength", "wrongEncoding", "wrongValue",
		"noCreation", "inconsistentValue", "resourceUnavailable", "commitFailed",
		"undoFailed", "authorizationError", "notWritable", "inconsistentName",
	}
	if int(e) < len(names) {
		return names[e]
	}
	return fmt.Sprintf("unknown(%d)", e)
}

// SnmpPDU is a single variable binding: an OID paired with a tagged value.
type SnmpPDU struct {
	Name  Oid
	Type  Asn1BER
	Value interface{}
}

// Clone returns a deep copy of the varbind.
func (pdu SnmpPDU) Clone() SnmpPDU {
	return SnmpPDU{Name: pdu.Name.Clone(), Type: pdu.Type, Value: CloneValue(pdu.Type, pdu.Value)}
}

// Equal reports whether two varbinds carry the same OID, tag and value.
func (pdu SnmpPDU) Equal(other SnmpPDU) bool {
	return pdu.Name.Equal(other.Name) && pdu.Type == other.Type && EqualValue(pdu.Type, pdu.Value, other.Value)
}

func (pdu SnmpPDU) String() string {
	return fmt.Sprintf("%s = %s: %s", pdu.Name, pdu.Type, StringValue(pdu.Type, pdu.Value))
}

// request-id generation: process-global, non-sequential, not required to be
// cryptographic quality (spec section 5).
var requestIDMu sync.Mutex
var requestIDRand = rand.New(rand.NewSource(0xC0FFEE))

// SeedRequestID re-seeds the request-id/msgID generator; exposed for tests
// that need deterministic output.
func SeedRequestID(seed int64) {
	requestIDMu.Lock()
	defer requestIDMu.Unlock()
	requestIDRand = rand.New(rand.NewSource(seed))
}

// genRequestID returns a uniform random value in [1, 2^31).
func genRequestID() uint32 {
	requestIDMu.Lock()
	defer requestIDMu.Unlock()
	return uint32(1 + requestIDRand.Int31n((1<<31)-1))
}

// marshalVarbind encodes a single (OID, value) pair as a SEQUENCE of the
// two TLVs.
func marshalVarbind(vb SnmpPDU) ([]byte, error) {
	oidTLV, err := encodeValue(ObjectIdentifier, vb.Name)
	if err != nil {
		return nil, err
	}
	valTLV, err := encodeValue(vb.Type, vb.Value)
	if err != nil {
		return nil, err
	}
	buf := newBerBuffer()
	buf.Append(oidTLV...)
	buf.Append(valTLV...)
	return buf.wrap(byte(Sequence))
}

// marshalVarbindList encodes an ordered list of varbinds as a SEQUENCE of
// SEQUENCEs.
func marshalVarbindList(vbs []SnmpPDU) ([]byte, error) {
	buf := newBerBuffer()
	for _, vb := range vbs {
		enc, err := marshalVarbind(vb)
		if err != nil {
			return nil, err
		}
		buf.Append(enc...)
	}
	return buf.wrap(byte(Sequence))
}

// unmarshalVarbind decodes one (OID, value) SEQUENCE at the cursor.
func unmarshalVarbind(c *cursor) (SnmpPDU, error) {
	hdr, err := parseHeader(c)
	if err != nil {
		return SnmpPDU{}, err
	}
	if hdr.Tag != Sequence {
		return SnmpPDU{}, errNotASequence
	}
	inner := newCursor(c.remaining()[:hdr.Length])
	if err := c.advance(hdr.Length); err != nil {
		return SnmpPDU{}, err
	}

	oidTag, oidVal, err := decodeValue(inner)
	if err != nil {
		return SnmpPDU{}, err
	}
	if oidTag != ObjectIdentifier {
		return SnmpPDU{}, fmt.Errorf("gosnmp: expected ObjectIdentifier in varbind, got %s", oidTag)
	}
	oid := oidVal.(Oid)

	valTag, val, err := decodeValue(inner)
	if err != nil {
		return SnmpPDU{}, err
	}
	return SnmpPDU{Name: oid, Type: valTag, Value: val}, nil
}

// unmarshalVarbindList decodes a SEQUENCE of varbind SEQUENCEs.
func unmarshalVarbindList(c *cursor) ([]SnmpPDU, error) {
	hdr, err := parseHeader(c)
	if err != nil {
		return nil, err
	}
	if hdr.Tag != Sequence {
		return nil, errNotASequence
	}
	inner := newCursor(c.remaining()[:hdr.Length])
	if err := c.advance(hdr.Length); err != nil {
		return nil, err
	}

	var out []SnmpPDU
	for !inner.atEnd() {
		vb, err := unmarshalVarbind(inner)
		if err != nil {
			return nil, err
		}
		out = append(out, vb)
	}
	return out, nil
}

// isTrapType reports whether pduType carries the sysUpTime.0/snmpTrapOID.0
// injection rule (spec section 4.4).
func isTrapType(pduType Asn1BER) bool {
	return pduType == SNMPv2Trap || pduType == InformRequest
}

// injectTrapBindings inserts (sysUpTime.0, TimeTicks) and
// (snmpTrapOID.0, ObjectIdentifier) at positions 0 and 1 if they are not
// already there, per spec section 4.4.
func injectTrapBindings(vbs []SnmpPDU, sysUpTime uint32, trapOID Oid) []SnmpPDU {
	out := vbs
	needsUpTime := len(out) == 0 || !out[0].Name.Equal(oidSysUpTime)
	if needsUpTime {
		out = append([]SnmpPDU{{Name: oidSysUpTime.Clone(), Type: TimeTicks, Value: TimeTicksVal(sysUpTime)}}, out...)
	}
	needsTrapOID := len(out) < 2 || !out[1].Name.Equal(oidSnmpTrapOID)
	if needsTrapOID {
		head := append([]SnmpPDU{}, out[:1]...)
		tail := out[1:]
		head = append(head, SnmpPDU{Name: oidSnmpTrapOID.Clone(), Type: ObjectIdentifier, Value: trapOID.Clone()})
		out = append(head, tail...)
	}
	return out
}

// extractTrapBindings removes the sysUpTime/snmpTrapOID pair inserted by
// injectTrapBindings, returning them as dedicated values.
func extractTrapBindings(vbs []SnmpPDU) (sysUpTime uint32, trapOID Oid, rest []SnmpPDU, err error) {
	if len(vbs) < 2 {
		return 0, nil, nil, fmt.Errorf("gosnmp: trap PDU must carry at least sysUpTime and snmpTrapOID bindings")
	}
	if !vbs[0].Name.Equal(oidSysUpTime) {
		return 0, nil, nil, fmt.Errorf("gosnmp: first varbind of trap PDU is not sysUpTime.0")
	}
	if !vbs[1].Name.Equal(oidSnmpTrapOID) {
		return 0, nil, nil, fmt.Errorf("gosnmp: second varbind of trap PDU is not snmpTrapOID.0")
	}
	up, ok := vbs[0].Value.(TimeTicksVal)
	if !ok {
		return 0, nil, nil, fmt.Errorf("gosnmp: sysUpTime.0 binding is not a TimeTicks")
	}
	oid, ok := vbs[1].Value.(Oid)
	if !ok {
		return 0, nil, nil, fmt.Errorf("gosnmp: snmpTrapOID.0 binding is not an ObjectIdentifier")
	}
	return uint32(up), oid, vbs[2:], nil
}

// pduBody is the decoded result of the PDU's integer header fields plus its
// varbind list, independent of how it was wrapped (v1/v2c community frame
// or v3 scoped PDU).
type pduBody struct {
	Type           Asn1BER
	RequestID      uint32
	ErrorStatus    ErrorStatus
	ErrorIndex     int
	NonRepeaters   int
	MaxRepetitions int
	Variables      []SnmpPDU

	// SysUpTime and TrapOID are the dedicated V2Trap/Inform fields used to
	// inject the leading (sysUpTime.0, snmpTrapOID.0) bindings when the
	// caller's Variables do not already carry them at positions 0 and 1.
	SysUpTime uint32
	TrapOID   Oid
}

// marshalPDUBody encodes the PDU per spec section 4.4: requestId,
// errorStatus, errorIndex, varbind-list for ordinary PDUs; requestId,
// nonRepeaters, maxRepetitions, varbind-list for GetBulk. A zero RequestID
// is replaced with a fresh random value.
func marshalPDUBody(p pduBody) ([]byte, error) {
	if p.RequestID == 0 {
		p.RequestID = genRequestID()
	}
	vbs := p.Variables
	if isTrapType(p.Type) {
		sysUpTime, trapOID, rest, ok := peekTrapBindings(vbs)
		if !ok {
			sysUpTime, trapOID, rest = p.SysUpTime, p.TrapOID, vbs
		}
		vbs = injectTrapBindings(rest, sysUpTime, trapOID)
	}

	buf := newBerBuffer()
	reqIDTLV, err := encodeValue(Integer, Integer32Val(int32(p.RequestID)))
	if err != nil {
		return nil, err
	}
	buf.Append(reqIDTLV...)

	if p.Type == GetBulkRequest {
		nr, err := encodeValue(Integer, Integer32Val(int32(p.NonRepeaters)))
		if err != nil {
			return nil, err
		}
		mr, err := encodeValue(Integer, Integer32Val(int32(p.MaxRepetitions)))
		if err != nil {
			return nil, err
		}
		buf.Append(nr...)
		buf.Append(mr...)
	} else {
		es, err := encodeValue(Integer, Integer32Val(int32(p.ErrorStatus)))
		if err != nil {
			return nil, err
		}
		ei, err := encodeValue(Integer, Integer32Val(int32(p.ErrorIndex)))
		if err != nil {
			return nil, err
		}
		buf.Append(es...)
		buf.Append(ei...)
	}

	vblTLV, err := marshalVarbindList(vbs)
	if err != nil {
		return nil, err
	}
	buf.Append(vblTLV...)
	return buf.wrap(byte(p.Type))
}

// peekTrapBindings returns the sysUpTime/trapOID a V2Trap/Inform caller
// already supplied (if the first two bindings are already in position), or
// zero values with the full list as "rest" when the caller left them out
// and injectTrapBindings should add them.
func peekTrapBindings(vbs []SnmpPDU) (uint32, Oid, []SnmpPDU, bool) {
	if len(vbs) >= 2 && vbs[0].Name.Equal(oidSysUpTime) && vbs[1].Name.Equal(oidSnmpTrapOID) {
		up, _ := vbs[0].Value.(TimeTicksVal)
		oid, _ := vbs[1].Value.(Oid)
		return uint32(up), oid, vbs[2:], true
	}
	return 0, nil, vbs, false
}

// parsePDUBody decodes the PDU tag, its integer fields, and its varbind
// list. For V2Trap/Inform, the sysUpTime/snmpTrapOID pair remains at the
// front of Variables here; callers extract it with extractTrapBindings.
func parsePDUBody(c *cursor) (pduBody, error) {
	hdr, err := parseHeader(c)
	if err != nil {
		return pduBody{}, err
	}
	inner := newCursor(c.remaining()[:hdr.Length])
	if err := c.advance(hdr.Length); err != nil {
		return pduBody{}, err
	}

	reqTag, reqVal, err := decodeValue(inner)
	if err != nil {
		return pduBody{}, err
	}
	if reqTag != Integer {
		return pduBody{}, fmt.Errorf("gosnmp: expected Integer request-id, got %s", reqTag)
	}
	requestID := uint32(reqVal.(Integer32Val))

	var body pduBody
	body.Type = hdr.Tag
	body.RequestID = requestID

	if hdr.Tag == GetBulkRequest {
		_, nrVal, err := decodeValue(inner)
		if err != nil {
			return pduBody{}, err
		}
		_, mrVal, err := decodeValue(inner)
		if err != nil {
			return pduBody{}, err
		}
		body.NonRepeaters = int(nrVal.(Integer32Val))
		body.MaxRepetitions = int(mrVal.(Integer32Val))
	} else {
		_, esVal, err := decodeValue(inner)
		if err != nil {
			return pduBody{}, err
		}
		_, eiVal, err := decodeValue(inner)
		if err != nil {
			return pduBody{}, err
		}
		body.ErrorStatus = ErrorStatus(esVal.(Integer32Val))
		body.ErrorIndex = int(eiVal.(Integer32Val))
	}

	vbs, err := unmarshalVarbindList(inner)
	if err != nil {
		return pduBody{}, err
	}
	body.Variables = vbs
	return body, nil
}

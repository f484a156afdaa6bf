// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package gosnmp

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Asn1BER is the one-byte type tag that prefixes every value on the wire.
type Asn1BER byte

// Tags used by SNMP's subset of BER/X.690 (spec section 3).
const (
	Integer          Asn1BER = 0x02
	OctetString      Asn1BER = 0x04
	Null             Asn1BER = 0x05
	ObjectIdentifier Asn1BER = 0x06
	Sequence         Asn1BER = 0x30

	IPAddress Asn1BER = 0x40
	Counter32 Asn1BER = 0x41
	Gauge32   Asn1BER = 0x42
	TimeTicks Asn1BER = 0x43
	Opaque    Asn1BER = 0x44
	Counter64 Asn1BER = 0x46

	NoSuchObject   Asn1BER = 0x80
	NoSuchInstance Asn1BER = 0x81
	EndOfMibView   Asn1BER = 0x82

	GetRequest     Asn1BER = 0xa0
	GetNextRequest Asn1BER = 0xa1
	GetResponse    Asn1BER = 0xa2
	SetRequest     Asn1BER = 0xa3
	Trap           Asn1BER = 0xa4
	GetBulkRequest Asn1BER = 0xa5
	InformRequest  Asn1BER = 0xa6
	SNMPv2Trap     Asn1BER = 0xa7
	Report         Asn1BER = 0xa8
)

func (t Asn1BER) String() string {
	switch t {
	case Integer:
		return "Integer"
	case OctetString:
		return "OctetString"
	case Null:
		return "Null"
	case ObjectIdentifier:
		return "ObjectIdentifier"
	case Sequence:
		return "Sequence"
	case IPAddress:
		return "IpAddress"
	case Counter32:
		return "Counter32"
	case Gauge32:
		return "Gauge32"
	case TimeTicks:
		return "TimeTicks"
	case Opaque:
		return "Opaque"
	case Counter64:
		return "Counter64"
	case NoSuchObject:
		return "NoSuchObject"
	case NoSuchInstance:
		return "NoSuchInstance"
	case EndOfMibView:
		return "EndOfMibView"
	case GetRequest:
		return "GetRequest"
	case GetNextRequest:
		return "GetNextRequest"
	case GetResponse:
		return "GetResponse"
	case SetRequest:
		return "SetRequest"
	case Trap:
		return "Trap"
	case GetBulkRequest:
		return "GetBulkRequest"
	case InformRequest:
		return "InformRequest"
	case SNMPv2Trap:
		return "SNMPv2Trap"
	case Report:
		return "Report"
	default:
		return fmt.Sprintf("Unknown(0x%02x)", byte(t))
	}
}

// GaugeKind distinguishes the textual Gauge32/Unsigned32 convention, which
// the wire does not: both share tag 0x42 and round-trip as the same
// variant (spec section 9, "suspected source bug" list).
type GaugeKind uint8

const (
	KindGauge32 GaugeKind = iota
	KindUnsigned32
)

// Counter32Val, Gauge32Val, TimeTicksVal and Counter64Val are the typed Go
// values stored in SnmpPDU.Value for the corresponding tags; they exist so
// that a type switch on Value distinguishes them even though several share
// an underlying Go kind, mirroring the "variant differs only in tag and
// value range" requirement (spec section 4.3).
type Counter32Val uint32
type Gauge32Val uint32
type TimeTicksVal uint32
type Counter64Val uint64
type Integer32Val int32
type OpaqueVal []byte

// sequenceBytes is a transparent carrier of raw inner bytes: PDUs and USM
// headers are all Sequences in disguise, and this type is used internally
// wherever a constructed value needs to pass its unparsed payload along.
type sequenceBytes []byte

// Oid is an ordered sequence of non-negative 32-bit sub-identifiers.
type Oid []uint32

// ParseOid parses a dotted-decimal string, tolerating a leading dot.
func ParseOid(s string) (Oid, error) {
	s = strings.TrimPrefix(s, ".")
	if s == "" {
		return Oid{}, nil
	}
	parts := strings.Split(s, ".")
	out := make(Oid, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("gosnmp: invalid OID component %q: %w", p, err)
		}
		out[i] = uint32(n)
	}
	return out, nil
}

// MustParseOid parses s and panics on error; intended for package-level OID
// constants such as sysUpTime/snmpTrapOID below.
func MustParseOid(s string) Oid {
	oid, err := ParseOid(s)
	if err != nil {
		panic(err)
	}
	return oid
}

func (o Oid) String() string {
	if len(o) == 0 {
		return ""
	}
	parts := make([]string, len(o))
	for i, n := range o {
		parts[i] = strconv.FormatUint(uint64(n), 10)
	}
	return "." + strings.Join(parts, ".")
}

// Equal reports whether o and other name the same object.
func (o Oid) Equal(other Oid) bool {
	if len(o) != len(other) {
		return false
	}
	for i := range o {
		if o[i] != other[i] {
			return false
		}
	}
	return true
}

// Compare returns -1, 0 or 1 as o is lexicographically less than, equal to,
// or greater than other.
func (o Oid) Compare(other Oid) int {
	for i := 0; i < len(o) && i < len(other); i++ {
		if o[i] < other[i] {
			return -1
		}
		if o[i] > other[i] {
			return 1
		}
	}
	switch {
	case len(o) < len(other):
		return -1
	case len(o) > len(other):
		return 1
	default:
		return 0
	}
}

// HasPrefix reports whether prefix is a proper prefix of o: prefix's
// sub-identifiers all match and o is strictly longer.
func (o Oid) HasPrefix(prefix Oid) bool {
	if len(prefix) >= len(o) {
		return false
	}
	for i := range prefix {
		if o[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Append returns a new Oid with subs appended.
func (o Oid) Append(subs ...uint32) Oid {
	out := make(Oid, 0, len(o)+len(subs))
	out = append(out, o...)
	out = append(out, subs...)
	return out
}

// Parent returns o with its final sub-identifier removed. Calling Parent on
// an empty Oid returns an empty Oid.
func (o Oid) Parent() Oid {
	if len(o) == 0 {
		return Oid{}
	}
	out := make(Oid, len(o)-1)
	copy(out, o[:len(o)-1])
	return out
}

// Clone returns a deep copy of o.
func (o Oid) Clone() Oid {
	out := make(Oid, len(o))
	copy(out, o)
	return out
}

// Well-known OIDs used by V2Trap/Inform framing (spec section 4.4) and USM
// discovery (spec section 8, scenario 6).
var (
	oidSysUpTime             = MustParseOid("1.3.6.1.2.1.1.3.0")
	oidSnmpTrapOID           = MustParseOid("1.3.6.1.6.3.1.1.4.1.0")
	oidUsmStatsUnknownEngineIDs = MustParseOid("1.3.6.1.6.3.15.1.1.4.0")
)

// emptyValueForTag implements the "syntax dispatch" rule: given a tag byte,
// return an empty value of the corresponding variant. An unknown tag fails
// decoding with errUnknownSMIType.
func emptyValueForTag(tag Asn1BER) (interface{}, error) {
	switch tag {
	case Integer:
		return Integer32Val(0), nil
	case OctetString:
		return []byte{}, nil
	case Null:
		return nil, nil
	case ObjectIdentifier:
		return Oid{}, nil
	case Sequence:
		return sequenceBytes{}, nil
	case IPAddress:
		return IPAddr{}, nil
	case Counter32:
		return Counter32Val(0), nil
	case Gauge32:
		return Gauge32Val(0), nil
	case TimeTicks:
		return TimeTicksVal(0), nil
	case Opaque:
		return OpaqueVal{}, nil
	case Counter64:
		return Counter64Val(0), nil
	case NoSuchObject:
		return nil, nil
	case NoSuchInstance:
		return nil, nil
	case EndOfMibView:
		return nil, nil
	default:
		return nil, errUnknownSMIType
	}
}

// marshalUintMinimal encodes an unsigned integer in minimum-length
// big-endian bytes, inserting a leading 0x00 only when needed to keep the
// top bit from being misread as a sign bit.
func marshalUintMinimal(v uint64) []byte {
	if v == 0 {
		return []byte{0}
	}
	var b []byte
	for v > 0 {
		b = append([]byte{byte(v)}, b...)
		v >>= 8
	}
	if b[0]&0x80 != 0 {
		b = append([]byte{0}, b...)
	}
	return b
}

// encodeValue produces the length-prefixed TLV for a single tagged value.
func encodeValue(tag Asn1BER, value interface{}) ([]byte, error) {
	buf := newBerBuffer()
	switch tag {
	case Integer:
		var v int32
		switch x := value.(type) {
		case Integer32Val:
			v = int32(x)
		case int:
			v = int32(x)
		case int32:
			v = x
		default:
			return nil, fmt.Errorf("gosnmp: Integer value has wrong Go type %T", value)
		}
		buf.Append(marshalInt64(int64(v))...)
	case OctetString:
		b, err := asBytes(value)
		if err != nil {
			return nil, err
		}
		buf.Append(b...)
	case Null:
		// zero-length payload
	case ObjectIdentifier:
		oid, ok := value.(Oid)
		if !ok {
			return nil, fmt.Errorf("gosnmp: ObjectIdentifier value has wrong Go type %T", value)
		}
		enc, err := encodeOID(oid)
		if err != nil {
			return nil, err
		}
		buf.Append(enc...)
	case Sequence:
		b, err := asBytes(value)
		if err != nil {
			return nil, err
		}
		buf.Append(b...)
	case IPAddress:
		ip, ok := value.(IPAddr)
		if !ok {
			var err error
			ip, err = ParseIPAddr(fmt.Sprintf("%v", value))
			if err != nil {
				return nil, fmt.Errorf("gosnmp: IpAddress value has wrong Go type %T", value)
			}
		}
		if len(ip) != 4 {
			return nil, fmt.Errorf("gosnmp: IpAddress must be exactly 4 bytes, got %d", len(ip))
		}
		buf.Append(ip[:]...)
	case Counter32:
		v, err := asUint32(value)
		if err != nil {
			return nil, err
		}
		buf.Append(marshalUintMinimal(uint64(v))...)
	case Gauge32:
		v, err := asUint32(value)
		if err != nil {
			return nil, err
		}
		buf.Append(marshalUintMinimal(uint64(v))...)
	case TimeTicks:
		v, err := asUint32(value)
		if err != nil {
			return nil, err
		}
		buf.Append(marshalUintMinimal(uint64(v))...)
	case Opaque:
		b, err := asBytes(value)
		if err != nil {
			return nil, err
		}
		buf.Append(b...)
	case Counter64:
		v, err := asUint64(value)
		if err != nil {
			return nil, err
		}
		buf.Append(marshalUintMinimal(v)...)
	case NoSuchObject, NoSuchInstance, EndOfMibView:
		// zero-length exception values
	default:
		return nil, errUnknownSMIType
	}
	return buf.wrap(byte(tag))
}

func asBytes(value interface{}) ([]byte, error) {
	switch x := value.(type) {
	case []byte:
		return x, nil
	case OpaqueVal:
		return []byte(x), nil
	case sequenceBytes:
		return []byte(x), nil
	case string:
		return []byte(x), nil
	case nil:
		return []byte{}, nil
	default:
		return nil, fmt.Errorf("gosnmp: OctetString-like value has wrong Go type %T", value)
	}
}

func asUint32(value interface{}) (uint32, error) {
	switch x := value.(type) {
	case Counter32Val:
		return uint32(x), nil
	case Gauge32Val:
		return uint32(x), nil
	case TimeTicksVal:
		return uint32(x), nil
	case uint32:
		return x, nil
	case int:
		return uint32(x), nil
	default:
		return 0, fmt.Errorf("gosnmp: expected an unsigned 32-bit value, got %T", value)
	}
}

func asUint64(value interface{}) (uint64, error) {
	switch x := value.(type) {
	case Counter64Val:
		return uint64(x), nil
	case uint64:
		return x, nil
	case int:
		return uint64(x), nil
	default:
		return 0, fmt.Errorf("gosnmp: expected an unsigned 64-bit value, got %T", value)
	}
}

// decodeValue reads one tagged value at the cursor's current position,
// advancing past it, and returns the tag and the decoded Go value.
func decodeValue(c *cursor) (Asn1BER, interface{}, error) {
	hdr, err := parseHeader(c)
	if err != nil {
		return 0, nil, err
	}
	payload, err := c.take(hdr.Length)
	if err != nil {
		return 0, nil, errShortBuffer
	}

	switch hdr.Tag {
	case Integer:
		return hdr.Tag, Integer32Val(parseInt64(payload)), nil
	case OctetString:
		out := make([]byte, len(payload))
		copy(out, payload)
		return hdr.Tag, out, nil
	case Null:
		if len(payload) != 0 {
			return 0, nil, fmt.Errorf("gosnmp: Null value must be zero-length, got %d bytes", len(payload))
		}
		return hdr.Tag, nil, nil
	case ObjectIdentifier:
		oid, err := decodeOID(payload)
		if err != nil {
			return 0, nil, err
		}
		return hdr.Tag, oid, nil
	case Sequence:
		out := make([]byte, len(payload))
		copy(out, payload)
		return hdr.Tag, sequenceBytes(out), nil
	case IPAddress:
		if len(payload) != 4 {
			return 0, nil, fmt.Errorf("gosnmp: IpAddress must be exactly 4 bytes, got %d", len(payload))
		}
		var ip IPAddr
		copy(ip[:], payload)
		return hdr.Tag, ip, nil
	case Counter32:
		return hdr.Tag, Counter32Val(parseUint64(payload)), nil
	case Gauge32:
		return hdr.Tag, Gauge32Val(parseUint64(payload)), nil
	case TimeTicks:
		return hdr.Tag, TimeTicksVal(parseUint64(payload)), nil
	case Opaque:
		out := make([]byte, len(payload))
		copy(out, payload)
		return hdr.Tag, OpaqueVal(out), nil
	case Counter64:
		return hdr.Tag, Counter64Val(parseUint64(payload)), nil
	case NoSuchObject, NoSuchInstance, EndOfMibView:
		if len(payload) != 0 {
			return 0, nil, fmt.Errorf("gosnmp: %s must be zero-length, got %d bytes", hdr.Tag, len(payload))
		}
		return hdr.Tag, nil, nil
	default:
		return 0, nil, errUnknownSMIType
	}
}

// CloneValue returns a deep copy of a tagged value.
func CloneValue(tag Asn1BER, value interface{}) interface{} {
	switch x := value.(type) {
	case []byte:
		out := make([]byte, len(x))
		copy(out, x)
		return out
	case OpaqueVal:
		out := make(OpaqueVal, len(x))
		copy(out, x)
		return out
	case Oid:
		return x.Clone()
	case IPAddr:
		return x
	default:
		return value
	}
}

// EqualValue reports whether two tagged values of the same tag are equal.
func EqualValue(tag Asn1BER, a, b interface{}) bool {
	switch tag {
	case OctetString, Opaque:
		ab, aerr := asBytes(a)
		bb, berr := asBytes(b)
		if aerr != nil || berr != nil {
			return false
		}
		return bytes.Equal(ab, bb)
	case ObjectIdentifier:
		aoid, aok := a.(Oid)
		boid, bok := b.(Oid)
		return aok && bok && aoid.Equal(boid)
	case IPAddress:
		return a == b
	case Null, NoSuchObject, NoSuchInstance, EndOfMibView:
		return true
	default:
		return a == b
	}
}

// StringValue renders a tagged value for display. OctetString renders as a
// UTF-8 string when every byte is printable, per spec section 4.3.
func StringValue(tag Asn1BER, value interface{}) string {
	switch tag {
	case OctetString:
		b, _ := asBytes(value)
		if isPrintableASCII(b) {
			return string(b)
		}
		return fmt.Sprintf("% x", b)
	case ObjectIdentifier:
		oid, _ := value.(Oid)
		return oid.String()
	case IPAddress:
		ip, _ := value.(IPAddr)
		return ip.String()
	case Null, NoSuchObject, NoSuchInstance, EndOfMibView:
		return tag.String()
	default:
		return fmt.Sprintf("%v", value)
	}
}

func isPrintableASCII(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			if c == '\t' || c == '\n' || c == '\r' {
				continue
			}
			return false
		}
	}
	return true
}

// CounterDiff32 computes (later - earlier) with wraparound at 2^32, the
// unsigned arithmetic Go already performs natively.
func CounterDiff32(earlier, later uint32) uint32 {
	return later - earlier
}

// CounterDiff64 computes (later - earlier) with wraparound at 2^64.
func CounterDiff64(earlier, later uint64) uint64 {
	return later - earlier
}

// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package gosnmp

import "time"

// SendTrap sends a V2Trap (unconfirmed, fire-and-forget) or Inform
// (confirmed, retried like an ordinary request) notification, injecting
// the leading sysUpTime.0/snmpTrapOID.0 bindings if pdus doesn't already
// carry them (spec section 4.4).
func (x *GoSNMP) SendTrap(trapOID string, sysUpTime uint32, pdus []SnmpPDU, inform bool) (*SnmpPacket, error) {
	oid, err := ParseOid(trapOID)
	if err != nil {
		return nil, err
	}

	pduType := SNMPv2Trap
	if inform {
		pduType = InformRequest
	}

	if !inform {
		packetOut := &SnmpPacket{
			Version:       x.Version,
			Community:     x.Community,
			PDUType:       pduType,
			RequestID:     genRequestID(),
			Variables:     pdus,
			SnmpTrapOID:   oid,
			TrapSysUpTime: sysUpTime,
		}
		if x.Version == Version3 {
			packetOut.MsgFlags = x.MsgFlags
			packetOut.SecurityModel = x.SecurityModel
			packetOut.SecurityParameters = x.SecurityParameters
			packetOut.ContextEngineID = x.ContextEngineID
			packetOut.ContextName = x.ContextName
			packetOut.MsgMaxSize = x.MaxMessageSize
		}
		out, err := x.marshalTrap(packetOut)
		if err != nil {
			return nil, err
		}
		if err := x.conn.SetDeadline(time.Now().Add(x.Timeout)); err != nil {
			return nil, err
		}
		_, err = x.conn.Write(out)
		return nil, err
	}

	packetOut := &SnmpPacket{
		Version:       x.Version,
		Community:     x.Community,
		PDUType:       pduType,
		Variables:     pdus,
		SnmpTrapOID:   oid,
		TrapSysUpTime: sysUpTime,
	}
	if x.Version == Version3 {
		packetOut.MsgFlags = x.MsgFlags
		packetOut.SecurityModel = x.SecurityModel
		packetOut.SecurityParameters = x.SecurityParameters
		packetOut.ContextEngineID = x.ContextEngineID
		packetOut.ContextName = x.ContextName
		packetOut.MsgMaxSize = x.MaxMessageSize
	}
	return x.sendOneRequest(packetOut)
}

// marshalTrap encodes a V2Trap packet directly, bypassing sendOneRequest
// since traps are unconfirmed and never wait for a reply.
func (x *GoSNMP) marshalTrap(packetOut *SnmpPacket) ([]byte, error) {
	switch x.Version {
	case Version1, Version2c:
		return packetOut.marshalMsg()
	case Version3:
		return marshalV3(packetOut)
	default:
		return nil, errVersionMismatch
	}
}

// acknowledgeInform builds and sends the Response an incoming Inform
// requires: same request-id, contextEngineId and contextName as the
// Inform, with its first two varbinds (sysUpTime.0, snmpTrapOID.0) copied
// across (spec section 4.8 step 6). Failures are logged, not returned,
// since a lost acknowledgement must not abort whatever request this
// connection is otherwise waiting on.
func (x *GoSNMP) acknowledgeInform(inform *SnmpPacket) {
	// Decoding moved the Inform's leading sysUpTime.0/snmpTrapOID.0 bindings
	// into TrapSysUpTime/SnmpTrapOID; rebuild them for the acknowledgement.
	vbs := []SnmpPDU{
		{Name: oidSysUpTime.Clone(), Type: TimeTicks, Value: TimeTicksVal(inform.TrapSysUpTime)},
		{Name: oidSnmpTrapOID.Clone(), Type: ObjectIdentifier, Value: inform.SnmpTrapOID.Clone()},
	}

	ack := &SnmpPacket{
		Version:   inform.Version,
		Community: inform.Community,
		PDUType:   GetResponse,
		RequestID: inform.RequestID,
		Variables: vbs,
	}

	var out []byte
	var err error
	switch inform.Version {
	case Version1, Version2c:
		out, err = ack.marshalMsg()
	case Version3:
		ack.MsgID = inform.MsgID
		ack.MsgMaxSize = x.MaxMessageSize
		ack.MsgFlags = inform.MsgFlags
		ack.SecurityModel = inform.SecurityModel
		ack.SecurityParameters = inform.SecurityParameters
		ack.ContextEngineID = inform.ContextEngineID
		ack.ContextName = inform.ContextName
		out, err = marshalV3(ack)
	default:
		err = errVersionMismatch
	}
	if err != nil {
		x.Logger.Printf("gosnmp: building inform acknowledgement: %v", err)
		return
	}

	if _, err := x.conn.Write(out); err != nil {
		x.Logger.Printf("gosnmp: sending inform acknowledgement: %v", err)
	}
}

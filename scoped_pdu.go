// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package gosnmp

import "fmt"

// marshalV3Header encodes msgGlobalData: SEQUENCE { msgID, msgMaxSize,
// msgFlags, msgSecurityModel } (spec section 4.6).
func marshalV3Header(packet *SnmpPacket) ([]byte, error) {
	buf := newBerBuffer()

	msgID, err := encodeValue(Integer, Integer32Val(int32(packet.MsgID)))
	if err != nil {
		return nil, err
	}
	buf.Append(msgID...)

	msgMaxSize, err := encodeValue(Integer, Integer32Val(int32(packet.MsgMaxSize)))
	if err != nil {
		return nil, err
	}
	buf.Append(msgMaxSize...)

	flagsTLV, err := encodeValue(OctetString, []byte{byte(packet.MsgFlags)})
	if err != nil {
		return nil, err
	}
	buf.Append(flagsTLV...)

	secModelTLV, err := encodeValue(Integer, Integer32Val(int32(packet.SecurityModel)))
	if err != nil {
		return nil, err
	}
	buf.Append(secModelTLV...)

	return buf.wrap(byte(Sequence))
}

// marshalUsmSecurityParameters encodes the USM parameters SEQUENCE, wrapped
// in an OctetString as msgSecurityParameters requires, and returns the byte
// offset (within the returned slice) at which the 12-byte
// msgAuthenticationParameters payload begins, for later patching.
func marshalUsmSecurityParameters(sp *UsmSecurityParameters, flags SnmpV3MsgFlags) ([]byte, int, error) {
	inner := newBerBuffer()

	engineIDTLV, err := encodeValue(OctetString, []byte(sp.AuthoritativeEngineID))
	if err != nil {
		return nil, 0, err
	}
	inner.Append(engineIDTLV...)

	bootsTLV, err := encodeValue(Integer, Integer32Val(int32(sp.AuthoritativeEngineBoots)))
	if err != nil {
		return nil, 0, err
	}
	inner.Append(bootsTLV...)

	timeTLV, err := encodeValue(Integer, Integer32Val(int32(sp.AuthoritativeEngineTime)))
	if err != nil {
		return nil, 0, err
	}
	inner.Append(timeTLV...)

	userTLV, err := encodeValue(OctetString, []byte(sp.UserName))
	if err != nil {
		return nil, 0, err
	}
	inner.Append(userTLV...)

	// The msgAuthenticationParameters OctetString is always 0 or 12 bytes,
	// so its header is exactly tag+length (2 bytes) and its content begins
	// right after.
	authContentOffsetInInner := inner.Len() + 2
	if flags&AuthNoPriv > 0 {
		inner.Append(byte(OctetString), 12)
		inner.Append(make([]byte, 12)...)
	} else {
		inner.Append(byte(OctetString), 0)
	}

	if flags&AuthPriv > AuthNoPriv {
		privTLV, err := encodeValue(OctetString, sp.PrivacyParameters)
		if err != nil {
			return nil, 0, err
		}
		inner.Append(privTLV...)
	} else {
		inner.Append(byte(OctetString), 0)
	}

	seq, err := inner.wrap(byte(Sequence))
	if err != nil {
		return nil, 0, err
	}
	seqHeaderLen := len(seq) - inner.Len()
	authContentOffsetInSeq := seqHeaderLen + authContentOffsetInInner

	outer := newBerBuffer()
	outer.Append(seq...)
	wrapped, err := outer.wrap(byte(OctetString))
	if err != nil {
		return nil, 0, err
	}
	outerHeaderLen := len(wrapped) - outer.Len()
	return wrapped, outerHeaderLen + authContentOffsetInSeq, nil
}

// marshalScopedPDU encodes the plaintext ScopedPdu: SEQUENCE {
// contextEngineID, contextName, pdu }.
func marshalScopedPDU(packet *SnmpPacket) ([]byte, error) {
	buf := newBerBuffer()

	ctxEngineTLV, err := encodeValue(OctetString, []byte(packet.ContextEngineID))
	if err != nil {
		return nil, err
	}
	buf.Append(ctxEngineTLV...)

	ctxNameTLV, err := encodeValue(OctetString, []byte(packet.ContextName))
	if err != nil {
		return nil, err
	}
	buf.Append(ctxNameTLV...)

	pdu, err := packet.marshalPDU()
	if err != nil {
		return nil, err
	}
	buf.Append(pdu...)

	return buf.wrap(byte(Sequence))
}

// marshalV3 builds and authenticates/encrypts a full SNMPv3 message.
func marshalV3(packet *SnmpPacket) ([]byte, error) {
	if packet.Version != Version3 {
		return nil, errVersionMismatch
	}
	if packet.SecurityModel != UserSecurityModel {
		return nil, errUnsupportedSecurityModel
	}
	sp := packet.SecurityParameters
	if sp == nil {
		return nil, fmt.Errorf("gosnmp: v3 packet requires SecurityParameters")
	}
	if err := sp.validate(packet.MsgFlags); err != nil {
		return nil, err
	}

	scopedPlain, err := marshalScopedPDU(packet)
	if err != nil {
		return nil, err
	}

	var scopedPduData []byte
	if packet.MsgFlags&AuthPriv > AuthNoPriv {
		ciphertext, err := sp.encryptScopedPDU(scopedPlain)
		if err != nil {
			return nil, err
		}
		scopedPduData, err = encodeValue(OctetString, ciphertext)
		if err != nil {
			return nil, err
		}
	} else {
		scopedPduData = scopedPlain
	}

	header, err := marshalV3Header(packet)
	if err != nil {
		return nil, err
	}

	secParamsTLV, authContentOffsetInSecParams, err := marshalUsmSecurityParameters(sp, packet.MsgFlags)
	if err != nil {
		return nil, err
	}

	versionTLV, err := encodeValue(Integer, Integer32Val(int32(Version3)))
	if err != nil {
		return nil, err
	}

	body := newBerBuffer()
	body.Append(versionTLV...)
	body.Append(header...)
	authContentOffsetInBody := body.Len() + authContentOffsetInSecParams
	body.Append(secParamsTLV...)
	body.Append(scopedPduData...)

	msg, err := body.wrap(byte(Sequence))
	if err != nil {
		return nil, err
	}
	outerHeaderLen := len(msg) - body.Len()
	authContentOffsetInMsg := outerHeaderLen + authContentOffsetInBody

	if packet.MsgFlags&AuthNoPriv > 0 {
		key, err := sp.localizedAuthKey()
		if err != nil {
			return nil, err
		}
		if err := hmacAuthenticate(sp.AuthenticationProtocol, key, msg, authContentOffsetInMsg); err != nil {
			return nil, err
		}
	}

	return msg, nil
}

// parseV3Header decodes msgGlobalData into the packet's MsgID/MsgMaxSize/
// MsgFlags/SecurityModel fields.
func parseV3Header(c *cursor, packet *SnmpPacket) error {
	hdr, err := parseHeader(c)
	if err != nil {
		return err
	}
	if hdr.Tag != Sequence {
		return errNotASequence
	}
	end := c.offset + hdr.Length
	inner := &cursor{data: c.data, offset: c.offset}
	if err := c.advance(hdr.Length); err != nil {
		return err
	}

	_, idVal, err := decodeValue(inner)
	if err != nil {
		return err
	}
	packet.MsgID = uint32(int32(idVal.(Integer32Val)))

	_, maxVal, err := decodeValue(inner)
	if err != nil {
		return err
	}
	packet.MsgMaxSize = uint32(int32(maxVal.(Integer32Val)))

	_, flagsVal, err := decodeValue(inner)
	if err != nil {
		return err
	}
	flagsBytes, ok := flagsVal.([]byte)
	if !ok || len(flagsBytes) != 1 {
		return fmt.Errorf("gosnmp: msgFlags must be a single byte")
	}
	packet.MsgFlags = SnmpV3MsgFlags(flagsBytes[0])

	_, modelVal, err := decodeValue(inner)
	if err != nil {
		return err
	}
	packet.SecurityModel = SnmpV3SecurityModel(int32(modelVal.(Integer32Val)))

	if inner.offset != end {
		return errLengthMismatch
	}
	return nil
}

// parseUsmSecurityParameters decodes the USM parameters OctetString into sp
// and returns the absolute offset, within the full message backing c, of
// the msgAuthenticationParameters payload (for use by verification, which
// must zero that field before recomputing the HMAC).
func parseUsmSecurityParameters(c *cursor, sp *UsmSecurityParameters) (int, error) {
	outerHdr, err := parseHeader(c)
	if err != nil {
		return 0, err
	}
	if outerHdr.Tag != OctetString {
		return 0, fmt.Errorf("gosnmp: msgSecurityParameters must be an OctetString")
	}
	innerStart := c.offset
	if err := c.advance(outerHdr.Length); err != nil {
		return 0, err
	}

	inner := &cursor{data: c.data, offset: innerStart}
	seqHdr, err := parseHeader(inner)
	if err != nil {
		return 0, err
	}
	if seqHdr.Tag != Sequence {
		return 0, fmt.Errorf("gosnmp: USM security parameters must be a SEQUENCE")
	}

	_, engineIDVal, err := decodeValue(inner)
	if err != nil {
		return 0, err
	}
	sp.AuthoritativeEngineID = string(engineIDVal.([]byte))

	_, bootsVal, err := decodeValue(inner)
	if err != nil {
		return 0, err
	}
	sp.AuthoritativeEngineBoots = uint32(int32(bootsVal.(Integer32Val)))

	_, timeVal, err := decodeValue(inner)
	if err != nil {
		return 0, err
	}
	sp.AuthoritativeEngineTime = uint32(int32(timeVal.(Integer32Val)))

	_, userVal, err := decodeValue(inner)
	if err != nil {
		return 0, err
	}
	sp.UserName = string(userVal.([]byte))

	authHdr, err := parseHeader(inner)
	if err != nil {
		return 0, err
	}
	if authHdr.Tag != OctetString {
		return 0, fmt.Errorf("gosnmp: msgAuthenticationParameters must be an OctetString")
	}
	authContentOffset := inner.offset
	authBytes, err := inner.take(authHdr.Length)
	if err != nil {
		return 0, err
	}
	sp.AuthenticationParameters = string(authBytes)

	_, privVal, err := decodeValue(inner)
	if err != nil {
		return 0, err
	}
	privBytes, _ := privVal.([]byte)
	sp.PrivacyParameters = privBytes

	return authContentOffset, nil
}

// unmarshalV3 decodes a full SNMPv3 message. sp supplies the caller's
// configured credentials (username, protocols, passphrases); its engine
// fields are overwritten from the wire.
func unmarshalV3(data []byte, sp *UsmSecurityParameters) (*SnmpPacket, error) {
	c := newCursor(data)
	outerHdr, err := parseHeader(c)
	if err != nil {
		return nil, err
	}
	if outerHdr.Tag != Sequence {
		return nil, errNotASequence
	}
	if outerHdr.Length != len(c.remaining()) {
		return nil, errLengthMismatch
	}

	_, versionVal, err := decodeValue(c)
	if err != nil {
		return nil, err
	}
	version := SnmpVersion(int32(versionVal.(Integer32Val)))
	if version != Version3 {
		return nil, errVersionMismatch
	}

	packet := &SnmpPacket{Version: Version3, SecurityParameters: sp}
	if err := parseV3Header(c, packet); err != nil {
		return nil, err
	}
	if packet.SecurityModel != UserSecurityModel {
		return nil, errUnsupportedSecurityModel
	}
	if packet.MsgFlags&AuthPriv == SnmpV3MsgFlags(0x2) {
		return nil, errUnsupportedNoAuthPriv
	}

	authContentOffset, err := parseUsmSecurityParameters(c, sp)
	if err != nil {
		return nil, err
	}

	if packet.MsgFlags&AuthNoPriv > 0 {
		key, err := sp.localizedAuthKey()
		if err != nil {
			return nil, err
		}
		claimed := []byte(sp.AuthenticationParameters)
		ok, err := hmacVerify(sp.AuthenticationProtocol, key, data, authContentOffset, claimed)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errAuthenticationFailed
		}
	}

	peek := &cursor{data: c.data, offset: c.offset}
	scopedHdr, err := parseHeader(peek)
	if err != nil {
		return nil, err
	}

	var scopedPlain []byte
	switch scopedHdr.Tag {
	case OctetString:
		if packet.MsgFlags&AuthPriv <= AuthNoPriv {
			return nil, fmt.Errorf("gosnmp: encrypted scopedPduData but privacy flag not set")
		}
		hdr, err := parseHeader(c)
		if err != nil {
			return nil, err
		}
		ct, err := c.take(hdr.Length)
		if err != nil {
			return nil, err
		}
		plain, err := sp.decryptScopedPDU(ct)
		if err != nil {
			return nil, errAuthenticationFailed
		}
		scopedPlain = plain
	case Sequence:
		if packet.MsgFlags&AuthPriv > AuthNoPriv {
			return nil, fmt.Errorf("gosnmp: plaintext scopedPduData but privacy flag set")
		}
		start := c.offset
		hdr, err := parseHeader(c)
		if err != nil {
			return nil, err
		}
		if err := c.advance(hdr.Length); err != nil {
			return nil, err
		}
		scopedPlain = c.data[start:c.offset]
	default:
		return nil, fmt.Errorf("gosnmp: unexpected scopedPduData tag %s", scopedHdr.Tag)
	}

	scopedCursor := newCursor(scopedPlain)
	sHdr, err := parseHeader(scopedCursor)
	if err != nil {
		return nil, err
	}
	if sHdr.Tag != Sequence {
		return nil, errNotASequence
	}

	_, ctxEngineVal, err := decodeValue(scopedCursor)
	if err != nil {
		return nil, err
	}
	packet.ContextEngineID = string(ctxEngineVal.([]byte))

	_, ctxNameVal, err := decodeValue(scopedCursor)
	if err != nil {
		return nil, err
	}
	packet.ContextName = string(ctxNameVal.([]byte))

	body, err := parsePDUBody(scopedCursor)
	if err != nil {
		return nil, err
	}
	if err := packet.fromBody(body); err != nil {
		return nil, err
	}

	return packet, nil
}

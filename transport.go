// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package gosnmp

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// transportState names the stages of a single request's lifecycle (spec
// section 6, "Sending/Retrying/Failed/Done"). It exists for logging; the
// loop in sendOneRequest is the actual state machine.
type transportState int

const (
	stateIdle transportState = iota
	stateDiscovering
	stateSending
	stateWaitingReply
	stateDone
	stateRetrying
	stateFailed
)

func (s transportState) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateDiscovering:
		return "Discovering"
	case stateSending:
		return "Sending"
	case stateWaitingReply:
		return "WaitingReply"
	case stateDone:
		return "Done"
	case stateRetrying:
		return "Retrying"
	case stateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// send builds an outgoing packet of the requested PDU type from pdus and
// runs it through the retry/timeout engine, performing v3 engine discovery
// first if this connection hasn't discovered its peer's engine yet.
func (x *GoSNMP) send(pdus []SnmpPDU, pduType Asn1BER, nonRepeaters int, maxRepetitions int) (*SnmpPacket, error) {
	if x.conn == nil {
		return nil, errSocketTerminated
	}

	if x.Version == Version3 {
		if x.SecurityParameters == nil {
			return nil, fmt.Errorf("gosnmp: v3 connection requires SecurityParameters")
		}
		if x.SecurityParameters.AuthoritativeEngineID == "" {
			if err := x.discover(); err != nil {
				return nil, err
			}
		}
	}

	packetOut := &SnmpPacket{
		Version:        x.Version,
		Community:      x.Community,
		PDUType:        pduType,
		NonRepeaters:   nonRepeaters,
		MaxRepetitions: maxRepetitions,
		Variables:      pdus,
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

// sendOneRequest implements the Sending -> WaitingReply -> {Done, Retrying,
// Failed} loop of spec section 6: up to 1+Retries attempts, each with its
// own per-attempt timeout, discarding replies that don't match the
// outstanding request-id/msgID or whose community/securityName is wrong.
func (x *GoSNMP) sendOneRequest(packetOut *SnmpPacket) (*SnmpPacket, error) {
	state := stateSending
	attempts := 0

	for {
		attempts++
		reqID := genRequestID()
		packetOut.RequestID = reqID
		if x.Version == Version3 {
			packetOut.MsgID = reqID
		}

		var out []byte
		var err error
		switch x.Version {
		case Version1, Version2c:
			out, err = packetOut.marshalMsg()
		case Version3:
			// Send the estimated engineTime, but keep the cached value and
			// its timestamp as they were so later estimates stay correct.
			sp := packetOut.SecurityParameters
			cachedTime := sp.AuthoritativeEngineTime
			sp.AuthoritativeEngineTime = sp.currentEngineTime()
			out, err = marshalV3(packetOut)
			sp.AuthoritativeEngineTime = cachedTime
		default:
			return nil, errVersionMismatch
		}
		if err != nil {
			return nil, err
		}
		if len(out) > int(x.MaxMessageSize) {
			return nil, errMessageTooLarge
		}

		deadline := time.Now().Add(x.Timeout)
		if err := x.conn.SetDeadline(deadline); err != nil {
			return nil, err
		}

		state = stateSending
		if _, err := x.conn.Write(out); err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil, errSocketTerminated
			}
			return nil, err
		}
		x.Logger.Printf("gosnmp: sent %d bytes, attempt %d", len(out), attempts)

		state = stateWaitingReply
		response, err := x.waitForMatch(packetOut, deadline)
		if err == nil {
			state = stateDone
			if response.Error != NoError {
				return response, &ResponseError{Status: response.Error, Index: response.ErrorIndex}
			}
			return response, nil
		}
		if !errors.Is(err, errRequestTimeout) {
			// malformed-drop and similar errors are retried exactly like a
			// timeout (spec section 6, step 5): only a hard socket error
			// or exhausted retries ends the loop early.
			if errors.Is(err, net.ErrClosed) || errors.Is(err, errSocketTerminated) {
				return nil, errSocketTerminated
			}
		}

		if attempts > x.Retries {
			state = stateFailed
			x.Logger.Printf("gosnmp: request %s after %d attempt(s)", state, attempts)
			return nil, &TimeoutError{Attempts: attempts}
		}
		state = stateRetrying
	}
}

// waitForMatch reads datagrams until one matches packetOut's outstanding
// request or the deadline passes. A matching Report is returned like any
// other reply; an incoming Inform is acknowledged and waiting continues.
func (x *GoSNMP) waitForMatch(packetOut *SnmpPacket, deadline time.Time) (*SnmpPacket, error) {
	buf := make([]byte, 65536)
	for {
		if time.Now().After(deadline) {
			return nil, errRequestTimeout
		}

		n, err := x.conn.Read(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return nil, errRequestTimeout
			}
			if errors.Is(err, net.ErrClosed) {
				return nil, errSocketTerminated
			}
			return nil, err
		}

		response, err := x.unmarshal(buf[:n])
		if err != nil {
			x.Logger.Printf("gosnmp: dropping malformed datagram: %v", err)
			continue
		}

		if response.PDUType == InformRequest {
			// An incoming Inform carries its sender's own request-id, so it
			// never matches our outstanding request; acknowledge it on the
			// spot and keep waiting for packetOut's actual reply (spec
			// section 4.8 step 6).
			x.acknowledgeInform(response)
			continue
		}

		if response.RequestID != packetOut.RequestID {
			x.Logger.Printf("gosnmp: dropping reply with mismatched request-id %d (want %d)", response.RequestID, packetOut.RequestID)
			continue
		}
		if x.Version != Version3 && response.Community != packetOut.Community {
			x.Logger.Printf("gosnmp: dropping reply with mismatched community")
			continue
		}
		if x.Version == Version3 && response.SecurityParameters != nil {
			if response.SecurityParameters.UserName != packetOut.SecurityParameters.UserName {
				x.Logger.Printf("gosnmp: dropping reply with mismatched securityName")
				continue
			}
			ok, needsRediscovery := x.SecurityParameters.withinTimeWindow(
				response.SecurityParameters.AuthoritativeEngineBoots,
				response.SecurityParameters.AuthoritativeEngineTime,
			)
			if needsRediscovery {
				x.Logger.Printf("gosnmp: peer engine restarted, re-discovering")
				if err := x.discover(); err != nil {
					return nil, err
				}
				continue
			}
			if !ok {
				x.Logger.Printf("gosnmp: dropping reply outside time-validity window")
				continue
			}
			x.SecurityParameters.AuthoritativeEngineBoots = response.SecurityParameters.AuthoritativeEngineBoots
			x.SecurityParameters.AuthoritativeEngineTime = response.SecurityParameters.AuthoritativeEngineTime
			x.SecurityParameters.discoveredAt = time.Now().Unix()
		}

		if response.IsReport() {
			// Reports carry only diagnostic varbinds (e.g.
			// usmStatsUnknownEngineIDs); surface them as a typed reply
			// rather than retrying, so callers can inspect Variables.
			return response, nil
		}

		return response, nil
	}
}

// unmarshal dispatches to the v1/v2c or v3 decoder based on the leading
// INTEGER version field, validating community for v1/v2c.
func (x *GoSNMP) unmarshal(data []byte) (*SnmpPacket, error) {
	if len(data) < 2 {
		return nil, errShortBuffer
	}
	c := newCursor(data)
	hdr, err := parseHeader(c)
	if err != nil {
		return nil, err
	}
	if hdr.Tag != Sequence {
		return nil, errNotASequence
	}
	_, versionVal, err := decodeValue(&cursor{data: c.data, offset: c.offset})
	if err != nil {
		return nil, err
	}
	version := SnmpVersion(int32(versionVal.(Integer32Val)))

	switch version {
	case Version1, Version2c:
		return unmarshalMsg(data, x.Community, x.Version != Version3)
	case Version3:
		sp := x.SecurityParameters.Copy()
		return unmarshalV3(data, sp)
	default:
		return nil, errVersionMismatch
	}
}

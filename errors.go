// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package gosnmp

import (
	"errors"
	"fmt"
)

// Decoding errors (spec taxonomy: Decoding).
var (
	errShortBuffer       = errors.New("gosnmp: short buffer")
	errInvalidTag        = errors.New("gosnmp: invalid ASN.1 tag")
	errMultiByteTag      = errors.New("gosnmp: multi-byte tag extension is not used by SNMP")
	errNotASequence      = errors.New("gosnmp: expected a SEQUENCE container")
	errLengthMismatch    = errors.New("gosnmp: declared length does not match available data")
	errUnknownSMIType    = errors.New("gosnmp: unknown SMI value type")
	errInvalidOIDEncoding = errors.New("gosnmp: invalid OID sub-identifier encoding")
)

// Protocol errors.
var (
	errVersionMismatch       = errors.New("gosnmp: SNMP version mismatch")
	errUnexpectedPDUType     = errors.New("gosnmp: PDU type unexpected for context")
	errRequestIDMismatch     = errors.New("gosnmp: reply request-id does not match outstanding request")
	errCommunityMismatch     = errors.New("gosnmp: community does not match configured value")
	errSecurityNameMismatch  = errors.New("gosnmp: securityName does not match configured value")
)

// USM errors.
var (
	errAuthenticationFailed      = errors.New("gosnmp: authentication failed")
	errUnsupportedSecurityModel  = errors.New("gosnmp: unsupported security model")
	errUnsupportedNoAuthPriv     = errors.New("gosnmp: unsupported noAuthPriv combination (priv without auth)")
	errInvalidAuthParamsLength   = errors.New("gosnmp: invalid msgAuthenticationParameters length")
	errInvalidPrivParamsLength   = errors.New("gosnmp: invalid msgPrivacyParameters length")
	errUnsupportedPrivProtocol   = errors.New("gosnmp: unsupported privacy protocol")
	errInvalidAuthoritativeEngine = errors.New("gosnmp: invalid authoritative engineID")
	errEngineTimeOutOfWindow     = errors.New("gosnmp: engine time is outside the validity window")
	errSecretTooShort            = errors.New("gosnmp: secret must be at least 8 bytes")
)

// Transport errors.
var (
	errNetworkDown        = errors.New("gosnmp: network is down")
	errUnreachable        = errors.New("gosnmp: network is unreachable")
	errConnectionRefused  = errors.New("gosnmp: connection refused")
	errHostUnreachable    = errors.New("gosnmp: host is down or unreachable")
	errMessageTooLarge    = errors.New("gosnmp: message exceeds maxMessageSize")
	errRequestTimeout     = errors.New("gosnmp: request timed out")
	errSocketTerminated   = errors.New("gosnmp: socket terminated")
)

// ResponseError reports an agent-side error-status reply (spec taxonomy:
// Agent-reported). The caller decides whether this is fatal or data.
type ResponseError struct {
	Status ErrorStatus
	Index  int
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("gosnmp: agent reported error-status %s at index %d", e.Status, e.Index)
}

// TimeoutError is returned when a request exhausts all retry attempts
// without a matching reply.
type TimeoutError struct {
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("gosnmp: request timed out after %d attempt(s)", e.Attempts)
}

func (e *TimeoutError) Unwrap() error { return errRequestTimeout }

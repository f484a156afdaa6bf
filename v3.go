// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gosnmp

import "fmt"

// SnmpV3MsgFlags describes Authentication, Privacy, and whether a report
// PDU must be sent (spec section 4.6).
type SnmpV3MsgFlags uint8

// Possible values of SnmpV3MsgFlags.
const (
	NoAuthNoPriv SnmpV3MsgFlags = 0x0
	AuthNoPriv   SnmpV3MsgFlags = 0x1
	AuthPriv     SnmpV3MsgFlags = 0x3
	Reportable   SnmpV3MsgFlags = 0x4
)

// SnmpV3SecurityModel describes the security model used by an SnmpV3
// connection.
type SnmpV3SecurityModel uint8

// UserSecurityModel is the only SnmpV3SecurityModel currently implemented.
const (
	UserSecurityModel SnmpV3SecurityModel = 3
)

// SnmpV3AuthProtocol describes the authentication protocol in use.
type SnmpV3AuthProtocol uint8

const (
	NoAuth SnmpV3AuthProtocol = 1
	MD5    SnmpV3AuthProtocol = 2
	SHA    SnmpV3AuthProtocol = 3
)

// SnmpV3PrivProtocol is the privacy protocol in use.
type SnmpV3PrivProtocol uint8

const (
	NoPriv    SnmpV3PrivProtocol = 1
	DES       SnmpV3PrivProtocol = 2
	AES       SnmpV3PrivProtocol = 3
	AES192    SnmpV3PrivProtocol = 4
	AES256    SnmpV3PrivProtocol = 5
	TripleDES SnmpV3PrivProtocol = 6
)

// UsmSecurityParameters implements the User Security Model described in
// RFC 3414. It is both the wire-format parameters carried in a packet and
// the client-side cache of per-agent v3 state (spec section 3,
// "SecureAgentParameters").
type UsmSecurityParameters struct {
	AuthoritativeEngineID    string
	AuthoritativeEngineBoots uint32
	AuthoritativeEngineTime  uint32
	UserName                 string
	AuthenticationParameters string
	PrivacyParameters        []byte

	AuthenticationProtocol SnmpV3AuthProtocol
	PrivacyProtocol        SnmpV3PrivProtocol

	AuthenticationPassphrase string
	PrivacyPassphrase        string

	// localAuthKey and localPrivKey cache the localized keys derived from
	// the passphrases above, computed once per engineID (spec section 4.7,
	// "Cached keys").
	localAuthKey []byte
	localPrivKey []byte
	cachedEngine string

	localDESSalt uint32
	localAESSalt uint64

	// ContextEngineID/ContextName/MaxMessageSize are the rest of the
	// per-agent client-side cache (spec section 3).
	ContextEngineID string
	ContextName     string
	MaxMessageSize  uint32

	// discoveredAt supports the time-window check in discovery.go
	// (spec section 4.8).
	discoveredAt int64
}

// Copy returns a deep copy of sp.
func (sp *UsmSecurityParameters) Copy() *UsmSecurityParameters {
	cp := *sp
	cp.PrivacyParameters = append([]byte{}, sp.PrivacyParameters...)
	cp.localAuthKey = append([]byte{}, sp.localAuthKey...)
	cp.localPrivKey = append([]byte{}, sp.localPrivKey...)
	return &cp
}

// validate checks that the security parameters are self-consistent for the
// requested security level, per RFC 3414 section 5 and spec section 7
// ("unsupported noAuthPriv combination").
func (sp *UsmSecurityParameters) validate(flags SnmpV3MsgFlags) error {
	if flags&AuthPriv == SnmpV3MsgFlags(0x2) {
		// priv bit set without auth bit: 0x2 alone is not a valid
		// combination of the low two bits (only 0, 1, 3 are).
		return errUnsupportedNoAuthPriv
	}

	securityLevel := flags & AuthPriv
	switch securityLevel {
	case AuthPriv:
		if sp.PrivacyProtocol <= NoPriv {
			return fmt.Errorf("gosnmp: SecurityParameters.PrivacyProtocol is required")
		}
		if sp.PrivacyPassphrase == "" {
			return fmt.Errorf("gosnmp: SecurityParameters.PrivacyPassphrase is required")
		}
		fallthrough
	case AuthNoPriv:
		if sp.AuthenticationProtocol <= NoAuth {
			return fmt.Errorf("gosnmp: SecurityParameters.AuthenticationProtocol is required")
		}
		if len(sp.AuthenticationPassphrase) < 8 {
			return errSecretTooShort
		}
		fallthrough
	case NoAuthNoPriv:
		if sp.UserName == "" {
			return fmt.Errorf("gosnmp: SecurityParameters.UserName is required")
		}
	}
	return nil
}

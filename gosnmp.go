// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package gosnmp

import (
	"fmt"
	"net"
	"time"
)

const (
	defaultPort           = 161
	defaultTrapPort       = 162
	defaultTimeout        = 2000 * time.Millisecond
	defaultRetries        = 2
	defaultMaxMessageSize = 65535
	defaultCommunity      = "public"
	defaultMaxRepetitions = 50

	minTimeout = 100 * time.Millisecond
	maxTimeout = 10000 * time.Millisecond
	minRetries = 0
	maxRetries = 5
)

// GoSNMP holds the configuration and live state of a connection to a single
// SNMP agent. Zero-value fields are filled from Default's values by
// Connect, except Version, whose zero value is Version1 and is kept;
// constructing one directly and calling Connect is the usual way
// to use this package (spec section 6).
type GoSNMP struct {
	Target    string
	Port      uint16
	Transport string // "udp", "udp4" or "udp6"; empty means infer from Target

	Version   SnmpVersion
	Community string

	// SNMPv3 fields, meaningful only when Version == Version3.
	MsgFlags           SnmpV3MsgFlags
	SecurityModel      SnmpV3SecurityModel
	SecurityParameters *UsmSecurityParameters
	ContextEngineID    string
	ContextName        string

	Timeout        time.Duration
	Retries        int
	MaxMessageSize uint32
	NonRepeaters   int
	MaxRepetitions uint8

	Logger Logger

	conn net.Conn
}

// Default holds the package-level defaults a zero-value GoSNMP is filled in
// from by Connect (spec section 6, "Defaults").
var Default = &GoSNMP{
	Port:           defaultPort,
	Version:        Version2c,
	Community:      defaultCommunity,
	Timeout:        defaultTimeout,
	Retries:        defaultRetries,
	MaxMessageSize: defaultMaxMessageSize,
	MaxRepetitions: defaultMaxRepetitions,
	Logger:         defaultLogger,
}

// applyDefaults fills unset fields from Default and clamps Timeout/Retries
// to the ranges spec section 6 requires. A Retries of zero counts as unset;
// Version is never filled.
func (x *GoSNMP) applyDefaults() {
	if x.Port == 0 {
		x.Port = Default.Port
	}
	if x.Community == "" && x.Version != Version3 {
		x.Community = Default.Community
	}
	if x.Timeout == 0 {
		x.Timeout = Default.Timeout
	}
	if x.Timeout < minTimeout {
		x.Timeout = minTimeout
	}
	if x.Timeout > maxTimeout {
		x.Timeout = maxTimeout
	}
	if x.Retries == 0 {
		x.Retries = Default.Retries
	}
	if x.Retries < minRetries {
		x.Retries = minRetries
	}
	if x.Retries > maxRetries {
		x.Retries = maxRetries
	}
	if x.MaxMessageSize == 0 {
		x.MaxMessageSize = Default.MaxMessageSize
	}
	if x.MaxRepetitions == 0 {
		x.MaxRepetitions = Default.MaxRepetitions
	}
	if x.Logger == nil {
		x.Logger = Default.Logger
	}
}

// Connect resolves Target/Port and opens the UDP socket. The address
// family (udp4/udp6) is inferred from Target unless Transport is set
// explicitly (spec section 6, "Transport").
func (x *GoSNMP) Connect() error {
	x.applyDefaults()

	network := x.Transport
	if network == "" {
		network = "udp"
	}

	addr := net.JoinHostPort(x.Target, fmt.Sprintf("%d", x.Port))
	udpAddr, err := net.ResolveUDPAddr(network, addr)
	if err != nil {
		return fmt.Errorf("gosnmp: resolving %s: %w", addr, err)
	}

	conn, err := net.DialUDP(udpAddr.Network(), nil, udpAddr)
	if err != nil {
		return fmt.Errorf("gosnmp: dialing %s: %w", addr, err)
	}
	x.conn = conn

	if x.Version == Version3 && x.SecurityParameters != nil {
		if err := x.SecurityParameters.seedSalts(); err != nil {
			conn.Close()
			x.conn = nil
			return err
		}
	}
	return nil
}

// Close terminates the underlying socket. Any in-flight sendOneRequest call
// observes this as a terminated transport (spec section 6, "Cancellation").
func (x *GoSNMP) Close() error {
	if x.conn == nil {
		return nil
	}
	err := x.conn.Close()
	x.conn = nil
	return err
}

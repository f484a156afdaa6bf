// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package gosnmp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaultsFillsZeroFields(t *testing.T) {
	x := &GoSNMP{}
	x.applyDefaults()
	assert.EqualValues(t, defaultPort, x.Port)
	assert.Equal(t, defaultCommunity, x.Community)
	assert.Equal(t, defaultTimeout, x.Timeout)
	assert.Equal(t, defaultRetries, x.Retries)
	assert.EqualValues(t, defaultMaxMessageSize, x.MaxMessageSize)
	assert.EqualValues(t, defaultMaxRepetitions, x.MaxRepetitions)
	assert.NotNil(t, x.Logger)
}

func TestApplyDefaultsClampsTimeoutAndRetries(t *testing.T) {
	x := &GoSNMP{Timeout: 1 * time.Millisecond, Retries: 99}
	x.applyDefaults()
	assert.Equal(t, minTimeout, x.Timeout)
	assert.Equal(t, maxRetries, x.Retries)

	y := &GoSNMP{Timeout: 1 * time.Hour, Retries: -5}
	y.applyDefaults()
	assert.Equal(t, maxTimeout, y.Timeout)
	assert.Equal(t, minRetries, y.Retries)
}

func TestApplyDefaultsLeavesExplicitCommunityForV3(t *testing.T) {
	x := &GoSNMP{Version: Version3}
	x.applyDefaults()
	assert.Empty(t, x.Community)
}

func TestConnectAndClose(t *testing.T) {
	addr := startLoopbackAgent(t, func(req []byte) ([]byte, bool) { return nil, false })

	x := &GoSNMP{Target: addr.IP.String(), Port: uint16(addr.Port)}
	require.NoError(t, x.Connect())
	require.NoError(t, x.Close())
	// Closing twice, or an already-closed connection, must not panic or error.
	assert.NoError(t, x.Close())
}

func TestConnectRejectsUnresolvableTarget(t *testing.T) {
	// An IPv6 literal is not a valid udp4 address; ResolveUDPAddr rejects it
	// without needing a network round trip.
	x := &GoSNMP{Target: "::1", Port: 161, Transport: "udp4"}
	err := x.Connect()
	assert.Error(t, err)
}

func TestSendFailsWithoutConnect(t *testing.T) {
	x := &GoSNMP{Target: "127.0.0.1", Port: 161}
	_, err := x.Get([]string{"1.3.6.1.2.1.1.1.0"})
	assert.ErrorIs(t, err, errSocketTerminated)
}

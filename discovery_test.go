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

func TestCurrentEngineTimeBeforeDiscovery(t *testing.T) {
	sp := &UsmSecurityParameters{AuthoritativeEngineTime: 500}
	assert.Equal(t, uint32(500), sp.currentEngineTime())
}

func TestCurrentEngineTimeAfterDiscovery(t *testing.T) {
	sp := &UsmSecurityParameters{
		AuthoritativeEngineTime: 100,
		discoveredAt:            time.Now().Unix() - 10,
	}
	got := sp.currentEngineTime()
	assert.GreaterOrEqual(t, got, uint32(111))
	assert.LessOrEqual(t, got, uint32(113))
}

func TestWithinTimeWindowAcceptsBeforeDiscovery(t *testing.T) {
	sp := &UsmSecurityParameters{}
	ok, needsRediscovery := sp.withinTimeWindow(1, 1)
	assert.True(t, ok)
	assert.False(t, needsRediscovery)
}

func TestWithinTimeWindowRejectsBootsIncrease(t *testing.T) {
	sp := &UsmSecurityParameters{
		AuthoritativeEngineBoots: 3,
		AuthoritativeEngineTime:  100,
		discoveredAt:             time.Now().Unix(),
	}
	ok, needsRediscovery := sp.withinTimeWindow(4, 0)
	assert.False(t, ok)
	assert.True(t, needsRediscovery)
}

func TestWithinTimeWindowRejectsDoubleZeroFromKnownPeer(t *testing.T) {
	sp := &UsmSecurityParameters{
		AuthoritativeEngineBoots: 3,
		AuthoritativeEngineTime:  100,
		discoveredAt:             time.Now().Unix(),
	}
	ok, needsRediscovery := sp.withinTimeWindow(0, 0)
	assert.False(t, ok)
	assert.True(t, needsRediscovery)
}

func TestWithinTimeWindowRejectsStaleBoots(t *testing.T) {
	sp := &UsmSecurityParameters{
		AuthoritativeEngineBoots: 3,
		AuthoritativeEngineTime:  100,
		discoveredAt:             time.Now().Unix(),
	}
	ok, needsRediscovery := sp.withinTimeWindow(2, 100)
	assert.False(t, ok)
	assert.False(t, needsRediscovery)
}

func TestWithinTimeWindowAcceptsWithinWindow(t *testing.T) {
	sp := &UsmSecurityParameters{
		AuthoritativeEngineBoots: 3,
		AuthoritativeEngineTime:  1000,
		discoveredAt:             time.Now().Unix(),
	}
	ok, needsRediscovery := sp.withinTimeWindow(3, 1000+discoveryTimeWindow-10)
	assert.True(t, ok)
	assert.False(t, needsRediscovery)
}

func TestWithinTimeWindowRejectsOutsideWindow(t *testing.T) {
	sp := &UsmSecurityParameters{
		AuthoritativeEngineBoots: 3,
		AuthoritativeEngineTime:  1000,
		discoveredAt:             time.Now().Unix(),
	}
	ok, needsRediscovery := sp.withinTimeWindow(3, 1000+discoveryTimeWindow+500)
	assert.False(t, ok)
	assert.False(t, needsRediscovery)
}

func TestDiscoverRoundTrip(t *testing.T) {
	addr := startLoopbackAgent(t, func(req []byte) ([]byte, bool) {
		probe, err := unmarshalV3(req, &UsmSecurityParameters{UserName: "tester"})
		if err != nil {
			return nil, false
		}
		reply := &SnmpPacket{
			Version:       Version3,
			PDUType:       Report,
			RequestID:     probe.RequestID,
			MsgID:         probe.MsgID,
			MsgMaxSize:    65535,
			SecurityModel: UserSecurityModel,
			SecurityParameters: &UsmSecurityParameters{
				UserName:                 "tester",
				AuthoritativeEngineID:    "\x80\x00\x1f\x88\x80agent01",
				AuthoritativeEngineBoots: 5,
				AuthoritativeEngineTime:  12345,
			},
			Variables: []SnmpPDU{
				{Name: oidUsmStatsUnknownEngineIDs, Type: Counter32, Value: uint32(1)},
			},
		}
		out, err := marshalV3(reply)
		if err != nil {
			return nil, false
		}
		return out, true
	})

	x := &GoSNMP{
		Target:        addr.IP.String(),
		Port:          uint16(addr.Port),
		Version:       Version3,
		Timeout:       500 * time.Millisecond,
		Retries:       1,
		SecurityModel: UserSecurityModel,
		SecurityParameters: &UsmSecurityParameters{
			UserName: "tester",
		},
	}
	require.NoError(t, x.Connect())
	defer x.Close()

	require.NoError(t, x.discover())
	assert.Equal(t, "\x80\x00\x1f\x88\x80agent01", x.SecurityParameters.AuthoritativeEngineID)
	assert.Equal(t, uint32(5), x.SecurityParameters.AuthoritativeEngineBoots)
	assert.Equal(t, uint32(12345), x.SecurityParameters.AuthoritativeEngineTime)
}

// TestDiscoverRepeatsOnceWhenFirstReplyIsDoubleZero exercises spec section
// 4.8 step 2: an agent that answers the first discovery probe with
// engineBoots and engineTime both zero must be probed a second time, with
// the second reply's values committed instead of the placeholder zeros.
func TestDiscoverRepeatsOnceWhenFirstReplyIsDoubleZero(t *testing.T) {
	probeCount := 0
	addr := startLoopbackAgent(t, func(req []byte) ([]byte, bool) {
		probe, err := unmarshalV3(req, &UsmSecurityParameters{UserName: "tester"})
		if err != nil {
			return nil, false
		}
		probeCount++

		sp := &UsmSecurityParameters{
			UserName:              "tester",
			AuthoritativeEngineID: "\x80\x00\x1f\x88\x80agent01",
		}
		if probeCount == 1 {
			// First reply: some agents report boots/time as zero on a
			// cold engine before it has settled.
			sp.AuthoritativeEngineBoots = 0
			sp.AuthoritativeEngineTime = 0
		} else {
			sp.AuthoritativeEngineBoots = 7
			sp.AuthoritativeEngineTime = 999
		}

		reply := &SnmpPacket{
			Version:            Version3,
			PDUType:            Report,
			RequestID:          probe.RequestID,
			MsgID:              probe.MsgID,
			MsgMaxSize:         65535,
			SecurityModel:      UserSecurityModel,
			SecurityParameters: sp,
			Variables: []SnmpPDU{
				{Name: oidUsmStatsUnknownEngineIDs, Type: Counter32, Value: uint32(1)},
			},
		}
		out, err := marshalV3(reply)
		if err != nil {
			return nil, false
		}
		return out, true
	})

	x := &GoSNMP{
		Target:        addr.IP.String(),
		Port:          uint16(addr.Port),
		Version:       Version3,
		Timeout:       500 * time.Millisecond,
		Retries:       1,
		SecurityModel: UserSecurityModel,
		SecurityParameters: &UsmSecurityParameters{
			UserName: "tester",
		},
	}
	require.NoError(t, x.Connect())
	defer x.Close()

	require.NoError(t, x.discover())
	assert.Equal(t, 2, probeCount, "discover should repeat the probe once when the first reply is double-zero")
	assert.Equal(t, uint32(7), x.SecurityParameters.AuthoritativeEngineBoots)
	assert.Equal(t, uint32(999), x.SecurityParameters.AuthoritativeEngineTime)
}

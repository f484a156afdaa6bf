// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package gosnmp

import "context"

// runCtx races fn against ctx, returning ctx.Err() immediately if ctx is
// cancelled first. fn keeps running against the connection's own
// Timeout/Retries in the background; a caller that needs the socket torn
// down immediately on cancellation should call Close from a defer alongside
// its own context, since closing is the only hard-stop primitive this
// transport exposes (spec section 6, "Cancellation").
func runCtx(ctx context.Context, fn func() (*SnmpPacket, error)) (*SnmpPacket, error) {
	type result struct {
		packet *SnmpPacket
		err    error
	}
	done := make(chan result, 1)
	go func() {
		packet, err := fn()
		done <- result{packet, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.packet, r.err
	}
}

// GetCtx is Get, cancellable via ctx.
func (x *GoSNMP) GetCtx(ctx context.Context, oids []string) (*SnmpPacket, error) {
	return runCtx(ctx, func() (*SnmpPacket, error) { return x.Get(oids) })
}

// GetNextCtx is GetNext, cancellable via ctx.
func (x *GoSNMP) GetNextCtx(ctx context.Context, oids []string) (*SnmpPacket, error) {
	return runCtx(ctx, func() (*SnmpPacket, error) { return x.GetNext(oids) })
}

// GetBulkCtx is GetBulk, cancellable via ctx.
func (x *GoSNMP) GetBulkCtx(ctx context.Context, oids []string, nonRepeaters, maxRepetitions uint8) (*SnmpPacket, error) {
	return runCtx(ctx, func() (*SnmpPacket, error) { return x.GetBulk(oids, nonRepeaters, maxRepetitions) })
}

// SetCtx is Set, cancellable via ctx.
func (x *GoSNMP) SetCtx(ctx context.Context, pdus []SnmpPDU) (*SnmpPacket, error) {
	return runCtx(ctx, func() (*SnmpPacket, error) { return x.Set(pdus) })
}

// WalkCtx is Walk, cancellable via ctx; walkFn is still called synchronously
// from the background goroutine driving the traversal.
func (x *GoSNMP) WalkCtx(ctx context.Context, rootOid string, walkFn WalkFunc) error {
	_, err := runCtx(ctx, func() (*SnmpPacket, error) { return nil, x.Walk(rootOid, walkFn) })
	return err
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package counter - event counts updated from many goroutines and read
// by the statistics log
package counter

import (
	"sync/atomic"
)

// Counter - number of events; the zero value is ready to use
type Counter struct {
	n atomic.Uint64
}

// Increment - count one event
func (c *Counter) Increment() {
	c.n.Add(1)
}

// Decrement - undo one Increment for counts that fall as well as rise,
// such as submissions in flight; stops at zero
func (c *Counter) Decrement() {
	for {
		n := c.n.Load()
		if 0 == n || c.n.CompareAndSwap(n, n-1) {
			return
		}
	}
}

// Value - the current count
func (c *Counter) Value() uint64 {
	return c.n.Load()
}

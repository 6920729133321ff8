// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/spritepoold/background"
)

type ticker struct {
	count    int64
	finished int64
}

func (state *ticker) Run(args interface{}, shutdown <-chan struct{}) {
	step := args.(int64)

loop:
	for {
		select {
		case <-shutdown:
			break loop
		default:
		}
		atomic.AddInt64(&state.count, step)
		time.Sleep(time.Millisecond)
	}
	atomic.StoreInt64(&state.finished, 1)
}

func TestStartStop(t *testing.T) {
	proc1 := &ticker{}
	proc2 := &ticker{}

	processes := background.Processes{
		proc1,
		proc2,
	}

	p := background.Start(processes, int64(3))
	time.Sleep(50 * time.Millisecond)
	p.Stop()

	assert.Equal(t, int64(1), atomic.LoadInt64(&proc1.finished), "process 1 did not finish")
	assert.Equal(t, int64(1), atomic.LoadInt64(&proc2.finished), "process 2 did not finish")
	assert.True(t, atomic.LoadInt64(&proc1.count) > 0, "process 1 did not run")
	assert.Equal(t, int64(0), atomic.LoadInt64(&proc2.count)%3, "wrong argument passed")
}

func TestStopTwice(t *testing.T) {
	proc := &ticker{}
	p := background.Start(background.Processes{proc}, int64(1))
	p.Stop()
	p.Stop()

	assert.Equal(t, int64(1), atomic.LoadInt64(&proc.finished), "process did not finish")
}

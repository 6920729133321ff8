// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coordinator

import (
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/spritepoold/client"
	"github.com/bitmark-inc/spritepoold/solution"
)

type dispatcher struct {
	c         *Coordinator
	log       *logger.L
	submitter *submitter
}

func (d *dispatcher) Run(args interface{}, shutdown <-chan struct{}) {
	log := d.log

	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case request := <-d.c.requests:
			d.process(request)
		}
	}

	log.Info("stopped")
}

// a panic is confined to the request that caused it
func (d *dispatcher) process(request client.Request) {
	defer func() {
		if r := recover(); nil != r {
			d.log.Criticalf("request from: %s  panic: %v", request.From, r)
			time.Sleep(d.c.configuration.ErrorPause)
		}
	}()

	switch request.Method {
	case client.SubmitSolutionMethod:
		s, err := solution.Parse(request.Solution)
		if nil != err {
			d.log.Warnf("solution from: %s  %q  error: %s", request.From, request.Solution, err)
			return
		}

		// the sprite this solution was mined for
		sprite := d.c.state.Sprite()

		d.log.Infof("solution from: %s  %s", request.From, s)
		d.submitter.submit(s, sprite)

	case client.PingMethod:

	default:
		d.log.Warnf("did not understand message from: %s  method: %q", request.From, request.Method)
	}
}

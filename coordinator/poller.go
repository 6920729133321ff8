// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coordinator

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/spritepoold/work"
)

type poller struct {
	c   *Coordinator
	log *logger.L
}

func (p *poller) Run(args interface{}, shutdown <-chan struct{}) {
	log := p.log

	log.Info("starting…")

	ticker := time.NewTicker(p.c.configuration.PollInterval)
	defer ticker.Stop()

	p.poll()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			p.poll()
		}
	}

	log.Info("stopped")
}

// one read of both parameters, any failure skips this tick
func (p *poller) poll() {
	c := p.c
	log := p.log

	defer func() {
		counters := c.Counters()
		log.Debugf("submitted: %d  confirmed: %d  abandoned: %d  in flight: %d  clients: %d",
			counters.Submitted, counters.Confirmed, counters.Abandoned, counters.InFlight, c.registry.Count())
	}()

	miningTarget, err := p.read(c.ledger.MiningTarget)
	if nil != err {
		log.Errorf("mining target error: %s", err)
		return
	}
	challengeNumber, err := p.read(c.ledger.ChallengeNumber)
	if nil != err {
		log.Errorf("challenge number error: %s", err)
		return
	}

	parameters := work.Parameters{
		MiningTarget:    miningTarget,
		ChallengeNumber: challengeNumber,
	}
	if parameters == c.state.Parameters() {
		return
	}

	log.Infof("new mining parameters: %s", parameters)
	c.broadcast(c.state.SetParameters(parameters), log)
}

func (p *poller) read(call func(ctx context.Context) (string, error)) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.c.configuration.ReadTimeout)
	defer cancel()
	return call(ctx)
}

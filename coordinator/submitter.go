// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coordinator

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/spritepoold/ledger"
	"github.com/bitmark-inc/spritepoold/solution"
)

type submitter struct {
	c   *Coordinator
	log *logger.L
}

// submit - start the submission in the background
func (s *submitter) submit(sol *solution.Solution, sprite string) {
	s.c.submitted.Increment()
	s.c.inFlight.Increment()

	go func() {
		defer s.c.inFlight.Decrement()
		s.run(sol, sprite)
	}()
}

func (s *submitter) run(sol *solution.Solution, sprite string) {
	c := s.c
	log := s.log
	attempts := c.configuration.SubmitAttempts

	for n := 1; n <= attempts; n += 1 {
		log.Debugf("attempt %d/%d  %s", n, attempts, sol)

		confirmation, err := s.attempt(sol)
		if nil == err {
			c.confirmed.Increment()
			log.Infof("submitted solution successfully: miner: %s  transaction: %s  block: %d",
				sol.MinerAddress.Hex(), confirmation.TransactionHash, confirmation.BlockNumber)
			s.advance(sprite)
			return
		}

		log.Warnf("attempt %d/%d  miner: %s  error: %s", n, attempts, sol.MinerAddress.Hex(), err)
		if n < attempts {
			time.Sleep(c.configuration.RetryDelay)
		}
	}

	c.abandoned.Increment()
	log.Errorf("abandoned solution after %d attempts: %s", attempts, sol)
}

func (s *submitter) attempt(sol *solution.Solution) (*ledger.Confirmation, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.c.configuration.SubmitTimeout)
	defer cancel()
	return s.c.ledger.SubmitSolution(ctx, sol.MinerAddress, sol.Nonce)
}

// mark the mined sprite done and broadcast the next one
func (s *submitter) advance(sprite string) {
	c := s.c
	log := s.log

	if "" != sprite {
		err := c.sprites.MarkDone(sprite)
		if nil != err {
			log.Errorf("mark done: %s  error: %s", sprite, err)
		}
	}

	next, err := c.sprites.Current()
	if nil != err {
		log.Errorf("next sprite error: %s", err)
		return
	}
	c.broadcast(c.state.SetSprite(next), log)
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package work

import (
	"sync"

	"github.com/bitmark-inc/logger"
)

// State - the lock-guarded current work
type State struct {
	sync.Mutex

	log         *logger.L
	poolAddress string

	parameters Parameters
	sprite     string

	generation uint64
	message    *Message
}

// New - create an empty state; no message until all inputs are set
func New(log *logger.L, poolAddress string) *State {
	return &State{
		log:         log,
		poolAddress: poolAddress,
	}
}

// SetParameters - replace the mining parameters and return the new message
func (s *State) SetParameters(parameters Parameters) *Message {
	s.Lock()
	defer s.Unlock()

	s.parameters = parameters
	return s.update()
}

// SetSprite - replace the sprite and return the new message
//
// an empty sprite means no work remains
func (s *State) SetSprite(sprite string) *Message {
	s.Lock()
	defer s.Unlock()

	s.sprite = sprite
	return s.update()
}

// Current - the latest message, nil if there is no work
func (s *State) Current() *Message {
	s.Lock()
	defer s.Unlock()

	return s.message
}

// Parameters - the last parameters set
func (s *State) Parameters() Parameters {
	s.Lock()
	defer s.Unlock()

	return s.parameters
}

// Sprite - the sprite currently being mined
func (s *State) Sprite() string {
	s.Lock()
	defer s.Unlock()

	return s.sprite
}

// rebuild the message, must hold lock
func (s *State) update() *Message {
	s.generation += 1

	if !s.parameters.IsComplete() {
		s.log.Warn("don't know mining parameters yet")
		s.message = nil
		return nil
	}
	if "" == s.sprite {
		s.log.Warn("no sprites remaining")
		s.message = nil
		return nil
	}

	data, err := encode(s.poolAddress, s.parameters, s.sprite)
	if nil != err {
		s.log.Errorf("encode work message error: %s", err)
		s.message = nil
		return nil
	}

	s.message = &Message{
		Generation: s.generation,
		Data:       data,
	}
	s.log.Debugf("new work message: %s", data)

	return s.message
}

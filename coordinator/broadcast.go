// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coordinator

import (
	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/spritepoold/work"
)

// send to every registered miner and the publisher
//
// a failed send is only logged, the read loop of that connection will
// see the error and deregister it
func (c *Coordinator) broadcast(message *work.Message, log *logger.L) {
	if nil == message {
		log.Warn("no work to send to clients")
		return
	}

	handlers := c.registry.Snapshot()
	log.Infof("send generation: %d to %d clients", message.Generation, len(handlers))

	for _, h := range handlers {
		err := h.Send(message)
		if nil != err {
			log.Warnf("send to: %s  error: %s", h.ID(), err)
		}
	}

	c.publisher.Publish(message)
}

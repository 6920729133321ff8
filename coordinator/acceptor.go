// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coordinator

import (
	"errors"
	"net"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/spritepoold/client"
)

type acceptor struct {
	c         *Coordinator
	log       *logger.L
	clientLog *logger.L
}

func (a *acceptor) Run(args interface{}, shutdown <-chan struct{}) {
	log := a.log

	log.Info("starting…")

	for {
		conn, err := a.c.listener.Accept()
		if nil != err {
			select {
			case <-shutdown:
				log.Info("stopped")
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				log.Info("listener closed")
				return
			}

			log.Errorf("accept error: %s", err)
			select {
			case <-shutdown:
				log.Info("stopped")
				return
			case <-time.After(a.c.configuration.ErrorPause):
			}
			continue
		}

		a.handle(conn)
	}
}

// register first so no broadcast made after the current message was
// read can be missed
func (a *acceptor) handle(conn net.Conn) {
	c := a.c
	log := a.log

	maximum := c.configuration.MaximumConnections
	if maximum > 0 && c.registry.Count() >= maximum {
		log.Warnf("maximum connections: %d reached, rejecting: %s", maximum, conn.RemoteAddr())
		_ = conn.Close()
		return
	}

	h := client.New(conn, c.registry, c.requests, c.configuration.Limits, a.clientLog)
	c.registry.Add(h.ID(), h)
	log.Infof("accepted: %s", h.ID())

	message := c.state.Current()
	if nil == message {
		log.Warn("no work to send to client")
	} else if err := h.Send(message); nil != err {
		log.Warnf("send to: %s  error: %s", h.ID(), err)
	}

	go h.Run()
}

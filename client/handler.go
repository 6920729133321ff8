// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package client

import (
	"bufio"
	"encoding/json"
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/spritepoold/work"
)

const (
	maximumLineLength = 65536
	readBufferSize    = 4096
)

// Limits - per connection restrictions
type Limits struct {
	MessageRate  float64       // requests per second, zero for no limit
	MessageBurst int           // requests allowed in a burst
	WriteTimeout time.Duration // zero for no deadline
}

// Handler - one miner connection
type Handler struct {
	id       string
	conn     net.Conn
	registry *Registry
	sink     chan<- Request
	limiter  *rate.Limiter
	timeout  time.Duration
	log      *logger.L

	// protects writes to conn and the generation last written
	writeLock      sync.Mutex
	lastGeneration uint64

	// closed by Close so a read loop blocked on a full queue can finish
	closed    chan struct{}
	closeOnce sync.Once
}

// New - create a handler; Run must be started by the caller
func New(conn net.Conn, registry *Registry, sink chan<- Request, limits Limits, log *logger.L) *Handler {

	limiter := rate.NewLimiter(rate.Inf, 0)
	if limits.MessageRate > 0 {
		burst := limits.MessageBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(limits.MessageRate), burst)
	}

	return &Handler{
		id:       conn.RemoteAddr().String(),
		conn:     conn,
		registry: registry,
		sink:     sink,
		limiter:  limiter,
		timeout:  limits.WriteTimeout,
		log:      log,
		closed:   make(chan struct{}),
	}
}

// ID - the remote address
func (h *Handler) ID() string {
	return h.id
}

// Run - read requests until the connection ends
//
// the connection is closed and removed from the registry on return
func (h *Handler) Run() {
	log := h.log

	log.Infof("handling connection %s", h.id)

	scanner := bufio.NewScanner(h.conn)
	scanner.Buffer(make([]byte, readBufferSize), maximumLineLength)

scan:
	for scanner.Scan() {
		line := scanner.Bytes()
		if 0 == len(line) {
			continue
		}

		if !h.limiter.Allow() {
			log.Warnf("%s: rate limit exceeded, dropping: %q", h.id, line)
			continue
		}

		request := Request{}
		err := json.Unmarshal(line, &request)
		if nil != err {
			log.Warnf("unable to parse message from %s: %q", h.id, line)
			continue
		}
		request.From = h.id

		log.Debugf("%s %+v", h.id, request)
		select {
		case h.sink <- request:
		case <-h.closed:
			log.Warnf("%s: closed while queue full, dropping: %q", h.id, line)
			break scan
		}
	}

	if err := scanner.Err(); nil != err {
		log.Warnf("%s read error: %s", h.id, err)
	}
	log.Infof("%s disconnected", h.id)

	_ = h.conn.Close()
	h.registry.Remove(h.id)

	log.Debugf("%s handler ending", h.id)
}

// Send - write a work message
//
// a message that is not newer than the last one written is skipped so
// concurrent senders can never make this connection go backwards
func (h *Handler) Send(message *work.Message) error {
	if nil == message {
		return nil
	}

	h.writeLock.Lock()
	defer h.writeLock.Unlock()

	if message.Generation <= h.lastGeneration {
		h.log.Debugf("%s: skip generation: %d  already sent: %d", h.id, message.Generation, h.lastGeneration)
		return nil
	}

	if h.timeout > 0 {
		_ = h.conn.SetWriteDeadline(time.Now().Add(h.timeout))
	}
	_, err := h.conn.Write(message.Data)
	if nil != err {
		return err
	}
	h.lastGeneration = message.Generation
	return nil
}

// Close - close the connection, the read loop will then finish
// even if it is waiting for space in the queue
func (h *Handler) Close() error {
	h.closeOnce.Do(func() {
		close(h.closed)
	})
	return h.conn.Close()
}

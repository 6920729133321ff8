// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coordinator

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/spritepoold/background"
	"github.com/bitmark-inc/spritepoold/client"
	"github.com/bitmark-inc/spritepoold/counter"
	"github.com/bitmark-inc/spritepoold/fault"
	"github.com/bitmark-inc/spritepoold/ledger"
	"github.com/bitmark-inc/spritepoold/sprites"
	"github.com/bitmark-inc/spritepoold/work"
)

const (
	keepAlivePeriod = 3 * time.Minute
)

// Configuration - timings and limits, all durations must be positive
type Configuration struct {
	Listen             string
	Port               int
	MaximumConnections int // zero for no limit
	QueueSize          int

	PollInterval   time.Duration
	ReadTimeout    time.Duration
	SubmitTimeout  time.Duration
	SubmitAttempts int
	RetryDelay     time.Duration
	ErrorPause     time.Duration

	Limits client.Limits
}

// Publisher - optional mirror of broadcast messages
type Publisher interface {
	Publish(message *work.Message)
}

// Counters - submission statistics
type Counters struct {
	Submitted uint64
	Confirmed uint64
	Abandoned uint64
	InFlight  uint64
}

// Coordinator - the pool
type Coordinator struct {
	sync.Mutex // protects processes

	log           *logger.L
	configuration Configuration
	listener      net.Listener
	registry      *client.Registry
	state         *work.State
	ledger        ledger.Client
	sprites       sprites.Provider
	publisher     Publisher
	requests      chan client.Request
	processes     *background.T

	submitted counter.Counter
	confirmed counter.Counter
	abandoned counter.Counter
	inFlight  counter.Counter
}

// New - validate the configuration and open the listening socket
//
// publisher may be nil
func New(
	configuration *Configuration,
	state *work.State,
	ledgerClient ledger.Client,
	provider sprites.Provider,
	publisher Publisher,
) (*Coordinator, error) {

	log := logger.New("coordinator")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	if configuration.Port < 0 || configuration.Port > 65535 {
		log.Errorf("invalid port: %d", configuration.Port)
		return nil, fault.ErrInvalidPort
	}
	if configuration.SubmitAttempts < 1 || configuration.QueueSize < 1 || configuration.MaximumConnections < 0 {
		log.Errorf("invalid count in: %+v", configuration)
		return nil, fault.ErrInvalidCount
	}
	if configuration.PollInterval <= 0 || configuration.ReadTimeout <= 0 ||
		configuration.SubmitTimeout <= 0 || configuration.RetryDelay < 0 || configuration.ErrorPause < 0 {
		log.Errorf("invalid duration in: %+v", configuration)
		return nil, fault.ErrInvalidDuration
	}

	listenConfig := net.ListenConfig{
		KeepAlive: keepAlivePeriod,
	}
	address := net.JoinHostPort(configuration.Listen, strconv.Itoa(configuration.Port))
	listener, err := listenConfig.Listen(context.Background(), "tcp", address)
	if nil != err {
		log.Errorf("listen on: %q  error: %s", address, err)
		return nil, err
	}
	log.Infof("listening on: %s", listener.Addr())

	if nil == publisher {
		publisher = nullPublisher{}
	}

	return &Coordinator{
		log:           log,
		configuration: *configuration,
		listener:      listener,
		registry:      client.NewRegistry(log),
		state:         state,
		ledger:        ledgerClient,
		sprites:       provider,
		publisher:     publisher,
		requests:      make(chan client.Request, configuration.QueueSize),
	}, nil
}

// Addr - the bound listening address
func (c *Coordinator) Addr() net.Addr {
	return c.listener.Addr()
}

// Start - run the accept, poll and dispatch loops
func (c *Coordinator) Start() error {
	c.Lock()
	defer c.Unlock()

	if nil != c.processes {
		return fault.ErrAlreadyInitialised
	}

	processes := background.Processes{
		&acceptor{
			c:         c,
			log:       logger.New("acceptor"),
			clientLog: logger.New("client"),
		},
		&poller{
			c:   c,
			log: logger.New("poller"),
		},
		&dispatcher{
			c:         c,
			log:       logger.New("dispatcher"),
			submitter: &submitter{c: c, log: logger.New("submitter")},
		},
	}
	c.processes = background.Start(processes, nil)

	c.log.Info("started")
	return nil
}

// Stop - close the listener and every connection
//
// submissions already in flight continue until they finish
func (c *Coordinator) Stop() {
	c.Lock()
	defer c.Unlock()

	_ = c.listener.Close()

	if nil != c.processes {
		c.processes.Stop()
	}

	for _, h := range c.registry.Snapshot() {
		_ = h.Close()
	}
	c.log.Info("stopped")
}

// Connections - number of registered miners
func (c *Coordinator) Connections() int {
	return c.registry.Count()
}

// Counters - current submission statistics
func (c *Coordinator) Counters() Counters {
	return Counters{
		Submitted: c.submitted.Value(),
		Confirmed: c.confirmed.Value(),
		Abandoned: c.abandoned.Value(),
		InFlight:  c.inFlight.Value(),
	}
}

type nullPublisher struct{}

func (nullPublisher) Publish(*work.Message) {}

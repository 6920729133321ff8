// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package publish - mirror work messages on ZeroMQ PUB sockets
package publish

import (
	"sync"
	"time"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/spritepoold/fault"
	"github.com/bitmark-inc/spritepoold/work"
	"github.com/bitmark-inc/spritepoold/zmqutil"
)

const (
	defaultHeartbeatInterval = 60 * time.Second
	lingerTime               = 0
	publisherZapDomain       = "publisher"
)

// Configuration - endpoints to bind
//
// with both key files set subscribers must use CurveZMQ
type Configuration struct {
	Endpoints         []string `gluamapper:"endpoints" json:"endpoints"`
	HeartbeatInterval int      `gluamapper:"heartbeat_interval" json:"heartbeat_interval"` // seconds
	PrivateKey        string   `gluamapper:"private_key" json:"private_key"`
	PublicKey         string   `gluamapper:"public_key" json:"public_key"`
}

// Source - provider of the message to repeat on each heartbeat
type Source interface {
	Current() *work.Message
}

// Publisher - a PUB socket bound to every configured endpoint
type Publisher struct {
	sync.Mutex // zmq sockets must not be shared between goroutines

	log      *logger.L
	socket   *zmq.Socket
	source   Source
	interval time.Duration
}

// New - bind the socket; a configuration without endpoints returns nil
func New(configuration *Configuration, source Source, log *logger.L) (*Publisher, error) {
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}
	if 0 == len(configuration.Endpoints) {
		log.Info("no publish endpoints")
		return nil, nil
	}

	var privateKey, publicKey []byte
	if "" != configuration.PrivateKey && "" != configuration.PublicKey {
		var err error
		privateKey, err = zmqutil.ReadPrivateKeyFile(configuration.PrivateKey)
		if nil != err {
			log.Errorf("read private key file: %q  error: %s", configuration.PrivateKey, err)
			return nil, err
		}
		publicKey, err = zmqutil.ReadPublicKeyFile(configuration.PublicKey)
		if nil != err {
			log.Errorf("read public key file: %q  error: %s", configuration.PublicKey, err)
			return nil, err
		}
		log.Tracef("public key:  %x", publicKey)

		err = zmqutil.StartAuthentication()
		if nil != err {
			log.Errorf("zmq authentication start error: %s", err)
			return nil, err
		}
	}

	socket, err := zmqutil.NewServerSocket(zmq.PUB, publisherZapDomain, privateKey, publicKey)
	if nil != err {
		return nil, err
	}
	err = socket.SetLinger(lingerTime)
	if nil != err {
		socket.Close()
		return nil, err
	}

	for i, address := range configuration.Endpoints {
		bindTo, v6, err := zmqutil.CanonicalEndpoint(address)
		if nil == err && v6 {
			err = socket.SetIpv6(true)
		}
		if nil == err {
			err = socket.Bind(bindTo)
		}
		if nil != err {
			log.Errorf("publish[%d]=%q  error: %s", i, address, err)
			socket.Close()
			return nil, err
		}
		log.Infof("publish on: %q", bindTo)
	}

	interval := defaultHeartbeatInterval
	if configuration.HeartbeatInterval > 0 {
		interval = time.Duration(configuration.HeartbeatInterval) * time.Second
	}

	return &Publisher{
		log:      log,
		socket:   socket,
		source:   source,
		interval: interval,
	}, nil
}

// Publish - send without blocking, slow subscribers lose messages
func (p *Publisher) Publish(message *work.Message) {
	if nil == p || nil == message {
		return
	}

	p.Lock()
	defer p.Unlock()

	if nil == p.socket {
		return
	}
	_, err := p.socket.SendBytes(message.Data, zmq.DONTWAIT)
	if nil != err {
		p.log.Warnf("send error: %s", err)
		return
	}
	p.log.Debugf("published generation: %d", message.Generation)
}

// Run - repeat the current message so late subscribers catch up
func (p *Publisher) Run(args interface{}, shutdown <-chan struct{}) {
	log := p.log

	log.Info("starting…")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			p.Publish(p.source.Current())
		}
	}

	p.Close()
	log.Info("stopped")
}

// Close - close the socket, later publishes are discarded
func (p *Publisher) Close() {
	p.Lock()
	defer p.Unlock()

	if nil != p.socket {
		p.socket.Close()
		p.socket = nil
	}
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package client_test

import (
	"bufio"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/spritepoold/client"
	"github.com/bitmark-inc/spritepoold/work"
)

const waitTime = 2 * time.Second

func receive(t *testing.T, sink <-chan client.Request) client.Request {
	select {
	case r := <-sink:
		return r
	case <-time.After(waitTime):
		t.Fatal("timeout waiting for request")
	}
	return client.Request{}
}

func waitFinished(t *testing.T, done <-chan struct{}) {
	select {
	case <-done:
	case <-time.After(waitTime):
		t.Fatal("timeout waiting for handler to finish")
	}
}

func TestRunDecodesRequests(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	registry := client.NewRegistry(logger.New(logCategory))
	sink := make(chan client.Request, 10)
	server, miner := newPipe("10.0.0.1:1234")

	h := client.New(server, registry, sink, client.Limits{}, logger.New(logCategory))
	registry.Add(h.ID(), h)
	assert.Equal(t, "10.0.0.1:1234", h.ID(), "wrong id")

	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	_, err := io.WriteString(miner, `{"method":"ping"}`+"\n")
	assert.Nil(t, err, "write ping")

	r := receive(t, sink)
	assert.Equal(t, client.PingMethod, r.Method, "wrong method")
	assert.Equal(t, "10.0.0.1:1234", r.From, "wrong source")

	// malformed and blank lines are skipped, the loop continues
	_, err = io.WriteString(miner, "this is not json\n\n[1,2,3]\n")
	assert.Nil(t, err, "write junk")

	_, err = io.WriteString(miner, `{"method":"submit_solution","solution":"0x1234"}`+"\n")
	assert.Nil(t, err, "write submit")

	r = receive(t, sink)
	assert.Equal(t, client.SubmitSolutionMethod, r.Method, "wrong method")
	assert.Equal(t, "0x1234", r.Solution, "wrong solution")

	_ = miner.Close()
	waitFinished(t, done)

	assert.Equal(t, 0, registry.Count(), "handler did not deregister")
	assert.Equal(t, 0, len(sink), "unexpected requests queued")
}

func TestRunRateLimit(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	registry := client.NewRegistry(logger.New(logCategory))
	sink := make(chan client.Request, 10)
	server, miner := newPipe("limited")

	limits := client.Limits{
		MessageRate:  0.001,
		MessageBurst: 2,
	}
	h := client.New(server, registry, sink, limits, logger.New(logCategory))
	registry.Add(h.ID(), h)

	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	for i := 0; i < 5; i += 1 {
		_, err := io.WriteString(miner, `{"method":"ping"}`+"\n")
		assert.Nil(t, err, "write ping")
	}
	_ = miner.Close()
	waitFinished(t, done)

	assert.Equal(t, 2, len(sink), "burst not enforced")
}

func TestSendGenerations(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	registry := client.NewRegistry(logger.New(logCategory))
	server, miner := newPipe("sender")
	h := client.New(server, registry, make(chan client.Request), client.Limits{WriteTimeout: waitTime}, logger.New(logCategory))

	lines := make(chan string, 10)
	go func() {
		reader := bufio.NewReader(miner)
		for {
			s, err := reader.ReadString('\n')
			if nil != err {
				close(lines)
				return
			}
			lines <- s
		}
	}()

	m1 := &work.Message{Generation: 1, Data: []byte("one\n")}
	m2 := &work.Message{Generation: 2, Data: []byte("two\n")}
	m3 := &work.Message{Generation: 3, Data: []byte("three\n")}

	assert.Nil(t, h.Send(nil), "nil send")
	assert.Nil(t, h.Send(m2), "send 2")
	assert.Nil(t, h.Send(m1), "send 1")
	assert.Nil(t, h.Send(m2), "send 2 again")
	assert.Nil(t, h.Send(m3), "send 3")

	_ = h.Close()

	received := []string{}
	for s := range lines {
		received = append(received, s)
	}
	assert.Equal(t, []string{"two\n", "three\n"}, received, "wrong sequence")
}

func TestSendAfterClose(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	registry := client.NewRegistry(logger.New(logCategory))
	server, miner := net.Pipe()
	_ = miner.Close()

	h := client.New(server, registry, make(chan client.Request), client.Limits{}, logger.New(logCategory))
	err := h.Send(&work.Message{Generation: 1, Data: []byte("x\n")})
	assert.NotNil(t, err, "send to closed pipe succeeded")
}

func TestCloseReleasesBlockedRun(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	registry := client.NewRegistry(logger.New(logCategory))
	sink := make(chan client.Request) // nobody receives
	server, miner := newPipe("blocked")
	defer miner.Close()

	h := client.New(server, registry, sink, client.Limits{}, logger.New(logCategory))
	registry.Add(h.ID(), h)

	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	// the pipe write returns once the read loop has the line
	_, err := io.WriteString(miner, `{"method":"ping"}`+"\n")
	assert.Nil(t, err, "write ping")

	assert.Nil(t, h.Close(), "close")
	waitFinished(t, done)

	assert.Equal(t, 0, registry.Count(), "handler did not deregister")
	assert.Nil(t, h.Close(), "second close")
}

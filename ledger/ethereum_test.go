// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/spritepoold/fault"
	"github.com/bitmark-inc/spritepoold/ledger"
)

const (
	miningTargetSelector    = "0x8a769d35"
	challengeNumberSelector = "0x8ae0368b"
)

var (
	target    = "0x" + strings.Repeat("00", 4) + strings.Repeat("ff", 28)
	challenge = "0x" + strings.Repeat("5a", 32)
)

func TestLoadPrivateKey(t *testing.T) {
	items := []struct {
		key     string
		address string
	}{
		{"0x" + strings.Repeat("0", 63) + "1", "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"},
		{"0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318", "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"},
	}

	for i, item := range items {
		key, err := ledger.LoadPrivateKey(item.key)
		assert.Nil(t, err, fmt.Sprintf("%d: load", i))
		assert.Equal(t, item.address, ledger.PoolAddress(key).Hex(), fmt.Sprintf("%d: address", i))
	}
}

func TestLoadPrivateKeyInvalid(t *testing.T) {
	items := []string{
		"",
		strings.Repeat("1", 64),
		"0x" + strings.Repeat("1", 63),
		"0x" + strings.Repeat("A", 64),
		"0x" + strings.Repeat("0", 64), // zero is not a valid key
	}

	for i, item := range items {
		_, err := ledger.LoadPrivateKey(item)
		assert.Equal(t, fault.ErrInvalidPrivateKey, err, fmt.Sprintf("%d: %q", i, item))
	}
}

// minimal JSON-RPC node answering eth_call by selector
func rpcServer(results map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request struct {
			ID     json.RawMessage   `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&request); nil != err {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var call struct {
			Data  string `json:"data"`
			Input string `json:"input"`
		}
		if "eth_call" == request.Method && len(request.Params) > 0 {
			_ = json.Unmarshal(request.Params[0], &call)
		}
		data := call.Input
		if "" == data {
			data = call.Data
		}
		if len(data) > 10 {
			data = data[:10]
		}

		result, ok := results[data]
		if !ok {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"error":{"code":-32000,"message":"execution reverted"}}`, request.ID)
			return
		}
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":%q}`, request.ID, result)
	}))
}

func newEthereum(t *testing.T, url string) *ledger.Ethereum {
	key, err := ledger.LoadPrivateKey("0x" + strings.Repeat("0", 63) + "1")
	assert.Nil(t, err, "key")

	e, err := ledger.New(&ledger.Configuration{
		PrivateKey:           key,
		ContractAddress:      common.HexToAddress("0x366d17aDB24A7654DbE82e79F85F9Cb03c03cD0D"),
		ProviderHTTPURL:      url,
		ProviderWebsocketURL: "ws://127.0.0.1:1",
	}, logger.New("ledger"))
	assert.Nil(t, err, "new")
	return e
}

func TestReads(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	server := rpcServer(map[string]string{
		miningTargetSelector:    target,
		challengeNumberSelector: challenge,
	})
	defer server.Close()

	e := newEthereum(t, server.URL)
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
	defer cancel()

	actual, err := e.MiningTarget(ctx)
	assert.Nil(t, err, "mining target")
	assert.Equal(t, target, actual, "mining target")

	actual, err = e.ChallengeNumber(ctx)
	assert.Nil(t, err, "challenge number")
	assert.Equal(t, challenge, actual, "challenge number")
}

func TestReadErrors(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	server := rpcServer(map[string]string{
		miningTargetSelector: "0x1234",
	})
	defer server.Close()

	e := newEthereum(t, server.URL)
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
	defer cancel()

	_, err := e.MiningTarget(ctx)
	assert.Equal(t, fault.ErrInvalidCallResult, err, "short result")

	_, err = e.ChallengeNumber(ctx)
	assert.NotNil(t, err, "reverted call")
}

func TestNewValidation(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	key, _ := ledger.LoadPrivateKey("0x" + strings.Repeat("0", 63) + "1")

	_, err := ledger.New(&ledger.Configuration{
		ProviderHTTPURL:      "http://127.0.0.1:1",
		ProviderWebsocketURL: "ws://127.0.0.1:1",
	}, logger.New("ledger"))
	assert.Equal(t, fault.ErrInvalidPrivateKey, err, "no key")

	_, err = ledger.New(&ledger.Configuration{
		PrivateKey:           key,
		ProviderWebsocketURL: "ws://127.0.0.1:1",
	}, logger.New("ledger"))
	assert.Equal(t, fault.ErrInvalidProviderURL, err, "no http url")

	_, err = ledger.New(&ledger.Configuration{
		PrivateKey:      key,
		ProviderHTTPURL: "http://127.0.0.1:1",
	}, nil)
	assert.Equal(t, fault.ErrInvalidLoggerChannel, err, "no logger")
}

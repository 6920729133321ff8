// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

//go:generate mockgen -source=client.go -destination=mocks/client.go -package=mocks

// Client - operations on the mining contract
type Client interface {
	// 0x prefixed 32 byte hex
	MiningTarget(ctx context.Context) (string, error)

	// 0x prefixed 32 byte hex
	ChallengeNumber(ctx context.Context) (string, error)

	// mint for the miner and wait for the receipt
	SubmitSolution(ctx context.Context, miner common.Address, nonce *big.Int) (*Confirmation, error)
}

// Confirmation - a mined submission
type Confirmation struct {
	TransactionHash string
	BlockNumber     uint64
}

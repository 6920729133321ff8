// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package solution - decode a miner's submit_solution payload
//
// layout after the 0x prefix (hex characters):
//
//   [  0 ..  64)  challenge number
//   [ 64 .. 104)  miner address
//   [104 .. 168)  nonce
package solution

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bitmark-inc/spritepoold/fault"
)

// field sizes in hex characters
const (
	challengeLength = 64
	addressLength   = 40
	nonceLength     = 64

	challengeOffset = 0
	addressOffset   = challengeOffset + challengeLength
	nonceOffset     = addressOffset + addressLength

	// EncodedLength - total length including the 0x prefix
	EncodedLength = 2 + nonceOffset + nonceLength
)

// Solution - a miner's claimed answer
type Solution struct {
	ChallengeNumber string         // 0x prefixed lower case hex
	MinerAddress    common.Address // reward recipient
	Nonce           *big.Int
}

// Parse - decode the fixed width hex string
func Parse(s string) (*Solution, error) {
	if EncodedLength != len(s) {
		return nil, fault.ErrInvalidSolutionLength
	}
	if "0x" != s[:2] && "0X" != s[:2] {
		return nil, fault.ErrInvalidSolutionPrefix
	}

	b, err := hex.DecodeString(s[2:])
	if nil != err {
		return nil, fault.ErrInvalidSolutionHex
	}

	challenge := b[challengeOffset/2 : addressOffset/2]
	address := b[addressOffset/2 : nonceOffset/2]
	nonce := b[nonceOffset/2:]

	return &Solution{
		ChallengeNumber: "0x" + hex.EncodeToString(challenge),
		MinerAddress:    common.BytesToAddress(address),
		Nonce:           new(big.Int).SetBytes(nonce),
	}, nil
}

// String - for logging; the address is in checksum form
func (s *Solution) String() string {
	return fmt.Sprintf("challenge: %s  miner: %s  nonce: 0x%x", s.ChallengeNumber, s.MinerAddress.Hex(), s.Nonce)
}

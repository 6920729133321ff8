// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestContractSelectors(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(contractABI))
	assert.Nil(t, err, "parse abi")

	data, err := parsed.Pack(miningTargetMethod)
	assert.Nil(t, err, "pack")
	assert.Equal(t, "8a769d35", hex.EncodeToString(data), "miningTarget")

	data, err = parsed.Pack(challengeNumberMethod)
	assert.Nil(t, err, "pack")
	assert.Equal(t, "8ae0368b", hex.EncodeToString(data), "challengeNumber")

	miner := common.HexToAddress("0x" + strings.Repeat("bb", 20))
	data, err = parsed.Pack(mintMethod, miner, []*big.Int{big.NewInt(0x1234)})
	assert.Nil(t, err, "pack")

	expected := "c73c58bc" +
		strings.Repeat("0", 24) + strings.Repeat("bb", 20) +
		strings.Repeat("0", 62) + "40" +
		strings.Repeat("0", 63) + "1" +
		strings.Repeat("0", 60) + "1234"
	assert.Equal(t, expected, hex.EncodeToString(data), "multiMint_SameAddress")
}

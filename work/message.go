// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package work

import (
	"encoding/json"
)

// method name of the work notification
const SetWorkMethod = "set_work"

// Message - an encoded set_work notification
//
// Data is newline terminated and ready to write to a connection
type Message struct {
	Generation uint64
	Data       []byte
}

// field order is the order miners expect to see
type setWork struct {
	Method          string `json:"method"`
	PoolAddress     string `json:"pool_address"`
	MiningTarget    string `json:"mining_target"`
	ChallengeNumber string `json:"challenge_number"`
	Sprite          string `json:"sprite"`
}

// encode a set_work line
func encode(poolAddress string, parameters Parameters, sprite string) ([]byte, error) {
	m := setWork{
		Method:          SetWorkMethod,
		PoolAddress:     poolAddress,
		MiningTarget:    parameters.MiningTarget,
		ChallengeNumber: parameters.ChallengeNumber,
		Sprite:          "0x" + sprite,
	}
	data, err := json.Marshal(m)
	if nil != err {
		return nil, err
	}
	return append(data, '\n'), nil
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package client

// request methods understood by the pool
const (
	SubmitSolutionMethod = "submit_solution"
	PingMethod           = "ping"
)

// Request - one decoded line from a miner
type Request struct {
	From     string `json:"-"`
	Method   string `json:"method"`
	Solution string `json:"solution"`
}

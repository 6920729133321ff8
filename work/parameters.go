// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package work

import (
	"fmt"
)

// Parameters - values read from the mining contract
//
// both are 0x prefixed hex strings as returned by the contract call
type Parameters struct {
	MiningTarget    string
	ChallengeNumber string
}

// IsComplete - true if both values are known
func (p Parameters) IsComplete() bool {
	return "" != p.MiningTarget && "" != p.ChallengeNumber
}

// String - for logging
func (p Parameters) String() string {
	return fmt.Sprintf("mt=%s cn=%s", p.MiningTarget, p.ChallengeNumber)
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - access to the mining contract
//
// The puzzle parameters are read with eth_call over the HTTP endpoint;
// solutions are submitted as signed transactions over the websocket
// endpoint and are complete once the receipt is mined.
package ledger

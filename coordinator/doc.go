// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package coordinator - connects miners to the mining contract
//
// Three background processes share one work state:
//
//   acceptor   - registers each new miner and sends it the current work
//   poller     - reads the puzzle parameters and broadcasts any change
//   dispatcher - consumes miner requests and starts a submission for
//                each solution
//
// A submission runs in its own goroutine; when the ledger confirms it
// the sprite it was mined for is marked done and the next sprite is
// broadcast.
package coordinator

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package work - the current work assignment
//
// The assignment sent to every miner is derived from three inputs:
// the two mining parameters read from the contract and the sprite
// currently being mined.  Whenever an input changes the set_work
// message is rebuilt while still holding the lock so a reader never
// sees a message that disagrees with the inputs.
//
// Each rebuild increments a generation number carried in the
// message; connections use it to discard sends that are older than
// what they have already written.
package work

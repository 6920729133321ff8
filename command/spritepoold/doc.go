// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// spritepoold - solo mining pool
//
// Hands the current sprite and mining parameters to every connected
// miner and submits their solutions to the mining contract.
//
//   spritepoold --config-file=spritepoold.conf            run the pool
//   spritepoold --config-file=spritepoold.conf remaining  count sprites left
//   spritepoold help                                      list commands
package main

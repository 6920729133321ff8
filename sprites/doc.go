// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package sprites - the units of work handed to miners
//
// The list of sprites is a flat text file; every run of 64 hex
// characters is one sprite and the file order is the mining order.
// Completed sprites are recorded in a LevelDB database:
//
//   D ++ sprite (32 bytes)  - completed sprite
//                             data: completion time (big endian uint64 unix seconds)
//
// A flat completion file is also supported: it is imported into the
// database on open and each completion is appended to it.
package sprites

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package client - miner connections
//
// Each accepted connection gets a Handler that reads newline
// terminated JSON requests and forwards them to a queue shared by
// all connections.  The Registry tracks the live handlers keyed by
// the remote address so work can be broadcast to all of them.
package client

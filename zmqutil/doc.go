// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package zmqutil - ZeroMQ helpers
//
// CurveZMQ key files are text files holding a tag and 32 hex encoded
// bytes, e.g.
//
//   PUBLIC:0123…ef
//   PRIVATE:0123…ef
package zmqutil

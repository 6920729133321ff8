// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sprites

//go:generate mockgen -source=provider.go -destination=mocks/provider.go -package=mocks

// Provider - source of sprites and record of completion
type Provider interface {
	// first sprite not yet done, "" if none remain
	Current() (string, error)

	// record completion; repeating for the same sprite is harmless
	MarkDone(sprite string) error

	// number of sprites not yet done
	Remaining() (int, error)
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"testing"

	"github.com/bitmark-inc/spritepoold/fault"
)

// check that each error class is only recognised by its own predicate
func TestClasses(t *testing.T) {
	errorList := []struct {
		err      error
		exists   bool
		invalid  bool
		length   bool
		notFound bool
		process  bool
	}{
		{fault.ErrAlreadyInitialised, true, false, false, false, false},
		{fault.ErrInvalidSolutionHex, false, true, false, false, false},
		{fault.ErrInvalidPrivateKey, false, true, false, false, false},
		{fault.ErrInvalidSolutionLength, false, false, true, false, false},
		{fault.ErrInvalidCallResult, false, false, true, false, false},
		{fault.ErrKeyFileAlreadyExists, true, false, false, false, false},
		{fault.ErrSpritesFileNotFound, false, false, false, true, false},
		{fault.ErrTransactionFailed, false, false, false, false, true},
		{fault.GenericError("generic"), false, false, false, false, false},
	}

	for i, e := range errorList {
		err := e.err
		if fault.IsErrExists(err) != e.exists {
			t.Errorf("%d: expected 'exists' == %v for err = %v", i, e.exists, err)
		}
		if fault.IsErrInvalid(err) != e.invalid {
			t.Errorf("%d: expected 'invalid' == %v for err = %v", i, e.invalid, err)
		}
		if fault.IsErrLength(err) != e.length {
			t.Errorf("%d: expected 'length' == %v for err = %v", i, e.length, err)
		}
		if fault.IsErrNotFound(err) != e.notFound {
			t.Errorf("%d: expected 'not found' == %v for err = %v", i, e.notFound, err)
		}
		if fault.IsErrProcess(err) != e.process {
			t.Errorf("%d: expected 'process' == %v for err = %v", i, e.process, err)
		}
	}
}

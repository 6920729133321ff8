// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"os"
	"path/filepath"
)

// Resolve - anchor relative paths at the data directory
//
// every path in required is resolved; an empty path in optional
// disables that feature and stays empty
func Resolve(directory string, required []*string, optional []*string) {
	for _, p := range required {
		*p = absolute(directory, *p)
	}
	for _, p := range optional {
		if "" != *p {
			*p = absolute(directory, *p)
		}
	}
}

func absolute(directory string, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(directory, name)
}

// Exists - true if a file or directory is present at name
func Exists(name string) bool {
	_, err := os.Stat(name)
	return nil == err
}

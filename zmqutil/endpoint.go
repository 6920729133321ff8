// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"net"
	"strconv"
	"strings"

	"github.com/bitmark-inc/spritepoold/fault"
)

// CanonicalEndpoint - convert IP:Port to a tcp:// endpoint
//
// examples:
//   127.0.0.1:1234   -> tcp://127.0.0.1:1234
//   [::1]:1234       -> tcp://[::1]:1234  (v6 is true)
//   *:1234           -> tcp://*:1234
//   inproc://name    -> unchanged
func CanonicalEndpoint(address string) (endpoint string, v6 bool, err error) {
	if strings.Contains(address, "://") {
		return address, false, nil
	}

	host, port, err := net.SplitHostPort(address)
	if nil != err {
		return "", false, fault.ErrInvalidListenAddress
	}

	numericPort, err := strconv.Atoi(strings.TrimSpace(port))
	if nil != err || numericPort < 1 || numericPort > 65535 {
		return "", false, fault.ErrInvalidPort
	}
	p := strconv.Itoa(numericPort)

	host = strings.TrimSpace(host)
	if "*" == host {
		return "tcp://*:" + p, false, nil
	}

	IP := net.ParseIP(host)
	if nil == IP {
		return "", false, fault.ErrInvalidListenAddress
	}
	if nil != IP.To4() {
		return "tcp://" + IP.String() + ":" + p, false, nil
	}
	return "tcp://[" + IP.String() + "]:" + p, true, nil
}

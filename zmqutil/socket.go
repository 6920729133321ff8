// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	zmq "github.com/pebbe/zmq4"
)

// NewServerSocket - create a socket for the bind side of a connection
//
// with both keys set the socket is a CurveZMQ server that accepts any
// client key; StartAuthentication must have been called first
func NewServerSocket(socketType zmq.Type, zapDomain string, privateKey []byte, publicKey []byte) (*zmq.Socket, error) {

	socket, err := zmq.NewSocket(socketType)
	if nil != err {
		return nil, err
	}

	if 0 == len(privateKey) || 0 == len(publicKey) {
		return socket, nil
	}

	zmq.AuthCurveAdd(zapDomain, zmq.CURVE_ALLOW_ANY)

	err = socket.SetCurveServer(1)
	if nil != err {
		socket.Close()
		return nil, err
	}
	err = socket.SetCurveSecretkey(string(privateKey))
	if nil != err {
		socket.Close()
		return nil, err
	}
	err = socket.SetZapDomain(zapDomain)
	if nil != err {
		socket.Close()
		return nil, err
	}

	// just use public key for identity
	err = socket.SetIdentity(string(publicKey))
	if nil != err {
		socket.Close()
		return nil, err
	}

	return socket, nil
}

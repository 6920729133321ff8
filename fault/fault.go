// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised      = ExistsError("already initialised")
	ErrInvalidCallResult       = LengthError("invalid contract call result length")
	ErrInvalidContractAddress  = InvalidError("invalid contract address")
	ErrInvalidCount            = InvalidError("invalid count")
	ErrInvalidDuration         = InvalidError("invalid duration")
	ErrInvalidListenAddress    = InvalidError("invalid listen address")
	ErrInvalidLoggerChannel    = InvalidError("invalid logger channel")
	ErrInvalidPort             = InvalidError("invalid port")
	ErrInvalidPrivateKey       = InvalidError("invalid private key")
	ErrInvalidPrivateKeyFile   = InvalidError("invalid private key file")
	ErrInvalidProviderURL      = InvalidError("invalid provider url")
	ErrInvalidPublicKeyFile    = InvalidError("invalid public key file")
	ErrInvalidSolutionHex      = InvalidError("invalid solution hex")
	ErrInvalidSolutionLength   = LengthError("invalid solution length")
	ErrInvalidSolutionPrefix   = InvalidError("solution is missing 0x prefix")
	ErrInvalidSprite           = InvalidError("invalid sprite")
	ErrInvalidStructPointer    = InvalidError("invalid struct pointer")
	ErrKeyFileAlreadyExists    = ExistsError("key file already exists")
	ErrSpritesFileNotFound     = NotFoundError("sprites file not found")
	ErrTransactionFailed       = ProcessError("transaction failed")
	ErrTransactionNotConfirmed = ProcessError("transaction not confirmed")
	ErrUnexpectedChainID       = ProcessError("providers report different chain ids")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool   { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }

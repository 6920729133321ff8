// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"regexp"
	"strings"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/spritepoold/fault"
)

const (
	miningTargetMethod    = "miningTarget"
	challengeNumberMethod = "challengeNumber"
	mintMethod            = "multiMint_SameAddress"

	callResultLength = 32
)

// only the parts of the contract that the pool uses
const contractABI = `[
  {"type":"function","name":"miningTarget","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"challengeNumber","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bytes32"}]},
  {"type":"function","name":"multiMint_SameAddress","stateMutability":"nonpayable","inputs":[{"name":"mintToAddress","type":"address"},{"name":"nonces","type":"uint256[]"}],"outputs":[]}
]`

var privateKeyPattern = regexp.MustCompile("^0x[0-9a-f]{64}$")

// Configuration - connection details
type Configuration struct {
	PrivateKey           *ecdsa.PrivateKey
	ContractAddress      common.Address
	ProviderHTTPURL      string
	ProviderWebsocketURL string
}

// Ethereum - go-ethereum implementation of Client
type Ethereum struct {
	sync.Mutex

	log          *logger.L
	contract     common.Address
	websocketURL string
	key          *ecdsa.PrivateKey
	poolAddress  common.Address
	abi          abi.ABI
	reader       *ethclient.Client
	chainID      *big.Int
}

// LoadPrivateKey - decode a 0x prefixed lower case hex key
func LoadPrivateKey(s string) (*ecdsa.PrivateKey, error) {
	if !privateKeyPattern.MatchString(s) {
		return nil, fault.ErrInvalidPrivateKey
	}
	key, err := crypto.HexToECDSA(s[2:])
	if nil != err {
		return nil, fault.ErrInvalidPrivateKey
	}
	return key, nil
}

// PoolAddress - address owning a private key
func PoolAddress(key *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(key.PublicKey)
}

// New - create a client; no connection is made until first use
func New(configuration *Configuration, log *logger.L) (*Ethereum, error) {
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}
	if nil == configuration.PrivateKey {
		return nil, fault.ErrInvalidPrivateKey
	}
	if "" == configuration.ProviderHTTPURL || "" == configuration.ProviderWebsocketURL {
		return nil, fault.ErrInvalidProviderURL
	}

	parsed, err := abi.JSON(strings.NewReader(contractABI))
	if nil != err {
		return nil, err
	}

	reader, err := ethclient.Dial(configuration.ProviderHTTPURL)
	if nil != err {
		log.Errorf("http provider: %q  error: %s", configuration.ProviderHTTPURL, err)
		return nil, fault.ErrInvalidProviderURL
	}

	e := &Ethereum{
		log:          log,
		contract:     configuration.ContractAddress,
		websocketURL: configuration.ProviderWebsocketURL,
		key:          configuration.PrivateKey,
		poolAddress:  PoolAddress(configuration.PrivateKey),
		abi:          parsed,
		reader:       reader,
	}
	log.Infof("contract: %s  pool address: %s", e.contract.Hex(), e.poolAddress.Hex())
	return e, nil
}

// Close - release the read connection
func (e *Ethereum) Close() {
	e.reader.Close()
}

// PoolAddress - address that signs submissions
func (e *Ethereum) PoolAddress() common.Address {
	return e.poolAddress
}

// Check - both endpoints answer and agree on the chain
func (e *Ethereum) Check(ctx context.Context) error {
	httpID, err := e.reader.ChainID(ctx)
	if nil != err {
		e.log.Errorf("http provider chain id error: %s", err)
		return err
	}

	ws, err := ethclient.DialContext(ctx, e.websocketURL)
	if nil != err {
		e.log.Errorf("websocket provider dial error: %s", err)
		return err
	}
	defer ws.Close()

	wsID, err := ws.ChainID(ctx)
	if nil != err {
		e.log.Errorf("websocket provider chain id error: %s", err)
		return err
	}

	if 0 != httpID.Cmp(wsID) {
		e.log.Errorf("chain id mismatch: http: %s  websocket: %s", httpID, wsID)
		return fault.ErrUnexpectedChainID
	}

	e.Lock()
	e.chainID = httpID
	e.Unlock()

	e.log.Infof("chain id: %s", httpID)
	return nil
}

// MiningTarget - current difficulty target
func (e *Ethereum) MiningTarget(ctx context.Context) (string, error) {
	return e.call(ctx, miningTargetMethod)
}

// ChallengeNumber - current challenge
func (e *Ethereum) ChallengeNumber(ctx context.Context) (string, error) {
	return e.call(ctx, challengeNumberMethod)
}

func (e *Ethereum) call(ctx context.Context, method string) (string, error) {
	data, err := e.abi.Pack(method)
	if nil != err {
		return "", err
	}

	result, err := e.reader.CallContract(ctx, ethereum.CallMsg{
		To:   &e.contract,
		Data: data,
	}, nil)
	if nil != err {
		e.log.Warnf("call: %s  error: %s", method, err)
		return "", err
	}
	if callResultLength != len(result) {
		e.log.Warnf("call: %s  result length: %d", method, len(result))
		return "", fault.ErrInvalidCallResult
	}
	return hexutil.Encode(result), nil
}

// SubmitSolution - send a mint transaction and wait for it to be mined
//
// a fresh websocket connection is used for each submission
func (e *Ethereum) SubmitSolution(ctx context.Context, miner common.Address, nonce *big.Int) (*Confirmation, error) {
	client, err := ethclient.DialContext(ctx, e.websocketURL)
	if nil != err {
		return nil, err
	}
	defer client.Close()

	chainID, err := e.getChainID(ctx, client)
	if nil != err {
		return nil, err
	}

	opts, err := bind.NewKeyedTransactorWithChainID(e.key, chainID)
	if nil != err {
		return nil, err
	}
	opts.Context = ctx

	contract := bind.NewBoundContract(e.contract, e.abi, client, client, client)
	tx, err := contract.Transact(opts, mintMethod, miner, []*big.Int{nonce})
	if nil != err {
		return nil, err
	}
	e.log.Infof("miner: %s  transaction: %s  sent", miner.Hex(), tx.Hash().Hex())

	receipt, err := bind.WaitMined(ctx, client, tx)
	if nil != err {
		e.log.Warnf("transaction: %s  wait error: %s", tx.Hash().Hex(), err)
		return nil, fault.ErrTransactionNotConfirmed
	}
	if types.ReceiptStatusSuccessful != receipt.Status {
		e.log.Warnf("transaction: %s  failed in block: %s", tx.Hash().Hex(), receipt.BlockNumber)
		return nil, fault.ErrTransactionFailed
	}

	c := &Confirmation{
		TransactionHash: tx.Hash().Hex(),
		BlockNumber:     receipt.BlockNumber.Uint64(),
	}
	e.log.Infof("transaction: %s  mined in block: %d", c.TransactionHash, c.BlockNumber)
	return c, nil
}

// chain id from Check, otherwise ask the connected node
func (e *Ethereum) getChainID(ctx context.Context, client *ethclient.Client) (*big.Int, error) {
	e.Lock()
	chainID := e.chainID
	e.Unlock()

	if nil != chainID {
		return chainID, nil
	}
	return client.ChainID(ctx)
}

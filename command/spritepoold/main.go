// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/spritepoold/background"
	"github.com/bitmark-inc/spritepoold/coordinator"
	"github.com/bitmark-inc/spritepoold/ledger"
	"github.com/bitmark-inc/spritepoold/publish"
	"github.com/bitmark-inc/spritepoold/sprites"
	"github.com/bitmark-inc/spritepoold/work"
)

const (
	checkTimeout = 30 * time.Second
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// start the sprites store
	log.Info("initialise sprites")
	store, err := sprites.Open(&theConfiguration.Sprites, logger.New("sprites"))
	if nil != err {
		log.Criticalf("sprites initialise error: %s", err)
		exitwithstatus.Message("sprites initialise error: %s", err)
	}
	defer store.Close()

	// these commands are allowed to access the sprites database
	if len(arguments) > 0 && processDataCommand(log, arguments, store) {
		return
	}

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	remaining, err := store.Remaining()
	if nil != err {
		log.Criticalf("sprites error: %s", err)
		exitwithstatus.Message("sprites error: %s", err)
	}
	if 0 == remaining {
		log.Critical("no sprites remaining")
		exitwithstatus.Message("%s: no sprites remaining in: %q", program, theConfiguration.Sprites.SpritesFile)
	}
	log.Infof("sprites remaining: %d", remaining)

	sprite, err := store.Current()
	if nil != err {
		log.Criticalf("sprites error: %s", err)
		exitwithstatus.Message("sprites error: %s", err)
	}

	// ensure the signing key is present
	if "" == theConfiguration.PrivateKey {
		exitwithstatus.Message("%s: private_key must be specified", program)
	}
	privateKey, err := ledger.LoadPrivateKey(theConfiguration.PrivateKey)
	if nil != err {
		log.Criticalf("private key error: %s", err)
		exitwithstatus.Message("%s: private key error: %s", program, err)
	}

	// connect to the contract
	log.Info("initialise ledger")
	eth, err := ledger.New(&ledger.Configuration{
		PrivateKey:           privateKey,
		ContractAddress:      common.HexToAddress(theConfiguration.ContractAddress),
		ProviderHTTPURL:      theConfiguration.ProviderHTTPURL,
		ProviderWebsocketURL: theConfiguration.ProviderWebsocketURL,
	}, logger.New("ledger"))
	if nil != err {
		log.Criticalf("ledger initialise error: %s", err)
		exitwithstatus.Message("ledger initialise error: %s", err)
	}
	defer eth.Close()

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	err = eth.Check(ctx)
	cancel()
	if nil != err {
		log.Criticalf("ledger check error: %s", err)
		exitwithstatus.Message("ledger check error: %s", err)
	}

	poolAddress := eth.PoolAddress().Hex()
	log.Infof("pool address: %s", poolAddress)

	state := work.New(logger.New("work"), poolAddress)
	state.SetSprite(sprite)

	// optional mirror of the work messages
	var publisher coordinator.Publisher
	p, err := publish.New(&theConfiguration.Publish, state, logger.New("publisher"))
	if nil != err {
		log.Criticalf("publish initialise error: %s", err)
		exitwithstatus.Message("publish initialise error: %s", err)
	}
	if nil != p {
		publisher = p
		heartbeat := background.Start(background.Processes{p}, nil)
		defer heartbeat.Stop()
	}

	// start the pool
	log.Info("initialise coordinator")
	pool, err := coordinator.New(theConfiguration.coordinator(), state, eth, store, publisher)
	if nil != err {
		log.Criticalf("coordinator initialise error: %s", err)
		exitwithstatus.Message("coordinator initialise error: %s", err)
	}
	err = pool.Start()
	if nil != err {
		log.Criticalf("coordinator start error: %s", err)
		exitwithstatus.Message("coordinator start error: %s", err)
	}
	defer pool.Stop()

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/spritepoold/client"
	"github.com/bitmark-inc/spritepoold/configuration"
	"github.com/bitmark-inc/spritepoold/coordinator"
	"github.com/bitmark-inc/spritepoold/fault"
	"github.com/bitmark-inc/spritepoold/ledger"
	"github.com/bitmark-inc/spritepoold/publish"
	"github.com/bitmark-inc/spritepoold/sprites"
)

// basic defaults (files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultContractAddress = "0x366d17aDB24A7654DbE82e79F85F9Cb03c03cD0D"

	defaultListen             = "127.0.0.1"
	defaultPort               = 3333
	defaultMaximumConnections = 0 // unlimited

	defaultPollInterval   = 8   // seconds
	defaultReadTimeout    = 4   // seconds
	defaultSubmitTimeout  = 600 // seconds
	defaultSubmitAttempts = 3
	defaultRetryDelay     = 1 // seconds
	defaultErrorPause     = 1 // seconds

	defaultMessageRate  = 0 // per second, zero is unlimited
	defaultMessageBurst = 0
	defaultQueueSize    = 100
	defaultWriteTimeout = 10 // seconds

	defaultSpritesFile = "sprites.txt"
	defaultDoneFile    = "sprites_done.txt"
	defaultDatabase    = "sprites.leveldb"
	defaultCacheExpiry = 60 // seconds

	defaultHeartbeatInterval = 60 // seconds

	defaultLogDirectory = "log"
	defaultLogFile      = "spritepoold.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// Configuration - contents of the configuration file
type Configuration struct {
	DataDirectory string `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string `gluamapper:"pidfile" json:"pidfile"`

	PrivateKey           string `gluamapper:"private_key" json:"-"`
	ContractAddress      string `gluamapper:"contract_address" json:"contract_address"`
	ProviderHTTPURL      string `gluamapper:"provider_http_url" json:"provider_http_url"`
	ProviderWebsocketURL string `gluamapper:"provider_websocket_url" json:"provider_websocket_url"`

	Listen             string `gluamapper:"listen" json:"listen"`
	Port               int    `gluamapper:"port" json:"port"`
	MaximumConnections int    `gluamapper:"maximum_connections" json:"maximum_connections"`

	PollInterval   int `gluamapper:"poll_interval" json:"poll_interval"`
	ReadTimeout    int `gluamapper:"read_timeout" json:"read_timeout"`
	SubmitTimeout  int `gluamapper:"submit_timeout" json:"submit_timeout"`
	SubmitAttempts int `gluamapper:"submit_attempts" json:"submit_attempts"`
	RetryDelay     int `gluamapper:"retry_delay" json:"retry_delay"`
	ErrorPause     int `gluamapper:"error_pause" json:"error_pause"`

	MessageRate  float64 `gluamapper:"message_rate" json:"message_rate"`
	MessageBurst int     `gluamapper:"message_burst" json:"message_burst"`
	QueueSize    int     `gluamapper:"queue_size" json:"queue_size"`
	WriteTimeout int     `gluamapper:"write_timeout" json:"write_timeout"`

	Sprites sprites.Configuration `gluamapper:"sprites" json:"sprites"`
	Publish publish.Configuration `gluamapper:"publish" json:"publish"`
	Logging logger.Configuration  `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		ContractAddress: defaultContractAddress,

		Listen:             defaultListen,
		Port:               defaultPort,
		MaximumConnections: defaultMaximumConnections,

		PollInterval:   defaultPollInterval,
		ReadTimeout:    defaultReadTimeout,
		SubmitTimeout:  defaultSubmitTimeout,
		SubmitAttempts: defaultSubmitAttempts,
		RetryDelay:     defaultRetryDelay,
		ErrorPause:     defaultErrorPause,

		MessageRate:  defaultMessageRate,
		MessageBurst: defaultMessageBurst,
		QueueSize:    defaultQueueSize,
		WriteTimeout: defaultWriteTimeout,

		Sprites: sprites.Configuration{
			SpritesFile: defaultSpritesFile,
			DoneFile:    defaultDoneFile,
			Database:    defaultDatabase,
			CacheExpiry: defaultCacheExpiry,
		},

		Publish: publish.Configuration{
			HeartbeatInterval: defaultHeartbeatInterval,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	if err := options.validate(); nil != err {
		return nil, err
	}

	// relative paths are inside the data directory
	configuration.Resolve(options.DataDirectory,
		[]*string{
			&options.Sprites.SpritesFile,
			&options.Sprites.Database,
			&options.Logging.Directory,
		},
		[]*string{
			&options.PidFile,
			&options.Sprites.DoneFile,
			&options.Publish.PrivateKey,
			&options.Publish.PublicKey,
		},
	)

	// log file must be a plain name inside the log directory
	switch filepath.Dir(options.Logging.File) {
	case "", ".":
	default:
		return nil, fmt.Errorf("Files: %q is not plain name", options.Logging.File)
	}

	// create directories if they do not already exist
	if err := os.MkdirAll(options.Logging.Directory, 0700); nil != err {
		return nil, err
	}

	// done
	return options, nil
}

// check values that have no sensible fallback
func (c *Configuration) validate() error {
	if "" != c.PrivateKey {
		if _, err := ledger.LoadPrivateKey(c.PrivateKey); nil != err {
			return err
		}
	}
	if !common.IsHexAddress(c.ContractAddress) {
		return fault.ErrInvalidContractAddress
	}
	if "" == c.Listen {
		return fault.ErrInvalidListenAddress
	}
	if c.Port < 1 || c.Port > 65535 {
		return fault.ErrInvalidPort
	}
	if c.MaximumConnections < 0 || c.SubmitAttempts < 1 || c.QueueSize < 1 || c.MessageBurst < 0 || c.MessageRate < 0 {
		return fault.ErrInvalidCount
	}
	if c.PollInterval < 1 || c.ReadTimeout < 1 || c.SubmitTimeout < 1 ||
		c.RetryDelay < 0 || c.ErrorPause < 0 || c.WriteTimeout < 0 {
		return fault.ErrInvalidDuration
	}
	return nil
}

// settings for the coordinator
func (c *Configuration) coordinator() *coordinator.Configuration {
	return &coordinator.Configuration{
		Listen:             c.Listen,
		Port:               c.Port,
		MaximumConnections: c.MaximumConnections,
		QueueSize:          c.QueueSize,
		PollInterval:       seconds(c.PollInterval),
		ReadTimeout:        seconds(c.ReadTimeout),
		SubmitTimeout:      seconds(c.SubmitTimeout),
		SubmitAttempts:     c.SubmitAttempts,
		RetryDelay:         seconds(c.RetryDelay),
		ErrorPause:         seconds(c.ErrorPause),
		Limits: client.Limits{
			MessageRate:  c.MessageRate,
			MessageBurst: c.MessageBurst,
			WriteTimeout: seconds(c.WriteTimeout),
		},
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

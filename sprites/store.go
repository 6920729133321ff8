// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sprites

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	cache "github.com/patrickmn/go-cache"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/spritepoold/fault"
)

const (
	spriteLength    = 64
	donePrefix      = 'D'
	spritesCacheKey = "sprites"

	defaultCacheExpiry = 60 * time.Second
)

var spritePattern = regexp.MustCompile("[0-9a-f]{64}")

// Configuration - file locations, relative paths are resolved by the caller
type Configuration struct {
	SpritesFile string `gluamapper:"sprites_file" json:"sprites_file"`
	DoneFile    string `gluamapper:"done_file" json:"done_file"`
	Database    string `gluamapper:"database" json:"database"`
	CacheExpiry int    `gluamapper:"cache_expiry" json:"cache_expiry"` // seconds
}

// Store - file backed provider
type Store struct {
	sync.Mutex // serialise appends to the done file

	log         *logger.L
	spritesFile string
	doneFile    string
	db          *leveldb.DB
	cache       *cache.Cache
	watcher     *fsnotify.Watcher
	finished    chan struct{}
}

// Open - open the database and start watching the sprites file
func Open(configuration *Configuration, log *logger.L) (*Store, error) {
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	spritesFile, err := filepath.Abs(filepath.Clean(configuration.SpritesFile))
	if nil != err {
		return nil, err
	}
	if fileInfo, err := os.Stat(spritesFile); nil != err || fileInfo.IsDir() {
		log.Errorf("sprites file: %q not found", spritesFile)
		return nil, fault.ErrSpritesFileNotFound
	}

	expiry := defaultCacheExpiry
	if configuration.CacheExpiry > 0 {
		expiry = time.Duration(configuration.CacheExpiry) * time.Second
	}

	db, err := leveldb.OpenFile(configuration.Database, nil)
	if nil != err {
		log.Errorf("open database: %q  error: %s", configuration.Database, err)
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		db.Close()
		return nil, err
	}

	// watch the directory so replacing the file is also seen
	err = watcher.Add(filepath.Dir(spritesFile))
	if nil != err {
		watcher.Close()
		db.Close()
		return nil, err
	}

	s := &Store{
		log:         log,
		spritesFile: spritesFile,
		doneFile:    configuration.DoneFile,
		db:          db,
		cache:       cache.New(expiry, 2*expiry),
		watcher:     watcher,
		finished:    make(chan struct{}),
	}

	// Close waits on finished so the watcher must be running first
	go s.watch()

	if "" != s.doneFile {
		n, err := s.importDoneFile()
		if nil != err {
			log.Errorf("import: %q  error: %s", s.doneFile, err)
			s.Close()
			return nil, err
		}
		log.Infof("imported: %d completed sprites from: %q", n, s.doneFile)
	}

	log.Infof("sprites file: %q", spritesFile)
	return s, nil
}

// Close - stop watching and close the database
func (s *Store) Close() error {
	err := s.watcher.Close()
	<-s.finished
	if dbErr := s.db.Close(); nil == err {
		err = dbErr
	}
	return err
}

// Current - first sprite in file order that is not done
func (s *Store) Current() (string, error) {
	list, err := s.sprites()
	if nil != err {
		return "", err
	}
	for _, sprite := range list {
		done, err := s.isDone(sprite)
		if nil != err {
			return "", err
		}
		if !done {
			return sprite, nil
		}
	}
	return "", nil
}

// Remaining - count of sprites not yet done
func (s *Store) Remaining() (int, error) {
	list, err := s.sprites()
	if nil != err {
		return 0, err
	}
	n := 0
	for _, sprite := range list {
		done, err := s.isDone(sprite)
		if nil != err {
			return 0, err
		}
		if !done {
			n += 1
		}
	}
	return n, nil
}

// MarkDone - record a sprite as completed
func (s *Store) MarkDone(sprite string) error {
	sprite = strings.ToLower(sprite)
	k, err := key(sprite)
	if nil != err {
		return err
	}

	s.Lock()
	defer s.Unlock()

	done, err := s.db.Has(k, nil)
	if nil != err {
		return err
	}
	if done {
		s.log.Debugf("sprite: %s already done", sprite)
		return nil
	}

	timestamp := make([]byte, 8)
	binary.BigEndian.PutUint64(timestamp, uint64(time.Now().Unix()))
	err = s.db.Put(k, timestamp, nil)
	if nil != err {
		return err
	}

	if "" != s.doneFile {
		f, err := os.OpenFile(s.doneFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if nil != err {
			s.log.Errorf("open: %q  error: %s", s.doneFile, err)
			return err
		}
		defer f.Close()
		if _, err := fmt.Fprintf(f, "%s\n", sprite); nil != err {
			s.log.Errorf("append: %q  error: %s", s.doneFile, err)
			return err
		}
	}

	s.log.Infof("sprite: %s done", sprite)
	return nil
}

// parsed sprites file, cached until expiry or a file change
func (s *Store) sprites() ([]string, error) {
	if list, ok := s.cache.Get(spritesCacheKey); ok {
		return list.([]string), nil
	}

	list, err := readSprites(s.spritesFile)
	if nil != err {
		return nil, err
	}
	s.cache.Set(spritesCacheKey, list, cache.DefaultExpiration)
	s.log.Debugf("read: %d sprites from: %q", len(list), s.spritesFile)
	return list, nil
}

func (s *Store) isDone(sprite string) (bool, error) {
	k, err := key(sprite)
	if nil != err {
		return false, err
	}
	return s.db.Has(k, nil)
}

// load the flat completion file into the database
func (s *Store) importDoneFile() (int, error) {
	if _, err := os.Stat(s.doneFile); os.IsNotExist(err) {
		return 0, nil
	}
	list, err := readSprites(s.doneFile)
	if nil != err {
		return 0, err
	}

	timestamp := make([]byte, 8)
	binary.BigEndian.PutUint64(timestamp, uint64(time.Now().Unix()))

	batch := new(leveldb.Batch)
	for _, sprite := range list {
		k, _ := key(sprite)
		has, err := s.db.Has(k, nil)
		if nil != err {
			return 0, err
		}
		if !has {
			batch.Put(k, timestamp)
		}
	}
	return batch.Len(), s.db.Write(batch, nil)
}

// flush the cached list whenever the sprites file changes
func (s *Store) watch() {
	defer close(s.finished)

	name := filepath.Base(s.spritesFile)
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			s.log.Infof("file event: %v", event)
			s.cache.Delete(spritesCacheKey)

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Errorf("watcher error: %s", err)
		}
	}
}

// every 64 hex character run, in file order
func readSprites(fileName string) ([]string, error) {
	data, err := ioutil.ReadFile(fileName)
	if nil != err {
		return nil, err
	}
	return spritePattern.FindAllString(strings.ToLower(string(data)), -1), nil
}

func key(sprite string) ([]byte, error) {
	if spriteLength != len(sprite) {
		return nil, fault.ErrInvalidSprite
	}
	b, err := hex.DecodeString(sprite)
	if nil != err {
		return nil, fault.ErrInvalidSprite
	}
	return append([]byte{donePrefix}, b...), nil
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package client

import (
	"sync"

	"github.com/bitmark-inc/logger"
)

// Registry - the set of active handlers
type Registry struct {
	sync.Mutex
	log      *logger.L
	handlers map[string]*Handler
}

// NewRegistry - create an empty registry
func NewRegistry(log *logger.L) *Registry {
	return &Registry{
		log:      log,
		handlers: make(map[string]*Handler),
	}
}

// Add - store a handler, replacing any with the same id
func (r *Registry) Add(id string, handler *Handler) {
	r.Lock()
	defer r.Unlock()

	r.handlers[id] = handler
	r.log.Infof("handling %d clients", len(r.handlers))
}

// Remove - delete a handler; absent ids are ignored
func (r *Registry) Remove(id string) {
	r.Lock()
	defer r.Unlock()

	delete(r.handlers, id)
	r.log.Infof("handling %d clients", len(r.handlers))
}

// Snapshot - copy of the current handlers
//
// the caller may use the handlers after the lock is released
func (r *Registry) Snapshot() []*Handler {
	r.Lock()
	defer r.Unlock()

	handlers := make([]*Handler, 0, len(r.handlers))
	for _, h := range r.handlers {
		handlers = append(handlers, h)
	}
	return handlers
}

// Count - number of registered handlers
func (r *Registry) Count() int {
	r.Lock()
	defer r.Unlock()

	return len(r.handlers)
}

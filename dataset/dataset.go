/*
	Copyright 2023 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Package dataset provides mutable datasets for charts, and the change
// notification model views over them rely on.
//
// Every dataset is a Source: listeners may subscribe to be told of changes,
// and each change advances the Source's Version, so that derived values
// can be recomputed lazily by comparing versions.
package dataset

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrUnknownKey is returned when a row, column, or series key is not
	// present.  Callers may recover from it.
	ErrUnknownKey = errors.New("unknown key")
	// ErrIndexOutOfRange is returned when a row, column, series, or item
	// index is out of range.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrDuplicateKey is returned when a series key is already present in a
	// collection.
	ErrDuplicateKey = errors.New("duplicate key")
)

// ChangeEvent describes a change to a Source.
type ChangeEvent struct {
	// Source is the dataset that changed.
	Source any
	// Version is the Source's version after the change.
	Version uint64
}

// Listener is invoked with each ChangeEvent of the Sources it subscribes to.
type Listener func(ev ChangeEvent)

// Subscription identifies a subscribed Listener.
type Subscription struct {
	id uuid.UUID
}

// String returns the receiver's identifier.
func (s Subscription) String() string {
	return s.id.String()
}

// Source is implemented by types that announce their changes.
type Source interface {
	// Subscribe registers l to be invoked after each change.
	Subscribe(l Listener) Subscription
	// Unsubscribe deregisters a Listener, returning false if it was not
	// registered.
	Unsubscribe(s Subscription) bool
	// Version returns a counter advanced by every change.
	Version() uint64
}

// Notifier is a Source implementation meant to be embedded in datasets.  Its
// zero value is ready to use.  Listeners are invoked synchronously, in
// subscription order, without the Notifier's lock held, so they may
// themselves subscribe, unsubscribe, or notify.
type Notifier struct {
	mu        sync.Mutex
	version   uint64
	listeners map[uuid.UUID]Listener
	order     []uuid.UUID
}

var _ Source = &Notifier{}

// Subscribe registers l to be invoked after each change.
func (n *Notifier) Subscribe(l Listener) Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.listeners == nil {
		n.listeners = map[uuid.UUID]Listener{}
	}
	id := uuid.New()
	n.listeners[id] = l
	n.order = append(n.order, id)
	return Subscription{id: id}
}

// Unsubscribe deregisters the specified Listener.
func (n *Notifier) Unsubscribe(s Subscription) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.listeners[s.id]; !ok {
		return false
	}
	delete(n.listeners, s.id)
	for idx, id := range n.order {
		if id == s.id {
			n.order = append(n.order[:idx], n.order[idx+1:]...)
			break
		}
	}
	return true
}

// Version returns the number of changes announced so far.
func (n *Notifier) Version() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.version
}

// Notify advances the receiver's version and invokes every subscribed
// Listener with an event naming source.
func (n *Notifier) Notify(source any) {
	n.mu.Lock()
	n.version++
	ev := ChangeEvent{
		Source:  source,
		Version: n.version,
	}
	listeners := make([]Listener, 0, len(n.order))
	for _, id := range n.order {
		listeners = append(listeners, n.listeners[id])
	}
	n.mu.Unlock()
	for _, l := range listeners {
		l(ev)
	}
}

/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package collection

import (
	"dirpx.dev/dxview/dxcore/model/change"
)

// subscribers is an ordered registry of observers with dispatch-safe
// removal.
//
// The list is copy-on-write on removal, so a dispatch in progress keeps
// iterating its own snapshot. An observer removed during a dispatch is marked
// inactive and skipped; one added during a dispatch is not part of the
// snapshot and first sees the next dispatch.
type subscribers[O comparable] struct {
	list []*subscriber[O]
}

type subscriber[O comparable] struct {
	o      O
	active bool
}

func (s *subscribers[O]) add(o O) {
	var zero O
	if o == zero {
		return
	}
	for _, e := range s.list {
		if e.o == o {
			return
		}
	}
	s.list = append(s.list, &subscriber[O]{o: o, active: true})
}

func (s *subscribers[O]) remove(o O) {
	for i, e := range s.list {
		if e.o != o {
			continue
		}
		e.active = false
		next := make([]*subscriber[O], 0, len(s.list)-1)
		next = append(next, s.list[:i]...)
		s.list = append(next, s.list[i+1:]...)
		return
	}
}

func (s *subscribers[O]) each(fn func(O)) {
	for _, e := range s.list {
		if e.active {
			fn(e.o)
		}
	}
}

// Notifier dispatches changes to subscribed observers in subscription order.
//
// It is the building block for Collection implementations: keep a Notifier,
// forward Subscribe and Unsubscribe to it, and call Notify after every
// mutation. The zero value is ready to use.
type Notifier[T any] struct {
	subs subscribers[Observer[T]]
}

// Subscribe registers o. Nil and already registered observers are ignored.
func (n *Notifier[T]) Subscribe(o Observer[T]) {
	n.subs.add(o)
}

// Unsubscribe removes o.
func (n *Notifier[T]) Unsubscribe(o Observer[T]) {
	n.subs.remove(o)
}

// Notify delivers c to every observer.
func (n *Notifier[T]) Notify(c change.Change[T]) {
	n.subs.each(func(o Observer[T]) { o.CollectionChanged(c) })
}

// Observers returns the number of registered observers.
func (n *Notifier[T]) Observers() int {
	return len(n.subs.list)
}

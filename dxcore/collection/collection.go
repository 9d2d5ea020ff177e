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

// Package collection implements live views over ordered, change-notifying
// collections.
//
// Everything in this package speaks one capability, Collection: an ordered
// sequence that can be enumerated at any time and that tells its observers
// about every mutation with a change.Change. Sources (List, Adapter) and
// views (Filtered, Sorted, Set, Converter, Concatenated, Grouped,
// Extendable, Separator) all implement it, so views compose freely:
//
//	src := collection.NewList("b", "a", "c", "a")
//	unique, _ := collection.NewSet(src)
//	sorted, _ := collection.NewSorted[string](unique, strings.Compare)
//	// sorted: a b c
//
// # Guarantees
//
// Every view keeps its own buffer and updates it incrementally. After each
// notification it has processed, its content equals what it would compute
// from scratch over the current content of its source, and the changes it
// emits are exact: replaying them onto a copy of the view with Change.Apply
// reproduces the view at every step.
//
// Settable parameters (SetSource, SetFilter, SetKey, ...) re-publish the view
// as a Remove of the old content followed by an Add of the new content, then
// signal the parameter as a Property. Converter.SetConverter and
// Sorted.SetComparer are the exceptions and document their own events.
//
// # Notification order
//
// A collection updates its content before it notifies, so an observer that
// reads All or Len inside CollectionChanged sees the state the change
// describes. Observers are called in subscription order. An observer
// unsubscribed during a dispatch is not called for the rest of it; one
// subscribed during a dispatch first sees the next change.
//
// A source mutation reaches a chain of views depth first: the first view
// subscribed to the source handles it, publishes its own changes to its
// observers, and only then does the next subscriber of the source run.
// A view reads only its own sources, which are already up to date when it
// runs.
//
// # Writing a source
//
// Any type can act as a source by implementing Collection. Keep a Notifier,
// forward Subscribe and Unsubscribe to it and call Notify after each
// mutation:
//
//	type Inbox struct {
//	    msgs     []Message
//	    notifier collection.Notifier[Message]
//	}
//
//	func (b *Inbox) Deliver(m Message) {
//	    b.msgs = append(b.msgs, m)
//	    b.notifier.Notify(change.Added(len(b.msgs)-1, m))
//	}
//
// Foreign collections that report changes through a callback can be wrapped
// with NewAdapter or Bind instead.
//
// # Errors
//
// Constructors and setters return an *errors.InvalidSourceError for a nil
// source and an *errors.ValidationError for a nil function or a closed
// view. A notification that does not fit the receiving view's buffer is a
// broken source, not a recoverable condition: the view panics with an
// *errors.IndexOutOfRangeError before changing anything.
//
// # Concurrency and lifetime
//
// Collections are single-threaded. Observers run synchronously, before the
// mutating call returns, and MUST NOT mutate the collection that notified
// them. A view observes its source but does not own it; Close detaches the
// view from everything it subscribed to and is safe to call more than once.
package collection

import (
	"fmt"
	"iter"
	"reflect"

	"dirpx.dev/dxview/dxcore/errors"
	"dirpx.dev/dxview/dxcore/model/change"
)

// Collection is an ordered, observable sequence.
type Collection[T any] interface {
	// All enumerates the current content in order. The returned sequence
	// is restartable and reads the content at iteration time.
	All() iter.Seq[T]

	// Len returns the current number of elements.
	Len() int

	// Subscribe registers o to receive every subsequent change. Observers
	// are compared with ==, so o MUST be comparable; pointers are the norm.
	// Subscribing an observer twice has no effect.
	Subscribe(o Observer[T])

	// Unsubscribe removes o. It has no effect if o is not subscribed.
	Unsubscribe(o Observer[T])
}

// Observer receives change notifications from a Collection.
type Observer[T any] interface {
	CollectionChanged(c change.Change[T])
}

// observerFunc adapts a function to Observer. Its pointer identity is the
// subscription identity.
type observerFunc[T any] struct {
	fn func(change.Change[T])
}

func (o *observerFunc[T]) CollectionChanged(c change.Change[T]) {
	o.fn(c)
}

// Watch subscribes fn to c and returns a function that cancels the
// subscription.
func Watch[T any](c Collection[T], fn func(change.Change[T])) (cancel func()) {
	o := &observerFunc[T]{fn: fn}
	c.Subscribe(o)
	return func() { c.Unsubscribe(o) }
}

// Items returns the current content of c as a new slice.
func Items[T any](c Collection[T]) []T {
	out := make([]T, 0, c.Len())
	for v := range c.All() {
		out = append(out, v)
	}
	return out
}

// values enumerates *p at iteration time.
func values[T any](p *[]T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range *p {
			if !yield(v) {
				return
			}
		}
	}
}

func capability[T any]() string {
	return "Collection[" + reflect.TypeFor[T]().String() + "]"
}

func nilSource[T any]() error {
	return &errors.InvalidSourceError{Want: capability[T](), Got: "nil"}
}

func closedError(kind string) error {
	return &errors.ValidationError{Type: kind, Reason: "view is closed"}
}

func nilFunc(kind, field string) error {
	return &errors.ValidationError{Type: kind, Field: field, Reason: "must not be nil"}
}

// mustFit panics with an *errors.IndexOutOfRangeError when an upstream
// notification does not fit the receiving buffer.
func mustFit(op string, index, count, length int) {
	if err := errors.CheckRange(op, index, count, length); err != nil {
		panic(err)
	}
}

// mustValid panics when an upstream notification is structurally invalid.
func mustValid[T any](op string, c change.Change[T]) {
	if err := c.Validate(); err != nil {
		panic(fmt.Errorf("%s: %w", op, err))
	}
}

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
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"dirpx.dev/dxview/dxcore/errors"
	"dirpx.dev/dxview/dxcore/model/change"
)

// Feed is a foreign ordered collection that can report its changes but does
// not implement Collection.
//
// Snapshot returns the current content. Observe registers fn for every
// subsequent change and returns a function that stops the registration.
// Changes follow the conventions of package change; Reset is allowed.
type Feed[T any] interface {
	Snapshot() []T
	Observe(fn func(change.Change[T])) (stop func())
}

// Adapter presents a Feed as a Collection.
//
// It mirrors the feed in its own buffer and republishes every change
// verbatim, except Reset, which it turns into a Remove of the old content
// followed by an Add of the new content.
type Adapter[T any] struct {
	feed     Feed[T]
	stop     func()
	items    []T
	notifier Notifier[T]
	tracker  *itemTracker[T]
	log      *slog.Logger
	closed   bool
}

// NewAdapter starts observing feed.
func NewAdapter[T any](feed Feed[T], opts ...Option) (*Adapter[T], error) {
	if feed == nil {
		return nil, &errors.InvalidSourceError{Want: "Feed", Got: "nil"}
	}
	a := &Adapter[T]{
		feed:  feed,
		items: slices.Clone(feed.Snapshot()),
		log:   newLogger("Adapter", opts),
	}
	a.stop = feed.Observe(a.handle)
	a.log.Debug("adapter bound", slog.Int("len", len(a.items)))
	return a, nil
}

// Bind returns src as a Collection.
//
// A value that already implements Collection[T] is returned unchanged, a
// Feed[T] is wrapped in an Adapter, and anything else yields an
// *errors.InvalidSourceError.
func Bind[T any](src any, opts ...Option) (Collection[T], error) {
	switch s := src.(type) {
	case nil:
		return nil, nilSource[T]()
	case Collection[T]:
		return s, nil
	case Feed[T]:
		return NewAdapter(s, opts...)
	default:
		return nil, &errors.InvalidSourceError{Want: capability[T](), Got: fmt.Sprintf("%T", src)}
	}
}

// All implements Collection.
func (a *Adapter[T]) All() iter.Seq[T] {
	return values(&a.items)
}

// Len implements Collection.
func (a *Adapter[T]) Len() int {
	return len(a.items)
}

// Subscribe implements Collection.
func (a *Adapter[T]) Subscribe(o Observer[T]) {
	a.notifier.Subscribe(o)
}

// Unsubscribe implements Collection.
func (a *Adapter[T]) Unsubscribe(o Observer[T]) {
	a.notifier.Unsubscribe(o)
}

// TrackItems republishes property changes of elements as single-element
// Replace changes, like List.TrackItems.
func (a *Adapter[T]) TrackItems(notifierOf func(T) PropertyNotifier) {
	if a.tracker != nil {
		a.tracker.close()
		a.tracker = nil
	}
	if notifierOf == nil || a.closed {
		return
	}
	a.tracker = newItemTracker(notifierOf, a.items, func(i int) {
		item := a.items[i]
		a.notifier.Notify(change.Replaced(i, []T{item}, []T{item}))
	})
}

// Close stops observing the feed and every tracked element.
func (a *Adapter[T]) Close() {
	if a.closed {
		return
	}
	a.closed = true
	if a.stop != nil {
		a.stop()
	}
	if a.tracker != nil {
		a.tracker.close()
		a.tracker = nil
	}
	a.log.Debug("adapter closed")
}

func (a *Adapter[T]) handle(c change.Change[T]) {
	if a.closed {
		return
	}

	if c.Action == change.ActionReset {
		// Each half is published after the buffer reflects it, as List.Reset
		// does.
		if old := a.items; len(old) > 0 {
			a.items = nil
			if a.tracker != nil {
				a.tracker.reset(nil)
			}
			a.notifier.Notify(change.Removed(0, old...))
		}
		if a.closed || len(c.NewItems) == 0 {
			return
		}
		a.items = slices.Clone(c.NewItems)
		if a.tracker != nil {
			a.tracker.insert(0, a.items)
		}
		a.notifier.Notify(change.Added(0, slices.Clone(a.items)...))
		return
	}

	if c.Len() == 0 {
		return
	}
	mustValid("Adapter", c)

	next, err := c.Apply(a.items)
	if err != nil {
		panic(err)
	}
	a.items = next

	if a.tracker != nil {
		switch c.Action {
		case change.ActionAdd:
			a.tracker.insert(c.NewIndex, c.NewItems)
		case change.ActionRemove:
			a.tracker.remove(c.OldIndex, len(c.OldItems))
		case change.ActionReplace:
			a.tracker.replace(c.OldIndex, c.NewItems)
		case change.ActionMove:
			a.tracker.move(c.OldIndex, len(c.OldItems), c.NewIndex)
		}
	}

	a.notifier.Notify(c)
}

var _ Collection[int] = (*Adapter[int])(nil)

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
	"iter"
	"log/slog"
	"slices"

	"dirpx.dev/dxview/dxcore/model/change"
)

// Converter maps every element of its source through a function:
// element i of the view is f(source[i]).
//
// The mapped buffer is kept, so f runs once per element per change: Add and
// Replace map the new elements, Remove reports the previously mapped
// elements, and Move relocates mapped elements without remapping.
//
// f SHOULD be pure. Elements are not re-mapped when they change in place;
// publish a Replace from the source, or call SetConverter, to refresh them.
type Converter[S, T any] struct {
	src      Collection[S]
	f        func(S) T
	link     *observerFunc[S]
	items    []T
	notifier Notifier[T]
	props    Properties
	log      *slog.Logger
	closed   bool
}

// NewConverter returns a view of src mapped through f.
func NewConverter[S, T any](src Collection[S], f func(S) T, opts ...Option) (*Converter[S, T], error) {
	if src == nil {
		return nil, nilSource[S]()
	}
	if f == nil {
		return nil, nilFunc("Converter", "Converter")
	}
	v := &Converter[S, T]{src: src, f: f, log: newLogger("Converter", opts)}
	v.link = &observerFunc[S]{fn: v.handle}
	v.src.Subscribe(v.link)
	v.items = v.mapAll()
	v.log.Debug("view bound", slog.Int("len", len(v.items)))
	return v, nil
}

// All implements Collection.
func (v *Converter[S, T]) All() iter.Seq[T] { return values(&v.items) }

// Len implements Collection.
func (v *Converter[S, T]) Len() int { return len(v.items) }

// Subscribe implements Collection.
func (v *Converter[S, T]) Subscribe(o Observer[T]) { v.notifier.Subscribe(o) }

// Unsubscribe implements Collection.
func (v *Converter[S, T]) Unsubscribe(o Observer[T]) { v.notifier.Unsubscribe(o) }

// SubscribeProperty implements PropertyNotifier.
func (v *Converter[S, T]) SubscribeProperty(o PropertyObserver) { v.props.SubscribeProperty(o) }

// UnsubscribeProperty implements PropertyNotifier.
func (v *Converter[S, T]) UnsubscribeProperty(o PropertyObserver) { v.props.UnsubscribeProperty(o) }

// Source returns the current source.
func (v *Converter[S, T]) Source() Collection[S] { return v.src }

// SetConverter remaps every element with f. The view publishes one Replace
// covering its whole content, then signals PropertyConverter.
func (v *Converter[S, T]) SetConverter(f func(S) T) error {
	if v.closed {
		return closedError("Converter")
	}
	if f == nil {
		return nilFunc("Converter", "Converter")
	}
	v.f = f
	old := v.items
	v.items = v.mapAll()
	if len(old) > 0 {
		v.notifier.Notify(change.Replaced(0, old, slices.Clone(v.items)))
	}
	v.log.Debug("view rebound", slog.String("param", string(PropertyConverter)))
	v.props.NotifyProperty(PropertyConverter)
	return nil
}

// SetSource rebinds the view to src.
func (v *Converter[S, T]) SetSource(src Collection[S]) error {
	if v.closed {
		return closedError("Converter")
	}
	if src == nil {
		return nilSource[S]()
	}
	v.reload(func() {
		v.src.Unsubscribe(v.link)
		v.src = src
		v.src.Subscribe(v.link)
	})
	v.log.Debug("view rebound", slog.String("param", string(PropertySource)))
	v.props.NotifyProperty(PropertySource)
	return nil
}

// Close detaches the view from its source.
func (v *Converter[S, T]) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.src.Unsubscribe(v.link)
	v.log.Debug("view closed")
}

func (v *Converter[S, T]) mapAll() []T {
	out := make([]T, 0, v.src.Len())
	for s := range v.src.All() {
		out = append(out, v.f(s))
	}
	return out
}

func (v *Converter[S, T]) mapSlice(items []S) []T {
	out := make([]T, len(items))
	for i, s := range items {
		out[i] = v.f(s)
	}
	return out
}

// reload publishes the old content as removed, runs rebind and publishes the
// recomputed content as added.
func (v *Converter[S, T]) reload(rebind func()) {
	old := v.items
	v.items = nil
	if len(old) > 0 {
		v.notifier.Notify(change.Removed(0, old...))
	}
	rebind()
	v.items = v.mapAll()
	if len(v.items) > 0 {
		v.notifier.Notify(change.Added(0, slices.Clone(v.items)...))
	}
}

func (v *Converter[S, T]) handle(c change.Change[S]) {
	if v.closed {
		return
	}
	switch c.Action {
	case change.ActionAdd:
		mustFit("Converter.add", c.NewIndex, 0, len(v.items))
		mapped := v.mapSlice(c.NewItems)
		if len(mapped) == 0 {
			return
		}
		v.items = slices.Insert(v.items, c.NewIndex, mapped...)
		v.notifier.Notify(change.Added(c.NewIndex, slices.Clone(mapped)...))

	case change.ActionRemove:
		n := len(c.OldItems)
		mustFit("Converter.remove", c.OldIndex, n, len(v.items))
		if n == 0 {
			return
		}
		old := slices.Clone(v.items[c.OldIndex : c.OldIndex+n])
		v.items = slices.Delete(v.items, c.OldIndex, c.OldIndex+n)
		v.notifier.Notify(change.Removed(c.OldIndex, old...))

	case change.ActionReplace:
		mustFit("Converter.replace", c.OldIndex, len(c.NewItems), len(v.items))
		if len(c.NewItems) == 0 {
			return
		}
		old := slices.Clone(v.items[c.OldIndex : c.OldIndex+len(c.NewItems)])
		mapped := v.mapSlice(c.NewItems)
		copy(v.items[c.OldIndex:], mapped)
		v.notifier.Notify(change.Replaced(c.OldIndex, old, mapped))

	case change.ActionMove:
		n := len(c.OldItems)
		mustFit("Converter.move", c.OldIndex, n, len(v.items))
		mustFit("Converter.move", c.NewIndex, n, len(v.items))
		if n == 0 || c.OldIndex == c.NewIndex {
			return
		}
		run := slices.Clone(v.items[c.OldIndex : c.OldIndex+n])
		v.items = slices.Delete(v.items, c.OldIndex, c.OldIndex+n)
		v.items = slices.Insert(v.items, c.NewIndex, run...)
		v.notifier.Notify(change.Moved(c.OldIndex, c.NewIndex, run...))

	case change.ActionReset:
		v.reload(func() {})
	}
}

var _ Collection[string] = (*Converter[int, string])(nil)

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

// Separator interleaves a separator value between consecutive elements of
// its source: [a, b, c] becomes [a, s, b, s, c].
//
// Source element k sits at view index 2k. Elements after the first travel
// together with the separator in front of them, so a change at source index
// k > 0 starts at view index 2k-1; changes at index 0 carry the separator
// behind the element instead.
//
// A source of n elements gives a view of 2n-1 elements, or none when the
// source is empty. Separators are never published alone: every Add, Remove
// and Move carries the separators travelling with its elements, and a
// Replace covers the replaced elements and the separators between them.
//
// Example:
//
//	src := collection.NewList("a", "b")
//	v, _ := collection.NewSeparator[string](src, "|")
//	// v: [a | b]
//	src.Insert(0, "x")  // add [x |] at 0     -> [x | a | b]
//	src.Append("c")     // add [| c] at 5     -> [x | a | b | c]
//	src.RemoveAt(0)     // remove [x |] at 0  -> [a | b | c]
type Separator[T any] struct {
	src      Collection[T]
	sep      T
	link     *observerFunc[T]
	mirror   []T
	items    []T
	notifier Notifier[T]
	props    Properties
	log      *slog.Logger
	closed   bool
}

// NewSeparator returns a view of src with sep between consecutive elements.
func NewSeparator[T any](src Collection[T], sep T, opts ...Option) (*Separator[T], error) {
	if src == nil {
		return nil, nilSource[T]()
	}
	v := &Separator[T]{src: src, sep: sep, log: newLogger("Separator", opts)}
	v.link = &observerFunc[T]{fn: v.handle}
	v.src.Subscribe(v.link)
	v.recompute()
	v.log.Debug("view bound", slog.Int("len", len(v.items)))
	return v, nil
}

// All implements Collection.
func (v *Separator[T]) All() iter.Seq[T] { return values(&v.items) }

// Len implements Collection.
func (v *Separator[T]) Len() int { return len(v.items) }

// Subscribe implements Collection.
func (v *Separator[T]) Subscribe(o Observer[T]) { v.notifier.Subscribe(o) }

// Unsubscribe implements Collection.
func (v *Separator[T]) Unsubscribe(o Observer[T]) { v.notifier.Unsubscribe(o) }

// SubscribeProperty implements PropertyNotifier.
func (v *Separator[T]) SubscribeProperty(o PropertyObserver) { v.props.SubscribeProperty(o) }

// UnsubscribeProperty implements PropertyNotifier.
func (v *Separator[T]) UnsubscribeProperty(o PropertyObserver) { v.props.UnsubscribeProperty(o) }

// Source returns the current source.
func (v *Separator[T]) Source() Collection[T] { return v.src }

// Separator returns the current separator value.
func (v *Separator[T]) Separator() T { return v.sep }

// SetSeparator changes the separator value.
func (v *Separator[T]) SetSeparator(sep T) error {
	if v.closed {
		return closedError("Separator")
	}
	v.reload(func() { v.sep = sep })
	v.log.Debug("view rebound", slog.String("param", string(PropertySeparator)))
	v.props.NotifyProperty(PropertySeparator)
	return nil
}

// SetSource rebinds the view to src.
func (v *Separator[T]) SetSource(src Collection[T]) error {
	if v.closed {
		return closedError("Separator")
	}
	if src == nil {
		return nilSource[T]()
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
func (v *Separator[T]) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.src.Unsubscribe(v.link)
	v.log.Debug("view closed")
}

// interleave returns items with the separator between them, plus one in
// front when lead is set and one behind when trail is set.
func (v *Separator[T]) interleave(items []T, lead, trail bool) []T {
	out := make([]T, 0, 2*len(items)+1)
	for i, item := range items {
		if i > 0 || lead {
			out = append(out, v.sep)
		}
		out = append(out, item)
	}
	if trail && len(items) > 0 {
		out = append(out, v.sep)
	}
	return out
}

func (v *Separator[T]) recompute() {
	v.mirror = Items(v.src)
	v.items = v.interleave(v.mirror, false, false)
}

func (v *Separator[T]) reload(rebind func()) {
	old := v.items
	v.items, v.mirror = nil, nil
	if len(old) > 0 {
		v.notifier.Notify(change.Removed(0, old...))
	}
	rebind()
	v.recompute()
	if len(v.items) > 0 {
		v.notifier.Notify(change.Added(0, slices.Clone(v.items)...))
	}
}

func (v *Separator[T]) handle(c change.Change[T]) {
	if v.closed {
		return
	}
	switch c.Action {
	case change.ActionAdd:
		mustFit("Separator.add", c.NewIndex, 0, len(v.mirror))
		v.add(c.NewIndex, c.NewItems)
	case change.ActionRemove:
		mustFit("Separator.remove", c.OldIndex, len(c.OldItems), len(v.mirror))
		v.remove(c.OldIndex, len(c.OldItems))
	case change.ActionReplace:
		mustFit("Separator.replace", c.OldIndex, len(c.NewItems), len(v.mirror))
		v.replace(c.OldIndex, c.NewItems)
	case change.ActionMove:
		n := len(c.OldItems)
		mustFit("Separator.move", c.OldIndex, n, len(v.mirror))
		mustFit("Separator.move", c.NewIndex, n, len(v.mirror))
		v.move(c.OldIndex, n, c.NewIndex)
	case change.ActionReset:
		v.reload(func() {})
	}
}

func (v *Separator[T]) add(k int, items []T) {
	if len(items) == 0 {
		return
	}
	var at int
	var tokens []T
	switch {
	case k > 0:
		at, tokens = 2*k-1, v.interleave(items, true, false)
	case len(v.mirror) > 0:
		at, tokens = 0, v.interleave(items, false, true)
	default:
		at, tokens = 0, v.interleave(items, false, false)
	}
	v.mirror = slices.Insert(v.mirror, k, items...)
	v.items = slices.Insert(v.items, at, tokens...)
	v.notifier.Notify(change.Added(at, tokens...))
}

func (v *Separator[T]) remove(k, n int) {
	if n == 0 {
		return
	}
	var at, size int
	switch {
	case k > 0:
		at, size = 2*k-1, 2*n
	case n < len(v.mirror):
		at, size = 0, 2*n
	default:
		at, size = 0, 2*n-1
	}
	old := slices.Clone(v.items[at : at+size])
	v.mirror = slices.Delete(v.mirror, k, k+n)
	v.items = slices.Delete(v.items, at, at+size)
	v.notifier.Notify(change.Removed(at, old...))
}

func (v *Separator[T]) replace(k int, items []T) {
	if len(items) == 0 {
		return
	}
	at := 2 * k
	size := 2*len(items) - 1
	old := slices.Clone(v.items[at : at+size])
	tokens := v.interleave(items, false, false)
	copy(v.mirror[k:], items)
	copy(v.items[at:], tokens)
	v.notifier.Notify(change.Replaced(at, old, tokens))
}

// move shifts a block of separator and element pairs when neither end
// touches index 0, where the separator would have to change sides.
func (v *Separator[T]) move(from, n, to int) {
	if n == 0 || from == to {
		return
	}
	if from > 0 && to > 0 {
		at, size := 2*from-1, 2*n
		run := slices.Clone(v.items[at : at+size])
		run2 := slices.Clone(v.mirror[from : from+n])
		v.mirror = slices.Insert(slices.Delete(v.mirror, from, from+n), to, run2...)
		v.items = slices.Delete(v.items, at, at+size)
		v.items = slices.Insert(v.items, 2*to-1, run...)
		v.notifier.Notify(change.Moved(at, 2*to-1, run...))
		return
	}
	run := slices.Clone(v.mirror[from : from+n])
	v.remove(from, n)
	v.add(to, run)
}

var _ Collection[int] = (*Separator[int])(nil)

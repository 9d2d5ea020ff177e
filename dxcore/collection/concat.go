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

// Concatenated shows several sources one after another.
//
// Each source occupies a contiguous block whose offset is the total length
// of the blocks before it. Every source slot has its own subscription, so
// the same collection may appear more than once.
//
// Changes of a source are republished with its block offset added to every
// index. A Reset of one source republishes that block only: a Remove of the
// old block and an Add of the new one. A nil entry in sources is rejected
// with an *errors.InvalidSourceError.
//
// Example:
//
//	a := collection.NewList(1, 2)
//	b := collection.NewList(9)
//	c, _ := collection.NewConcatenated([]collection.Collection[int]{a, b, a})
//	// c: [1 2 9 1 2]
//	a.Append(3)  // add [3] at 2, then add [3] at 6
type Concatenated[T any] struct {
	links    []*concatLink[T]
	items    []T
	notifier Notifier[T]
	props    Properties
	log      *slog.Logger
	closed   bool
}

type concatLink[T any] struct {
	v     *Concatenated[T]
	src   Collection[T]
	count int
}

func (l *concatLink[T]) CollectionChanged(c change.Change[T]) {
	l.v.handle(l, c)
}

// NewConcatenated returns the concatenation of sources.
func NewConcatenated[T any](sources []Collection[T], opts ...Option) (*Concatenated[T], error) {
	if slices.Contains(sources, nil) {
		return nil, nilSource[T]()
	}
	v := &Concatenated[T]{log: newLogger("Concatenated", opts)}
	v.bind(sources)
	v.log.Debug("view bound", slog.Int("sources", len(sources)), slog.Int("len", len(v.items)))
	return v, nil
}

// All implements Collection.
func (v *Concatenated[T]) All() iter.Seq[T] { return values(&v.items) }

// Len implements Collection.
func (v *Concatenated[T]) Len() int { return len(v.items) }

// Subscribe implements Collection.
func (v *Concatenated[T]) Subscribe(o Observer[T]) { v.notifier.Subscribe(o) }

// Unsubscribe implements Collection.
func (v *Concatenated[T]) Unsubscribe(o Observer[T]) { v.notifier.Unsubscribe(o) }

// SubscribeProperty implements PropertyNotifier.
func (v *Concatenated[T]) SubscribeProperty(o PropertyObserver) { v.props.SubscribeProperty(o) }

// UnsubscribeProperty implements PropertyNotifier.
func (v *Concatenated[T]) UnsubscribeProperty(o PropertyObserver) { v.props.UnsubscribeProperty(o) }

// Sources returns the current sources in order.
func (v *Concatenated[T]) Sources() []Collection[T] {
	out := make([]Collection[T], len(v.links))
	for i, l := range v.links {
		out[i] = l.src
	}
	return out
}

// SetSources replaces the list of sources.
func (v *Concatenated[T]) SetSources(sources []Collection[T]) error {
	if v.closed {
		return closedError("Concatenated")
	}
	if slices.Contains(sources, nil) {
		return nilSource[T]()
	}
	old := v.items
	v.unbind()
	if len(old) > 0 {
		v.notifier.Notify(change.Removed(0, old...))
	}
	v.bind(sources)
	if len(v.items) > 0 {
		v.notifier.Notify(change.Added(0, slices.Clone(v.items)...))
	}
	v.log.Debug("view rebound", slog.String("param", string(PropertySources)))
	v.props.NotifyProperty(PropertySources)
	return nil
}

// Close detaches the view from every source.
func (v *Concatenated[T]) Close() {
	if v.closed {
		return
	}
	v.closed = true
	for _, l := range v.links {
		l.src.Unsubscribe(l)
	}
	v.log.Debug("view closed")
}

func (v *Concatenated[T]) bind(sources []Collection[T]) {
	v.links = make([]*concatLink[T], len(sources))
	v.items = nil
	for i, src := range sources {
		l := &concatLink[T]{v: v, src: src}
		v.links[i] = l
		block := Items(src)
		l.count = len(block)
		v.items = append(v.items, block...)
		src.Subscribe(l)
	}
}

func (v *Concatenated[T]) unbind() {
	for _, l := range v.links {
		l.src.Unsubscribe(l)
	}
	v.links = nil
	v.items = nil
}

func (v *Concatenated[T]) offset(l *concatLink[T]) int {
	off := 0
	for _, x := range v.links {
		if x == l {
			return off
		}
		off += x.count
	}
	return -1
}

func (v *Concatenated[T]) handle(l *concatLink[T], c change.Change[T]) {
	if v.closed {
		return
	}
	off := v.offset(l)
	if off < 0 {
		return
	}

	switch c.Action {
	case change.ActionAdd:
		mustFit("Concatenated.add", c.NewIndex, 0, l.count)
		if len(c.NewItems) == 0 {
			return
		}
		at := off + c.NewIndex
		l.count += len(c.NewItems)
		v.items = slices.Insert(v.items, at, c.NewItems...)
		v.notifier.Notify(change.Added(at, slices.Clone(c.NewItems)...))

	case change.ActionRemove:
		n := len(c.OldItems)
		mustFit("Concatenated.remove", c.OldIndex, n, l.count)
		if n == 0 {
			return
		}
		at := off + c.OldIndex
		old := slices.Clone(v.items[at : at+n])
		l.count -= n
		v.items = slices.Delete(v.items, at, at+n)
		v.notifier.Notify(change.Removed(at, old...))

	case change.ActionReplace:
		n := len(c.NewItems)
		mustFit("Concatenated.replace", c.OldIndex, n, l.count)
		if n == 0 {
			return
		}
		at := off + c.OldIndex
		old := slices.Clone(v.items[at : at+n])
		copy(v.items[at:], c.NewItems)
		v.notifier.Notify(change.Replaced(at, old, slices.Clone(c.NewItems)))

	case change.ActionMove:
		n := len(c.OldItems)
		mustFit("Concatenated.move", c.OldIndex, n, l.count)
		mustFit("Concatenated.move", c.NewIndex, n, l.count)
		if n == 0 || c.OldIndex == c.NewIndex {
			return
		}
		from, to := off+c.OldIndex, off+c.NewIndex
		run := slices.Clone(v.items[from : from+n])
		v.items = slices.Delete(v.items, from, from+n)
		v.items = slices.Insert(v.items, to, run...)
		v.notifier.Notify(change.Moved(from, to, run...))

	case change.ActionReset:
		if l.count > 0 {
			old := slices.Clone(v.items[off : off+l.count])
			v.items = slices.Delete(v.items, off, off+l.count)
			l.count = 0
			v.notifier.Notify(change.Removed(off, old...))
		}
		block := Items(l.src)
		if len(block) > 0 {
			l.count = len(block)
			v.items = slices.Insert(v.items, off, block...)
			v.notifier.Notify(change.Added(off, slices.Clone(block)...))
		}
	}
}

var _ Collection[int] = (*Concatenated[int])(nil)

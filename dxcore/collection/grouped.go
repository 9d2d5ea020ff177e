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

	"dirpx.dev/dxview/dxcore/model/change"
)

// Group is one element of a Grouped view: a key and the live collection of
// source elements with that key.
//
// A Group signals PropertyCount whenever its items change. The view updates
// every group before it publishes its own change for the same source
// change, so an observer of the view that reads Items or Len sees the
// current content.
type Group[K comparable, T any] struct {
	key   K
	items *Filtered[T]
	link  *observerFunc[T]
	props Properties
}

// Key returns the group key.
func (g *Group[K, T]) Key() K { return g.key }

// Items returns the elements of the group in source order.
func (g *Group[K, T]) Items() Collection[T] { return g.items }

// Len returns the number of elements in the group.
func (g *Group[K, T]) Len() int { return g.items.Len() }

// SubscribeProperty implements PropertyNotifier.
func (g *Group[K, T]) SubscribeProperty(o PropertyObserver) { g.props.SubscribeProperty(o) }

// UnsubscribeProperty implements PropertyNotifier.
func (g *Group[K, T]) UnsubscribeProperty(o PropertyObserver) { g.props.UnsubscribeProperty(o) }

func (g *Group[K, T]) String() string {
	return fmt.Sprintf("%v(%d)", g.key, g.items.Len())
}

func (g *Group[K, T]) close() {
	g.items.Unsubscribe(g.link)
	g.items.Close()
}

// Grouped partitions its source by key. It holds one Group per distinct key,
// ordered by the first occurrence of the key in the source.
//
// A Group stays the same value for as long as its key is present, so the
// view never publishes Replace: a key appearing is an Add, a key
// disappearing is a Remove (the group is closed), and a change of which key
// occurs first is a Move.
type Grouped[T any, K comparable] struct {
	src      Collection[T]
	key      func(T) K
	link     *observerFunc[T]
	index    keyIndex[K]
	relay    groupSource[T, K]
	groups   map[K]*Group[K, T]
	items    []*Group[K, T]
	notifier Notifier[*Group[K, T]]
	props    Properties
	opts     []Option
	log      *slog.Logger
	closed   bool
}

// NewGrouped returns a view of src grouped by key.
func NewGrouped[T any, K comparable](src Collection[T], key func(T) K, opts ...Option) (*Grouped[T, K], error) {
	if src == nil {
		return nil, nilSource[T]()
	}
	if key == nil {
		return nil, nilFunc("Grouped", "Key")
	}
	v := &Grouped[T, K]{src: src, key: key, opts: opts, log: newLogger("Grouped", opts)}
	v.relay.v = v
	v.link = &observerFunc[T]{fn: v.handle}
	v.src.Subscribe(v.link)
	v.recompute()
	v.log.Debug("view bound", slog.Int("len", len(v.items)))
	return v, nil
}

// All implements Collection.
func (v *Grouped[T, K]) All() iter.Seq[*Group[K, T]] { return values(&v.items) }

// Len implements Collection.
func (v *Grouped[T, K]) Len() int { return len(v.items) }

// Subscribe implements Collection.
func (v *Grouped[T, K]) Subscribe(o Observer[*Group[K, T]]) { v.notifier.Subscribe(o) }

// Unsubscribe implements Collection.
func (v *Grouped[T, K]) Unsubscribe(o Observer[*Group[K, T]]) { v.notifier.Unsubscribe(o) }

// SubscribeProperty implements PropertyNotifier.
func (v *Grouped[T, K]) SubscribeProperty(o PropertyObserver) { v.props.SubscribeProperty(o) }

// UnsubscribeProperty implements PropertyNotifier.
func (v *Grouped[T, K]) UnsubscribeProperty(o PropertyObserver) { v.props.UnsubscribeProperty(o) }

// Source returns the current source.
func (v *Grouped[T, K]) Source() Collection[T] { return v.src }

// Group returns the group for k, or nil.
func (v *Grouped[T, K]) Group(k K) *Group[K, T] { return v.groups[k] }

// SetKey regroups the source with a new key function.
func (v *Grouped[T, K]) SetKey(key func(T) K) error {
	if v.closed {
		return closedError("Grouped")
	}
	if key == nil {
		return nilFunc("Grouped", "Key")
	}
	v.reload(func() { v.key = key })
	v.log.Debug("view rebound", slog.String("param", string(PropertyKey)))
	v.props.NotifyProperty(PropertyKey)
	return nil
}

// SetSource rebinds the view to src.
func (v *Grouped[T, K]) SetSource(src Collection[T]) error {
	if v.closed {
		return closedError("Grouped")
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

// Close detaches the view and closes every group.
func (v *Grouped[T, K]) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.src.Unsubscribe(v.link)
	for _, g := range v.items {
		g.close()
	}
	v.log.Debug("view closed")
}

func (v *Grouped[T, K]) newGroup(k K) *Group[K, T] {
	items, err := NewFiltered[T](&v.relay, func(item T) bool { return v.key(item) == k }, v.opts...)
	if err != nil {
		panic(err)
	}
	g := &Group[K, T]{key: k, items: items}
	g.link = &observerFunc[T]{fn: func(change.Change[T]) { g.props.NotifyProperty(PropertyCount) }}
	items.Subscribe(g.link)
	return g
}

func (v *Grouped[T, K]) recompute() {
	var keys []K
	v.groups = make(map[K]*Group[K, T])
	v.items = nil
	for item := range v.src.All() {
		k := v.key(item)
		keys = append(keys, k)
		if _, ok := v.groups[k]; ok {
			continue
		}
		g := v.newGroup(k)
		v.groups[k] = g
		v.items = append(v.items, g)
	}
	v.index.reset(keys)
}

func (v *Grouped[T, K]) reload(rebind func()) {
	old := v.items
	v.items, v.groups = nil, nil
	v.index.reset(nil)
	for _, g := range old {
		g.close()
	}
	if len(old) > 0 {
		v.notifier.Notify(change.Removed(0, old...))
	}
	rebind()
	v.recompute()
	if len(v.items) > 0 {
		v.notifier.Notify(change.Added(0, slices.Clone(v.items)...))
	}
}

// step applies one single-element mutation of the key mirror touching key k.
func (v *Grouped[T, K]) step(k K, mutate func()) {
	g, present := v.groups[k]
	vp := -1
	if present {
		vp = slices.Index(v.items, g)
	}

	mutate()

	first := v.index.first(k)
	switch {
	case !present && first < 0:
		return

	case !present:
		g = v.newGroup(k)
		v.groups[k] = g
		vp2 := v.index.rank(first)
		v.items = slices.Insert(v.items, vp2, g)
		v.notifier.Notify(change.Added(vp2, g))

	case first < 0:
		g.close()
		delete(v.groups, k)
		v.items = slices.Delete(v.items, vp, vp+1)
		v.notifier.Notify(change.Removed(vp, g))

	default:
		vp2 := v.index.rank(first)
		if vp2 == vp {
			return
		}
		v.items = slices.Delete(v.items, vp, vp+1)
		v.items = slices.Insert(v.items, vp2, g)
		v.notifier.Notify(change.Moved(vp, vp2, g))
	}
}

func (v *Grouped[T, K]) insertAt(j int, k K) {
	v.step(k, func() { v.index.insert(j, k) })
}

func (v *Grouped[T, K]) removeAt(j int) {
	v.step(v.index.at(j), func() { v.index.delete(j) })
}

func (v *Grouped[T, K]) moveOne(from, to int) {
	if from == to {
		return
	}
	v.step(v.index.at(from), func() { v.index.move(from, to) })
}

func (v *Grouped[T, K]) handle(c change.Change[T]) {
	if v.closed {
		return
	}
	switch c.Action {
	case change.ActionAdd:
		mustFit("Grouped.add", c.NewIndex, 0, v.index.len())
		v.relay.notifier.Notify(c)
		for i, item := range c.NewItems {
			v.insertAt(c.NewIndex+i, v.key(item))
		}

	case change.ActionRemove:
		n := len(c.OldItems)
		mustFit("Grouped.remove", c.OldIndex, n, v.index.len())
		v.relay.notifier.Notify(c)
		for range n {
			v.removeAt(c.OldIndex)
		}

	case change.ActionReplace:
		mustFit("Grouped.replace", c.OldIndex, len(c.NewItems), v.index.len())
		v.relay.notifier.Notify(c)
		for i, item := range c.NewItems {
			j := c.OldIndex + i
			k := v.key(item)
			if v.index.at(j) == k {
				continue
			}
			v.removeAt(j)
			v.insertAt(j, k)
		}

	case change.ActionMove:
		n := len(c.OldItems)
		mustFit("Grouped.move", c.OldIndex, n, v.index.len())
		mustFit("Grouped.move", c.NewIndex, n, v.index.len())
		v.relay.notifier.Notify(c)
		from, to := c.OldIndex, c.NewIndex
		switch {
		case to < from:
			for j := range n {
				v.moveOne(from+j, to+j)
			}
		case to > from:
			for range n {
				v.moveOne(from, to+n-1)
			}
		}

	case change.ActionReset:
		v.reload(func() {})
	}
}

// groupSource is the source as the groups of a Grouped view see it. The
// view forwards each source change to it before reacting itself.
type groupSource[T any, K comparable] struct {
	v        *Grouped[T, K]
	notifier Notifier[T]
}

func (s *groupSource[T, K]) All() iter.Seq[T]          { return s.v.src.All() }
func (s *groupSource[T, K]) Len() int                  { return s.v.src.Len() }
func (s *groupSource[T, K]) Subscribe(o Observer[T])   { s.notifier.Subscribe(o) }
func (s *groupSource[T, K]) Unsubscribe(o Observer[T]) { s.notifier.Unsubscribe(o) }

var _ Collection[*Group[string, int]] = (*Grouped[int, string])(nil)

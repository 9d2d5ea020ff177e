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

// Set shows the first occurrence of every key of its source, in source
// order.
//
// Every source change is processed as a sequence of single-element steps.
// A step touches exactly one key, and the view reacts to how that key's
// surviving element (its first occurrence) changed:
//
//   - the key appeared: Add of the survivor;
//   - the key disappeared: Remove of the former survivor;
//   - the key stayed: a Move when the survivor's view position changed,
//     then a Replace when a different element now survives (a duplicate
//     further down the source was promoted).
//
// Keys are compared with ==, so distinct keys never collide and a nil
// pointer is an ordinary key.
//
// Example:
//
//	src := collection.NewList("A", "B", "A", "C")
//	s, _ := collection.NewSet(src)
//	// s: [A B C]
//	src.RemoveAt(0)
//	// The second A now survives. It sits after B in the source, so the
//	// view publishes move [A] 0->1 and then replace [A] -> [A] at 1,
//	// leaving [B A C].
type Set[T any, K comparable] struct {
	src      Collection[T]
	key      func(T) K
	link     *observerFunc[T]
	mirror   []T
	index    keyIndex[K]
	items    []T
	notifier Notifier[T]
	props    Properties
	log      *slog.Logger
	closed   bool
}

// NewSet returns a view of the distinct elements of src.
func NewSet[T comparable](src Collection[T], opts ...Option) (*Set[T, T], error) {
	return NewSetFunc(src, func(v T) T { return v }, opts...)
}

// NewSetFunc returns a view of the elements of src with distinct key(element).
func NewSetFunc[T any, K comparable](src Collection[T], key func(T) K, opts ...Option) (*Set[T, K], error) {
	if src == nil {
		return nil, nilSource[T]()
	}
	if key == nil {
		return nil, nilFunc("Set", "Key")
	}
	v := &Set[T, K]{src: src, key: key, log: newLogger("Set", opts)}
	v.link = &observerFunc[T]{fn: v.handle}
	v.src.Subscribe(v.link)
	v.recompute()
	v.log.Debug("view bound", slog.Int("len", len(v.items)))
	return v, nil
}

// All implements Collection.
func (v *Set[T, K]) All() iter.Seq[T] { return values(&v.items) }

// Len implements Collection.
func (v *Set[T, K]) Len() int { return len(v.items) }

// Subscribe implements Collection.
func (v *Set[T, K]) Subscribe(o Observer[T]) { v.notifier.Subscribe(o) }

// Unsubscribe implements Collection.
func (v *Set[T, K]) Unsubscribe(o Observer[T]) { v.notifier.Unsubscribe(o) }

// SubscribeProperty implements PropertyNotifier.
func (v *Set[T, K]) SubscribeProperty(o PropertyObserver) { v.props.SubscribeProperty(o) }

// UnsubscribeProperty implements PropertyNotifier.
func (v *Set[T, K]) UnsubscribeProperty(o PropertyObserver) { v.props.UnsubscribeProperty(o) }

// Source returns the current source.
func (v *Set[T, K]) Source() Collection[T] { return v.src }

// Contains reports whether an element with key k is in the view.
func (v *Set[T, K]) Contains(k K) bool {
	return v.index.count(k) > 0
}

// SetKey recomputes the view with a new key function.
func (v *Set[T, K]) SetKey(key func(T) K) error {
	if v.closed {
		return closedError("Set")
	}
	if key == nil {
		return nilFunc("Set", "Key")
	}
	v.reload(func() { v.key = key })
	v.log.Debug("view rebound", slog.String("param", string(PropertyKey)))
	v.props.NotifyProperty(PropertyKey)
	return nil
}

// SetSource rebinds the view to src.
func (v *Set[T, K]) SetSource(src Collection[T]) error {
	if v.closed {
		return closedError("Set")
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
func (v *Set[T, K]) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.src.Unsubscribe(v.link)
	v.log.Debug("view closed")
}

func (v *Set[T, K]) recompute() {
	v.mirror = Items(v.src)
	keys := make([]K, len(v.mirror))
	v.items = nil
	seen := make(map[K]struct{}, len(v.mirror))
	for i, item := range v.mirror {
		k := v.key(item)
		keys[i] = k
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		v.items = append(v.items, item)
	}
	v.index.reset(keys)
}

func (v *Set[T, K]) reload(rebind func()) {
	old := v.items
	v.items, v.mirror = nil, nil
	v.index.reset(nil)
	if len(old) > 0 {
		v.notifier.Notify(change.Removed(0, old...))
	}
	rebind()
	v.recompute()
	if len(v.items) > 0 {
		v.notifier.Notify(change.Added(0, slices.Clone(v.items)...))
	}
}

// step applies one single-element mutation of the mirror that touches key k
// and publishes its effect. mutate performs the mutation and returns where
// the element that was at index i before the mutation is afterwards, or -1
// when it no longer exists.
func (v *Set[T, K]) step(k K, mutate func() (where func(i int) int)) {
	before := v.index.first(k)
	var vp int
	var survivor T
	if before >= 0 {
		vp = v.index.rank(before)
		survivor = v.mirror[before]
	}

	where := mutate()

	after := v.index.first(k)
	switch {
	case before < 0 && after < 0:
		return

	case before < 0:
		vp2 := v.index.rank(after)
		item := v.mirror[after]
		v.items = slices.Insert(v.items, vp2, item)
		v.notifier.Notify(change.Added(vp2, item))

	case after < 0:
		v.items = slices.Delete(v.items, vp, vp+1)
		v.notifier.Notify(change.Removed(vp, survivor))

	default:
		vp2 := v.index.rank(after)
		if vp2 != vp {
			v.items = slices.Delete(v.items, vp, vp+1)
			v.items = slices.Insert(v.items, vp2, survivor)
			v.notifier.Notify(change.Moved(vp, vp2, survivor))
		}
		if where(before) != after {
			item := v.mirror[after]
			v.items[vp2] = item
			v.notifier.Notify(change.Replaced(vp2, []T{survivor}, []T{item}))
		}
	}
}

func (v *Set[T, K]) insertAt(j int, item T) {
	k := v.key(item)
	v.step(k, func() func(int) int {
		v.mirror = slices.Insert(v.mirror, j, item)
		v.index.insert(j, k)
		return func(i int) int {
			if i < j {
				return i
			}
			return i + 1
		}
	})
}

func (v *Set[T, K]) removeAt(j int) {
	v.step(v.index.at(j), func() func(int) int {
		v.mirror = slices.Delete(v.mirror, j, j+1)
		v.index.delete(j)
		return func(i int) int {
			switch {
			case i < j:
				return i
			case i == j:
				return -1
			default:
				return i - 1
			}
		}
	})
}

// moveOne moves the element at from so that it ends up at to.
func (v *Set[T, K]) moveOne(from, to int) {
	if from == to {
		return
	}
	v.step(v.index.at(from), func() func(int) int {
		item := v.mirror[from]
		v.mirror = slices.Insert(slices.Delete(v.mirror, from, from+1), to, item)
		v.index.move(from, to)
		return func(i int) int {
			switch {
			case i == from:
				return to
			case from < i && i <= to:
				return i - 1
			case to <= i && i < from:
				return i + 1
			default:
				return i
			}
		}
	})
}

func (v *Set[T, K]) replaceAt(j int, item T) {
	oldKey, newKey := v.index.at(j), v.key(item)

	if oldKey == newKey {
		v.step(newKey, func() func(int) int {
			v.mirror[j] = item
			return func(i int) int {
				if i == j {
					return -1
				}
				return i
			}
		})
		return
	}

	// A unique key replaced by an absent one keeps its view slot.
	if v.index.count(oldKey) == 1 && v.index.count(newKey) == 0 {
		vp := v.index.rank(j)
		old := v.mirror[j]
		v.mirror[j] = item
		v.index.set(j, newKey)
		v.items[vp] = item
		v.notifier.Notify(change.Replaced(vp, []T{old}, []T{item}))
		return
	}

	v.removeAt(j)
	v.insertAt(j, item)
}

func (v *Set[T, K]) handle(c change.Change[T]) {
	if v.closed {
		return
	}
	switch c.Action {
	case change.ActionAdd:
		mustFit("Set.add", c.NewIndex, 0, len(v.mirror))
		for i, item := range c.NewItems {
			v.insertAt(c.NewIndex+i, item)
		}

	case change.ActionRemove:
		n := len(c.OldItems)
		mustFit("Set.remove", c.OldIndex, n, len(v.mirror))
		for range n {
			v.removeAt(c.OldIndex)
		}

	case change.ActionReplace:
		mustFit("Set.replace", c.OldIndex, len(c.NewItems), len(v.mirror))
		for i, item := range c.NewItems {
			v.replaceAt(c.OldIndex+i, item)
		}

	case change.ActionMove:
		n := len(c.OldItems)
		mustFit("Set.move", c.OldIndex, n, len(v.mirror))
		mustFit("Set.move", c.NewIndex, n, len(v.mirror))
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

var _ Collection[int] = (*Set[int, int])(nil)

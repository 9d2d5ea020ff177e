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

// Filtered shows the elements of its source that satisfy a predicate, in
// source order.
//
// It keeps one slot per source element recording whether the element passed
// when it was last evaluated. The view index of source index k is the number
// of passing slots before k. The predicate runs only for elements that are
// added or replaced; removals and moves use the recorded result.
//
// A Replace in the source becomes one of four changes, depending on whether
// the old and the new element pass:
//
//	old passes, new passes  -> Replace at the same view index
//	old passes, new fails   -> Remove
//	old fails,  new passes  -> Add
//	neither passes          -> nothing
//
// A Move of a run publishes a single Move of the passing part of the run,
// or nothing when no element of the run passes.
//
// Example:
//
//	src := collection.NewList(1, 2, 3, 4)
//	even, _ := collection.NewFiltered[int](src, func(i int) bool { return i%2 == 0 })
//	// even: [2 4]
//	src.Set(0, 6)      // add [6] at 0         -> [6 2 4]
//	src.Set(1, 5)      // remove [2] at 1      -> [6 4]
//	src.Move(0, 3)     // move [6] 0->1        -> [4 6]
type Filtered[T any] struct {
	src      Collection[T]
	pred     func(T) bool
	link     *observerFunc[T]
	slots    []filterSlot[T]
	items    []T
	notifier Notifier[T]
	props    Properties
	log      *slog.Logger
	closed   bool
}

type filterSlot[T any] struct {
	item T
	in   bool
}

// NewFiltered returns a view of the elements of src satisfying pred.
func NewFiltered[T any](src Collection[T], pred func(T) bool, opts ...Option) (*Filtered[T], error) {
	if src == nil {
		return nil, nilSource[T]()
	}
	if pred == nil {
		return nil, nilFunc("Filtered", "Filter")
	}
	v := &Filtered[T]{src: src, pred: pred, log: newLogger("Filtered", opts)}
	v.link = &observerFunc[T]{fn: v.handle}
	v.src.Subscribe(v.link)
	v.recompute()
	v.log.Debug("view bound", slog.Int("len", len(v.items)))
	return v, nil
}

// All implements Collection.
func (v *Filtered[T]) All() iter.Seq[T] { return values(&v.items) }

// Len implements Collection.
func (v *Filtered[T]) Len() int { return len(v.items) }

// Subscribe implements Collection.
func (v *Filtered[T]) Subscribe(o Observer[T]) { v.notifier.Subscribe(o) }

// Unsubscribe implements Collection.
func (v *Filtered[T]) Unsubscribe(o Observer[T]) { v.notifier.Unsubscribe(o) }

// SubscribeProperty implements PropertyNotifier.
func (v *Filtered[T]) SubscribeProperty(o PropertyObserver) { v.props.SubscribeProperty(o) }

// UnsubscribeProperty implements PropertyNotifier.
func (v *Filtered[T]) UnsubscribeProperty(o PropertyObserver) { v.props.UnsubscribeProperty(o) }

// Source returns the current source.
func (v *Filtered[T]) Source() Collection[T] { return v.src }

// SetFilter re-evaluates the view with pred.
func (v *Filtered[T]) SetFilter(pred func(T) bool) error {
	if v.closed {
		return closedError("Filtered")
	}
	if pred == nil {
		return nilFunc("Filtered", "Filter")
	}
	v.reload(func() { v.pred = pred })
	v.log.Debug("view rebound", slog.String("param", string(PropertyFilter)))
	v.props.NotifyProperty(PropertyFilter)
	return nil
}

// SetSource rebinds the view to src.
func (v *Filtered[T]) SetSource(src Collection[T]) error {
	if v.closed {
		return closedError("Filtered")
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
func (v *Filtered[T]) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.src.Unsubscribe(v.link)
	v.log.Debug("view closed")
}

func (v *Filtered[T]) recompute() {
	v.slots = make([]filterSlot[T], 0, v.src.Len())
	v.items = nil
	for item := range v.src.All() {
		in := v.pred(item)
		v.slots = append(v.slots, filterSlot[T]{item: item, in: in})
		if in {
			v.items = append(v.items, item)
		}
	}
}

func (v *Filtered[T]) reload(rebind func()) {
	old := v.items
	v.items, v.slots = nil, nil
	if len(old) > 0 {
		v.notifier.Notify(change.Removed(0, old...))
	}
	rebind()
	v.recompute()
	if len(v.items) > 0 {
		v.notifier.Notify(change.Added(0, slices.Clone(v.items)...))
	}
}

// viewIndex returns the number of passing slots before source index k.
func (v *Filtered[T]) viewIndex(k int) int {
	n := 0
	for _, s := range v.slots[:k] {
		if s.in {
			n++
		}
	}
	return n
}

func passing[T any](slots []filterSlot[T]) []T {
	var out []T
	for _, s := range slots {
		if s.in {
			out = append(out, s.item)
		}
	}
	return out
}

func (v *Filtered[T]) handle(c change.Change[T]) {
	if v.closed {
		return
	}
	switch c.Action {
	case change.ActionAdd:
		v.add(c.NewIndex, c.NewItems)
	case change.ActionRemove:
		v.remove(c.OldIndex, len(c.OldItems))
	case change.ActionReplace:
		v.replace(c.OldIndex, c.NewItems)
	case change.ActionMove:
		v.move(c.OldIndex, len(c.OldItems), c.NewIndex)
	case change.ActionReset:
		v.reload(func() {})
	}
}

func (v *Filtered[T]) add(k int, items []T) {
	mustFit("Filtered.add", k, 0, len(v.slots))
	slots := make([]filterSlot[T], len(items))
	for i, item := range items {
		slots[i] = filterSlot[T]{item: item, in: v.pred(item)}
	}
	vi := v.viewIndex(k)
	v.slots = slices.Insert(v.slots, k, slots...)
	added := passing(slots)
	if len(added) == 0 {
		return
	}
	v.items = slices.Insert(v.items, vi, added...)
	v.notifier.Notify(change.Added(vi, slices.Clone(added)...))
}

func (v *Filtered[T]) remove(k, n int) {
	mustFit("Filtered.remove", k, n, len(v.slots))
	vi := v.viewIndex(k)
	removed := passing(v.slots[k : k+n])
	v.slots = slices.Delete(v.slots, k, k+n)
	if len(removed) == 0 {
		return
	}
	v.items = slices.Delete(v.items, vi, vi+len(removed))
	v.notifier.Notify(change.Removed(vi, removed...))
}

// replace applies the per-slot transition: both pass is a Replace, only the
// old one passing is a Remove, only the new one passing is an Add.
func (v *Filtered[T]) replace(k int, items []T) {
	mustFit("Filtered.replace", k, len(items), len(v.slots))
	for i, item := range items {
		j := k + i
		old := v.slots[j]
		in := v.pred(item)
		v.slots[j] = filterSlot[T]{item: item, in: in}
		vi := v.viewIndex(j)
		switch {
		case old.in && in:
			v.items[vi] = item
			v.notifier.Notify(change.Replaced(vi, []T{old.item}, []T{item}))
		case old.in:
			v.items = slices.Delete(v.items, vi, vi+1)
			v.notifier.Notify(change.Removed(vi, old.item))
		case in:
			v.items = slices.Insert(v.items, vi, item)
			v.notifier.Notify(change.Added(vi, item))
		}
	}
}

func (v *Filtered[T]) move(from, n, to int) {
	mustFit("Filtered.move", from, n, len(v.slots))
	mustFit("Filtered.move", to, n, len(v.slots))
	if n == 0 || from == to {
		return
	}
	run := slices.Clone(v.slots[from : from+n])
	moved := passing(run)
	oldVi := v.viewIndex(from)
	v.slots = slices.Delete(v.slots, from, from+n)
	v.slots = slices.Insert(v.slots, to, run...)
	newVi := v.viewIndex(to)
	if len(moved) == 0 || oldVi == newVi {
		return
	}
	v.items = slices.Delete(v.items, oldVi, oldVi+len(moved))
	v.items = slices.Insert(v.items, newVi, moved...)
	v.notifier.Notify(change.Moved(oldVi, newVi, moved...))
}

var _ Collection[int] = (*Filtered[int])(nil)

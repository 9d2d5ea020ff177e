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
	"sort"

	"dirpx.dev/dxview/dxcore/model/change"
)

// Sorted presents the elements of its source ordered by a comparison
// function.
//
// Elements that compare equal keep their relative source order, so the view
// always equals a stable sort of the source. cmp returns a negative number
// when a sorts before b, zero when they are equal and a positive number
// otherwise, like strings.Compare.
//
// When elements change their sort key in place without a notification,
// Refresh restores the order.
//
// Adds and removes keep their single-element shape: an added element is
// inserted after its equal peers, so a batch Add of n elements publishes n
// single Adds in source order. A Replace whose new element sorts to the
// same position is published as a Replace; otherwise the element is
// replaced in place and then moved, which keeps identity-tracking observers
// (Set, Grouped, TrackItems) stable.
//
// Example:
//
//	src := collection.NewList("pear", "fig")
//	s, _ := collection.NewSorted[string](src, strings.Compare)
//	// s: [fig pear]
//	src.Append("apple")        // add [apple] at 0
//	src.Set(1, "zucchini")     // replace [fig] -> [zucchini] at 1, move [zucchini] 1->2
type Sorted[T any] struct {
	src      Collection[T]
	cmp      func(a, b T) int
	link     *observerFunc[T]
	slots    []*sortNode[T] // source order
	order    []*sortNode[T] // view order
	items    []T
	notifier Notifier[T]
	props    Properties
	log      *slog.Logger
	closed   bool
}

type sortNode[T any] struct {
	item T
	src  int
}

// NewSorted returns a view of src ordered by cmp.
func NewSorted[T any](src Collection[T], cmp func(a, b T) int, opts ...Option) (*Sorted[T], error) {
	if src == nil {
		return nil, nilSource[T]()
	}
	if cmp == nil {
		return nil, nilFunc("Sorted", "Comparer")
	}
	v := &Sorted[T]{src: src, cmp: cmp, log: newLogger("Sorted", opts)}
	v.link = &observerFunc[T]{fn: v.handle}
	v.src.Subscribe(v.link)
	v.recompute()
	v.log.Debug("view bound", slog.Int("len", len(v.items)))
	return v, nil
}

// All implements Collection.
func (v *Sorted[T]) All() iter.Seq[T] { return values(&v.items) }

// Len implements Collection.
func (v *Sorted[T]) Len() int { return len(v.items) }

// Subscribe implements Collection.
func (v *Sorted[T]) Subscribe(o Observer[T]) { v.notifier.Subscribe(o) }

// Unsubscribe implements Collection.
func (v *Sorted[T]) Unsubscribe(o Observer[T]) { v.notifier.Unsubscribe(o) }

// SubscribeProperty implements PropertyNotifier.
func (v *Sorted[T]) SubscribeProperty(o PropertyObserver) { v.props.SubscribeProperty(o) }

// UnsubscribeProperty implements PropertyNotifier.
func (v *Sorted[T]) UnsubscribeProperty(o PropertyObserver) { v.props.UnsubscribeProperty(o) }

// Source returns the current source.
func (v *Sorted[T]) Source() Collection[T] { return v.src }

// SetComparer reorders the view with cmp. Unlike the other setters it does
// not republish the content: it publishes one Move per displaced element,
// then signals PropertyComparer.
func (v *Sorted[T]) SetComparer(cmp func(a, b T) int) error {
	if v.closed {
		return closedError("Sorted")
	}
	if cmp == nil {
		return nilFunc("Sorted", "Comparer")
	}
	v.cmp = cmp
	v.resort()
	v.log.Debug("view rebound", slog.String("param", string(PropertyComparer)))
	v.props.NotifyProperty(PropertyComparer)
	return nil
}

// Refresh restores the order after elements changed their sort keys in
// place, publishing one Move per displaced element.
func (v *Sorted[T]) Refresh() {
	if v.closed {
		return
	}
	v.resort()
}

// SetSource rebinds the view to src.
func (v *Sorted[T]) SetSource(src Collection[T]) error {
	if v.closed {
		return closedError("Sorted")
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
func (v *Sorted[T]) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.src.Unsubscribe(v.link)
	v.log.Debug("view closed")
}

// before reports whether a sorts before b, breaking ties by source position.
func (v *Sorted[T]) before(a, b *sortNode[T]) bool {
	if c := v.cmp(a.item, b.item); c != 0 {
		return c < 0
	}
	return a.src < b.src
}

// position returns where n belongs in the current order.
func (v *Sorted[T]) position(n *sortNode[T]) int {
	return sort.Search(len(v.order), func(i int) bool { return v.before(n, v.order[i]) })
}

func (v *Sorted[T]) renumber() {
	for i, n := range v.slots {
		n.src = i
	}
}

func (v *Sorted[T]) recompute() {
	v.slots = make([]*sortNode[T], 0, v.src.Len())
	for item := range v.src.All() {
		v.slots = append(v.slots, &sortNode[T]{item: item, src: len(v.slots)})
	}
	v.order = slices.Clone(v.slots)
	slices.SortStableFunc(v.order, func(a, b *sortNode[T]) int { return v.cmp(a.item, b.item) })
	v.items = make([]T, len(v.order))
	for i, n := range v.order {
		v.items[i] = n.item
	}
}

func (v *Sorted[T]) reload(rebind func()) {
	old := v.items
	v.items, v.slots, v.order = nil, nil, nil
	if len(old) > 0 {
		v.notifier.Notify(change.Removed(0, old...))
	}
	rebind()
	v.recompute()
	if len(v.items) > 0 {
		v.notifier.Notify(change.Added(0, slices.Clone(v.items)...))
	}
}

// resort runs a selection pass over the view, moving each element that is
// not in its sorted place.
func (v *Sorted[T]) resort() {
	for i := range v.order {
		m := i
		for j := i + 1; j < len(v.order); j++ {
			if v.before(v.order[j], v.order[m]) {
				m = j
			}
		}
		if m == i {
			continue
		}
		n := v.order[m]
		v.order = slices.Delete(v.order, m, m+1)
		v.order = slices.Insert(v.order, i, n)
		v.items = slices.Delete(v.items, m, m+1)
		v.items = slices.Insert(v.items, i, n.item)
		v.notifier.Notify(change.Moved(m, i, n.item))
	}
}

func (v *Sorted[T]) handle(c change.Change[T]) {
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

func (v *Sorted[T]) add(k int, items []T) {
	mustFit("Sorted.add", k, 0, len(v.slots))
	nodes := make([]*sortNode[T], len(items))
	for i, item := range items {
		nodes[i] = &sortNode[T]{item: item}
	}
	v.slots = slices.Insert(v.slots, k, nodes...)
	v.renumber()
	for _, n := range nodes {
		q := v.position(n)
		v.order = slices.Insert(v.order, q, n)
		v.items = slices.Insert(v.items, q, n.item)
		v.notifier.Notify(change.Added(q, n.item))
	}
}

func (v *Sorted[T]) remove(k, count int) {
	mustFit("Sorted.remove", k, count, len(v.slots))
	nodes := slices.Clone(v.slots[k : k+count])
	v.slots = slices.Delete(v.slots, k, k+count)
	v.renumber()
	for _, n := range nodes {
		p := slices.Index(v.order, n)
		v.order = slices.Delete(v.order, p, p+1)
		v.items = slices.Delete(v.items, p, p+1)
		v.notifier.Notify(change.Removed(p, n.item))
	}
}

// replace publishes a Replace at the element's old position and, when the
// new value sorts elsewhere, a Move to its new position.
func (v *Sorted[T]) replace(k int, items []T) {
	mustFit("Sorted.replace", k, len(items), len(v.slots))
	for i, item := range items {
		n := v.slots[k+i]
		p := slices.Index(v.order, n)
		old := n.item
		n.item = item
		v.items[p] = item
		v.notifier.Notify(change.Replaced(p, []T{old}, []T{item}))

		v.order = slices.Delete(v.order, p, p+1)
		q := v.position(n)
		v.order = slices.Insert(v.order, q, n)
		if q == p {
			continue
		}
		v.items = slices.Delete(v.items, p, p+1)
		v.items = slices.Insert(v.items, q, item)
		v.notifier.Notify(change.Moved(p, q, item))
	}
}

// move only matters for ties, whose order follows the source.
func (v *Sorted[T]) move(from, count, to int) {
	mustFit("Sorted.move", from, count, len(v.slots))
	mustFit("Sorted.move", to, count, len(v.slots))
	if count == 0 || from == to {
		return
	}
	run := slices.Clone(v.slots[from : from+count])
	v.slots = slices.Delete(v.slots, from, from+count)
	v.slots = slices.Insert(v.slots, to, run...)
	v.renumber()
	v.resort()
}

var _ Collection[int] = (*Sorted[int])(nil)

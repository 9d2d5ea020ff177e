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

// Expandable is implemented by elements that can show a sub-sequence of
// children beneath themselves.
//
// Implementations signal PropertyExpanded when Expanded changes and
// PropertyChildren when Children returns a different collection. Children
// may return nil, which is treated as empty.
type Expandable[T any] interface {
	PropertyNotifier
	Expanded() bool
	Children() Collection[T]
}

// Expander is a ready-made Expandable. The zero value is collapsed and has
// no children.
type Expander[T any] struct {
	props    Properties
	expanded bool
	children Collection[T]
}

// NewExpander returns a collapsed Expander over children.
func NewExpander[T any](children Collection[T]) *Expander[T] {
	return &Expander[T]{children: children}
}

// Expanded implements Expandable.
func (e *Expander[T]) Expanded() bool { return e.expanded }

// Children implements Expandable.
func (e *Expander[T]) Children() Collection[T] { return e.children }

// SubscribeProperty implements PropertyNotifier.
func (e *Expander[T]) SubscribeProperty(o PropertyObserver) { e.props.SubscribeProperty(o) }

// UnsubscribeProperty implements PropertyNotifier.
func (e *Expander[T]) UnsubscribeProperty(o PropertyObserver) { e.props.UnsubscribeProperty(o) }

// SetExpanded shows or hides the children.
func (e *Expander[T]) SetExpanded(expanded bool) {
	if e.expanded == expanded {
		return
	}
	e.expanded = expanded
	e.props.NotifyProperty(PropertyExpanded)
}

// Toggle flips Expanded.
func (e *Expander[T]) Toggle() {
	e.SetExpanded(!e.expanded)
}

// SetChildren replaces the children collection.
func (e *Expander[T]) SetChildren(children Collection[T]) {
	if e.children == children {
		return
	}
	e.children = children
	e.props.NotifyProperty(PropertyChildren)
}

// Extendable flattens one level of a hierarchy: every source element is
// followed by its children while it is expanded.
//
// expand returns the Expandable of an element, or nil for leaves. The view
// index of source index k is k plus the number of visible children of the
// elements before k.
//
// The view follows three kinds of events: changes of the source, changes of
// the children of an expanded element, and PropertyExpanded or
// PropertyChildren signals of an element. Expanding publishes an Add of the
// children right after the element; collapsing publishes a Remove of them.
// An element that appears more than once in the source is tracked once per
// occurrence, and each occurrence shows the children.
//
// Only one level is flattened. To show a deeper tree, let Children return
// an Extendable over the next level.
//
// Example:
//
//	fruit := collection.NewExpander[string](collection.NewList("apple", "pear"))
//	src := collection.NewList("fruit", "nuts")
//	v, _ := collection.NewExtendable[string](src, func(s string) collection.Expandable[string] {
//	    if s == "fruit" {
//	        return fruit
//	    }
//	    return nil
//	})
//	fruit.SetExpanded(true)  // add [apple pear] at 1 -> [fruit apple pear nuts]
type Extendable[T any] struct {
	src      Collection[T]
	expand   func(T) Expandable[T]
	link     *observerFunc[T]
	entries  []*extEntry[T]
	items    []T
	notifier Notifier[T]
	props    Properties
	log      *slog.Logger
	closed   bool
}

// extEntry tracks one source element: its expandable state, the children it
// is subscribed to and a mirror of their content.
type extEntry[T any] struct {
	v        *Extendable[T]
	item     T
	exp      Expandable[T]
	children Collection[T]
	link     *observerFunc[T]
	sub      []T
	shown    bool
}

// NewExtendable returns a flattened view of src.
func NewExtendable[T any](src Collection[T], expand func(T) Expandable[T], opts ...Option) (*Extendable[T], error) {
	if src == nil {
		return nil, nilSource[T]()
	}
	if expand == nil {
		return nil, nilFunc("Extendable", "Expand")
	}
	v := &Extendable[T]{src: src, expand: expand, log: newLogger("Extendable", opts)}
	v.link = &observerFunc[T]{fn: v.handle}
	v.src.Subscribe(v.link)
	v.recompute()
	v.log.Debug("view bound", slog.Int("len", len(v.items)))
	return v, nil
}

// All implements Collection.
func (v *Extendable[T]) All() iter.Seq[T] { return values(&v.items) }

// Len implements Collection.
func (v *Extendable[T]) Len() int { return len(v.items) }

// Subscribe implements Collection.
func (v *Extendable[T]) Subscribe(o Observer[T]) { v.notifier.Subscribe(o) }

// Unsubscribe implements Collection.
func (v *Extendable[T]) Unsubscribe(o Observer[T]) { v.notifier.Unsubscribe(o) }

// SubscribeProperty implements PropertyNotifier.
func (v *Extendable[T]) SubscribeProperty(o PropertyObserver) { v.props.SubscribeProperty(o) }

// UnsubscribeProperty implements PropertyNotifier.
func (v *Extendable[T]) UnsubscribeProperty(o PropertyObserver) { v.props.UnsubscribeProperty(o) }

// Source returns the current source.
func (v *Extendable[T]) Source() Collection[T] { return v.src }

// SetSource rebinds the view to src.
func (v *Extendable[T]) SetSource(src Collection[T]) error {
	if v.closed {
		return closedError("Extendable")
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

// Close detaches the view from its source, every element and every
// children collection.
func (v *Extendable[T]) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.src.Unsubscribe(v.link)
	for _, e := range v.entries {
		e.release()
	}
	v.log.Debug("view closed")
}

func (v *Extendable[T]) newEntry(item T) *extEntry[T] {
	e := &extEntry[T]{v: v, item: item, exp: v.expand(item)}
	e.link = &observerFunc[T]{fn: e.childChanged}
	if e.exp != nil {
		e.exp.SubscribeProperty(e)
		e.shown = e.exp.Expanded()
		e.attach(e.exp.Children())
	}
	return e
}

func (e *extEntry[T]) attach(children Collection[T]) {
	e.children = children
	e.sub = nil
	if children != nil {
		e.sub = Items(children)
		children.Subscribe(e.link)
	}
}

func (e *extEntry[T]) detach() {
	if e.children != nil {
		e.children.Unsubscribe(e.link)
	}
	e.children = nil
	e.sub = nil
}

func (e *extEntry[T]) release() {
	if e.exp != nil {
		e.exp.UnsubscribeProperty(e)
	}
	e.detach()
}

// visible returns the number of view elements the entry occupies.
func (e *extEntry[T]) visible() int {
	if e.shown {
		return 1 + len(e.sub)
	}
	return 1
}

// flat appends the view elements of the entry to out.
func (e *extEntry[T]) flat(out []T) []T {
	out = append(out, e.item)
	if e.shown {
		out = append(out, e.sub...)
	}
	return out
}

func flatten[T any](entries []*extEntry[T]) []T {
	var out []T
	for _, e := range entries {
		out = e.flat(out)
	}
	return out
}

// viewIndex returns the view index of source index k.
func (v *Extendable[T]) viewIndex(k int) int {
	n := 0
	for _, e := range v.entries[:k] {
		n += e.visible()
	}
	return n
}

func (v *Extendable[T]) recompute() {
	v.entries = nil
	for item := range v.src.All() {
		v.entries = append(v.entries, v.newEntry(item))
	}
	v.items = flatten(v.entries)
}

func (v *Extendable[T]) reload(rebind func()) {
	old := v.items
	for _, e := range v.entries {
		e.release()
	}
	v.items, v.entries = nil, nil
	if len(old) > 0 {
		v.notifier.Notify(change.Removed(0, old...))
	}
	rebind()
	v.recompute()
	if len(v.items) > 0 {
		v.notifier.Notify(change.Added(0, slices.Clone(v.items)...))
	}
}

// PropertyChanged reacts to the entry's Expandable.
func (e *extEntry[T]) PropertyChanged(p Property) {
	v := e.v
	if v.closed {
		return
	}
	switch p {
	case PropertyExpanded:
		shown := e.exp.Expanded()
		if shown == e.shown {
			return
		}
		e.shown = shown
		if len(e.sub) == 0 {
			return
		}
		at := v.viewIndex(slices.Index(v.entries, e)) + 1
		if shown {
			v.items = slices.Insert(v.items, at, e.sub...)
			v.notifier.Notify(change.Added(at, slices.Clone(e.sub)...))
		} else {
			old := slices.Clone(v.items[at : at+len(e.sub)])
			v.items = slices.Delete(v.items, at, at+len(e.sub))
			v.notifier.Notify(change.Removed(at, old...))
		}

	case PropertyChildren:
		children := e.exp.Children()
		if children == e.children {
			return
		}
		at := v.viewIndex(slices.Index(v.entries, e)) + 1
		if e.shown && len(e.sub) > 0 {
			old := slices.Clone(v.items[at : at+len(e.sub)])
			v.items = slices.Delete(v.items, at, at+len(e.sub))
			v.notifier.Notify(change.Removed(at, old...))
		}
		e.detach()
		e.attach(children)
		if e.shown && len(e.sub) > 0 {
			v.items = slices.Insert(v.items, at, e.sub...)
			v.notifier.Notify(change.Added(at, slices.Clone(e.sub)...))
		}
	}
}

// childChanged mirrors a change of the entry's children and, while the
// entry is expanded, republishes it shifted into view space.
func (e *extEntry[T]) childChanged(c change.Change[T]) {
	v := e.v
	if v.closed {
		return
	}
	base := -1
	if e.shown {
		base = v.viewIndex(slices.Index(v.entries, e)) + 1
	}

	if c.Action == change.ActionReset {
		if base >= 0 && len(e.sub) > 0 {
			old := slices.Clone(v.items[base : base+len(e.sub)])
			v.items = slices.Delete(v.items, base, base+len(e.sub))
			v.notifier.Notify(change.Removed(base, old...))
		}
		e.sub = Items(e.children)
		if base >= 0 && len(e.sub) > 0 {
			v.items = slices.Insert(v.items, base, e.sub...)
			v.notifier.Notify(change.Added(base, slices.Clone(e.sub)...))
		}
		return
	}

	if c.Len() == 0 {
		return
	}
	mustValid("Extendable.children", c)
	sub, err := c.Apply(e.sub)
	if err != nil {
		panic(err)
	}
	e.sub = sub
	if base < 0 {
		return
	}

	shifted := c
	if shifted.OldIndex >= 0 {
		shifted.OldIndex += base
	}
	if shifted.NewIndex >= 0 {
		shifted.NewIndex += base
	}
	items, err := shifted.Apply(v.items)
	if err != nil {
		panic(err)
	}
	v.items = items
	v.notifier.Notify(shifted)
}

func (v *Extendable[T]) handle(c change.Change[T]) {
	if v.closed {
		return
	}
	switch c.Action {
	case change.ActionAdd:
		mustFit("Extendable.add", c.NewIndex, 0, len(v.entries))
		v.add(c.NewIndex, c.NewItems)

	case change.ActionRemove:
		mustFit("Extendable.remove", c.OldIndex, len(c.OldItems), len(v.entries))
		v.remove(c.OldIndex, len(c.OldItems))

	case change.ActionReplace:
		n := len(c.NewItems)
		mustFit("Extendable.replace", c.OldIndex, n, len(v.entries))
		if n == 0 {
			return
		}
		k := c.OldIndex
		at := v.viewIndex(k)
		oldBlock := flatten(v.entries[k : k+n])
		fresh := make([]*extEntry[T], n)
		for i, item := range c.NewItems {
			fresh[i] = v.newEntry(item)
		}
		newBlock := flatten(fresh)
		if len(oldBlock) == len(newBlock) {
			for i, e := range v.entries[k : k+n] {
				e.release()
				v.entries[k+i] = fresh[i]
			}
			copy(v.items[at:], newBlock)
			v.notifier.Notify(change.Replaced(at, oldBlock, newBlock))
			return
		}
		for _, e := range fresh {
			e.release()
		}
		v.remove(k, n)
		v.add(k, c.NewItems)

	case change.ActionMove:
		n := len(c.OldItems)
		mustFit("Extendable.move", c.OldIndex, n, len(v.entries))
		mustFit("Extendable.move", c.NewIndex, n, len(v.entries))
		if n == 0 || c.OldIndex == c.NewIndex {
			return
		}
		from := v.viewIndex(c.OldIndex)
		run := slices.Clone(v.entries[c.OldIndex : c.OldIndex+n])
		block := flatten(run)
		v.entries = slices.Delete(v.entries, c.OldIndex, c.OldIndex+n)
		v.entries = slices.Insert(v.entries, c.NewIndex, run...)
		to := v.viewIndex(c.NewIndex)
		v.items = slices.Delete(v.items, from, from+len(block))
		v.items = slices.Insert(v.items, to, block...)
		v.notifier.Notify(change.Moved(from, to, block...))

	case change.ActionReset:
		v.reload(func() {})
	}
}

func (v *Extendable[T]) add(k int, items []T) {
	if len(items) == 0 {
		return
	}
	fresh := make([]*extEntry[T], len(items))
	for i, item := range items {
		fresh[i] = v.newEntry(item)
	}
	at := v.viewIndex(k)
	block := flatten(fresh)
	v.entries = slices.Insert(v.entries, k, fresh...)
	v.items = slices.Insert(v.items, at, block...)
	v.notifier.Notify(change.Added(at, slices.Clone(block)...))
}

func (v *Extendable[T]) remove(k, n int) {
	if n == 0 {
		return
	}
	at := v.viewIndex(k)
	gone := v.entries[k : k+n]
	block := flatten(gone)
	for _, e := range gone {
		e.release()
	}
	v.entries = slices.Delete(v.entries, k, k+n)
	v.items = slices.Delete(v.items, at, at+len(block))
	v.notifier.Notify(change.Removed(at, block...))
}

var _ Collection[int] = (*Extendable[int])(nil)

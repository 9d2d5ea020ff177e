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
	"slices"

	"dirpx.dev/dxview/dxcore/errors"
	"dirpx.dev/dxview/dxcore/model/change"
)

// List is a mutable, observable list and the usual leaf source of a view
// pipeline.
//
// Every mutator publishes exactly one change for a batch of contiguous
// elements, except Reset, which publishes a Remove of the old content
// followed by an Add of the new content. Mutators validate indices and
// return an *errors.IndexOutOfRangeError without touching the list when they
// do not fit.
type List[T any] struct {
	items    []T
	notifier Notifier[T]
	tracker  *itemTracker[T]
}

// NewList returns a List holding a copy of items.
func NewList[T any](items ...T) *List[T] {
	return &List[T]{items: slices.Clone(items)}
}

// All implements Collection.
func (l *List[T]) All() iter.Seq[T] {
	return values(&l.items)
}

// Len implements Collection.
func (l *List[T]) Len() int {
	return len(l.items)
}

// Subscribe implements Collection.
func (l *List[T]) Subscribe(o Observer[T]) {
	l.notifier.Subscribe(o)
}

// Unsubscribe implements Collection.
func (l *List[T]) Unsubscribe(o Observer[T]) {
	l.notifier.Unsubscribe(o)
}

// At returns the element at index i. It panics if i is out of range.
func (l *List[T]) At(i int) T {
	return l.items[i]
}

// IndexFunc returns the first index i satisfying f(l.At(i)), or -1.
func (l *List[T]) IndexFunc(f func(T) bool) int {
	return slices.IndexFunc(l.items, f)
}

// Append adds items at the end.
func (l *List[T]) Append(items ...T) {
	_ = l.Insert(len(l.items), items...)
}

// Insert adds items before index. Inserting at Len appends.
func (l *List[T]) Insert(index int, items ...T) error {
	if err := errors.CheckRange("List.Insert", index, 0, len(l.items)); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	items = slices.Clone(items)
	l.items = slices.Insert(l.items, index, items...)
	if l.tracker != nil {
		l.tracker.insert(index, items)
	}
	l.notifier.Notify(change.Added(index, items...))
	return nil
}

// Set replaces the element at index.
func (l *List[T]) Set(index int, item T) error {
	return l.ReplaceRange(index, item)
}

// ReplaceRange overwrites len(items) elements starting at index.
func (l *List[T]) ReplaceRange(index int, items ...T) error {
	if err := errors.CheckRange("List.ReplaceRange", index, len(items), len(l.items)); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	old := slices.Clone(l.items[index : index+len(items)])
	items = slices.Clone(items)
	copy(l.items[index:], items)
	if l.tracker != nil {
		l.tracker.replace(index, items)
	}
	l.notifier.Notify(change.Replaced(index, old, items))
	return nil
}

// RemoveAt removes the element at index.
func (l *List[T]) RemoveAt(index int) error {
	return l.RemoveRange(index, 1)
}

// RemoveRange removes count elements starting at index.
func (l *List[T]) RemoveRange(index, count int) error {
	if err := errors.CheckRange("List.RemoveRange", index, count, len(l.items)); err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	old := slices.Clone(l.items[index : index+count])
	l.items = slices.Delete(l.items, index, index+count)
	if l.tracker != nil {
		l.tracker.remove(index, count)
	}
	l.notifier.Notify(change.Removed(index, old...))
	return nil
}

// Move moves the element at from so that it ends up at index to.
func (l *List[T]) Move(from, to int) error {
	return l.MoveRange(from, 1, to)
}

// MoveRange moves count elements starting at from so that the first of them
// ends up at index to of the resulting list.
func (l *List[T]) MoveRange(from, count, to int) error {
	if err := errors.CheckRange("List.MoveRange", from, count, len(l.items)); err != nil {
		return err
	}
	if err := errors.CheckRange("List.MoveRange", to, count, len(l.items)); err != nil {
		return err
	}
	if count == 0 || from == to {
		return nil
	}
	run := slices.Clone(l.items[from : from+count])
	l.items = slices.Delete(l.items, from, from+count)
	l.items = slices.Insert(l.items, to, run...)
	if l.tracker != nil {
		l.tracker.move(from, count, to)
	}
	l.notifier.Notify(change.Moved(from, to, run...))
	return nil
}

// Clear removes every element.
func (l *List[T]) Clear() {
	_ = l.RemoveRange(0, len(l.items))
}

// Reset replaces the whole content with items, publishing a Remove of the
// old content and then an Add of the new one. Empty halves are skipped.
func (l *List[T]) Reset(items ...T) {
	l.Clear()
	l.Append(items...)
}

// TrackItems makes the list republish property changes of its elements as
// single-element Replace changes at the element's current index.
// notifierOf returns the notifier of an element, or nil for elements that do
// not signal. Passing nil stops tracking.
func (l *List[T]) TrackItems(notifierOf func(T) PropertyNotifier) {
	if l.tracker != nil {
		l.tracker.close()
		l.tracker = nil
	}
	if notifierOf == nil {
		return
	}
	l.tracker = newItemTracker(notifierOf, l.items, func(i int) {
		item := l.items[i]
		l.notifier.Notify(change.Replaced(i, []T{item}, []T{item}))
	})
}

var _ Collection[int] = (*List[int])(nil)

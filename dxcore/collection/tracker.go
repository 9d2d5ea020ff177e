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
	"slices"
)

// itemTracker keeps one property subscription per element of a buffer and
// reports which element signalled. The watcher slice is parallel to the
// buffer; a watcher's index is found by identity, so it stays correct
// across inserts, removals and moves.
type itemTracker[T any] struct {
	notifierOf func(T) PropertyNotifier
	watchers   []*itemWatcher[T]
	changed    func(index int)
}

type itemWatcher[T any] struct {
	t *itemTracker[T]
	n PropertyNotifier
}

func (w *itemWatcher[T]) PropertyChanged(Property) {
	if i := slices.Index(w.t.watchers, w); i >= 0 {
		w.t.changed(i)
	}
}

func newItemTracker[T any](notifierOf func(T) PropertyNotifier, items []T, changed func(int)) *itemTracker[T] {
	t := &itemTracker[T]{notifierOf: notifierOf, changed: changed}
	t.insert(0, items)
	return t
}

func (t *itemTracker[T]) watch(item T) *itemWatcher[T] {
	w := &itemWatcher[T]{t: t, n: t.notifierOf(item)}
	if w.n != nil {
		w.n.SubscribeProperty(w)
	}
	return w
}

func (w *itemWatcher[T]) release() {
	if w.n != nil {
		w.n.UnsubscribeProperty(w)
		w.n = nil
	}
}

func (t *itemTracker[T]) insert(index int, items []T) {
	ws := make([]*itemWatcher[T], len(items))
	for i, item := range items {
		ws[i] = t.watch(item)
	}
	t.watchers = slices.Insert(t.watchers, index, ws...)
}

func (t *itemTracker[T]) remove(index, count int) {
	for _, w := range t.watchers[index : index+count] {
		w.release()
	}
	t.watchers = slices.Delete(t.watchers, index, index+count)
}

func (t *itemTracker[T]) replace(index int, items []T) {
	for i, item := range items {
		t.watchers[index+i].release()
		t.watchers[index+i] = t.watch(item)
	}
}

func (t *itemTracker[T]) move(from, count, to int) {
	run := slices.Clone(t.watchers[from : from+count])
	t.watchers = slices.Delete(t.watchers, from, from+count)
	t.watchers = slices.Insert(t.watchers, to, run...)
}

func (t *itemTracker[T]) reset(items []T) {
	t.remove(0, len(t.watchers))
	t.insert(0, items)
}

func (t *itemTracker[T]) close() {
	t.remove(0, len(t.watchers))
}

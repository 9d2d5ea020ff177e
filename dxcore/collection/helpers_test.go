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

package collection_test

import (
	"iter"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"dirpx.dev/dxview/dxcore/collection"
	"dirpx.dev/dxview/dxcore/model/change"
)

// recorder mirrors a view from its notifications and checks the mirror
// against the view after every change.
type recorder[T any] struct {
	t       *testing.T
	view    collection.Collection[T]
	mirror  []T
	changes []change.Change[T]
	cancel  func()
}

func record[T any](t *testing.T, view collection.Collection[T]) *recorder[T] {
	t.Helper()
	r := &recorder[T]{t: t, view: view, mirror: collection.Items(view)}
	r.cancel = collection.Watch(view, func(c change.Change[T]) {
		require.NoError(t, c.Validate(), "invalid change %v", c)
		require.NotEqual(t, change.ActionReset, c.Action, "views never publish reset")
		next, err := c.Apply(r.mirror)
		require.NoError(t, err, "change %v does not fit mirror %v", c, r.mirror)
		r.mirror = next
		r.changes = append(r.changes, c)
		sameItems(t, collection.Items(view), r.mirror, "mirror diverged after %v", c)
	})
	return r
}

// take returns the changes recorded since the last call.
func (r *recorder[T]) take() []change.Change[T] {
	out := r.changes
	r.changes = nil
	return out
}

func (r *recorder[T]) strings() []string {
	var out []string
	for _, c := range r.take() {
		out = append(out, c.String())
	}
	return out
}

func sameItems[T any](t *testing.T, want, got []T, msgAndArgs ...any) {
	t.Helper()
	if len(want) == 0 && len(got) == 0 {
		return
	}
	require.Equal(t, want, got, msgAndArgs...)
}

// stubSource counts live subscriptions on a List.
type stubSource[T any] struct {
	*collection.List[T]
	subs int
}

func newStub[T any](items ...T) *stubSource[T] {
	return &stubSource[T]{List: collection.NewList(items...)}
}

func (p *stubSource[T]) Subscribe(o collection.Observer[T]) {
	p.subs++
	p.List.Subscribe(o)
}

func (p *stubSource[T]) Unsubscribe(o collection.Observer[T]) {
	p.subs--
	p.List.Unsubscribe(o)
}

// rawSource is a custom collection that publishes raw Reset changes.
type rawSource[T any] struct {
	items    []T
	notifier collection.Notifier[T]
}

func (s *rawSource[T]) All() iter.Seq[T]                     { return slices.Values(s.items) }
func (s *rawSource[T]) Len() int                             { return len(s.items) }
func (s *rawSource[T]) Subscribe(o collection.Observer[T])   { s.notifier.Subscribe(o) }
func (s *rawSource[T]) Unsubscribe(o collection.Observer[T]) { s.notifier.Unsubscribe(o) }

func (s *rawSource[T]) reset(items ...T) {
	s.items = slices.Clone(items)
	s.notifier.Notify(change.Reset(slices.Clone(items)...))
}

func (s *rawSource[T]) send(c change.Change[T]) {
	s.notifier.Notify(c)
}

func values(r *rand.Rand, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = r.IntN(8)
	}
	return out
}

// mutate applies one random mutation to l.
func mutate(t *testing.T, r *rand.Rand, l *collection.List[int]) {
	t.Helper()
	n := l.Len()
	op := r.IntN(10)
	if n == 0 {
		op = 0
	}
	switch op {
	case 0, 1, 2:
		require.NoError(t, l.Insert(r.IntN(n+1), values(r, 1+r.IntN(3))...))
	case 3, 4:
		i := r.IntN(n)
		require.NoError(t, l.RemoveRange(i, 1+r.IntN(min(3, n-i))))
	case 5, 6:
		i := r.IntN(n)
		require.NoError(t, l.ReplaceRange(i, values(r, 1+r.IntN(min(3, n-i)))...))
	case 7, 8:
		c := 1 + r.IntN(min(3, n))
		require.NoError(t, l.MoveRange(r.IntN(n-c+1), c, r.IntN(n-c+1)))
	case 9:
		l.Reset(values(r, r.IntN(6))...)
	}
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

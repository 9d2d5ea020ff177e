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
	stderrors "errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/dxview/dxcore/collection"
	"dirpx.dev/dxview/dxcore/errors"
	"dirpx.dev/dxview/dxcore/model/change"
)

// sliceFeed is a foreign collection that reports changes through a
// callback.
type sliceFeed[T any] struct {
	items     []T
	observers []*func(change.Change[T])
}

func (f *sliceFeed[T]) Snapshot() []T { return slices.Clone(f.items) }

func (f *sliceFeed[T]) Observe(fn func(change.Change[T])) func() {
	p := &fn
	f.observers = append(f.observers, p)
	return func() {
		if i := slices.Index(f.observers, p); i >= 0 {
			f.observers = slices.Delete(f.observers, i, i+1)
		}
	}
}

func (f *sliceFeed[T]) apply(t *testing.T, c change.Change[T]) {
	t.Helper()
	var err error
	f.items, err = c.Apply(f.items)
	require.NoError(t, err)
	for _, fn := range f.observers {
		(*fn)(c)
	}
}

func TestAdapter_ForwardsVerbatim(t *testing.T) {
	f := &sliceFeed[string]{items: []string{"a", "b", "c"}}
	a, err := collection.NewAdapter[string](f)
	require.NoError(t, err)
	r := record[string](t, a)

	f.apply(t, change.Added(1, "x"))
	f.apply(t, change.Moved(0, 3, "a"))
	f.apply(t, change.Replaced(0, []string{"x"}, []string{"y"}))
	f.apply(t, change.Removed(1, "b"))

	assert.Equal(t, []string{
		"add [x] at 1",
		"move [a] 0->3",
		"replace [x] -> [y] at 0",
		"remove [b] at 1",
	}, r.strings())
	assert.Equal(t, []string{"y", "c", "a"}, collection.Items[string](a))
}

func TestAdapter_DecomposesReset(t *testing.T) {
	f := &sliceFeed[int]{items: []int{1, 2}}
	a, err := collection.NewAdapter[int](f)
	require.NoError(t, err)
	r := record[int](t, a)

	f.apply(t, change.Reset(3, 4, 5))
	assert.Equal(t, []string{"remove [1 2] at 0", "add [3 4 5] at 0"}, r.strings())

	// Reset decomposition is idempotent: resetting to the same content
	// yields the same pair again.
	f.apply(t, change.Reset(3, 4, 5))
	assert.Equal(t, []string{"remove [3 4 5] at 0", "add [3 4 5] at 0"}, r.strings())

	f.apply(t, change.Reset[int]())
	assert.Equal(t, []string{"remove [3 4 5] at 0"}, r.strings())
}

func TestAdapter_ResetHalvesSeeCurrentContent(t *testing.T) {
	f := &sliceFeed[int]{items: []int{1, 2}}
	a, err := collection.NewAdapter[int](f)
	require.NoError(t, err)

	var seen []string
	cancel := collection.Watch[int](a, func(c change.Change[int]) {
		seen = append(seen, fmt.Sprintf("%s len=%d all=%v", c, a.Len(), collection.Items[int](a)))
	})
	defer cancel()

	f.apply(t, change.Reset(3, 4, 5))
	assert.Equal(t, []string{
		"remove [1 2] at 0 len=0 all=[]",
		"add [3 4 5] at 0 len=3 all=[3 4 5]",
	}, seen)
}

func TestAdapter_RejectsMalformedChange(t *testing.T) {
	f := &sliceFeed[int]{items: []int{1}}
	a, err := collection.NewAdapter[int](f)
	require.NoError(t, err)

	defer func() {
		rec := recover()
		require.NotNil(t, rec)
		err, ok := rec.(error)
		require.True(t, ok)
		var oor *errors.IndexOutOfRangeError
		assert.True(t, stderrors.As(err, &oor))
		assert.Equal(t, []int{1}, collection.Items[int](a))
	}()
	for _, fn := range f.observers {
		(*fn)(change.Removed(3, 9))
	}
}

func TestAdapter_Close(t *testing.T) {
	f := &sliceFeed[int]{items: []int{1}}
	a, err := collection.NewAdapter[int](f)
	require.NoError(t, err)
	r := record[int](t, a)

	a.Close()
	a.Close()
	assert.Empty(t, f.observers)

	f.apply(t, change.Added(1, 2))
	assert.Empty(t, r.take())
}

func TestAdapter_TrackItems(t *testing.T) {
	x, y := &node{name: "x"}, &node{name: "y"}
	f := &sliceFeed[*node]{items: []*node{x}}
	a, err := collection.NewAdapter[*node](f)
	require.NoError(t, err)
	a.TrackItems(nodeNotifier)
	r := record[*node](t, a)

	f.apply(t, change.Added(0, y))
	r.take()

	x.set(7)
	changes := r.take()
	require.Len(t, changes, 1)
	assert.Equal(t, 1, changes[0].OldIndex)

	f.apply(t, change.Reset(y))
	r.take()
	assert.Equal(t, 0, x.PropertyObservers())

	a.Close()
	assert.Equal(t, 0, y.PropertyObservers())
}

func TestNewAdapter_NilFeed(t *testing.T) {
	_, err := collection.NewAdapter[int](nil)
	var invalid *errors.InvalidSourceError
	assert.True(t, stderrors.As(err, &invalid))
}

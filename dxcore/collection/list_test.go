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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/dxview/dxcore/collection"
	"dirpx.dev/dxview/dxcore/errors"
)

func TestList_Mutators(t *testing.T) {
	l := collection.NewList("a", "b", "c")
	r := record[string](t, l)

	require.NoError(t, l.Insert(1, "x", "y"))
	require.NoError(t, l.Set(0, "A"))
	require.NoError(t, l.RemoveAt(4))
	require.NoError(t, l.Move(0, 3))
	require.NoError(t, l.MoveRange(2, 2, 0))
	l.Append("z")

	assert.Equal(t, []string{
		"add [x y] at 1",
		"replace [a] -> [A] at 0",
		"remove [c] at 4",
		"move [A] 0->3",
		"move [b A] 2->0",
		"add [z] at 4",
	}, r.strings())
	assert.Equal(t, []string{"b", "A", "x", "y", "z"}, collection.Items[string](l))
	assert.Equal(t, "x", l.At(2))
	assert.Equal(t, 3, l.IndexFunc(func(s string) bool { return s == "y" }))
}

func TestList_Reset(t *testing.T) {
	l := collection.NewList(1, 2)
	r := record[int](t, l)

	l.Reset(3)
	assert.Equal(t, []string{"remove [1 2] at 0", "add [3] at 0"}, r.strings())

	l.Reset()
	assert.Equal(t, []string{"remove [3] at 0"}, r.strings())

	l.Reset()
	assert.Empty(t, r.strings())

	l.Reset(4, 5)
	assert.Equal(t, []string{"add [4 5] at 0"}, r.strings())
}

func TestList_EmptyBatchesAreSilent(t *testing.T) {
	l := collection.NewList(1, 2, 3)
	r := record[int](t, l)

	l.Append()
	require.NoError(t, l.RemoveRange(1, 0))
	require.NoError(t, l.ReplaceRange(2))
	require.NoError(t, l.MoveRange(0, 2, 0))
	assert.Empty(t, r.take())
}

func TestList_OutOfRange(t *testing.T) {
	tests := []struct {
		name string
		op   func(l *collection.List[int]) error
	}{
		{"insert past end", func(l *collection.List[int]) error { return l.Insert(4, 9) }},
		{"insert negative", func(l *collection.List[int]) error { return l.Insert(-1, 9) }},
		{"set past end", func(l *collection.List[int]) error { return l.Set(3, 9) }},
		{"replace overflow", func(l *collection.List[int]) error { return l.ReplaceRange(2, 8, 9) }},
		{"remove overflow", func(l *collection.List[int]) error { return l.RemoveRange(1, 3) }},
		{"move source overflow", func(l *collection.List[int]) error { return l.MoveRange(2, 2, 0) }},
		{"move target overflow", func(l *collection.List[int]) error { return l.MoveRange(0, 2, 2) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := collection.NewList(1, 2, 3)
			r := record[int](t, l)
			err := tt.op(l)
			var oor *errors.IndexOutOfRangeError
			require.True(t, stderrors.As(err, &oor), "error = %v", err)
			assert.Equal(t, 3, oor.Len)
			assert.Equal(t, []int{1, 2, 3}, collection.Items[int](l))
			assert.Empty(t, r.take())
		})
	}
}

// node is an element that signals its own property changes.
type node struct {
	collection.Properties
	name  string
	value int
}

func (n *node) set(v int) {
	n.value = v
	n.NotifyProperty(collection.PropertyValue)
}

func nodeNotifier(n *node) collection.PropertyNotifier { return n }

func TestList_TrackItems(t *testing.T) {
	a, b, c := &node{name: "a"}, &node{name: "b"}, &node{name: "c"}
	l := collection.NewList(a, b)
	l.TrackItems(nodeNotifier)
	r := record[*node](t, l)

	b.set(1)
	changes := r.take()
	require.Len(t, changes, 1)
	assert.Equal(t, 1, changes[0].OldIndex)
	assert.Same(t, b, changes[0].NewItems[0])

	require.NoError(t, l.Insert(0, c))
	require.NoError(t, l.Move(2, 0))
	r.take()

	// b moved to the front; the watcher follows it.
	b.set(2)
	changes = r.take()
	require.Len(t, changes, 1)
	assert.Equal(t, 0, changes[0].OldIndex)

	require.NoError(t, l.RemoveAt(0))
	r.take()
	b.set(3)
	assert.Empty(t, r.take(), "removed elements are no longer tracked")
	assert.Equal(t, 0, b.PropertyObservers())

	require.NoError(t, l.Set(0, b))
	assert.Equal(t, 0, c.PropertyObservers())
	assert.Equal(t, 1, b.PropertyObservers())

	l.TrackItems(nil)
	assert.Equal(t, 0, a.PropertyObservers())
	assert.Equal(t, 0, b.PropertyObservers())
}

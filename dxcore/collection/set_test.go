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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/dxview/dxcore/collection"
)

func firstByte(s string) byte { return s[0] }

func TestSet_PromotesDuplicate(t *testing.T) {
	src := collection.NewList("A", "B", "A", "C")
	v, err := collection.NewSet[string](src)
	require.NoError(t, err)
	r := record[string](t, v)
	assert.Equal(t, []string{"A", "B", "C"}, collection.Items[string](v))

	require.NoError(t, src.RemoveAt(0))
	assert.Equal(t, []string{"move [A] 0->1", "replace [A] -> [A] at 1"}, r.strings())
	assert.Equal(t, []string{"B", "A", "C"}, collection.Items[string](v))
}

func TestSet_Add(t *testing.T) {
	src := collection.NewList("a1", "b1")
	v, err := collection.NewSetFunc(src, firstByte)
	require.NoError(t, err)
	r := record[string](t, v)

	src.Append("a2")
	assert.Empty(t, r.take())

	require.NoError(t, src.Insert(0, "b2"))
	assert.Equal(t, []string{"move [b1] 1->0", "replace [b1] -> [b2] at 0"}, r.strings())

	src.Append("c1")
	assert.Equal(t, []string{"add [c1] at 2"}, r.strings())
	assert.Equal(t, []string{"b2", "a1", "c1"}, collection.Items[string](v))
	assert.True(t, v.Contains('c'))
	assert.False(t, v.Contains('d'))
}

func TestSet_Remove(t *testing.T) {
	src := collection.NewList("a1", "b1", "a2")
	v, err := collection.NewSetFunc(src, firstByte)
	require.NoError(t, err)
	r := record[string](t, v)

	require.NoError(t, src.RemoveAt(2))
	assert.Empty(t, r.take())

	require.NoError(t, src.RemoveAt(1))
	assert.Equal(t, []string{"remove [b1] at 1"}, r.strings())
}

func TestSet_Replace(t *testing.T) {
	src := collection.NewList("a1", "b1")
	v, err := collection.NewSetFunc(src, firstByte)
	require.NoError(t, err)
	r := record[string](t, v)

	require.NoError(t, src.Set(0, "c1"))
	assert.Equal(t, []string{"replace [a1] -> [c1] at 0"}, r.strings())

	require.NoError(t, src.Set(0, "c2"))
	assert.Equal(t, []string{"replace [c1] -> [c2] at 0"}, r.strings())

	require.NoError(t, src.Set(0, "b3"))
	assert.Equal(t, []string{"remove [c2] at 0", "replace [b1] -> [b3] at 0"}, r.strings())
	assert.Equal(t, []string{"b3"}, collection.Items[string](v))
}

func TestSet_MoveRuns(t *testing.T) {
	src := collection.NewList("a1", "b1", "a2", "c1", "b2", "d1")
	v, err := collection.NewSetFunc(src, firstByte)
	require.NoError(t, err)
	r := record[string](t, v)

	require.NoError(t, src.MoveRange(0, 2, 3))
	assert.Equal(t, []string{"a2", "c1", "b2", "a1", "b1", "d1"}, collection.Items[string](src))
	assert.Equal(t, []string{"a2", "c1", "b2", "d1"}, collection.Items[string](v))

	require.NoError(t, src.MoveRange(3, 3, 0))
	assert.Equal(t, []string{"a1", "b1", "d1", "a2", "c1", "b2"}, collection.Items[string](src))
	assert.Equal(t, []string{"a1", "b1", "d1", "c1"}, collection.Items[string](v))
	assert.NotEmpty(t, r.take())
}

func TestSet_NilPointerKeys(t *testing.T) {
	b := &box{1}
	src := collection.NewList[*box](nil, b, nil)
	v, err := collection.NewSet[*box](src)
	require.NoError(t, err)
	r := record[*box](t, v)
	assert.Equal(t, []*box{nil, b}, collection.Items[*box](v))
	assert.True(t, v.Contains(nil))

	require.NoError(t, src.RemoveAt(0))
	assert.Equal(t, []*box{b, nil}, collection.Items[*box](v))
	assert.Len(t, r.take(), 2)

	require.NoError(t, src.RemoveAt(1))
	assert.False(t, v.Contains(nil))
	assert.Equal(t, []*box{b}, collection.Items[*box](v))
}

func TestSet_SetKey(t *testing.T) {
	src := collection.NewList("a1", "a2", "b1")
	v, err := collection.NewSetFunc(src, func(s string) string { return s[:1] })
	require.NoError(t, err)
	r := record[string](t, v)
	var props []collection.Property
	collection.WatchProperty(v, func(p collection.Property) { props = append(props, p) })

	require.NoError(t, v.SetKey(func(s string) string { return s }))
	assert.Equal(t, []string{"remove [a1 b1] at 0", "add [a1 a2 b1] at 0"}, r.strings())
	assert.Equal(t, []collection.Property{collection.PropertyKey}, props)
	assert.Error(t, v.SetKey(nil))
}

func TestSet_Close(t *testing.T) {
	src := newStub(1, 1, 2)
	v, err := collection.NewSet[int](src)
	require.NoError(t, err)
	assert.Equal(t, 1, src.subs)

	v.Close()
	assert.Equal(t, 0, src.subs)
	assert.Error(t, v.SetSource(src))
}

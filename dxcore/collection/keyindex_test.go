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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyIndex_Rank(t *testing.T) {
	var x keyIndex[string]
	x.reset([]string{"a", "b", "a", "c", "b", "d"})

	tests := []struct {
		j    int
		want int
	}{
		{0, 0}, {1, 1}, {2, 2}, {3, 2}, {4, 3}, {5, 3}, {6, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, x.rank(tt.j), "rank(%d)", tt.j)
	}
	assert.Equal(t, 4, x.distinct())
	assert.Equal(t, 2, x.count("a"))
	assert.Equal(t, 3, x.first("c"))
	assert.Equal(t, -1, x.first("z"))
}

func TestKeyIndex_Mutations(t *testing.T) {
	var x keyIndex[int]
	x.reset(nil)

	x.insert(0, 1)
	x.insert(1, 2)
	x.insert(0, 2)
	assert.Equal(t, []int{2, 1, 2}, x.keys)
	assert.Equal(t, 2, x.count(2))
	assert.Equal(t, 2, x.rank(3))

	x.move(0, 2)
	assert.Equal(t, []int{1, 2, 2}, x.keys)
	assert.Equal(t, 1, x.first(2))

	x.set(2, 3)
	assert.Equal(t, []int{1, 2, 3}, x.keys)
	assert.Equal(t, 1, x.count(2))
	assert.Equal(t, 3, x.rank(3), "all keys distinct")

	x.delete(1)
	x.delete(0)
	assert.Equal(t, []int{3}, x.keys)
	assert.Zero(t, x.count(1))
	assert.Zero(t, x.count(2))
	assert.Equal(t, 1, x.distinct())
}

func TestKeyIndex_RankReusesScratch(t *testing.T) {
	var x keyIndex[int]
	x.reset([]int{1, 2, 1, 3, 2, 4, 5, 1})
	assert.Equal(t, 5, x.rank(8))

	allocs := testing.AllocsPerRun(50, func() { _ = x.rank(8) })
	assert.Zero(t, allocs)
}

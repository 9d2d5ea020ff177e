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
	"cmp"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"dirpx.dev/dxview/dxcore/collection"
)

func distinct[T any, K comparable](items []T, key func(T) K) []T {
	var out []T
	seen := map[K]bool{}
	for _, x := range items {
		if k := key(x); !seen[k] {
			seen[k] = true
			out = append(out, x)
		}
	}
	return out
}

func keep[T any](items []T, pred func(T) bool) []T {
	var out []T
	for _, x := range items {
		if pred(x) {
			out = append(out, x)
		}
	}
	return out
}

func mod3(i int) int { return i % 3 }

// TestViews_MatchRecompute drives random mutations through a pipeline of
// views and compares every view with its content computed from scratch.
func TestViews_MatchRecompute(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprint(seed), func(t *testing.T) {
			r := newRand(seed)
			src := collection.NewList(values(r, r.IntN(8))...)

			expanders := make([]*collection.Expander[int], 8)
			for i := range expanders {
				expanders[i] = collection.NewExpander[int](collection.NewList(100+i, 200+i))
				expanders[i].SetExpanded(i%2 == 0)
			}

			filtered, err := collection.NewFiltered[int](src, even)
			require.NoError(t, err)
			sorted, err := collection.NewSorted[int](src, cmp.Compare[int])
			require.NoError(t, err)
			set, err := collection.NewSet[int](src)
			require.NoError(t, err)
			conv, err := collection.NewConverter[int](src, func(i int) string { return fmt.Sprint(i * 10) })
			require.NoError(t, err)
			sep, err := collection.NewSeparator[int](src, -1)
			require.NoError(t, err)
			concat, err := collection.NewConcatenated([]collection.Collection[int]{src, filtered, src})
			require.NoError(t, err)
			grouped, err := collection.NewGrouped[int](src, mod3)
			require.NoError(t, err)
			ext, err := collection.NewExtendable[int](src, func(i int) collection.Expandable[int] { return expanders[i] })
			require.NoError(t, err)
			sortedSet, err := collection.NewSorted[int](set, func(a, b int) int { return cmp.Compare(b, a) })
			require.NoError(t, err)

			record[int](t, filtered)
			record[int](t, sorted)
			record[int](t, set)
			record[string](t, conv)
			record[int](t, sep)
			record[int](t, concat)
			record[*collection.Group[int, int]](t, grouped)
			record[int](t, ext)
			record[int](t, sortedSet)

			for step := range 60 {
				if r.IntN(5) == 0 {
					expanders[r.IntN(8)].Toggle()
				} else {
					mutate(t, r, src)
				}

				items := collection.Items[int](src)
				msg := fmt.Sprintf("step %d source %v", step, items)

				sameItems(t, keep(items, even), collection.Items[int](filtered), msg)

				wantSorted := slices.Clone(items)
				slices.Sort(wantSorted)
				sameItems(t, wantSorted, collection.Items[int](sorted), msg)

				wantSet := distinct(items, func(i int) int { return i })
				sameItems(t, wantSet, collection.Items[int](set), msg)

				wantDesc := slices.Clone(wantSet)
				slices.SortFunc(wantDesc, func(a, b int) int { return cmp.Compare(b, a) })
				sameItems(t, wantDesc, collection.Items[int](sortedSet), msg)

				var wantConv []string
				var wantSep []int
				var wantExt []int
				for i, x := range items {
					wantConv = append(wantConv, fmt.Sprint(x*10))
					if i > 0 {
						wantSep = append(wantSep, -1)
					}
					wantSep = append(wantSep, x)
					wantExt = append(wantExt, x)
					if expanders[x].Expanded() {
						wantExt = append(wantExt, collection.Items(expanders[x].Children())...)
					}
				}
				sameItems(t, wantConv, collection.Items[string](conv), msg)
				sameItems(t, wantSep, collection.Items[int](sep), msg)
				sameItems(t, wantExt, collection.Items[int](ext), msg)

				wantConcat := slices.Concat(items, keep(items, even), items)
				sameItems(t, wantConcat, collection.Items[int](concat), msg)

				var keys []int
				for g := range grouped.All() {
					keys = append(keys, g.Key())
					want := keep(items, func(i int) bool { return mod3(i) == g.Key() })
					sameItems(t, want, collection.Items(g.Items()), msg)
				}
				sameItems(t, distinctKeys(items), keys, msg)
			}
		})
	}
}

func distinctKeys(items []int) []int {
	var out []int
	for _, x := range distinct(items, mod3) {
		out = append(out, mod3(x))
	}
	return out
}

// TestViews_ResyncOnRawReset checks that every view reloads from a source
// that publishes a raw Reset.
func TestViews_ResyncOnRawReset(t *testing.T) {
	src := &rawSource[int]{items: []int{3, 1, 2, 1}}

	filtered, err := collection.NewFiltered[int](src, even)
	require.NoError(t, err)
	sorted, err := collection.NewSorted[int](src, cmp.Compare[int])
	require.NoError(t, err)
	set, err := collection.NewSet[int](src)
	require.NoError(t, err)
	sep, err := collection.NewSeparator[int](src, 0)
	require.NoError(t, err)
	grouped, err := collection.NewGrouped[int](src, mod3)
	require.NoError(t, err)

	views := []collection.Collection[int]{filtered, sorted, set, sep}
	for _, v := range views {
		record[int](t, v)
	}
	record[*collection.Group[int, int]](t, grouped)

	src.reset(4, 4, 6)

	sameItems(t, []int{4, 4, 6}, collection.Items[int](filtered))
	sameItems(t, []int{4, 4, 6}, collection.Items[int](sorted))
	sameItems(t, []int{4, 6}, collection.Items[int](set))
	sameItems(t, []int{4, 0, 4, 0, 6}, collection.Items[int](sep))
	require.Equal(t, 2, grouped.Len())
	sameItems(t, []int{4, 4}, collection.Items(grouped.Group(1).Items()))
	sameItems(t, []int{6}, collection.Items(grouped.Group(0).Items()))
}

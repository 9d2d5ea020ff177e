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

// keyIndex mirrors the keys of a source in order and counts the occurrences
// of each key. Set and Grouped use it to find the first occurrence of a key
// and the view position of that occurrence.
//
// The zero value is not usable; call reset first.
type keyIndex[K comparable] struct {
	keys   []K
	counts map[K]int
	seen   map[K]struct{}
}

func (x *keyIndex[K]) reset(keys []K) {
	x.keys = keys
	x.counts = make(map[K]int, len(keys))
	for _, k := range keys {
		x.counts[k]++
	}
}

func (x *keyIndex[K]) len() int { return len(x.keys) }

func (x *keyIndex[K]) at(j int) K { return x.keys[j] }

func (x *keyIndex[K]) count(k K) int { return x.counts[k] }

// distinct returns the number of different keys.
func (x *keyIndex[K]) distinct() int { return len(x.counts) }

// first returns the index of the first occurrence of k, or -1.
func (x *keyIndex[K]) first(k K) int {
	if x.counts[k] == 0 {
		return -1
	}
	return slices.Index(x.keys, k)
}

func (x *keyIndex[K]) insert(j int, k K) {
	x.keys = slices.Insert(x.keys, j, k)
	x.counts[k]++
}

func (x *keyIndex[K]) delete(j int) {
	k := x.keys[j]
	x.keys = slices.Delete(x.keys, j, j+1)
	x.release(k)
}

func (x *keyIndex[K]) set(j int, k K) {
	x.release(x.keys[j])
	x.keys[j] = k
	x.counts[k]++
}

// move moves the key at from so that it ends up at to.
func (x *keyIndex[K]) move(from, to int) {
	k := x.keys[from]
	x.keys = slices.Insert(slices.Delete(x.keys, from, from+1), to, k)
}

func (x *keyIndex[K]) release(k K) {
	if x.counts[k] <= 1 {
		delete(x.counts, k)
		return
	}
	x.counts[k]--
}

// rank returns the number of first occurrences before index j, which is the
// view position of a first occurrence at j.
func (x *keyIndex[K]) rank(j int) int {
	if len(x.counts) == len(x.keys) {
		return j
	}
	if x.seen == nil {
		x.seen = make(map[K]struct{}, len(x.counts))
	} else {
		clear(x.seen)
	}
	n := 0
	for _, k := range x.keys[:j] {
		if _, dup := x.seen[k]; dup {
			continue
		}
		x.seen[k] = struct{}{}
		n++
		if n == len(x.counts) {
			break
		}
	}
	return n
}

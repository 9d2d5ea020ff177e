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

// Package change describes mutations of ordered sequences.
//
// A Change is the unit of notification exchanged between live collections:
// a source tells its observers what happened by publishing one Change per
// mutation, and every derived view translates the Changes it receives into
// Changes of its own sequence.
//
// # Index conventions
//
// OldIndex refers to the sequence before the mutation, NewIndex to the
// sequence after it. For a Move, NewIndex is the position of the first moved
// element once the move has happened: remove the run at OldIndex, then
// insert it at NewIndex of the shortened sequence. Indices that do not apply
// to an action are -1.
//
// A Change can be replayed onto a plain slice with Apply, which is how tests
// and tools mirror a notification stream:
//
//	buf := slices.Collect(view.All())
//	collection.Watch(view, func(c change.Change[string]) {
//	    buf, _ = c.Apply(buf)
//	})
package change

import (
	"fmt"
	"slices"

	"dirpx.dev/dxview/dxcore/errors"
	"dirpx.dev/dxview/dxcore/model"
)

// Change is a single mutation of an ordered sequence of T.
type Change[T any] struct {
	// Action is the kind of mutation.
	Action Action `json:"action" yaml:"action"`

	// OldItems holds the removed, replaced or moved elements.
	OldItems []T `json:"oldItems,omitempty" yaml:"oldItems,omitempty"`

	// NewItems holds the added or replacing elements, the moved elements
	// for a Move, and the whole content for a Reset.
	NewItems []T `json:"newItems,omitempty" yaml:"newItems,omitempty"`

	// OldIndex is the first affected index in the sequence before the
	// mutation, or -1.
	OldIndex int `json:"oldIndex" yaml:"oldIndex"`

	// NewIndex is the first affected index in the sequence after the
	// mutation, or -1.
	NewIndex int `json:"newIndex" yaml:"newIndex"`
}

// Added describes items inserted at index.
func Added[T any](index int, items ...T) Change[T] {
	return Change[T]{Action: ActionAdd, NewItems: items, OldIndex: -1, NewIndex: index}
}

// Removed describes items removed from index.
func Removed[T any](index int, items ...T) Change[T] {
	return Change[T]{Action: ActionRemove, OldItems: items, OldIndex: index, NewIndex: -1}
}

// Replaced describes the run at index changing from oldItems to newItems.
func Replaced[T any](index int, oldItems, newItems []T) Change[T] {
	return Change[T]{Action: ActionReplace, OldItems: oldItems, NewItems: newItems, OldIndex: index, NewIndex: index}
}

// Moved describes items moving from index from to index to.
func Moved[T any](from, to int, items ...T) Change[T] {
	return Change[T]{Action: ActionMove, OldItems: items, NewItems: items, OldIndex: from, NewIndex: to}
}

// Reset describes the whole content being replaced by items.
func Reset[T any](items ...T) Change[T] {
	return Change[T]{Action: ActionReset, NewItems: items, OldIndex: -1, NewIndex: -1}
}

// Len returns the number of elements the change touches: the new content
// for Add and Reset, the old run otherwise.
func (c Change[T]) Len() int {
	switch c.Action {
	case ActionAdd, ActionReset:
		return len(c.NewItems)
	default:
		return len(c.OldItems)
	}
}

// Validate checks the structural invariants of the change for its action.
// It does not know the length of the target sequence; Apply checks ranges.
func (c Change[T]) Validate() error {
	invalid := func(field, reason string, value any) error {
		return &errors.ValidationError{Type: "Change", Field: field, Reason: reason, Value: value}
	}

	if err := c.Action.Validate(); err != nil {
		return err
	}

	switch c.Action {
	case ActionAdd:
		if len(c.NewItems) == 0 {
			return invalid("NewItems", "must not be empty for add", nil)
		}
		if c.NewIndex < 0 {
			return invalid("NewIndex", "must not be negative", c.NewIndex)
		}
	case ActionRemove:
		if len(c.OldItems) == 0 {
			return invalid("OldItems", "must not be empty for remove", nil)
		}
		if c.OldIndex < 0 {
			return invalid("OldIndex", "must not be negative", c.OldIndex)
		}
	case ActionReplace:
		if len(c.OldItems) == 0 || len(c.OldItems) != len(c.NewItems) {
			return invalid("NewItems", "must match OldItems in length for replace", len(c.NewItems))
		}
		if c.OldIndex < 0 || c.OldIndex != c.NewIndex {
			return invalid("OldIndex", "must equal NewIndex and not be negative for replace", c.OldIndex)
		}
	case ActionMove:
		if len(c.OldItems) == 0 || len(c.OldItems) != len(c.NewItems) {
			return invalid("NewItems", "must match OldItems in length for move", len(c.NewItems))
		}
		if c.OldIndex < 0 || c.NewIndex < 0 {
			return invalid("OldIndex", "indices must not be negative for move", c.OldIndex)
		}
	}

	return nil
}

// Apply replays the change onto buf and returns the updated slice.
//
// Apply may reuse buf's storage, as append does. It returns a
// *errors.IndexOutOfRangeError, leaving buf unchanged, when the change does
// not fit buf.
func (c Change[T]) Apply(buf []T) ([]T, error) {
	switch c.Action {
	case ActionAdd:
		if err := errors.CheckRange("Change.Apply(add)", c.NewIndex, 0, len(buf)); err != nil {
			return buf, err
		}
		return slices.Insert(buf, c.NewIndex, c.NewItems...), nil

	case ActionRemove:
		n := len(c.OldItems)
		if err := errors.CheckRange("Change.Apply(remove)", c.OldIndex, n, len(buf)); err != nil {
			return buf, err
		}
		return slices.Delete(buf, c.OldIndex, c.OldIndex+n), nil

	case ActionReplace:
		if err := errors.CheckRange("Change.Apply(replace)", c.OldIndex, len(c.NewItems), len(buf)); err != nil {
			return buf, err
		}
		copy(buf[c.OldIndex:], c.NewItems)
		return buf, nil

	case ActionMove:
		n := len(c.OldItems)
		if err := errors.CheckRange("Change.Apply(move)", c.OldIndex, n, len(buf)); err != nil {
			return buf, err
		}
		if err := errors.CheckRange("Change.Apply(move)", c.NewIndex, n, len(buf)); err != nil {
			return buf, err
		}
		run := slices.Clone(buf[c.OldIndex : c.OldIndex+n])
		buf = slices.Delete(buf, c.OldIndex, c.OldIndex+n)
		return slices.Insert(buf, c.NewIndex, run...), nil

	case ActionReset:
		return append(buf[:0], c.NewItems...), nil
	}

	return buf, c.Action.Validate()
}

// TypeName returns "Change".
func (c Change[T]) TypeName() string {
	return "Change"
}

// IsZero reports whether c is the zero Change.
func (c Change[T]) IsZero() bool {
	return c.Action.IsZero() && len(c.OldItems) == 0 && len(c.NewItems) == 0 &&
		c.OldIndex == 0 && c.NewIndex == 0
}

// String renders the change compactly, for example "add [x y] at 2" or
// "move [a] 0->3".
func (c Change[T]) String() string {
	switch c.Action {
	case ActionAdd:
		return fmt.Sprintf("add %v at %d", c.NewItems, c.NewIndex)
	case ActionRemove:
		return fmt.Sprintf("remove %v at %d", c.OldItems, c.OldIndex)
	case ActionReplace:
		return fmt.Sprintf("replace %v -> %v at %d", c.OldItems, c.NewItems, c.OldIndex)
	case ActionMove:
		return fmt.Sprintf("move %v %d->%d", c.OldItems, c.OldIndex, c.NewIndex)
	case ActionReset:
		return fmt.Sprintf("reset %v", c.NewItems)
	default:
		return "unknown change"
	}
}

// Redacted returns the action and the affected range without the items.
func (c Change[T]) Redacted() string {
	switch c.Action {
	case ActionAdd:
		return fmt.Sprintf("add %d at %d", c.Len(), c.NewIndex)
	case ActionRemove, ActionReplace:
		return fmt.Sprintf("%s %d at %d", c.Action, c.Len(), c.OldIndex)
	case ActionMove:
		return fmt.Sprintf("move %d %d->%d", c.Len(), c.OldIndex, c.NewIndex)
	default:
		return c.Action.String()
	}
}

var _ model.Checked = Change[int]{}
